package source

import (
	"os"
	"path/filepath"
	"testing"
	"unicode/utf8"
)

func TestLoadReadsPlainUTF8(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.go")
	if err := os.WriteFile(path, []byte("package main\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "package main\n" {
		t.Fatalf("got %q", got)
	}
}

func TestLoadReplacesInvalidBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.go")
	if err := os.WriteFile(path, []byte{'a', 0xff, 'b'}, 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !utf8.ValidString(got) {
		t.Fatalf("expected valid UTF-8 output, got %q", got)
	}
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.go")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestExtension(t *testing.T) {
	cases := map[string]string{
		"main.go":       "go",
		"script.PY":     "py",
		"README":        "",
		"a/b/c.test.ts": "ts",
	}
	for path, want := range cases {
		if got := Extension(path); got != want {
			t.Fatalf("Extension(%q) = %q, want %q", path, got, want)
		}
	}
}

