package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aldenmoor/typeforge/internal/model"
)

func TestLoadHistoryMissingFileIsEmpty(t *testing.T) {
	doc, err := LoadHistory(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.SchemaVersion != currentSchemaVersion || len(doc.Attempts) != 0 {
		t.Fatalf("unexpected doc: %+v", doc)
	}
}

func TestLoadHistoryCoercesBareArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	if err := os.WriteFile(path, []byte(`[{"id":1,"filePath":"a.go"}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	doc, err := LoadHistory(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.SchemaVersion != currentSchemaVersion || len(doc.Attempts) != 1 {
		t.Fatalf("unexpected doc: %+v", doc)
	}
}

func TestLoadHistoryCoercesMissingVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	if err := os.WriteFile(path, []byte(`{"attempts":[{"id":1,"filePath":"a.go"}]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	doc, err := LoadHistory(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.SchemaVersion != currentSchemaVersion || len(doc.Attempts) != 1 {
		t.Fatalf("unexpected doc: %+v", doc)
	}
}

func TestLoadHistoryCoercesMalformedDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	if err := os.WriteFile(path, []byte(`not json`), 0o644); err != nil {
		t.Fatal(err)
	}
	doc, err := LoadHistory(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.SchemaVersion != currentSchemaVersion || len(doc.Attempts) != 0 {
		t.Fatalf("unexpected doc: %+v", doc)
	}
}

func TestSaveHistoryRoundTripsAndIsAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.json")
	doc := model.PersistedDocument{
		SchemaVersion: 1,
		Attempts: []model.Attempt{
			{ID: 1, FilePath: "a.go", FileName: "a.go", CorrectChars: 42},
		},
	}
	if err := SaveHistory(path, doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".json" && e.Name() != "history.json" {
			t.Fatalf("leftover temp file: %s", e.Name())
		}
	}

	got, err := LoadHistory(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Attempts) != 1 || got.Attempts[0].FilePath != "a.go" || got.Attempts[0].CorrectChars != 42 {
		t.Fatalf("unexpected round-tripped doc: %+v", got)
	}
}

func TestSaveHistoryStampsSchemaVersionWhenUnset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	if err := SaveHistory(path, model.PersistedDocument{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := LoadHistory(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.SchemaVersion != currentSchemaVersion {
		t.Fatalf("schemaVersion = %d, want %d", got.SchemaVersion, currentSchemaVersion)
	}
}
