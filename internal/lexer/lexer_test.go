package lexer

import (
	"reflect"
	"testing"

	"github.com/aldenmoor/typeforge/internal/model"
)

func TestModeForFile(t *testing.T) {
	cases := map[string]Mode{
		"main.go":    ModeCFamily,
		"script.py":  ModePython,
		"Widget.TSX": ModeCFamily,
		"README.md":  ModeNone,
		"noext":      ModeNone,
	}
	for name, want := range cases {
		if got := ModeForFile(name); got != want {
			t.Errorf("ModeForFile(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestParseCommentRangesCFamilyLineComment(t *testing.T) {
	got := ParseCommentRanges("a //b\nc", "x.ts")
	want := []model.TextRange{{Start: 2, End: 5}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestParseCommentRangesPythonStringThenComment(t *testing.T) {
	got := ParseCommentRanges("s = '# not a comment'\n# yes", "x.py")
	want := []model.TextRange{{Start: 22, End: 27}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestParseCommentRangesCFamilyBlockComment(t *testing.T) {
	got := ParseCommentRanges("a /* b\nc */ d", "x.c")
	want := []model.TextRange{{Start: 2, End: 11}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestParseCommentRangesCFamilyUnterminatedBlockClosesAtEOF(t *testing.T) {
	text := "a /* never closes"
	got := ParseCommentRanges(text, "x.go")
	want := []model.TextRange{{Start: 2, End: len(text)}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestParseCommentRangesCFamilyStringHidesDelimiters(t *testing.T) {
	got := ParseCommentRanges(`x := "// not a comment"`, "x.go")
	if got != nil {
		t.Fatalf("expected no comment ranges, got %v", got)
	}
}

func TestParseCommentRangesCFamilyEscapedQuoteDoesNotEndString(t *testing.T) {
	got := ParseCommentRanges(`x := "a\" // still string" // real`, "x.go")
	want := []model.TextRange{{Start: 27, End: 34}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestParseCommentRangesCFamilyNewlineDoesNotEndQuote(t *testing.T) {
	text := "x := \"a\nb\" // c"
	got := ParseCommentRanges(text, "x.go")
	want := []model.TextRange{{Start: 11, End: 15}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestParseCommentRangesPythonTripleQuote(t *testing.T) {
	got := ParseCommentRanges(`x = 1
"""
a docstring
"""
y = 2`, "x.py")
	want := []model.TextRange{{Start: 6, End: 25}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestParseCommentRangesPythonUnterminatedTripleClosesAtEOF(t *testing.T) {
	text := "'''never closes"
	got := ParseCommentRanges(text, "x.py")
	want := []model.TextRange{{Start: 0, End: len(text)}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestParseCommentRangesUnknownExtensionReturnsEmpty(t *testing.T) {
	got := ParseCommentRanges("// not a comment here", "x.md")
	if got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestParseCommentRangesNonOverlappingSourceOrder(t *testing.T) {
	got := ParseCommentRanges("// one\ncode\n// two\nmore /* three */", "x.go")
	if len(got) != 3 {
		t.Fatalf("expected 3 ranges, got %d: %v", len(got), got)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Start < got[i-1].End {
			t.Fatalf("ranges overlap or out of order: %v", got)
		}
	}
	for _, r := range got {
		if r.End <= r.Start {
			t.Fatalf("range does not satisfy end > start: %v", r)
		}
	}
}
