package tui

import (
	"strings"
	"testing"

	"github.com/aldenmoor/typeforge/internal/model"
)

func TestBuildStyledRunesStylesByMark(t *testing.T) {
	text := "ab"
	marks := []model.Mark{model.Correct, model.Incorrect}

	runes := buildStyledRunes(text, marks, -1, false)
	if len(runes) != 2 {
		t.Fatalf("expected 2 runes, got %d", len(runes))
	}
	if runes[0].s != correctStyle.Render("a") {
		t.Fatalf("expected correct style for first rune")
	}
	if runes[1].s != incorrectStyle.Render("b") {
		t.Fatalf("expected incorrect style for second rune")
	}
}

func TestBuildStyledRunesUnderlinesCursor(t *testing.T) {
	text := "ab"
	marks := []model.Mark{model.Correct, model.Untouched}

	runes := buildStyledRunes(text, marks, 1, false)
	if runes[1].s != pendingStyle.Underline(true).Render("b") {
		t.Fatalf("expected underlined pending style at cursor")
	}
}

func TestBuildStyledRunesLockedCursor(t *testing.T) {
	text := "ab"
	marks := []model.Mark{model.Correct, model.Incorrect}

	runes := buildStyledRunes(text, marks, 1, true)
	if runes[1].s != lockedStyle.Render("b") {
		t.Fatalf("expected locked style at cursor when engine is locked")
	}
}

func TestBuildStyledRunesNewlineHasNoGlyph(t *testing.T) {
	text := "a\nb"
	marks := []model.Mark{model.Correct, model.Correct, model.Untouched}

	runes := buildStyledRunes(text, marks, -1, false)
	if len(runes) != 3 {
		t.Fatalf("expected 3 runes, got %d", len(runes))
	}
	if !runes[1].isNewline {
		t.Fatalf("expected second rune to be a newline marker")
	}
	if runes[1].s != "" {
		t.Fatalf("expected no glyph for newline, got %q", runes[1].s)
	}
}

func TestWrapStyledRunesBreaksOnNewline(t *testing.T) {
	text := "ab\ncd"
	marks := []model.Mark{model.Correct, model.Correct, model.Correct, model.Correct, model.Correct}

	runes := buildStyledRunes(text, marks, -1, false)
	wrapped := wrapStyledRunes(runes, 80)
	lines := strings.Split(wrapped, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), wrapped)
	}
}

func TestWrapStyledRunesSoftWrapsAtWidth(t *testing.T) {
	text := "abcdef"
	marks := make([]model.Mark, len(text))
	for i := range marks {
		marks[i] = model.Correct
	}

	runes := buildStyledRunes(text, marks, -1, false)
	wrapped := wrapStyledRunes(runes, 3)
	lines := strings.Split(wrapped, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 wrapped lines, got %d: %q", len(lines), wrapped)
	}
}
