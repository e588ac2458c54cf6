package engine

import (
	"testing"

	"github.com/aldenmoor/typeforge/internal/model"
)

func TestAllCorrectSegment(t *testing.T) {
	e := New("abc", 3, false, nil, false)
	for _, ch := range "abc" {
		e.HandleKey(ch)
	}
	if e.Incorrect() != 0 || e.Collateral() != 0 || e.Backspaces() != 0 {
		t.Fatalf("unexpected counters: incorrect=%d collateral=%d backspaces=%d", e.Incorrect(), e.Collateral(), e.Backspaces())
	}
	if e.CorrectChars() != 3 || e.Cursor() != 3 || !e.IsComplete() {
		t.Fatalf("unexpected state: correctChars=%d cursor=%d complete=%v", e.CorrectChars(), e.Cursor(), e.IsComplete())
	}
	want := []model.Mark{model.Correct, model.Correct, model.Correct}
	for i, m := range want {
		if e.Mark(i) != m {
			t.Fatalf("mark[%d] = %v, want %v", i, e.Mark(i), m)
		}
	}
}

func TestSlackWithinBound(t *testing.T) {
	e := New("abcd", 3, false, nil, false)
	for _, ch := range "xbcd" {
		e.HandleKey(ch)
	}
	if e.Incorrect() != 1 || e.Collateral() != 3 || e.Locked() || !e.ErrorActive() {
		t.Fatalf("unexpected counters: incorrect=%d collateral=%d locked=%v errorActive=%v",
			e.Incorrect(), e.Collateral(), e.Locked(), e.ErrorActive())
	}
	if e.FirstErrorIndex() != 0 || e.Cursor() != 4 {
		t.Fatalf("unexpected firstErrorIndex=%d cursor=%d", e.FirstErrorIndex(), e.Cursor())
	}
	want := []model.Mark{model.Incorrect, model.Collateral, model.Collateral, model.Collateral}
	for i, m := range want {
		if e.Mark(i) != m {
			t.Fatalf("mark[%d] = %v, want %v", i, e.Mark(i), m)
		}
	}
}

func TestExceedingSlackLocks(t *testing.T) {
	e := New("abcdef", 2, false, nil, false)
	for _, ch := range "xbcd" {
		e.HandleKey(ch)
	}
	if !e.Locked() || e.Cursor() != 3 {
		t.Fatalf("after d: locked=%v cursor=%d, want locked=true cursor=3", e.Locked(), e.Cursor())
	}
	e.HandleKey('e')
	if e.Cursor() != 3 || e.TypedKeystrokes() != 5 {
		t.Fatalf("after e: cursor=%d typedKeystrokes=%d, want cursor=3 typedKeystrokes=5", e.Cursor(), e.TypedKeystrokes())
	}
	e.HandleBackspace()
	if e.Locked() || e.Cursor() != 2 || e.Backspaces() != 1 || e.Mark(2) != model.Untouched {
		t.Fatalf("after backspace: locked=%v cursor=%d backspaces=%d mark[2]=%v",
			e.Locked(), e.Cursor(), e.Backspaces(), e.Mark(2))
	}
}

func TestAutoSkipBlankLines(t *testing.T) {
	e := New("\n\nP", 3, true, nil, false)
	e.HandleKey('\n')
	if e.Cursor() != 2 {
		t.Fatalf("cursor = %d, want 2", e.Cursor())
	}
	if e.CorrectChars() != 1 || e.TypedKeystrokes() != 1 {
		t.Fatalf("correctChars=%d typedKeystrokes=%d, want 1 and 1", e.CorrectChars(), e.TypedKeystrokes())
	}
	if e.Mark(0) != model.Correct || e.Mark(1) != model.Correct {
		t.Fatalf("marks[0..1] = %v, %v, want CORRECT, CORRECT", e.Mark(0), e.Mark(1))
	}
}

func TestSkipOverComment(t *testing.T) {
	e := New("a/*c*/b", 3, false, []model.TextRange{{Start: 1, End: 6}}, false)
	e.HandleKey('a')
	if e.Cursor() != 6 {
		t.Fatalf("after a: cursor=%d, want 6", e.Cursor())
	}
	e.HandleKey('b')
	if e.Cursor() != 7 || !e.IsComplete() || e.CorrectChars() != 2 || e.TypedKeystrokes() != 2 {
		t.Fatalf("after b: cursor=%d complete=%v correctChars=%d typedKeystrokes=%d",
			e.Cursor(), e.IsComplete(), e.CorrectChars(), e.TypedKeystrokes())
	}
}

func TestSlackExcludesSkippedRanges(t *testing.T) {
	e := New("a/*c*/b", 1, false, []model.TextRange{{Start: 1, End: 6}}, false)
	e.HandleKey('x')
	if !e.ErrorActive() || e.FirstErrorIndex() != 0 || e.Cursor() != 6 || e.Locked() {
		t.Fatalf("after x: errorActive=%v firstErrorIndex=%d cursor=%d locked=%v",
			e.ErrorActive(), e.FirstErrorIndex(), e.Cursor(), e.Locked())
	}
	e.HandleKey('b')
	if e.Collateral() != 1 || e.Cursor() != 7 || e.Locked() {
		t.Fatalf("after b: collateral=%d cursor=%d locked=%v", e.Collateral(), e.Cursor(), e.Locked())
	}
}

func TestEmptyTextIsImmediatelyComplete(t *testing.T) {
	e := New("", 3, false, nil, false)
	if !e.IsComplete() || e.TypeableChars() != 0 {
		t.Fatalf("complete=%v typeableChars=%d, want true and 0", e.IsComplete(), e.TypeableChars())
	}
}

func TestAllSkipSegmentCompletesOnSkipForward(t *testing.T) {
	e := New("abc", 3, false, []model.TextRange{{Start: 0, End: 3}}, false)
	if !e.IsComplete() {
		t.Fatalf("expected immediate completion for an all-skip segment")
	}
}

func TestBackspaceUndoesMatchingKeystroke(t *testing.T) {
	e := New("abc", 3, false, nil, false)
	e.HandleKey('a')
	before := e.CorrectChars()
	e.HandleKey('b')
	e.HandleBackspace()
	if e.CorrectChars() != before {
		t.Fatalf("correctChars=%d, want %d after key-then-backspace", e.CorrectChars(), before)
	}
	if e.Cursor() != 1 || e.TypedEnd() != 1 || e.Mark(1) != model.Untouched {
		t.Fatalf("cursor=%d typedEnd=%d mark[1]=%v", e.Cursor(), e.TypedEnd(), e.Mark(1))
	}
	if e.TypedKeystrokes() != 3 || e.Backspaces() != 1 {
		t.Fatalf("typedKeystrokes=%d backspaces=%d, want 3 and 1", e.TypedKeystrokes(), e.Backspaces())
	}
}

func TestLockedKeystrokesStillCounted(t *testing.T) {
	e := New("ab", 0, false, nil, false)
	e.HandleKey('x')
	e.HandleKey('y')
	if !e.Locked() {
		t.Fatalf("expected locked after exceeding zero slack")
	}
	before := e.TypedKeystrokes()
	e.HandleKey('z')
	if e.TypedKeystrokes() != before+1 {
		t.Fatalf("expected locked keystroke to still be counted")
	}
}
