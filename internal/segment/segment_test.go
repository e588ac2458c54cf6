package segment

import (
	"strings"
	"testing"

	"github.com/aldenmoor/typeforge/internal/model"
)

func TestSplitSingleSegmentWhenUnderCaps(t *testing.T) {
	text := "line one\nline two\nline three"
	segs := Split(text, 10, 1000, nil)
	if len(segs) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segs))
	}
	s := segs[0]
	if s.StartLine != 1 || s.EndLine != 3 {
		t.Fatalf("unexpected line range: %d..%d", s.StartLine, s.EndLine)
	}
	if s.Text != text {
		t.Fatalf("expected full text, got %q", s.Text)
	}
	if s.StartOffset != 0 || s.EndOffset != len(text) {
		t.Fatalf("unexpected offsets: %d..%d", s.StartOffset, s.EndOffset)
	}
}

func TestSplitByLineCount(t *testing.T) {
	text := "a\nb\nc\nd"
	segs := Split(text, 2, 1000, nil)
	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d: %+v", len(segs), segs)
	}
	if segs[0].Text != "a\nb" || segs[0].StartLine != 1 || segs[0].EndLine != 2 {
		t.Fatalf("unexpected first segment: %+v", segs[0])
	}
	if segs[1].Text != "c\nd" || segs[1].StartLine != 3 || segs[1].EndLine != 4 {
		t.Fatalf("unexpected second segment: %+v", segs[1])
	}
}

func TestSplitByCharCap(t *testing.T) {
	text := "aaaa\nbbbb\ncccc"
	segs := Split(text, 100, 9, nil)
	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d: %+v", len(segs), segs)
	}
	if segs[0].Text != "aaaa\nbbbb" {
		t.Fatalf("unexpected first segment text: %q", segs[0].Text)
	}
	if segs[1].Text != "cccc" {
		t.Fatalf("unexpected second segment text: %q", segs[1].Text)
	}
}

func TestSplitOversizeLineProducesCharCappedSlices(t *testing.T) {
	line := strings.Repeat("x", 25)
	segs := Split(line, 10, 10, nil)
	if len(segs) != 3 {
		t.Fatalf("expected ceil(25/10)=3 segments, got %d", len(segs))
	}
	for _, s := range segs {
		if s.StartLine != 1 || s.EndLine != 1 {
			t.Fatalf("expected startLine==endLine==1, got %+v", s)
		}
	}
	if len(segs[0].Text) != 10 || len(segs[1].Text) != 10 || len(segs[2].Text) != 5 {
		t.Fatalf("unexpected slice lengths: %d %d %d", len(segs[0].Text), len(segs[1].Text), len(segs[2].Text))
	}
	if segs[0].Text+segs[1].Text+segs[2].Text != line {
		t.Fatalf("slices do not reconstruct original line")
	}
}

func TestSplitDenseZeroBasedIndex(t *testing.T) {
	text := "a\nb\nc\nd"
	segs := Split(text, 1, 1000, nil)
	for i, s := range segs {
		if s.Index != i {
			t.Fatalf("expected dense index %d, got %d", i, s.Index)
		}
	}
}

func TestSplitEmptyText(t *testing.T) {
	segs := Split("", 10, 1000, nil)
	if len(segs) != 1 {
		t.Fatalf("expected a single empty segment, got %d", len(segs))
	}
	if segs[0].Text != "" || segs[0].StartLine != 1 || segs[0].EndLine != 1 {
		t.Fatalf("unexpected empty segment: %+v", segs[0])
	}
}

func TestSplitCommentRangesTranslatedToLocalOffsets(t *testing.T) {
	text := "a\nb // c\nd"
	comments := []model.TextRange{{Start: 4, End: 8}}
	segs := Split(text, 1, 1000, comments)
	if len(segs) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segs))
	}
	mid := segs[1]
	if mid.Text != "b // c" {
		t.Fatalf("unexpected middle segment text: %q", mid.Text)
	}
	if len(mid.CommentRanges) != 1 || mid.CommentRanges[0] != (model.TextRange{Start: 2, End: 6}) {
		t.Fatalf("unexpected local comment range: %+v", mid.CommentRanges)
	}
}

func TestSplitNonOverlappingOffsetsAndTextMatchesSlice(t *testing.T) {
	text := "one\ntwo\nthree\nfour\nfive"
	segs := Split(text, 2, 1000, nil)
	for i, s := range segs {
		if s.Text != text[s.StartOffset:s.EndOffset] {
			t.Fatalf("segment %d text does not match normalized slice", i)
		}
		if i > 0 && segs[i-1].EndOffset > s.StartOffset {
			t.Fatalf("segments %d and %d overlap", i-1, i)
		}
	}
}
