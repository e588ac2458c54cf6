package skipplan

import (
	"reflect"
	"testing"

	"github.com/aldenmoor/typeforge/internal/model"
)

func TestSkippableLineBreaksCommentOnlyLine(t *testing.T) {
	got := skippableLineBreaks("a\n//x\nb", []model.TextRange{{Start: 2, End: 5}})
	want := []model.TextRange{{Start: 5, End: 6}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestLeadingIndentation(t *testing.T) {
	got := leadingIndentation("  a\nb\n   c")
	want := []model.TextRange{{Start: 0, End: 2}, {Start: 6, End: 9}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestTrailingWhitespace(t *testing.T) {
	got := trailingWhitespace("a  \nb\nc\t ")
	want := []model.TextRange{{Start: 1, End: 3}, {Start: 7, End: 9}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestPreCommentPadding(t *testing.T) {
	// "code   // trailing" -> comment starts at index 7.
	text := "code   // trailing"
	comments := []model.TextRange{{Start: 7, End: len(text)}}
	got := preCommentPadding(text, comments)
	want := []model.TextRange{{Start: 4, End: 7}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestPreCommentPaddingSkippedWhenCommentIsFirstColumn(t *testing.T) {
	text := "// full line comment"
	comments := []model.TextRange{{Start: 0, End: len(text)}}
	got := preCommentPadding(text, comments)
	if got != nil {
		t.Fatalf("expected no padding range, got %v", got)
	}
}

func TestMergeCoalescesAdjacentAndOverlapping(t *testing.T) {
	ranges := []model.TextRange{{Start: 5, End: 8}, {Start: 0, End: 3}, {Start: 3, End: 5}, {Start: 20, End: 22}}
	got := merge(ranges, 100)
	want := []model.TextRange{{Start: 0, End: 8}, {Start: 20, End: 22}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestMergeClampsToBounds(t *testing.T) {
	ranges := []model.TextRange{{Start: -5, End: 3}, {Start: 8, End: 20}}
	got := merge(ranges, 10)
	want := []model.TextRange{{Start: 0, End: 3}, {Start: 8, End: 10}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestMergeIdempotent(t *testing.T) {
	ranges := []model.TextRange{{Start: 5, End: 8}, {Start: 0, End: 3}, {Start: 6, End: 9}}
	once := merge(ranges, 100)
	twice := merge(once, 100)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("merge not idempotent: %v vs %v", once, twice)
	}
}

func TestPlanIncludeCommentsFalseSkipsCommentsAndPadding(t *testing.T) {
	text := "a   // hi\nb"
	comments := []model.TextRange{{Start: 4, End: 9}}
	got := Plan(text, comments, Policy{IncludeComments: false})
	want := []model.TextRange{{Start: 1, End: 9}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestPlanIncludeCommentsTrueKeepsCommentsTypeable(t *testing.T) {
	text := "a   // hi\nb"
	comments := []model.TextRange{{Start: 4, End: 9}}
	got := Plan(text, comments, Policy{IncludeComments: true})
	if got != nil {
		t.Fatalf("expected no skip ranges with no space-skipping flags set, got %v", got)
	}
}

func TestPlanLeadingIndentationAndTrailingWhitespace(t *testing.T) {
	text := "  a  \nb"
	got := Plan(text, nil, Policy{
		IncludeComments:        true,
		SkipLeadingIndentation: true,
		TrimTrailingWhitespace: true,
	})
	want := []model.TextRange{{Start: 0, End: 2}, {Start: 3, End: 5}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
