// Package skipplan computes the set of character ranges a typing session
// advances over without requiring keystrokes: leading indentation, trailing
// whitespace, padding before trailing comments, and comment bodies
// themselves, composed according to policy flags.
package skipplan

import (
	"sort"

	"github.com/aldenmoor/typeforge/internal/model"
)

// Policy controls which categories of skippable range are included.
type Policy struct {
	IncludeComments        bool
	SkipLeadingIndentation bool
	TrimTrailingWhitespace bool
}

// Plan computes the engine-facing skip ranges for segment text T given its
// local comment ranges C and the active policy.
func Plan(t string, commentRanges []model.TextRange, policy Policy) []model.TextRange {
	n := len(t)

	var skipSpace []model.TextRange
	if policy.SkipLeadingIndentation {
		skipSpace = append(skipSpace, leadingIndentation(t)...)
	}
	if !policy.IncludeComments {
		skipSpace = append(skipSpace, preCommentPadding(t, commentRanges)...)
	}
	if policy.TrimTrailingWhitespace {
		skipSpace = append(skipSpace, trailingWhitespace(t)...)
	}
	skipSpace = merge(skipSpace, n)

	var baseSkip []model.TextRange
	if !policy.IncludeComments {
		baseSkip = merge(append(append([]model.TextRange{}, commentRanges...), skipSpace...), n)
	} else {
		baseSkip = skipSpace
	}

	var lineBreakSkip []model.TextRange
	if !policy.IncludeComments {
		lineBreakSkip = skippableLineBreaks(t, baseSkip)
	}

	return merge(append(append([]model.TextRange{}, baseSkip...), lineBreakSkip...), n)
}

// leadingIndentation returns, for each line of t, the maximal prefix of
// ASCII spaces starting at the line's first offset.
func leadingIndentation(t string) []model.TextRange {
	var ranges []model.TextRange
	lineStart := 0
	for lineStart <= len(t) {
		i := lineStart
		for i < len(t) && t[i] == ' ' {
			i++
		}
		if i > lineStart {
			ranges = append(ranges, model.TextRange{Start: lineStart, End: i})
		}
		nl := indexByteFrom(t, lineStart, '\n')
		if nl < 0 {
			break
		}
		lineStart = nl + 1
	}
	return ranges
}

// trailingWhitespace returns, for each line of t, the maximal suffix of
// spaces or tabs before the line terminator (or end-of-input for the last
// line).
func trailingWhitespace(t string) []model.TextRange {
	var ranges []model.TextRange
	lineStart := 0
	for lineStart <= len(t) {
		lineEnd := indexByteFrom(t, lineStart, '\n')
		if lineEnd < 0 {
			lineEnd = len(t)
		}
		i := lineEnd
		for i > lineStart && (t[i-1] == ' ' || t[i-1] == '\t') {
			i--
		}
		if i < lineEnd {
			ranges = append(ranges, model.TextRange{Start: i, End: lineEnd})
		}
		if lineEnd >= len(t) {
			break
		}
		lineStart = lineEnd + 1
	}
	return ranges
}

// preCommentPadding returns, for each comment range not starting at the
// first column of its line, the maximal run of spaces immediately
// preceding the comment start, bounded below by the line start.
func preCommentPadding(t string, commentRanges []model.TextRange) []model.TextRange {
	var ranges []model.TextRange
	for _, c := range commentRanges {
		lineStart := lastIndexByteBefore(t, c.Start, '\n') + 1
		if c.Start <= lineStart {
			continue
		}
		i := c.Start
		for i > lineStart && t[i-1] == ' ' {
			i--
		}
		if i < c.Start {
			ranges = append(ranges, model.TextRange{Start: i, End: c.Start})
		}
	}
	return ranges
}

// skippableLineBreaks returns, for each "\n" in t whose entire line content
// lies within the union of base, that newline's offset as a skippable
// single-byte range.
func skippableLineBreaks(t string, base []model.TextRange) []model.TextRange {
	var ranges []model.TextRange
	lineStart := 0
	for lineStart < len(t) {
		nl := indexByteFrom(t, lineStart, '\n')
		if nl < 0 {
			break
		}
		if lineFullyCovered(base, lineStart, nl) {
			ranges = append(ranges, model.TextRange{Start: nl, End: nl + 1})
		}
		lineStart = nl + 1
	}
	return ranges
}

func lineFullyCovered(ranges []model.TextRange, start, end int) bool {
	if start == end {
		return true
	}
	pos := start
	for _, r := range ranges {
		if r.Start > pos {
			return false
		}
		if r.End > pos {
			pos = r.End
		}
		if pos >= end {
			return true
		}
	}
	return pos >= end
}

// merge clamps each range to [0, n], drops empties, sorts by (start, end),
// then folds adjacent/overlapping ranges into coalesced spans.
func merge(ranges []model.TextRange, n int) []model.TextRange {
	clamped := make([]model.TextRange, 0, len(ranges))
	for _, r := range ranges {
		s, e := r.Start, r.End
		if s < 0 {
			s = 0
		}
		if e > n {
			e = n
		}
		if e > s {
			clamped = append(clamped, model.TextRange{Start: s, End: e})
		}
	}
	if len(clamped) == 0 {
		return nil
	}
	sort.Slice(clamped, func(i, j int) bool {
		if clamped[i].Start != clamped[j].Start {
			return clamped[i].Start < clamped[j].Start
		}
		return clamped[i].End < clamped[j].End
	})

	result := []model.TextRange{clamped[0]}
	for _, r := range clamped[1:] {
		last := &result[len(result)-1]
		if r.Start <= last.End {
			if r.End > last.End {
				last.End = r.End
			}
			continue
		}
		result = append(result, r)
	}
	return result
}

func indexByteFrom(s string, from int, b byte) int {
	if from >= len(s) {
		return -1
	}
	for i := from; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

func lastIndexByteBefore(s string, before int, b byte) int {
	for i := before - 1; i >= 0; i-- {
		if s[i] == b {
			return i
		}
	}
	return -1
}
