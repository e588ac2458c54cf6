// Package segment splits normalized text into ordered, offset-mapped
// segments bounded by a line count and a hard character cap.
package segment

import (
	"github.com/aldenmoor/typeforge/internal/model"
)

// Segment is a contiguous slice of normalized text presented as a unit of
// practice, together with its absolute offsets and locally-mapped comment
// ranges.
type Segment struct {
	Index         int
	StartLine     int
	EndLine       int
	Text          string
	StartOffset   int
	EndOffset     int
	CommentRanges []model.TextRange
}

// Split partitions normalized into segments capped by linesPerSegment lines
// and maxSegmentChars characters, then intersects commentRanges (in global
// offsets) with each segment and translates the result to local offsets.
func Split(normalized string, linesPerSegment, maxSegmentChars int, commentRanges []model.TextRange) []Segment {
	if linesPerSegment < 1 {
		linesPerSegment = 1
	}
	if maxSegmentChars < 1 {
		maxSegmentChars = -1 // sentinel: treated as infinite below
	}

	lineStarts := computeLineStarts(normalized)
	n := len(normalized)

	var segments []Segment
	currentStartLine := 0 // 0-based index into lineStarts
	currentLines := 0
	currentChars := 0

	flush := func(endLineIdx int) {
		if currentLines == 0 {
			return
		}
		startOffset := lineStarts[currentStartLine]
		var endOffset int
		if endLineIdx+1 < len(lineStarts) {
			endOffset = lineStarts[endLineIdx+1] - 1 // exclude the newline that starts the next line
		} else {
			endOffset = n
		}
		segments = append(segments, Segment{
			StartLine:   currentStartLine + 1,
			EndLine:     endLineIdx + 1,
			Text:        normalized[startOffset:endOffset],
			StartOffset: startOffset,
			EndOffset:   endOffset,
		})
		currentLines = 0
		currentChars = 0
	}

	fits := func(addedChars int) bool {
		if maxSegmentChars < 0 {
			return true
		}
		return currentChars+addedChars <= maxSegmentChars
	}

	for lineIdx := 0; lineIdx < len(lineStarts); lineIdx++ {
		lineStart := lineStarts[lineIdx]
		lineEnd := n
		if lineIdx+1 < len(lineStarts) {
			lineEnd = lineStarts[lineIdx+1] - 1
		}
		lineLen := lineEnd - lineStart

		if maxSegmentChars > 0 && lineLen > maxSegmentChars {
			flush(lineIdx - 1)
			for sliceStart := lineStart; sliceStart < lineEnd; sliceStart += maxSegmentChars {
				sliceEnd := sliceStart + maxSegmentChars
				if sliceEnd > lineEnd {
					sliceEnd = lineEnd
				}
				segments = append(segments, Segment{
					StartLine:   lineIdx + 1,
					EndLine:     lineIdx + 1,
					Text:        normalized[sliceStart:sliceEnd],
					StartOffset: sliceStart,
					EndOffset:   sliceEnd,
				})
			}
			currentStartLine = lineIdx + 1
			continue
		}

		addedChars := lineLen
		if currentLines > 0 {
			addedChars++ // the "\n" separating this line from the previous one
		}

		if currentLines > 0 && (currentLines+1 > linesPerSegment || !fits(addedChars)) {
			flush(lineIdx - 1)
			currentStartLine = lineIdx
			addedChars = lineLen
		}

		if currentLines == 0 {
			currentStartLine = lineIdx
		}
		currentLines++
		currentChars += addedChars
	}

	flush(len(lineStarts) - 1)

	for i := range segments {
		segments[i].Index = i
		segments[i].CommentRanges = localCommentRanges(commentRanges, segments[i].StartOffset, segments[i].EndOffset)
	}

	return segments
}

// computeLineStarts returns the absolute offset of the first byte of each
// line in text, in a single left-to-right pass over "\n" occurrences.
func computeLineStarts(text string) []int {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// localCommentRanges intersects the sorted, non-overlapping global comment
// ranges with [startOffset, endOffset) and translates matches to offsets
// local to the segment.
func localCommentRanges(commentRanges []model.TextRange, startOffset, endOffset int) []model.TextRange {
	var local []model.TextRange
	for _, r := range commentRanges {
		if r.End <= startOffset {
			continue
		}
		if r.Start >= endOffset {
			break
		}
		s := r.Start
		if s < startOffset {
			s = startOffset
		}
		e := r.End
		if e > endOffset {
			e = endOffset
		}
		if e > s {
			local = append(local, model.TextRange{Start: s - startOffset, End: e - startOffset})
		}
	}
	return local
}
