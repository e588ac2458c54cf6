// Package engine implements the per-segment keystroke state machine: it
// consumes individual characters and a backspace primitive, advances a
// logical cursor across skip ranges, and tracks marks and counters that
// remain consistent under any sequence of mismatches, backspaces, and
// auto-skips.
package engine

import (
	"sort"
	"unicode/utf8"

	"github.com/aldenmoor/typeforge/internal/model"
)

// Engine is a single segment's typing session. It is not safe for
// concurrent use; callers own one engine per segment attempt.
type Engine struct {
	text                            string
	slackN                          int
	autoSkipBlankLines              bool
	allowWhitespaceAdvanceToNewline bool
	skipRanges                      []model.TextRange

	cursor   int
	typedEnd int

	errorActive             bool
	firstErrorIndex         int
	firstErrorTypedProgress int
	locked                  bool

	marks          []model.Mark
	countedCorrect []bool
	typedPositions []int

	typeableChars   int
	typedKeystrokes int
	incorrect       int
	collateral      int
	backspaces      int
	correctChars    int
}

// New creates an engine over text with the given slack, auto-skip, skip
// ranges, and whitespace-advance policy. skipRanges must be merged, sorted,
// and non-overlapping; New does not validate this.
func New(text string, slackN int, autoSkipBlankLines bool, skipRanges []model.TextRange, allowWhitespaceAdvanceToNewline bool) *Engine {
	if slackN < 0 {
		slackN = 0
	}
	n := len(text)

	covered := 0
	for _, r := range skipRanges {
		covered += r.Len()
	}

	e := &Engine{
		text:                             text,
		slackN:                           slackN,
		autoSkipBlankLines:               autoSkipBlankLines,
		allowWhitespaceAdvanceToNewline:  allowWhitespaceAdvanceToNewline,
		skipRanges:                       skipRanges,
		marks:                            make([]model.Mark, n),
		countedCorrect:                   make([]bool, n),
		typeableChars:                    n - covered,
	}
	e.skipForward()
	return e
}

// Text returns the segment text the engine was created over.
func (e *Engine) Text() string { return e.text }

// Cursor returns the current logical position.
func (e *Engine) Cursor() int { return e.cursor }

// TypedEnd returns the furthest position the user has physically typed
// through, excluding auto-skipped positions.
func (e *Engine) TypedEnd() int { return e.typedEnd }

// ErrorActive reports whether there is an unresolved mismatch.
func (e *Engine) ErrorActive() bool { return e.errorActive }

// FirstErrorIndex returns the position of the first unresolved mismatch.
// Only meaningful when ErrorActive is true.
func (e *Engine) FirstErrorIndex() int { return e.firstErrorIndex }

// Locked reports whether normal input is currently being ignored.
func (e *Engine) Locked() bool { return e.locked }

// Mark returns the mark classification at position i.
func (e *Engine) Mark(i int) model.Mark {
	if i < 0 || i >= len(e.marks) {
		return model.Untouched
	}
	return e.marks[i]
}

// Marks returns the full mark slice. Callers must not mutate it.
func (e *Engine) Marks() []model.Mark { return e.marks }

// TypeableChars is the number of characters a user is expected to strike:
// len(text) minus the characters covered by skip ranges.
func (e *Engine) TypeableChars() int { return e.typeableChars }

// TypedKeystrokes is the total count of handleKey/handleBackspace calls.
func (e *Engine) TypedKeystrokes() int { return e.typedKeystrokes }

// Incorrect is the count of mismatches that began an error.
func (e *Engine) Incorrect() int { return e.incorrect }

// Collateral is the count of keystrokes made while an error was active but
// within slack.
func (e *Engine) Collateral() int { return e.collateral }

// Backspaces is the count of backspace operations.
func (e *Engine) Backspaces() int { return e.backspaces }

// CorrectChars is the count of positions currently booked as counted
// CORRECT.
func (e *Engine) CorrectChars() int { return e.correctChars }

// IsComplete reports whether the cursor has reached the end of the text
// with no unresolved error and no active lock.
func (e *Engine) IsComplete() bool {
	return e.cursor >= len(e.text) && !e.errorActive && !e.locked
}

// skipForward advances the cursor past any skip range it currently lies
// within, via binary search over the sorted range list.
func (e *Engine) skipForward() {
	for {
		idx := sort.Search(len(e.skipRanges), func(i int) bool {
			return e.skipRanges[i].End > e.cursor
		})
		if idx >= len(e.skipRanges) {
			return
		}
		r := e.skipRanges[idx]
		if e.cursor < r.Start {
			return
		}
		e.cursor = r.End
	}
}

// setMark routes every mark mutation through a single helper that keeps
// countedCorrect and correctChars consistent.
func (e *Engine) setMark(pos int, mark model.Mark, counted bool) {
	if pos < 0 || pos >= len(e.marks) {
		return
	}
	if e.countedCorrect[pos] {
		e.correctChars--
		e.countedCorrect[pos] = false
	}
	e.marks[pos] = mark
	if mark == model.Correct && counted {
		e.countedCorrect[pos] = true
		e.correctChars++
	}
}

// HandleKey processes a single typed character.
func (e *Engine) HandleKey(ch rune) {
	e.typedKeystrokes++
	if e.locked {
		return
	}

	e.skipForward()
	n := len(e.text)
	if e.cursor >= n {
		return
	}

	expected, _ := decodeRuneAt(e.text, e.cursor)

	if !e.errorActive {
		matchCh := ch
		if e.allowWhitespaceAdvanceToNewline && ch == ' ' && expected == '\n' {
			matchCh = '\n'
		}
		if matchCh == expected {
			if ch == '\n' && e.autoSkipBlankLines {
				e.handleAutoSkipBlankLines()
				return
			}
			pos := e.cursor
			e.setMark(pos, model.Correct, true)
			e.typedPositions = append(e.typedPositions, pos)
			e.typedEnd = pos + runeLenAt(e.text, pos)
			e.cursor += runeLenAt(e.text, pos)
			e.skipForward()
			return
		}
		pos := e.cursor
		e.setMark(pos, model.Incorrect, false)
		e.errorActive = true
		e.firstErrorIndex = pos
		e.firstErrorTypedProgress = len(e.typedPositions)
		e.typedPositions = append(e.typedPositions, pos)
		e.typedEnd = pos + runeLenAt(e.text, pos)
		e.incorrect++
		e.cursor += runeLenAt(e.text, pos)
		e.skipForward()
		return
	}

	typedDistance := len(e.typedPositions) - e.firstErrorTypedProgress
	if typedDistance < 0 {
		typedDistance = e.cursor - e.firstErrorIndex
	}
	if typedDistance <= e.slackN {
		pos := e.cursor
		e.setMark(pos, model.Collateral, false)
		e.typedPositions = append(e.typedPositions, pos)
		e.typedEnd = pos + runeLenAt(e.text, pos)
		e.collateral++
		e.cursor += runeLenAt(e.text, pos)
		e.skipForward()
		return
	}
	e.locked = true
}

// handleAutoSkipBlankLines implements the auto-skip-blank-lines branch of
// handleKey: the pressed newline is marked CORRECT and counted; any
// immediately following newlines are marked CORRECT but not counted, and
// the cursor walks past all of them while typedEnd stops at the pressed one.
func (e *Engine) handleAutoSkipBlankLines() {
	pos := e.cursor
	e.setMark(pos, model.Correct, true)
	e.typedPositions = append(e.typedPositions, pos)
	e.typedEnd = pos + 1
	e.cursor = pos + 1
	e.skipForward()

	for e.cursor < len(e.text) {
		r, size := decodeRuneAt(e.text, e.cursor)
		if r != '\n' {
			break
		}
		e.setMark(e.cursor, model.Correct, false)
		e.cursor += size
		e.skipForward()
	}
}

// HandleBackspace undoes the most recent typed position.
func (e *Engine) HandleBackspace() {
	e.typedKeystrokes++
	e.backspaces++
	e.locked = false

	if len(e.typedPositions) == 0 {
		return
	}
	last := len(e.typedPositions) - 1
	pos := e.typedPositions[last]
	e.typedPositions = e.typedPositions[:last]

	e.cursor = pos
	e.typedEnd = pos
	e.setMark(pos, model.Untouched, false)

	if e.errorActive && e.cursor <= e.firstErrorIndex {
		e.errorActive = false
		e.firstErrorIndex = 0
		e.firstErrorTypedProgress = 0
	}
}

func decodeRuneAt(s string, i int) (rune, int) {
	if i >= len(s) {
		return 0, 0
	}
	return utf8.DecodeRuneInString(s[i:])
}

func runeLenAt(s string, i int) int {
	_, size := decodeRuneAt(s, i)
	if size == 0 {
		return 1
	}
	return size
}
