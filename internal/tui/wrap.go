// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/aldenmoor/typeforge/internal/model"
)

// styledRune is one already-styled display cell of a segment's text. A
// literal newline in the source text carries no visible glyph of its own but
// forces a hard line break when wrapped.
type styledRune struct {
	s         string
	width     int
	isNewline bool
}

// buildStyledRunes styles every rune of text according to its engine mark,
// underlining the cursor position, or flagging it with lockedStyle once the
// engine is locked on an uncorrected error.
func buildStyledRunes(text string, marks []model.Mark, cursor int, locked bool) []styledRune {
	out := make([]styledRune, 0, len(text))
	i := 0
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		style := pendingStyle
		switch marks[i] {
		case model.Correct:
			style = correctStyle
		case model.Incorrect:
			style = incorrectStyle
		case model.Collateral:
			style = collateralStyle
		}
		if i == cursor {
			if locked {
				style = lockedStyle
			} else {
				style = style.Underline(true)
			}
		}
		if r == '\n' {
			out = append(out, styledRune{isNewline: true})
		} else {
			out = append(out, styledRune{
				s:     style.Render(string(r)),
				width: runewidth.RuneWidth(r),
			})
		}
		i += size
	}
	return out
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, r := range runes {
		if r.isNewline {
			b.WriteByte('\n')
			continue
		}
		b.WriteString(r.s)
	}
	return b.String()
}

// wrapStyledRunes lays styled cells out at the given content width. Hard
// breaks come from literal newlines in the underlying text; soft breaks are
// inserted at plain rune boundaries once a line would exceed width, since
// code text has no canonical word list to break on the way prose does.
func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, width)
	lineWidth := 0

	flush := func() {
		out.WriteString(renderStyledRunes(line))
		out.WriteByte('\n')
		line = line[:0]
		lineWidth = 0
	}

	for _, r := range runes {
		if r.isNewline {
			flush()
			continue
		}
		if lineWidth+r.width > width && len(line) > 0 {
			flush()
		}
		line = append(line, r)
		lineWidth += r.width
	}
	out.WriteString(renderStyledRunes(line))
	return strings.TrimRight(out.String(), "\n")
}
