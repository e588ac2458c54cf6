// Package lexer classifies byte ranges of normalized source text as
// comments, using a small single-pass state machine per language family.
// It performs no syntactic analysis beyond what is needed to avoid being
// fooled by string and character literals.
package lexer

import (
	"path/filepath"
	"strings"

	"github.com/aldenmoor/typeforge/internal/model"
)

// Mode selects which state machine parses a file's comments.
type Mode int

// Supported lexer modes.
const (
	ModeNone Mode = iota
	ModeCFamily
	ModePython
)

var cFamilyExtensions = map[string]struct{}{
	"c": {}, "h": {}, "cpp": {}, "cc": {}, "hpp": {}, "java": {}, "js": {},
	"ts": {}, "tsx": {}, "go": {}, "rs": {}, "cs": {}, "kt": {}, "swift": {},
	"php": {}, "rb": {}, "scala": {}, "m": {}, "mm": {},
}

// ModeForFile selects the lexer mode by the file's lowercased extension.
func ModeForFile(fileName string) Mode {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	switch {
	case ext == "py":
		return ModePython
	default:
		if _, ok := cFamilyExtensions[ext]; ok {
			return ModeCFamily
		}
		return ModeNone
	}
}

// ParseCommentRanges maps normalized text plus a file name to the list of
// non-overlapping byte ranges classified as comments.
func ParseCommentRanges(text, fileName string) []model.TextRange {
	switch ModeForFile(fileName) {
	case ModeCFamily:
		return parseCFamily(text)
	case ModePython:
		return parsePython(text)
	default:
		return nil
	}
}

type cState int

const (
	cCode cState = iota
	cLineComment
	cBlockComment
	cSingleQuote
	cDoubleQuote
	cTemplate
)

func parseCFamily(text string) []model.TextRange {
	var ranges []model.TextRange
	n := len(text)
	state := cCode
	commentStart := 0

	i := 0
	for i < n {
		switch state {
		case cCode:
			switch {
			case text[i] == '/' && i+1 < n && text[i+1] == '/':
				state = cLineComment
				commentStart = i
				i += 2
			case text[i] == '/' && i+1 < n && text[i+1] == '*':
				state = cBlockComment
				commentStart = i
				i += 2
			case text[i] == '\'':
				state = cSingleQuote
				i++
			case text[i] == '"':
				state = cDoubleQuote
				i++
			case text[i] == '`':
				state = cTemplate
				i++
			default:
				i++
			}
		case cLineComment:
			if text[i] == '\n' {
				ranges = append(ranges, model.TextRange{Start: commentStart, End: i})
				state = cCode
				continue
			}
			i++
		case cBlockComment:
			if text[i] == '*' && i+1 < n && text[i+1] == '/' {
				ranges = append(ranges, model.TextRange{Start: commentStart, End: i + 2})
				state = cCode
				i += 2
				continue
			}
			i++
		case cSingleQuote, cDoubleQuote, cTemplate:
			i = advanceQuoted(text, i, n, quoteCharFor(state), &state, cCode)
		}
	}

	switch state {
	case cLineComment, cBlockComment:
		ranges = append(ranges, model.TextRange{Start: commentStart, End: n})
	}

	return ranges
}

func quoteCharFor(state cState) byte {
	switch state {
	case cSingleQuote:
		return '\''
	case cDoubleQuote:
		return '"'
	case cTemplate:
		return '`'
	default:
		return 0
	}
}

// advanceQuoted consumes one step of a backslash-escaping quoted state and
// returns the next index. It honors a single escape character and returns
// to codeState only on the matching closing quote.
func advanceQuoted[S ~int](text string, i, n int, quote byte, state *S, codeState S) int {
	if text[i] == '\\' {
		if i+1 < n {
			return i + 2
		}
		return n
	}
	if text[i] == quote {
		*state = codeState
		return i + 1
	}
	return i + 1
}

type pState int

const (
	pCode pState = iota
	pLineComment
	pSingleQuote
	pDoubleQuote
	pTripleSingle
	pTripleDouble
)

func parsePython(text string) []model.TextRange {
	var ranges []model.TextRange
	n := len(text)
	state := pCode
	commentStart := 0

	i := 0
	for i < n {
		switch state {
		case pCode:
			switch {
			case hasPrefixAt(text, i, "'''"):
				state = pTripleSingle
				commentStart = i
				i += 3
			case hasPrefixAt(text, i, `"""`):
				state = pTripleDouble
				commentStart = i
				i += 3
			case text[i] == '#':
				state = pLineComment
				commentStart = i
				i++
			case text[i] == '\'':
				state = pSingleQuote
				i++
			case text[i] == '"':
				state = pDoubleQuote
				i++
			default:
				i++
			}
		case pLineComment:
			if text[i] == '\n' {
				ranges = append(ranges, model.TextRange{Start: commentStart, End: i})
				state = pCode
				continue
			}
			i++
		case pSingleQuote:
			i = advanceQuoted(text, i, n, '\'', &state, pCode)
		case pDoubleQuote:
			i = advanceQuoted(text, i, n, '"', &state, pCode)
		case pTripleSingle:
			if hasPrefixAt(text, i, "'''") {
				ranges = append(ranges, model.TextRange{Start: commentStart, End: i + 3})
				state = pCode
				i += 3
				continue
			}
			i++
		case pTripleDouble:
			if hasPrefixAt(text, i, `"""`) {
				ranges = append(ranges, model.TextRange{Start: commentStart, End: i + 3})
				state = pCode
				i += 3
				continue
			}
			i++
		}
	}

	switch state {
	case pLineComment:
		ranges = append(ranges, model.TextRange{Start: commentStart, End: n})
	case pTripleSingle, pTripleDouble:
		ranges = append(ranges, model.TextRange{Start: commentStart, End: n})
	}

	return ranges
}

func hasPrefixAt(text string, i int, prefix string) bool {
	if i+len(prefix) > len(text) {
		return false
	}
	return text[i:i+len(prefix)] == prefix
}
