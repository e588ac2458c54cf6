// Package normalize converts raw file content to the canonical form the
// rest of the typing pipeline operates on.
package normalize

import (
	"strings"
	"unicode/utf8"
)

const bom rune = '\uFEFF'

// Normalize strips a leading byte-order mark, collapses CRLF and lone CR
// to LF, and expands horizontal tabs to tabWidth spaces (or deletes them
// when tabWidth is 0). tabWidth is coerced to a non-negative integer.
func Normalize(input string, tabWidth int) string {
	if tabWidth < 0 {
		tabWidth = 0
	}

	if r, size := utf8.DecodeRuneInString(input); r == bom {
		input = input[size:]
	}

	input = strings.ReplaceAll(input, "\r\n", "\n")
	input = strings.ReplaceAll(input, "\r", "\n")

	if !strings.Contains(input, "\t") {
		return input
	}
	return strings.ReplaceAll(input, "\t", strings.Repeat(" ", tabWidth))
}
