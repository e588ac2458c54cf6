// Package source loads practice text from disk.
package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Load reads the file at path and returns its content as valid UTF-8. Files
// that are already valid UTF-8 (with or without a byte-order mark) pass
// through untouched; a BOM-tagged UTF-16 file is transcoded, and anything
// else that still fails validation has its invalid byte sequences replaced
// with the Unicode replacement character rather than rejected outright.
func Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read source file: %w", err)
	}
	if utf8.Valid(data) {
		return string(data), nil
	}

	if decoded, ok := decodeUTF16(data); ok {
		return decoded, nil
	}

	return strings.ToValidUTF8(string(data), string(utf8.RuneError)), nil
}

// Extension returns the lowercased file extension without its leading dot.
func Extension(path string) string {
	ext := filepath.Ext(path)
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

func decodeUTF16(data []byte) (string, bool) {
	if len(data) < 2 {
		return "", false
	}
	hasBOM := (data[0] == 0xFF && data[1] == 0xFE) || (data[0] == 0xFE && data[1] == 0xFF)
	if !hasBOM {
		return "", false
	}
	decoder := unicode.BOMOverride(unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder())
	out, _, err := transform.Bytes(decoder, data)
	if err != nil || !utf8.Valid(out) {
		return "", false
	}
	return string(out), true
}
