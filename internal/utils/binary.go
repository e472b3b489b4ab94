package utils

import (
	"strings"
	"unicode/utf8"
)

const (
	windowsLineEnding = "\r\n"
	classicLineEnding = "\r"
	unixLineEnding    = "\n"
)

// IsDecodableText reports whether data decodes as UTF-8 text.
// Empty input is text.
func IsDecodableText(data []byte) bool {
	return utf8.Valid(data)
}

// NormalizeLineEndings converts CRLF and lone CR line endings to LF.
func NormalizeLineEndings(text string) string {
	if !strings.Contains(text, classicLineEnding) {
		return text
	}
	normalized := strings.ReplaceAll(text, windowsLineEnding, unixLineEnding)
	return strings.ReplaceAll(normalized, classicLineEnding, unixLineEnding)
}
