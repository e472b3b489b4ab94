// Package filter decides which project paths take part in an overview.
// It combines command line glob excludes with scoped gitignore-style
// ignore files discovered anywhere in the project tree.
package filter

import (
	"strings"

	"github.com/danwakefield/fnmatch"
	"go.uber.org/zap"
)

const (
	// globMatchFlags leaves pathname handling off so '*' and '?' also match
	// '/'. Escapes stay enabled because normalizeGlob relies on them.
	globMatchFlags = 0

	classOpen    = '['
	classClose   = ']'
	classNegate  = '!'
	classCaret   = '^'
	escapeMarker = '\\'

	patternMatchedMessage = "pattern matched"
)

// Reporter receives diagnostics from the filtering components.
// *zap.Logger satisfies it.
type Reporter interface {
	Info(message string, fields ...zap.Field)
	Warn(message string, fields ...zap.Field)
}

// MatchesAny reports whether identifier matches at least one glob pattern.
// The whole identifier is matched, so "*test*" matches anywhere in a relative
// path. Matching is case-sensitive and stops at the first matching pattern.
func MatchesAny(identifier string, patterns []string, reporter Reporter) bool {
	for _, pattern := range patterns {
		if fnmatch.Match(normalizeGlob(pattern), identifier, globMatchFlags) {
			if reporter != nil {
				reporter.Info(patternMatchedMessage, zap.String("pattern", pattern), zap.String("identifier", identifier))
			}
			return true
		}
	}
	return false
}

// normalizeGlob rewrites a shell glob so the BSD matcher reads it the way
// Python's fnmatch does. A backslash is literal. A ']' right after '[' or
// "[!" belongs to the class. A '^' opening a class is literal. A '[' without
// a closing ']' is literal.
func normalizeGlob(pattern string) string {
	var builder strings.Builder
	builder.Grow(len(pattern) + 4)
	for index := 0; index < len(pattern); index++ {
		character := pattern[index]
		switch character {
		case escapeMarker:
			builder.WriteByte(escapeMarker)
			builder.WriteByte(escapeMarker)
		case classOpen:
			closeIndex := classEnd(pattern, index)
			if closeIndex < 0 {
				builder.WriteByte(escapeMarker)
				builder.WriteByte(classOpen)
				continue
			}
			writeClass(&builder, pattern[index+1:closeIndex])
			index = closeIndex
		default:
			builder.WriteByte(character)
		}
	}
	return builder.String()
}

// classEnd returns the index of the ']' closing the class opened at
// openIndex, or -1 when the class never closes.
func classEnd(pattern string, openIndex int) int {
	scanIndex := openIndex + 1
	if scanIndex < len(pattern) && pattern[scanIndex] == classNegate {
		scanIndex++
	}
	if scanIndex < len(pattern) && pattern[scanIndex] == classClose {
		scanIndex++
	}
	closeOffset := strings.IndexByte(pattern[scanIndex:], classClose)
	if closeOffset < 0 {
		return -1
	}
	return scanIndex + closeOffset
}

func writeClass(builder *strings.Builder, members string) {
	builder.WriteByte(classOpen)
	if strings.HasPrefix(members, string(classNegate)) {
		builder.WriteByte(classNegate)
		members = members[1:]
	}
	for memberIndex := 0; memberIndex < len(members); memberIndex++ {
		member := members[memberIndex]
		switch {
		case member == classClose, member == escapeMarker:
			builder.WriteByte(escapeMarker)
		case member == classCaret && memberIndex == 0:
			builder.WriteByte(escapeMarker)
		}
		builder.WriteByte(member)
	}
	builder.WriteByte(classClose)
}

// EscapeGlob returns a pattern that matches literal exactly.
func EscapeGlob(literal string) string {
	escaped := make([]rune, 0, len(literal))
	for _, character := range literal {
		switch character {
		case '*', '?', '[':
			escaped = append(escaped, '[', character, ']')
		default:
			escaped = append(escaped, character)
		}
	}
	return string(escaped)
}
