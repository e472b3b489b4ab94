package filter

import (
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

const (
	commentPrefix = "#"
	// descendantsSuffix matches everything below a directory but not the directory itself.
	descendantsSuffix = "/**"
	childrenSuffix    = "/*"

	identifierDivider = "/"
	currentDirectory  = "."
)

// Spec is a compiled set of gitignore rules. Rules are evaluated in file
// order and the last matching rule decides, so a later "!" rule re-includes
// what an earlier rule ignored.
type Spec struct {
	matcher   gitignore.Matcher
	ruleCount int
}

// CompileSpec compiles gitignore-syntax lines. Blank lines and comments are
// skipped; trailing carriage returns are tolerated.
func CompileSpec(lines []string) *Spec {
	var rules []gitignore.Pattern
	for _, line := range lines {
		trimmedLine := strings.TrimRight(line, "\r")
		if strings.TrimSpace(trimmedLine) == "" || strings.HasPrefix(trimmedLine, commentPrefix) {
			continue
		}
		rules = append(rules, gitignore.ParsePattern(rewriteDescendantsRule(trimmedLine), nil))
	}
	return &Spec{
		matcher:   gitignore.NewMatcher(rules),
		ruleCount: len(rules),
	}
}

// rewriteDescendantsRule turns a trailing "/**" into "/*". The gitignore
// matcher treats "dir/**" as matching dir itself, while "dir/*" already
// covers every descendant and leaves dir visible.
func rewriteDescendantsRule(rule string) string {
	if strings.HasSuffix(rule, descendantsSuffix) {
		return strings.TrimSuffix(rule, descendantsSuffix) + childrenSuffix
	}
	return rule
}

// Ignores reports whether the spec ignores identifier, a slash separated path
// relative to the directory holding the ignore file.
func (spec *Spec) Ignores(identifier string, isDirectory bool) bool {
	if spec == nil || spec.ruleCount == 0 {
		return false
	}
	if identifier == "" || identifier == currentDirectory {
		return false
	}
	return spec.matcher.Match(strings.Split(identifier, identifierDivider), isDirectory)
}

// RuleCount returns the number of compiled rules.
func (spec *Spec) RuleCount() int {
	if spec == nil {
		return 0
	}
	return spec.ruleCount
}

// ScopedSpec binds a compiled spec to the directory that owns its ignore file.
type ScopedSpec struct {
	// ScopeRoot is the identifier of the directory holding the ignore file, "." for the project root.
	ScopeRoot string
	// SourcePath is the identifier of the ignore file itself.
	SourcePath string
	Spec       *Spec
}

// RelativeIdentifier re-expresses identifier relative to the scope root. The
// second result is false when identifier lies outside the scope or is the
// scope root itself.
func (scopedSpec ScopedSpec) RelativeIdentifier(identifier string) (string, bool) {
	if scopedSpec.ScopeRoot == "" || scopedSpec.ScopeRoot == currentDirectory {
		return identifier, identifier != "" && identifier != currentDirectory
	}
	scopePrefix := scopedSpec.ScopeRoot + identifierDivider
	if !strings.HasPrefix(identifier, scopePrefix) {
		return "", false
	}
	relativeIdentifier := strings.TrimPrefix(identifier, scopePrefix)
	return relativeIdentifier, relativeIdentifier != ""
}
