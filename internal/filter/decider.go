package filter

import (
	"strings"

	"go.uber.org/zap"
)

const (
	gitPathExcludedMessage    = "excluded .git path"
	cliExcludedMessage        = "excluded by command line pattern"
	ignoreFileExcludedMessage = "excluded by ignore file"
	includedMessage           = "included"
)

// Decider combines command line excludes with scoped ignore specs. The two
// sources are kept apart: command line patterns are consulted first and win
// over every ignore file.
type Decider struct {
	excludePatterns []string
	ignoreSources   []ScopedSpec
	reporter        Reporter
}

// NewDecider builds a Decider. A nil reporter discards diagnostics.
func NewDecider(excludePatterns []string, ignoreSources []ScopedSpec, reporter Reporter) *Decider {
	if reporter == nil {
		reporter = zap.NewNop()
	}
	return &Decider{
		excludePatterns: append([]string(nil), excludePatterns...),
		ignoreSources:   append([]ScopedSpec(nil), ignoreSources...),
		reporter:        reporter,
	}
}

// Include reports whether the entry at identifier, a slash separated path
// relative to the project root, belongs in the overview.
//
// Evaluation order, first decision wins:
//  1. any ".git" component excludes;
//  2. a matching command line pattern excludes;
//  3. an ignore spec whose scope contains the entry and which ignores it excludes;
//  4. otherwise the entry is included.
func (decider *Decider) Include(identifier string, isDirectory bool) bool {
	if HasGitComponent(identifier) {
		decider.reporter.Info(gitPathExcludedMessage, zap.String("identifier", identifier))
		return false
	}

	if MatchesAny(identifier, decider.excludePatterns, decider.reporter) {
		decider.reporter.Info(cliExcludedMessage, zap.String("identifier", identifier))
		return false
	}

	for _, ignoreSource := range decider.ignoreSources {
		scopedIdentifier, withinScope := ignoreSource.RelativeIdentifier(identifier)
		if !withinScope {
			continue
		}
		if ignoreSource.Spec.Ignores(scopedIdentifier, isDirectory) {
			decider.reporter.Info(ignoreFileExcludedMessage, zap.String("source", ignoreSource.SourcePath), zap.String("identifier", scopedIdentifier))
			return false
		}
	}

	decider.reporter.Info(includedMessage, zap.String("identifier", identifier))
	return true
}

// HasGitComponent reports whether any component of identifier is ".git".
func HasGitComponent(identifier string) bool {
	for _, component := range strings.Split(identifier, identifierDivider) {
		if component == GitDirectoryName {
			return true
		}
	}
	return false
}
