package filter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"go.uber.org/zap"
)

const (
	// LLMIgnoreFileName names ignore files that only affect overview generation.
	LLMIgnoreFileName = ".llmignore"
	// GitIgnoreFileName names Git ignore files.
	GitIgnoreFileName = ".gitignore"
	// GitDirectoryName is excluded from every overview.
	GitDirectoryName = ".git"

	walkRoot = "."

	errorDiscoverIgnoreFilesFormat = "discovering %s files: %w"
	ignoreFileUnreadableMessage    = "could not read ignore file"
	ignoreFileLoadedMessage        = "loaded ignore file"
)

// LoadIgnoreFiles finds every file named fileName anywhere below the root of
// fileSystem and compiles each into a spec scoped to its containing directory.
// Unreadable ignore files are reported and skipped. Traversal failures are
// returned.
func LoadIgnoreFiles(fileSystem billy.Filesystem, fileName string, reporter Reporter) ([]ScopedSpec, error) {
	var scopedSpecs []ScopedSpec

	walkError := util.Walk(fileSystem, walkRoot, func(walkedPath string, fileInfo os.FileInfo, accessError error) error {
		if accessError != nil {
			return accessError
		}
		if fileInfo.IsDir() {
			if fileInfo.Name() == GitDirectoryName {
				return filepath.SkipDir
			}
			return nil
		}
		if fileInfo.Name() != fileName {
			return nil
		}

		sourceIdentifier := toIdentifier(walkedPath)
		fileContent, readError := util.ReadFile(fileSystem, walkedPath)
		if readError != nil {
			if reporter != nil {
				reporter.Warn(ignoreFileUnreadableMessage, zap.String("path", sourceIdentifier), zap.Error(readError))
			}
			return nil
		}

		spec := CompileSpec(strings.Split(string(fileContent), "\n"))
		scopedSpecs = append(scopedSpecs, ScopedSpec{
			ScopeRoot:  scopeRootOf(sourceIdentifier),
			SourcePath: sourceIdentifier,
			Spec:       spec,
		})
		if reporter != nil {
			reporter.Info(ignoreFileLoadedMessage, zap.String("path", sourceIdentifier), zap.Int("rules", spec.RuleCount()))
		}
		return nil
	})
	if walkError != nil {
		return nil, fmt.Errorf(errorDiscoverIgnoreFilesFormat, fileName, walkError)
	}

	return scopedSpecs, nil
}

// toIdentifier converts a filesystem path relative to the project root into
// slash separated form.
func toIdentifier(relativePath string) string {
	cleanedPath := filepath.ToSlash(filepath.Clean(relativePath))
	return strings.TrimPrefix(cleanedPath, "./")
}

func scopeRootOf(sourceIdentifier string) string {
	separatorIndex := strings.LastIndex(sourceIdentifier, identifierDivider)
	if separatorIndex < 0 {
		return currentDirectory
	}
	return sourceIdentifier[:separatorIndex]
}
