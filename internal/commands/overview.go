package commands

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"go.uber.org/zap"

	"github.com/temirov/prjoverview/internal/filter"
	"github.com/temirov/prjoverview/internal/output"
)

const (
	ignoreFilesFoundMessage = "found ignore files"
	noIgnoreFilesMessage    = "no ignore files found"

	errorGenerateOverviewFormat = "generating overview for %s: %w"
)

// OverviewOptions configures one overview run.
type OverviewOptions struct {
	// FileSystem is rooted at the scanned directory.
	FileSystem billy.Filesystem
	// RootPath is the absolute host path of the scanned directory.
	RootPath        string
	ExcludePatterns []string
	UseLLMIgnore    bool
	UseGitignore    bool
	TreeOnly        bool
	Logger          *zap.Logger
}

// LoadIgnoreSources discovers the enabled ignore files. All .llmignore specs
// precede all .gitignore specs.
func LoadIgnoreSources(fileSystem billy.Filesystem, useLLMIgnore bool, useGitignore bool, reporter filter.Reporter) ([]filter.ScopedSpec, error) {
	if reporter == nil {
		reporter = zap.NewNop()
	}
	var enabledFileNames []string
	if useLLMIgnore {
		enabledFileNames = append(enabledFileNames, filter.LLMIgnoreFileName)
	}
	if useGitignore {
		enabledFileNames = append(enabledFileNames, filter.GitIgnoreFileName)
	}

	var ignoreSources []filter.ScopedSpec
	for _, ignoreFileName := range enabledFileNames {
		scopedSpecs, loadError := filter.LoadIgnoreFiles(fileSystem, ignoreFileName, reporter)
		if loadError != nil {
			return nil, loadError
		}
		if len(scopedSpecs) == 0 {
			reporter.Info(noIgnoreFilesMessage, zap.String("name", ignoreFileName))
			continue
		}
		reporter.Info(ignoreFilesFoundMessage, zap.String("name", ignoreFileName), zap.Int("count", len(scopedSpecs)))
		ignoreSources = append(ignoreSources, scopedSpecs...)
	}
	return ignoreSources, nil
}

// GenerateOverview writes the Markdown overview of options.FileSystem to destination.
func GenerateOverview(destination io.Writer, options OverviewOptions) error {
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	projectName := filepath.Base(filepath.Clean(options.RootPath))

	ignoreSources, loadError := LoadIgnoreSources(options.FileSystem, options.UseLLMIgnore, options.UseGitignore, logger)
	if loadError != nil {
		return fmt.Errorf(errorGenerateOverviewFormat, projectName, loadError)
	}
	decider := filter.NewDecider(options.ExcludePatterns, ignoreSources, logger)

	treeBuilder := &TreeBuilder{FileSystem: options.FileSystem, Decider: decider}
	renderedTree, treeError := treeBuilder.RenderTree(projectName)
	if treeError != nil {
		return fmt.Errorf(errorGenerateOverviewFormat, projectName, treeError)
	}

	document := output.Document{
		ProjectName: projectName,
		Tree:        renderedTree,
		TreeOnly:    options.TreeOnly,
	}
	if !options.TreeOnly {
		collector := &FileCollector{FileSystem: options.FileSystem, Decider: decider, RootPath: options.RootPath}
		codeFiles, collectError := collector.CollectFiles()
		if collectError != nil {
			return fmt.Errorf(errorGenerateOverviewFormat, projectName, collectError)
		}
		document.Files = codeFiles
	}

	markdownWriter := &output.MarkdownWriter{FileSystem: options.FileSystem, Reporter: logger}
	return markdownWriter.Write(destination, document)
}
