// Package cli provides the prj-overview command line interface.
package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/prjoverview/internal/commands"
	"github.com/temirov/prjoverview/internal/config"
	"github.com/temirov/prjoverview/internal/filter"
	"github.com/temirov/prjoverview/internal/output"
	"github.com/temirov/prjoverview/internal/services/clipboard"
	"github.com/temirov/prjoverview/internal/tokenizer"
	"github.com/temirov/prjoverview/internal/types"
	"github.com/temirov/prjoverview/internal/utils"
)

const (
	outputFlagName       = "output"
	excludeFlagName      = "exclude"
	noLLMIgnoreFlagName  = "no-llmignore"
	useGitignoreFlagName = "use-gitignore"
	logLevelFlagName     = "log-level"
	treeOnlyFlagName     = "tree-only"
	clipboardFlagName    = "clipboard"
	tokensFlagName       = "tokens"
	modelFlagName        = "model"
	configFlagName       = "config"
	initConfigFlagName   = "init-config"
	forceFlagName        = "force"
	versionFlagName      = "version"

	outputFlagDescription       = "Output Markdown filename, or - for standard output"
	excludeFlagDescription      = "Wildcard pattern to exclude (e.g. '*test*', '*.md'), matched against each path relative to the project root"
	noLLMIgnoreFlagDescription  = "Disable the use of .llmignore files for pattern filtering"
	useGitignoreFlagDescription = "Use .gitignore files for pattern filtering (lower priority than .llmignore)"
	logLevelFlagDescription     = "Define log level: 'info', 'warning' or 'error'"
	treeOnlyFlagDescription     = "Only add the tree section to the Markdown"
	clipboardFlagDescription    = "Copy the generated Markdown to the clipboard"
	tokensFlagDescription       = "Report the estimated token count of the generated Markdown"
	modelFlagDescription        = "Tokenizer model used for the token estimate"
	configFlagDescription       = "Configuration file to use instead of " + utils.ConfigFileName
	initConfigFlagDescription   = "Write a default configuration file (local or global) and exit"
	forceFlagDescription        = "Overwrite an existing configuration file with --init-config"
	versionFlagDescription      = "Display application version"

	rootUse              = utils.ApplicationName + " <directory>"
	rootShortDescription = "Convert folder structure and code files to Markdown with pattern filtering"
	rootLongDescription  = `prj-overview writes one Markdown document describing a project: a folder tree
followed by the content of every included file.

Pattern sources in order of precedence:
  1. --exclude patterns (highest priority)
  2. .llmignore files (default, unless --no-llmignore is set)
  3. .gitignore files (only if --use-gitignore is set)`
	rootUsageExample = `  # Describe the current project
  prj-overview .

  # Skip tests and Markdown, include .gitignore rules
  prj-overview ./service -e '*test*' -e '*.md' --use-gitignore

  # Print only the tree to standard output
  prj-overview . --tree-only -o -`

	versionTemplate          = utils.ApplicationName + " version: %s\n"
	initializedConfigFormat  = "Configuration written to %s\n"
	unknownLogLevelFormat    = "Warning: unknown log level '%s', using 'error'\n"
	invalidDirectoryFormat   = "Error: The directory '%s' does not exist or is not a directory."
	clipboardFailedMessage   = "could not copy overview to clipboard"
	tokenCountFailedMessage  = "could not estimate token count"
	tokenCountMessage        = "estimated token count"
	outputExcludedMessage    = "excluding output file from overview"
	argumentCountErrorFormat = "accepts 1 directory argument, received %d"

	errorWorkingDirectoryFormat = "determine working directory: %w"
	errorAbsolutePathFormat     = "resolve absolute path for '%s': %w"
	errorLoadConfigFormat       = "load configuration: %w"
	errorWriteOutputFormat      = "write overview to %s: %w"
)

// ErrInvalidDirectory reports a directory argument that does not name an existing directory.
var ErrInvalidDirectory = errors.New("invalid directory")

// DirectoryError carries the rejected directory argument.
type DirectoryError struct {
	Directory string
}

func (directoryError DirectoryError) Error() string {
	return fmt.Sprintf(invalidDirectoryFormat, directoryError.Directory)
}

// Is matches ErrInvalidDirectory.
func (directoryError DirectoryError) Is(target error) bool {
	return target == ErrInvalidDirectory
}

// CounterFactory builds a token counter.
type CounterFactory func(tokenizer.Config) (tokenizer.Counter, error)

// Dependencies are the collaborators of the root command. Zero values are
// replaced with production defaults.
type Dependencies struct {
	Logger           *zap.Logger
	AtomicLevel      *zap.AtomicLevel
	Stdout           io.Writer
	Stderr           io.Writer
	Clipboard        clipboard.Copier
	NewCounter       CounterFactory
	WorkingDirectory string
	HomeDirectory    string
}

func (dependencies Dependencies) withDefaults() Dependencies {
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	if dependencies.AtomicLevel == nil {
		atomicLevel := zap.NewAtomicLevelAt(zap.ErrorLevel)
		dependencies.AtomicLevel = &atomicLevel
	}
	if dependencies.Stdout == nil {
		dependencies.Stdout = os.Stdout
	}
	if dependencies.Stderr == nil {
		dependencies.Stderr = os.Stderr
	}
	if dependencies.Clipboard == nil {
		dependencies.Clipboard = clipboard.NewService()
	}
	if dependencies.NewCounter == nil {
		dependencies.NewCounter = tokenizer.NewCounter
	}
	return dependencies
}

// commandOptions holds the parsed flag values of one invocation.
type commandOptions struct {
	outputPath      string
	excludePatterns []string
	noLLMIgnore     bool
	useGitignore    bool
	logLevel        string
	treeOnly        bool
	clipboard       bool
	tokens          bool
	model           string
	configPath      string
	initTarget      string
	force           bool
	showVersion     bool
}

// Execute runs prj-overview with the process arguments.
func Execute(logger *zap.Logger, atomicLevel zap.AtomicLevel) error {
	rootCommand := NewRootCommand(Dependencies{Logger: logger, AtomicLevel: &atomicLevel})
	return rootCommand.Execute()
}

// NewRootCommand builds the root Cobra command.
func NewRootCommand(dependencies Dependencies) *cobra.Command {
	dependencies = dependencies.withDefaults()
	var options commandOptions

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		Example:       rootUsageExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(command *cobra.Command, arguments []string) error {
			if options.showVersion || command.Flags().Changed(initConfigFlagName) {
				return nil
			}
			if len(arguments) != 1 {
				return fmt.Errorf(argumentCountErrorFormat, len(arguments))
			}
			return nil
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			if options.showVersion {
				_, printError := fmt.Fprintf(dependencies.Stdout, versionTemplate, utils.GetApplicationVersion())
				return printError
			}
			if command.Flags().Changed(initConfigFlagName) {
				return runInitConfig(dependencies, options)
			}
			return runOverview(command, dependencies, options, arguments[0])
		},
	}
	rootCommand.SetOut(dependencies.Stdout)
	rootCommand.SetErr(dependencies.Stderr)

	flagSet := rootCommand.Flags()
	flagSet.StringVarP(&options.outputPath, outputFlagName, "o", types.DefaultOutputFileName, outputFlagDescription)
	flagSet.StringArrayVarP(&options.excludePatterns, excludeFlagName, "e", nil, excludeFlagDescription)
	registerBooleanFlag(flagSet, &options.noLLMIgnore, noLLMIgnoreFlagName, "", false, noLLMIgnoreFlagDescription)
	registerBooleanFlag(flagSet, &options.useGitignore, useGitignoreFlagName, "", false, useGitignoreFlagDescription)
	flagSet.StringVarP(&options.logLevel, logLevelFlagName, "l", utils.LogLevelError, logLevelFlagDescription)
	registerBooleanFlag(flagSet, &options.treeOnly, treeOnlyFlagName, "t", false, treeOnlyFlagDescription)
	registerBooleanFlag(flagSet, &options.clipboard, clipboardFlagName, "c", false, clipboardFlagDescription)
	registerBooleanFlag(flagSet, &options.tokens, tokensFlagName, "", false, tokensFlagDescription)
	flagSet.StringVar(&options.model, modelFlagName, tokenizer.DefaultModel, modelFlagDescription)
	flagSet.StringVar(&options.configPath, configFlagName, "", configFlagDescription)
	flagSet.StringVar(&options.initTarget, initConfigFlagName, string(config.InitTargetLocal), initConfigFlagDescription)
	if initFlag := flagSet.Lookup(initConfigFlagName); initFlag != nil {
		initFlag.NoOptDefVal = string(config.InitTargetLocal)
	}
	flagSet.BoolVar(&options.force, forceFlagName, false, forceFlagDescription)
	flagSet.BoolVar(&options.showVersion, versionFlagName, false, versionFlagDescription)
	return rootCommand
}

func runInitConfig(dependencies Dependencies, options commandOptions) error {
	writtenPath, initError := config.InitializeConfiguration(config.InitOptions{
		Target:           config.InitTarget(options.initTarget),
		Force:            options.force,
		WorkingDirectory: dependencies.WorkingDirectory,
		HomeDirectory:    dependencies.HomeDirectory,
	})
	if initError != nil {
		return initError
	}
	_, printError := fmt.Fprintf(dependencies.Stdout, initializedConfigFormat, writtenPath)
	return printError
}

// runSettings is the outcome of merging flags, configuration and defaults.
type runSettings struct {
	outputPath      string
	excludePatterns []string
	useLLMIgnore    bool
	useGitignore    bool
	logLevel        string
	treeOnly        bool
	clipboard       bool
	tokens          bool
	model           string
}

// resolveSettings applies precedence: an explicitly set flag, then the
// configuration, then the flag default. Exclude patterns accumulate.
func resolveSettings(command *cobra.Command, options commandOptions, fileConfiguration config.ApplicationConfiguration) runSettings {
	flagSet := command.Flags()
	settings := runSettings{
		outputPath: options.outputPath,
		logLevel:   options.logLevel,
		model:      options.model,
	}
	if !flagSet.Changed(outputFlagName) && fileConfiguration.Output != "" {
		settings.outputPath = fileConfiguration.Output
	}
	if !flagSet.Changed(logLevelFlagName) && fileConfiguration.LogLevel != "" {
		settings.logLevel = fileConfiguration.LogLevel
	}
	if !flagSet.Changed(modelFlagName) && fileConfiguration.Tokens.Model != "" {
		settings.model = fileConfiguration.Tokens.Model
	}
	settings.excludePatterns = utils.DeduplicatePatterns(append(append([]string{}, fileConfiguration.Exclude...), options.excludePatterns...))

	resolveBool := func(flagName string, flagValue bool, configured *bool) bool {
		if flagSet.Changed(flagName) {
			return flagValue
		}
		return config.BoolOrDefault(configured, flagValue)
	}
	settings.useLLMIgnore = !resolveBool(noLLMIgnoreFlagName, options.noLLMIgnore, fileConfiguration.NoLLMIgnore)
	settings.useGitignore = resolveBool(useGitignoreFlagName, options.useGitignore, fileConfiguration.UseGitignore)
	settings.treeOnly = resolveBool(treeOnlyFlagName, options.treeOnly, fileConfiguration.TreeOnly)
	settings.clipboard = resolveBool(clipboardFlagName, options.clipboard, fileConfiguration.Clipboard)
	settings.tokens = resolveBool(tokensFlagName, options.tokens, fileConfiguration.Tokens.Enabled)
	return settings
}

func runOverview(command *cobra.Command, dependencies Dependencies, options commandOptions, directoryArgument string) error {
	logger := dependencies.Logger

	workingDirectory := dependencies.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return fmt.Errorf(errorWorkingDirectoryFormat, workingDirectoryError)
		}
		workingDirectory = currentDirectory
	}

	fileConfiguration, configError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: options.configPath,
		HomeDirectory:    dependencies.HomeDirectory,
	})
	if configError != nil {
		return fmt.Errorf(errorLoadConfigFormat, configError)
	}
	settings := resolveSettings(command, options, fileConfiguration)

	level, knownLevel := utils.ParseLogLevel(settings.logLevel)
	dependencies.AtomicLevel.SetLevel(level)
	if !knownLevel {
		fmt.Fprintf(dependencies.Stderr, unknownLogLevelFormat, settings.logLevel)
	}

	rootPath, rootError := validateDirectory(workingDirectory, directoryArgument)
	if rootError != nil {
		return rootError
	}

	writeToStdout := settings.outputPath == types.StandardOutputPath
	var absoluteOutputPath string
	excludePatterns := settings.excludePatterns
	if !writeToStdout {
		absoluteOutputPath = resolveAgainst(workingDirectory, settings.outputPath)
		if outputIdentifier, insideRoot := utils.RelativePathOrSelf(absoluteOutputPath, rootPath); insideRoot && outputIdentifier != "." {
			logger.Info(outputExcludedMessage, zap.String("identifier", outputIdentifier))
			excludePatterns = append(excludePatterns, filter.EscapeGlob(outputIdentifier))
		}
	}

	var documentBuffer bytes.Buffer
	generateError := commands.GenerateOverview(&documentBuffer, commands.OverviewOptions{
		FileSystem:      osfs.New(rootPath),
		RootPath:        rootPath,
		ExcludePatterns: excludePatterns,
		UseLLMIgnore:    settings.useLLMIgnore,
		UseGitignore:    settings.useGitignore,
		TreeOnly:        settings.treeOnly,
		Logger:          logger,
	})
	if generateError != nil {
		return generateError
	}

	if writeToStdout {
		if _, writeError := dependencies.Stdout.Write(documentBuffer.Bytes()); writeError != nil {
			return fmt.Errorf(errorWriteOutputFormat, types.StandardOutputPath, writeError)
		}
	} else if writeError := os.WriteFile(absoluteOutputPath, documentBuffer.Bytes(), 0o644); writeError != nil {
		return fmt.Errorf(errorWriteOutputFormat, settings.outputPath, writeError)
	}

	if settings.clipboard {
		if copyError := dependencies.Clipboard.Copy(documentBuffer.String()); copyError != nil {
			logger.Warn(clipboardFailedMessage, zap.Error(copyError))
		}
	}

	tokenCount, tokenModel := countTokens(dependencies, settings, documentBuffer.Bytes())

	if writeToStdout {
		return nil
	}
	return output.NewStatusPrinter(dependencies.Stdout).Generated(settings.outputPath, tokenCount, tokenModel)
}

// countTokens estimates the document size in tokens. Failures are logged and
// reported as a zero count.
func countTokens(dependencies Dependencies, settings runSettings, document []byte) (int, string) {
	if !settings.tokens {
		return 0, ""
	}
	logger := dependencies.Logger
	counter, counterError := dependencies.NewCounter(tokenizer.Config{Model: settings.model})
	if counterError != nil {
		logger.Warn(tokenCountFailedMessage, zap.Error(counterError))
		return 0, ""
	}
	countResult, countError := tokenizer.CountBytes(counter, document)
	if countError != nil {
		logger.Warn(tokenCountFailedMessage, zap.Error(countError))
		return 0, ""
	}
	logger.Info(tokenCountMessage, zap.Int("tokens", countResult.Tokens), zap.String("model", counter.Name()))
	return countResult.Tokens, counter.Name()
}

// validateDirectory returns the absolute, cleaned path of an existing directory.
func validateDirectory(workingDirectory string, directoryArgument string) (string, error) {
	rootPath := resolveAgainst(workingDirectory, directoryArgument)
	info, statError := os.Stat(rootPath)
	if statError != nil || !info.IsDir() {
		return "", DirectoryError{Directory: directoryArgument}
	}
	absoluteRoot, absError := filepath.Abs(rootPath)
	if absError != nil {
		return "", fmt.Errorf(errorAbsolutePathFormat, directoryArgument, absError)
	}
	return filepath.Clean(absoluteRoot), nil
}

func resolveAgainst(workingDirectory string, candidate string) string {
	if filepath.IsAbs(candidate) {
		return filepath.Clean(candidate)
	}
	return filepath.Join(workingDirectory, candidate)
}
