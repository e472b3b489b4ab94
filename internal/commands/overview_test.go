package commands_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"

	"github.com/temirov/prjoverview/internal/commands"
)

func generate(testingHandle *testing.T, fileSystem billy.Filesystem, options commands.OverviewOptions) string {
	testingHandle.Helper()
	options.FileSystem = fileSystem
	options.RootPath = collectorRootPath
	var documentBuffer bytes.Buffer
	if generateError := commands.GenerateOverview(&documentBuffer, options); generateError != nil {
		testingHandle.Fatalf("GenerateOverview failed: %v", generateError)
	}
	return documentBuffer.String()
}

// TestGenerateOverviewLLMIgnoreScenario verifies the default .llmignore handling end to end.
func TestGenerateOverviewLLMIgnoreScenario(testingHandle *testing.T) {
	fileSystem := memfs.New()
	writeMemoryFile(testingHandle, fileSystem, "a.py", "print('a')\n")
	writeMemoryFile(testingHandle, fileSystem, "b/c.py", "print('c')\n")
	writeMemoryFile(testingHandle, fileSystem, ".llmignore", "b/*\n")

	expectedDocument := "# proj Overview\n\n" +
		"## Folder Structure\n" +
		"```tree\n" +
		"proj/\n" +
		"├── b/\n" +
		"├── .llmignore\n" +
		"└── a.py\n" +
		"```\n\n" +
		"## Code\n" +
		"### .llmignore\n" +
		"```.llmignore\n" +
		"b/*\n\n" +
		"```\n\n" +
		"### a.py\n" +
		"```py\n" +
		"print('a')\n\n" +
		"```\n\n"

	document := generate(testingHandle, fileSystem, commands.OverviewOptions{UseLLMIgnore: true})
	if document != expectedDocument {
		testingHandle.Fatalf("unexpected document:\n%s\nwant:\n%s", document, expectedDocument)
	}

	secondDocument := generate(testingHandle, fileSystem, commands.OverviewOptions{UseLLMIgnore: true})
	if secondDocument != document {
		testingHandle.Fatalf("two runs over the same tree differ")
	}
}

// TestGenerateOverviewIgnoreSourceToggles verifies .llmignore can be disabled and .gitignore enabled.
func TestGenerateOverviewIgnoreSourceToggles(testingHandle *testing.T) {
	fileSystem := memfs.New()
	writeMemoryFile(testingHandle, fileSystem, "keep.py", "k")
	writeMemoryFile(testingHandle, fileSystem, "llm_only.py", "l")
	writeMemoryFile(testingHandle, fileSystem, "git_only.py", "g")
	writeMemoryFile(testingHandle, fileSystem, ".llmignore", "llm_only.py\n")
	writeMemoryFile(testingHandle, fileSystem, ".gitignore", "git_only.py\n")

	testCases := []struct {
		name          string
		options       commands.OverviewOptions
		expectPresent []string
		expectAbsent  []string
	}{
		{
			name:          "defaults",
			options:       commands.OverviewOptions{UseLLMIgnore: true},
			expectPresent: []string{"### git_only.py", "### keep.py"},
			expectAbsent:  []string{"### llm_only.py", "── llm_only.py"},
		},
		{
			name:          "no llmignore",
			options:       commands.OverviewOptions{},
			expectPresent: []string{"### git_only.py", "### llm_only.py", "### keep.py"},
		},
		{
			name:          "both sources",
			options:       commands.OverviewOptions{UseLLMIgnore: true, UseGitignore: true},
			expectPresent: []string{"### keep.py"},
			expectAbsent:  []string{"### llm_only.py", "── llm_only.py", "### git_only.py", "── git_only.py"},
		},
	}

	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(subTestingHandle *testing.T) {
			document := generate(subTestingHandle, fileSystem, testCase.options)
			for _, expectedFragment := range testCase.expectPresent {
				if !strings.Contains(document, expectedFragment) {
					subTestingHandle.Fatalf("document lacks %q:\n%s", expectedFragment, document)
				}
			}
			for _, absentFragment := range testCase.expectAbsent {
				if strings.Contains(document, absentFragment) {
					subTestingHandle.Fatalf("document unexpectedly contains %q:\n%s", absentFragment, document)
				}
			}
		})
	}
}

// TestGenerateOverviewExcludeAndTreeOnly verifies CLI excludes and tree-only output.
func TestGenerateOverviewExcludeAndTreeOnly(testingHandle *testing.T) {
	fileSystem := memfs.New()
	writeMemoryFile(testingHandle, fileSystem, "README.md", "# Title\n```go\nx\n```\n")
	writeMemoryFile(testingHandle, fileSystem, "main.py", "print('main')\n")

	excludedDocument := generate(testingHandle, fileSystem, commands.OverviewOptions{ExcludePatterns: []string{"*.md"}})
	if strings.Contains(excludedDocument, "README.md") {
		testingHandle.Fatalf("excluded README.md still present:\n%s", excludedDocument)
	}
	if !strings.Contains(excludedDocument, "proj/\n├── main.py\n```\n") {
		testingHandle.Fatalf("main.py missing from tree:\n%s", excludedDocument)
	}

	fullDocument := generate(testingHandle, fileSystem, commands.OverviewOptions{})
	if !strings.Contains(fullDocument, "### README.md\n````md\n# Title\n```go\nx\n```\n\n````\n\n") {
		testingHandle.Fatalf("markdown file not wrapped in a four backtick fence:\n%s", fullDocument)
	}

	treeOnlyDocument := generate(testingHandle, fileSystem, commands.OverviewOptions{TreeOnly: true})
	if strings.Contains(treeOnlyDocument, "## Code") {
		testingHandle.Fatalf("tree-only output contains a code section:\n%s", treeOnlyDocument)
	}
	if !strings.HasSuffix(treeOnlyDocument, "├── main.py\n└── README.md\n```\n\n") {
		testingHandle.Fatalf("tree-only output does not end with the tree:\n%s", treeOnlyDocument)
	}
}

// TestGenerateOverviewPackageMarkers verifies empty __init__.py files are omitted and non-empty ones kept.
func TestGenerateOverviewPackageMarkers(testingHandle *testing.T) {
	fileSystem := memfs.New()
	writeMemoryFile(testingHandle, fileSystem, "empty/__init__.py", "")
	writeMemoryFile(testingHandle, fileSystem, "full/__init__.py", "VERSION = '1'\n")

	document := generate(testingHandle, fileSystem, commands.OverviewOptions{})
	if strings.Contains(document, "empty/__init__.py") {
		testingHandle.Fatalf("empty __init__.py listed:\n%s", document)
	}
	if !strings.Contains(document, "### full/__init__.py\n") || !strings.Contains(document, "    └── __init__.py") {
		testingHandle.Fatalf("non-empty __init__.py missing:\n%s", document)
	}
}
