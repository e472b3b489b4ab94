// Package output assembles the overview document and reports results to the terminal.
package output

import (
	"bufio"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"go.uber.org/zap"

	"github.com/temirov/prjoverview/internal/filter"
	"github.com/temirov/prjoverview/internal/types"
	"github.com/temirov/prjoverview/internal/utils"
)

const (
	titleFormat           = "# %s Overview\n\n"
	folderStructureHeader = "## Folder Structure\n"
	treeFenceOpening      = "```tree\n"
	codeSectionHeader     = "## Code\n"
	fileHeadingFormat     = "### %s\n"

	standardFence  = "```"
	escalatedFence = "````"
	// markdownLanguageTag needs a longer fence so embedded fences do not close the block.
	markdownLanguageTag = "md"

	// BinaryPlaceholder replaces content that is not valid UTF-8 text.
	BinaryPlaceholder = "# [Binary file not displayed]\n"

	sourceUnreadableMessage = "could not read source file"

	errorWriteDocumentFormat = "writing overview document: %w"
)

// Document describes one overview.
type Document struct {
	ProjectName string
	Tree        string
	Files       []types.CodeFile
	TreeOnly    bool
}

// MarkdownWriter renders a Document as Markdown, reading file bodies from FileSystem.
type MarkdownWriter struct {
	FileSystem billy.Filesystem
	Reporter   filter.Reporter
}

// Write renders document into destination.
func (markdownWriter *MarkdownWriter) Write(destination io.Writer, document Document) error {
	bufferedWriter := bufio.NewWriter(destination)

	fmt.Fprintf(bufferedWriter, titleFormat, document.ProjectName)
	bufferedWriter.WriteString(folderStructureHeader)
	bufferedWriter.WriteString(treeFenceOpening)
	bufferedWriter.WriteString(document.Tree + "\n")
	bufferedWriter.WriteString(standardFence + "\n\n")

	if !document.TreeOnly {
		bufferedWriter.WriteString(codeSectionHeader)
		for _, codeFile := range document.Files {
			languageTag := LanguageTag(codeFile.RelativePath)
			fence := FenceFor(languageTag)
			fmt.Fprintf(bufferedWriter, fileHeadingFormat, codeFile.RelativePath)
			bufferedWriter.WriteString(fence + languageTag + "\n")
			bufferedWriter.WriteString(markdownWriter.readContent(codeFile) + "\n")
			bufferedWriter.WriteString(fence + "\n\n")
		}
	}

	if flushError := bufferedWriter.Flush(); flushError != nil {
		return fmt.Errorf(errorWriteDocumentFormat, flushError)
	}
	return nil
}

// readContent returns the text of a file, or BinaryPlaceholder when the file
// cannot be read or is not valid UTF-8.
func (markdownWriter *MarkdownWriter) readContent(codeFile types.CodeFile) string {
	fileBytes, readError := util.ReadFile(markdownWriter.FileSystem, filepath.FromSlash(codeFile.RelativePath))
	if readError != nil {
		if markdownWriter.Reporter != nil {
			markdownWriter.Reporter.Warn(sourceUnreadableMessage, zap.String("path", codeFile.RelativePath), zap.Error(readError))
		}
		return BinaryPlaceholder
	}
	if !utils.IsDecodableText(fileBytes) {
		return BinaryPlaceholder
	}
	return utils.NormalizeLineEndings(string(fileBytes))
}

// LanguageTag derives the code fence language from a file name: the extension
// without its dot, or the whole name when there is no extension. A name whose
// only dot is the leading one, such as ".gitignore", has no extension.
func LanguageTag(filePath string) string {
	baseName := path.Base(filepath.ToSlash(filePath))
	dotIndex := strings.LastIndex(baseName, ".")
	if dotIndex > 0 && dotIndex < len(baseName)-1 {
		return baseName[dotIndex+1:]
	}
	return baseName
}

// FenceFor returns the code fence used for a language tag.
func FenceFor(languageTag string) string {
	if languageTag == markdownLanguageTag {
		return escalatedFence
	}
	return standardFence
}
