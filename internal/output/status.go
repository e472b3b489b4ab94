package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

const (
	generatedMessageFormat = "Markdown file '%s' has been generated."
	tokenSuffixFormat      = " (~%d tokens, %s)"
	noColorEnvironmentKey  = "NO_COLOR"
)

// StatusPrinter reports the outcome of a run on the terminal.
type StatusPrinter struct {
	writer       io.Writer
	successStyle lipgloss.Style
	detailStyle  lipgloss.Style
}

// NewStatusPrinter creates a StatusPrinter. Colors are used only when writer
// is a terminal and NO_COLOR is unset.
func NewStatusPrinter(writer io.Writer) *StatusPrinter {
	statusPrinter := &StatusPrinter{
		writer:       writer,
		successStyle: lipgloss.NewStyle(),
		detailStyle:  lipgloss.NewStyle(),
	}
	if IsTerminal(writer) && !colorDisabled() {
		statusPrinter.successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
		statusPrinter.detailStyle = lipgloss.NewStyle().Faint(true)
	}
	return statusPrinter
}

// Generated announces a written document. tokenCount is shown when positive.
func (statusPrinter *StatusPrinter) Generated(outputPath string, tokenCount int, tokenModel string) error {
	line := statusPrinter.successStyle.Render(fmt.Sprintf(generatedMessageFormat, outputPath))
	if tokenCount > 0 {
		line += statusPrinter.detailStyle.Render(fmt.Sprintf(tokenSuffixFormat, tokenCount, tokenModel))
	}
	_, printError := fmt.Fprintln(statusPrinter.writer, line)
	return printError
}

// IsTerminal reports whether writer is a terminal.
func IsTerminal(writer io.Writer) bool {
	file, isFile := writer.(*os.File)
	if !isFile {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}

func colorDisabled() bool {
	_, exists := os.LookupEnv(noColorEnvironmentKey)
	return exists
}
