package output_test

import (
	"bytes"
	"testing"

	"github.com/temirov/prjoverview/internal/output"
)

// TestStatusPrinterPlain verifies undecorated output for non-terminal writers.
func TestStatusPrinterPlain(testingHandle *testing.T) {
	var statusBuffer bytes.Buffer
	statusPrinter := output.NewStatusPrinter(&statusBuffer)

	if printError := statusPrinter.Generated("overview.md", 0, ""); printError != nil {
		testingHandle.Fatalf("Generated failed: %v", printError)
	}
	if statusBuffer.String() != "Markdown file 'overview.md' has been generated.\n" {
		testingHandle.Fatalf("unexpected status line %q", statusBuffer.String())
	}

	statusBuffer.Reset()
	if printError := statusPrinter.Generated("overview.md", 1234, "cl100k_base"); printError != nil {
		testingHandle.Fatalf("Generated failed: %v", printError)
	}
	if statusBuffer.String() != "Markdown file 'overview.md' has been generated. (~1234 tokens, cl100k_base)\n" {
		testingHandle.Fatalf("unexpected status line %q", statusBuffer.String())
	}
}
