// Package types defines every cross-package data structure used by the prj-overview CLI.
package types

const (
	NodeTypeFile      = "file"
	NodeTypeDirectory = "directory"

	// DefaultOutputFileName is used when no output path is configured.
	DefaultOutputFileName = "project_overview.md"
	// StandardOutputPath selects standard output instead of a file.
	StandardOutputPath = "-"
)

// CodeFile is one collected source file.
type CodeFile struct {
	// RelativePath is slash separated and relative to the scanned root.
	RelativePath string
}

// TreeEntry is a directory entry visited while rendering the folder structure.
type TreeEntry struct {
	Name       string
	Identifier string
	Type       string
	SizeBytes  int64
}

// IsDirectory reports whether the entry is a directory.
func (entry TreeEntry) IsDirectory() bool {
	return entry.Type == NodeTypeDirectory
}
