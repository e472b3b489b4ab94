package commands

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/prjoverview/internal/filter"
	"github.com/temirov/prjoverview/internal/types"
)

const (
	// pythonCacheDirectoryName is never listed.
	pythonCacheDirectoryName = "__pycache__"
	// packageMarkerFileName is skipped when empty.
	packageMarkerFileName = "__init__.py"

	rootIdentifier    = "."
	identifierDivider = "/"
)

// isHygieneName reports entries pruned before the decider is consulted.
func isHygieneName(entryName string) bool {
	return entryName == pythonCacheDirectoryName || entryName == filter.GitDirectoryName
}

// isEmptyPackageMarker reports an empty __init__.py, which carries no source.
func isEmptyPackageMarker(entryName string, sizeBytes int64) bool {
	return entryName == packageMarkerFileName && sizeBytes == 0
}

// childIdentifier joins a parent identifier and an entry name.
func childIdentifier(parentIdentifier string, entryName string) string {
	if parentIdentifier == "" || parentIdentifier == rootIdentifier {
		return entryName
	}
	return parentIdentifier + identifierDivider + entryName
}

// identifierToPath converts an identifier back into a filesystem path relative to the root.
func identifierToPath(identifier string) string {
	return filepath.FromSlash(identifier)
}

// pathToIdentifier converts a filesystem path relative to the root into an identifier.
func pathToIdentifier(relativePath string) string {
	return strings.TrimPrefix(filepath.ToSlash(filepath.Clean(relativePath)), "./")
}

// treeEntryFromInfo describes a directory entry. Symbolic links are never
// treated as directories so neither traversal follows them.
func treeEntryFromInfo(parentIdentifier string, fileInfo os.FileInfo) types.TreeEntry {
	entryType := types.NodeTypeFile
	if fileInfo.IsDir() {
		entryType = types.NodeTypeDirectory
	}
	return types.TreeEntry{
		Name:       fileInfo.Name(),
		Identifier: childIdentifier(parentIdentifier, fileInfo.Name()),
		Type:       entryType,
		SizeBytes:  fileInfo.Size(),
	}
}
