// Package commands contains the traversal logic behind an overview: the
// folder tree, the file collection and the pipeline that joins them.
package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/temirov/prjoverview/internal/types"
)

const (
	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "
	directorySuffix     = "/"
	treeLineSeparator   = "\n"

	// errorReadDirectoryFormat is used when a directory cannot be read.
	errorReadDirectoryFormat = "reading directory %s: %w"
	// errorBuildTreeFormat is used when building the tree fails.
	errorBuildTreeFormat = "building tree for %s: %w"
)

// RenderTree renders the folder structure as box-drawing text. The first line
// is rootName followed by a slash. Directories are listed before files, each
// group ordered case-insensitively; directories stay visible even when all of
// their children are excluded. Connectors are chosen among the siblings left
// after hygiene pruning, before exclusions apply, so an excluded final
// sibling leaves the previous line with a branch connector.
func (treeBuilder *TreeBuilder) RenderTree(rootName string) (string, error) {
	treeLines := []string{rootName + directorySuffix}
	childLines, buildError := treeBuilder.buildTreeLines(rootIdentifier, "")
	if buildError != nil {
		return "", fmt.Errorf(errorBuildTreeFormat, rootName, buildError)
	}
	treeLines = append(treeLines, childLines...)
	return strings.Join(treeLines, treeLineSeparator), nil
}

// buildTreeLines renders the included children of the directory at identifier.
func (treeBuilder *TreeBuilder) buildTreeLines(identifier string, prefix string) ([]string, error) {
	entries, listError := treeBuilder.sortedChildren(identifier)
	if listError != nil {
		return nil, listError
	}

	var treeLines []string
	for entryIndex, entry := range entries {
		isLastEntry := entryIndex == len(entries)-1
		connector := treeBranchConnector
		padding := treeBranchPadding
		if isLastEntry {
			connector = treeLastConnector
			padding = treeLastPadding
		}

		if !treeBuilder.Decider.Include(entry.Identifier, entry.IsDirectory()) {
			continue
		}
		if !entry.IsDirectory() {
			if isEmptyPackageMarker(entry.Name, entry.SizeBytes) {
				continue
			}
			treeLines = append(treeLines, prefix+connector+entry.Name)
			continue
		}

		treeLines = append(treeLines, prefix+connector+entry.Name+directorySuffix)
		childLines, buildError := treeBuilder.buildTreeLines(entry.Identifier, prefix+padding)
		if buildError != nil {
			return nil, buildError
		}
		treeLines = append(treeLines, childLines...)
	}
	return treeLines, nil
}

// sortedChildren lists and orders the direct children of a directory,
// dropping hygiene names.
func (treeBuilder *TreeBuilder) sortedChildren(identifier string) ([]types.TreeEntry, error) {
	directoryPath := identifierToPath(identifier)
	fileInfos, readDirectoryError := treeBuilder.FileSystem.ReadDir(directoryPath)
	if readDirectoryError != nil {
		return nil, fmt.Errorf(errorReadDirectoryFormat, identifier, readDirectoryError)
	}

	entries := make([]types.TreeEntry, 0, len(fileInfos))
	for _, fileInfo := range fileInfos {
		if isHygieneName(fileInfo.Name()) {
			continue
		}
		entries = append(entries, treeEntryFromInfo(identifier, fileInfo))
	}
	sortTreeEntries(entries)
	return entries, nil
}

// sortTreeEntries orders directories before files, then by lowercased name.
// Names equal after lowercasing fall back to byte order.
func sortTreeEntries(entries []types.TreeEntry) {
	sort.SliceStable(entries, func(leftIndex, rightIndex int) bool {
		left := entries[leftIndex]
		right := entries[rightIndex]
		if left.IsDirectory() != right.IsDirectory() {
			return left.IsDirectory()
		}
		leftLower := strings.ToLower(left.Name)
		rightLower := strings.ToLower(right.Name)
		if leftLower != rightLower {
			return leftLower < rightLower
		}
		return left.Name < right.Name
	})
}
