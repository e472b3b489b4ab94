package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/temirov/prjoverview/internal/filter"
	"github.com/temirov/prjoverview/internal/types"
)

const (
	// errorCollectFilesFormat is used when the file walk fails.
	errorCollectFilesFormat = "collecting files under %s: %w"
)

// FileCollector enumerates the files whose content goes into an overview.
type FileCollector struct {
	FileSystem billy.Filesystem
	Decider    *filter.Decider
	// RootPath is the host path of the filesystem root, used in error messages.
	RootPath string
}

// CollectFiles walks the whole filesystem and returns every included file,
// ordered by relative path. Exclusion is decided per entry: an excluded
// directory is still descended into and its files are judged on their own.
func (collector *FileCollector) CollectFiles() ([]types.CodeFile, error) {
	var codeFiles []types.CodeFile

	walkError := util.Walk(collector.FileSystem, rootIdentifier, func(walkedPath string, fileInfo os.FileInfo, accessError error) error {
		if accessError != nil {
			return accessError
		}
		identifier := pathToIdentifier(walkedPath)
		if identifier == rootIdentifier {
			return nil
		}
		if fileInfo.IsDir() && isHygieneName(fileInfo.Name()) {
			return filepath.SkipDir
		}
		if filter.HasGitComponent(identifier) {
			return nil
		}
		if !collector.Decider.Include(identifier, fileInfo.IsDir()) {
			return nil
		}
		if fileInfo.IsDir() {
			return nil
		}
		if isEmptyPackageMarker(fileInfo.Name(), fileInfo.Size()) {
			return nil
		}
		codeFiles = append(codeFiles, types.CodeFile{RelativePath: identifier})
		return nil
	})
	if walkError != nil {
		return nil, fmt.Errorf(errorCollectFilesFormat, collector.RootPath, walkError)
	}

	sort.Slice(codeFiles, func(leftIndex, rightIndex int) bool {
		return codeFiles[leftIndex].RelativePath < codeFiles[rightIndex].RelativePath
	})
	return codeFiles, nil
}
