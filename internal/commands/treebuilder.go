package commands

import (
	"github.com/go-git/go-billy/v5"

	"github.com/temirov/prjoverview/internal/filter"
)

// TreeBuilder renders the folder structure of a project filesystem.
type TreeBuilder struct {
	FileSystem billy.Filesystem
	Decider    *filter.Decider
}
