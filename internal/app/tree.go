package app

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/disiqueira/gotree/v3"

	"mediagrabber/internal/database/sqlc"
)

// archiveTree renders indexed files as a directory tree under a root label.
type archiveTree struct {
	tree gotree.Tree
	dirs map[string]gotree.Tree
}

func newArchiveTree(rootLabel string) archiveTree {
	return archiveTree{tree: gotree.New(rootLabel), dirs: make(map[string]gotree.Tree)}
}

func (t archiveTree) dir(dirPath string) gotree.Tree {
	if dirPath == "." || dirPath == "" {
		return t.tree
	}
	d, ok := t.dirs[dirPath]
	if !ok {
		d = t.dir(path.Dir(dirPath)).Add(path.Base(dirPath))
		t.dirs[dirPath] = d
	}
	return d
}

func (t archiveTree) insert(f *sqlc.File, sources int) {
	label := f.TargetFilename
	var notes []string
	if sources > 0 {
		notes = append(notes, fmt.Sprintf("%d source(s)", sources))
	}
	if !f.Copied {
		notes = append(notes, "not copied")
	}
	if len(notes) > 0 {
		label += "  [" + strings.Join(notes, ", ") + "]"
	}
	t.dir(f.TargetPath).Add(label)
}

// ArchiveTree renders the indexed target tree, oldest first. A non-zero year
// limits the output to that year's folder.
func (a *MGApp) ArchiveTree(year int) (string, int, error) {
	files, err := a.service.ArchivedFiles()
	if err != nil {
		return "", 0, err
	}

	tree := newArchiveTree(a.target.Root())
	prefix := strconv.Itoa(year) + "/"
	n := 0
	for _, f := range files {
		if year != 0 && !strings.HasPrefix(f.TargetPath, prefix) {
			continue
		}
		sources, err := a.index.ListSources(f.ID)
		if err != nil {
			return "", 0, err
		}
		tree.insert(f, len(sources))
		n++
	}
	return tree.tree.Print(), n, nil
}
