// Package walk enumerates a directory tree into a smartbackup.DirectoryContents.
package walk

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/bobg/smartbackup"
)

// MaxDepth is how deeply Walker will descend before giving up with ErrTooDeep.
// Symlinked directories are followed without cycle detection,
// so a symlink loop ends here.
const MaxDepth = 255

// ErrTooDeep is the error for a tree deeper than MaxDepth.
var ErrTooDeep = errors.New("directory tree too deep (symlink loop?)")

// Walker walks a directory tree.
// The zero value is ready to use.
type Walker struct {
	// Visit, if not nil, is called once per directory,
	// before any of its subdirectories are visited,
	// with the names of the files it directly contains.
	// The list it returns is what Walk records for dir.
	// An error aborts the walk.
	Visit func(dir string, files []string) ([]string, error)

	// OnError, if not nil, is called for each subdirectory that cannot be read.
	// Such a directory is recorded with an empty file list
	// and the walk continues.
	OnError func(dir string, err error)
}

// Walk produces the DirectoryContents of the tree rooted at root
// using a zero Walker.
func Walk(root string) (smartbackup.DirectoryContents, error) {
	var w Walker
	return w.Walk(root)
}

// Walk produces the DirectoryContents of the tree rooted at root:
// one entry for root listing its immediate files,
// plus the entries of each immediate subdirectory, recursively.
// Keys are root (cleaned) and paths joined onto it.
//
// A root that does not exist yields empty contents and no error.
func (w *Walker) Walk(root string) (smartbackup.DirectoryContents, error) {
	root = filepath.Clean(root)

	info, err := os.Stat(root)
	if os.IsNotExist(err) {
		return smartbackup.DirectoryContents{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "statting %s", root)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("%s is not a directory", root)
	}

	result := make(smartbackup.DirectoryContents)
	err = w.walk(root, 0, result)
	return result, err
}

func (w *Walker) walk(dir string, depth int, result smartbackup.DirectoryContents) error {
	if depth > MaxDepth {
		return errors.Wrapf(ErrTooDeep, "at %s", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if depth == 0 {
			return errors.Wrapf(err, "reading dir %s", dir)
		}
		if w.OnError != nil {
			w.OnError(dir, err)
		}
		result[dir] = []string{}
		return nil
	}

	var (
		files   = []string{}
		subdirs []string
	)
	for _, entry := range entries {
		name := entry.Name()
		if isDir(dir, entry) {
			subdirs = append(subdirs, name)
			continue
		}
		files = append(files, name)
	}

	if w.Visit != nil {
		files, err = w.Visit(dir, files)
		if err != nil {
			return err
		}
	}
	result[dir] = files

	for _, sub := range subdirs {
		err = w.walk(filepath.Join(dir, sub), depth+1, result)
		if err != nil {
			return err
		}
	}

	return nil
}

// Symlinks count as directories when their targets are directories.
func isDir(dir string, entry fs.DirEntry) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, entry.Name()))
	return err == nil && info.IsDir()
}
