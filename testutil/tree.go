// Package testutil holds helpers shared by the tests of smartbackup's packages.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bobg/smartbackup"
)

// Tree creates a fresh temporary directory populated with files.
// Keys of files are slash-separated paths relative to the new directory;
// values are file contents.
// A key ending in "/" creates an empty directory.
// The directory is removed when the test finishes.
func Tree(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	Write(t, root, files)
	return root
}

// Write adds files beneath root, creating parent directories as needed.
// Existing files are overwritten.
func Write(t *testing.T, root string, files map[string]string) {
	t.Helper()

	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if rel[len(rel)-1] == '/' {
			if err := os.MkdirAll(path, 0755); err != nil {
				t.Fatal(err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

// Read is the inverse of Tree:
// it maps each file beneath root, by slash-separated relative path, to its contents.
// Empty directories appear as keys ending in "/" with empty contents.
func Read(t *testing.T, root string) map[string]string {
	t.Helper()

	result := make(map[string]string)
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if info.IsDir() {
			entries, err := os.ReadDir(path)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				result[rel+"/"] = ""
			}
			return nil
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		result[rel] = string(b)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return result
}

// Relative rewrites the keys of d relative to root, slash-separated,
// with the root itself as ".".
// It makes DirectoryContents from different temp dirs comparable.
func Relative(t *testing.T, root string, d smartbackup.DirectoryContents) smartbackup.DirectoryContents {
	t.Helper()

	result := make(smartbackup.DirectoryContents, len(d))
	for dir, names := range d {
		rel, err := filepath.Rel(root, dir)
		if err != nil {
			t.Fatal(err)
		}
		result[filepath.ToSlash(rel)] = names
	}
	return result
}

// Touch sets the modification time of path.
func Touch(t *testing.T, path string, mtime time.Time) {
	t.Helper()

	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}
}

// CanDenyAccess tells whether file permission bits are enforced for the current user,
// which is not the case for root.
func CanDenyAccess() bool {
	return os.Geteuid() != 0
}
