package smartbackup

import (
	"sort"
)

type (
	// Digest is a lowercase hex-encoded content hash.
	Digest string

	// DirectoryContents maps a directory path to the names of the files directly inside it.
	// Subdirectory names are not listed;
	// each subdirectory has an entry of its own.
	// Empty directories have an entry with an empty list.
	DirectoryContents map[string][]string

	// ChangeSet has the shape of a DirectoryContents
	// but lists only files whose content is not already backed up.
	// Every directory of the source tree is present,
	// so that the directory skeleton can be recreated.
	ChangeSet = DirectoryContents

	// HashSet is the set of digests known to be backed up already.
	HashSet map[Digest]struct{}
)

// Len is the total number of files in d, over all directories.
func (d DirectoryContents) Len() int {
	var n int
	for _, names := range d {
		n += len(names)
	}
	return n
}

// Dirs returns the directory keys of d in lexical order.
// Since a parent path is a prefix of its children's paths,
// parents sort before their descendants.
func (d DirectoryContents) Dirs() []string {
	dirs := make([]string, 0, len(d))
	for dir := range d {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs
}

// Merge adds the entries of other to d,
// replacing any that are already present.
func (d DirectoryContents) Merge(other DirectoryContents) {
	for dir, names := range other {
		d[dir] = names
	}
}

// Add adds a digest to the set.
// It reports whether the digest was new.
func (h HashSet) Add(d Digest) bool {
	if _, ok := h[d]; ok {
		return false
	}
	h[d] = struct{}{}
	return true
}

// Has tells whether the set contains d.
func (h HashSet) Has(d Digest) bool {
	_, ok := h[d]
	return ok
}
