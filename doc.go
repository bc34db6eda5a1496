// Package smartbackup performs incremental, content-aware backups.
//
// A backup run compares a source directory tree
// against everything already present under a destination root
// and copies only the files whose content is new
// into a fresh, dated folder beneath that root.
//
// Content is identified by its digest,
// not by its name or location.
// A file that was renamed or moved since the last backup
// has the same digest it always had,
// so it is not copied again.
// Two files with identical bytes share a single digest.
//
// The pieces of a run live in subpackages:
//
//   - walk enumerates a tree into a DirectoryContents,
//     one entry per directory;
//   - digest computes file digests with a selectable algorithm;
//   - index builds the HashSet of digests already backed up;
//   - detect re-walks the source and produces the ChangeSet;
//   - vcopy resolves the dated destination folder
//     (YYYY-M-D.n, where n is the smallest unused suffix)
//     and copies the ChangeSet into it;
//   - backup ties these together into a single Run.
//
// Each run builds its DirectoryContents, HashSet, and ChangeSet in memory
// and discards them afterwards.
// Nothing about earlier runs is remembered except the files themselves
// (and, optionally, a summary row in a catalog; see package catalog).
package smartbackup
