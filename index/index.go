// Package index builds the baseline: the set of digests of everything already backed up.
package index

import (
	"context"
	"path/filepath"
	"runtime"

	"go.uber.org/zap"

	"github.com/bobg/smartbackup"
	"github.com/bobg/smartbackup/digest"
	"github.com/bobg/smartbackup/progress"
)

// Options control Build.
type Options struct {
	// Workers is the number of files hashed concurrently.
	// Zero means one per CPU.
	Workers int

	Log      *zap.Logger
	Progress progress.Observer
}

// Build hashes every file in contents
// (typically the walk of a destination root)
// and returns the set of their digests.
// Identical content collapses into a single entry.
//
// Files that cannot be hashed are logged and skipped;
// their errors are returned alongside the set.
// The only error that stops Build early is the context's,
// which is returned last in the error list.
func Build(ctx context.Context, contents smartbackup.DirectoryContents, h *digest.Hasher, opts Options) (smartbackup.HashSet, []error) {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var paths []string
	for _, dir := range contents.Dirs() {
		for _, name := range contents[dir] {
			paths = append(paths, filepath.Join(dir, name))
		}
	}

	counter := progress.NewCounter(opts.Progress, progress.Baseline, len(paths))
	results, err := h.Files(ctx, paths, workers, counter.Done)

	var (
		set  = make(smartbackup.HashSet)
		errs []error
	)
	for i, res := range results {
		if res.Err != nil {
			log.Warn("skipping", zap.String("path", paths[i]), zap.Error(res.Err))
			errs = append(errs, res.Err)
			continue
		}
		if res.Digest == "" {
			// Not reached because of cancelation.
			continue
		}
		log.Debug("hashed", zap.String("path", paths[i]), zap.String("digest", string(res.Digest)))
		set.Add(res.Digest)
	}
	if err != nil {
		errs = append(errs, err)
	}

	return set, errs
}
