// Package detect finds the files of a source tree whose content is not yet backed up.
package detect

import (
	"context"
	"path/filepath"
	"runtime"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bobg/smartbackup"
	"github.com/bobg/smartbackup/digest"
	"github.com/bobg/smartbackup/progress"
	"github.com/bobg/smartbackup/walk"
)

// Options control Detect.
type Options struct {
	// Workers is the number of files hashed concurrently within a directory.
	// Zero means one per CPU.
	Workers int

	Log      *zap.Logger
	Progress progress.Observer
}

// Detect walks the tree at root
// and returns, for each directory,
// the files whose digests are not in baseline.
// Every directory appears in the result,
// even when none of its files changed.
//
// A directory's changed files are determined before its subdirectories are visited.
// Files that cannot be hashed are logged, left out of the result,
// and returned in the error list.
// A failure of the walk itself ends the list and yields a nil ChangeSet.
func Detect(ctx context.Context, root string, baseline smartbackup.HashSet, h *digest.Hasher, opts Options) (smartbackup.ChangeSet, []error) {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var (
		errs    []error
		counter = progress.NewCounter(opts.Progress, progress.Detect, 0)
	)

	w := walk.Walker{
		Visit: func(dir string, files []string) ([]string, error) {
			paths := make([]string, 0, len(files))
			for _, name := range files {
				paths = append(paths, filepath.Join(dir, name))
			}
			counter.Grow(len(paths))

			results, err := h.Files(ctx, paths, workers, counter.Done)
			if err != nil {
				return nil, err
			}

			changed := []string{}
			for i, res := range results {
				if res.Err != nil {
					log.Warn("skipping", zap.String("path", paths[i]), zap.Error(res.Err))
					errs = append(errs, res.Err)
					continue
				}
				if baseline.Has(res.Digest) {
					log.Debug("unchanged", zap.String("path", paths[i]))
					continue
				}
				log.Info("new hash found", zap.String("file", files[i]), zap.String("dir", dir))
				changed = append(changed, files[i])
			}
			return changed, nil
		},
		OnError: func(dir string, err error) {
			log.Warn("skipping unreadable directory", zap.String("dir", dir), zap.Error(err))
			errs = append(errs, smartbackup.NewItemError("read dir", dir, err))
		},
	}

	changes, err := w.Walk(root)
	if err != nil {
		return nil, append(errs, errors.Wrapf(err, "detecting changes in %s", root))
	}
	return changes, errs
}

// All is the change set for copy-all mode:
// every file under root, with no hashing and no comparison.
func All(root string) (smartbackup.ChangeSet, error) {
	changes, err := walk.Walk(root)
	return changes, errors.Wrapf(err, "listing %s", root)
}
