// Package vcopy copies a change set into a new, versioned backup folder.
package vcopy

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bobg/smartbackup"
	"github.com/bobg/smartbackup/progress"
)

// Copier copies change sets.
// The zero value is ready to use.
type Copier struct {
	Log      *zap.Logger
	Progress progress.Observer

	// MaxAttempts is passed to Resolve.
	MaxAttempts int
}

// Result describes a finished copy.
type Result struct {
	// Dest is the backup folder that was created.
	Dest string

	Files int
	Bytes int64

	// Skipped holds the *smartbackup.ItemError of each directory or file that could not be copied.
	Skipped []error
}

// Copy creates a backup folder,
// starting with the candidate name dest and moving on as Resolve does,
// then recreates beneath it every directory of changes
// (relative to sourceRoot)
// and copies the listed files into them.
//
// Failure to create the backup folder is fatal and leaves the destination untouched.
// After that, directories and files that cannot be created or copied
// are logged, recorded in Result.Skipped, and passed over.
// A partial backup is not rolled back.
func (c *Copier) Copy(ctx context.Context, changes smartbackup.ChangeSet, sourceRoot, dest string) (Result, error) {
	log := c.Log
	if log == nil {
		log = zap.NewNop()
	}

	resolved, err := Resolve(dest, c.MaxAttempts)
	if err != nil {
		return Result{}, err
	}
	if resolved != dest {
		log.Info("backup folder for today already exists; using next", zap.String("dest", resolved))
	} else {
		log.Info("created backup folder", zap.String("dest", resolved))
	}

	var (
		result  = Result{Dest: resolved}
		counter = progress.NewCounter(c.Progress, progress.Copy, changes.Len())
		skip    = func(op, path string, err error) {
			ierr := smartbackup.NewItemError(op, path, err)
			log.Warn("skipping", zap.String("op", op), zap.String("path", path), zap.Error(err))
			result.Skipped = append(result.Skipped, ierr)
		}
	)

	sourceRoot = filepath.Clean(sourceRoot)

	for _, dir := range changes.Dirs() {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		rel, err := filepath.Rel(sourceRoot, dir)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			if err == nil {
				err = errors.Errorf("not beneath %s", sourceRoot)
			}
			skip("mkdir", dir, err)
			for range changes[dir] {
				counter.Done()
			}
			continue
		}

		target := filepath.Join(resolved, rel)
		if rel != "." {
			err = os.MkdirAll(target, 0755)
			if err != nil {
				skip("mkdir", target, err)
				for range changes[dir] {
					counter.Done()
				}
				continue
			}
			log.Debug("created folder", zap.String("dir", target))
		}

		for _, name := range changes[dir] {
			var (
				src = filepath.Join(dir, name)
				dst = filepath.Join(target, name)
			)
			log.Debug("copying", zap.String("file", src))
			n, err := CopyFile(src, dst)
			counter.Done()
			if err != nil {
				skip("copy", src, err)
				continue
			}
			result.Files++
			result.Bytes += n
		}
	}

	return result, nil
}

// CopyFile copies the regular file src to dst,
// which is created or truncated,
// and gives dst the permission bits and modification time of src.
// It returns the number of bytes copied.
func CopyFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return 0, errors.Wrapf(err, "statting %s", src)
	}
	if !info.Mode().IsRegular() {
		return 0, errors.Wrapf(smartbackup.ErrDecode, "copying %s", src)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(out, in)
	if err != nil {
		err = errors.Wrapf(err, "copying %s to %s", src, dst)
	} else if err = out.Chmod(info.Mode().Perm()); err != nil {
		err = errors.Wrapf(err, "setting mode of %s", dst)
	}
	if closeErr := out.Close(); err == nil && closeErr != nil {
		err = errors.Wrapf(closeErr, "closing %s", dst)
	}
	if err != nil {
		return n, err
	}

	// Times go last, since writing and closing may themselves touch them.
	err = os.Chtimes(dst, info.ModTime(), info.ModTime())
	return n, errors.Wrapf(err, "setting times of %s", dst)
}
