// Package backup runs the whole incremental backup pipeline:
// baseline, change detection, and the versioned copy.
package backup

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bobg/flock"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bobg/smartbackup"
	"github.com/bobg/smartbackup/catalog"
	"github.com/bobg/smartbackup/detect"
	"github.com/bobg/smartbackup/digest"
	"github.com/bobg/smartbackup/index"
	"github.com/bobg/smartbackup/vcopy"
	"github.com/bobg/smartbackup/walk"
)

// ErrBusy is the error when a backup into the same destination root is already running.
var ErrBusy = errors.New("a backup to this destination is already running")

// NoChangesMessage is the Result.Message of a run that found nothing to copy.
const NoChangesMessage = "No files have been changed"

// Result summarizes a run.
type Result struct {
	OK      bool
	Message string

	// Dest is the backup folder created,
	// or empty if none was.
	Dest string

	Algorithm digest.Algorithm

	Baseline int // distinct digests in the baseline
	Changed  int // files in the change set
	Copied   int // files copied
	Bytes    int64

	// Skipped holds an error for each item that was passed over.
	Skipped []error

	Started  time.Time
	Finished time.Time
}

// Outcome is what Start delivers.
type Outcome struct {
	Result Result
	Err    error
}

// Runner runs backups,
// at most one at a time per destination root.
// The zero value is ready to use.
type Runner struct {
	mu      sync.Mutex
	running map[string]bool
	flocker flock.Locker
}

var defaultRunner Runner

// Run runs a backup with a process-wide Runner.
func Run(ctx context.Context, cfg Config) (Result, error) {
	return defaultRunner.Run(ctx, cfg)
}

// Start calls r.Run on a new goroutine.
// The returned channel delivers its outcome and is then closed.
func (r *Runner) Start(ctx context.Context, cfg Config) <-chan Outcome {
	ch := make(chan Outcome, 1)
	go func() {
		defer close(ch)
		res, err := r.Run(ctx, cfg)
		ch <- Outcome{Result: res, Err: err}
	}()
	return ch
}

// Run performs one backup as described by cfg.
//
// Errors about individual files and directories are logged
// and collected in Result.Skipped;
// they do not make the run fail.
// Failures that stop the run before anything is written
// (a bad Config, a missing source or destination root, a concurrent run)
// are returned as errors.
func (r *Runner) Run(ctx context.Context, cfg Config) (Result, error) {
	if err := cfg.validate(); err != nil {
		return Result{}, err
	}
	log, closeLog, err := cfg.logger()
	if err != nil {
		return Result{}, err
	}
	defer closeLog()

	res := Result{Started: cfg.now()}

	source, fixed := NormalizeDir(cfg.Source)
	if fixed {
		log.Warn("missing separator at end of source directory; added", zap.String("source", source))
	}
	dest, fixed := NormalizeDir(cfg.Dest)
	if fixed {
		log.Warn("missing separator at end of destination directory; added", zap.String("dest", dest))
	}

	info, err := os.Stat(source)
	if err != nil {
		return res, errors.Wrapf(ErrConfig, "source directory %s: %s", source, err)
	}
	if !info.IsDir() {
		return res, errors.Wrapf(ErrConfig, "source %s is not a directory", source)
	}
	if info, err = os.Stat(dest); err != nil || !info.IsDir() {
		if err == nil {
			err = errors.New("not a directory")
		}
		return res, &vcopy.DestinationError{Path: dest, Err: err}
	}

	alg, err := digest.Lookup(cfg.Algorithm)
	if err != nil {
		log.Warn("invalid hash algorithm; using default", zap.String("algorithm", cfg.Algorithm), zap.Stringer("default", alg))
	}
	res.Algorithm = alg

	unlock, err := r.lock(dest, log)
	if err != nil {
		return res, err
	}
	defer unlock()

	err = r.run(ctx, cfg, log, source, dest, &res)
	res.Finished = cfg.now()
	if err != nil {
		res.OK = false
		res.Message = err.Error()
	}

	if cfg.Catalog != nil {
		run := catalog.Run{
			Source:    source,
			Dest:      res.Dest,
			Algorithm: alg.String(),
			CopyAll:   cfg.CopyAll,
			Started:   res.Started,
			Finished:  res.Finished,
			Changed:   res.Changed,
			Copied:    res.Copied,
			Skipped:   len(res.Skipped),
			Bytes:     res.Bytes,
			OK:        res.OK,
			Message:   res.Message,
		}
		if run.Dest == "" {
			run.Dest = dest
		}
		if cerr := cfg.Catalog.Record(ctx, run); cerr != nil {
			log.Error("recording run in catalog", zap.Error(cerr))
		}
	}

	return res, err
}

func (r *Runner) run(ctx context.Context, cfg Config, log *zap.Logger, source, dest string, res *Result) error {
	var (
		changes smartbackup.ChangeSet
		h       = &digest.Hasher{Alg: res.Algorithm, Cache: cfg.Cache}
	)

	if cfg.CopyAll {
		log.Info("getting content to copy", zap.String("source", source))
		var err error
		changes, err = detect.All(source)
		if err != nil {
			return err
		}
	} else {
		log.Info("getting baseline contents", zap.String("dest", dest))
		contents, err := walk.Walk(dest)
		if err != nil {
			return errors.Wrapf(err, "listing baseline %s", dest)
		}

		log.Info("hashing baseline contents", zap.Int("files", contents.Len()), zap.Stringer("algorithm", res.Algorithm))
		baseline, errs := index.Build(ctx, contents, h, index.Options{
			Workers:  cfg.Workers,
			Log:      log,
			Progress: cfg.Progress,
		})
		res.Baseline = len(baseline)
		if err := ctx.Err(); err != nil {
			return err
		}
		res.Skipped = append(res.Skipped, errs...)

		log.Info("getting list of changed files", zap.String("source", source))
		changes, errs = detect.Detect(ctx, source, baseline, h, detect.Options{
			Workers:  cfg.Workers,
			Log:      log,
			Progress: cfg.Progress,
		})
		if changes == nil {
			if len(errs) > 0 {
				return errs[len(errs)-1]
			}
			return fmt.Errorf("detecting changes in %s", source)
		}
		res.Skipped = append(res.Skipped, errs...)
	}

	res.Changed = changes.Len()
	if res.Changed == 0 && !cfg.CopyAll {
		log.Info("no files have been changed; exiting")
		res.OK = true
		res.Message = NoChangesMessage
		return nil
	}

	log.Info("copying contents to destination", zap.Int("files", res.Changed))
	c := vcopy.Copier{Log: log, Progress: cfg.Progress}
	cres, err := c.Copy(ctx, changes, source, vcopy.DestName(dest, cfg.now(), 1))
	res.Dest = cres.Dest
	res.Copied = cres.Files
	res.Bytes = cres.Bytes
	res.Skipped = append(res.Skipped, cres.Skipped...)
	if err != nil {
		return err
	}

	res.OK = true
	res.Message = summary(*res)
	log.Info("done", zap.String("dest", res.Dest), zap.Int("copied", res.Copied), zap.Int("skipped", len(res.Skipped)))
	return nil
}

func summary(res Result) string {
	var s string
	if res.Copied == 1 {
		s = fmt.Sprintf("Backed up 1 file (%s) to %s", humanize.Bytes(uint64(res.Bytes)), res.Dest)
	} else {
		s = fmt.Sprintf("Backed up %s files (%s) to %s", humanize.Comma(int64(res.Copied)), humanize.Bytes(uint64(res.Bytes)), res.Dest)
	}
	if n := len(res.Skipped); n > 0 {
		s += fmt.Sprintf("; skipped %s", humanize.Comma(int64(n)))
	}
	return s
}

// lock claims dest for this run
// and returns the func that releases it.
// A run already holding dest, in this process or another, makes it fail with ErrBusy.
// The lock file is refreshed while the run lasts,
// since flock treats a lock file older than LockDur as abandoned.
func (r *Runner) lock(dest string, log *zap.Logger) (func(), error) {
	key := filepath.Clean(dest)

	r.mu.Lock()
	if r.running[key] {
		r.mu.Unlock()
		return nil, ErrBusy
	}
	if r.running == nil {
		r.running = make(map[string]bool)
	}
	r.running[key] = true
	r.mu.Unlock()

	release := func() {
		r.mu.Lock()
		delete(r.running, key)
		r.mu.Unlock()
	}

	path := lockPath(key)
	if err := r.flocker.Lock(path); err != nil {
		release()
		if err == flock.ErrLocked {
			return nil, ErrBusy
		}
		return nil, errors.Wrapf(err, "locking %s", path)
	}

	var (
		done    = make(chan struct{})
		stopped = make(chan struct{})
	)
	go func() {
		defer close(stopped)

		ticker := time.NewTicker(r.refreshInterval())
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := r.flocker.Refresh(path); err != nil {
					log.Error("refreshing destination lock", zap.String("path", path), zap.Error(err))
				}
			}
		}
	}()

	return func() {
		close(done)
		<-stopped
		if err := r.flocker.Unlock(path); err != nil {
			log.Error("removing destination lock", zap.String("path", path), zap.Error(err))
		}
		release()
	}, nil
}

func (r *Runner) refreshInterval() time.Duration {
	dur := r.flocker.LockDur
	if dur <= 0 {
		dur = time.Minute
	}
	return dur / 4
}

// lockPath is the path that flock derives the lock file from (by appending .lock).
// It lives outside the destination root so that the lock file never becomes part of the baseline.
func lockPath(dest string) string {
	sum := sha256.Sum256([]byte(dest))
	return filepath.Join(os.TempDir(), "smartbackup-"+hex.EncodeToString(sum[:8]))
}
