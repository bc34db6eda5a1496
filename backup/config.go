package backup

import (
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bobg/smartbackup/catalog"
	"github.com/bobg/smartbackup/digest"
	"github.com/bobg/smartbackup/logging"
	"github.com/bobg/smartbackup/progress"
)

// ErrConfig is wrapped by every error about a malformed Config.
var ErrConfig = errors.New("invalid configuration")

// Config describes one backup run.
type Config struct {
	// Source is the directory tree to back up.
	Source string

	// Dest is the destination root.
	// It must exist.
	// Each run creates a new backup folder directly beneath it.
	Dest string

	// Algorithm names the digest algorithm (see digest.Names).
	// Empty means digest.Default.
	// An unknown name is warned about and replaced with digest.Default.
	Algorithm string

	// CopyAll copies the whole source tree with no hashing and no comparison.
	CopyAll bool

	// Verbosity is one of logging.Quiet, logging.Normal, and logging.Verbose.
	// It is used only when Log is nil.
	Verbosity int

	// LogPath is a file or directory receiving a copy of the log.
	// It is used only when Log is nil.
	LogPath string

	// Log receives the run's diagnostics.
	// If nil, one is built from Verbosity and LogPath, writing to Stderr.
	Log *zap.Logger

	// Stderr is where a logger built from Verbosity writes.
	// Nil means os.Stderr.
	Stderr io.Writer

	// Workers is the number of files hashed concurrently.
	// Zero means one per CPU.
	Workers int

	// Now is the clock, for naming the backup folder.
	// Nil means time.Now.
	Now func() time.Time

	Progress progress.Observer

	// Cache, if not nil, remembers digests between runs in the same process.
	Cache *digest.Cache

	// Catalog, if not nil, records a summary of the run.
	Catalog catalog.Catalog
}

func (c Config) validate() error {
	if c.Source == "" {
		return errors.Wrap(ErrConfig, "missing source directory")
	}
	if c.Dest == "" {
		return errors.Wrap(ErrConfig, "missing destination directory")
	}
	if c.Verbosity < logging.Quiet || c.Verbosity > logging.Verbose {
		return errors.Wrapf(ErrConfig, "verbosity %d out of range", c.Verbosity)
	}
	if c.Workers < 0 {
		return errors.Wrapf(ErrConfig, "negative worker count %d", c.Workers)
	}
	return nil
}

func (c Config) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// logger returns c.Log, or builds one.
// The returned func releases whatever was built.
func (c Config) logger() (*zap.Logger, func(), error) {
	if c.Log != nil {
		return c.Log, func() {}, nil
	}
	w := c.Stderr
	if w == nil {
		w = os.Stderr
	}
	l, err := logging.New(w, c.Verbosity, c.LogPath)
	if err != nil {
		return nil, nil, errors.Wrap(err, "creating logger")
	}
	return l.Logger, func() { _ = l.Close() }, nil
}

// NormalizeDir makes sure p ends with the path separator.
// The boolean reports whether it had to be added.
func NormalizeDir(p string) (string, bool) {
	if p == "" || os.IsPathSeparator(p[len(p)-1]) {
		return p, false
	}
	return p + string(os.PathSeparator), true
}
