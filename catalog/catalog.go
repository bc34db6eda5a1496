// Package catalog records a summary of each finished backup run.
//
// A catalog is optional:
// backups work without one,
// and nothing in a catalog influences change detection.
// It answers the question "when did I last back this up, and what happened?"
package catalog

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// Run is the summary of one backup run.
type Run struct {
	Source    string
	Dest      string // the backup folder, or the destination root if none was created
	Algorithm string
	CopyAll   bool

	Started  time.Time
	Finished time.Time

	Changed int   // files in the change set
	Copied  int   // files actually copied
	Skipped int   // items skipped because of errors
	Bytes   int64 // bytes copied

	OK      bool
	Message string
}

// Catalog stores Runs.
type Catalog interface {
	// Record adds a run.
	Record(context.Context, Run) error

	// List calls f for each recorded run,
	// most recently started first.
	// If f returns an error,
	// List stops and returns that error.
	List(ctx context.Context, f func(Run) error) error
}

// ErrNotFound is the error from Latest when a catalog is empty.
var ErrNotFound = errors.New("not found")

var errStop = errors.New("stop")

// Latest is the most recently started run in c.
func Latest(ctx context.Context, c Catalog) (Run, error) {
	var (
		result Run
		found  bool
	)
	err := c.List(ctx, func(r Run) error {
		result, found = r, true
		return errStop
	})
	if err != nil && err != errStop {
		return Run{}, err
	}
	if !found {
		return Run{}, ErrNotFound
	}
	return result, nil
}
