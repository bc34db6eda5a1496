package vcopy

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// DefaultMaxAttempts bounds the search for a free numeric suffix.
const DefaultMaxAttempts = 10000

// ErrNoFreeSlot is the error when every candidate suffix up to the attempt limit is taken.
var ErrNoFreeSlot = errors.New("no free backup folder name")

// DestinationError is the fatal error for a top-level backup folder that cannot be created,
// typically because the destination root does not exist.
type DestinationError struct {
	Path string
	Err  error
}

func (e *DestinationError) Error() string {
	return fmt.Sprintf("could not create backup folder %s (does the destination exist?): %s", e.Path, e.Err)
}

func (e *DestinationError) Unwrap() error {
	return e.Err
}

// DestName is the name of the n'th backup folder of the day of t under root:
// root followed by year-month-day.n, with no zero padding.
// Root is used as given and is expected to end with a path separator.
func DestName(root string, t time.Time, n int) string {
	return fmt.Sprintf("%s%d-%d-%d.%d", root, t.Year(), int(t.Month()), t.Day(), n)
}

// Next is the candidate that follows dest:
// its trailing .n suffix incremented,
// or .1 appended if it has none.
func Next(dest string) string {
	base := filepath.Base(dest)
	if i := strings.LastIndexByte(base, '.'); i >= 0 {
		if n, err := strconv.Atoi(base[i+1:]); err == nil && n >= 0 {
			prefix := dest[:len(dest)-len(base)+i]
			return prefix + "." + strconv.Itoa(n+1)
		}
	}
	return dest + ".1"
}

// Resolve creates the first free folder among dest, Next(dest), Next(Next(dest)), and so on,
// giving up after maxAttempts tries (DefaultMaxAttempts if maxAttempts <= 0).
// It returns the path it created.
// A candidate that already exists is passed over;
// any other failure is a *DestinationError.
func Resolve(dest string, maxAttempts int) (string, error) {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	for i := 0; i < maxAttempts; i++ {
		err := os.Mkdir(dest, 0755)
		if err == nil {
			return dest, nil
		}
		if !os.IsExist(err) {
			return "", &DestinationError{Path: dest, Err: err}
		}
		dest = Next(dest)
	}
	return "", errors.Wrapf(ErrNoFreeSlot, "after %d attempts ending at %s", maxAttempts, dest)
}
