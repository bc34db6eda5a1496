package smartbackup

import (
	stderrs "errors"
	"fmt"
	"io/fs"
)

// Kind classifies the failure of an operation on a single file or directory.
type Kind int

const (
	// KindIO is any failure not covered by a more specific kind.
	KindIO Kind = iota

	// KindNotFound means the item vanished or never existed.
	KindNotFound

	// KindPermission means the operating system denied access.
	KindPermission

	// KindDecode means the item's content could not be interpreted as file bytes,
	// e.g. because it is a device or socket rather than a regular file.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindPermission:
		return "permission denied"
	case KindDecode:
		return "decode error"
	default:
		return "I/O error"
	}
}

// ErrDecode is the underlying error for items with KindDecode.
var ErrDecode = stderrs.New("not a regular file")

// KindOf classifies err.
func KindOf(err error) Kind {
	var ie *ItemError
	if stderrs.As(err, &ie) {
		return ie.Kind
	}
	switch {
	case stderrs.Is(err, fs.ErrNotExist):
		return KindNotFound
	case stderrs.Is(err, fs.ErrPermission):
		return KindPermission
	case stderrs.Is(err, ErrDecode):
		return KindDecode
	}
	return KindIO
}

// ItemError is a recoverable failure on a single item.
// A run that encounters one logs it, skips the item, and continues.
type ItemError struct {
	Op   string // e.g. "hash", "copy", "mkdir"
	Path string
	Kind Kind
	Err  error
}

// NewItemError wraps err, classifying it with KindOf.
func NewItemError(op, path string, err error) *ItemError {
	return &ItemError{Op: op, Path: path, Kind: KindOf(err), Err: err}
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("%s %s: %s: %s", e.Op, e.Path, e.Kind, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}
