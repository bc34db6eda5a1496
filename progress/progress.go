// Package progress carries (current, total) progress events
// from the stages of a backup run to whatever displays them.
//
// Observers are purely observational:
// nothing they do affects the run.
package progress

// Stage identifies the part of a run that is reporting progress.
type Stage int

const (
	// Baseline is the hashing of files already under the destination root.
	Baseline Stage = iota

	// Detect is the hashing of source files and their comparison against the baseline.
	// Its total grows as the source tree is discovered.
	Detect

	// Copy is the copying of changed files into the new backup folder.
	Copy
)

func (s Stage) String() string {
	switch s {
	case Baseline:
		return "baseline"
	case Detect:
		return "detect"
	case Copy:
		return "copy"
	}
	return "unknown"
}

// Observer receives progress events.
// Within one stage, current never decreases.
// Implementations must be safe for concurrent use.
type Observer interface {
	Progress(stage Stage, current, total int)
}

// Func adapts an ordinary function to the Observer interface.
type Func func(stage Stage, current, total int)

// Progress implements Observer.
func (f Func) Progress(stage Stage, current, total int) {
	f(stage, current, total)
}

type nop struct{}

func (nop) Progress(Stage, int, int) {}

// Nop is an Observer that discards all events.
var Nop Observer = nop{}

// OrNop returns o, or Nop if o is nil.
func OrNop(o Observer) Observer {
	if o == nil {
		return Nop
	}
	return o
}
