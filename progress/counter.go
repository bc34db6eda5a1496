package progress

import "sync"

// Counter turns completion notices from concurrent workers
// into a monotonic sequence of events for an Observer.
type Counter struct {
	mu    sync.Mutex
	o     Observer
	stage Stage
	cur   int
	total int
}

// NewCounter produces a Counter reporting to o (which may be nil) for the given stage.
func NewCounter(o Observer, stage Stage, total int) *Counter {
	c := &Counter{o: OrNop(o), stage: stage, total: total}
	c.o.Progress(stage, 0, total)
	return c
}

// Done records the completion of one item and reports it.
func (c *Counter) Done() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cur++
	c.o.Progress(c.stage, c.cur, c.total)
}

// Grow adds n items to the total.
func (c *Counter) Grow(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.total += n
	c.o.Progress(c.stage, c.cur, c.total)
}
