// Package mem implements an in-memory catalog.
package mem

import (
	"context"
	"sort"
	"sync"

	"github.com/bobg/smartbackup/catalog"
)

var _ catalog.Catalog = &Catalog{}

// Catalog is a memory-based implementation of catalog.Catalog.
type Catalog struct {
	mu   sync.Mutex
	runs []catalog.Run
}

// New produces a new Catalog.
func New() *Catalog {
	return &Catalog{}
}

// Record implements catalog.Catalog.Record.
func (c *Catalog) Record(_ context.Context, r catalog.Run) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.runs = append(c.runs, r)
	return nil
}

// List implements catalog.Catalog.List.
func (c *Catalog) List(ctx context.Context, f func(catalog.Run) error) error {
	c.mu.Lock()
	runs := make([]catalog.Run, len(c.runs))
	copy(runs, c.runs)
	c.mu.Unlock()

	// Stable, so runs with equal start times come out latest-recorded first
	// after the reversal below.
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Started.Before(runs[j].Started)
	})
	for i := len(runs) - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := f(runs[i]); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	catalog.Register("mem", func(context.Context, map[string]interface{}) (catalog.Catalog, error) {
		return New(), nil
	})
}
