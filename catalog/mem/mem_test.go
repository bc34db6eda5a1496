package mem

import (
	"context"
	"testing"
	"time"

	"github.com/bobg/smartbackup/catalog"
	"github.com/bobg/smartbackup/testutil"
)

func TestCatalog(t *testing.T) {
	testutil.Catalog(context.Background(), t, New())
}

func TestEqualStartTimes(t *testing.T) {
	var (
		ctx = context.Background()
		c   = New()
		t0  = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	)
	for _, dest := range []string{"a", "b", "c"} {
		if err := c.Record(ctx, catalog.Run{Dest: dest, Started: t0}); err != nil {
			t.Fatal(err)
		}
	}
	latest, err := catalog.Latest(ctx, c)
	if err != nil {
		t.Fatal(err)
	}
	if latest.Dest != "c" {
		t.Errorf("got latest %s, want c", latest.Dest)
	}
}

func TestRegistry(t *testing.T) {
	ctx := context.Background()
	c, err := catalog.FromConfig(ctx, map[string]interface{}{"type": "mem"})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(*Catalog); !ok {
		t.Errorf("got %T, want *Catalog", c)
	}

	if _, err = catalog.FromConfig(ctx, map[string]interface{}{"type": "nonesuch"}); err == nil {
		t.Error("got no error for unknown catalog type")
	}
	if _, err = catalog.FromConfig(ctx, map[string]interface{}{}); err == nil {
		t.Error("got no error for missing type")
	}
}
