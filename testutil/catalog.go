package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/bobg/smartbackup/catalog"
)

// Catalog exercises a new, empty catalog.Catalog.
func Catalog(ctx context.Context, t *testing.T, c catalog.Catalog) {
	if _, err := catalog.Latest(ctx, c); err != catalog.ErrNotFound {
		t.Fatalf("got error %v from empty catalog, want ErrNotFound", err)
	}

	t0 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	runs := []catalog.Run{
		{
			Source:    "/src/",
			Dest:      "/dst/2024-5-1",
			Algorithm: "sha1",
			Started:   t0,
			Finished:  t0.Add(time.Minute),
			Changed:   3,
			Copied:    3,
			Bytes:     1024,
			OK:        true,
			Message:   "Backup done",
		},
		{
			Source:    "/src/",
			Dest:      "/dst/",
			Algorithm: "sha1",
			Started:   t0.Add(time.Hour),
			Finished:  t0.Add(time.Hour + time.Second),
			OK:        true,
			Message:   "No files have been changed",
		},
		{
			Source:    "/src/",
			Dest:      "/dst/2024-5-1.1",
			Algorithm: "blake3",
			CopyAll:   true,
			Started:   t0.Add(30 * time.Minute),
			Finished:  t0.Add(40 * time.Minute),
			Changed:   4,
			Copied:    3,
			Skipped:   1,
			Bytes:     2048,
			OK:        true,
			Message:   "Backup done with 1 error(s)",
		},
	}
	for _, r := range runs {
		if err := c.Record(ctx, r); err != nil {
			t.Fatal(err)
		}
	}

	latest, err := catalog.Latest(ctx, c)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(runs[1], latest); diff != "" {
		t.Errorf("latest mismatch (-want +got):\n%s", diff)
	}

	var got []catalog.Run
	err = c.List(ctx, func(r catalog.Run) error {
		got = append(got, r)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []catalog.Run{runs[1], runs[2], runs[0]}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("list mismatch (-want +got):\n%s", diff)
	}
}
