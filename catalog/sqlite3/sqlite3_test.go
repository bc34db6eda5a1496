package sqlite3

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/bobg/smartbackup/catalog"
	"github.com/bobg/smartbackup/testutil"
)

func TestCatalog(t *testing.T) {
	ctx := context.Background()
	err := withTestCatalog(ctx, t, func(c *Catalog) error {
		testutil.Catalog(ctx, t, c)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestReopen(t *testing.T) {
	var (
		ctx  = context.Background()
		conn = filepath.Join(t.TempDir(), "catalog.db")
	)

	c, err := catalog.Create(ctx, "sqlite3", map[string]interface{}{"conn": conn})
	if err != nil {
		t.Fatal(err)
	}
	if err = c.Record(ctx, catalog.Run{Dest: "/dst/2024-5-1", OK: true}); err != nil {
		t.Fatal(err)
	}
	if err = c.(*Catalog).Close(); err != nil {
		t.Fatal(err)
	}

	c, err = catalog.Create(ctx, "sqlite3", map[string]interface{}{"conn": conn})
	if err != nil {
		t.Fatal(err)
	}
	defer c.(*Catalog).Close()

	latest, err := catalog.Latest(ctx, c)
	if err != nil {
		t.Fatal(err)
	}
	if latest.Dest != "/dst/2024-5-1" || !latest.OK {
		t.Errorf("got %+v after reopening", latest)
	}
}

func withTestCatalog(ctx context.Context, t *testing.T, fn func(*Catalog) error) error {
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		return err
	}
	defer db.Close()

	c, err := New(ctx, db)
	if err != nil {
		return err
	}

	return fn(c)
}
