// Package pg implements a catalog in a Postgresql database.
package pg

import (
	"context"
	"database/sql"
	"time"

	"github.com/bobg/sqlutil"
	_ "github.com/lib/pq" // register the postgres type for sql.Open
	"github.com/pkg/errors"

	"github.com/bobg/smartbackup/catalog"
)

var _ catalog.Catalog = &Catalog{}

// Catalog is a Postgresql-based catalog.
type Catalog struct {
	db *sql.DB
}

// Schema is the SQL that New executes.
// It creates the `smartbackup_runs` table if it does not exist.
// (If it does exist, it must have the columns, constraints, and indexing described here.)
const Schema = `
CREATE TABLE IF NOT EXISTS smartbackup_runs (
  id BIGSERIAL PRIMARY KEY,
  source TEXT NOT NULL,
  dest TEXT NOT NULL,
  algorithm TEXT NOT NULL,
  copy_all BOOLEAN NOT NULL,
  started TIMESTAMP WITH TIME ZONE NOT NULL,
  finished TIMESTAMP WITH TIME ZONE NOT NULL,
  changed INTEGER NOT NULL,
  copied INTEGER NOT NULL,
  skipped INTEGER NOT NULL,
  bytes BIGINT NOT NULL,
  ok BOOLEAN NOT NULL,
  message TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS smartbackup_runs_started_idx ON smartbackup_runs (started);
`

// New produces a new Catalog using `db` for storage.
// It expects to create the table `smartbackup_runs`,
// or for that table already to exist with the correct schema.
// (See variable Schema.)
func New(ctx context.Context, db *sql.DB) (*Catalog, error) {
	_, err := db.ExecContext(ctx, Schema)
	return &Catalog{db: db}, errors.Wrap(err, "creating schema")
}

// Record implements catalog.Catalog.Record.
func (c *Catalog) Record(ctx context.Context, r catalog.Run) error {
	const q = `INSERT INTO smartbackup_runs
		(source, dest, algorithm, copy_all, started, finished, changed, copied, skipped, bytes, ok, message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := c.db.ExecContext(ctx, q,
		r.Source, r.Dest, r.Algorithm, r.CopyAll,
		r.Started, r.Finished,
		r.Changed, r.Copied, r.Skipped, r.Bytes,
		r.OK, r.Message,
	)
	return errors.Wrap(err, "inserting run")
}

// List implements catalog.Catalog.List.
func (c *Catalog) List(ctx context.Context, f func(catalog.Run) error) error {
	const q = `SELECT source, dest, algorithm, copy_all, started, finished, changed, copied, skipped, bytes, ok, message
		FROM smartbackup_runs ORDER BY started DESC, id DESC`

	return sqlutil.ForQueryRows(ctx, c.db, q, func(source, dest, alg string, copyAll bool, started, finished time.Time, changed, copied, skipped int, nbytes int64, ok bool, msg string) error {
		return f(catalog.Run{
			Source:    source,
			Dest:      dest,
			Algorithm: alg,
			CopyAll:   copyAll,
			Started:   started,
			Finished:  finished,
			Changed:   changed,
			Copied:    copied,
			Skipped:   skipped,
			Bytes:     nbytes,
			OK:        ok,
			Message:   msg,
		})
	})
}

// Close closes the underlying database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

func init() {
	catalog.Register("pg", func(ctx context.Context, conf map[string]interface{}) (catalog.Catalog, error) {
		conn, ok := conf["conn"].(string)
		if !ok {
			return nil, errors.New(`missing "conn" parameter`)
		}
		db, err := sql.Open("postgres", conn)
		if err != nil {
			return nil, errors.Wrap(err, "opening db")
		}
		return New(ctx, db)
	})
}
