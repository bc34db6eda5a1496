// Package logging implements a catalog that delegates everything to a nested catalog,
// logging operations as they happen.
package logging

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bobg/smartbackup/catalog"
)

var _ catalog.Catalog = &Catalog{}

type Catalog struct {
	c   catalog.Catalog
	log *zap.Logger
}

// New produces a Catalog that logs to log.
// A nil log means zap's global logger.
func New(c catalog.Catalog, log *zap.Logger) *Catalog {
	if log == nil {
		log = zap.L()
	}
	return &Catalog{c: c, log: log}
}

func (c *Catalog) Record(ctx context.Context, r catalog.Run) error {
	err := c.c.Record(ctx, r)
	if err != nil {
		c.log.Error("Record", zap.String("dest", r.Dest), zap.Error(err))
	} else {
		c.log.Debug("Record", zap.String("dest", r.Dest), zap.Bool("ok", r.OK))
	}
	return err
}

func (c *Catalog) List(ctx context.Context, f func(catalog.Run) error) error {
	c.log.Debug("List")
	return c.c.List(ctx, func(r catalog.Run) error {
		err := f(r)
		if err != nil {
			c.log.Debug("  List stopped", zap.String("dest", r.Dest), zap.Error(err))
		} else {
			c.log.Debug("  List", zap.String("dest", r.Dest), zap.Time("started", r.Started))
		}
		return err
	})
}

func init() {
	catalog.Register("logging", func(ctx context.Context, conf map[string]interface{}) (catalog.Catalog, error) {
		nestedConf, ok := conf["nested"].(map[string]interface{})
		if !ok {
			return nil, errors.New(`missing "nested" parameter`)
		}
		nested, err := catalog.FromConfig(ctx, nestedConf)
		if err != nil {
			return nil, errors.Wrap(err, "creating nested catalog")
		}
		return New(nested, nil), nil
	})
}
