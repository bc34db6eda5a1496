package main

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"

	"github.com/bobg/smartbackup/catalog"
)

var errLimit = errors.New("limit reached")

func (c maincmd) history(ctx context.Context, limit int, _ []string) error {
	if c.cat == nil {
		return errors.New("no catalog in config file")
	}

	var n int
	err := c.cat.List(ctx, func(r catalog.Run) error {
		if limit > 0 && n >= limit {
			return errLimit
		}
		n++

		status := "ok"
		if !r.OK {
			status = "FAILED"
		}
		fmt.Printf("%s  %-6s  %s files  %8s  %s  %s\n",
			r.Started.Local().Format(time.RFC3339),
			status,
			humanize.Comma(int64(r.Copied)),
			humanize.Bytes(uint64(r.Bytes)),
			r.Dest,
			r.Message,
		)
		return nil
	})
	if err == errLimit {
		err = nil
	}
	return errors.Wrap(err, "listing runs")
}
