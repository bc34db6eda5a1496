package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/bobg/smartbackup/backup"
	"github.com/bobg/smartbackup/logging"
	"github.com/bobg/smartbackup/progress"
)

func (c maincmd) backup(ctx context.Context, source, dest, algorithm string, copyAll, quiet, verbose bool, logPath string, workers int, args []string) error {
	if len(args) > 0 {
		return errors.Wrapf(backup.ErrConfig, "unexpected arguments %v", args)
	}

	verbosity, err := c.conf.verbosity(quiet, verbose)
	if err != nil {
		return err
	}

	cfg := backup.Config{
		Source:    source,
		Dest:      dest,
		Algorithm: algorithm,
		CopyAll:   copyAll,
		Verbosity: verbosity,
		LogPath:   logPath,
		Workers:   workers,
		Catalog:   c.cat,
	}

	var b *bars
	if verbosity > logging.Quiet {
		if copyAll {
			b = newBars(os.Stderr, progress.Copy)
		} else {
			b = newBars(os.Stderr, progress.Baseline, progress.Detect, progress.Copy)
		}
		cfg.Progress = b
	}

	res, err := backup.Run(ctx, cfg)
	if b != nil {
		b.wait()
	}
	if err != nil {
		return err
	}

	fmt.Println(res.Message)
	return nil
}
