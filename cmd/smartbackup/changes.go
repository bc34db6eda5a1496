package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bobg/smartbackup/detect"
	"github.com/bobg/smartbackup/digest"
	"github.com/bobg/smartbackup/index"
	"github.com/bobg/smartbackup/logging"
	"github.com/bobg/smartbackup/walk"
)

// changes lists the files that a backup would copy, without copying them.
func (c maincmd) changes(ctx context.Context, source, dest, algorithm string, quiet, verbose bool, workers int, _ []string) error {
	if source == "" || dest == "" {
		return errors.New("must supply -s and -d")
	}

	verbosity, err := c.conf.verbosity(quiet, verbose)
	if err != nil {
		return err
	}
	l, err := logging.New(os.Stderr, verbosity, "")
	if err != nil {
		return err
	}
	defer l.Close()

	alg, err := digest.Lookup(algorithm)
	if err != nil {
		l.Warn("invalid hash algorithm; using default", zap.String("algorithm", algorithm), zap.Stringer("default", alg))
	}
	h := &digest.Hasher{Alg: alg}

	contents, err := walk.Walk(dest)
	if err != nil {
		return errors.Wrapf(err, "listing baseline %s", dest)
	}
	baseline, errs := index.Build(ctx, contents, h, index.Options{Workers: workers, Log: l.Logger})
	if err := ctx.Err(); err != nil {
		return err
	}

	changes, derrs := detect.Detect(ctx, source, baseline, h, detect.Options{Workers: workers, Log: l.Logger})
	if changes == nil {
		return derrs[len(derrs)-1]
	}
	errs = append(errs, derrs...)

	for _, dir := range changes.Dirs() {
		for _, name := range changes[dir] {
			fmt.Println(filepath.Join(dir, name))
		}
	}
	if len(errs) > 0 {
		fmt.Fprintf(os.Stderr, "%d item(s) skipped\n", len(errs))
	}
	return nil
}
