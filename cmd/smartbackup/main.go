// Command smartbackup makes incremental, content-aware backups.
//
// Usage:
//
//	smartbackup [-config FILE] backup -s SOURCE -d DEST [-h ALG] [-a] [-q | -v] [-l LOG]
//	smartbackup [-config FILE] changes -s SOURCE -d DEST [-h ALG] [-q | -v]
//	smartbackup hash [-h ALG] FILE...
//	smartbackup -config FILE history [-n N]
//
// Each backup creates a folder named DEST/year-month-day.n
// holding only the files of SOURCE whose content is not already somewhere in DEST.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/bobg/subcmd"

	"github.com/bobg/smartbackup/catalog"
	_ "github.com/bobg/smartbackup/catalog/logging"
	_ "github.com/bobg/smartbackup/catalog/mem"
	_ "github.com/bobg/smartbackup/catalog/pg"
	_ "github.com/bobg/smartbackup/catalog/sqlite3"
	"github.com/bobg/smartbackup/digest"
)

type maincmd struct {
	conf config
	cat  catalog.Catalog
}

func main() {
	configFile := flag.String("config", "", "path to JSON config file")
	flag.Parse()

	log.SetFlags(0)

	conf, err := loadConfig(*configFile)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	c := maincmd{conf: conf}
	if conf.Catalog != nil {
		c.cat, err = catalog.FromConfig(ctx, conf.Catalog)
		if err != nil {
			log.Fatalf("Creating catalog: %s", err)
		}
	}

	err = subcmd.Run(ctx, c, flag.Args())
	if err != nil {
		log.Fatal(err)
	}
}

func (c maincmd) Subcmds() subcmd.Map {
	return subcmd.Commands(
		"backup", c.backup, subcmd.Params(
			"s", subcmd.String, c.conf.Source, "source directory",
			"d", subcmd.String, c.conf.Dest, "destination root directory",
			"h", subcmd.String, c.conf.Algorithm, "hash algorithm (default sha1)",
			"a", subcmd.Bool, c.conf.CopyAll, "copy all files without comparing hashes",
			"q", subcmd.Bool, false, "report errors only",
			"v", subcmd.Bool, false, "report each file hashed and copied",
			"l", subcmd.String, c.conf.Log, "log file, or directory for smartbackup.log",
			"workers", subcmd.Int, c.conf.Workers, "files hashed concurrently (default one per CPU)",
		),
		"changes", c.changes, subcmd.Params(
			"s", subcmd.String, c.conf.Source, "source directory",
			"d", subcmd.String, c.conf.Dest, "destination root directory",
			"h", subcmd.String, c.conf.Algorithm, "hash algorithm (default sha1)",
			"q", subcmd.Bool, false, "report errors only",
			"v", subcmd.Bool, false, "report each file hashed",
			"workers", subcmd.Int, c.conf.Workers, "files hashed concurrently (default one per CPU)",
		),
		"hash", c.hash, subcmd.Params(
			"h", subcmd.String, c.conf.Algorithm, fmt.Sprintf("hash algorithm, one of %v", digest.Names()),
		),
		"history", c.history, subcmd.Params(
			"n", subcmd.Int, 10, "number of runs to show (0 for all)",
		),
	)
}
