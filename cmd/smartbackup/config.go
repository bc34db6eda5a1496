package main

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/bobg/smartbackup/backup"
	"github.com/bobg/smartbackup/logging"
)

// config holds defaults for command-line flags,
// plus the catalog settings, which have no flag.
//
//	{
//	  "source": "/home/me/",
//	  "dest": "/mnt/backups/",
//	  "algorithm": "blake3",
//	  "catalog": {"type": "sqlite3", "conn": "/home/me/.smartbackup.db"}
//	}
type config struct {
	Source    string `json:"source"`
	Dest      string `json:"dest"`
	Algorithm string `json:"algorithm"`
	CopyAll   bool   `json:"copy_all"`
	Verbosity *int   `json:"verbosity"`
	Log       string `json:"log"`
	Workers   int    `json:"workers"`

	Catalog map[string]interface{} `json:"catalog"`
}

func loadConfig(filename string) (config, error) {
	var conf config
	if filename == "" {
		return conf, nil
	}

	f, err := os.Open(filename)
	if err != nil {
		return conf, errors.Wrapf(err, "opening config file %s", filename)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.UseNumber()
	err = dec.Decode(&conf)
	return conf, errors.Wrapf(err, "decoding config file %s", filename)
}

// verbosity combines the -q and -v flags with the configured default.
func (c config) verbosity(quiet, verbose bool) (int, error) {
	switch {
	case quiet && verbose:
		return 0, errors.Wrap(backup.ErrConfig, "-q and -v are mutually exclusive")
	case quiet:
		return logging.Quiet, nil
	case verbose:
		return logging.Verbose, nil
	case c.Verbosity != nil:
		return *c.Verbosity, nil
	}
	return logging.Normal, nil
}
