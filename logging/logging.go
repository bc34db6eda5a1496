// Package logging builds the log sink for a backup run.
//
// Every diagnostic and progress message of a run is one log entry with a severity.
// How much is shown depends on the verbosity:
//
//	0 (quiet)    errors only
//	1 (normal)   informational messages and warnings about skipped items
//	2 (verbose)  also a line per file hashed or copied
//
// Entries go to stderr and, optionally, to a log file.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Verbosity levels.
const (
	Quiet   = 0
	Normal  = 1
	Verbose = 2
)

// DefaultFileName is the log file created when the log path names a directory,
// or when it names nothing at all.
const DefaultFileName = "smartbackup.log"

// Level maps a verbosity to the lowest level that is logged.
func Level(verbosity int) zapcore.Level {
	switch {
	case verbosity <= Quiet:
		return zapcore.ErrorLevel
	case verbosity == Normal:
		return zapcore.InfoLevel
	}
	return zapcore.DebugLevel
}

// LogFile resolves the log path given by the user.
// An existing file is used as is.
// An existing directory gets DefaultFileName inside it.
// Anything else falls back to DefaultFileName in the working directory,
// and fellBack is true.
func LogFile(path string) (file string, fellBack bool) {
	info, err := os.Stat(path)
	switch {
	case err != nil:
		return DefaultFileName, true
	case info.IsDir():
		return filepath.Join(path, DefaultFileName), false
	}
	return path, false
}

// New builds a logger for the given verbosity writing to w
// (normally os.Stderr)
// and, if logPath is not empty, appending to the file that LogFile chooses.
// Close must be called when the logger is no longer needed.
func New(w io.Writer, verbosity int, logPath string) (*Logger, error) {
	var (
		level = Level(verbosity)
		cores = []zapcore.Core{
			zapcore.NewCore(consoleEncoder(), zapcore.Lock(zapcore.AddSync(w)), level),
		}
		closer   io.Closer
		fellBack bool
		file     string
	)

	if logPath != "" {
		file, fellBack = LogFile(logPath)
		f, err := os.OpenFile(file, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
		if err != nil {
			return nil, errors.Wrapf(err, "opening log file %s", file)
		}
		closer = f
		cores = append(cores, zapcore.NewCore(fileEncoder(), zapcore.Lock(f), level))
	}

	l := &Logger{
		Logger: zap.New(zapcore.NewTee(cores...)),
		closer: closer,
		File:   file,
	}
	if fellBack {
		l.Error("log path does not exist; writing to working directory", zap.String("path", logPath), zap.String("file", file))
	}
	return l, nil
}

// Logger is a *zap.Logger that may own an open log file.
type Logger struct {
	*zap.Logger

	// File is the log file in use, if any.
	File string

	closer io.Closer
}

// Close flushes the logger and closes its log file, if any.
func (l *Logger) Close() error {
	_ = l.Sync() // syncing stderr fails on some platforms
	if l.closer == nil {
		return nil
	}
	return errors.Wrap(l.closer.Close(), "closing log file")
}

func consoleEncoder() zapcore.Encoder {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.TimeKey = ""
	cfg.CallerKey = ""
	cfg.StacktraceKey = ""
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

func fileEncoder() zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.CallerKey = ""
	cfg.StacktraceKey = ""
	return zapcore.NewConsoleEncoder(cfg)
}
