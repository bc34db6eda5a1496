package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestLevel(t *testing.T) {
	cases := []struct {
		verbosity int
		want      zapcore.Level
	}{
		{verbosity: -1, want: zapcore.ErrorLevel},
		{verbosity: Quiet, want: zapcore.ErrorLevel},
		{verbosity: Normal, want: zapcore.InfoLevel},
		{verbosity: Verbose, want: zapcore.DebugLevel},
		{verbosity: 7, want: zapcore.DebugLevel},
	}
	for _, tc := range cases {
		if got := Level(tc.verbosity); got != tc.want {
			t.Errorf("verbosity %d: got %s, want %s", tc.verbosity, got, tc.want)
		}
	}
}

func TestLogFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "my.log")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}

	if got, fb := LogFile(file); got != file || fb {
		t.Errorf("existing file: got %s, %v", got, fb)
	}
	if got, fb := LogFile(dir); got != filepath.Join(dir, DefaultFileName) || fb {
		t.Errorf("directory: got %s, %v", got, fb)
	}
	if got, fb := LogFile(filepath.Join(dir, "nope", "x.log")); got != DefaultFileName || !fb {
		t.Errorf("missing path: got %s, %v", got, fb)
	}
}

func TestNew(t *testing.T) {
	dir := t.TempDir()
	buf := new(bytes.Buffer)

	l, err := New(buf, Normal, dir)
	if err != nil {
		t.Fatal(err)
	}
	l.Debug("per-file detail")
	l.Info("getting baseline contents")
	l.Warn("skipping")
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if strings.Contains(out, "per-file detail") {
		t.Error("debug entry logged at normal verbosity")
	}
	for _, want := range []string{"INFO\tgetting baseline contents", "WARN\tskipping"} {
		if !strings.Contains(out, want) {
			t.Errorf("console output lacks %q:\n%s", want, out)
		}
	}

	b, err := os.ReadFile(filepath.Join(dir, DefaultFileName))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "getting baseline contents") {
		t.Errorf("log file lacks info entry:\n%s", b)
	}
}

func TestQuiet(t *testing.T) {
	buf := new(bytes.Buffer)
	l, err := New(buf, Quiet, "")
	if err != nil {
		t.Fatal(err)
	}
	l.Info("hello")
	l.Warn("careful")
	l.Error("broken")
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if strings.Contains(out, "hello") || strings.Contains(out, "careful") {
		t.Errorf("quiet logger printed too much:\n%s", out)
	}
	if !strings.Contains(out, "broken") {
		t.Errorf("quiet logger dropped an error:\n%s", out)
	}
}
