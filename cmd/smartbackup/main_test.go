package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/bobg/subcmd"
	"github.com/google/go-cmp/cmp"

	"github.com/bobg/smartbackup/catalog"
	"github.com/bobg/smartbackup/catalog/mem"
	"github.com/bobg/smartbackup/testutil"
)

func TestSubcmds(t *testing.T) {
	var (
		ctx  = context.Background()
		src  = testutil.Tree(t, map[string]string{"a.txt": "hello", "sub/b.txt": "world"})
		dest = t.TempDir()
		cat  = mem.New()
		c    = maincmd{conf: config{Algorithm: "sha256"}, cat: cat}
	)

	if err := subcmd.Run(ctx, c, []string{"changes", "-q", "-s", src, "-d", dest}); err != nil {
		t.Fatal(err)
	}

	if err := subcmd.Run(ctx, c, []string{"backup", "-q", "-workers", "2", "-s", src, "-d", dest}); err != nil {
		t.Fatal(err)
	}
	if got := testutil.Read(t, dest); len(got) != 2 {
		t.Errorf("got %v in destination, want two files", got)
	}

	latest, err := catalog.Latest(ctx, cat)
	if err != nil {
		t.Fatal(err)
	}
	if latest.Algorithm != "sha256" || latest.Copied != 2 {
		t.Errorf("got %+v in catalog", latest)
	}

	if err = subcmd.Run(ctx, c, []string{"history", "-n", "1"}); err != nil {
		t.Fatal(err)
	}
	if err = subcmd.Run(ctx, c, []string{"hash", "-h", "blake3", filepath.Join(src, "a.txt")}); err != nil {
		t.Fatal(err)
	}
}

func TestSubcmdErrors(t *testing.T) {
	var (
		ctx  = context.Background()
		src  = testutil.Tree(t, map[string]string{"a": "1"})
		dest = t.TempDir()
		c    maincmd
	)

	cases := [][]string{
		{"backup", "-q", "-v", "-s", src, "-d", dest},
		{"backup", "-q", "-s", src, "-d", dest, "extra"},
		{"changes", "-s", src},
		{"hash", "-h", "crc32", filepath.Join(src, "a")},
		{"hash", filepath.Join(src, "nonexistent")},
		{"history"},
		{"nonesuch"},
	}
	for _, args := range cases {
		if err := subcmd.Run(ctx, c, args); err == nil {
			t.Errorf("got no error for %v", args)
		}
	}

	if diff := cmp.Diff(map[string]string{}, testutil.Read(t, dest)); diff != "" {
		t.Errorf("failed commands wrote to the destination (-want +got):\n%s", diff)
	}
}
