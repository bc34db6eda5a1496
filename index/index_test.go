package index

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/bobg/smartbackup"
	"github.com/bobg/smartbackup/digest"
	"github.com/bobg/smartbackup/progress"
	"github.com/bobg/smartbackup/testutil"
	"github.com/bobg/smartbackup/walk"
)

func TestBuild(t *testing.T) {
	root := testutil.Tree(t, map[string]string{
		"2024-5-1.1/a.txt":     "hello",
		"2024-5-1.1/sub/b.txt": "world",
		"2024-5-1.2/copy.txt":  "hello",
		"2024-5-1.2/empty/":    "",
	})

	contents, err := walk.Walk(root)
	if err != nil {
		t.Fatal(err)
	}

	h := new(digest.Hasher)
	set, errs := Build(context.Background(), contents, h, Options{Workers: 3})
	if len(errs) > 0 {
		t.Fatal(errs)
	}

	hello, err := h.Reader(strings.NewReader("hello"))
	if err != nil {
		t.Fatal(err)
	}
	world, err := h.Reader(strings.NewReader("world"))
	if err != nil {
		t.Fatal(err)
	}

	want := smartbackup.HashSet{hello: {}, world: {}}
	if len(set) != len(want) {
		t.Errorf("got %d digests, want %d", len(set), len(want))
	}
	for d := range want {
		if !set.Has(d) {
			t.Errorf("missing digest %s", d)
		}
	}
}

func TestBuildEmpty(t *testing.T) {
	set, errs := Build(context.Background(), smartbackup.DirectoryContents{}, new(digest.Hasher), Options{})
	if len(errs) > 0 {
		t.Fatal(errs)
	}
	if len(set) != 0 {
		t.Errorf("got %d digests, want 0", len(set))
	}
}

func TestBuildSkipsUnreadable(t *testing.T) {
	root := testutil.Tree(t, map[string]string{"a": "a", "b": "b"})

	contents := smartbackup.DirectoryContents{root: {"a", "b", "vanished"}}

	core, logs := observer.New(zapcore.WarnLevel)
	set, errs := Build(context.Background(), contents, new(digest.Hasher), Options{Log: zap.New(core)})

	if len(set) != 2 {
		t.Errorf("got %d digests, want 2", len(set))
	}
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1", len(errs))
	}
	if k := smartbackup.KindOf(errs[0]); k != smartbackup.KindNotFound {
		t.Errorf("got kind %s, want not found", k)
	}

	entries := logs.FilterMessage("skipping").All()
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["path"]; got != filepath.Join(root, "vanished") {
		t.Errorf("logged path %v", got)
	}
}

func TestBuildProgress(t *testing.T) {
	files := map[string]string{}
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		files[name] = name
	}
	root := testutil.Tree(t, files)
	contents, err := walk.Walk(root)
	if err != nil {
		t.Fatal(err)
	}

	var last, total int
	obs := progress.Func(func(_ progress.Stage, cur, tot int) {
		if cur < last {
			t.Errorf("progress went backwards: %d after %d", cur, last)
		}
		last, total = cur, tot
	})
	_, errs := Build(context.Background(), contents, new(digest.Hasher), Options{Workers: 4, Progress: obs})
	if len(errs) > 0 {
		t.Fatal(errs)
	}
	if last != 5 || total != 5 {
		t.Errorf("final progress %d/%d, want 5/5", last, total)
	}
}

func TestBuildDeterministic(t *testing.T) {
	files := map[string]string{}
	for i := 0; i < 40; i++ {
		files[fmt.Sprintf("d/%d/f%02d", i%4, i)] = fmt.Sprintf("content %d", i%5)
	}
	root := testutil.Tree(t, files)
	contents, err := walk.Walk(root)
	if err != nil {
		t.Fatal(err)
	}

	h := new(digest.Hasher)
	serial, errs := Build(context.Background(), contents, h, Options{Workers: 1})
	if len(errs) > 0 {
		t.Fatal(errs)
	}
	parallel, errs := Build(context.Background(), contents, h, Options{Workers: 16})
	if len(errs) > 0 {
		t.Fatal(errs)
	}
	if len(serial) != 5 || len(parallel) != 5 {
		t.Fatalf("got %d and %d digests, want 5", len(serial), len(parallel))
	}
	for d := range serial {
		if !parallel.Has(d) {
			t.Errorf("parallel build lacks %s", d)
		}
	}
}

func TestBuildCanceled(t *testing.T) {
	root := testutil.Tree(t, map[string]string{"a": "a"})
	contents, err := walk.Walk(root)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, errs := Build(ctx, contents, new(digest.Hasher), Options{})
	if len(errs) == 0 || errs[len(errs)-1] != context.Canceled {
		t.Errorf("got errors %v, want context.Canceled last", errs)
	}
}
