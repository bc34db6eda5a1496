package detect

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/bobg/smartbackup"
	"github.com/bobg/smartbackup/digest"
	"github.com/bobg/smartbackup/index"
	"github.com/bobg/smartbackup/testutil"
	"github.com/bobg/smartbackup/walk"
)

func baselineOf(t *testing.T, root string, h *digest.Hasher) smartbackup.HashSet {
	t.Helper()

	contents, err := walk.Walk(root)
	if err != nil {
		t.Fatal(err)
	}
	set, errs := index.Build(context.Background(), contents, h, index.Options{})
	if len(errs) > 0 {
		t.Fatal(errs)
	}
	return set
}

func TestDetectExample(t *testing.T) {
	src := testutil.Tree(t, map[string]string{
		"a.txt":     "hello",
		"sub/b.txt": "world",
	})
	dest := t.TempDir()

	h := new(digest.Hasher)
	baseline := baselineOf(t, dest, h)
	if len(baseline) != 0 {
		t.Fatalf("got %d baseline digests, want 0", len(baseline))
	}

	got, errs := Detect(context.Background(), src, baseline, h, Options{})
	if len(errs) > 0 {
		t.Fatal(errs)
	}

	want := smartbackup.ChangeSet{
		src:                       {"a.txt"},
		filepath.Join(src, "sub"): {"b.txt"},
	}
	if diff := cmp.Diff(want, got, testutil.SortedNames); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestInitialBackupIsComplete(t *testing.T) {
	src := testutil.Tree(t, map[string]string{
		"a":        "1",
		"b":        "2",
		"x/y/z/c":  "3",
		"x/empty/": "",
		"x/y/d":    "4",
	})

	h := new(digest.Hasher)
	got, errs := Detect(context.Background(), src, smartbackup.HashSet{}, h, Options{})
	if len(errs) > 0 {
		t.Fatal(errs)
	}
	want, err := walk.Walk(src)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got, testutil.SortedNames); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	all, err := All(src)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, all, testutil.SortedNames); diff != "" {
		t.Errorf("All mismatch (-want +got):\n%s", diff)
	}
}

func TestIdempotentNoOp(t *testing.T) {
	files := map[string]string{
		"a":       "alpha",
		"sub/b":   "beta",
		"sub/c/d": "delta",
	}
	src := testutil.Tree(t, files)
	dest := t.TempDir()
	h := new(digest.Hasher)

	first, errs := Detect(context.Background(), src, baselineOf(t, dest, h), h, Options{})
	if len(errs) > 0 {
		t.Fatal(errs)
	}
	if first.Len() != 3 {
		t.Fatalf("first run found %d changed files, want 3", first.Len())
	}

	// Simulate the first backup.
	testutil.Write(t, filepath.Join(dest, "2024-5-1.1"), files)

	second, errs := Detect(context.Background(), src, baselineOf(t, dest, h), h, Options{})
	if len(errs) > 0 {
		t.Fatal(errs)
	}
	if second.Len() != 0 {
		t.Errorf("second run found %d changed files, want 0: %v", second.Len(), second)
	}
	// The directory skeleton is still all there.
	if len(second) != 3 {
		t.Errorf("got %d directories, want 3", len(second))
	}
}

func TestDedupByContent(t *testing.T) {
	src := testutil.Tree(t, map[string]string{
		"one.txt":     "same bytes",
		"sub/two.txt": "same bytes",
		"three.txt":   "other bytes",
	})
	dest := testutil.Tree(t, map[string]string{
		"2024-5-1.1/renamed.txt": "same bytes",
	})
	h := new(digest.Hasher)

	baseline := baselineOf(t, dest, h)
	if len(baseline) != 1 {
		t.Fatalf("got %d baseline digests, want 1", len(baseline))
	}

	got, errs := Detect(context.Background(), src, baseline, h, Options{})
	if len(errs) > 0 {
		t.Fatal(errs)
	}
	want := smartbackup.ChangeSet{
		src:                       {"three.txt"},
		filepath.Join(src, "sub"): {},
	}
	if diff := cmp.Diff(want, got, testutil.SortedNames); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestDetectSkipsUnreadable(t *testing.T) {
	src := testutil.Tree(t, map[string]string{"ok": "ok"})
	if err := os.Symlink(filepath.Join(src, "nowhere"), filepath.Join(src, "dangling")); err != nil {
		t.Skip(err)
	}

	h := new(digest.Hasher)
	got, errs := Detect(context.Background(), src, smartbackup.HashSet{}, h, Options{})
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
	if k := smartbackup.KindOf(errs[0]); k != smartbackup.KindNotFound {
		t.Errorf("got kind %s, want not found", k)
	}
	if diff := cmp.Diff(smartbackup.ChangeSet{src: {"ok"}}, got, testutil.SortedNames); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestDetectChangedContent(t *testing.T) {
	files := map[string]string{"a": "v1", "b": "same"}
	src := testutil.Tree(t, files)
	dest := t.TempDir()
	testutil.Write(t, filepath.Join(dest, "2024-5-1.1"), files)

	testutil.Write(t, src, map[string]string{"a": "v2", "c": "new"})

	h := new(digest.Hasher)
	got, errs := Detect(context.Background(), src, baselineOf(t, dest, h), h, Options{Workers: 2})
	if len(errs) > 0 {
		t.Fatal(errs)
	}
	if diff := cmp.Diff(smartbackup.ChangeSet{src: {"a", "c"}}, got, testutil.SortedNames); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}
