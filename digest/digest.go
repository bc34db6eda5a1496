// Package digest computes content digests of files.
package digest

import (
	"context"
	"encoding/hex"
	"io"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/bobg/smartbackup"
)

// BlockSize is the size of the reads that feed a digest.
const BlockSize = 1 << 16

// Hasher computes file digests.
// The zero value uses the default algorithm and no cache.
type Hasher struct {
	Alg Algorithm

	// Cache, if not nil, remembers digests of files
	// whose size and modification time have not changed.
	Cache *Cache
}

// File computes the digest of the file at path.
// Failures are reported as *smartbackup.ItemError.
// A path that is not a regular file fails with kind smartbackup.KindDecode.
func (h *Hasher) File(path string) (smartbackup.Digest, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", smartbackup.NewItemError("hash", path, err)
	}
	if !info.Mode().IsRegular() {
		return "", smartbackup.NewItemError("hash", path, smartbackup.ErrDecode)
	}

	key := cacheKey{path: path, size: info.Size(), mtime: info.ModTime().UnixNano(), alg: h.Alg}
	if d, ok := h.Cache.get(key); ok {
		return d, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return "", smartbackup.NewItemError("hash", path, err)
	}
	defer f.Close()

	d, err := h.Reader(f)
	if err != nil {
		return "", smartbackup.NewItemError("hash", path, err)
	}

	h.Cache.add(key, d)
	return d, nil
}

// Reader computes the digest of everything r produces,
// reading BlockSize bytes at a time.
func (h *Hasher) Reader(r io.Reader) (smartbackup.Digest, error) {
	var (
		hh  = h.Alg.New()
		buf = make([]byte, BlockSize)
	)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			hh.Write(buf[:n]) // hash.Hash writes never fail
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}
	return smartbackup.Digest(hex.EncodeToString(hh.Sum(nil))), nil
}

// Result is the outcome of hashing one file with Files.
type Result struct {
	Digest smartbackup.Digest
	Err    error
}

// Files hashes paths using up to `workers` goroutines (at least one).
// Result i always belongs to paths[i], whatever the order of completion.
// The done callback, if not nil, is called once per finished file
// and must be safe for concurrent use.
// Per-file failures land in the results;
// the returned error is only ever the context's.
func (h *Hasher) Files(ctx context.Context, paths []string, workers int, done func()) ([]Result, error) {
	if workers < 1 {
		workers = 1
	}

	results := make([]Result, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range paths {
		i, path := i, path
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			d, err := h.File(path)
			results[i] = Result{Digest: d, Err: err}
			if done != nil {
				done()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}
