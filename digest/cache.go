package digest

import (
	lru "github.com/hashicorp/golang-lru"

	"github.com/bobg/smartbackup"
)

// Cache is a least-recently-used memo of file digests.
// An entry is valid only while the file keeps the size and modification time it had when hashed,
// so an edited file is normally rehashed.
// A file rewritten at the same size with its old modification time restored
// (as by touch -r or rsync -t) keeps its stale digest until evicted.
// Leave the cache out when that matters.
// It pays off when one process performs several runs,
// such as a long-lived program calling backup.Runner.Start repeatedly.
type Cache struct {
	c *lru.Cache // cacheKey->smartbackup.Digest
}

type cacheKey struct {
	path  string
	size  int64
	mtime int64
	alg   Algorithm
}

// NewCache produces a Cache holding up to size digests.
func NewCache(size int) (*Cache, error) {
	c, err := lru.New(size)
	return &Cache{c: c}, err
}

// Len is the number of digests in the cache.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return c.c.Len()
}

func (c *Cache) get(k cacheKey) (smartbackup.Digest, bool) {
	if c == nil {
		return "", false
	}
	if got, ok := c.c.Get(k); ok {
		return got.(smartbackup.Digest), true
	}
	return "", false
}

func (c *Cache) add(k cacheKey, d smartbackup.Digest) {
	if c == nil {
		return
	}
	c.c.Add(k, d)
}
