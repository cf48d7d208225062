package cas

import (
	"maps"
	"slices"
	"sync"

	"go.trai.ch/xo/internal/core/domain"
	"go.trai.ch/xo/internal/core/ports"
)

var _ ports.BuildCache = (*BuildCache)(nil)

// digestWidth is the length of a hex encoded xxhash64 digest.
const digestWidth = 16

// cacheRecord is the persisted form of one entry.
type cacheRecord struct {
	Path   domain.PathKey `json:"path"`
	Digest string         `json:"digest"`
}

// BuildCache maps source paths to the digest they had when last built.
type BuildCache struct {
	mu      sync.RWMutex
	entries map[domain.PathKey]string
	hasher  ports.Hasher
}

// NewBuildCache creates an empty cache that recomputes digests with hasher.
func NewBuildCache(hasher ports.Hasher) *BuildCache {
	return &BuildCache{
		entries: make(map[domain.PathKey]string),
		hasher:  hasher,
	}
}

// Add records digest for path, replacing any previous digest.
func (c *BuildCache) Add(path, digest string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[domain.NewPathKey(path)] = digest
}

// Get returns the stored digest for path.
func (c *BuildCache) Get(path string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	digest, ok := c.entries[domain.NewPathKey(path)]
	return digest, ok
}

// Remove forgets path.
func (c *BuildCache) Remove(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, domain.NewPathKey(path))
}

// Len returns the number of entries.
func (c *BuildCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Reset drops every entry.
func (c *BuildCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
}

// ShouldRebuild reports whether path has no entry or its current content digest
// differs from the stored one. The digest is always recomputed; a file that cannot
// be hashed needs a rebuild.
func (c *BuildCache) ShouldRebuild(path string) bool {
	stored, ok := c.Get(path)
	if !ok {
		return true
	}
	current, err := c.hasher.Digest(path)
	if err != nil {
		return true
	}
	return current != stored
}

// Save writes every entry to path, one record per line, sorted by path.
func (c *BuildCache) Save(path string) error {
	c.mu.RLock()
	keys := slices.SortedFunc(maps.Keys(c.entries), domain.PathKey.Compare)
	records := make([]cacheRecord, 0, len(keys))
	for _, key := range keys {
		records = append(records, cacheRecord{Path: key, Digest: c.entries[key]})
	}
	c.mu.RUnlock()

	return writeRecords(path, records)
}

// Load replaces the entries with those persisted at path.
// A missing file leaves the cache empty. Malformed records are skipped; on a read
// error the cache keeps whatever records were decoded before the failure.
func (c *BuildCache) Load(path string) error {
	entries := make(map[domain.PathKey]string)
	_, err := readRecords(path, func(r cacheRecord) bool {
		if r.Path.IsZero() || len(r.Digest) != digestWidth {
			return false
		}
		entries[r.Path] = r.Digest
		return true
	})

	c.mu.Lock()
	c.entries = entries
	c.mu.Unlock()

	return err
}
