package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

// cacheVersion is the schema version of the cache file.
const cacheVersion = 1

// defaultCacheTTL is how long a cached exact-match result stays fresh.
const defaultCacheTTL = 14 * 24 * time.Hour

// cacheEntry is one stored exact-match result. A nil Identity records a
// miss, so repeated lookups of a nonexistent login stay off the network.
type cacheEntry struct {
	Identity *Identity `json:"identity,omitempty"`
	Checked  time.Time `json:"checked"`
}

// cacheFile is the on-disk cache layout.
type cacheFile struct {
	Version int                   `json:"version"`
	Entries map[string]cacheEntry `json:"entries"`
}

// Cache wraps a Provider, persisting exact-match results to a JSON file.
// Search always passes through: suggestion candidates are volatile and
// cheap relative to resolution. The file is guarded by an in-process mutex
// plus a file lock for concurrent cotag invocations.
type Cache struct {
	mu    sync.Mutex
	inner Provider
	path  string
	ttl   time.Duration
}

// NewCache wraps inner with a file-backed exact-match cache at path.
// A non-positive ttl selects the default of two weeks.
func NewCache(inner Provider, path string, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Cache{inner: inner, path: path, ttl: ttl}
}

// DefaultCachePath returns the standard cache file location under the
// user cache directory.
func DefaultCachePath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("determining cache directory: %w", err)
	}
	return filepath.Join(dir, "cotag", "identities.json"), nil
}

// Name returns the wrapped provider's identifier.
func (c *Cache) Name() string {
	return c.inner.Name()
}

// Search passes through to the wrapped provider.
func (c *Cache) Search(ctx context.Context, query string, limit int) ([]Identity, error) {
	return c.inner.Search(ctx, query, limit)
}

// ExactMatch returns a fresh cached result when one exists, and otherwise
// queries the wrapped provider and records the outcome. Provider errors
// are returned uncached.
func (c *Cache) ExactMatch(ctx context.Context, login string) (*Identity, error) {
	key := c.key(login)

	if entry, ok := c.load(key); ok {
		return entry.Identity, nil
	}

	id, err := c.inner.ExactMatch(ctx, login)
	if err != nil {
		return nil, err
	}
	c.store(key, cacheEntry{Identity: id, Checked: time.Now().UTC()})
	return id, nil
}

// key namespaces a login by provider so github and enterprise endpoints
// never collide in a shared cache file.
func (c *Cache) key(login string) string {
	return c.inner.Name() + "/" + strings.ToLower(login)
}

// load returns the cached entry for key if it is still fresh. The shared
// file lock keeps a concurrent writer from tearing the read; any lock or
// read failure degrades to a miss.
func (c *Cache) load(key string) (cacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := os.Stat(c.path); err != nil {
		return cacheEntry{}, false
	}
	lock := flock.New(c.path + ".lock")
	if err := lock.RLock(); err != nil {
		return cacheEntry{}, false
	}
	defer lock.Unlock()

	file, err := c.read()
	if err != nil {
		return cacheEntry{}, false
	}
	entry, ok := file.Entries[key]
	if !ok || time.Since(entry.Checked) > c.ttl {
		return cacheEntry{}, false
	}
	return entry, true
}

// store merges one entry into the cache file. Failures are swallowed: the
// cache is an optimization, never a correctness dependency.
func (c *Cache) store(key string, entry cacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return
	}
	lock := flock.New(c.path + ".lock")
	if err := lock.Lock(); err != nil {
		return
	}
	defer lock.Unlock()

	file, err := c.read()
	if err != nil {
		file = &cacheFile{Version: cacheVersion, Entries: map[string]cacheEntry{}}
	}
	file.Entries[key] = entry
	_ = c.write(file)
}

// read parses the cache file. A missing or unreadable file surfaces as an
// error so callers can start fresh.
func (c *Cache) read() (*cacheFile, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, err
	}
	var file cacheFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing identity cache: %w", err)
	}
	if file.Version != cacheVersion || file.Entries == nil {
		file = cacheFile{Version: cacheVersion, Entries: map[string]cacheEntry{}}
	}
	return &file, nil
}

// write replaces the cache file.
func (c *Cache) write(file *cacheFile) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding identity cache: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return fmt.Errorf("writing identity cache: %w", err)
	}
	return nil
}
