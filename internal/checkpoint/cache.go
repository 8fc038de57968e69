package checkpoint

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// schemaVersion is bumped whenever the payload layout changes.
const schemaVersion uint16 = 1

// Cache keeps checkpoint tables on disk keyed by document content hash.
// Safe for concurrent use.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

type payload struct {
	Schema  uint16
	Written int64 // unix seconds
	Table   Table
}

// DefaultDir returns $XDG_CACHE_HOME/<app>, falling back to ~/.cache/<app>.
func DefaultDir(app string) (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, app), nil
}

// Open returns a cache rooted at dir, creating it when needed.
func Open(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("checkpoint cache: %w", err)
	}
	return &Cache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *Cache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *Cache) pathFor(hash [32]byte) string {
	return filepath.Join(c.dir, "cp", hex.EncodeToString(hash[:])+".mp")
}

// Put writes t under t.Hash. A nil cache ignores the call.
func (c *Cache) Put(t *Table) (err error) {
	if c == nil || t == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(t.Hash)
	if err = os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmp) //nolint:errcheck
		}
	}()

	enc := msgpack.NewEncoder(f)
	if err = enc.Encode(&payload{Schema: schemaVersion, Written: time.Now().Unix(), Table: *t}); err != nil {
		_ = f.Close() //nolint:errcheck
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, p)
}

// Get loads the table stored for hash. Entries written by another schema
// version count as misses.
func (c *Cache) Get(hash [32]byte) (*Table, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(hash))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var p payload
	if err := msgpack.NewDecoder(f).Decode(&p); err != nil {
		return nil, false, fmt.Errorf("checkpoint cache: decode %s: %w", f.Name(), err)
	}
	if p.Schema != schemaVersion || p.Table.Hash != hash {
		return nil, false, nil
	}
	return &p.Table, true, nil
}

// DropAll removes every cached table.
func (c *Cache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}
