// Package cache persists parsed instruction documents between runs so
// unchanged files are not re-parsed on every invocation.
package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/bpod/frontend-context-guidelines/internal/model"
	"github.com/bpod/frontend-context-guidelines/internal/util"
)

// Entry is a cached document plus the source metadata used to invalidate it.
type Entry struct {
	Document   model.Document `json:"document"`
	CachedAt   time.Time      `json:"cached_at"`
	SourcePath string         `json:"source_path"`
	SourceMod  time.Time      `json:"source_mod"`
}

// Cache holds cached documents for one registry root, keyed by source path.
type Cache struct {
	Version string           `json:"version"`
	Entries map[string]Entry `json:"entries"`
	path    string
}

const (
	cacheVersion = "1.0"
	// DefaultTTL is the default time-to-live for cache entries.
	DefaultTTL = 1 * time.Hour
)

// New creates or loads the cache file named after sourceName.
// If cacheDir is empty, the default guidectx cache directory is used.
func New(sourceName, cacheDir string) (*Cache, error) {
	if cacheDir == "" {
		cacheDir = util.CachePath()
	}
	if err := os.MkdirAll(cacheDir, 0o750); err != nil {
		return nil, err
	}

	cachePath := filepath.Join(cacheDir, sourceName+".json")
	c := &Cache{
		Version: cacheVersion,
		Entries: make(map[string]Entry),
		path:    cachePath,
	}

	// #nosec G304 - cachePath is constructed from the trusted cache directory
	if data, err := os.ReadFile(cachePath); err == nil {
		if err := json.Unmarshal(data, c); err != nil {
			// Corrupted cache, start fresh.
			c.Entries = make(map[string]Entry)
		}
		if c.Version != cacheVersion {
			c.Entries = make(map[string]Entry)
			c.Version = cacheVersion
		}
	}

	c.path = cachePath
	return c, nil
}

// Get returns the cached document for a source path if the source has not
// been modified since it was cached.
func (c *Cache) Get(sourcePath string) (model.Document, bool) {
	entry, exists := c.Entries[sourcePath]
	if !exists {
		return model.Document{}, false
	}

	if info, err := os.Stat(entry.SourcePath); err == nil {
		if info.ModTime().After(entry.SourceMod) {
			delete(c.Entries, sourcePath)
			return model.Document{}, false
		}
	} else {
		// Source is gone; the entry is dead.
		delete(c.Entries, sourcePath)
		return model.Document{}, false
	}

	return entry.Document, true
}

// Set stores a parsed document keyed by its source path.
func (c *Cache) Set(doc model.Document) {
	sourceMod := doc.ModifiedAt
	if sourceMod.IsZero() {
		if info, err := os.Stat(doc.Path); err == nil {
			sourceMod = info.ModTime()
		} else {
			sourceMod = time.Now()
		}
	}

	c.Entries[doc.Path] = Entry{
		Document:   doc,
		CachedAt:   time.Now(),
		SourcePath: doc.Path,
		SourceMod:  sourceMod,
	}
}

// Save persists the cache to disk.
func (c *Cache) Save() error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	// #nosec G306 - cache files should be readable by user
	return os.WriteFile(c.path, data, 0o644)
}

// Clear removes all entries and deletes the cache file.
func (c *Cache) Clear() error {
	c.Entries = make(map[string]Entry)
	err := os.Remove(c.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Size returns the number of cached documents.
func (c *Cache) Size() int {
	return len(c.Entries)
}

// Prune removes entries older than ttl and returns how many were dropped.
func (c *Cache) Prune(ttl time.Duration) int {
	pruned := 0
	for key, entry := range c.Entries {
		if time.Since(entry.CachedAt) > ttl {
			delete(c.Entries, key)
			pruned++
		}
	}
	return pruned
}
