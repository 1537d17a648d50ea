package texture

import (
	"image"
	"sync"
)

// LoadFunc loads the texture stored at a resolved path.
type LoadFunc func(path string) (*image.NRGBA, error)

// Cache loads every texture path once. Failed loads are cached too, so a
// missing texture shared by many surfaces is reported once.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*cacheEntry
	load  LoadFunc
}

type cacheEntry struct {
	img *image.NRGBA
	err error
}

// NewCache creates a cache backed by load.
func NewCache(load LoadFunc) *Cache {
	return &Cache{
		items: make(map[string]*cacheEntry),
		load:  load,
	}
}

// Get returns the texture at path, loading it on first use. cached is true
// when the result came from an earlier call.
func (c *Cache) Get(path string) (img *image.NRGBA, cached bool, err error) {
	// Fast path: read lock
	c.mu.RLock()
	if entry, ok := c.items[path]; ok {
		c.mu.RUnlock()
		return entry.img, true, entry.err
	}
	c.mu.RUnlock()

	img, err = c.load(path)

	// Write lock with double-check
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.items[path]; ok {
		return entry.img, true, entry.err
	}
	c.items[path] = &cacheEntry{img: img, err: err}
	return img, false, err
}
