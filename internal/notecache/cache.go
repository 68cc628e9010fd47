// Package notecache keeps recently opened notes in memory so that repeated
// reads of the same note skip disk and the parser. The cache is bounded:
// once full, the entry that was touched longest ago is evicted.
package notecache

import (
	"sync"
	"time"

	"github.com/starford/ansuz/internal/models"
)

// DefaultCapacity is used when a cache is created with a non-positive
// capacity.
const DefaultCapacity = 20

type entry struct {
	note         *models.Note
	lastAccessed time.Time
}

// Cache is a bounded note store keyed by note path. Safe for concurrent
// use.
type Cache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*entry

	// now is swapped out by tests to make eviction order deterministic.
	now func() time.Time
}

// New returns an empty cache holding at most capacity notes.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		capacity: capacity,
		entries:  make(map[string]*entry),
		now:      time.Now,
	}
}

// Get returns the cached note for path and refreshes its access time.
func (c *Cache) Get(path string) (*models.Note, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[path]
	if !ok {
		return nil, false
	}
	e.lastAccessed = c.now()
	return e.note, true
}

// Put stores a note under path. An existing entry is overwritten in place;
// a new entry evicts the least recently accessed note when the cache is
// full.
func (c *Cache) Put(path string, note *models.Note) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[path]; ok {
		e.note = note
		e.lastAccessed = c.now()
		return
	}
	if len(c.entries) >= c.capacity {
		c.evictOldest()
	}
	c.entries[path] = &entry{note: note, lastAccessed: c.now()}
}

// evictOldest drops the entry with the oldest access time. Callers hold mu.
func (c *Cache) evictOldest() {
	var victim string
	var oldest time.Time
	for path, e := range c.entries {
		if victim == "" || e.lastAccessed.Before(oldest) {
			victim = path
			oldest = e.lastAccessed
		}
	}
	if victim != "" {
		delete(c.entries, victim)
	}
}

// Invalidate drops the entry for path, if present. The next Get misses and
// callers re-read from disk.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, path)
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry)
}

// Len returns the number of cached notes.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
