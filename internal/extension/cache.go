package extension

import "sync"

// ResultCache remembers the executable path resolved for each language
// server id.
type ResultCache interface {
	Store(serverID, path string)
	Load(serverID string) (string, bool)
}

// MemoryCache is a ResultCache for the lifetime of the process. It is safe
// for concurrent use.
type MemoryCache struct {
	mu    sync.RWMutex
	paths map[string]string
}

// NewMemoryCache creates an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{paths: make(map[string]string)}
}

// Store records path for serverID, replacing any earlier path.
func (c *MemoryCache) Store(serverID, path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paths[serverID] = path
}

// Load returns the path recorded for serverID.
func (c *MemoryCache) Load(serverID string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	path, ok := c.paths[serverID]
	return path, ok
}
