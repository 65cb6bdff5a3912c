package processor

import (
	"sync"
)

// imageCache retains recently generated image payloads so a later caption
// request can reference them by id. The generate and caption calls are
// correlated by an explicit image id rather than shared process state, so
// concurrent generations cannot caption each other's images. The cache is
// bounded; the oldest entry is evicted when full.
type imageCache struct {
	mu       sync.Mutex
	capacity int
	images   map[string]string
	order    []string
	latest   string
}

func newImageCache(capacity int) *imageCache {
	return &imageCache{
		capacity: capacity,
		images:   make(map[string]string, capacity),
	}
}

// Put stores a base64 image payload under id and marks it as most recent.
func (c *imageCache) Put(id, base64Data string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.images[id]; !exists {
		if len(c.order) >= c.capacity {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.images, oldest)
		}
		c.order = append(c.order, id)
	}
	c.images[id] = base64Data
	c.latest = id
}

// Get returns the payload stored under id.
func (c *imageCache) Get(id string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.images[id]
	return data, ok
}

// Latest returns the most recently stored payload.
func (c *imageCache) Latest() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.latest == "" {
		return "", false
	}
	data, ok := c.images[c.latest]
	return data, ok
}
