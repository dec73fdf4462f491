package ai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"sync"
)

// Cache memoizes remote embeddings by the sha256 of their input text.
// Fallback results are never cached so a recovered provider is used again.
// Entries are copied in and out, callers may modify the returned vector.
type Cache struct {
	next Embedder

	mu      sync.RWMutex
	entries map[string]Embedding
}

// NewCache wraps next with an in-process cache.
func NewCache(next Embedder) *Cache {
	return &Cache{
		next:    next,
		entries: make(map[string]Embedding),
	}
}

// Embed implements Embedder.
func (c *Cache) Embed(ctx context.Context, text string) (Embedding, error) {
	key := cacheKey(text)

	c.mu.RLock()
	cached, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		cached.Vector = slices.Clone(cached.Vector)
		cached.Cached = true
		return cached, nil
	}

	embedding, err := c.next.Embed(ctx, text)
	if err != nil {
		return Embedding{}, err
	}

	if !embedding.Degraded() {
		stored := embedding
		stored.Vector = slices.Clone(embedding.Vector)
		c.mu.Lock()
		c.entries[key] = stored
		c.mu.Unlock()
	}

	return embedding, nil
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
