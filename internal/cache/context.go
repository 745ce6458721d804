package cache

import (
	"sync"

	"github.com/objectfs/azurefs/pkg/types"
)

// AccountContext bundles the resolved blob client and transfer tuning for one
// storage account. Holders keep a shared reference; invalidation only affects
// future lookups, never handles already using the context.
type AccountContext struct {
	Account     string
	Client      types.BlobClient
	ReadOptions types.ReadOptions

	mu    sync.Mutex
	valid bool
}

// NewAccountContext creates a valid context for the given account.
func NewAccountContext(account string, client types.BlobClient, opts types.ReadOptions) *AccountContext {
	return &AccountContext{
		Account:     account,
		Client:      client,
		ReadOptions: opts,
		valid:       true,
	}
}

// Valid reports whether the context may still be handed out to new lookups.
func (c *AccountContext) Valid() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.valid
}

// invalidate flips the valid flag. The flag moves true to false exactly once;
// a stale context is never revalidated, only replaced.
func (c *AccountContext) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.valid = false
}

// CreateFunc resolves a fresh AccountContext, typically by running credential
// resolution and constructing a client.
type CreateFunc func() (*AccountContext, error)

// Stats tracks cache effectiveness.
type Stats struct {
	Hits         uint64
	Misses       uint64
	Replacements uint64
}

// ContextCache caches AccountContext values keyed by storage account name.
// The empty string is a valid key (account not known from the path).
type ContextCache struct {
	mu      sync.Mutex
	enabled bool
	entries map[string]*AccountContext
	stats   Stats
}

// New creates a context cache. When enabled is false every lookup resolves a
// fresh context and nothing is retained.
func New(enabled bool) *ContextCache {
	return &ContextCache{
		enabled: enabled,
		entries: make(map[string]*AccountContext),
	}
}

// GetOrCreate returns the cached context for account when present and valid,
// otherwise resolves a new one via create. A stale entry is replaced in
// place, not evicted, so a failed re-resolution leaves the stale entry
// untouched for the next attempt.
func (c *ContextCache) GetOrCreate(account string, create CreateFunc) (*AccountContext, error) {
	if !c.enabled {
		return create()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[account]; ok && entry.Valid() {
		c.stats.Hits++
		return entry, nil
	}

	fresh, err := create()
	if err != nil {
		return nil, err
	}

	if _, ok := c.entries[account]; ok {
		c.stats.Replacements++
	} else {
		c.stats.Misses++
	}
	c.entries[account] = fresh
	return fresh, nil
}

// Invalidate marks the entry for account as stale. Missing keys are a no-op.
func (c *ContextCache) Invalidate(account string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[account]; ok {
		entry.invalidate()
	}
}

// InvalidateAll marks every cached entry as stale. Called at session
// boundaries so credential or setting changes take effect on the next lookup.
func (c *ContextCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, entry := range c.entries {
		entry.invalidate()
	}
}

// Len returns the number of retained entries, stale ones included.
func (c *ContextCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns a snapshot of cache statistics.
func (c *ContextCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}
