// Package signedurl turns storage paths (company logos) into short-lived
// signed URLs, caching each URL until shortly before it expires.
package signedurl

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Entry is a cached signed URL. Expiry is epoch milliseconds.
type Entry struct {
	URL    string `json:"url"`
	Expiry int64  `json:"expiry"`
}

// Valid reports whether the entry may be served at now
func (e Entry) Valid(now time.Time) bool {
	return strings.HasPrefix(e.URL, "http") && now.UnixMilli() < e.Expiry
}

// Cache stores entries by key. Implementations must be safe for
// concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Set(ctx context.Context, key string, e Entry) error
	Delete(ctx context.Context, key string) error
}

// clockAware caches measure lifetimes themselves and take the resolver's
// clock
type clockAware interface {
	UseClock(now func() time.Time)
}

// MemoryCache is an in-process Cache. Expired entries stay until read or
// swept.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]Entry)}
}

func (m *MemoryCache) Get(_ context.Context, key string) (Entry, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[key]
	return e, ok, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, e Entry) error {
	m.mu.Lock()
	m.entries[key] = e
	m.mu.Unlock()
	return nil
}

func (m *MemoryCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

// Sweep drops every entry that is no longer valid at now and returns how
// many were removed.
func (m *MemoryCache) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for k, e := range m.entries {
		if !e.Valid(now) {
			delete(m.entries, k)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, valid or not
func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// SweepNow sweeps at the current time
func (m *MemoryCache) SweepNow() int {
	return m.Sweep(time.Now())
}
