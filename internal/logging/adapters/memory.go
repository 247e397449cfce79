package adapters

import (
	"sync"

	"careerhub-utils/internal/logging/types"
)

// MemoryAdapter keeps entries in memory. Used by tests to assert on logs.
type MemoryAdapter struct {
	name    string
	mu      sync.Mutex
	entries []types.LogEntry
}

// NewMemoryAdapter creates an empty memory adapter
func NewMemoryAdapter(name string) *MemoryAdapter {
	return &MemoryAdapter{name: name}
}

func (a *MemoryAdapter) Write(entry *types.LogEntry) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, *entry)
	return nil
}

// Entries returns a copy of everything written so far
func (a *MemoryAdapter) Entries() []types.LogEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]types.LogEntry, len(a.entries))
	copy(out, a.entries)
	return out
}

// Messages returns the messages of entries at or above min
func (a *MemoryAdapter) Messages(min types.LogLevel) []string {
	var out []string
	for _, e := range a.Entries() {
		if e.Level >= min {
			out = append(out, e.Message)
		}
	}
	return out
}

func (a *MemoryAdapter) Close() error  { return nil }
func (a *MemoryAdapter) Health() error { return nil }
func (a *MemoryAdapter) Name() string  { return a.name }
