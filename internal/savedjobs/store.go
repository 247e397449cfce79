package savedjobs

import (
	"context"
	"sync"
	"time"

	"careerhub-utils/internal/logging"
	"careerhub-utils/internal/pipeline"
)

// Store keeps one List per session id
type Store struct {
	deps    Deps
	idleTTL time.Duration
	now     func() time.Time

	mu    sync.RWMutex
	lists map[string]*List
}

// NewStore creates a store. Sessions idle longer than idleTTL are dropped
// by Sweep; idleTTL <= 0 disables eviction.
func NewStore(deps Deps, idleTTL time.Duration) *Store {
	if deps.Logger == nil {
		deps.Logger = logging.Discard()
	}
	if deps.Pipeline == nil {
		deps.Pipeline = pipeline.New(pipeline.DefaultPageSize, "en")
	}
	return &Store{
		deps:    deps,
		idleTTL: idleTTL,
		now:     time.Now,
		lists:   make(map[string]*List),
	}
}

// Get returns the session's list, creating and loading it on first use
func (s *Store) Get(ctx context.Context, sessionID string) (*List, error) {
	l := s.getOrCreate(sessionID)
	l.touch(s.now())
	if !l.Loaded() {
		if err := l.Refresh(ctx); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Lookup returns an existing list without creating one
func (s *Store) Lookup(sessionID string) (*List, error) {
	s.mu.RLock()
	l, ok := s.lists[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	l.touch(s.now())
	return l, nil
}

func (s *Store) getOrCreate(sessionID string) *List {
	s.mu.RLock()
	l, ok := s.lists[sessionID]
	s.mu.RUnlock()
	if ok {
		return l
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok = s.lists[sessionID]; !ok {
		l = newList(sessionID, s.deps, s.now())
		s.lists[sessionID] = l
	}
	return l
}

// Drop forgets a session
func (s *Store) Drop(sessionID string) {
	s.mu.Lock()
	delete(s.lists, sessionID)
	s.mu.Unlock()
}

// Len returns the number of live sessions
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lists)
}

// Sweep drops idle sessions and returns how many were removed
func (s *Store) Sweep() int {
	if s.idleTTL <= 0 {
		return 0
	}
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, l := range s.lists {
		if l.idleSince(now) > s.idleTTL {
			delete(s.lists, id)
			removed++
		}
	}
	if removed > 0 {
		s.deps.Logger.Debug("Evicted idle sessions", map[string]interface{}{
			"removed":   removed,
			"remaining": len(s.lists),
		})
	}
	return removed
}
