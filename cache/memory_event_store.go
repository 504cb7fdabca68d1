package cache

import (
	"context"
	"sort"
	"sync"

	linkgate "github.com/cameronjim/linkgate"
)

// MemoryEventStore implements linkgate.EventStore with a mutex-guarded
// append-only slice. Events are never deleted; retention is a concern
// of the persistent backends.
type MemoryEventStore struct {
	mu      sync.Mutex
	events  []*linkgate.Event
	byToken map[string][]*linkgate.Event
}

// NewMemoryEventStore creates an empty in-memory event store.
func NewMemoryEventStore() *MemoryEventStore {
	return &MemoryEventStore{byToken: make(map[string][]*linkgate.Event)}
}

// Put implements linkgate.EventStore.
func (s *MemoryEventStore) Put(_ context.Context, event *linkgate.Event) error {
	if err := event.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	s.byToken[event.Token] = append(s.byToken[event.Token], event)
	return nil
}

// QueryByToken implements linkgate.EventStore. Results are newest first.
func (s *MemoryEventStore) QueryByToken(_ context.Context, tokenID string, limit int) ([]*linkgate.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	matched := s.byToken[tokenID]
	out := make([]*linkgate.Event, len(matched))
	copy(out, matched)
	sort.Slice(out, func(i, j int) bool { return out[i].TS.After(out[j].TS) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ScanRecent implements linkgate.EventStore. Order is unspecified.
func (s *MemoryEventStore) ScanRecent(_ context.Context, limit int) ([]*linkgate.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.events)
	if limit > 0 && n > limit {
		n = limit
	}
	out := make([]*linkgate.Event, n)
	copy(out, s.events[:n])
	return out, nil
}
