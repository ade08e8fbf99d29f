package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/speedui/gridkit/pkg/snapshot"
)

// MemoryStore keeps layouts in a map. Stored values are copied on the way
// in and out so callers cannot mutate each other's snapshots.
type MemoryStore struct {
	mu      sync.RWMutex
	layouts map[string]*snapshot.Layout
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{layouts: make(map[string]*snapshot.Layout)}
}

// Put implements Store.
func (s *MemoryStore) Put(_ context.Context, l *snapshot.Layout) (string, error) {
	id := uuid.NewString()
	l.ID = id

	s.mu.Lock()
	defer s.mu.Unlock()
	s.layouts[id] = clone(l)
	return id, nil
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, id string) (*snapshot.Layout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.layouts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(l), nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.layouts[id]; !ok {
		return ErrNotFound
	}
	delete(s.layouts, id)
	return nil
}

// List implements Store.
func (s *MemoryStore) List(_ context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	s.mu.RLock()
	out := make([]Summary, 0, len(s.layouts))
	for _, l := range s.layouts {
		out = append(out, summarize(l))
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Close implements Store.
func (s *MemoryStore) Close(context.Context) error { return nil }

func clone(l *snapshot.Layout) *snapshot.Layout {
	c := *l
	c.Sections = append([]snapshot.Section(nil), l.Sections...)
	c.Items = append([]snapshot.Element(nil), l.Items...)
	c.Extras = append([]snapshot.Element(nil), l.Extras...)
	return &c
}

var _ Store = (*MemoryStore)(nil)
