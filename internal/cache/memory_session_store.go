package cache

import (
	"context"
	"slices"
	"sync"
)

// MemorySessionStore keeps sessions in process. Sessions never expire.
type MemorySessionStore struct {
	mu         sync.Mutex
	selections map[string][]string
	themes     map[string]string
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		selections: make(map[string][]string),
		themes:     make(map[string]string),
	}
}

func (s *MemorySessionStore) Selection(ctx context.Context, sessionID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := s.selections[sessionID]
	if ids == nil {
		return []string{}, nil
	}
	return slices.Clone(ids), nil
}

func (s *MemorySessionStore) UpdateSelection(ctx context.Context, sessionID string, fn SelectionUpdateFunc) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current := slices.Clone(s.selections[sessionID])
	if current == nil {
		current = []string{}
	}
	next, err := fn(current)
	if err != nil {
		return nil, err
	}
	s.selections[sessionID] = slices.Clone(next)
	return next, nil
}

func (s *MemorySessionStore) Theme(ctx context.Context, sessionID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.themes[sessionID], nil
}

func (s *MemorySessionStore) SetTheme(ctx context.Context, sessionID string, theme string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.themes[sessionID] = theme
	return nil
}
