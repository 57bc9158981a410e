package memory

import (
	"context"
	"sync"
)

// Store is a process-lifetime in-memory cache store. Entries live until a
// namespace is explicitly cleared; there is no expiry.
type Store struct {
	mu   sync.RWMutex
	data map[string]map[string][]byte
}

func New() *Store {
	return &Store{data: make(map[string]map[string][]byte)}
}

func (s *Store) Get(_ context.Context, ns, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.data[ns][key]
	if !ok {
		return nil, false, nil
	}
	return b, true, nil
}

func (s *Store) Set(_ context.Context, ns, key string, val []byte) error {
	cp := make([]byte, len(val))
	copy(cp, val)
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.data[ns]
	if !ok {
		m = make(map[string][]byte)
		s.data[ns] = m
	}
	m[key] = cp
	return nil
}

func (s *Store) Del(_ context.Context, ns, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data[ns], key)
	return nil
}

func (s *Store) Clear(_ context.Context, ns string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, ns)
	return nil
}

func (s *Store) Keys(_ context.Context, ns string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.data[ns]))
	for k := range s.data[ns] {
		keys = append(keys, k)
	}
	return keys, nil
}
