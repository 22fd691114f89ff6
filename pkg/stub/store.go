package stub

import (
	"encoding/json"
	"errors"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrNotFound indicates the requested mapping does not exist.
var ErrNotFound = errors.New("stub mapping not found")

// Store is an in-memory collection of stub mappings in insertion order.
// Safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	mappings []*Mapping
	byID     map[string]*Mapping
}

// NewStore creates an empty stub store.
func NewStore() *Store {
	return &Store{
		byID: make(map[string]*Mapping),
	}
}

// Add registers a mapping. A mapping with a duplicate ID replaces the
// earlier one in place.
func (s *Store) Add(m *Mapping) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.byID[m.ID]; ok {
		for i, cur := range s.mappings {
			if cur == existing {
				s.mappings[i] = m
				break
			}
		}
	} else {
		s.mappings = append(s.mappings, m)
	}
	s.byID[m.ID] = m
}

// AddAll registers mappings in order.
func (s *Store) AddAll(mappings []*Mapping) {
	for _, m := range mappings {
		s.Add(m)
	}
}

// Get returns a mapping by ID.
func (s *Store) Get(id string) (*Mapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return m, nil
}

// List returns a copy of all mappings in insertion order.
func (s *Store) List() []*Mapping {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Mapping, len(s.mappings))
	copy(out, s.mappings)
	return out
}

// Delete removes a mapping by ID.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(s.byID, id)
	for i, cur := range s.mappings {
		if cur == m {
			s.mappings = append(s.mappings[:i], s.mappings[i+1:]...)
			break
		}
	}
	return nil
}

// Clear removes all mappings and returns how many were removed.
func (s *Store) Clear() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.mappings)
	s.mappings = nil
	s.byID = make(map[string]*Mapping)
	return n
}

// Count returns the number of stored mappings.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.mappings)
}

// ExportJSON renders all mappings as indented JSON.
func (s *Store) ExportJSON() ([]byte, error) {
	return json.MarshalIndent(s.List(), "", "  ")
}

// ExportYAML renders all mappings as YAML.
func (s *Store) ExportYAML() ([]byte, error) {
	return yaml.Marshal(s.List())
}
