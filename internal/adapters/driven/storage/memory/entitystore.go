package memory

import (
	"fmt"
	"sync"

	"github.com/seamwork/drafter/internal/core/domain"
	"github.com/seamwork/drafter/internal/core/ports/driven"
)

// Ensure EntityStore implements the interface.
var _ driven.EntityStore = (*EntityStore)(nil)

// EntityStore is an in-memory implementation of driven.EntityStore.
// Entities are kept in insertion order with an id index, so truncation to
// a recompute checkpoint is a slice operation.
type EntityStore struct {
	mu       sync.RWMutex
	entities []domain.Entity
	index    map[domain.ID]int
	points   map[string]domain.ID
}

// NewEntityStore creates a new in-memory entity store.
func NewEntityStore() *EntityStore {
	return &EntityStore{
		index:  make(map[domain.ID]int),
		points: make(map[string]domain.ID),
	}
}

// Insert adds an entity.
func (s *EntityStore) Insert(e domain.Entity) error {
	if e.ID == 0 {
		return fmt.Errorf("%w: entity without id", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.index[e.ID]; ok {
		return fmt.Errorf("%w: entity %d", domain.ErrAlreadyExists, e.ID)
	}
	if e.Type == domain.EntityPoint {
		if other, ok := s.points[e.Label]; ok {
			return fmt.Errorf("%w: %s is already point %d", domain.ErrDuplicateLabel, e.Label, other)
		}
		s.points[e.Label] = e.ID
	}
	s.index[e.ID] = len(s.entities)
	s.entities = append(s.entities, e)
	return nil
}

// Get returns the entity with the given id and type.
func (s *EntityStore) Get(id domain.ID, t domain.EntityType) (domain.Entity, error) {
	e, err := s.Lookup(id)
	if err != nil {
		return domain.Entity{}, err
	}
	if e.Type != t {
		return domain.Entity{}, fmt.Errorf("%w: entity %d is a %s, not a %s", domain.ErrTypeMismatch, id, e.Type, t)
	}
	return e, nil
}

// Lookup returns the entity with the given id.
func (s *EntityStore) Lookup(id domain.ID) (domain.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return domain.Entity{}, fmt.Errorf("%w: entity %d", domain.ErrNotFound, id)
	}
	return s.entities[i], nil
}

// ByLabel returns the first entity carrying the label.
func (s *EntityStore) ByLabel(label string) (domain.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id, ok := s.points[label]; ok {
		return s.entities[s.index[id]], nil
	}
	for _, e := range s.entities {
		if e.Label == label {
			return e, nil
		}
	}
	return domain.Entity{}, fmt.Errorf("%w: label %q", domain.ErrNotFound, label)
}

// Remove deletes an entity.
func (s *EntityStore) Remove(id domain.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return fmt.Errorf("%w: entity %d", domain.ErrNotFound, id)
	}
	s.entities = append(s.entities[:i], s.entities[i+1:]...)
	s.reindex()
	return nil
}

// List returns all entities in insertion order.
func (s *EntityStore) List() []domain.Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Entity, len(s.entities))
	copy(out, s.entities)
	return out
}

// Len returns the number of entities.
func (s *EntityStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entities)
}

// Truncate keeps the first n inserted entities.
func (s *EntityStore) Truncate(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n < 0 {
		n = 0
	}
	if n >= len(s.entities) {
		return
	}
	clear(s.entities[n:])
	s.entities = s.entities[:n]
	s.reindex()
}

// Clear removes every entity.
func (s *EntityStore) Clear() {
	s.Truncate(0)
}

// reindex rebuilds the lookup maps. Callers hold the write lock.
func (s *EntityStore) reindex() {
	s.index = make(map[domain.ID]int, len(s.entities))
	s.points = make(map[string]domain.ID)
	for i, e := range s.entities {
		s.index[e.ID] = i
		if e.Type == domain.EntityPoint {
			s.points[e.Label] = e.ID
		}
	}
}
