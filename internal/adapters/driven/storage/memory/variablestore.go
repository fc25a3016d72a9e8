package memory

import (
	"fmt"
	"sync"

	"github.com/seamwork/drafter/internal/core/domain"
	"github.com/seamwork/drafter/internal/core/ports/driven"
)

// Ensure VariableStore implements the interface.
var _ driven.VariableStore = (*VariableStore)(nil)

// VariableStore is an in-memory implementation of driven.VariableStore.
type VariableStore struct {
	mu    sync.RWMutex
	vars  []domain.Variable
	index map[string]int
}

// NewVariableStore creates a new in-memory variable store.
func NewVariableStore() *VariableStore {
	return &VariableStore{index: make(map[string]int)}
}

// Define adds a variable.
func (s *VariableStore) Define(v domain.Variable) error {
	if v.Name == "" {
		return fmt.Errorf("%w: variable without name", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if i, ok := s.index[v.Name]; ok {
		return fmt.Errorf("%w: %s already defined as %s", domain.ErrDuplicateName, v.Name, s.vars[i].Kind)
	}
	s.index[v.Name] = len(s.vars)
	s.vars = append(s.vars, v)
	return nil
}

// Resolve returns the value of a variable.
func (s *VariableStore) Resolve(name string) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[name]
	if !ok {
		return 0, false
	}
	return s.vars[i].Value, true
}

// Get returns a variable by name.
func (s *VariableStore) Get(name string) (domain.Variable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[name]
	if !ok {
		return domain.Variable{}, fmt.Errorf("%w: variable %s", domain.ErrNotFound, name)
	}
	return s.vars[i], nil
}

// List returns all variables in definition order.
func (s *VariableStore) List() []domain.Variable {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Variable, len(s.vars))
	copy(out, s.vars)
	return out
}

// Len returns the number of variables.
func (s *VariableStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vars)
}

// Truncate keeps the first n defined variables.
func (s *VariableStore) Truncate(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n < 0 {
		n = 0
	}
	if n >= len(s.vars) {
		return
	}
	for _, v := range s.vars[n:] {
		delete(s.index, v.Name)
	}
	s.vars = s.vars[:n]
}

// Clear removes every variable.
func (s *VariableStore) Clear() {
	s.Truncate(0)
}
