package services

import (
	"sync"

	"github.com/seamwork/drafter/internal/core/domain"
	"github.com/seamwork/drafter/internal/core/formula"
)

// Workspace holds the open drafting shared by the services. Queries take
// the read lock; edits, loads and recomputations take the write lock.
type Workspace struct {
	mu        sync.RWMutex
	engine    *Engine
	path      string
	catalog   *formula.Catalog
	newStores StoreFactory

	// generation changes whenever a different drafting is opened.
	generation int
}

// NewWorkspace creates an empty workspace. A nil catalog selects the
// default function catalog.
func NewWorkspace(catalog *formula.Catalog, newStores StoreFactory) *Workspace {
	if catalog == nil {
		catalog = formula.DefaultCatalog()
	}
	return &Workspace{catalog: catalog, newStores: newStores}
}

// Catalog returns the formula catalog used by every engine of the workspace.
func (w *Workspace) Catalog() *formula.Catalog {
	return w.catalog
}

// Path returns the file backing the open drafting, if any.
func (w *Workspace) Path() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.path
}

// open installs a new engine. The caller holds the write lock.
func (w *Workspace) open(engine *Engine, path string) {
	w.engine = engine
	w.path = path
	w.generation++
}

// newEngine creates an engine for d with the workspace catalog and stores.
func (w *Workspace) newEngine(d *domain.Drafting) *Engine {
	return NewEngine(d, w.catalog, w.newStores)
}

// read runs fn under the read lock with the open engine.
func (w *Workspace) read(fn func(e *Engine) error) error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.engine == nil {
		return domain.ErrNoDrafting
	}
	return fn(w.engine)
}

// write runs fn under the write lock with the open engine.
func (w *Workspace) write(fn func(e *Engine) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.engine == nil {
		return domain.ErrNoDrafting
	}
	return fn(w.engine)
}
