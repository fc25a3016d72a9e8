package driven

import "github.com/seamwork/drafter/internal/core/domain"

// EntityStore is the id-addressed registry of geometric entities.
// It enforces id uniqueness and point label uniqueness; reference checks
// belong to the caller.
type EntityStore interface {
	// Insert adds an entity. Fails with ErrAlreadyExists if the id is taken
	// and ErrDuplicateLabel if a point already carries the label.
	Insert(e domain.Entity) error

	// Get returns the entity with the given id and type.
	// Fails with ErrNotFound if absent or ErrTypeMismatch if the type differs.
	Get(id domain.ID, t domain.EntityType) (domain.Entity, error)

	// Lookup returns the entity with the given id whatever its type.
	Lookup(id domain.ID) (domain.Entity, error)

	// ByLabel returns the first entity carrying the label.
	ByLabel(label string) (domain.Entity, error)

	// Remove deletes an entity.
	Remove(id domain.ID) error

	// List returns all entities in insertion order.
	List() []domain.Entity

	// Len returns the number of entities.
	Len() int

	// Truncate keeps the first n inserted entities.
	Truncate(n int)

	// Clear removes every entity.
	Clear()
}

// VariableStore is the formula namespace: measurements, increments and
// values derived from constructed entities.
type VariableStore interface {
	// Define adds a variable. Fails with ErrDuplicateName if the name is taken.
	Define(v domain.Variable) error

	// Resolve returns the value of a variable. It never mutates the store.
	Resolve(name string) (float64, bool)

	// Get returns a variable by name.
	Get(name string) (domain.Variable, error)

	// List returns all variables in definition order.
	List() []domain.Variable

	// Len returns the number of variables.
	Len() int

	// Truncate keeps the first n defined variables.
	Truncate(n int)

	// Clear removes every variable.
	Clear()
}
