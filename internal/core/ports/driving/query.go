package driving

import "github.com/seamwork/drafter/internal/core/domain"

// QueryService is the read-only consumer API over the last recomputation.
type QueryService interface {
	// Entities returns every entity in construction order.
	Entities() ([]domain.Entity, error)

	// EntityByID returns an entity by id.
	EntityByID(id domain.ID) (domain.Entity, error)

	// EntityByLabel returns an entity by label.
	EntityByLabel(label string) (domain.Entity, error)

	// Operations returns the drafting's operations in order.
	Operations() ([]domain.Operation, error)

	// FormulaOf returns the formula fields of an operation.
	FormulaOf(opID domain.ID) (map[string]string, error)

	// Variables returns the namespace in definition order.
	Variables() ([]domain.Variable, error)

	// Evaluate evaluates a formula against the current namespace.
	Evaluate(formula string) (float64, error)
}
