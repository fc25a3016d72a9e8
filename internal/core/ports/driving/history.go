package driving

import "github.com/seamwork/drafter/internal/core/domain"

// HistoryService applies reversible edits to the current drafting.
//
// Each edit recomputes from the earliest affected operation. When that
// recomputation fails the edit is kept and the history waits for Resolve or
// FixInPlace; other edits return ErrUnresolvedBreak until then. Failed
// recomputations are returned as errors wrapping ErrRecomputeFailed and the
// *domain.OperationError.
type HistoryService interface {
	// AddOperation appends an operation built from params.
	AddOperation(group string, params domain.Params) (domain.Operation, domain.RecomputeOutcome, error)

	// RemoveOperation deletes an operation nothing later depends on.
	RemoveOperation(opID domain.ID) (domain.RecomputeOutcome, error)

	// EditOperation replaces formula fields of an operation.
	EditOperation(opID domain.ID, fields map[string]string) (domain.RecomputeOutcome, error)

	// ReplaceParams replaces an operation's parameters with params of the same kind.
	ReplaceParams(opID domain.ID, params domain.Params) (domain.RecomputeOutcome, error)

	// MoveOperation moves an operation to index, keeping dependency order.
	MoveOperation(opID domain.ID, index int) (domain.RecomputeOutcome, error)

	// RenameLabel renames a point or detail and rewrites formulas naming it.
	RenameLabel(oldLabel, newLabel string) (domain.RecomputeOutcome, error)

	// SetIncrement adds or replaces an increment.
	SetIncrement(inc domain.Increment) (domain.RecomputeOutcome, error)

	// RemoveIncrement deletes an increment.
	RemoveIncrement(name string) (domain.RecomputeOutcome, error)

	// Undo reverts the last applied edit.
	Undo() (domain.RecomputeOutcome, error)

	// Redo re-applies the last reverted edit.
	Redo() (domain.RecomputeOutcome, error)

	// Resolve settles a pending broken edit.
	Resolve(r domain.Resolution) (domain.RecomputeOutcome, error)

	// FixInPlace edits formula fields while a broken edit is pending.
	FixInPlace(opID domain.ID, fields map[string]string) (domain.RecomputeOutcome, error)

	// ProposeEdit previews a formula edit without touching the drafting.
	ProposeEdit(opID domain.ID, fields map[string]string) (*domain.EditPreview, error)

	// State describes the undo and redo stacks.
	State() domain.HistoryState
}
