package domain

// Resolution selects how a broken edit is settled.
type Resolution int

// Resolutions offered after an edit breaks recomputation.
const (
	// ResolveRevert undoes the edit that broke recomputation.
	ResolveRevert Resolution = iota + 1

	// ResolveAccept keeps the edit and the partially recomputed store.
	ResolveAccept
)

// String returns the string representation.
func (r Resolution) String() string {
	switch r {
	case ResolveRevert:
		return "revert"
	case ResolveAccept:
		return "accept"
	default:
		return "unknown"
	}
}

// RecomputeOutcome summarises one recomputation pass.
type RecomputeOutcome struct {
	// From is the index of the first replayed operation.
	From int

	// Executed counts the operations that completed.
	Executed int

	// Entities is the store size after the pass.
	Entities int

	// Failure is set when the pass stopped early.
	Failure *OperationError
}

// OK reports whether every operation was executed.
func (o RecomputeOutcome) OK() bool {
	return o.Failure == nil
}

// EditPreview is the result of trying an edit without committing it.
type EditPreview struct {
	// Operation is the operation as it would be after the edit.
	Operation Operation

	// Outcome is the recomputation result of the edited drafting.
	Outcome RecomputeOutcome

	// Entities is the resulting store contents in insertion order.
	Entities []Entity
}

// HistoryState describes the edit history.
type HistoryState struct {
	// Undo lists descriptions of revertible edits, oldest first.
	Undo []string

	// Redo lists descriptions of re-appliable edits, next first.
	Redo []string

	// Pending is set while a broken edit awaits resolution.
	Pending *OperationError
}
