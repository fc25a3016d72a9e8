package services

import (
	"errors"
	"fmt"

	"github.com/seamwork/drafter/internal/core/domain"
	"github.com/seamwork/drafter/internal/core/ports/driving"
	"github.com/seamwork/drafter/internal/logger"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// HistoryService applies reversible commands to the open drafting.
//
// Every command is checked on a copy of the drafting before it touches the
// real one, so a rejected command leaves no trace. A command whose
// recomputation fails is kept and marks the history as pending until the
// break is resolved.
type HistoryService struct {
	ws       *Workspace
	maxDepth int

	generation int
	done       []Command
	undone     []Command
	pending    *domain.OperationError
}

// NewHistoryService creates a history over ws keeping at most maxDepth
// commands. A maxDepth of 0 keeps every command.
func NewHistoryService(ws *Workspace, maxDepth int) *HistoryService {
	return &HistoryService{ws: ws, maxDepth: maxDepth}
}

// AddOperation appends an operation built from params.
func (h *HistoryService) AddOperation(group string, params domain.Params) (domain.Operation, domain.RecomputeOutcome, error) {
	if params == nil || !params.Kind().IsValid() {
		return domain.Operation{}, domain.RecomputeOutcome{}, fmt.Errorf("%w: missing operation parameters", domain.ErrInvalidInput)
	}
	var op domain.Operation
	outcome, err := h.run(false, func(e *Engine) (Command, error) {
		// Ids are drawn from a scratch counter; applying the command claims them.
		scratch := domain.Drafting{NextID: e.Drafting().NextID}
		op = scratch.NewOperation(group, domain.CloneParams(params))
		if err := op.Validate(); err != nil {
			return nil, err
		}
		return &AddOperationCmd{Op: op}, nil
	})
	return op, outcome, err
}

// RemoveOperation deletes an operation nothing depends on.
func (h *HistoryService) RemoveOperation(opID domain.ID) (domain.RecomputeOutcome, error) {
	return h.run(false, func(*Engine) (Command, error) {
		return &RemoveOperationCmd{OpID: opID}, nil
	})
}

// EditOperation replaces formula fields of an operation.
func (h *HistoryService) EditOperation(opID domain.ID, fields map[string]string) (domain.RecomputeOutcome, error) {
	return h.run(false, editFields(opID, fields))
}

// ReplaceParams replaces an operation's parameters.
func (h *HistoryService) ReplaceParams(opID domain.ID, params domain.Params) (domain.RecomputeOutcome, error) {
	return h.run(false, func(*Engine) (Command, error) {
		return &EditOperationCmd{OpID: opID, Params: domain.CloneParams(params)}, nil
	})
}

// MoveOperation moves an operation to index.
func (h *HistoryService) MoveOperation(opID domain.ID, index int) (domain.RecomputeOutcome, error) {
	return h.run(false, func(*Engine) (Command, error) {
		return &MoveOperationCmd{OpID: opID, To: index}, nil
	})
}

// RenameLabel renames a point or detail.
func (h *HistoryService) RenameLabel(oldLabel, newLabel string) (domain.RecomputeOutcome, error) {
	return h.run(false, func(*Engine) (Command, error) {
		if oldLabel == newLabel {
			return nil, fmt.Errorf("%w: label is already %s", domain.ErrInvalidInput, newLabel)
		}
		return &RenameLabelCmd{Old: oldLabel, New: newLabel}, nil
	})
}

// SetIncrement adds or replaces an increment.
func (h *HistoryService) SetIncrement(inc domain.Increment) (domain.RecomputeOutcome, error) {
	return h.run(false, func(e *Engine) (Command, error) {
		if err := e.Evaluator().Check(inc.Formula); err != nil {
			return nil, err
		}
		return &SetIncrementCmd{Increment: inc}, nil
	})
}

// RemoveIncrement deletes an increment.
func (h *HistoryService) RemoveIncrement(name string) (domain.RecomputeOutcome, error) {
	return h.run(false, func(*Engine) (Command, error) {
		return &RemoveIncrementCmd{Name: name}, nil
	})
}

// FixInPlace edits formula fields, also while a broken edit is pending.
// The fix becomes its own history entry.
func (h *HistoryService) FixInPlace(opID domain.ID, fields map[string]string) (domain.RecomputeOutcome, error) {
	return h.run(true, editFields(opID, fields))
}

func editFields(opID domain.ID, fields map[string]string) func(e *Engine) (Command, error) {
	return func(e *Engine) (Command, error) {
		op, err := e.Drafting().Operation(opID)
		if err != nil {
			return nil, err
		}
		params, err := domain.ApplyFields(op.Params, fields)
		if err != nil {
			return nil, err
		}
		return &EditOperationCmd{OpID: opID, Params: params}, nil
	}
}

// run builds a command under the write lock, checks it against a copy of
// the drafting, applies it and recomputes from the earliest affected index.
func (h *HistoryService) run(whilePending bool, build func(e *Engine) (Command, error)) (domain.RecomputeOutcome, error) {
	var outcome domain.RecomputeOutcome
	err := h.ws.write(func(e *Engine) error {
		h.sync()
		if h.pending != nil && !whilePending {
			return fmt.Errorf("%w: %v", domain.ErrUnresolvedBreak, h.pending)
		}
		cmd, err := build(e)
		if err != nil {
			return err
		}
		if err := h.check(e, cmd); err != nil {
			return err
		}
		from, err := cmd.Apply(e.Drafting())
		if err != nil {
			return err
		}
		h.push(cmd)
		logger.Info("%s", cmd.Describe())
		outcome, err = h.recompute(e, from)
		return err
	})
	return outcome, err
}

// check rejects commands that would break dependency order, without
// touching the live drafting.
func (h *HistoryService) check(e *Engine, cmd Command) error {
	if gc, ok := cmd.(graphChecker); ok {
		g := BuildGraph(e.Drafting(), e.Evaluator(), e.Variables())
		if err := gc.check(g); err != nil {
			return err
		}
	}
	trial := e.Drafting().Clone()
	if _, err := cmd.Apply(trial); err != nil {
		return err
	}
	if err := trial.Validate(); err != nil {
		return err
	}
	return BuildGraph(trial, e.Evaluator(), e.Variables()).Validate()
}

// recompute replays from index and records a failure as pending.
func (h *HistoryService) recompute(e *Engine, from int) (domain.RecomputeOutcome, error) {
	outcome, err := e.Recompute(from)
	if err != nil {
		h.pending = outcome.Failure
		return outcome, fmt.Errorf("%w: %w", domain.ErrRecomputeFailed, err)
	}
	h.pending = nil
	return outcome, nil
}

func (h *HistoryService) push(cmd Command) {
	h.done = append(h.done, cmd)
	h.undone = nil
	h.trim()
}

func (h *HistoryService) trim() {
	if h.maxDepth > 0 && len(h.done) > h.maxDepth {
		h.done = append([]Command(nil), h.done[len(h.done)-h.maxDepth:]...)
	}
}

// sync drops the stacks when a different drafting has been opened.
// The caller holds the workspace lock.
func (h *HistoryService) sync() {
	if h.generation != h.ws.generation {
		h.generation = h.ws.generation
		h.done = nil
		h.undone = nil
		h.pending = nil
	}
}

// Undo reverts the last applied command.
func (h *HistoryService) Undo() (domain.RecomputeOutcome, error) {
	var outcome domain.RecomputeOutcome
	err := h.ws.write(func(e *Engine) error {
		h.sync()
		if h.pending != nil {
			return fmt.Errorf("%w: %v", domain.ErrUnresolvedBreak, h.pending)
		}
		if len(h.done) == 0 {
			return domain.ErrNothingToUndo
		}
		cmd := h.done[len(h.done)-1]
		from, err := cmd.Revert(e.Drafting())
		if err != nil {
			return err
		}
		h.done = h.done[:len(h.done)-1]
		h.undone = append(h.undone, cmd)
		logger.Info("undo %s", cmd.Describe())
		outcome, err = h.recompute(e, from)
		return err
	})
	return outcome, err
}

// Redo re-applies the last reverted command.
func (h *HistoryService) Redo() (domain.RecomputeOutcome, error) {
	var outcome domain.RecomputeOutcome
	err := h.ws.write(func(e *Engine) error {
		h.sync()
		if h.pending != nil {
			return fmt.Errorf("%w: %v", domain.ErrUnresolvedBreak, h.pending)
		}
		if len(h.undone) == 0 {
			return domain.ErrNothingToRedo
		}
		cmd := h.undone[len(h.undone)-1]
		from, err := cmd.Apply(e.Drafting())
		if err != nil {
			return err
		}
		h.undone = h.undone[:len(h.undone)-1]
		h.done = append(h.done, cmd)
		h.trim()
		logger.Info("redo %s", cmd.Describe())
		outcome, err = h.recompute(e, from)
		return err
	})
	return outcome, err
}

// Resolve settles a pending break by reverting the command that caused it
// or accepting the partial result. A reverted command cannot be redone.
func (h *HistoryService) Resolve(r domain.Resolution) (domain.RecomputeOutcome, error) {
	var outcome domain.RecomputeOutcome
	err := h.ws.write(func(e *Engine) error {
		h.sync()
		if h.pending == nil {
			return fmt.Errorf("%w: no broken edit to resolve", domain.ErrInvalidInput)
		}
		switch r {
		case domain.ResolveAccept:
			logger.Warn("accepted broken drafting: %v", h.pending)
			outcome = domain.RecomputeOutcome{
				Executed: max(h.pending.Index, 0),
				Entities: e.Entities().Len(),
				Failure:  h.pending,
			}
			h.pending = nil
			return nil
		case domain.ResolveRevert:
			if len(h.done) == 0 {
				return domain.ErrNothingToUndo
			}
			cmd := h.done[len(h.done)-1]
			from, err := cmd.Revert(e.Drafting())
			if err != nil {
				return err
			}
			h.done = h.done[:len(h.done)-1]
			logger.Info("reverted %s", cmd.Describe())
			// An earlier break stays pending.
			outcome, err = h.recompute(e, from)
			return err
		default:
			return fmt.Errorf("%w: resolution %d", domain.ErrInvalidInput, r)
		}
	})
	return outcome, err
}

// ProposeEdit previews a formula edit on a copy of the workspace. A failed
// recomputation is reported in the preview rather than as an error.
func (h *HistoryService) ProposeEdit(opID domain.ID, fields map[string]string) (*domain.EditPreview, error) {
	var preview *domain.EditPreview
	err := h.ws.read(func(e *Engine) error {
		trial, err := e.Clone()
		if err != nil {
			return err
		}
		cmd, err := editFields(opID, fields)(trial)
		if err != nil {
			return err
		}
		from, err := cmd.Apply(trial.Drafting())
		if err != nil {
			return err
		}
		outcome, err := trial.Recompute(from)
		var opErr *domain.OperationError
		if err != nil && !errors.As(err, &opErr) {
			return err
		}
		op, _ := trial.Drafting().Operation(opID)
		preview = &domain.EditPreview{
			Operation: op.Clone(),
			Outcome:   outcome,
			Entities:  trial.Entities().List(),
		}
		return nil
	})
	return preview, err
}

// State describes the undo and redo stacks.
func (h *HistoryService) State() domain.HistoryState {
	var state domain.HistoryState
	_ = h.ws.read(func(*Engine) error {
		if h.generation != h.ws.generation {
			return nil
		}
		for _, cmd := range h.done {
			state.Undo = append(state.Undo, cmd.Describe())
		}
		for i := len(h.undone) - 1; i >= 0; i-- {
			state.Redo = append(state.Redo, h.undone[i].Describe())
		}
		state.Pending = h.pending
		return nil
	})
	return state
}
