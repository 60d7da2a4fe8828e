// Package transform implements the step transform library: one pure
// function per operation kind, mapping (current state, parameters) to a
// candidate state plus the exact set of element identifiers it created,
// removed, or mutated.
//
// Transforms are total over their declared preconditions. An operation
// whose precondition fails (POP on an empty stack, INSERT_AT out of
// range) still returns a defined candidate: the unchanged state carrying
// an edge-case tag. Transforms never decide validity - that is strictly
// the validator's job, keeping "what changed" separate from "is it still
// legal".
//
// Every transform works on a deep copy of the current state; the input
// snapshot is never mutated.
package transform

import (
	"fmt"

	"github.com/structwalk/structwalk/internal/plan"
	"github.com/structwalk/structwalk/internal/state"
)

// EdgeCase tags a candidate whose operation hit a precondition boundary.
type EdgeCase string

// Edge-case tags.
const (
	EdgeNone        EdgeCase = ""
	EdgeOutOfBounds EdgeCase = "OUT_OF_BOUNDS"
	EdgeNotFound    EdgeCase = "NOT_FOUND"
	EdgeOverflow    EdgeCase = "OVERFLOW"
	EdgeUnderflow   EdgeCase = "UNDERFLOW"
	EdgeEmpty       EdgeCase = "EMPTY"
)

// Candidate is a tentative state produced by a transform, not yet
// validated or committed.
type Candidate struct {
	// State is the candidate snapshot. Always non-nil and always a deep
	// copy of the input, even when the operation was a tagged no-op.
	State *state.StateGraph

	// Modified is the sorted set of element identifiers the operation
	// created, removed, or mutated (also recorded on State.Modified).
	Modified []state.ElemID

	// EdgeCase is the precondition boundary the operation hit, if any.
	EdgeCase EdgeCase
}

// Apply dispatches a step to its transform against the current state.
// It returns an error only for (variant, op) pairs plan validation
// should have rejected; every data-dependent outcome is a Candidate.
func Apply(cur *state.StateGraph, step plan.Step) (Candidate, error) {
	switch step.Op {
	case plan.OpInsertHead, plan.OpInsertTail, plan.OpInsertAt,
		plan.OpDeleteByValue, plan.OpDeleteAt:
		if cur.Variant.Linked() {
			return applyList(cur, step)
		}
		if cur.Variant == state.VariantArray {
			return applyArray(cur, step)
		}
	case plan.OpPush, plan.OpPop:
		if cur.Variant == state.VariantStack {
			return applyStack(cur, step)
		}
	case plan.OpEnqueue, plan.OpDequeue:
		if cur.Variant == state.VariantQueue {
			return applyQueue(cur, step)
		}
	case plan.OpPeek:
		switch cur.Variant {
		case state.VariantStack:
			return applyStack(cur, step)
		case state.VariantQueue:
			return applyQueue(cur, step)
		}
	case plan.OpTraverse:
		return traverse(cur, step), nil
	case plan.OpAccess:
		return access(cur, step)
	}
	return Candidate{}, fmt.Errorf("operation %s is not defined for variant %s", step.Op, cur.Variant)
}

// begin clones the current state and stamps it with the step index.
func begin(cur *state.StateGraph, step plan.Step) *state.StateGraph {
	g := cur.Clone()
	g.StepIndex = step.Index
	g.Modified = nil
	return g
}

// finish records the touched set on both the snapshot and the candidate.
func finish(g *state.StateGraph, touched []state.ElemID, edge EdgeCase) Candidate {
	g.SetModified(touched)
	return Candidate{State: g, Modified: g.Modified, EdgeCase: edge}
}

// unchanged produces the tagged no-op candidate for a failed precondition.
func unchanged(cur *state.StateGraph, step plan.Step, edge EdgeCase) Candidate {
	return finish(begin(cur, step), nil, edge)
}

// traverse visits every element in structure order; the state is
// unchanged apart from the step stamp and the highlight set.
func traverse(cur *state.StateGraph, step plan.Step) Candidate {
	g := begin(cur, step)
	return finish(g, g.IDsInOrder(), EdgeNone)
}

// access reads the element at a logical position without mutating.
func access(cur *state.StateGraph, step plan.Step) (Candidate, error) {
	if step.Params.Index == nil {
		return Candidate{}, fmt.Errorf("ACCESS requires params.index")
	}
	idx := *step.Params.Index
	g := begin(cur, step)
	if idx < 0 || idx >= g.Size {
		return finish(g, nil, EdgeOutOfBounds), nil
	}
	ids := g.IDsInOrder()
	return finish(g, []state.ElemID{ids[idx]}, EdgeNone), nil
}

// paramValue unwraps the step's value parameter.
func paramValue(step plan.Step) (state.Value, error) {
	if step.Params.Value == nil || step.Params.Value.V == nil {
		return nil, fmt.Errorf("%s requires params.value", step.Op)
	}
	return step.Params.Value.V, nil
}

// paramPosition unwraps the step's position parameter.
func paramPosition(step plan.Step) (int, error) {
	if step.Params.Position == nil {
		return 0, fmt.Errorf("%s requires params.position", step.Op)
	}
	return *step.Params.Position, nil
}
