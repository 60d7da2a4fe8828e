package transform

import (
	"fmt"

	"github.com/structwalk/structwalk/internal/plan"
	"github.com/structwalk/structwalk/internal/state"
)

// applyArray dispatches insert/delete operations for the array variant.
// The used region stays the contiguous run [0, size); inserts shift the
// suffix right, deletes shift it left.
func applyArray(cur *state.StateGraph, step plan.Step) (Candidate, error) {
	switch step.Op {
	case plan.OpInsertHead:
		v, err := paramValue(step)
		if err != nil {
			return Candidate{}, err
		}
		return arrayInsertAt(cur, step, 0, v), nil
	case plan.OpInsertTail:
		v, err := paramValue(step)
		if err != nil {
			return Candidate{}, err
		}
		return arrayInsertAt(cur, step, cur.Size, v), nil
	case plan.OpInsertAt:
		v, err := paramValue(step)
		if err != nil {
			return Candidate{}, err
		}
		pos, err := paramPosition(step)
		if err != nil {
			return Candidate{}, err
		}
		return arrayInsertAt(cur, step, pos, v), nil
	case plan.OpDeleteAt:
		pos, err := paramPosition(step)
		if err != nil {
			return Candidate{}, err
		}
		if pos < 0 || pos >= cur.Size {
			return unchanged(cur, step, EdgeOutOfBounds), nil
		}
		return arrayDeleteAt(cur, step, pos), nil
	case plan.OpDeleteByValue:
		v, err := paramValue(step)
		if err != nil {
			return Candidate{}, err
		}
		for i := 0; i < cur.Size; i++ {
			el := cur.Elements[cur.Slots[i]]
			if state.ValueEqual(el.Value, v) {
				return arrayDeleteAt(cur, step, i), nil
			}
		}
		return unchanged(cur, step, EdgeNotFound), nil
	default:
		return Candidate{}, fmt.Errorf("operation %s is not an array transform", step.Op)
	}
}

func arrayInsertAt(cur *state.StateGraph, step plan.Step, pos int, v state.Value) Candidate {
	if pos < 0 || pos > cur.Size {
		return unchanged(cur, step, EdgeOutOfBounds)
	}
	if cur.Size >= cur.Capacity {
		return unchanged(cur, step, EdgeOverflow)
	}

	g := begin(cur, step)
	id := g.AllocID()
	g.Elements[id] = state.Element{ID: id, Value: v}

	// Shifted elements visibly move; they count as touched.
	touched := []state.ElemID{id}
	for i := g.Size; i > pos; i-- {
		g.Slots[i] = g.Slots[i-1]
		touched = append(touched, g.Slots[i])
	}
	g.Slots[pos] = id
	g.Size++
	return finish(g, touched, EdgeNone)
}

func arrayDeleteAt(cur *state.StateGraph, step plan.Step, pos int) Candidate {
	g := begin(cur, step)
	victimID := g.Slots[pos]
	touched := []state.ElemID{victimID}

	for i := pos; i < g.Size-1; i++ {
		g.Slots[i] = g.Slots[i+1]
		touched = append(touched, g.Slots[i])
	}
	g.Slots[g.Size-1] = state.NilID
	delete(g.Elements, victimID)
	g.Size--
	return finish(g, touched, EdgeNone)
}
