package transform

import (
	"fmt"

	"github.com/structwalk/structwalk/internal/plan"
	"github.com/structwalk/structwalk/internal/state"
)

// applyStack dispatches PUSH/POP/PEEK for the stack variant.
// Elements occupy exactly slots [0, top]; push at capacity and pop/peek
// on empty are tagged no-ops.
func applyStack(cur *state.StateGraph, step plan.Step) (Candidate, error) {
	switch step.Op {
	case plan.OpPush:
		v, err := paramValue(step)
		if err != nil {
			return Candidate{}, err
		}
		if cur.Size >= cur.Capacity {
			return unchanged(cur, step, EdgeOverflow), nil
		}
		g := begin(cur, step)
		id := g.AllocID()
		g.Elements[id] = state.Element{ID: id, Value: v}
		g.Top++
		g.Slots[g.Top] = id
		g.Size++
		return finish(g, []state.ElemID{id}, EdgeNone), nil

	case plan.OpPop:
		if cur.Size == 0 {
			return unchanged(cur, step, EdgeUnderflow), nil
		}
		g := begin(cur, step)
		victimID := g.Slots[g.Top]
		g.Slots[g.Top] = state.NilID
		g.Top--
		g.Size--
		delete(g.Elements, victimID)
		return finish(g, []state.ElemID{victimID}, EdgeNone), nil

	case plan.OpPeek:
		if cur.Size == 0 {
			return unchanged(cur, step, EdgeEmpty), nil
		}
		g := begin(cur, step)
		return finish(g, []state.ElemID{g.Slots[g.Top]}, EdgeNone), nil

	default:
		return Candidate{}, fmt.Errorf("operation %s is not a stack transform", step.Op)
	}
}
