package transform

import (
	"fmt"

	"github.com/structwalk/structwalk/internal/plan"
	"github.com/structwalk/structwalk/internal/state"
)

// applyQueue dispatches ENQUEUE/DEQUEUE/PEEK for the queue variant.
// The queue is a circular buffer: front is the first occupied slot, rear
// one past the last, both mod capacity, with the explicit size field
// disambiguating full from empty when front == rear.
func applyQueue(cur *state.StateGraph, step plan.Step) (Candidate, error) {
	switch step.Op {
	case plan.OpEnqueue:
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
		g.Slots[g.Rear] = id
		g.Rear = (g.Rear + 1) % g.Capacity
		g.Size++
		return finish(g, []state.ElemID{id}, EdgeNone), nil

	case plan.OpDequeue:
		if cur.Size == 0 {
			return unchanged(cur, step, EdgeUnderflow), nil
		}
		g := begin(cur, step)
		victimID := g.Slots[g.Front]
		g.Slots[g.Front] = state.NilID
		g.Front = (g.Front + 1) % g.Capacity
		g.Size--
		delete(g.Elements, victimID)
		return finish(g, []state.ElemID{victimID}, EdgeNone), nil

	case plan.OpPeek:
		if cur.Size == 0 {
			return unchanged(cur, step, EdgeEmpty), nil
		}
		g := begin(cur, step)
		return finish(g, []state.ElemID{g.Slots[g.Front]}, EdgeNone), nil

	default:
		return Candidate{}, fmt.Errorf("operation %s is not a queue transform", step.Op)
	}
}
