package transform

import (
	"fmt"

	"github.com/structwalk/structwalk/internal/plan"
	"github.com/structwalk/structwalk/internal/state"
)

// applyList dispatches insert/delete operations for linked variants.
func applyList(cur *state.StateGraph, step plan.Step) (Candidate, error) {
	switch step.Op {
	case plan.OpInsertHead:
		v, err := paramValue(step)
		if err != nil {
			return Candidate{}, err
		}
		return listInsertAt(cur, step, 0, v), nil
	case plan.OpInsertTail:
		v, err := paramValue(step)
		if err != nil {
			return Candidate{}, err
		}
		return listInsertAt(cur, step, cur.Size, v), nil
	case plan.OpInsertAt:
		v, err := paramValue(step)
		if err != nil {
			return Candidate{}, err
		}
		pos, err := paramPosition(step)
		if err != nil {
			return Candidate{}, err
		}
		return listInsertAt(cur, step, pos, v), nil
	case plan.OpDeleteAt:
		pos, err := paramPosition(step)
		if err != nil {
			return Candidate{}, err
		}
		if pos < 0 || pos >= cur.Size {
			return unchanged(cur, step, EdgeOutOfBounds), nil
		}
		return listDeleteAt(cur, step, pos), nil
	case plan.OpDeleteByValue:
		v, err := paramValue(step)
		if err != nil {
			return Candidate{}, err
		}
		pos, found := listFind(cur, v)
		if !found {
			return unchanged(cur, step, EdgeNotFound), nil
		}
		return listDeleteAt(cur, step, pos), nil
	default:
		return Candidate{}, fmt.Errorf("operation %s is not a list transform", step.Op)
	}
}

// listInsertAt splices a new node in at position pos. Position pos means
// the new node ends up as the pos-th node in traversal order; pos == size
// appends at the tail. Out-of-range positions produce a tagged no-op.
func listInsertAt(cur *state.StateGraph, step plan.Step, pos int, v state.Value) Candidate {
	if pos < 0 || pos > cur.Size {
		return unchanged(cur, step, EdgeOutOfBounds)
	}

	g := begin(cur, step)
	doubly := g.Variant == state.VariantDoublyLinked

	id := g.AllocID()
	node := state.Element{ID: id, Value: v}
	touched := []state.ElemID{id}

	switch {
	case g.Size == 0:
		g.Head, g.Tail = id, id
	case pos == 0:
		oldHead := g.Head
		node.Next = oldHead
		g.Head = id
		if doubly {
			h := g.Elements[oldHead]
			h.Prev = id
			g.Elements[oldHead] = h
			touched = append(touched, oldHead)
		}
	case pos == g.Size:
		oldTail := g.Tail
		t := g.Elements[oldTail]
		t.Next = id
		g.Elements[oldTail] = t
		if doubly {
			node.Prev = oldTail
		}
		g.Tail = id
		touched = append(touched, oldTail)
	default:
		predID := listIDAt(g, pos-1)
		pred := g.Elements[predID]
		succID := pred.Next
		node.Next = succID
		pred.Next = id
		g.Elements[predID] = pred
		touched = append(touched, predID)
		if doubly {
			node.Prev = predID
			succ := g.Elements[succID]
			succ.Prev = id
			g.Elements[succID] = succ
			touched = append(touched, succID)
		}
	}

	g.Elements[id] = node
	g.Size++
	return finish(g, touched, EdgeNone)
}

// listDeleteAt unlinks and removes the node at position pos.
// The caller has already range-checked pos.
func listDeleteAt(cur *state.StateGraph, step plan.Step, pos int) Candidate {
	g := begin(cur, step)
	doubly := g.Variant == state.VariantDoublyLinked

	victimID := listIDAt(g, pos)
	victim := g.Elements[victimID]
	succID := victim.Next
	touched := []state.ElemID{victimID}

	if pos == 0 {
		g.Head = succID
	} else {
		predID := listIDAt(g, pos-1)
		pred := g.Elements[predID]
		pred.Next = succID
		g.Elements[predID] = pred
		touched = append(touched, predID)
	}

	if doubly && succID != state.NilID {
		succ := g.Elements[succID]
		succ.Prev = victim.Prev
		g.Elements[succID] = succ
		touched = append(touched, succID)
	}

	if g.Tail == victimID {
		g.Tail = victim.Prev
		if !doubly {
			if pos == 0 {
				g.Tail = state.NilID
			} else {
				g.Tail = listIDAt(g, pos-1)
			}
		}
	}

	delete(g.Elements, victimID)
	g.Size--
	if g.Size == 0 {
		g.Head, g.Tail = state.NilID, state.NilID
	}
	return finish(g, touched, EdgeNone)
}

// listFind returns the position of the first node matching v in
// traversal order from head.
func listFind(g *state.StateGraph, v state.Value) (int, bool) {
	id := g.Head
	for pos := 0; pos < g.Size && id != state.NilID; pos++ {
		el, ok := g.Elements[id]
		if !ok {
			return 0, false
		}
		if state.ValueEqual(el.Value, v) {
			return pos, true
		}
		id = el.Next
	}
	return 0, false
}

// listIDAt walks from head to the node at position pos. The walk is
// bounded by Size; callers range-check pos first.
func listIDAt(g *state.StateGraph, pos int) state.ElemID {
	id := g.Head
	for i := 0; i < pos; i++ {
		id = g.Elements[id].Next
	}
	return id
}
