package validate

import (
	"fmt"
	"slices"

	"github.com/structwalk/structwalk/internal/state"
)

// checkArray: size <= capacity and used indices form the contiguous run
// [0, size) with no gaps.
func checkArray(rep *Report, g *state.StateGraph) {
	if len(g.Slots) != g.Capacity {
		rep.add(Violation{Invariant: "array_capacity", Kind: KindOutOfBounds,
			Reason: fmt.Sprintf("slot table has %d entries but capacity is %d", len(g.Slots), g.Capacity)})
		return
	}
	if g.Size > g.Capacity {
		rep.add(Violation{Invariant: "array_capacity", Kind: KindOutOfBounds,
			Reason: fmt.Sprintf("size %d exceeds capacity %d", g.Size, g.Capacity)})
		return
	}
	checkContiguous(rep, g, "array_contiguous", g.Size)
}

// checkStack: -1 <= top < capacity and elements occupy exactly [0, top].
func checkStack(rep *Report, g *state.StateGraph) {
	if len(g.Slots) != g.Capacity {
		rep.add(Violation{Invariant: "stack_window", Kind: KindOutOfBounds,
			Reason: fmt.Sprintf("slot table has %d entries but capacity is %d", len(g.Slots), g.Capacity)})
		return
	}
	if g.Top < -1 || g.Top >= g.Capacity {
		rep.add(Violation{Invariant: "stack_window", Kind: KindOutOfBounds,
			Reason: fmt.Sprintf("top %d outside [-1, %d)", g.Top, g.Capacity)})
		return
	}
	if g.Top+1 != g.Size {
		rep.add(Violation{Invariant: "stack_window", Kind: KindOutOfBounds,
			Reason: fmt.Sprintf("top %d does not match size %d", g.Top, g.Size)})
	}
	checkContiguous(rep, g, "stack_window", g.Top+1)
}

// checkContiguous verifies slots [0, used) are occupied and the rest are
// empty.
func checkContiguous(rep *Report, g *state.StateGraph, invariant string, used int) {
	for i, id := range g.Slots {
		occupied := id != state.NilID
		if i < used && !occupied {
			rep.add(Violation{Invariant: invariant, Kind: KindPointer,
				Reason: fmt.Sprintf("gap at slot %d inside the used region [0, %d)", i, used)})
		}
		if i >= used && occupied {
			rep.add(Violation{Invariant: invariant, Kind: KindLeak,
				Reason:   fmt.Sprintf("slot %d occupied outside the used region [0, %d)", i, used),
				Elements: []state.ElemID{id}})
		}
	}
}

// checkQueue: front and rear within [0, capacity), size matches the
// circular window (rear - front) mod capacity with the explicit size
// field resolving the full/empty ambiguity, and no element addressed
// outside the logical window [front, rear).
func checkQueue(rep *Report, g *state.StateGraph) {
	if len(g.Slots) != g.Capacity {
		rep.add(Violation{Invariant: "queue_window", Kind: KindOutOfBounds,
			Reason: fmt.Sprintf("slot table has %d entries but capacity is %d", len(g.Slots), g.Capacity)})
		return
	}
	if g.Front < 0 || g.Front >= g.Capacity || g.Rear < 0 || g.Rear >= g.Capacity {
		rep.add(Violation{Invariant: "queue_window", Kind: KindOutOfBounds,
			Reason: fmt.Sprintf("front %d or rear %d outside [0, %d)", g.Front, g.Rear, g.Capacity)})
		return
	}
	if g.Size > g.Capacity {
		rep.add(Violation{Invariant: "queue_window", Kind: KindOutOfBounds,
			Reason: fmt.Sprintf("size %d exceeds capacity %d", g.Size, g.Capacity)})
		return
	}
	want := (g.Rear - g.Front + g.Capacity) % g.Capacity
	if g.Size != want && !(g.Size == g.Capacity && g.Front == g.Rear) {
		rep.add(Violation{Invariant: "queue_window", Kind: KindOutOfBounds,
			Reason: fmt.Sprintf("size %d does not match window front=%d rear=%d", g.Size, g.Front, g.Rear)})
	}

	inWindow := make([]bool, g.Capacity)
	for i := 0; i < g.Size; i++ {
		inWindow[(g.Front+i)%g.Capacity] = true
	}
	for i, id := range g.Slots {
		occupied := id != state.NilID
		if inWindow[i] && !occupied {
			rep.add(Violation{Invariant: "queue_window", Kind: KindPointer,
				Reason: fmt.Sprintf("gap at slot %d inside the logical window", i)})
		}
		if !inWindow[i] && occupied {
			rep.add(Violation{Invariant: "queue_window", Kind: KindLeak,
				Reason:   fmt.Sprintf("slot %d occupied outside the logical window", i),
				Elements: []state.ElemID{id}})
		}
	}
}

// checkList runs the linked-list invariant table: boundary consistency,
// bounded traversal reaching the null terminator in exactly size hops,
// and for the doubly linked variant full next/prev symmetry.
//
// Cycle detection is the bounded traversal itself: at most size+1 hops
// from head; a revisit or a missed terminator is a cycle violation. No
// circular variant is declared, so a revisit is never legal.
func checkList(rep *Report, g *state.StateGraph) {
	if g.Size == 0 {
		if g.Head != state.NilID || g.Tail != state.NilID {
			rep.add(Violation{Invariant: "boundary_consistent", Kind: KindPointer,
				Reason: "empty list must have null head and tail"})
		}
		return
	}
	if g.Head == state.NilID || g.Tail == state.NilID {
		rep.add(Violation{Invariant: "boundary_consistent", Kind: KindPointer,
			Reason: "non-empty list must have head and tail markers"})
		return
	}

	visited := make(map[state.ElemID]bool, g.Size)
	id := g.Head
	var last state.ElemID
	terminated := false
	for hops := 0; hops <= g.Size; hops++ {
		if id == state.NilID {
			terminated = true
			break
		}
		if visited[id] {
			rep.add(Violation{Invariant: "no_cycle", Kind: KindCycle,
				Reason:   fmt.Sprintf("traversal from head revisits element %s", id),
				Elements: []state.ElemID{id}})
			return
		}
		visited[id] = true
		last = id
		el, ok := g.Elements[id]
		if !ok {
			// Dangling link already reported by checkPointers; stop the walk.
			return
		}
		id = el.Next
	}

	if !terminated {
		rep.add(Violation{Invariant: "no_cycle", Kind: KindCycle,
			Reason: fmt.Sprintf("traversal from head did not reach the null terminator within %d hops", g.Size+1)})
		return
	}
	if len(visited) != g.Size {
		rep.add(Violation{Invariant: "list_traversal", Kind: KindLeak,
			Reason: fmt.Sprintf("traversal from head visited %d element(s) but size is %d", len(visited), g.Size)})
	}
	if last != g.Tail {
		rep.add(Violation{Invariant: "boundary_consistent", Kind: KindPointer,
			Reason:   fmt.Sprintf("tail marker is %s but traversal ends at %s", g.Tail, last),
			Elements: []state.ElemID{g.Tail, last}})
	}

	if g.Variant == state.VariantDoublyLinked {
		checkDoublySymmetry(rep, g)
	}
}

// checkDoublySymmetry: for every node n with next(n) = m, prev(m) = n,
// and symmetrically; the head has no prev and the tail no next.
func checkDoublySymmetry(rep *Report, g *state.StateGraph) {
	for id, el := range g.Elements {
		if el.Next != state.NilID {
			next, ok := g.Elements[el.Next]
			if ok && next.Prev != id {
				rep.add(Violation{Invariant: "doubly_symmetry", Kind: KindPointer,
					Reason:   fmt.Sprintf("next(%s) = %s but prev(%s) = %s", id, el.Next, el.Next, next.Prev),
					Elements: []state.ElemID{id, el.Next}})
			}
		}
		if el.Prev != state.NilID {
			prev, ok := g.Elements[el.Prev]
			if ok && prev.Next != id {
				rep.add(Violation{Invariant: "doubly_symmetry", Kind: KindPointer,
					Reason:   fmt.Sprintf("prev(%s) = %s but next(%s) = %s", id, el.Prev, el.Prev, prev.Next),
					Elements: []state.ElemID{id, el.Prev}})
			}
		}
	}
	if head, ok := g.Elements[g.Head]; ok && head.Prev != state.NilID {
		rep.add(Violation{Invariant: "doubly_symmetry", Kind: KindPointer,
			Reason:   "head element has a prev link",
			Elements: []state.ElemID{g.Head}})
	}
	if tail, ok := g.Elements[g.Tail]; ok && tail.Next != state.NilID {
		rep.add(Violation{Invariant: "doubly_symmetry", Kind: KindPointer,
			Reason:   "tail element has a next link",
			Elements: []state.ElemID{g.Tail}})
	}
}

func sortIDs(ids []state.ElemID) []state.ElemID {
	out := slices.Clone(ids)
	slices.Sort(out)
	return out
}
