package validate

import (
	"fmt"

	"github.com/structwalk/structwalk/internal/state"
)

// checkPointers verifies that every link field and boundary marker is
// either null or an existing identifier in the candidate's arena, and
// that no variant carries links it does not use.
func checkPointers(rep *Report, g *state.StateGraph) {
	exists := func(id state.ElemID) bool {
		_, ok := g.Elements[id]
		return ok
	}

	for id, el := range g.Elements {
		if el.ID != id {
			rep.add(Violation{Invariant: "pointer_valid", Kind: KindPointer,
				Reason:   fmt.Sprintf("arena key %s holds element with ID %s", id, el.ID),
				Elements: []state.ElemID{id}})
		}
		if el.Value == nil {
			rep.add(Violation{Invariant: "pointer_valid", Kind: KindPointer,
				Reason:   "element has no value",
				Elements: []state.ElemID{id}})
		}
		if el.Next != state.NilID {
			if !g.Variant.Linked() {
				rep.add(Violation{Invariant: "pointer_valid", Kind: KindPointer,
					Reason:   fmt.Sprintf("variant %s does not use next links", g.Variant),
					Elements: []state.ElemID{id}})
			} else if !exists(el.Next) {
				rep.add(Violation{Invariant: "pointer_valid", Kind: KindPointer,
					Reason:   fmt.Sprintf("next points to missing element %s", el.Next),
					Elements: []state.ElemID{id, el.Next}})
			}
		}
		if el.Prev != state.NilID {
			if g.Variant != state.VariantDoublyLinked {
				rep.add(Violation{Invariant: "pointer_valid", Kind: KindPointer,
					Reason:   fmt.Sprintf("variant %s does not use prev links", g.Variant),
					Elements: []state.ElemID{id}})
			} else if !exists(el.Prev) {
				rep.add(Violation{Invariant: "pointer_valid", Kind: KindPointer,
					Reason:   fmt.Sprintf("prev points to missing element %s", el.Prev),
					Elements: []state.ElemID{id, el.Prev}})
			}
		}
	}

	if g.Variant.Linked() {
		if g.Head != state.NilID && !exists(g.Head) {
			rep.add(Violation{Invariant: "pointer_valid", Kind: KindPointer,
				Reason:   fmt.Sprintf("head marker points to missing element %s", g.Head),
				Elements: []state.ElemID{g.Head}})
		}
		if g.Tail != state.NilID && !exists(g.Tail) {
			rep.add(Violation{Invariant: "pointer_valid", Kind: KindPointer,
				Reason:   fmt.Sprintf("tail marker points to missing element %s", g.Tail),
				Elements: []state.ElemID{g.Tail}})
		}
	}

	for i, id := range g.Slots {
		if id != state.NilID && !exists(id) {
			rep.add(Violation{Invariant: "pointer_valid", Kind: KindPointer,
				Reason:   fmt.Sprintf("slot %d points to missing element %s", i, id),
				Elements: []state.ElemID{id}})
		}
	}
}

// checkLeaks verifies that every arena identifier is reachable from a
// boundary marker: head traversal for linked variants, the occupied slot
// window for indexed variants. An unreachable element is a structural
// defect (a leak), not a resource-lifetime issue.
func checkLeaks(rep *Report, g *state.StateGraph) {
	reachable := make(map[state.ElemID]bool, g.Size)
	for _, id := range g.IDsInOrder() {
		reachable[id] = true
	}

	var leaked []state.ElemID
	for id := range g.Elements {
		if !reachable[id] {
			leaked = append(leaked, id)
		}
	}
	if len(leaked) > 0 {
		rep.add(Violation{Invariant: "no_leak", Kind: KindLeak,
			Reason:   fmt.Sprintf("%d element(s) unreachable from boundary markers", len(leaked)),
			Elements: sortIDs(leaked)})
	}
}
