package state

import "slices"

// Variant identifies which of the five structure shapes a StateGraph holds.
type Variant string

// Supported structure variants.
const (
	VariantArray        Variant = "ARRAY"
	VariantSinglyLinked Variant = "SINGLY_LINKED"
	VariantDoublyLinked Variant = "DOUBLY_LINKED"
	VariantStack        Variant = "STACK"
	VariantQueue        Variant = "QUEUE"
)

// ValidVariants enumerates the accepted variant tags.
var ValidVariants = map[Variant]bool{
	VariantArray:        true,
	VariantSinglyLinked: true,
	VariantDoublyLinked: true,
	VariantStack:        true,
	VariantQueue:        true,
}

// Linked reports whether the variant uses next/prev links.
func (v Variant) Linked() bool {
	return v == VariantSinglyLinked || v == VariantDoublyLinked
}

// Indexed reports whether the variant addresses elements through slots.
func (v Variant) Indexed() bool {
	return v == VariantArray || v == VariantStack || v == VariantQueue
}

// ElemID is a stable, opaque element identifier. The empty string is the
// null identifier (a null link, an empty slot, an absent boundary marker).
type ElemID string

// NilID is the null element identifier.
const NilID ElemID = ""

// Element is one arena entry: a payload plus variant-specific links.
// Next and Prev are identifier lookups, not references; both are NilID
// outside the variants that use them.
type Element struct {
	ID    ElemID
	Value Value
	Next  ElemID // singly and doubly linked variants
	Prev  ElemID // doubly linked variant only
}

// StateGraph is the snapshot of one structure at one point in time.
//
// Boundary markers are variant-specific: Head/Tail for linked variants,
// Slots+Top for stacks, Slots+Front/Rear for queues, Slots alone for
// arrays. Slots always has length Capacity for indexed variants; an
// unoccupied slot holds NilID.
//
// NextID is the allocation counter for element identifiers. It travels
// with the snapshot so that re-executing a plan from any committed state
// reproduces identical identifiers.
type StateGraph struct {
	Variant  Variant
	Elements map[ElemID]Element

	Head ElemID // linked variants
	Tail ElemID

	Slots []ElemID // indexed variants, len == Capacity
	Top   int      // stack: index of top element, -1 when empty
	Front int      // queue: index of first occupied slot
	Rear  int      // queue: index one past the last occupied slot (mod Capacity)

	Size     int
	Capacity int // bounded variants; 0 means unbounded (linked variants)

	StepIndex int
	Modified  []ElemID // elements created, removed, or mutated by the producing step

	NextID int
}

// AllocID returns a fresh element identifier and advances the snapshot's
// allocation counter. Identifiers are "e1", "e2", ... in allocation order.
func (g *StateGraph) AllocID() ElemID {
	g.NextID++
	return idFor(g.NextID)
}

func idFor(n int) ElemID {
	// Small positive counters only; no need for strconv import gymnastics.
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return ElemID("e" + string(digits))
}

// Clone produces a deep copy. The copy shares no mutable memory with the
// receiver; mutating one never affects the other.
func (g *StateGraph) Clone() *StateGraph {
	c := *g
	c.Elements = make(map[ElemID]Element, len(g.Elements))
	for id, el := range g.Elements {
		c.Elements[id] = el
	}
	c.Slots = slices.Clone(g.Slots)
	c.Modified = slices.Clone(g.Modified)
	return &c
}

// SetModified records the producing step's touched elements in sorted
// order, so Modified compares and serializes deterministically.
func (g *StateGraph) SetModified(ids []ElemID) {
	set := make(map[ElemID]bool, len(ids))
	for _, id := range ids {
		if id != NilID {
			set[id] = true
		}
	}
	out := make([]ElemID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	slices.Sort(out)
	g.Modified = out
}

// ValuesInOrder returns element payloads in structure order: traversal
// order from head for linked variants, slot order for indexed variants
// (front to rear for queues, bottom to top for stacks).
//
// The walk is bounded by Size, so it is safe on malformed candidates.
func (g *StateGraph) ValuesInOrder() []Value {
	out := make([]Value, 0, g.Size)
	for _, id := range g.IDsInOrder() {
		if el, ok := g.Elements[id]; ok {
			out = append(out, el.Value)
		}
	}
	return out
}

// IDsInOrder returns element identifiers in structure order, bounded by
// Size hops so a corrupted topology cannot loop forever.
func (g *StateGraph) IDsInOrder() []ElemID {
	out := make([]ElemID, 0, g.Size)
	switch {
	case g.Variant.Linked():
		id := g.Head
		for hops := 0; id != NilID && hops < g.Size; hops++ {
			out = append(out, id)
			el, ok := g.Elements[id]
			if !ok {
				break
			}
			id = el.Next
		}
	case g.Variant == VariantQueue:
		for i := 0; i < g.Size && g.Capacity > 0; i++ {
			out = append(out, g.Slots[(g.Front+i)%g.Capacity])
		}
	default: // array, stack: contiguous from 0
		for i := 0; i < g.Size && i < len(g.Slots); i++ {
			out = append(out, g.Slots[i])
		}
	}
	return out
}

// Equal reports value equality between two snapshots: same canonical
// serialization, hence byte-identical to every consumer.
func (g *StateGraph) Equal(other *StateGraph) bool {
	if g == nil || other == nil {
		return g == other
	}
	a, errA := MarshalCanonical(g.CanonicalMap())
	b, errB := MarshalCanonical(other.CanonicalMap())
	if errA != nil || errB != nil {
		return false
	}
	return string(a) == string(b)
}
