package state

import "fmt"

// NewLinkedList builds a genesis snapshot for a linked variant from an
// ordered value list. The resulting state always satisfies the variant's
// invariant table; malformed input is reported as an error instead.
func NewLinkedList(variant Variant, values []Value) (*StateGraph, error) {
	if !variant.Linked() {
		return nil, fmt.Errorf("variant %s is not a linked list", variant)
	}
	g := &StateGraph{
		Variant:  variant,
		Elements: make(map[ElemID]Element, len(values)),
		Size:     len(values),
	}
	var prev ElemID
	for i, v := range values {
		if v == nil {
			return nil, fmt.Errorf("values[%d]: null element value", i)
		}
		id := g.AllocID()
		el := Element{ID: id, Value: v}
		if variant == VariantDoublyLinked {
			el.Prev = prev
		}
		g.Elements[id] = el
		if prev == NilID {
			g.Head = id
		} else {
			p := g.Elements[prev]
			p.Next = id
			g.Elements[prev] = p
		}
		prev = id
	}
	g.Tail = prev
	return g, nil
}

// NewArray builds a genesis array snapshot. Capacity must cover the
// initial values; the used region is the contiguous run [0, size).
func NewArray(values []Value, capacity int) (*StateGraph, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("array capacity must be at least 1, got %d", capacity)
	}
	if len(values) > capacity {
		return nil, fmt.Errorf("array holds %d values but capacity is %d", len(values), capacity)
	}
	g := newIndexed(VariantArray, capacity)
	if err := fillSlots(g, values); err != nil {
		return nil, err
	}
	return g, nil
}

// NewStack builds a genesis stack snapshot. values[0] is the bottom of
// the stack; top starts at len(values)-1 (-1 when empty).
func NewStack(values []Value, capacity int) (*StateGraph, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("stack capacity must be at least 1, got %d", capacity)
	}
	if len(values) > capacity {
		return nil, fmt.Errorf("stack holds %d values but capacity is %d", len(values), capacity)
	}
	g := newIndexed(VariantStack, capacity)
	if err := fillSlots(g, values); err != nil {
		return nil, err
	}
	g.Top = len(values) - 1
	return g, nil
}

// NewQueue builds a genesis queue snapshot over a circular buffer.
// Front starts at 0 and rear at len(values) mod capacity; the explicit
// Size field disambiguates the full and empty cases where front == rear.
func NewQueue(values []Value, capacity int) (*StateGraph, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("queue capacity must be at least 1, got %d", capacity)
	}
	if len(values) > capacity {
		return nil, fmt.Errorf("queue holds %d values but capacity is %d", len(values), capacity)
	}
	g := newIndexed(VariantQueue, capacity)
	if err := fillSlots(g, values); err != nil {
		return nil, err
	}
	g.Front = 0
	g.Rear = len(values) % capacity
	return g, nil
}

func newIndexed(variant Variant, capacity int) *StateGraph {
	return &StateGraph{
		Variant:  variant,
		Elements: make(map[ElemID]Element),
		Slots:    make([]ElemID, capacity),
		Capacity: capacity,
		Top:      -1,
	}
}

func fillSlots(g *StateGraph, values []Value) error {
	for i, v := range values {
		if v == nil {
			return fmt.Errorf("values[%d]: null element value", i)
		}
		id := g.AllocID()
		g.Elements[id] = Element{ID: id, Value: v}
		g.Slots[i] = id
	}
	g.Size = len(values)
	return nil
}
