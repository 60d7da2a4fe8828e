package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLinkedListSingly(t *testing.T) {
	g, err := NewLinkedList(VariantSinglyLinked, []Value{
		StringValue("A"), StringValue("B"), StringValue("C"),
	})
	require.NoError(t, err)

	assert.Equal(t, 3, g.Size)
	assert.Equal(t, ElemID("e1"), g.Head)
	assert.Equal(t, ElemID("e3"), g.Tail)
	assert.Equal(t, 3, g.NextID)

	assert.Equal(t, ElemID("e2"), g.Elements["e1"].Next)
	assert.Equal(t, ElemID("e3"), g.Elements["e2"].Next)
	assert.Equal(t, NilID, g.Elements["e3"].Next)

	// Singly linked elements never carry prev links.
	for id, el := range g.Elements {
		assert.Equal(t, NilID, el.Prev, "element %s", id)
	}
}

func TestNewLinkedListDoubly(t *testing.T) {
	g, err := NewLinkedList(VariantDoublyLinked, []Value{IntValue(1), IntValue(2)})
	require.NoError(t, err)

	assert.Equal(t, ElemID("e1"), g.Head)
	assert.Equal(t, ElemID("e2"), g.Tail)
	assert.Equal(t, ElemID("e2"), g.Elements["e1"].Next)
	assert.Equal(t, NilID, g.Elements["e1"].Prev)
	assert.Equal(t, ElemID("e1"), g.Elements["e2"].Prev)
	assert.Equal(t, NilID, g.Elements["e2"].Next)
}

func TestNewLinkedListEmpty(t *testing.T) {
	g, err := NewLinkedList(VariantSinglyLinked, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, g.Size)
	assert.Equal(t, NilID, g.Head)
	assert.Equal(t, NilID, g.Tail)
}

func TestNewLinkedListRejectsNonLinkedVariant(t *testing.T) {
	_, err := NewLinkedList(VariantArray, nil)
	require.Error(t, err)
}

func TestNewArray(t *testing.T) {
	g, err := NewArray([]Value{StringValue("x"), StringValue("y")}, 4)
	require.NoError(t, err)

	assert.Equal(t, 2, g.Size)
	assert.Equal(t, 4, g.Capacity)
	require.Len(t, g.Slots, 4)
	assert.Equal(t, ElemID("e1"), g.Slots[0])
	assert.Equal(t, ElemID("e2"), g.Slots[1])
	assert.Equal(t, NilID, g.Slots[2])
	assert.Equal(t, NilID, g.Slots[3])
}

func TestNewArrayCapacityErrors(t *testing.T) {
	_, err := NewArray(nil, 0)
	require.Error(t, err)

	_, err = NewArray([]Value{IntValue(1), IntValue(2)}, 1)
	require.Error(t, err)
}

func TestNewStack(t *testing.T) {
	g, err := NewStack([]Value{IntValue(10), IntValue(20)}, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, g.Top)
	assert.Equal(t, 2, g.Size)

	empty, err := NewStack(nil, 3)
	require.NoError(t, err)
	assert.Equal(t, -1, empty.Top)
}

func TestNewQueue(t *testing.T) {
	g, err := NewQueue([]Value{StringValue("a"), StringValue("b")}, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, g.Front)
	assert.Equal(t, 2, g.Rear)
	assert.Equal(t, 2, g.Size)

	// A full queue wraps rear back onto front; size disambiguates.
	full, err := NewQueue([]Value{IntValue(1), IntValue(2), IntValue(3)}, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, full.Front)
	assert.Equal(t, 0, full.Rear)
	assert.Equal(t, 3, full.Size)
}
