package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structwalk/structwalk/internal/plan"
	"github.com/structwalk/structwalk/internal/state"
	"github.com/structwalk/structwalk/internal/testutil"
)

func doubly(t *testing.T, values ...string) *state.StateGraph {
	t.Helper()
	vs := make([]state.Value, len(values))
	for i, v := range values {
		vs[i] = state.StringValue(v)
	}
	g, err := state.NewLinkedList(state.VariantDoublyLinked, vs)
	require.NoError(t, err)
	return g
}

func TestListInsertAtMiddle(t *testing.T) {
	// Inserting C at position 1 of [A, B] yields [A, C, B]; the new node
	// and the rewired predecessor are the touched set.
	cur := singly(t, "A", "B")
	c, err := Apply(cur, step(plan.OpInsertAt, testutil.PositionParams(1, "C"), 1))
	require.NoError(t, err)

	assert.Equal(t, EdgeNone, c.EdgeCase)
	assert.Equal(t, []string{"A", "C", "B"}, renderValues(c.State))
	assert.Equal(t, []state.ElemID{"e1", "e3"}, c.Modified)
	assert.Equal(t, 3, c.State.Size)
	assert.Equal(t, state.ElemID("e1"), c.State.Head)
	assert.Equal(t, state.ElemID("e2"), c.State.Tail)
	assert.Equal(t, state.ElemID("e3"), c.State.Elements["e1"].Next)
	assert.Equal(t, state.ElemID("e2"), c.State.Elements["e3"].Next)
}

func TestListInsertAtMiddleDoubly(t *testing.T) {
	// The doubly variant also rewires the successor's prev link, so the
	// successor joins the touched set.
	cur := doubly(t, "A", "B")
	c, err := Apply(cur, step(plan.OpInsertAt, testutil.PositionParams(1, "C"), 1))
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "C", "B"}, renderValues(c.State))
	assert.Equal(t, []state.ElemID{"e1", "e2", "e3"}, c.Modified)
	assert.Equal(t, state.ElemID("e1"), c.State.Elements["e3"].Prev)
	assert.Equal(t, state.ElemID("e3"), c.State.Elements["e2"].Prev)
}

func TestListInsertHead(t *testing.T) {
	cur := doubly(t, "A", "B")
	c, err := Apply(cur, step(plan.OpInsertHead, testutil.ValueParams("Z"), 1))
	require.NoError(t, err)

	assert.Equal(t, []string{"Z", "A", "B"}, renderValues(c.State))
	assert.Equal(t, state.ElemID("e3"), c.State.Head)
	assert.Equal(t, state.ElemID("e3"), c.State.Elements["e1"].Prev)
	assert.Equal(t, []state.ElemID{"e1", "e3"}, c.Modified)
}

func TestListInsertTail(t *testing.T) {
	cur := singly(t, "A", "B")
	c, err := Apply(cur, step(plan.OpInsertTail, testutil.ValueParams("Z"), 1))
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "Z"}, renderValues(c.State))
	assert.Equal(t, state.ElemID("e3"), c.State.Tail)
	assert.Equal(t, []state.ElemID{"e2", "e3"}, c.Modified)
}

func TestListInsertIntoEmpty(t *testing.T) {
	cur := singly(t)
	c, err := Apply(cur, step(plan.OpInsertHead, testutil.ValueParams("A"), 1))
	require.NoError(t, err)

	assert.Equal(t, 1, c.State.Size)
	assert.Equal(t, state.ElemID("e1"), c.State.Head)
	assert.Equal(t, state.ElemID("e1"), c.State.Tail)
	assert.Equal(t, []state.ElemID{"e1"}, c.Modified)
}

func TestListInsertAtOutOfBounds(t *testing.T) {
	cur := singly(t, "A", "B")
	c, err := Apply(cur, step(plan.OpInsertAt, testutil.PositionParams(5, "C"), 1))
	require.NoError(t, err)

	assert.Equal(t, EdgeOutOfBounds, c.EdgeCase)
	assert.Equal(t, []string{"A", "B"}, renderValues(c.State))
	assert.Empty(t, c.Modified)
}

func TestListInsertAtSizeAppends(t *testing.T) {
	// Position == size is in range: it appends at the tail.
	cur := singly(t, "A")
	c, err := Apply(cur, step(plan.OpInsertAt, testutil.PositionParams(1, "B"), 1))
	require.NoError(t, err)
	assert.Equal(t, EdgeNone, c.EdgeCase)
	assert.Equal(t, []string{"A", "B"}, renderValues(c.State))
}

func TestListDeleteAtHead(t *testing.T) {
	cur := doubly(t, "A", "B", "C")
	c, err := Apply(cur, step(plan.OpDeleteAt, testutil.DeleteParams(0), 1))
	require.NoError(t, err)

	assert.Equal(t, []string{"B", "C"}, renderValues(c.State))
	assert.Equal(t, state.ElemID("e2"), c.State.Head)
	assert.Equal(t, state.NilID, c.State.Elements["e2"].Prev)
	assert.NotContains(t, c.State.Elements, state.ElemID("e1"))
	assert.Equal(t, []state.ElemID{"e1", "e2"}, c.Modified)
}

func TestListDeleteAtTail(t *testing.T) {
	cur := singly(t, "A", "B", "C")
	c, err := Apply(cur, step(plan.OpDeleteAt, testutil.DeleteParams(2), 1))
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, renderValues(c.State))
	assert.Equal(t, state.ElemID("e2"), c.State.Tail)
	assert.Equal(t, state.NilID, c.State.Elements["e2"].Next)
}

func TestListDeleteToEmpty(t *testing.T) {
	cur := singly(t, "A")
	c, err := Apply(cur, step(plan.OpDeleteAt, testutil.DeleteParams(0), 1))
	require.NoError(t, err)

	assert.Equal(t, 0, c.State.Size)
	assert.Equal(t, state.NilID, c.State.Head)
	assert.Equal(t, state.NilID, c.State.Tail)
	assert.Empty(t, c.State.Elements)
}

func TestListDeleteAtOutOfBounds(t *testing.T) {
	cur := singly(t, "A")
	c, err := Apply(cur, step(plan.OpDeleteAt, testutil.DeleteParams(1), 1))
	require.NoError(t, err)
	assert.Equal(t, EdgeOutOfBounds, c.EdgeCase)
	assert.Equal(t, 1, c.State.Size)
}

func TestListDeleteByValue(t *testing.T) {
	cur := doubly(t, "A", "B", "C")
	c, err := Apply(cur, step(plan.OpDeleteByValue, testutil.ValueParams("B"), 1))
	require.NoError(t, err)

	assert.Equal(t, EdgeNone, c.EdgeCase)
	assert.Equal(t, []string{"A", "C"}, renderValues(c.State))
	assert.Equal(t, state.ElemID("e3"), c.State.Elements["e1"].Next)
	assert.Equal(t, state.ElemID("e1"), c.State.Elements["e3"].Prev)
}

func TestListDeleteByValueNotFound(t *testing.T) {
	cur := singly(t, "A", "B")
	before := cur.MustHash()

	c, err := Apply(cur, step(plan.OpDeleteByValue, testutil.ValueParams("Z"), 1))
	require.NoError(t, err)

	assert.Equal(t, EdgeNotFound, c.EdgeCase)
	assert.Empty(t, c.Modified)
	assert.Equal(t, 2, c.State.Size)

	// Apart from the step stamp the candidate is the same state.
	c.State.StepIndex = 0
	assert.Equal(t, before, c.State.MustHash())
}

func TestListDeleteByValueFirstMatch(t *testing.T) {
	cur := singly(t, "X", "Y", "X")
	c, err := Apply(cur, step(plan.OpDeleteByValue, testutil.ValueParams("X"), 1))
	require.NoError(t, err)

	assert.Equal(t, []string{"Y", "X"}, renderValues(c.State))
	assert.NotContains(t, c.State.Elements, state.ElemID("e1"))
	assert.Contains(t, c.State.Elements, state.ElemID("e3"))
}
