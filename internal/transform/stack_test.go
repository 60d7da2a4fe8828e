package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structwalk/structwalk/internal/plan"
	"github.com/structwalk/structwalk/internal/state"
	"github.com/structwalk/structwalk/internal/testutil"
)

func stack(t *testing.T, capacity int, values ...int64) *state.StateGraph {
	t.Helper()
	vs := make([]state.Value, len(values))
	for i, v := range values {
		vs[i] = state.IntValue(v)
	}
	g, err := state.NewStack(vs, capacity)
	require.NoError(t, err)
	return g
}

func TestStackPush(t *testing.T) {
	cur := stack(t, 3, 1)
	c, err := Apply(cur, step(plan.OpPush, testutil.ValueParams(2), 1))
	require.NoError(t, err)

	assert.Equal(t, EdgeNone, c.EdgeCase)
	assert.Equal(t, 1, c.State.Top)
	assert.Equal(t, 2, c.State.Size)
	assert.Equal(t, []state.ElemID{"e2"}, c.Modified)
	assert.Equal(t, []string{"1", "2"}, renderValues(c.State))
}

func TestStackPushOverflow(t *testing.T) {
	// PUSH at capacity must not commit a state that exceeds the stack's
	// capacity; the transform reports OVERFLOW on an unchanged state.
	cur := stack(t, 2, 1, 2)
	c, err := Apply(cur, step(plan.OpPush, testutil.ValueParams(3), 1))
	require.NoError(t, err)

	assert.Equal(t, EdgeOverflow, c.EdgeCase)
	assert.Equal(t, 2, c.State.Size)
	assert.Equal(t, 1, c.State.Top)
	assert.Empty(t, c.Modified)
}

func TestStackPop(t *testing.T) {
	cur := stack(t, 3, 1, 2)
	c, err := Apply(cur, step(plan.OpPop, plan.Params{}, 1))
	require.NoError(t, err)

	assert.Equal(t, 0, c.State.Top)
	assert.Equal(t, 1, c.State.Size)
	assert.Equal(t, state.NilID, c.State.Slots[1])
	assert.Equal(t, []state.ElemID{"e2"}, c.Modified)
}

func TestStackPopUnderflow(t *testing.T) {
	cur := stack(t, 2)
	c, err := Apply(cur, step(plan.OpPop, plan.Params{}, 1))
	require.NoError(t, err)

	assert.Equal(t, EdgeUnderflow, c.EdgeCase)
	assert.Equal(t, 0, c.State.Size)
	assert.Equal(t, -1, c.State.Top)
}

func TestStackPeek(t *testing.T) {
	cur := stack(t, 3, 1, 2)
	c, err := Apply(cur, step(plan.OpPeek, plan.Params{}, 1))
	require.NoError(t, err)

	assert.Equal(t, EdgeNone, c.EdgeCase)
	assert.Equal(t, []state.ElemID{"e2"}, c.Modified)
	assert.Equal(t, 2, c.State.Size)
}

func TestStackPeekEmpty(t *testing.T) {
	cur := stack(t, 2)
	c, err := Apply(cur, step(plan.OpPeek, plan.Params{}, 1))
	require.NoError(t, err)
	assert.Equal(t, EdgeEmpty, c.EdgeCase)
}
