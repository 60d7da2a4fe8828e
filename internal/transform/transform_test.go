package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structwalk/structwalk/internal/plan"
	"github.com/structwalk/structwalk/internal/state"
	"github.com/structwalk/structwalk/internal/testutil"
)

// step builds a plan step stamped with the history index the candidate
// will occupy.
func step(op plan.OpKind, params plan.Params, index int) plan.Step {
	return plan.Step{
		Index:              index,
		Op:                 op,
		Params:             params,
		DeclaredInvariants: []string{"no_leak"},
	}
}

func singly(t *testing.T, values ...string) *state.StateGraph {
	t.Helper()
	vs := make([]state.Value, len(values))
	for i, v := range values {
		vs[i] = state.StringValue(v)
	}
	g, err := state.NewLinkedList(state.VariantSinglyLinked, vs)
	require.NoError(t, err)
	return g
}

func renderValues(g *state.StateGraph) []string {
	var out []string
	for _, v := range g.ValuesInOrder() {
		out = append(out, state.String(v))
	}
	return out
}

func TestApplyNeverMutatesInput(t *testing.T) {
	cur := singly(t, "A", "B")
	before := cur.MustHash()

	_, err := Apply(cur, step(plan.OpInsertAt, testutil.PositionParams(1, "C"), 1))
	require.NoError(t, err)
	assert.Equal(t, before, cur.MustHash())
}

func TestApplyStampsStepIndex(t *testing.T) {
	cur := singly(t, "A")
	c, err := Apply(cur, step(plan.OpTraverse, plan.Params{}, 7))
	require.NoError(t, err)
	assert.Equal(t, 7, c.State.StepIndex)
	assert.Equal(t, 0, cur.StepIndex)
}

func TestApplyRejectsUndefinedVariantOpPair(t *testing.T) {
	cur := singly(t, "A")
	_, err := Apply(cur, step(plan.OpPush, testutil.ValueParams("B"), 1))
	require.Error(t, err)
}

func TestTraverseTouchesEveryElement(t *testing.T) {
	cur := singly(t, "A", "B", "C")
	c, err := Apply(cur, step(plan.OpTraverse, plan.Params{}, 1))
	require.NoError(t, err)

	assert.Equal(t, EdgeNone, c.EdgeCase)
	assert.Equal(t, []state.ElemID{"e1", "e2", "e3"}, c.Modified)
	assert.Equal(t, []string{"A", "B", "C"}, renderValues(c.State))
	assert.Equal(t, 3, c.State.Size)
}

func TestAccess(t *testing.T) {
	cur := singly(t, "A", "B", "C")

	c, err := Apply(cur, step(plan.OpAccess, testutil.IndexParams(1), 1))
	require.NoError(t, err)
	assert.Equal(t, EdgeNone, c.EdgeCase)
	assert.Equal(t, []state.ElemID{"e2"}, c.Modified)

	c, err = Apply(cur, step(plan.OpAccess, testutil.IndexParams(3), 1))
	require.NoError(t, err)
	assert.Equal(t, EdgeOutOfBounds, c.EdgeCase)
	assert.Empty(t, c.Modified)

	c, err = Apply(cur, step(plan.OpAccess, testutil.IndexParams(-1), 1))
	require.NoError(t, err)
	assert.Equal(t, EdgeOutOfBounds, c.EdgeCase)
}

func TestAccessRequiresIndex(t *testing.T) {
	cur := singly(t, "A")
	_, err := Apply(cur, step(plan.OpAccess, plan.Params{}, 1))
	require.Error(t, err)
}

func TestMissingValueParam(t *testing.T) {
	cur := singly(t, "A")
	_, err := Apply(cur, step(plan.OpInsertHead, plan.Params{}, 1))
	require.Error(t, err)
}
