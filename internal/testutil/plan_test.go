package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structwalk/structwalk/internal/plan"
	"github.com/structwalk/structwalk/internal/state"
)

func TestPlanBuilderProducesValidPlans(t *testing.T) {
	p := Plan("builder", state.VariantSinglyLinked, 0, "A", 1, true)
	AddStep(p, plan.OpInsertAt, PositionParams(1, "B"), "no_cycle")
	AddStep(p, plan.OpDeleteAt, DeleteParams(0))
	AddStep(p, plan.OpAccess, IndexParams(2))

	require.NoError(t, plan.Validate(p))

	assert.Equal(t, []state.Value{
		state.StringValue("A"), state.IntValue(1), state.BoolValue(true),
	}, p.Initial.InitialValues())

	// Indices are assigned in append order.
	for i, s := range p.Steps {
		assert.Equal(t, i, s.Index)
	}

	// Defaulted invariants.
	assert.Equal(t, []string{"no_cycle"}, p.Steps[0].DeclaredInvariants)
	assert.Equal(t, []string{"no_leak"}, p.Steps[1].DeclaredInvariants)
}

func TestAddTaggedStep(t *testing.T) {
	p := Plan("tagged", state.VariantStack, 1, 1)
	AddTaggedStep(p, plan.OpPush, ValueParams(2), "OVERFLOW", "capacity")

	require.Len(t, p.Steps, 1)
	assert.Equal(t, "OVERFLOW", p.Steps[0].EdgeCaseTag)
	assert.Equal(t, []string{"capacity"}, p.Steps[0].DeclaredInvariants)
}

func TestBuildersPanicOnBadValues(t *testing.T) {
	assert.Panics(t, func() { ValueParams(1.5) })
	assert.Panics(t, func() { Plan("bad", state.VariantStack, 1, nil) })
}
