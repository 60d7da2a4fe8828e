// Package testutil provides deterministic helpers for tests: compact
// plan builders and log suppression. Builders panic on misuse so test
// fixtures fail at construction, not mid-assertion.
package testutil

import (
	"fmt"

	"github.com/structwalk/structwalk/internal/plan"
	"github.com/structwalk/structwalk/internal/state"
)

// Plan builds an execution plan with no steps. Values accept string,
// int, and bool; capacity is ignored for linked variants.
func Plan(name string, variant state.Variant, capacity int, values ...any) *plan.ExecutionPlan {
	initial := plan.InitialConfig{
		Variant:  variant,
		Capacity: capacity,
	}
	for _, raw := range values {
		initial.Values = append(initial.Values, plan.ParamValue{V: mustValue(raw)})
	}
	return &plan.ExecutionPlan{
		Name:    name,
		Initial: initial,
	}
}

// AddStep appends a step, assigning the next zero-based index. With no
// invariants given it declares "no_leak", the invariant every variant
// carries.
func AddStep(p *plan.ExecutionPlan, op plan.OpKind, params plan.Params, invariants ...string) {
	if len(invariants) == 0 {
		invariants = []string{"no_leak"}
	}
	p.Steps = append(p.Steps, plan.Step{
		Index:              len(p.Steps),
		Op:                 op,
		Params:             params,
		DeclaredInvariants: invariants,
	})
}

// AddTaggedStep appends a step carrying an edge-case tag.
func AddTaggedStep(p *plan.ExecutionPlan, op plan.OpKind, params plan.Params, tag string, invariants ...string) {
	AddStep(p, op, params, invariants...)
	p.Steps[len(p.Steps)-1].EdgeCaseTag = tag
}

// ValueParams builds params carrying only a value.
func ValueParams(raw any) plan.Params {
	v := plan.ParamValue{V: mustValue(raw)}
	return plan.Params{Value: &v}
}

// PositionParams builds params carrying a position and a value.
func PositionParams(position int, raw any) plan.Params {
	v := plan.ParamValue{V: mustValue(raw)}
	return plan.Params{Position: &position, Value: &v}
}

// IndexParams builds params carrying only an index.
func IndexParams(index int) plan.Params {
	return plan.Params{Index: &index}
}

// DeleteParams builds params carrying only a position.
func DeleteParams(position int) plan.Params {
	return plan.Params{Position: &position}
}

func mustValue(raw any) state.Value {
	v, err := state.ParseValue(raw)
	if err != nil {
		panic(fmt.Sprintf("testutil: bad fixture value %v: %v", raw, err))
	}
	return v
}
