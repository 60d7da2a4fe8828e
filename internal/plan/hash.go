package plan

import (
	"fmt"

	"github.com/structwalk/structwalk/internal/state"
)

// Hash computes the content address of a plan. The store records it per
// session so a replay can prove it re-executed the same plan.
func Hash(p *ExecutionPlan) (string, error) {
	canonical, err := state.MarshalCanonical(canonicalMap(p))
	if err != nil {
		return "", fmt.Errorf("plan hash: %w", err)
	}
	return state.HashWithDomain(state.DomainPlan, canonical), nil
}

func canonicalMap(p *ExecutionPlan) map[string]any {
	values := make([]any, len(p.Initial.Values))
	for i, v := range p.Initial.Values {
		values[i] = v.V
	}

	steps := make([]any, len(p.Steps))
	for i, s := range p.Steps {
		m := map[string]any{
			"index": s.Index,
			"op":    string(s.Op),
		}
		params := map[string]any{}
		if s.Params.Position != nil {
			params["position"] = *s.Params.Position
		}
		if s.Params.Index != nil {
			params["index"] = *s.Params.Index
		}
		if s.Params.Value != nil {
			params["value"] = s.Params.Value.V
		}
		m["params"] = params

		invariants := make([]any, len(s.DeclaredInvariants))
		for j, inv := range s.DeclaredInvariants {
			invariants[j] = inv
		}
		m["invariants"] = invariants

		if s.EdgeCaseTag != "" {
			m["edge_case"] = s.EdgeCaseTag
		}
		steps[i] = m
	}

	return map[string]any{
		"name":        p.Name,
		"description": p.Description,
		"initial": map[string]any{
			"variant":  string(p.Initial.Variant),
			"values":   values,
			"capacity": p.Initial.Capacity,
		},
		"steps": steps,
	}
}
