package plan

import (
	"fmt"

	"github.com/structwalk/structwalk/internal/state"
)

// Validate checks plan-level well-formedness beyond the CUE schema:
// contiguous zero-based step numbering, known operation kinds, operation
// compatibility with the declared variant, at least one declared
// invariant per step, and presence of operation-specific parameters.
//
// Out-of-range positions are deliberately NOT checked here - they depend
// on runtime size and surface as OUT_OF_BOUNDS edge cases at transform
// time.
func Validate(p *ExecutionPlan) error {
	if p.Name == "" {
		return fmt.Errorf("plan name is required")
	}
	if !state.ValidVariants[p.Initial.Variant] {
		return fmt.Errorf("unknown variant %q", p.Initial.Variant)
	}
	if p.Initial.Variant.Indexed() && p.Initial.Capacity < 1 {
		return fmt.Errorf("variant %s requires capacity >= 1", p.Initial.Variant)
	}

	allowed := opsByVariant[p.Initial.Variant]
	for i, s := range p.Steps {
		if s.Index != i {
			return fmt.Errorf("steps must be contiguously numbered from 0: steps[%d] has index %d", i, s.Index)
		}
		if !ValidOps[s.Op] {
			return fmt.Errorf("steps[%d]: unknown operation kind %q", i, s.Op)
		}
		if !allowed[s.Op] {
			return fmt.Errorf("steps[%d]: operation %s is not supported on variant %s", i, s.Op, p.Initial.Variant)
		}
		if len(s.DeclaredInvariants) == 0 {
			return fmt.Errorf("steps[%d]: at least one declared invariant is required", i)
		}
		if err := validateParams(s); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
	}
	return nil
}

// validateParams checks that a step carries the parameters its operation
// kind requires.
func validateParams(s Step) error {
	needsValue := map[OpKind]bool{
		OpInsertHead: true, OpInsertTail: true, OpInsertAt: true,
		OpDeleteByValue: true, OpPush: true, OpEnqueue: true,
	}
	needsPosition := map[OpKind]bool{OpInsertAt: true, OpDeleteAt: true}

	if needsValue[s.Op] && (s.Params.Value == nil || s.Params.Value.V == nil) {
		return fmt.Errorf("%s requires params.value", s.Op)
	}
	if needsPosition[s.Op] && s.Params.Position == nil {
		return fmt.Errorf("%s requires params.position", s.Op)
	}
	if s.Op == OpAccess && s.Params.Index == nil {
		return fmt.Errorf("%s requires params.index", s.Op)
	}
	return nil
}
