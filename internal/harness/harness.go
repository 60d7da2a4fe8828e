// Package harness provides a conformance framework for the structwalk
// engine. Scenarios are YAML files pairing an execution plan with the
// expected outcome of every step; the harness runs the plan through a
// real engine backed by a fresh in-memory trace store and compares the
// observed outcomes, optionally against a golden trace file.
package harness

import (
	"context"
	"fmt"
	"slices"

	"github.com/structwalk/structwalk/internal/engine"
	"github.com/structwalk/structwalk/internal/plan"
	"github.com/structwalk/structwalk/internal/state"
	"github.com/structwalk/structwalk/internal/store"
)

// DefaultSessionToken is used when a scenario does not pin one.
const DefaultSessionToken = "test-session-default"

// Run executes a scenario end to end and returns the result.
//
// Each scenario runs against a fresh in-memory store and a fixed
// session token, so repeated runs produce byte-identical traces.
func Run(scenario *Scenario) (*Result, error) {
	p, err := plan.Load(scenario.Plan)
	if err != nil {
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	token := scenario.SessionToken
	if token == "" {
		token = DefaultSessionToken
	}
	eng := engine.New(engine.NewFixedGenerator(token), engine.WithRecorder(st))

	ctx := context.Background()
	if _, err := eng.Initialize(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to initialize engine: %w", err)
	}

	result := NewResult()
	expects := expectByStep(scenario.Expect)

	for i := range p.Steps {
		res, err := eng.ApplyStep(ctx, i)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}

		event := eventFromResult(p.Steps[i], res)
		if !res.Success {
			// Rejected steps leave the committed state in place; render
			// it so the trace shows what the learner still sees.
			cur, err := eng.CurrentState()
			if err != nil {
				return nil, fmt.Errorf("step %d: read current state: %w", i, err)
			}
			event.Size = cur.Size
			event.Values = renderValues(cur)
		}
		result.Trace = append(result.Trace, event)

		if e, ok := expects[i]; ok {
			checkExpect(result, e, event)
		}
	}

	return result, nil
}

func expectByStep(expects []StepExpect) map[int]StepExpect {
	m := make(map[int]StepExpect, len(expects))
	for _, e := range expects {
		m[e.Step] = e
	}
	return m
}

func eventFromResult(step plan.Step, res engine.StateTransitionResult) TraceEvent {
	event := TraceEvent{
		StepIndex: res.StepIndex,
		Op:        string(step.Op),
		Success:   res.Success,
		EdgeCase:  string(res.EdgeCase),
	}
	for _, v := range res.Violations {
		event.Violated = append(event.Violated, v.Invariant)
	}
	if res.Success {
		for _, id := range res.ModifiedElementIDs {
			event.Modified = append(event.Modified, string(id))
		}
		event.Size = res.NewState.Size
		event.Values = renderValues(res.NewState)
	}
	return event
}

func renderValues(g *state.StateGraph) []string {
	values := g.ValuesInOrder()
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = state.String(v)
	}
	return out
}

// checkExpect compares one observed event against its expect clause.
// Size and values are only compared when the clause pins them.
func checkExpect(result *Result, e StepExpect, ev TraceEvent) {
	if e.Success != ev.Success {
		result.AddError(fmt.Sprintf("step %d: expected success=%t, got %t", e.Step, e.Success, ev.Success))
	}
	if e.EdgeCase != "" && e.EdgeCase != ev.EdgeCase {
		result.AddError(fmt.Sprintf("step %d: expected edge case %q, got %q", e.Step, e.EdgeCase, ev.EdgeCase))
	}
	for _, name := range e.Violated {
		if !slices.Contains(ev.Violated, name) {
			result.AddError(fmt.Sprintf("step %d: expected violation of %q, got %v", e.Step, name, ev.Violated))
		}
	}
	if e.Size != nil && *e.Size != ev.Size {
		result.AddError(fmt.Sprintf("step %d: expected size %d, got %d", e.Step, *e.Size, ev.Size))
	}
	if e.Values != nil && !slices.Equal(e.Values, ev.Values) {
		result.AddError(fmt.Sprintf("step %d: expected values %v, got %v", e.Step, e.Values, ev.Values))
	}
}
