package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/structwalk/structwalk/internal/state"
)

// TraceSnapshot is the golden-file shape for a scenario run: the full
// per-step trace, canonically serialized for byte-identical comparison.
type TraceSnapshot struct {
	ScenarioName string
	SessionToken string
	Trace        []TraceEvent
}

// toCanonicalMap converts the snapshot for state.MarshalCanonical,
// which only handles primitives, slices, and string-keyed maps.
func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	traceList := make([]any, len(s.Trace))
	for i, event := range s.Trace {
		eventMap := map[string]any{
			"step_index": event.StepIndex,
			"op":         event.Op,
			"success":    event.Success,
			"size":       event.Size,
			"values":     toAnySlice(event.Values),
		}
		if event.EdgeCase != "" {
			eventMap["edge_case"] = event.EdgeCase
		}
		if len(event.Modified) > 0 {
			eventMap["modified"] = toAnySlice(event.Modified)
		}
		if len(event.Violated) > 0 {
			eventMap["violated"] = toAnySlice(event.Violated)
		}
		traceList[i] = eventMap
	}

	return map[string]any{
		"scenario_name": s.ScenarioName,
		"session_token": s.SessionToken,
		"trace":         traceList,
	}
}

func toAnySlice(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// RunWithGolden executes a scenario and compares its trace against the
// golden file at testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files after an intentional behavior change:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	token := scenario.SessionToken
	if token == "" {
		token = DefaultSessionToken
	}
	snapshot := TraceSnapshot{
		ScenarioName: scenario.Name,
		SessionToken: token,
		Trace:        result.Trace,
	}

	traceJSON, err := state.MarshalCanonical(snapshot.toCanonicalMap())
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, traceJSON)

	return result, nil
}
