package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structwalk/structwalk/internal/testutil"
)

func loadTestScenario(t *testing.T, name string) *Scenario {
	t.Helper()
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", name+".yaml"))
	require.NoError(t, err)
	return s
}

func TestRunScenarios(t *testing.T) {
	testutil.Quiet(t)
	for _, name := range []string{"list-walkthrough", "stack-overflow", "queue-wrap"} {
		t.Run(name, func(t *testing.T) {
			result, err := Run(loadTestScenario(t, name))
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
			assert.Empty(t, result.Errors)
		})
	}
}

func TestRunReportsExpectMismatches(t *testing.T) {
	testutil.Quiet(t)
	size := 9
	s := &Scenario{
		Name:        "mismatch",
		Description: "deliberately wrong expectations",
		Plan:        filepath.Join("testdata", "plans", "stack-overflow.yaml"),
		Expect: []StepExpect{
			// The push actually overflows.
			{Step: 0, Success: true, Size: &size},
			// The pop actually commits.
			{Step: 1, Success: false, Violated: []string{"non_empty"}},
		},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	// One per mismatched clause: success and size on step 0, success and
	// violated on step 1.
	assert.Len(t, result.Errors, 4)
	// The trace still records what actually happened.
	require.Len(t, result.Trace, 2)
	assert.False(t, result.Trace[0].Success)
	assert.True(t, result.Trace[1].Success)
}

func TestRunFailsOnBrokenPlan(t *testing.T) {
	s := &Scenario{
		Name:        "broken",
		Description: "plan does not load",
		Plan:        filepath.Join("testdata", "plans", "absent.yaml"),
		Expect:      []StepExpect{{Step: 0, Success: true}},
	}
	_, err := Run(s)
	assert.Error(t, err)
}

func TestGoldenTraces(t *testing.T) {
	testutil.Quiet(t)
	for _, name := range []string{"list-walkthrough", "stack-overflow", "queue-wrap"} {
		t.Run(name, func(t *testing.T) {
			result, err := RunWithGolden(t, loadTestScenario(t, name))
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}
