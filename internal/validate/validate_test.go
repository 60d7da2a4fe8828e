package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structwalk/structwalk/internal/state"
	"github.com/structwalk/structwalk/internal/transform"
)

func candidate(g *state.StateGraph) transform.Candidate {
	return transform.Candidate{State: g}
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

func violated(rep Report) []string {
	return rep.Names()
}

func TestCheckAcceptsWellFormedStates(t *testing.T) {
	builders := map[string]func() *state.StateGraph{
		"singly": func() *state.StateGraph { return singly(t, "A", "B", "C") },
		"doubly": func() *state.StateGraph { return doubly(t, "A", "B") },
		"empty list": func() *state.StateGraph { return singly(t) },
		"array": func() *state.StateGraph {
			g, err := state.NewArray([]state.Value{state.IntValue(1)}, 3)
			require.NoError(t, err)
			return g
		},
		"stack": func() *state.StateGraph {
			g, err := state.NewStack([]state.Value{state.IntValue(1), state.IntValue(2)}, 2)
			require.NoError(t, err)
			return g
		},
		"full queue": func() *state.StateGraph {
			g, err := state.NewQueue([]state.Value{state.IntValue(1), state.IntValue(2)}, 2)
			require.NoError(t, err)
			return g
		},
	}
	for name, build := range builders {
		t.Run(name, func(t *testing.T) {
			rep := Check(candidate(build()))
			assert.True(t, rep.Valid, "violations: %v", rep.Violations)
			assert.Empty(t, rep.Violations)
		})
	}
}

func TestCheckRejectsBoundaryEdgeCases(t *testing.T) {
	tests := []struct {
		edge      transform.EdgeCase
		invariant string
	}{
		{transform.EdgeOutOfBounds, "position_in_bounds"},
		{transform.EdgeOverflow, "capacity"},
		{transform.EdgeUnderflow, "non_empty"},
		{transform.EdgeEmpty, "non_empty"},
	}
	for _, tt := range tests {
		t.Run(string(tt.edge), func(t *testing.T) {
			rep := Check(transform.Candidate{State: singly(t, "A"), EdgeCase: tt.edge})
			assert.False(t, rep.Valid)
			assert.Contains(t, violated(rep), tt.invariant)
			require.NotEmpty(t, rep.Violations)
			assert.Equal(t, KindOutOfBounds, rep.Violations[0].Kind)
		})
	}
}

func TestCheckAcceptsNotFoundAsBenignNoOp(t *testing.T) {
	rep := Check(transform.Candidate{State: singly(t, "A"), EdgeCase: transform.EdgeNotFound})
	assert.True(t, rep.Valid)
}

func TestCheckDetectsCycle(t *testing.T) {
	g := singly(t, "A", "B", "C")
	tail := g.Elements["e3"]
	tail.Next = "e1"
	g.Elements["e3"] = tail

	rep := Check(candidate(g))
	assert.False(t, rep.Valid)

	found := false
	for _, v := range rep.Violations {
		if v.Invariant == "no_cycle" {
			found = true
			assert.Equal(t, KindCycle, v.Kind)
		}
	}
	assert.True(t, found, "expected a no_cycle violation, got %v", rep.Violations)
}

func TestCheckDetectsSelfCycle(t *testing.T) {
	g := singly(t, "A")
	el := g.Elements["e1"]
	el.Next = "e1"
	g.Elements["e1"] = el

	rep := Check(candidate(g))
	assert.False(t, rep.Valid)
	assert.Contains(t, violated(rep), "no_cycle")
}

func TestCheckDetectsLeak(t *testing.T) {
	g := singly(t, "A", "B")
	// An arena entry no traversal reaches.
	orphan := g.AllocID()
	g.Elements[orphan] = state.Element{ID: orphan, Value: state.StringValue("X")}

	rep := Check(candidate(g))
	assert.False(t, rep.Valid)
	assert.Contains(t, violated(rep), "size_consistent")
	assert.Contains(t, violated(rep), "no_leak")

	for _, v := range rep.Violations {
		if v.Invariant == "no_leak" {
			assert.Equal(t, KindLeak, v.Kind)
			assert.Equal(t, []state.ElemID{orphan}, v.Elements)
		}
	}
}

func TestCheckDetectsDanglingPointer(t *testing.T) {
	g := singly(t, "A", "B")
	el := g.Elements["e1"]
	el.Next = "e99"
	g.Elements["e1"] = el

	rep := Check(candidate(g))
	assert.False(t, rep.Valid)
	assert.Contains(t, violated(rep), "pointer_valid")
}

func TestCheckRejectsForeignLinks(t *testing.T) {
	// A stack element carrying a next link is structurally illegal even
	// though the link resolves.
	g, err := state.NewStack([]state.Value{state.IntValue(1), state.IntValue(2)}, 3)
	require.NoError(t, err)
	el := g.Elements["e1"]
	el.Next = "e2"
	g.Elements["e1"] = el

	rep := Check(candidate(g))
	assert.False(t, rep.Valid)
	assert.Contains(t, violated(rep), "pointer_valid")
}

func TestCheckDetectsBrokenDoublySymmetry(t *testing.T) {
	g := doubly(t, "A", "B", "C")
	el := g.Elements["e2"]
	el.Prev = "e3"
	g.Elements["e2"] = el

	rep := Check(candidate(g))
	assert.False(t, rep.Valid)
	assert.Contains(t, violated(rep), "doubly_symmetry")
}

func TestCheckDetectsBoundaryInconsistency(t *testing.T) {
	g := singly(t, "A", "B")
	g.Tail = "e1"

	rep := Check(candidate(g))
	assert.False(t, rep.Valid)
	assert.Contains(t, violated(rep), "boundary_consistent")

	empty := singly(t)
	empty.Head = "e1"
	rep = Check(candidate(empty))
	assert.False(t, rep.Valid)
	assert.Contains(t, violated(rep), "boundary_consistent")
}

func TestCheckDetectsSizeMismatch(t *testing.T) {
	g := singly(t, "A", "B")
	g.Size = 3

	rep := Check(candidate(g))
	assert.False(t, rep.Valid)
	assert.Contains(t, violated(rep), "size_consistent")
}

func TestCheckCollectsAllViolations(t *testing.T) {
	// A candidate with several defects reports all of them, not just the
	// first.
	g := singly(t, "A", "B")
	g.Tail = "e1"
	orphan := g.AllocID()
	g.Elements[orphan] = state.Element{ID: orphan, Value: state.StringValue("X")}

	rep := Check(candidate(g))
	assert.False(t, rep.Valid)
	assert.GreaterOrEqual(t, len(rep.Violations), 2)
}

func TestCheckNilCandidate(t *testing.T) {
	rep := Check(transform.Candidate{})
	assert.False(t, rep.Valid)
}
