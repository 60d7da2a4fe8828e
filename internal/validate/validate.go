// Package validate implements the invariant validator: a pure predicate
// set that decides whether a candidate state is structurally legal.
//
// Check runs the variant-specific invariant table plus three
// cross-cutting checks (pointer validity, bounded cycle detection, leak
// detection) and reports every violation it finds. It never mutates the
// candidate; rejection is a pure decision communicated through the
// Report, not a thrown error.
package validate

import (
	"fmt"

	"github.com/structwalk/structwalk/internal/state"
	"github.com/structwalk/structwalk/internal/transform"
)

// Kind categorizes a structural violation.
type Kind string

// Violation kinds.
const (
	KindOutOfBounds Kind = "OUT_OF_BOUNDS"
	KindCycle       Kind = "CYCLE"
	KindLeak        Kind = "LEAK"
	KindPointer     Kind = "POINTER"
)

// Violation is one failed invariant with enough context for external
// logging: the invariant name, its kind, a reason, and the offending
// element identifiers.
type Violation struct {
	Invariant string         `json:"invariant"`
	Kind      Kind           `json:"kind"`
	Reason    string         `json:"reason"`
	Elements  []state.ElemID `json:"elements,omitempty"`
}

func (v Violation) String() string {
	if len(v.Elements) > 0 {
		return fmt.Sprintf("%s (%s): %s %v", v.Invariant, v.Kind, v.Reason, v.Elements)
	}
	return fmt.Sprintf("%s (%s): %s", v.Invariant, v.Kind, v.Reason)
}

// Report is the validator's decision for one candidate.
type Report struct {
	Valid      bool
	Violations []Violation
}

func (r *Report) add(v Violation) {
	r.Valid = false
	r.Violations = append(r.Violations, v)
}

// Names returns the violated invariant names in report order.
func (r *Report) Names() []string {
	out := make([]string, len(r.Violations))
	for i, v := range r.Violations {
		out[i] = v.Invariant
	}
	return out
}

// Check decides whether a candidate may be committed. All checks run and
// all violations are collected, so a rejection names everything wrong
// with the candidate, not just the first failure.
//
// Edge-case tags from the transform layer are resolved here: boundary
// tags (OUT_OF_BOUNDS, OVERFLOW, UNDERFLOW, EMPTY) reject the candidate,
// while NOT_FOUND is a benign no-op that commits unchanged.
func Check(c transform.Candidate) Report {
	rep := Report{Valid: true}
	g := c.State
	if g == nil {
		rep.add(Violation{Invariant: "candidate_present", Kind: KindPointer, Reason: "candidate has no state"})
		return rep
	}

	checkEdgeCase(&rep, c.EdgeCase)
	checkPointers(&rep, g)
	checkSize(&rep, g)

	switch g.Variant {
	case state.VariantArray:
		checkArray(&rep, g)
	case state.VariantStack:
		checkStack(&rep, g)
	case state.VariantQueue:
		checkQueue(&rep, g)
	case state.VariantSinglyLinked, state.VariantDoublyLinked:
		checkList(&rep, g)
	default:
		rep.add(Violation{Invariant: "known_variant", Kind: KindPointer,
			Reason: fmt.Sprintf("unknown variant %q", g.Variant)})
		return rep
	}

	checkLeaks(&rep, g)
	return rep
}

// checkEdgeCase rejects candidates whose transform hit a precondition
// boundary. The candidate state itself is unchanged and structurally
// sound; the rejection is about the operation, so the engine's committed
// state stays put.
func checkEdgeCase(rep *Report, edge transform.EdgeCase) {
	switch edge {
	case transform.EdgeOutOfBounds:
		rep.add(Violation{Invariant: "position_in_bounds", Kind: KindOutOfBounds,
			Reason: "operation position is outside the current size"})
	case transform.EdgeOverflow:
		rep.add(Violation{Invariant: "capacity", Kind: KindOutOfBounds,
			Reason: "structure is at capacity"})
	case transform.EdgeUnderflow:
		rep.add(Violation{Invariant: "non_empty", Kind: KindOutOfBounds,
			Reason: "structure is empty"})
	case transform.EdgeEmpty:
		rep.add(Violation{Invariant: "non_empty", Kind: KindOutOfBounds,
			Reason: "structure is empty"})
	}
}

// checkSize verifies the arena holds exactly the elements the structure
// claims to contain.
func checkSize(rep *Report, g *state.StateGraph) {
	if g.Size < 0 {
		rep.add(Violation{Invariant: "size_consistent", Kind: KindOutOfBounds,
			Reason: fmt.Sprintf("negative size %d", g.Size)})
		return
	}
	if len(g.Elements) != g.Size {
		rep.add(Violation{Invariant: "size_consistent", Kind: KindLeak,
			Reason: fmt.Sprintf("size is %d but arena holds %d elements", g.Size, len(g.Elements))})
	}
}
