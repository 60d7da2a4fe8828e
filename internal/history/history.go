// Package history implements the append-only record of committed
// snapshots for one execution, keyed by step index.
//
// Determinism contract: for a fixed plan, At(n) returns value-identical
// content on every call, and navigating backward then forward to the
// same index reproduces the same snapshot. The log stores each committed
// snapshot's content hash alongside it so the contract is checkable.
package history

import (
	"fmt"

	"github.com/structwalk/structwalk/internal/state"
)

// History is the ordered, append-only sequence of committed snapshots.
// Not safe for concurrent use on its own; the engine serializes access.
type History struct {
	snapshots []*state.StateGraph
	hashes    []string
}

// New creates an empty history.
func New() *History {
	return &History{}
}

// Append commits a snapshot at the next index. The snapshot's StepIndex
// must equal the current length; history never has gaps and never
// rewrites a committed entry.
//
// The snapshot is cloned on the way in, so later caller mutations cannot
// reach committed state.
func (h *History) Append(g *state.StateGraph) error {
	if g.StepIndex != len(h.snapshots) {
		return fmt.Errorf("history: snapshot has step index %d, want %d", g.StepIndex, len(h.snapshots))
	}
	hash, err := g.Hash()
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}
	h.snapshots = append(h.snapshots, g.Clone())
	h.hashes = append(h.hashes, hash)
	return nil
}

// Len returns the number of committed snapshots.
func (h *History) Len() int {
	return len(h.snapshots)
}

// At returns the committed snapshot at the given index. O(1) lookup; the
// returned snapshot is a clone, so callers can never mutate history.
func (h *History) At(index int) (*state.StateGraph, error) {
	if index < 0 || index >= len(h.snapshots) {
		return nil, fmt.Errorf("history: index %d outside committed range [0, %d)", index, len(h.snapshots))
	}
	return h.snapshots[index].Clone(), nil
}

// Latest returns the most recently committed snapshot as a clone.
func (h *History) Latest() (*state.StateGraph, error) {
	return h.At(len(h.snapshots) - 1)
}

// HashAt returns the content hash recorded for the given index.
func (h *History) HashAt(index int) (string, error) {
	if index < 0 || index >= len(h.hashes) {
		return "", fmt.Errorf("history: index %d outside committed range [0, %d)", index, len(h.hashes))
	}
	return h.hashes[index], nil
}

// Truncate discards everything after the genesis snapshot (index 0).
// Truncating an empty history is a no-op.
func (h *History) Truncate() {
	if len(h.snapshots) > 1 {
		h.snapshots = h.snapshots[:1]
		h.hashes = h.hashes[:1]
	}
}
