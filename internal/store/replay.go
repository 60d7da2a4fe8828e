package store

import (
	"context"
	"fmt"

	"github.com/structwalk/structwalk/internal/state"
)

// VerifyResult summarizes an integrity check over one stored session.
type VerifyResult struct {
	Token      string
	Snapshots  int
	Mismatches []HashMismatch
}

// OK reports whether every stored snapshot re-hashed to its recorded
// content hash.
func (r VerifyResult) OK() bool {
	return len(r.Mismatches) == 0
}

// HashMismatch is one snapshot whose stored bytes no longer hash to the
// recorded value.
type HashMismatch struct {
	StepIndex int
	Stored    string
	Computed  string
}

// Verify re-hashes every stored snapshot of a session and compares
// against the recorded hashes. It also checks that step indices are
// contiguous from zero, which a valid trace always is.
func (s *Store) Verify(ctx context.Context, token string) (VerifyResult, error) {
	snaps, err := s.ReadSnapshots(ctx, token)
	if err != nil {
		return VerifyResult{}, err
	}
	if len(snaps) == 0 {
		return VerifyResult{}, fmt.Errorf("session %s has no snapshots: %w", token, ErrNotFound)
	}

	result := VerifyResult{Token: token, Snapshots: len(snaps)}
	for i, snap := range snaps {
		if snap.StepIndex != i {
			return VerifyResult{}, fmt.Errorf("session %s: snapshot gap at index %d (stored %d)", token, i, snap.StepIndex)
		}
		computed := state.HashWithDomain(state.DomainState, []byte(snap.StateJSON))
		if computed != snap.StateHash {
			result.Mismatches = append(result.Mismatches, HashMismatch{
				StepIndex: snap.StepIndex,
				Stored:    snap.StateHash,
				Computed:  computed,
			})
		}
	}
	return result, nil
}
