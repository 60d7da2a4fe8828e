package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/structwalk/structwalk/internal/engine"
)

// RecordSession persists the session row for an initialized engine.
// Idempotent: re-recording the same token is a no-op.
func (s *Store) RecordSession(ctx context.Context, token, planName, planHash, variant string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (token, plan_name, plan_hash, variant)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(token) DO NOTHING`,
		token, planName, planHash, variant)
	if err != nil {
		return fmt.Errorf("record session %s: %w", token, err)
	}
	return nil
}

// RecordSnapshot persists one committed snapshot. Snapshots are
// content-addressed; replaying a session writes byte-identical rows, so
// conflicts on (session, step) are ignored rather than updated.
func (s *Store) RecordSnapshot(ctx context.Context, token string, stepIndex int, canonicalJSON []byte, hash string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO snapshots (session_token, step_index, state_json, state_hash)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(session_token, step_index) DO NOTHING`,
		token, stepIndex, string(canonicalJSON), hash)
	if err != nil {
		return fmt.Errorf("record snapshot %s/%d: %w", token, stepIndex, err)
	}
	return nil
}

// RecordTransition appends one ApplyStep outcome. Transitions are an
// event log, not content-addressed: rejected retries of the same step
// index each get their own row.
func (s *Store) RecordTransition(ctx context.Context, token string, rec engine.TransitionRecord) error {
	violations, err := json.Marshal(rec.Violations)
	if err != nil {
		return fmt.Errorf("marshal violations: %w", err)
	}
	if rec.Violations == nil {
		violations = []byte("[]")
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO transitions (session_token, step_index, op, success, edge_case, state_hash, violations)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		token, rec.StepIndex, rec.Op, boolToInt(rec.Success), rec.EdgeCase, rec.StateHash, string(violations))
	if err != nil {
		return fmt.Errorf("record transition %s/%d: %w", token, rec.StepIndex, err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
