package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a requested session or snapshot does not
// exist in the store.
var ErrNotFound = errors.New("not found")

// Session is one recorded engine initialization.
type Session struct {
	Token     string
	PlanName  string
	PlanHash  string
	Variant   string
	CreatedAt string
}

// Snapshot is one committed state as stored: canonical JSON plus its
// content hash.
type Snapshot struct {
	SessionToken string
	StepIndex    int
	StateJSON    string
	StateHash    string
}

// Transition is one recorded ApplyStep outcome.
type Transition struct {
	SessionToken string
	StepIndex    int
	Op           string
	Success      bool
	EdgeCase     string
	StateHash    string
	Violations   []string
}

// ReadSession returns the session row for a token.
func (s *Store) ReadSession(ctx context.Context, token string) (Session, error) {
	var sess Session
	err := s.db.QueryRowContext(ctx, `
		SELECT token, plan_name, plan_hash, variant, created_at
		FROM sessions WHERE token = ?`, token).
		Scan(&sess.Token, &sess.PlanName, &sess.PlanHash, &sess.Variant, &sess.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, fmt.Errorf("session %s: %w", token, ErrNotFound)
	}
	if err != nil {
		return Session{}, fmt.Errorf("read session %s: %w", token, err)
	}
	return sess, nil
}

// ListSessions returns all sessions, oldest first. UUIDv7 tokens sort by
// creation time, so token order and time order agree.
func (s *Store) ListSessions(ctx context.Context) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT token, plan_name, plan_hash, variant, created_at
		FROM sessions ORDER BY token`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.Token, &sess.PlanName, &sess.PlanHash, &sess.Variant, &sess.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// ReadSnapshot returns the snapshot at one step index.
func (s *Store) ReadSnapshot(ctx context.Context, token string, stepIndex int) (Snapshot, error) {
	var snap Snapshot
	err := s.db.QueryRowContext(ctx, `
		SELECT session_token, step_index, state_json, state_hash
		FROM snapshots WHERE session_token = ? AND step_index = ?`,
		token, stepIndex).
		Scan(&snap.SessionToken, &snap.StepIndex, &snap.StateJSON, &snap.StateHash)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, fmt.Errorf("snapshot %s/%d: %w", token, stepIndex, ErrNotFound)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("read snapshot %s/%d: %w", token, stepIndex, err)
	}
	return snap, nil
}

// ReadSnapshots returns a session's snapshots in step order.
func (s *Store) ReadSnapshots(ctx context.Context, token string) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_token, step_index, state_json, state_hash
		FROM snapshots WHERE session_token = ? ORDER BY step_index`, token)
	if err != nil {
		return nil, fmt.Errorf("read snapshots %s: %w", token, err)
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		var snap Snapshot
		if err := rows.Scan(&snap.SessionToken, &snap.StepIndex, &snap.StateJSON, &snap.StateHash); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

// ReadTransitions returns a session's transitions in recording order.
func (s *Store) ReadTransitions(ctx context.Context, token string) ([]Transition, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_token, step_index, op, success, edge_case, state_hash, violations
		FROM transitions WHERE session_token = ? ORDER BY id`, token)
	if err != nil {
		return nil, fmt.Errorf("read transitions %s: %w", token, err)
	}
	defer rows.Close()

	var trans []Transition
	for rows.Next() {
		var (
			t          Transition
			success    int
			violations string
		)
		if err := rows.Scan(&t.SessionToken, &t.StepIndex, &t.Op, &success, &t.EdgeCase, &t.StateHash, &violations); err != nil {
			return nil, fmt.Errorf("scan transition: %w", err)
		}
		t.Success = success != 0
		if err := json.Unmarshal([]byte(violations), &t.Violations); err != nil {
			return nil, fmt.Errorf("decode violations: %w", err)
		}
		trans = append(trans, t)
	}
	return trans, rows.Err()
}
