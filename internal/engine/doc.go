// Package engine implements the structwalk execution engine.
//
// The engine is the deterministic core of the platform: it consumes an
// ExecutionPlan and applies its steps one at a time, guaranteeing that
// every state a learner can see is structurally valid and that
// navigation through history is byte-identical per step index.
//
// ARCHITECTURE:
//
// Apply-Validate-Commit:
//  1. ApplyStep looks up the planned step and runs its pure transform
//     against the current committed state, producing a candidate.
//  2. The invariant validator checks the candidate (variant table plus
//     pointer/cycle/leak checks).
//  3. On success the candidate is committed to the append-only history;
//     on failure the candidate is discarded and the committed state is
//     untouched. A step either fully commits or has no observable
//     effect.
//
// Single-writer discipline:
// One engine instance serves exactly one learner execution. Mutations
// (Initialize, ApplyStep, Reset) are serialized behind a write lock;
// read-only access (CurrentState, GoToStep) takes a read lock and can
// proceed concurrently with itself but never observes a partially
// committed step. No step performs blocking I/O on the apply path; the
// optional trace recorder is best-effort and failures are logged, never
// escalated.
//
// Fail-fast rejection:
// Validation failures are communicated through StateTransitionResult,
// not errors - callers must handle the rejection path explicitly. A
// rejected step is consumed without committing anything, and the plan
// advances to the next step, so walkthroughs that deliberately exercise
// edge cases run to completion.
package engine
