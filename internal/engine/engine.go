package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/structwalk/structwalk/internal/history"
	"github.com/structwalk/structwalk/internal/plan"
	"github.com/structwalk/structwalk/internal/state"
	"github.com/structwalk/structwalk/internal/transform"
	"github.com/structwalk/structwalk/internal/validate"
)

// TransitionRecord is what the engine hands the trace recorder per
// ApplyStep call, successful or rejected.
type TransitionRecord struct {
	StepIndex  int
	Op         string
	Success    bool
	EdgeCase   string
	StateHash  string // hash of the committed state; empty on rejection
	Violations []string
}

// TraceRecorder persists committed snapshots and transition outcomes for
// downstream consumers. Implemented by store.Store. Recording is
// best-effort: failures are logged and never affect the apply path.
type TraceRecorder interface {
	RecordSession(ctx context.Context, token, planName, planHash, variant string) error
	RecordSnapshot(ctx context.Context, token string, stepIndex int, canonicalJSON []byte, hash string) error
	RecordTransition(ctx context.Context, token string, rec TransitionRecord) error
}

// StateTransitionResult is the discriminated outcome of one ApplyStep
// call. Success carries the committed snapshot; failure carries the
// violations and leaves the committed state untouched.
type StateTransitionResult struct {
	Success             bool
	StepIndex           int
	NewState            *state.StateGraph
	ModifiedElementIDs  []state.ElemID
	EdgeCase            transform.EdgeCase
	InvariantsPreserved bool
	Violations          []validate.Violation
}

// Engine applies one plan's steps against one isolated structure
// instance. All session state lives in the instance; there is no
// process-wide mutable state, so sessions coexist safely.
type Engine struct {
	mu sync.RWMutex

	plan    *plan.ExecutionPlan
	hist    *history.History
	next    int // plan index of the next step to apply
	session string

	gen      SessionTokenGenerator
	recorder TraceRecorder
}

// Option configures an Engine.
type Option func(*Engine)

// WithRecorder attaches a trace recorder (typically a store.Store).
func WithRecorder(r TraceRecorder) Option {
	return func(e *Engine) {
		e.recorder = r
	}
}

// New creates an Engine. The token generator names the session for trace
// recording; pass a FixedGenerator in tests for deterministic traces.
func New(gen SessionTokenGenerator, opts ...Option) *Engine {
	e := &Engine{gen: gen}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Session returns the session token. Empty before Initialize.
func (e *Engine) Session() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.session
}

// Initialize validates the plan, builds the genesis snapshot from its
// declared initial configuration, and commits it as history index 0.
//
// A malformed plan fails with a SCHEMA error and a malformed initial
// configuration with a CONFIGURATION error; in both cases the engine
// stays uninitialized.
func (e *Engine) Initialize(ctx context.Context, p *plan.ExecutionPlan) (*state.StateGraph, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := plan.Validate(p); err != nil {
		return nil, newError(CodeSchema, -1, "plan is malformed", err)
	}

	genesis, err := p.Initial.Build()
	if err != nil {
		return nil, newError(CodeConfiguration, -1, "initial configuration is malformed", err)
	}
	genesis.StepIndex = 0

	hist := history.New()
	if err := hist.Append(genesis); err != nil {
		return nil, newError(CodeConfiguration, -1, "commit genesis snapshot", err)
	}

	e.plan = p
	e.hist = hist
	e.next = 0
	e.session = e.gen.Generate()

	slog.Info("engine initialized",
		"session", e.session,
		"plan", p.Name,
		"variant", p.Initial.Variant,
		"steps", len(p.Steps),
		"initial_size", genesis.Size,
	)

	e.recordSession(ctx, p)
	e.recordSnapshot(ctx, genesis)

	committed, err := hist.Latest()
	if err != nil {
		return nil, newError(CodeConfiguration, -1, "read back genesis snapshot", err)
	}
	return committed, nil
}

// ApplyStep applies the plan step at stepIndex (zero-based) against the
// current committed state. Steps apply strictly in plan order; applying
// out of order is refused with a SEQUENCE error and no state change.
//
// Outcome: a validator success commits the candidate as the next
// history index and returns a success result; a validator failure
// leaves the committed state unchanged and returns a failure result
// carrying the violations. Either way the step is consumed and the plan
// advances, so a walkthrough that deliberately exercises a rejected
// edge case continues with its remaining steps.
func (e *Engine) ApplyStep(ctx context.Context, stepIndex int) (StateTransitionResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.plan == nil {
		return StateTransitionResult{}, newError(CodeNotInitialized, stepIndex, "engine is not initialized", nil)
	}

	step, ok := e.plan.StepAt(stepIndex)
	if !ok {
		return StateTransitionResult{}, newError(CodeSequence, stepIndex,
			fmt.Sprintf("plan has no step %d", stepIndex), nil)
	}

	if stepIndex != e.next {
		return StateTransitionResult{}, newError(CodeSequence, stepIndex,
			fmt.Sprintf("steps must apply in order; expected step %d", e.next), nil)
	}

	current, err := e.hist.Latest()
	if err != nil {
		return StateTransitionResult{}, newError(CodeSequence, stepIndex, "read current state", err)
	}

	candidate, err := transform.Apply(current, withTarget(step, e.hist.Len()))
	if err != nil {
		return StateTransitionResult{}, newError(CodeSchema, stepIndex, "transform failed", err)
	}

	report := validate.Check(candidate)
	if !report.Valid {
		slog.Info("step rejected",
			"session", e.session,
			"step", stepIndex,
			"op", step.Op,
			"edge_case", candidate.EdgeCase,
			"violated", report.Names(),
		)
		e.recordTransition(ctx, TransitionRecord{
			StepIndex:  stepIndex,
			Op:         string(step.Op),
			Success:    false,
			EdgeCase:   string(candidate.EdgeCase),
			Violations: report.Names(),
		})
		e.next++
		return StateTransitionResult{
			Success:             false,
			StepIndex:           stepIndex,
			EdgeCase:            candidate.EdgeCase,
			InvariantsPreserved: false,
			Violations:          report.Violations,
		}, nil
	}

	if err := e.hist.Append(candidate.State); err != nil {
		return StateTransitionResult{}, newError(CodeSequence, stepIndex, "commit candidate", err)
	}
	e.next++

	committed, err := e.hist.Latest()
	if err != nil {
		return StateTransitionResult{}, newError(CodeSequence, stepIndex, "read back committed state", err)
	}

	slog.Debug("step committed",
		"session", e.session,
		"step", stepIndex,
		"op", step.Op,
		"modified", candidate.Modified,
		"size", committed.Size,
	)

	e.recordSnapshot(ctx, committed)
	hash, _ := e.hist.HashAt(e.hist.Len() - 1)
	e.recordTransition(ctx, TransitionRecord{
		StepIndex: stepIndex,
		Op:        string(step.Op),
		Success:   true,
		EdgeCase:  string(candidate.EdgeCase),
		StateHash: hash,
	})

	return StateTransitionResult{
		Success:             true,
		StepIndex:           stepIndex,
		NewState:            committed,
		ModifiedElementIDs:  candidate.Modified,
		EdgeCase:            candidate.EdgeCase,
		InvariantsPreserved: true,
	}, nil
}

// CurrentState returns the most recently committed snapshot (a clone;
// committed history is immutable).
func (e *Engine) CurrentState() (*state.StateGraph, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.hist == nil {
		return nil, newError(CodeNotInitialized, -1, "engine is not initialized", nil)
	}
	return e.hist.Latest()
}

// GoToStep returns the committed snapshot at stepIndex without
// re-executing transforms. Navigation outside the committed range fails
// with a NAVIGATION error.
func (e *Engine) GoToStep(stepIndex int) (*state.StateGraph, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.hist == nil {
		return nil, newError(CodeNotInitialized, stepIndex, "engine is not initialized", nil)
	}
	g, err := e.hist.At(stepIndex)
	if err != nil {
		return nil, newError(CodeNavigation, stepIndex,
			fmt.Sprintf("index outside committed history [0, %d)", e.hist.Len()), err)
	}
	return g, nil
}

// HistoryLen returns the number of committed snapshots.
func (e *Engine) HistoryLen() int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.hist == nil {
		return 0
	}
	return e.hist.Len()
}

// Reset truncates history back to the genesis snapshot. The plan stays
// loaded; steps re-applied from index 0 reproduce the same snapshots,
// identifiers included.
func (e *Engine) Reset(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.hist == nil {
		return newError(CodeNotInitialized, -1, "engine is not initialized", nil)
	}
	e.hist.Truncate()
	e.next = 0
	slog.Info("history reset to genesis", "session", e.session)
	return nil
}

// withTarget restamps the plan step so the transform stamps the
// candidate with the history index it will occupy on commit (genesis
// occupies index 0).
func withTarget(s plan.Step, historyIndex int) plan.Step {
	s.Index = historyIndex
	return s
}

func (e *Engine) recordSession(ctx context.Context, p *plan.ExecutionPlan) {
	if e.recorder == nil {
		return
	}
	planHash, err := plan.Hash(p)
	if err != nil {
		slog.Error("trace recording: plan hash failed", "session", e.session, "error", err)
		return
	}
	if err := e.recorder.RecordSession(ctx, e.session, p.Name, planHash, string(p.Initial.Variant)); err != nil {
		slog.Error("trace recording: session write failed", "session", e.session, "error", err)
	}
}

func (e *Engine) recordSnapshot(ctx context.Context, g *state.StateGraph) {
	if e.recorder == nil {
		return
	}
	canonical, err := state.MarshalCanonical(g.CanonicalMap())
	if err != nil {
		slog.Error("trace recording: canonical marshal failed", "session", e.session, "step", g.StepIndex, "error", err)
		return
	}
	hash := state.HashWithDomain(state.DomainState, canonical)
	if err := e.recorder.RecordSnapshot(ctx, e.session, g.StepIndex, canonical, hash); err != nil {
		slog.Error("trace recording: snapshot write failed", "session", e.session, "step", g.StepIndex, "error", err)
	}
}

func (e *Engine) recordTransition(ctx context.Context, rec TransitionRecord) {
	if e.recorder == nil {
		return
	}
	if err := e.recorder.RecordTransition(ctx, e.session, rec); err != nil {
		slog.Error("trace recording: transition write failed", "session", e.session, "step", rec.StepIndex, "error", err)
	}
}
