package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/structwalk/structwalk/internal/engine"
	"github.com/structwalk/structwalk/internal/plan"
	"github.com/structwalk/structwalk/internal/state"
	"github.com/structwalk/structwalk/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string

	// TokenGenerator overrides the session token generator in tests.
	// Nil defaults to UUIDv7Generator.
	TokenGenerator engine.SessionTokenGenerator
}

// StepOutcome is one step's result in the run payload.
type StepOutcome struct {
	Step     int      `json:"step"`
	Op       string   `json:"op"`
	Success  bool     `json:"success"`
	EdgeCase string   `json:"edge_case,omitempty"`
	Modified []string `json:"modified,omitempty"`
	Violated []string `json:"violated,omitempty"`
}

// RunResult is the JSON payload for a completed run.
type RunResult struct {
	Plan        string        `json:"plan"`
	Session     string        `json:"session"`
	Steps       []StepOutcome `json:"steps"`
	Committed   int           `json:"committed"`
	Rejected    int           `json:"rejected"`
	FinalSize   int           `json:"final_size"`
	FinalValues []string      `json:"final_values"`
}

func (r RunResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Plan %q: %d committed, %d rejected\n", r.Plan, r.Committed, r.Rejected)
	fmt.Fprintf(&b, "  session: %s\n", r.Session)
	for _, s := range r.Steps {
		status := "ok"
		if !s.Success {
			status = "rejected"
			if s.EdgeCase != "" {
				status = fmt.Sprintf("rejected (%s)", s.EdgeCase)
			}
		} else if s.EdgeCase != "" {
			status = fmt.Sprintf("ok (%s)", s.EdgeCase)
		}
		fmt.Fprintf(&b, "  step %2d  %-14s %s\n", s.Step, s.Op, status)
	}
	fmt.Fprintf(&b, "  final: size=%d values=[%s]", r.FinalSize, strings.Join(r.FinalValues, " "))
	return b.String()
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <plan.yaml>",
		Short: "Execute a plan and record its trace",
		Long: `Execute every step of a plan through the engine.

Each step either commits a new snapshot or is rejected by the invariant
validator; rejected steps leave the state unchanged and the run
continues. With --db, the session, committed snapshots, and step
outcomes are recorded for later replay and browsing.

Example:
  structwalk run plans/singly_insert.yaml --db walk.db
  structwalk run plans/stack_overflow.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite trace database (optional)")

	return cmd
}

func runPlan(opts *RunOptions, path string, cmd *cobra.Command) error {
	logLevel := slog.LevelWarn
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	out := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	p, err := plan.Load(path)
	if err != nil {
		_ = out.Error("E_PLAN", "plan validation failed", err.Error())
		return WrapExitError(ExitFailure, "plan validation failed", err)
	}

	gen := opts.TokenGenerator
	if gen == nil {
		gen = engine.UUIDv7Generator{}
	}

	engOpts := []engine.Option{}
	if opts.Database != "" {
		st, err := store.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				slog.Error("error closing database", "error", closeErr)
			}
		}()
		engOpts = append(engOpts, engine.WithRecorder(st))
	}

	eng := engine.New(gen, engOpts...)
	ctx := cmd.Context()

	if _, err := eng.Initialize(ctx, p); err != nil {
		return WrapExitError(ExitFailure, "failed to initialize engine", err)
	}

	result := RunResult{Plan: p.Name, Session: eng.Session()}
	for i := range p.Steps {
		res, err := eng.ApplyStep(ctx, i)
		if err != nil {
			return WrapExitError(ExitFailure, fmt.Sprintf("step %d failed", i), err)
		}
		outcome := StepOutcome{
			Step:     i,
			Op:       string(p.Steps[i].Op),
			Success:  res.Success,
			EdgeCase: string(res.EdgeCase),
		}
		if res.Success {
			result.Committed++
			for _, id := range res.ModifiedElementIDs {
				outcome.Modified = append(outcome.Modified, string(id))
			}
		} else {
			result.Rejected++
			for _, v := range res.Violations {
				outcome.Violated = append(outcome.Violated, v.Invariant)
			}
		}
		result.Steps = append(result.Steps, outcome)
	}

	final, err := eng.CurrentState()
	if err != nil {
		return WrapExitError(ExitFailure, "failed to read final state", err)
	}
	result.FinalSize = final.Size
	for _, v := range final.ValuesInOrder() {
		result.FinalValues = append(result.FinalValues, state.String(v))
	}
	if result.FinalValues == nil {
		result.FinalValues = []string{}
	}

	return out.Success(result)
}
