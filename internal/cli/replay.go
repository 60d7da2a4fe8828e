package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/structwalk/structwalk/internal/engine"
	"github.com/structwalk/structwalk/internal/plan"
	"github.com/structwalk/structwalk/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	Session  string
}

// ReplayResult is the JSON payload for a replay verification.
type ReplayResult struct {
	Session       string   `json:"session"`
	Plan          string   `json:"plan"`
	Snapshots     int      `json:"snapshots"`
	Deterministic bool     `json:"deterministic"`
	Mismatches    []string `json:"mismatches,omitempty"`
}

func (r ReplayResult) String() string {
	if r.Deterministic {
		return fmt.Sprintf("Session %s replayed deterministically (%d snapshots, plan %q)",
			r.Session, r.Snapshots, r.Plan)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Session %s is NOT deterministic (%d snapshots, plan %q)\n",
		r.Session, r.Snapshots, r.Plan)
	for _, m := range r.Mismatches {
		fmt.Fprintf(&b, "  %s\n", m)
	}
	return strings.TrimRight(b.String(), "\n")
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay <plan.yaml>",
		Short: "Verify a recorded session replays deterministically",
		Long: `Re-execute a plan in memory and compare every committed snapshot
hash against the snapshots recorded for a stored session.

The plan file must be the one the session originally ran: its content
hash is checked against the session's recorded plan hash first. Any
snapshot hash divergence means the execution is not deterministic (or
the stored trace was modified) and the command exits with failure.

Example:
  structwalk replay plans/singly_insert.yaml --db walk.db --session 0190...`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite trace database (required)")
	cmd.Flags().StringVar(&opts.Session, "session", "", "session token to verify (required)")
	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagRequired("session")

	return cmd
}

func runReplay(opts *ReplayOptions, path string, cmd *cobra.Command) error {
	out := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	p, err := plan.Load(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load plan", err)
	}
	planHash, err := plan.Hash(p)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to hash plan", err)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	ctx := cmd.Context()

	sess, err := st.ReadSession(ctx, opts.Session)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read session", err)
	}
	if sess.PlanHash != planHash {
		_ = out.Error("E_PLAN_MISMATCH", "plan does not match recorded session",
			fmt.Sprintf("session recorded plan %q (hash %s), got hash %s", sess.PlanName, sess.PlanHash, planHash))
		return NewExitError(ExitFailure, "plan hash mismatch")
	}

	stored, err := st.ReadSnapshots(ctx, opts.Session)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read snapshots", err)
	}

	result := ReplayResult{
		Session:       opts.Session,
		Plan:          sess.PlanName,
		Snapshots:     len(stored),
		Deterministic: true,
	}

	// Replay in memory with a throwaway token; hashes cover state only,
	// so the session token does not affect comparison.
	eng := engine.New(engine.NewFixedGenerator("replay"))
	if _, err := eng.Initialize(ctx, p); err != nil {
		return WrapExitError(ExitFailure, "failed to initialize engine", err)
	}
	for i := range p.Steps {
		if _, err := eng.ApplyStep(ctx, i); err != nil {
			return WrapExitError(ExitFailure, fmt.Sprintf("replay step %d failed", i), err)
		}
	}

	if eng.HistoryLen() != len(stored) {
		result.Deterministic = false
		result.Mismatches = append(result.Mismatches,
			fmt.Sprintf("snapshot count: stored %d, replayed %d", len(stored), eng.HistoryLen()))
	}

	for _, snap := range stored {
		if snap.StepIndex >= eng.HistoryLen() {
			continue
		}
		g, err := eng.GoToStep(snap.StepIndex)
		if err != nil {
			return WrapExitError(ExitFailure, fmt.Sprintf("navigate to index %d", snap.StepIndex), err)
		}
		replayed, err := g.Hash()
		if err != nil {
			return WrapExitError(ExitFailure, fmt.Sprintf("hash replayed index %d", snap.StepIndex), err)
		}
		if replayed != snap.StateHash {
			result.Deterministic = false
			result.Mismatches = append(result.Mismatches,
				fmt.Sprintf("index %d: stored %s, replayed %s", snap.StepIndex, snap.StateHash, replayed))
		}
	}

	if err := out.Success(result); err != nil {
		return err
	}
	if !result.Deterministic {
		return NewExitError(ExitFailure, "replay diverged from stored trace")
	}
	return nil
}
