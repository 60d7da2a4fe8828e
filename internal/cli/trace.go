package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/structwalk/structwalk/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	Session  string
	Verify   bool
}

// SessionSummary is one session row in the trace payload.
type SessionSummary struct {
	Token     string `json:"token"`
	Plan      string `json:"plan"`
	Variant   string `json:"variant"`
	CreatedAt string `json:"created_at"`
}

// SessionList is the JSON payload when listing sessions.
type SessionList struct {
	Sessions []SessionSummary `json:"sessions"`
}

func (l SessionList) String() string {
	if len(l.Sessions) == 0 {
		return "No recorded sessions"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d session(s)\n", len(l.Sessions))
	for _, s := range l.Sessions {
		fmt.Fprintf(&b, "  %s  %-20s %-13s %s\n", s.Token, s.Plan, s.Variant, s.CreatedAt)
	}
	return strings.TrimRight(b.String(), "\n")
}

// TransitionLine is one transition row in the trace payload.
type TransitionLine struct {
	Step     int      `json:"step"`
	Op       string   `json:"op"`
	Success  bool     `json:"success"`
	EdgeCase string   `json:"edge_case,omitempty"`
	Violated []string `json:"violated,omitempty"`
}

// SessionTrace is the JSON payload for a single session's trace.
type SessionTrace struct {
	Session     SessionSummary   `json:"session"`
	Snapshots   int              `json:"snapshots"`
	Transitions []TransitionLine `json:"transitions"`
	Verified    *bool            `json:"verified,omitempty"`
}

func (t SessionTrace) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session %s (plan %q, variant %s)\n", t.Session.Token, t.Session.Plan, t.Session.Variant)
	fmt.Fprintf(&b, "  snapshots: %d\n", t.Snapshots)
	for _, tr := range t.Transitions {
		status := "ok"
		if !tr.Success {
			status = fmt.Sprintf("rejected %v", tr.Violated)
			if tr.EdgeCase != "" {
				status = fmt.Sprintf("rejected (%s) %v", tr.EdgeCase, tr.Violated)
			}
		}
		fmt.Fprintf(&b, "  step %2d  %-14s %s\n", tr.Step, tr.Op, status)
	}
	if t.Verified != nil {
		if *t.Verified {
			fmt.Fprintf(&b, "  integrity: all snapshot hashes verified\n")
		} else {
			fmt.Fprintf(&b, "  integrity: HASH MISMATCH detected\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Browse recorded execution traces",
		Long: `Browse the trace database.

Without --session, lists all recorded sessions. With --session, shows
that session's step outcomes; add --verify to re-hash its stored
snapshots against the recorded content hashes.

Example:
  structwalk trace --db walk.db
  structwalk trace --db walk.db --session 0190... --verify`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite trace database (required)")
	cmd.Flags().StringVar(&opts.Session, "session", "", "session token to inspect")
	cmd.Flags().BoolVar(&opts.Verify, "verify", false, "re-hash stored snapshots and check integrity")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	out := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	ctx := cmd.Context()

	if opts.Session == "" {
		sessions, err := st.ListSessions(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list sessions", err)
		}
		list := SessionList{Sessions: []SessionSummary{}}
		for _, s := range sessions {
			list.Sessions = append(list.Sessions, SessionSummary{
				Token:     s.Token,
				Plan:      s.PlanName,
				Variant:   s.Variant,
				CreatedAt: s.CreatedAt,
			})
		}
		return out.Success(list)
	}

	sess, err := st.ReadSession(ctx, opts.Session)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read session", err)
	}
	snaps, err := st.ReadSnapshots(ctx, opts.Session)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read snapshots", err)
	}
	trans, err := st.ReadTransitions(ctx, opts.Session)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read transitions", err)
	}

	trace := SessionTrace{
		Session: SessionSummary{
			Token:     sess.Token,
			Plan:      sess.PlanName,
			Variant:   sess.Variant,
			CreatedAt: sess.CreatedAt,
		},
		Snapshots: len(snaps),
	}
	for _, tr := range trans {
		trace.Transitions = append(trace.Transitions, TransitionLine{
			Step:     tr.StepIndex,
			Op:       tr.Op,
			Success:  tr.Success,
			EdgeCase: tr.EdgeCase,
			Violated: tr.Violations,
		})
	}

	if opts.Verify {
		verification, err := st.Verify(ctx, opts.Session)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to verify snapshots", err)
		}
		ok := verification.OK()
		trace.Verified = &ok
		if err := out.Success(trace); err != nil {
			return err
		}
		if !ok {
			return NewExitError(ExitFailure, "stored snapshot hashes do not verify")
		}
		return nil
	}

	return out.Success(trace)
}
