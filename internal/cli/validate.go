package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/structwalk/structwalk/internal/plan"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
}

// ValidateResult is the JSON payload for a successful validation.
type ValidateResult struct {
	File     string `json:"file"`
	Name     string `json:"name"`
	Variant  string `json:"variant"`
	Steps    int    `json:"steps"`
	PlanHash string `json:"plan_hash"`
}

func (r ValidateResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Plan %q is valid\n", r.Name)
	fmt.Fprintf(&b, "  file:    %s\n", r.File)
	fmt.Fprintf(&b, "  variant: %s\n", r.Variant)
	fmt.Fprintf(&b, "  steps:   %d\n", r.Steps)
	fmt.Fprintf(&b, "  hash:    %s", r.PlanHash)
	return b.String()
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <plan.yaml>",
		Short: "Validate an execution plan",
		Long: `Validate an execution plan file without executing it.

Checks YAML structure, schema conformance, step ordering, operation and
variant compatibility, and parameter completeness. Prints the plan's
content hash on success.

Example:
  structwalk validate plans/singly_insert.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *ValidateOptions, path string, cmd *cobra.Command) error {
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

	hash, err := plan.Hash(p)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to hash plan", err)
	}

	return out.Success(ValidateResult{
		File:     path,
		Name:     p.Name,
		Variant:  string(p.Initial.Variant),
		Steps:    len(p.Steps),
		PlanHash: hash,
	})
}
