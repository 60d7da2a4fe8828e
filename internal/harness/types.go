package harness

// TraceEvent records the observed outcome of one plan step. Every field
// is derivable by hand from the plan, so golden files can be written
// without running the engine first.
type TraceEvent struct {
	StepIndex int      `json:"step_index"`
	Op        string   `json:"op"`
	Success   bool     `json:"success"`
	EdgeCase  string   `json:"edge_case,omitempty"`
	Modified  []string `json:"modified,omitempty"`
	Violated  []string `json:"violated,omitempty"`
	Size      int      `json:"size"`
	Values    []string `json:"values"`
}

// Result is the outcome of running a scenario.
type Result struct {
	// Pass is true if every expect clause matched.
	Pass bool `json:"pass"`

	// Trace contains one event per plan step in execution order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains expect-clause mismatches. Empty when Pass.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a passing result to accumulate into.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError records an expect mismatch and marks the result failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
