package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance scenario: an execution plan to run end
// to end plus the expected outcome of each step.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Plan is the path to the execution plan YAML, relative to the
	// scenario file location.
	Plan string `yaml:"plan"`

	// SessionToken is an optional fixed session token for deterministic
	// traces. Defaults to "test-session-default".
	SessionToken string `yaml:"session_token,omitempty"`

	// Expect lists expected per-step outcomes. Steps are matched by
	// zero-based plan index; steps without an entry are only required
	// not to error.
	Expect []StepExpect `yaml:"expect"`
}

// StepExpect is the expected outcome of one plan step.
type StepExpect struct {
	// Step is the zero-based plan step index.
	Step int `yaml:"step"`

	// Success is whether the step should commit.
	Success bool `yaml:"success"`

	// EdgeCase is the expected edge-case classification, if any.
	EdgeCase string `yaml:"edge_case,omitempty"`

	// Violated lists the invariant names a rejected step must report.
	// Subset match: every listed name must appear in the report.
	Violated []string `yaml:"violated,omitempty"`

	// Size is the expected structure size after a committed step.
	// Nil means unchecked.
	Size *int `yaml:"size,omitempty"`

	// Values is the expected element sequence after a committed step,
	// rendered as strings in structural order. Nil means unchecked.
	Values []string `yaml:"values,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file. Unknown fields
// are rejected so typos fail loudly. The plan path is resolved relative
// to the scenario file's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Plan != "" && !filepath.IsAbs(scenario.Plan) {
		scenario.Plan = filepath.Join(filepath.Dir(path), scenario.Plan)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Plan == "" {
		return fmt.Errorf("plan is required")
	}
	if _, err := os.Stat(s.Plan); os.IsNotExist(err) {
		return fmt.Errorf("plan file not found: %s", s.Plan)
	}
	if len(s.Expect) == 0 {
		return fmt.Errorf("expect list is required and must be non-empty")
	}

	seen := make(map[int]bool)
	for i, e := range s.Expect {
		if e.Step < 0 {
			return fmt.Errorf("expect[%d]: step must be non-negative", i)
		}
		if seen[e.Step] {
			return fmt.Errorf("expect[%d]: duplicate entry for step %d", i, e.Step)
		}
		seen[e.Step] = true
		if !e.Success && (e.Size != nil || len(e.Values) > 0) {
			return fmt.Errorf("expect[%d]: size and values only apply to committed steps", i)
		}
		if e.Success && len(e.Violated) > 0 {
			return fmt.Errorf("expect[%d]: violated only applies to rejected steps", i)
		}
	}

	return nil
}
