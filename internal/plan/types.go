// Package plan defines the ExecutionPlan consumed by the execution core:
// an ordered, zero-indexed step list plus a declarative initial
// configuration. Plans arrive from an upstream planning collaborator as
// YAML and are vetted against an embedded CUE schema before the engine
// ever sees them.
package plan

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/structwalk/structwalk/internal/state"
)

// OpKind names one supported structural operation.
type OpKind string

// Supported operation kinds.
const (
	OpInsertHead    OpKind = "INSERT_HEAD"
	OpInsertTail    OpKind = "INSERT_TAIL"
	OpInsertAt      OpKind = "INSERT_AT"
	OpDeleteByValue OpKind = "DELETE_BY_VALUE"
	OpDeleteAt      OpKind = "DELETE_AT"
	OpPush          OpKind = "PUSH"
	OpPop           OpKind = "POP"
	OpPeek          OpKind = "PEEK"
	OpEnqueue       OpKind = "ENQUEUE"
	OpDequeue       OpKind = "DEQUEUE"
	OpTraverse      OpKind = "TRAVERSE"
	OpAccess        OpKind = "ACCESS"
)

// ValidOps enumerates the accepted operation kinds.
var ValidOps = map[OpKind]bool{
	OpInsertHead: true, OpInsertTail: true, OpInsertAt: true,
	OpDeleteByValue: true, OpDeleteAt: true,
	OpPush: true, OpPop: true, OpPeek: true,
	OpEnqueue: true, OpDequeue: true,
	OpTraverse: true, OpAccess: true,
}

// opsByVariant restricts which operations a variant supports. A plan
// naming an out-of-table (variant, op) pair is malformed, not a runtime
// edge case.
var opsByVariant = map[state.Variant]map[OpKind]bool{
	state.VariantArray: {
		OpInsertHead: true, OpInsertTail: true, OpInsertAt: true,
		OpDeleteByValue: true, OpDeleteAt: true,
		OpTraverse: true, OpAccess: true,
	},
	state.VariantSinglyLinked: {
		OpInsertHead: true, OpInsertTail: true, OpInsertAt: true,
		OpDeleteByValue: true, OpDeleteAt: true,
		OpTraverse: true, OpAccess: true,
	},
	state.VariantDoublyLinked: {
		OpInsertHead: true, OpInsertTail: true, OpInsertAt: true,
		OpDeleteByValue: true, OpDeleteAt: true,
		OpTraverse: true, OpAccess: true,
	},
	state.VariantStack: {
		OpPush: true, OpPop: true, OpPeek: true, OpTraverse: true,
	},
	state.VariantQueue: {
		OpEnqueue: true, OpDequeue: true, OpPeek: true, OpTraverse: true,
	},
}

// ParamValue wraps a state.Value for YAML decoding. Scalars decode to
// string, int, or bool; floats and null are rejected at parse time.
type ParamValue struct {
	V state.Value
}

// UnmarshalYAML implements yaml.Unmarshaler for ParamValue.
func (p *ParamValue) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("element value must be a scalar, got %v", node.Kind)
	}
	switch node.Tag {
	case "!!str":
		p.V = state.StringValue(node.Value)
		return nil
	case "!!int":
		var n int64
		if err := node.Decode(&n); err != nil {
			return err
		}
		p.V = state.IntValue(n)
		return nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return err
		}
		p.V = state.BoolValue(b)
		return nil
	case "!!float":
		return fmt.Errorf("floats are not valid element values: %s", node.Value)
	case "!!null":
		return fmt.Errorf("null is not a valid element value")
	default:
		return fmt.Errorf("unsupported element value tag %s", node.Tag)
	}
}

// Params carries the operation-specific parameters of a step. Which
// fields are required depends on the operation kind; see Validate.
type Params struct {
	// Position is the insertion/deletion position for INSERT_AT and
	// DELETE_AT. Out-of-range positions are legal here; they surface as
	// an OUT_OF_BOUNDS edge case at transform time.
	Position *int `yaml:"position,omitempty"`

	// Index is the slot index for ACCESS.
	Index *int `yaml:"index,omitempty"`

	// Value is the element payload for insert-family operations and the
	// match target for DELETE_BY_VALUE.
	Value *ParamValue `yaml:"value,omitempty"`
}

// Step is one planned, parameterized operation.
type Step struct {
	// Index is the step's position in the plan. Steps must be
	// contiguously numbered from 0.
	Index int `yaml:"index"`

	// Op names the operation to apply.
	Op OpKind `yaml:"op"`

	// Params carries operation-specific parameters.
	Params Params `yaml:"params,omitempty"`

	// DeclaredInvariants names at least one invariant the step must
	// preserve. Recorded for the tutoring layer; the validator always
	// runs the full variant table regardless.
	DeclaredInvariants []string `yaml:"invariants"`

	// EdgeCaseTag optionally labels a step the plan expects to hit an
	// edge case (teaching scenarios exercise these deliberately).
	EdgeCaseTag string `yaml:"edge_case,omitempty"`
}

// InitialConfig declares the genesis structure.
type InitialConfig struct {
	Variant  state.Variant `yaml:"variant"`
	Values   []ParamValue  `yaml:"values"`
	Capacity int           `yaml:"capacity,omitempty"`
}

// InitialValues unwraps the declared genesis payloads.
func (c *InitialConfig) InitialValues() []state.Value {
	out := make([]state.Value, len(c.Values))
	for i, v := range c.Values {
		out[i] = v.V
	}
	return out
}

// Build constructs the genesis snapshot from the declared configuration.
// A malformed configuration fails here, before any step is attempted.
func (c *InitialConfig) Build() (*state.StateGraph, error) {
	values := c.InitialValues()
	switch c.Variant {
	case state.VariantSinglyLinked, state.VariantDoublyLinked:
		return state.NewLinkedList(c.Variant, values)
	case state.VariantArray:
		return state.NewArray(values, c.Capacity)
	case state.VariantStack:
		return state.NewStack(values, c.Capacity)
	case state.VariantQueue:
		return state.NewQueue(values, c.Capacity)
	default:
		return nil, fmt.Errorf("unknown variant %q", c.Variant)
	}
}

// ExecutionPlan is the ordered step list plus initial configuration.
type ExecutionPlan struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description,omitempty"`
	Initial     InitialConfig `yaml:"initial"`
	Steps       []Step        `yaml:"steps"`
}

// StepAt returns the step with the given index, or false if the plan has
// no such step. Valid plans have Steps[i].Index == i, enforced by
// Validate, so this is a direct slice lookup.
func (p *ExecutionPlan) StepAt(index int) (Step, bool) {
	if index < 0 || index >= len(p.Steps) {
		return Step{}, false
	}
	return p.Steps[index], true
}
