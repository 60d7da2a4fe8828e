package plan

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// Load error codes.
const (
	ErrCodeNotFound = "not_found"
	ErrCodeParse    = "parse_error"
	ErrCodeSchema   = "schema_error"
	ErrCodeInvalid  = "invalid_plan"
)

// LoadError reports a failure to load, vet, or validate a plan file.
type LoadError struct {
	File    string
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s: %s: %s", e.File, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Load reads, schema-vets, and validates a plan YAML file.
func Load(path string) (*ExecutionPlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{File: path, Code: ErrCodeNotFound, Message: err.Error()}
	}
	p, err := Parse(data)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.File = path
		}
		return nil, err
	}
	return p, nil
}

// Parse decodes and vets plan YAML. Parsing is strict (unknown fields are
// rejected, catching typos like "invariant:" for "invariants:"), then the
// raw document is unified with the embedded CUE schema, then plan-level
// well-formedness rules run (contiguous indices, known ops, declared
// invariants).
func Parse(data []byte) (*ExecutionPlan, error) {
	// Strict typed decode.
	var p ExecutionPlan
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return nil, &LoadError{Code: ErrCodeParse, Message: err.Error()}
	}

	// Generic decode for schema unification.
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &LoadError{Code: ErrCodeParse, Message: err.Error()}
	}
	if err := vetSchema(raw); err != nil {
		return nil, &LoadError{Code: ErrCodeSchema, Message: err.Error()}
	}

	if err := Validate(&p); err != nil {
		return nil, &LoadError{Code: ErrCodeInvalid, Message: err.Error()}
	}
	return &p, nil
}

// vetSchema unifies the raw plan document with the embedded CUE schema.
func vetSchema(raw any) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compiling plan schema: %w", err)
	}

	planDef := schema.LookupPath(cue.ParsePath("#Plan"))
	if !planDef.Exists() {
		return fmt.Errorf("plan schema missing #Plan definition")
	}

	doc := ctx.Encode(raw)
	if err := doc.Err(); err != nil {
		return fmt.Errorf("encoding plan document: %w", err)
	}

	unified := planDef.Unify(doc)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return err
	}
	return nil
}
