package state

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Value is a sealed interface for element payloads.
// Only StringValue, IntValue, and BoolValue implement it.
// No floats (breaks determinism) and no null (an absent element is an
// absent arena entry, never a present-but-null one).
type Value interface {
	value() // sealed
}

// StringValue is a string element payload.
type StringValue string

func (StringValue) value() {}

// IntValue is an integer element payload. Always int64, never float64.
type IntValue int64

func (IntValue) value() {}

// BoolValue is a boolean element payload.
type BoolValue bool

func (BoolValue) value() {}

// String renders a Value for logs and text output.
func String(v Value) string {
	switch val := v.(type) {
	case StringValue:
		return string(val)
	case IntValue:
		return fmt.Sprintf("%d", int64(val))
	case BoolValue:
		return fmt.Sprintf("%t", bool(val))
	default:
		return fmt.Sprintf("<%T>", v)
	}
}

// ValueEqual reports whether two payloads are the same type and contents.
func ValueEqual(a, b Value) bool {
	switch av := a.(type) {
	case StringValue:
		bv, ok := b.(StringValue)
		return ok && av == bv
	case IntValue:
		bv, ok := b.(IntValue)
		return ok && av == bv
	case BoolValue:
		bv, ok := b.(BoolValue)
		return ok && av == bv
	default:
		return false
	}
}

// ParseValue converts a decoded YAML/JSON scalar into a Value.
// Floats and null are rejected - only string, int, and bool payloads exist.
func ParseValue(raw any) (Value, error) {
	switch v := raw.(type) {
	case nil:
		return nil, fmt.Errorf("null is not a valid element value")
	case string:
		return StringValue(v), nil
	case bool:
		return BoolValue(v), nil
	case int:
		return IntValue(int64(v)), nil
	case int64:
		return IntValue(v), nil
	case json.Number:
		s := string(v)
		if strings.ContainsAny(s, ".eE") {
			return nil, fmt.Errorf("floats are not valid element values: %s", s)
		}
		n, err := v.Int64()
		if err != nil {
			return nil, fmt.Errorf("number out of int64 range: %s", s)
		}
		return IntValue(n), nil
	case float64, float32:
		return nil, fmt.Errorf("floats are not valid element values: %v", v)
	default:
		return nil, fmt.Errorf("unsupported element value type: %T", raw)
	}
}
