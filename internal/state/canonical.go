package state

import (
	"bytes"
	"fmt"
	"slices"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces RFC 8785 canonical JSON. This is the only
// serialization used for content-addressed hashing and byte-identity
// comparison of snapshots.
//
// Guarantees over encoding/json.Marshal:
//  1. Object keys sorted by UTF-16 code units (not UTF-8 bytes)
//  2. No HTML escaping (< > & pass through)
//  3. Strings NFC normalized at the serialization boundary
//  4. No floats and no null (both return an error)
func MarshalCanonical(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := marshalCanonical(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func marshalCanonical(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case nil:
		return fmt.Errorf("null is forbidden in canonical JSON")
	case StringValue:
		writeCanonicalString(buf, string(val))
		return nil
	case IntValue:
		fmt.Fprintf(buf, "%d", int64(val))
		return nil
	case BoolValue:
		return marshalCanonical(buf, bool(val))
	case string:
		writeCanonicalString(buf, val)
		return nil
	case int:
		fmt.Fprintf(buf, "%d", val)
		return nil
	case int64:
		fmt.Fprintf(buf, "%d", val)
		return nil
	case bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
		return nil
	case []any:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := marshalCanonical(buf, elem); err != nil {
				return fmt.Errorf("array[%d]: %w", i, err)
			}
		}
		buf.WriteByte(']')
		return nil
	case map[string]any:
		buf.WriteByte('{')
		keys := sortedKeysRFC8785(val)
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeCanonicalString(buf, k)
			buf.WriteByte(':')
			if err := marshalCanonical(buf, val[k]); err != nil {
				return fmt.Errorf("object[%q]: %w", k, err)
			}
		}
		buf.WriteByte('}')
		return nil
	case float64, float32:
		return fmt.Errorf("floats are forbidden in canonical JSON: %v", val)
	default:
		return fmt.Errorf("unsupported type for canonical JSON: %T", v)
	}
}

// writeCanonicalString emits an NFC-normalized JSON string per RFC 8785:
// only quote, backslash, and control characters below U+0020 are escaped,
// using the two-character forms where they exist. HTML metacharacters and
// U+2028/U+2029 pass through literally.
func writeCanonicalString(buf *bytes.Buffer, s string) {
	normalized := norm.NFC.String(s)
	buf.WriteByte('"')
	for _, r := range normalized {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(buf, `\u%04x`, r)
			} else {
				buf.WriteRune(r)
			}
		}
	}
	buf.WriteByte('"')
}

// sortedKeysRFC8785 returns keys in UTF-16 code unit order as RFC 8785
// requires. Go's native string ordering is UTF-8, which diverges for
// characters outside the BMP.
func sortedKeysRFC8785(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareUTF16)
	return keys
}

func compareUTF16(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))
	n := min(len(a16), len(b16))
	for i := 0; i < n; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	default:
		return 0
	}
}

// CanonicalMap flattens a snapshot to primitives for MarshalCanonical.
// Every field appears for every variant so the canonical form has a fixed
// shape; fields a variant does not use carry their zero values.
func (g *StateGraph) CanonicalMap() map[string]any {
	elements := make(map[string]any, len(g.Elements))
	for id, el := range g.Elements {
		elements[string(id)] = map[string]any{
			"value": el.Value,
			"next":  string(el.Next),
			"prev":  string(el.Prev),
		}
	}

	slots := make([]any, len(g.Slots))
	for i, id := range g.Slots {
		slots[i] = string(id)
	}

	modified := make([]any, len(g.Modified))
	for i, id := range g.Modified {
		modified[i] = string(id)
	}

	return map[string]any{
		"variant":    string(g.Variant),
		"capacity":   g.Capacity,
		"size":       g.Size,
		"step_index": g.StepIndex,
		"next_id":    g.NextID,
		"head":       string(g.Head),
		"tail":       string(g.Tail),
		"slots":      slots,
		"top":        g.Top,
		"front":      g.Front,
		"rear":       g.Rear,
		"modified":   modified,
		"elements":   elements,
	}
}
