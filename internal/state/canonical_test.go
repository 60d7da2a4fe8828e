package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalSortsKeys(t *testing.T) {
	got, err := MarshalCanonical(map[string]any{
		"zebra": 1,
		"apple": 2,
		"mango": 3,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"apple":2,"mango":3,"zebra":1}`, string(got))
}

func TestMarshalCanonicalUTF16KeyOrder(t *testing.T) {
	// U+1D306 encodes as surrogates (0xD834 0xDF06) in UTF-16, which sort
	// before U+FF61 (0xFF61). UTF-8 byte order would give the opposite.
	got, err := MarshalCanonical(map[string]any{
		"｡":     1,
		"\U0001d306": 2,
	})
	require.NoError(t, err)
	assert.Equal(t, "{\"\U0001d306\":2,\"｡\":1}", string(got))
}

func TestMarshalCanonicalStrings(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "hello", want: `"hello"`},
		{name: "quote and backslash", in: `a"b\c`, want: `"a\"b\\c"`},
		{name: "control characters", in: "a\nb\tc", want: `"a\nb\tc"`},
		{name: "low control escaped as hex", in: "\x01", want: `"\u0001"`},
		{name: "html not escaped", in: "<a>&</a>", want: `"<a>&</a>"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalCanonical(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestMarshalCanonicalNFCNormalization(t *testing.T) {
	// e + combining acute normalizes to the precomposed form.
	decomposed, err := MarshalCanonical("é")
	require.NoError(t, err)
	precomposed, err := MarshalCanonical("é")
	require.NoError(t, err)
	assert.Equal(t, string(precomposed), string(decomposed))
}

func TestMarshalCanonicalRejectsFloatsAndNull(t *testing.T) {
	_, err := MarshalCanonical(3.14)
	require.Error(t, err)

	_, err = MarshalCanonical(nil)
	require.Error(t, err)

	_, err = MarshalCanonical(map[string]any{"x": 1.5})
	require.Error(t, err)

	_, err = MarshalCanonical([]any{1, nil})
	require.Error(t, err)
}

func TestMarshalCanonicalValues(t *testing.T) {
	got, err := MarshalCanonical(map[string]any{
		"s": StringValue("v"),
		"i": IntValue(-3),
		"b": BoolValue(true),
	})
	require.NoError(t, err)
	assert.Equal(t, `{"b":true,"i":-3,"s":"v"}`, string(got))
}

func TestCanonicalMapDeterministic(t *testing.T) {
	g, err := NewLinkedList(VariantDoublyLinked, []Value{
		StringValue("A"), StringValue("B"), StringValue("C"),
	})
	require.NoError(t, err)

	first, err := MarshalCanonical(g.CanonicalMap())
	require.NoError(t, err)
	second, err := MarshalCanonical(g.CanonicalMap())
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))

	clone, err := MarshalCanonical(g.Clone().CanonicalMap())
	require.NoError(t, err)
	assert.Equal(t, string(first), string(clone))
}

func TestStateGraphEqual(t *testing.T) {
	a, err := NewArray([]Value{IntValue(1), IntValue(2)}, 4)
	require.NoError(t, err)
	b, err := NewArray([]Value{IntValue(1), IntValue(2)}, 4)
	require.NoError(t, err)
	assert.True(t, a.Equal(b))

	c := b.Clone()
	c.Size = 1
	assert.False(t, a.Equal(c))
}
