package meta

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueSealed(t *testing.T) {
	// Verify all types implement Value (compile-time check via assignment)
	var _ Value = String("test")
	var _ Value = Int(42)
	var _ Value = Float(3.5)
	var _ Value = Bool(true)
	var _ Value = Strings{"a", "b"}
	var _ Value = Object{"key": "value"}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		val  Value
		kind Kind
	}{
		{"string", String("red"), KindString},
		{"numeric string stays string", String("42"), KindString},
		{"empty string", String(""), KindString},
		{"integer", Int(42), KindInteger},
		{"negative integer", Int(-7), KindInteger},
		{"large integer", Int(1 << 60), KindInteger},
		{"float", Float(3.25), KindFloat},
		{"float no fraction", Float(10), KindFloat},
		{"bool true", Bool(true), KindBoolean},
		{"bool false", Bool(false), KindBoolean},
		{"strings", Strings{"a", "b", "c"}, KindStrings},
		{"empty strings", Strings{}, KindStrings},
		{"object", Object{"size": "XL", "count": float64(3)}, KindObject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, kind, err := Encode(tt.val)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, kind)

			got, err := Decode(text, kind)
			require.NoError(t, err)
			assert.Equal(t, tt.val, got)
		})
	}
}

func TestEncode_ScalarLiteralForms(t *testing.T) {
	text, kind, err := Encode(Int(42))
	require.NoError(t, err)
	assert.Equal(t, "42", text)
	assert.Equal(t, KindInteger, kind)

	text, kind, err = Encode(Bool(true))
	require.NoError(t, err)
	assert.Equal(t, "true", text)
	assert.Equal(t, KindBoolean, kind)

	text, _, err = Encode(String("plain"))
	require.NoError(t, err)
	assert.Equal(t, "plain", text)
}

func TestDecode_NumericStringDecodesToNumber(t *testing.T) {
	// The tag decides the type, not the text shape.
	got, err := Decode("42", KindInteger)
	require.NoError(t, err)
	assert.Equal(t, Int(42), got)

	got, err = Decode("42", KindString)
	require.NoError(t, err)
	assert.Equal(t, String("42"), got)
}

func TestDecode_UnsupportedKind(t *testing.T) {
	_, err := Decode("whatever", Kind("resource"))
	require.Error(t, err)
	assert.True(t, IsUnsupportedKind(err))

	var ue *UnsupportedKindError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, Kind("resource"), ue.Kind)
}

func TestDecode_UnsupportedKindWrapped(t *testing.T) {
	_, err := Decode("x", Kind("handle"))
	wrapped := fmt.Errorf("read attribute: %w", err)
	assert.True(t, IsUnsupportedKind(wrapped))
}

func TestDecode_MalformedText(t *testing.T) {
	_, err := Decode("not-a-number", KindInteger)
	assert.Error(t, err)
	assert.False(t, IsUnsupportedKind(err))

	_, err = Decode("{broken", KindObject)
	assert.Error(t, err)
}

func TestFromAny(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Value
	}{
		{"string", "red", String("red")},
		{"int", 7, Int(7)},
		{"int64", int64(9), Int(9)},
		{"uint32", uint32(5), Int(5)},
		{"float64", 2.5, Float(2.5)},
		{"float32", float32(1.5), Float(1.5)},
		{"bool", true, Bool(true)},
		{"string slice", []string{"a", "b"}, Strings{"a", "b"}},
		{"any slice of strings", []any{"a", "b"}, Strings{"a", "b"}},
		{"map", map[string]any{"k": "v"}, Object{"k": "v"}},
		{"already a value", Int(3), Int(3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromAny(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromAny_Rejected(t *testing.T) {
	_, err := FromAny(nil)
	assert.Error(t, err)

	_, err = FromAny([]any{"a", 1})
	assert.Error(t, err)

	_, err = FromAny(make(chan int))
	assert.Error(t, err)
}

func TestNormalizeKey_NFC(t *testing.T) {
	// e + combining acute accent normalizes to the precomposed form.
	decomposed := "café"
	precomposed := "café"

	assert.Equal(t, precomposed, NormalizeKey(decomposed))
	assert.Equal(t, precomposed, NormalizeKey(precomposed))
	assert.Equal(t, "color", NormalizeKey("color"))
}

func TestValueAny(t *testing.T) {
	assert.Equal(t, "red", String("red").Any())
	assert.Equal(t, int64(7), Int(7).Any())
	assert.Equal(t, 2.5, Float(2.5).Any())
	assert.Equal(t, true, Bool(true).Any())
	assert.Equal(t, []string{"a"}, Strings{"a"}.Any())
	assert.Equal(t, map[string]any{"k": "v"}, Object{"k": "v"}.Any())
}
