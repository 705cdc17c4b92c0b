package meta

import (
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// Kind tags the stored representation of a meta value. The set is closed:
// decode rejects any tag outside it.
type Kind string

const (
	// KindString is a plain string stored as its literal text.
	KindString Kind = "string"
	// KindInteger is an int64 stored in decimal text form.
	KindInteger Kind = "integer"
	// KindFloat is a float64 stored in its shortest round-trippable form.
	KindFloat Kind = "float"
	// KindBoolean is a bool stored as "true"/"false".
	KindBoolean Kind = "boolean"
	// KindStrings is a string sequence stored as a JSON array.
	KindStrings Kind = "strings"
	// KindObject is an opaque structured value stored as a JSON object.
	KindObject Kind = "object"
)

// Value is a sealed interface over the supported meta value kinds.
// Only String, Int, Float, Bool, Strings, and Object implement it.
// There is no null value: a nil write deletes the entry instead.
type Value interface {
	metaValue() // Sealed - only these types implement it

	// Kind returns the tag stored alongside the encoded value.
	Kind() Kind

	// Any unwraps the value to its plain Go form for merged views.
	Any() any
}

// String is a plain string meta value.
type String string

func (String) metaValue() {}

// Kind returns KindString.
func (String) Kind() Kind { return KindString }

// Any returns the underlying string.
func (v String) Any() any { return string(v) }

// Int is an integer meta value. Always int64.
type Int int64

func (Int) metaValue() {}

// Kind returns KindInteger.
func (Int) Kind() Kind { return KindInteger }

// Any returns the underlying int64.
func (v Int) Any() any { return int64(v) }

// Float is a floating-point meta value.
type Float float64

func (Float) metaValue() {}

// Kind returns KindFloat.
func (Float) Kind() Kind { return KindFloat }

// Any returns the underlying float64.
func (v Float) Any() any { return float64(v) }

// Bool is a boolean meta value.
type Bool bool

func (Bool) metaValue() {}

// Kind returns KindBoolean.
func (Bool) Kind() Kind { return KindBoolean }

// Any returns the underlying bool.
func (v Bool) Any() any { return bool(v) }

// Strings is a sequence-of-strings meta value.
type Strings []string

func (Strings) metaValue() {}

// Kind returns KindStrings.
func (Strings) Kind() Kind { return KindStrings }

// Any returns the underlying []string.
func (v Strings) Any() any { return []string(v) }

// Object is an opaque structured meta value. Nested values must be
// JSON-representable; the codec does not inspect them beyond that.
type Object map[string]any

func (Object) metaValue() {}

// Kind returns KindObject.
func (Object) Kind() Kind { return KindObject }

// Any returns the underlying map.
func (v Object) Any() any { return map[string]any(v) }

// FromAny converts a plain Go value into a Value, widening integer and
// float variants to their canonical kinds. nil is rejected - callers
// translate nil into a delete before reaching the codec.
func FromAny(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return nil, fmt.Errorf("nil has no meta value kind")
	case Value:
		return val, nil
	case string:
		return String(val), nil
	case bool:
		return Bool(val), nil
	case int:
		return Int(val), nil
	case int8:
		return Int(val), nil
	case int16:
		return Int(val), nil
	case int32:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case uint:
		return Int(val), nil
	case uint8:
		return Int(val), nil
	case uint16:
		return Int(val), nil
	case uint32:
		return Int(val), nil
	case float32:
		return Float(val), nil
	case float64:
		return Float(val), nil
	case []string:
		return Strings(val), nil
	case []any:
		// Sequences are supported only as string sequences.
		out := make(Strings, len(val))
		for i, elem := range val {
			s, ok := elem.(string)
			if !ok {
				return nil, fmt.Errorf("sequence element %d: %T is not a string", i, elem)
			}
			out[i] = s
		}
		return out, nil
	case map[string]any:
		return Object(val), nil
	default:
		return nil, fmt.Errorf("unsupported meta value type: %T", v)
	}
}

// NormalizeKey returns the NFC form of a meta key. Keys are normalized
// before every store operation so the (owner, key) uniqueness constraint
// compares byte-stable representations regardless of input encoding.
func NormalizeKey(key string) string {
	return norm.NFC.String(key)
}
