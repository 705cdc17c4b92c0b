package meta

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// UnsupportedKindError reports a decode attempt against a type tag outside
// the closed Kind set. It is fatal to that single read only.
type UnsupportedKindError struct {
	Kind Kind
}

// Error implements the error interface.
func (e *UnsupportedKindError) Error() string {
	return fmt.Sprintf("unsupported meta type tag %q", string(e.Kind))
}

// IsUnsupportedKind reports whether err is an UnsupportedKindError.
// Uses errors.As to handle wrapped errors.
func IsUnsupportedKind(err error) bool {
	var ue *UnsupportedKindError
	return errors.As(err, &ue)
}

// Encode serializes a value to its stored text form plus type tag.
// Scalars keep their literal text form; Strings and Object serialize as JSON.
func Encode(v Value) (string, Kind, error) {
	switch val := v.(type) {
	case String:
		return string(val), KindString, nil
	case Int:
		return strconv.FormatInt(int64(val), 10), KindInteger, nil
	case Float:
		return strconv.FormatFloat(float64(val), 'g', -1, 64), KindFloat, nil
	case Bool:
		return strconv.FormatBool(bool(val)), KindBoolean, nil
	case Strings:
		data, err := json.Marshal([]string(val))
		if err != nil {
			return "", "", fmt.Errorf("encode strings: %w", err)
		}
		return string(data), KindStrings, nil
	case Object:
		data, err := json.Marshal(map[string]any(val))
		if err != nil {
			return "", "", fmt.Errorf("encode object: %w", err)
		}
		return string(data), KindObject, nil
	default:
		return "", "", fmt.Errorf("unknown meta value type: %T", v)
	}
}

// Decode parses stored text back into the value its tag declares.
// Round-trip law: Decode(Encode(v)) == v for every representable v.
func Decode(text string, kind Kind) (Value, error) {
	switch kind {
	case KindString:
		return String(text), nil
	case KindInteger:
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("decode integer %q: %w", text, err)
		}
		return Int(n), nil
	case KindFloat:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("decode float %q: %w", text, err)
		}
		return Float(f), nil
	case KindBoolean:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return nil, fmt.Errorf("decode boolean %q: %w", text, err)
		}
		return Bool(b), nil
	case KindStrings:
		var out []string
		if err := json.Unmarshal([]byte(text), &out); err != nil {
			return nil, fmt.Errorf("decode strings: %w", err)
		}
		return Strings(out), nil
	case KindObject:
		var out map[string]any
		if err := json.Unmarshal([]byte(text), &out); err != nil {
			return nil, fmt.Errorf("decode object: %w", err)
		}
		return Object(out), nil
	default:
		return nil, &UnsupportedKindError{Kind: kind}
	}
}
