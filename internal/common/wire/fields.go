package wire

import (
	"encoding/json"
	"fmt"
	"math"
)

// StringField maps a required string.
func StringField[T any](local, wire string, ptr func(v *T) *string) Field[T] {
	return Field[T]{
		Local:    local,
		Wire:     wire,
		Kind:     KindString,
		Required: true,
		Get: func(v *T) (interface{}, bool) {
			return *ptr(v), true
		},
		Set: func(v *T, raw json.RawMessage) error {
			return json.Unmarshal(raw, ptr(v))
		},
	}
}

// IntField maps a required integer.
func IntField[T any](local, wire string, ptr func(v *T) *int) Field[T] {
	return Field[T]{
		Local:    local,
		Wire:     wire,
		Kind:     KindInteger,
		Required: true,
		Get: func(v *T) (interface{}, bool) {
			return *ptr(v), true
		},
		Set: func(v *T, raw json.RawMessage) error {
			n, err := decodeInt(raw)
			if err != nil {
				return err
			}
			*ptr(v) = n
			return nil
		},
	}
}

// OptionalIntField maps an integer that may be omitted on the wire. The in-memory value
// is always populated, either from the payload or from the mapping's Defaults.
func OptionalIntField[T any](local, wire string, ptr func(v *T) *int) Field[T] {
	f := IntField(local, wire, ptr)
	f.Required = false
	return f
}

// NullableFloatField maps an optional number where nil means absent. Absent values are
// omitted on encode; a missing key or an explicit null decode to nil.
func NullableFloatField[T any](local, wire string, ptr func(v *T) **float64) Field[T] {
	return Field[T]{
		Local:    local,
		Wire:     wire,
		Kind:     KindNumber,
		Nullable: true,
		Get: func(v *T) (interface{}, bool) {
			p := *ptr(v)
			if p == nil {
				return nil, false
			}
			return *p, true
		},
		Set: func(v *T, raw json.RawMessage) error {
			var f float64
			if err := json.Unmarshal(raw, &f); err != nil {
				return err
			}
			*ptr(v) = &f
			return nil
		},
	}
}

// Float bounds of int64. 1<<63 is exact in float64, unlike math.MaxInt64.
const (
	maxInt64Float = 1 << 63
	minInt64Float = -(1 << 63)
)

// decodeInt accepts any JSON number with an integral value, e.g. 5 or 5.0. Values outside
// the range of int are rejected rather than wrapped.
func decodeInt(raw json.RawMessage) (int, error) {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, err
	}

	var i int64
	if parsed, err := n.Int64(); err == nil {
		i = parsed
	} else {
		f, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("number %s is out of range", n.String())
		}
		if f != math.Trunc(f) {
			return 0, fmt.Errorf("number %s is not an integer", n.String())
		}
		if f >= maxInt64Float || f < minInt64Float {
			return 0, fmt.Errorf("number %s is out of range", n.String())
		}
		i = int64(f)
	}

	if int64(int(i)) != i {
		return 0, fmt.Errorf("number %s is out of range", n.String())
	}
	return int(i), nil
}
