package wire

import (
	"bytes"
	"encoding/json"
	"fmt"

	"therapy-recommendations/internal/common/errors"
	"therapy-recommendations/internal/common/validation"
)

// Marshal encodes v as a JSON object whose keys follow the table order of m.
func Marshal[T any](m *Mapping[T], v *T) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	first := true
	for _, f := range m.Fields {
		value, ok := f.Get(v)
		if !ok {
			continue
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, errors.NewEncodeFailedError(m.Name, f.Wire, err)
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false

		key, _ := json.Marshal(f.Wire)
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(encoded)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Unmarshal decodes data into v. Required fields that are missing or have the wrong type
// fail with a malformed payload error; v is only written when decoding succeeds.
func Unmarshal[T any](m *Mapping[T], data []byte, v *T) error {
	if !json.Valid(data) {
		var probe interface{}
		return errors.NewInvalidJSONError(m.Name, json.Unmarshal(data, &probe))
	}

	schema, err := m.schema()
	if err != nil {
		return errors.NewInternalError(fmt.Errorf("schema for %s: %w", m.Name, err))
	}

	result, err := schema.Validate(data)
	if err != nil {
		return errors.NewInvalidJSONError(m.Name, err)
	}
	if !result.Valid {
		return errors.NewMalformedPayloadError(m.Name, toViolations(result.Errors))
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.NewInvalidJSONError(m.Name, err)
	}

	var out T
	if m.Defaults != nil {
		m.Defaults(&out)
	}

	var violations []errors.Violation
	for _, f := range m.Fields {
		value, present := raw[f.Wire]
		if !present || isNull(value) {
			continue
		}
		if err := f.Set(&out, value); err != nil {
			violations = append(violations, nestedViolations(f.Wire, err)...)
		}
	}
	if len(violations) > 0 {
		return errors.NewMalformedPayloadError(m.Name, violations)
	}

	*v = out
	return nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func toViolations(errs []validation.ValidationError) []errors.Violation {
	violations := make([]errors.Violation, 0, len(errs))
	for _, e := range errs {
		violations = append(violations, errors.Violation{
			Field:   e.Field,
			Message: e.Message,
			Code:    e.Code,
		})
	}
	return violations
}

// nestedViolations reports a Set failure against the wire field. Malformed nested payloads
// keep their own violations, prefixed with the field path.
func nestedViolations(field string, err error) []errors.Violation {
	if errors.IsMalformedPayload(err) {
		nested := errors.Normalize(err).Violations
		out := make([]errors.Violation, 0, len(nested))
		for _, v := range nested {
			v.Field = field + "." + v.Field
			out = append(out, v)
		}
		return out
	}
	return []errors.Violation{{
		Field:   field,
		Message: err.Error(),
		Code:    errors.ViolationInvalidType,
	}}
}
