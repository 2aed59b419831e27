// Package wire encodes and decodes payloads through explicit per-type field tables.
//
// Each payload type declares a Mapping: an ordered list of fields pairing the in-memory
// name with the wire name, together with the JSON kind, whether the field is required,
// and accessor functions. The same table drives encoding, decoding, and the JSON schema
// used to reject malformed payloads, so the name mapping is visible and testable without
// relying on struct tags.
package wire

import (
	"encoding/json"
	"sync"

	"therapy-recommendations/internal/common/validation"
)

// Kind is the JSON type of a wire field.
type Kind string

const (
	KindString  Kind = "string"
	KindInteger Kind = "integer"
	KindNumber  Kind = "number"
	KindArray   Kind = "array"
	KindObject  Kind = "object"
)

// SchemaSource provides the JSON schema of a nested payload.
type SchemaSource interface {
	Schema() map[string]interface{}
}

// Field maps one in-memory field of T to its wire representation.
type Field[T any] struct {
	Local    string
	Wire     string
	Kind     Kind
	Required bool
	// Nullable fields accept an explicit JSON null, which decodes to "absent".
	Nullable bool
	// Items describes array elements.
	Items SchemaSource

	// Get returns the wire value; false omits the field from the encoded object.
	Get func(v *T) (interface{}, bool)
	// Set decodes a present, non-null wire value into v.
	Set func(v *T, raw json.RawMessage) error
}

// Mapping is the field table of a payload type. A Mapping must not be copied after first use.
type Mapping[T any] struct {
	Name   string
	Fields []Field[T]
	// Defaults populates optional fields before decoding.
	Defaults func(v *T)

	once     sync.Once
	compiled *validation.Schema
	err      error
}

// Schema returns the JSON schema generated from the field table. Unknown properties are
// allowed so that backends may add fields without breaking older clients.
func (m *Mapping[T]) Schema() map[string]interface{} {
	properties := make(map[string]interface{}, len(m.Fields))
	required := make([]string, 0, len(m.Fields))

	for _, f := range m.Fields {
		prop := map[string]interface{}{"type": string(f.Kind)}
		if f.Nullable {
			prop["type"] = []string{string(f.Kind), "null"}
		}
		if f.Kind == KindArray && f.Items != nil {
			prop["items"] = f.Items.Schema()
		}
		properties[f.Wire] = prop
		if f.Required {
			required = append(required, f.Wire)
		}
	}

	schema := map[string]interface{}{
		"title":                m.Name,
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": true,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// Document returns Schema as a standalone draft-07 JSON schema document.
func (m *Mapping[T]) Document() map[string]interface{} {
	doc := m.Schema()
	doc["$schema"] = "http://json-schema.org/draft-07/schema#"
	return doc
}

// Pairs returns the (local, wire) name table in declaration order.
func (m *Mapping[T]) Pairs() [][2]string {
	pairs := make([][2]string, 0, len(m.Fields))
	for _, f := range m.Fields {
		pairs = append(pairs, [2]string{f.Local, f.Wire})
	}
	return pairs
}

// WireName returns the wire name of a local field.
func (m *Mapping[T]) WireName(local string) (string, bool) {
	for _, f := range m.Fields {
		if f.Local == local {
			return f.Wire, true
		}
	}
	return "", false
}

// LocalName returns the local name of a wire field.
func (m *Mapping[T]) LocalName(wire string) (string, bool) {
	for _, f := range m.Fields {
		if f.Wire == wire {
			return f.Local, true
		}
	}
	return "", false
}

func (m *Mapping[T]) schema() (*validation.Schema, error) {
	m.once.Do(func() {
		m.compiled, m.err = validation.Compile(m.Schema())
	})
	return m.compiled, m.err
}
