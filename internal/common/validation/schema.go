package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Error codes attached to each ValidationError.
const (
	CodeRequiredFieldMissing = "REQUIRED_FIELD_MISSING"
	CodeInvalidType          = "INVALID_TYPE"
	CodeSchemaViolation      = "SCHEMA_VIOLATION"
)

const rootField = "(root)"

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Schema is a compiled JSON schema, safe for concurrent use.
type Schema struct {
	compiled *gojsonschema.Schema
}

// Compile compiles a JSON schema given as a Go map.
func Compile(schemaMap map[string]interface{}) (*Schema, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schemaMap))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Schema{compiled: compiled}, nil
}

// Validate validates a raw JSON document against the schema. An error is returned only when
// the document could not be validated at all (e.g. it is not JSON).
func (s *Schema) Validate(document []byte) (*ValidationResult, error) {
	result, err := s.compiled.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}
	return fromResult(result), nil
}

// ValidateDocument compiles schemaMap and validates document against it.
func ValidateDocument(schemaMap map[string]interface{}, document []byte) (*ValidationResult, error) {
	schema, err := Compile(schemaMap)
	if err != nil {
		return nil, err
	}
	return schema.Validate(document)
}

func fromResult(result *gojsonschema.Result) *ValidationResult {
	errs := []ValidationError{}
	for _, desc := range result.Errors() {
		errs = append(errs, ValidationError{
			Field:   fieldPath(desc),
			Message: desc.Description(),
			Code:    codeFor(desc.Type()),
		})
	}
	return &ValidationResult{
		Valid:  result.Valid() && len(errs) == 0,
		Errors: errs,
	}
}

// fieldPath returns the wire path of the offending field. Required errors are reported
// against the enclosing object, so the missing property is appended.
func fieldPath(desc gojsonschema.ResultError) string {
	path := strings.TrimPrefix(desc.Context().String(), rootField)
	path = strings.TrimPrefix(path, ".")

	if desc.Type() == "required" {
		if property, ok := desc.Details()["property"].(string); ok {
			if path == "" {
				return property
			}
			return path + "." + property
		}
	}

	if path == "" {
		return rootField
	}
	return path
}

func codeFor(errType string) string {
	switch errType {
	case "required":
		return CodeRequiredFieldMissing
	case "invalid_type":
		return CodeInvalidType
	default:
		return CodeSchemaViolation
	}
}
