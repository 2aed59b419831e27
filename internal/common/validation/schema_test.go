package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func taskListSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"recommendations": map[string]interface{}{
				"type": "array",
				"items": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"title":      map[string]interface{}{"type": "string"},
						"similarity": map[string]interface{}{"type": []string{"number", "null"}},
					},
					"required": []string{"title"},
				},
			},
			"top_n": map[string]interface{}{"type": "integer"},
		},
		"required": []string{"recommendations"},
	}
}

func TestValidateDocument(t *testing.T) {
	tests := []struct {
		name       string
		document   string
		valid      bool
		field      string
		code       string
		errorCount int
	}{
		{
			name:     "valid document",
			document: `{"recommendations":[{"title":"Sorting Game","similarity":0.87}]}`,
			valid:    true,
		},
		{
			name:     "null similarity is allowed",
			document: `{"recommendations":[{"title":"Sorting Game","similarity":null}]}`,
			valid:    true,
		},
		{
			name:       "missing root field",
			document:   `{}`,
			field:      "recommendations",
			code:       CodeRequiredFieldMissing,
			errorCount: 1,
		},
		{
			name:       "missing nested field",
			document:   `{"recommendations":[{"similarity":0.5}]}`,
			field:      "recommendations.0.title",
			code:       CodeRequiredFieldMissing,
			errorCount: 1,
		},
		{
			name:       "wrong type",
			document:   `{"recommendations":[],"top_n":"five"}`,
			field:      "top_n",
			code:       CodeInvalidType,
			errorCount: 1,
		},
		{
			name:       "fractional integer",
			document:   `{"recommendations":[],"top_n":2.5}`,
			field:      "top_n",
			code:       CodeInvalidType,
			errorCount: 1,
		},
		{
			name:       "root is not an object",
			document:   `[1,2,3]`,
			field:      "(root)",
			code:       CodeInvalidType,
			errorCount: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ValidateDocument(taskListSchema(), []byte(tt.document))
			require.NoError(t, err)

			assert.Equal(t, tt.valid, result.Valid)
			if tt.valid {
				assert.Empty(t, result.Errors)
				return
			}

			require.Len(t, result.Errors, tt.errorCount)
			assert.True(t, hasField(result, tt.field), "errors: %+v", result.Errors)
			assert.Equal(t, tt.code, result.Errors[0].Code)
		})
	}
}

func TestValidateDocument_InvalidJSON(t *testing.T) {
	_, err := ValidateDocument(taskListSchema(), []byte(`{"recommendations": [`))
	assert.Error(t, err)
}

func TestSchema_ReusableAcrossDocuments(t *testing.T) {
	schema, err := Compile(taskListSchema())
	require.NoError(t, err)

	first, err := schema.Validate([]byte(`{"recommendations":[]}`))
	require.NoError(t, err)
	assert.True(t, first.Valid)

	second, err := schema.Validate([]byte(`{"recommendations":[{}]}`))
	require.NoError(t, err)
	assert.False(t, second.Valid)
	require.Len(t, second.Errors, 1)
	assert.Equal(t, "recommendations.0.title", second.Errors[0].Field)
}

func hasField(result *ValidationResult, field string) bool {
	for _, e := range result.Errors {
		if e.Field == field {
			return true
		}
	}
	return false
}
