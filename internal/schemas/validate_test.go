package schemas

import (
	"testing"

	embedded "github.com/jonathan/bidrequest-checker/schemas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validReport = `{
	"run_id": "0b7f3c9e-7f1b-4a44-a3c1-1f2f0a0b4c11",
	"source": "request.json",
	"checked_at": "2024-05-01T10:00:00Z",
	"grade": "C",
	"findings": {
		"missing_mandatory": [],
		"missing_recommended": [
			{"name": "imp[0].bidfloor", "type": "float", "description": "Minimum bid floor."}
		],
		"missing_interesting": [],
		"improvements": []
	},
	"added_fields": ["imp[0].bidfloor"],
	"annotated_request": {"id": "1"}
}`

func TestValidateBytes_ValidReport(t *testing.T) {
	err := ValidateBytes(embedded.Report, []byte(validReport))
	assert.NoError(t, err)
}

func TestValidateBytes_InvalidGrade(t *testing.T) {
	content := []byte(`{
		"run_id": "r",
		"source": "request.json",
		"checked_at": "2024-05-01T10:00:00Z",
		"grade": "E",
		"findings": {"missing_mandatory": [], "missing_recommended": [], "missing_interesting": [], "improvements": []},
		"added_fields": [],
		"annotated_request": {}
	}`)

	err := ValidateBytes(embedded.Report, content)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "error should be ValidationError type")
	assert.Equal(t, embedded.Report, validationErr.Schema)
	assert.Greater(t, len(validationErr.Errors), 0)
	assert.Contains(t, err.Error(), "grade")
}

func TestValidateValue_Catalog(t *testing.T) {
	tests := []struct {
		name      string
		value     map[string]any
		wantError bool
	}{
		{
			name: "minimal catalog",
			value: map[string]any{
				"mandatory": []any{
					map[string]any{"path": "id", "type": "string", "description": "Request ID."},
				},
				"recommended": []any{},
				"interesting": []any{},
			},
		},
		{
			name: "unknown rule type",
			value: map[string]any{
				"mandatory": []any{
					map[string]any{"path": "id", "type": "uuid", "description": "Request ID."},
				},
				"recommended": []any{},
				"interesting": []any{},
			},
			wantError: true,
		},
		{
			name: "missing tiers",
			value: map[string]any{
				"mandatory": []any{
					map[string]any{"path": "id", "type": "string", "description": "Request ID."},
				},
			},
			wantError: true,
		},
		{
			name: "lowercase country code",
			value: map[string]any{
				"mandatory": []any{
					map[string]any{"path": "id", "type": "string", "description": "Request ID."},
				},
				"recommended": []any{},
				"interesting": []any{},
				"region": map[string]any{
					"name":            "GDPR",
					"country_path":    "device.geo.country",
					"countries":       []any{"fra"},
					"compliant_value": 1,
					"flag":            map[string]any{"path": "regs.ext.gdpr", "type": "integer", "description": "Flag."},
					"consent":         map[string]any{"path": "user.ext.consent", "type": "string", "description": "Consent."},
					"advisory":        "Set the flag.",
				},
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateValue(embedded.Catalog, tt.value)
			if tt.wantError {
				require.Error(t, err)
				_, ok := err.(*ValidationError)
				assert.True(t, ok, "error should be ValidationError, got %T", err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateValue_UnknownSchema(t *testing.T) {
	err := ValidateValue("missing.schema.json", map[string]any{})
	require.Error(t, err)

	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, err.Error(), "missing.schema.json")
}

func TestValidateJSONString_Valid(t *testing.T) {
	schemaContent := `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["name"],
		"properties": {
			"name": {"type": "string"}
		}
	}`

	err := ValidateJSONString(schemaContent, `{"name": "test"}`)
	assert.NoError(t, err)
}

func TestValidateJSONString_Invalid(t *testing.T) {
	schemaContent := `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["name"],
		"properties": {
			"name": {"type": "string"}
		}
	}`

	err := ValidateJSONString(schemaContent, `{"age": 30}`)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Errors: []FieldError{
			{Field: "name", Message: "is required"},
			{Field: "age", Message: "must be a number"},
		},
	}

	errorMsg := err.Error()
	assert.Contains(t, errorMsg, "validation failed")
	assert.Contains(t, errorMsg, "name")
	assert.Contains(t, errorMsg, "age")
}
