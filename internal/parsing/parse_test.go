package parsing

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Valid(t *testing.T) {
	doc, err := Parse([]byte(`{"id": "req-1", "tmax": 120, "imp": [{"bidfloor": 0.5}], "regs": null}`))
	require.NoError(t, err)

	assert.Equal(t, "req-1", doc["id"])
	assert.Equal(t, json.Number("120"), doc["tmax"], "numbers keep their literal form")
	imp, ok := doc["imp"].([]any)
	require.True(t, ok)
	assert.Equal(t, json.Number("0.5"), imp[0].(map[string]any)["bidfloor"])

	value, present := doc["regs"]
	assert.True(t, present)
	assert.Nil(t, value)
}

func TestParse_ByteOrderMark(t *testing.T) {
	doc, err := Parse(append([]byte{0xEF, 0xBB, 0xBF}, []byte(`{"id": "1"}`)...))
	require.NoError(t, err)
	assert.Equal(t, "1", doc["id"])
}

func TestParse_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantHint     Hint
		wantSpecific string
		wantLine     int
		wantColumn   int
	}{
		{
			name:         "extra comma before closing brace",
			input:        "{\n  \"id\": \"1\",\n}",
			wantHint:     HintExtraComma,
			wantSpecific: "There is an extra comma at line 2. Please remove it.",
			wantLine:     2,
			wantColumn:   12,
		},
		{
			name:         "extra comma in array",
			input:        `{"cur": ["EUR",]}`,
			wantHint:     HintExtraComma,
			wantSpecific: "There is an extra comma at line 1. Please remove it.",
			wantLine:     1,
			wantColumn:   15,
		},
		{
			name:         "missing comma between members",
			input:        "{\n  \"id\": \"1\"\n  \"tmax\": 100\n}",
			wantHint:     HintMissingDelimiter,
			wantSpecific: "There is a missing ',' or '}' at line 3.",
			wantLine:     3,
			wantColumn:   3,
		},
		{
			name:         "missing comma between array elements",
			input:        `{"cur": ["EUR" "USD"]}`,
			wantHint:     HintMissingDelimiter,
			wantSpecific: "There is a missing ',' or ']' at line 1.",
			wantLine:     1,
			wantColumn:   16,
		},
		{
			name:         "truncated document",
			input:        "{\n  \"id\": \"1\"",
			wantHint:     HintUnexpectedEnd,
			wantSpecific: "The JSON ends unexpectedly at line 2. Check for a missing '}' or ']'.",
			wantLine:     2,
			wantColumn:   12,
		},
		{
			name:         "bad literal",
			input:        "{\n\"secure\": tru}",
			wantHint:     HintCheckLine,
			wantSpecific: "Please check the JSON at line 2.",
			wantLine:     2,
			wantColumn:   14,
		},
		{
			name:         "trailing data",
			input:        `{"id": "1"} {"id": "2"}`,
			wantHint:     HintCheckLine,
			wantSpecific: "Please check the JSON at line 1.",
			wantLine:     1,
			wantColumn:   13,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse([]byte(tt.input))
			require.Error(t, err)
			assert.Nil(t, doc)

			var syntaxErr *SyntaxError
			require.ErrorAs(t, err, &syntaxErr)
			assert.Equal(t, "There seems to be a syntax error in the JSON file.", syntaxErr.Message)
			assert.Equal(t, tt.wantHint, syntaxErr.Hint)
			assert.Equal(t, tt.wantSpecific, syntaxErr.Specific)
			assert.Equal(t, tt.wantLine, syntaxErr.Line)
			assert.Equal(t, tt.wantColumn, syntaxErr.Column)
			assert.NotEmpty(t, syntaxErr.Details)
		})
	}
}

func TestParse_SyntaxErrorUnwrapsDecoderError(t *testing.T) {
	_, err := Parse([]byte(`{"id": }`))
	require.Error(t, err)

	var decoderErr *json.SyntaxError
	assert.True(t, errors.As(err, &decoderErr))
	assert.Contains(t, err.Error(), "syntax error at line 1")
}

func TestParse_Empty(t *testing.T) {
	for _, input := range []string{"", "  \n\t"} {
		_, err := Parse([]byte(input))

		var syntaxErr *SyntaxError
		require.ErrorAs(t, err, &syntaxErr)
		assert.Equal(t, "The JSON is invalid. Please check the structure of the JSON file.", syntaxErr.Message)
		assert.Equal(t, "The file is empty.", syntaxErr.Specific)
		assert.Zero(t, syntaxErr.Line)
	}
}

func TestParse_NotObject(t *testing.T) {
	tests := []struct {
		input    string
		wantKind string
	}{
		{input: `[{"id": "1"}]`, wantKind: "array"},
		{input: `"bid"`, wantKind: "string"},
		{input: `42`, wantKind: "number"},
		{input: `true`, wantKind: "boolean"},
		{input: `null`, wantKind: "null"},
	}

	for _, tt := range tests {
		t.Run(tt.wantKind, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))

			var notObject *NotObjectError
			require.ErrorAs(t, err, &notObject)
			assert.Equal(t, tt.wantKind, notObject.Kind)
		})
	}
}

func TestToFailure(t *testing.T) {
	_, err := Parse([]byte("{\n  \"id\": \"1\",\n}"))
	failure := ToFailure("broken.json", err)

	assert.Equal(t, "broken.json", failure.Source)
	assert.Equal(t, "There seems to be a syntax error in the JSON file.", failure.Message)
	assert.Equal(t, "There is an extra comma at line 2. Please remove it.", failure.SpecificMessage)
	assert.Contains(t, failure.Details, "looking for beginning of object key string")
	assert.Equal(t, 2, failure.Line)
	assert.Equal(t, 12, failure.Column)
}

func TestToFailure_NotObject(t *testing.T) {
	_, err := Parse([]byte(`[]`))
	failure := ToFailure("list.json", err)

	assert.Equal(t, "The JSON is invalid. Please check the structure of the JSON file.", failure.Message)
	assert.Equal(t, "A bid request must be a JSON object, not an array.", failure.SpecificMessage)
	assert.Equal(t, "bid request must be a JSON object, got array", failure.Details)
	assert.Zero(t, failure.Line)
}

func TestToFailure_OtherError(t *testing.T) {
	failure := ToFailure("x.json", errors.New("permission denied"))

	assert.Equal(t, "The JSON is invalid. Please check the structure of the JSON file.", failure.Message)
	assert.Equal(t, "permission denied", failure.Details)
	assert.Empty(t, failure.SpecificMessage)
}

func TestPosition(t *testing.T) {
	data := []byte("ab\ncde\n")

	line, col := position(data, 0)
	assert.Equal(t, 1, line)
	assert.Equal(t, 1, col)

	line, col = position(data, 5)
	assert.Equal(t, 2, line)
	assert.Equal(t, 3, col)

	line, col = position(data, 100)
	assert.Equal(t, 3, line)
	assert.Equal(t, 1, col)
}
