package parsing

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/bidrequest-checker/internal/document"
	"github.com/jonathan/bidrequest-checker/internal/types"
)

const (
	syntaxMessage  = "There seems to be a syntax error in the JSON file."
	invalidMessage = "The JSON is invalid. Please check the structure of the JSON file."
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parse decodes a bid request. Numbers are kept as json.Number so that
// integers are written back unchanged in the annotated request.
func Parse(data []byte) (document.Document, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, classify(data, err)
	}

	if pos := skipSpace(data, int(dec.InputOffset())); pos < len(data) {
		line, col := position(data, pos)
		return nil, &SyntaxError{
			Message:  syntaxMessage,
			Specific: checkLine(line),
			Hint:     HintCheckLine,
			Details:  fmt.Sprintf("invalid character %q after top-level value", rune(data[pos])),
			Line:     line,
			Column:   col,
			Offset:   int64(pos),
		}
	}

	obj, ok := value.(map[string]any)
	if !ok {
		return nil, &NotObjectError{Kind: kindOf(value)}
	}
	return document.Document(obj), nil
}

// classify turns a decoder error into a SyntaxError with a hint for the user.
func classify(data []byte, err error) *SyntaxError {
	var syntaxErr *json.SyntaxError
	switch {
	case errors.As(err, &syntaxErr):
		pos := clamp(int(syntaxErr.Offset)-1, len(data))
		details := syntaxErr.Error()

		if pos < len(data) && (data[pos] == '}' || data[pos] == ']') {
			if comma := prevSignificant(data, pos); comma >= 0 && data[comma] == ',' {
				line, col := position(data, comma)
				return &SyntaxError{
					Message:  syntaxMessage,
					Specific: fmt.Sprintf("There is an extra comma at line %d. Please remove it.", line),
					Hint:     HintExtraComma,
					Details:  details,
					Line:     line,
					Column:   col,
					Offset:   syntaxErr.Offset,
					Cause:    err,
				}
			}
		}

		line, col := position(data, pos)
		e := &SyntaxError{
			Message: syntaxMessage,
			Details: details,
			Line:    line,
			Column:  col,
			Offset:  syntaxErr.Offset,
			Cause:   err,
		}
		switch {
		case strings.Contains(details, "after object key:value pair"):
			e.Hint = HintMissingDelimiter
			e.Specific = fmt.Sprintf("There is a missing ',' or '}' at line %d.", line)
		case strings.Contains(details, "after array element"):
			e.Hint = HintMissingDelimiter
			e.Specific = fmt.Sprintf("There is a missing ',' or ']' at line %d.", line)
		default:
			e.Hint = HintCheckLine
			e.Specific = checkLine(line)
		}
		return e

	case errors.Is(err, io.ErrUnexpectedEOF):
		line, col := position(data, len(data))
		return &SyntaxError{
			Message:  syntaxMessage,
			Specific: fmt.Sprintf("The JSON ends unexpectedly at line %d. Check for a missing '}' or ']'.", line),
			Hint:     HintUnexpectedEnd,
			Details:  "unexpected end of JSON input",
			Line:     line,
			Column:   col,
			Offset:   int64(len(data)),
			Cause:    err,
		}

	case errors.Is(err, io.EOF):
		return &SyntaxError{
			Message:  invalidMessage,
			Specific: "The file is empty.",
			Hint:     HintUnexpectedEnd,
			Details:  "empty input",
			Cause:    err,
		}

	default:
		return &SyntaxError{Message: invalidMessage, Details: err.Error(), Cause: err}
	}
}

// ToFailure describes a Parse error for the error report.
func ToFailure(source string, err error) types.ParseFailure {
	failure := types.ParseFailure{Source: source, Message: invalidMessage}
	if err == nil {
		return failure
	}
	failure.Details = err.Error()

	var syntaxErr *SyntaxError
	var notObject *NotObjectError
	switch {
	case errors.As(err, &syntaxErr):
		failure.Message = syntaxErr.Message
		failure.SpecificMessage = syntaxErr.Specific
		failure.Details = syntaxErr.Details
		failure.Line = syntaxErr.Line
		failure.Column = syntaxErr.Column
	case errors.As(err, &notObject):
		failure.SpecificMessage = fmt.Sprintf("A bid request must be a JSON object, not %s.", article(notObject.Kind))
	}
	return failure
}

func checkLine(line int) string {
	return fmt.Sprintf("Please check the JSON at line %d.", line)
}

// position returns the 1-based line and column of byte offset pos.
func position(data []byte, pos int) (line, col int) {
	pos = clamp(pos, len(data))
	before := data[:pos]
	line = 1 + bytes.Count(before, []byte{'\n'})
	col = pos - bytes.LastIndexByte(before, '\n')
	return line, col
}

func prevSignificant(data []byte, pos int) int {
	for i := pos - 1; i >= 0; i-- {
		if !isSpace(data[i]) {
			return i
		}
	}
	return -1
}

func skipSpace(data []byte, pos int) int {
	for pos < len(data) && isSpace(data[pos]) {
		pos++
	}
	return pos
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func clamp(pos, n int) int {
	if pos < 0 {
		return 0
	}
	if pos > n {
		return n
	}
	return pos
}

func kindOf(v any) string {
	switch v.(type) {
	case []any:
		return "array"
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "boolean"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func article(kind string) string {
	switch kind {
	case "array":
		return "an array"
	case "null":
		return "null"
	default:
		return "a " + kind
	}
}
