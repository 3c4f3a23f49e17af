// Package parsing decodes bid request files and explains JSON syntax errors.
package parsing

import "fmt"

// Hint classifies a JSON syntax error for the error report
type Hint string

const (
	HintExtraComma       Hint = "extra_comma"
	HintMissingDelimiter Hint = "missing_delimiter"
	HintUnexpectedEnd    Hint = "unexpected_end"
	HintCheckLine        Hint = "check_line"
)

// SyntaxError represents a bid request file that is not well-formed JSON
type SyntaxError struct {
	Message  string // Generic message shown as the report title
	Specific string // Hint pointing at the offending line, may be empty
	Hint     Hint
	Details  string // Raw decoder message
	Line     int    // 1-based
	Column   int    // 1-based
	Offset   int64
	Cause    error
}

func (e *SyntaxError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("syntax error at line %d, column %d: %s", e.Line, e.Column, e.Details)
	}
	return fmt.Sprintf("syntax error: %s", e.Details)
}

func (e *SyntaxError) Unwrap() error {
	return e.Cause
}

// NotObjectError represents well-formed JSON whose top-level value is not an object
type NotObjectError struct {
	Kind string
}

func (e *NotObjectError) Error() string {
	return fmt.Sprintf("bid request must be a JSON object, got %s", e.Kind)
}
