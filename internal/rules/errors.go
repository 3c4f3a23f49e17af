// Package rules defines the field rule catalog that bid requests are checked against.
package rules

import "fmt"

// CatalogError represents a rule catalog that cannot be loaded or fails validation
type CatalogError struct {
	Message string
	Cause   error
}

func (e *CatalogError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("catalog error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("catalog error: %s", e.Message)
}

func (e *CatalogError) Unwrap() error {
	return e.Cause
}
