// Package audit checks bid requests against a rule catalog, annotates missing fields and grades the result.
package audit

import "errors"

var (
	// ErrNilDocument is returned when a nil document is evaluated. It lets callers tell
	// invalid input apart from a document with no findings.
	ErrNilDocument = errors.New("audit: document is nil")
	// ErrNilCatalog is returned when no rule catalog is supplied.
	ErrNilCatalog = errors.New("audit: catalog is nil")
	// ErrNilFindings is returned when annotation is asked for without findings.
	ErrNilFindings = errors.New("audit: findings are nil")
)
