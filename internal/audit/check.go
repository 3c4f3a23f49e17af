// Package audit checks bid requests against a rule catalog, annotates missing fields and grades the result.
package audit

import (
	"github.com/jonathan/bidrequest-checker/internal/document"
	"github.com/jonathan/bidrequest-checker/internal/rules"
	"github.com/jonathan/bidrequest-checker/internal/types"
)

// Result is the full outcome of checking one bid request
type Result struct {
	Findings   *types.Findings
	Annotation *Annotation
	Grade      types.Grade
}

// Check evaluates doc against catalog, then annotates and grades it.
// doc itself is never modified.
func Check(doc document.Document, catalog *rules.Catalog) (*Result, error) {
	findings, err := Evaluate(doc, catalog)
	if err != nil {
		return nil, err
	}
	annotation, grade, err := AnnotateAndGrade(doc, findings)
	if err != nil {
		return nil, err
	}
	return &Result{Findings: findings, Annotation: annotation, Grade: grade}, nil
}
