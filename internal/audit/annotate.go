// Package audit checks bid requests against a rule catalog, annotates missing fields and grades the result.
package audit

import (
	"fmt"
	"strings"

	"github.com/jonathan/bidrequest-checker/internal/document"
	"github.com/jonathan/bidrequest-checker/internal/types"
)

// Annotation is a copy of a bid request with placeholders written for missing fields
type Annotation struct {
	Document    document.Document
	AddedFields []string // Paths written, in insertion order
}

// Placeholder returns the marker written for a missing field. Report renderers
// match on the __<severity>__ token, so the format must not change.
func Placeholder(path string, severity types.Severity) string {
	return fmt.Sprintf("This field (%s) is __%s__", path, severity)
}

// MarkerToken returns the token embedded in placeholders for a severity.
func MarkerToken(severity types.Severity) string {
	return "__" + string(severity) + "__"
}

// IsPlaceholder reports whether v is a placeholder written by Annotate.
func IsPlaceholder(v any) bool {
	s, ok := v.(string)
	if !ok || !strings.HasPrefix(s, "This field (") {
		return false
	}
	for _, severity := range []types.Severity{types.SeverityRequired, types.SeverityRecommended, types.SeverityInteresting} {
		if strings.HasSuffix(s, ") is "+MarkerToken(severity)) {
			return true
		}
	}
	return false
}

// Annotate writes a placeholder into a deep copy of doc for every missing field,
// mandatory first, then recommended, then interesting. Presence is checked again
// on the copy before each write because earlier writes can create containers.
// Paths blocked by an existing scalar are skipped and not reported as added.
func Annotate(doc document.Document, findings *types.Findings) (*Annotation, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}
	if findings == nil {
		return nil, ErrNilFindings
	}

	annotated := document.Clone(doc)
	added := []string{}

	for _, severity := range []types.Severity{types.SeverityRequired, types.SeverityRecommended, types.SeverityInteresting} {
		for _, finding := range findings.Missing(severity) {
			if document.Has(annotated, finding.Name) {
				continue
			}
			if err := document.Set(annotated, finding.Name, Placeholder(finding.Name, severity)); err != nil {
				continue
			}
			added = append(added, finding.Name)
		}
	}

	return &Annotation{Document: annotated, AddedFields: added}, nil
}

// AnnotateAndGrade annotates doc and grades findings.
func AnnotateAndGrade(doc document.Document, findings *types.Findings) (*Annotation, types.Grade, error) {
	annotation, err := Annotate(doc, findings)
	if err != nil {
		return nil, "", err
	}
	return annotation, ComputeGrade(findings), nil
}
