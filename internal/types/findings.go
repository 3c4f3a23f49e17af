// Package types provides type definitions for structured data used throughout the bid request checker.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Severity is the tier a missing field belongs to.
type Severity string

const (
	SeverityRequired    Severity = "required"
	SeverityRecommended Severity = "recommended"
	SeverityInteresting Severity = "interesting"
)

// Finding represents one missing or improvable field of a bid request
type Finding struct {
	Name        string `json:"name"` // Fully resolved path, e.g. imp[1].bidfloor
	Type        string `json:"type"`
	Description string `json:"description"`
}

// Findings holds the four classified lists produced by one evaluation
type Findings struct {
	MissingMandatory   []Finding `json:"missing_mandatory"`
	MissingRecommended []Finding `json:"missing_recommended"`
	MissingInteresting []Finding `json:"missing_interesting"`
	Improvements       []Finding `json:"improvements"`
}

// NewFindings returns Findings with empty, non-nil lists so they serialize as [].
func NewFindings() *Findings {
	return &Findings{
		MissingMandatory:   []Finding{},
		MissingRecommended: []Finding{},
		MissingInteresting: []Finding{},
		Improvements:       []Finding{},
	}
}

// Missing returns the missing-field list for a severity tier.
func (f *Findings) Missing(severity Severity) []Finding {
	switch severity {
	case SeverityRequired:
		return f.MissingMandatory
	case SeverityRecommended:
		return f.MissingRecommended
	case SeverityInteresting:
		return f.MissingInteresting
	default:
		return nil
	}
}

// Total returns the number of missing fields across all three tiers.
func (f *Findings) Total() int {
	return len(f.MissingMandatory) + len(f.MissingRecommended) + len(f.MissingInteresting)
}
