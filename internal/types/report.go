// Package types provides type definitions for structured data used throughout the bid request checker.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// Report is the serialized outcome of checking one bid request file
type Report struct {
	RunID            string         `json:"run_id"`
	Source           string         `json:"source"`
	CheckedAt        time.Time      `json:"checked_at"`
	Grade            Grade          `json:"grade"`
	Findings         Findings       `json:"findings"`
	AddedFields      []string       `json:"added_fields"`
	AnnotatedRequest map[string]any `json:"annotated_request"`
}

// ParseFailure describes a bid request file that is not valid JSON
type ParseFailure struct {
	Source          string `json:"source"`
	Message         string `json:"message"`
	SpecificMessage string `json:"specific_message,omitempty"`
	Details         string `json:"details"`
	Line            int    `json:"line,omitempty"`
	Column          int    `json:"column,omitempty"`
}
