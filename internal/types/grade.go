// Package types provides type definitions for structured data used throughout the bid request checker.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Grade is the letter grade assigned to a bid request
type Grade string

const (
	GradeAPlus Grade = "A+"
	GradeA     Grade = "A"
	GradeB     Grade = "B"
	GradeC     Grade = "C"
	GradeD     Grade = "D"
	GradeF     Grade = "F"
)

// Grades lists every grade from best to worst.
var Grades = []Grade{GradeAPlus, GradeA, GradeB, GradeC, GradeD, GradeF}

// Color returns the badge color used for the grade in reports.
func (g Grade) Color() string {
	switch g {
	case GradeAPlus:
		return "#4CAF50"
	case GradeA:
		return "#8BC34A"
	case GradeB:
		return "#CDDC39"
	case GradeC:
		return "#FFC107"
	case GradeD:
		return "#FF5722"
	default:
		return "#D32F2F"
	}
}

// Failing reports whether the grade is F.
func (g Grade) Failing() bool {
	return g == GradeF
}
