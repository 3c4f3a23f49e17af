// Package audit checks bid requests against a rule catalog, annotates missing fields and grades the result.
package audit

import "github.com/jonathan/bidrequest-checker/internal/types"

// ComputeGrade derives the grade from the finding counts. Any missing mandatory
// field fails the request. Otherwise the grade drops with the number of missing
// recommended fields; missing interesting fields only separate A+ from A, and
// improvement advisories never count.
func ComputeGrade(findings *types.Findings) types.Grade {
	if findings == nil {
		return types.GradeF
	}
	if len(findings.MissingMandatory) > 0 {
		return types.GradeF
	}

	recommended := len(findings.MissingRecommended)
	interesting := len(findings.MissingInteresting)

	switch {
	case recommended == 0 && interesting == 0:
		return types.GradeAPlus
	case recommended == 0:
		return types.GradeA
	case recommended <= 1:
		return types.GradeB
	case recommended <= 3:
		return types.GradeC
	case recommended <= 5:
		return types.GradeD
	default:
		return types.GradeF
	}
}
