package service

import (
	"strings"

	"github.com/coursematch/tutor-api/internal/models"
)

// NormalizeEnrollment applies a partial update onto an existing
// enrollment and re-derives the dependent tutor flags. Unset patch
// fields keep their current values; grades are trimmed and an empty
// result clears the grade.
//
// show_as_tutor ends up true only when can_tutor and show_grade are both
// true after the patch AND the caller (still) wants it. Omitting a field
// cannot be used to sneak past the dependency: setting can_tutor or
// show_grade to false forces show_as_tutor off regardless of what was
// requested.
//
// Pure function; the caller persists the result.
func NormalizeEnrollment(existing models.Enrollment, patch models.EnrollmentPatch) models.Enrollment {
	next := existing

	if patch.Grade != nil {
		grade := strings.TrimSpace(*patch.Grade)
		if grade == "" {
			next.Grade = nil
		} else {
			next.Grade = &grade
		}
	}
	if patch.ShowGrade != nil {
		next.ShowGrade = *patch.ShowGrade
	}
	if patch.CanTutor != nil {
		next.CanTutor = *patch.CanTutor
	}

	requested := existing.ShowAsTutor
	if patch.ShowAsTutor != nil {
		requested = *patch.ShowAsTutor
	}
	next.ShowAsTutor = next.CanTutor && next.ShowGrade && requested

	return next
}
