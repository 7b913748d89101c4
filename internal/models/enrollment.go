package models

import "time"

// Enrollment records that a user completed a course and whether they are
// willing to tutor it. At most one enrollment exists per (user, course).
//
// Invariant maintained by NormalizeEnrollment: show_as_tutor is true only
// when can_tutor and show_grade are both true.
type Enrollment struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"user_id"`
	CourseID    string    `db:"course_id" json:"course_id"`
	Grade       *string   `db:"grade" json:"grade,omitempty"`
	CanTutor    bool      `db:"can_tutor" json:"can_tutor"`
	ShowAsTutor bool      `db:"show_as_tutor" json:"show_as_tutor"`
	ShowGrade   bool      `db:"show_grade" json:"show_grade"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// EnrollmentDetail enriches Enrollment with its course info.
type EnrollmentDetail struct {
	Enrollment
	CoursePrefix string `db:"course_prefix" json:"course_prefix"`
	CourseNumber string `db:"course_number" json:"course_number"`
	CourseTitle  string `db:"course_title" json:"course_title"`
}

// EnrollmentPatch carries a partial enrollment update. Nil fields keep
// the existing value.
type EnrollmentPatch struct {
	Grade       *string `json:"grade"`
	CanTutor    *bool   `json:"can_tutor"`
	ShowAsTutor *bool   `json:"show_as_tutor"`
	ShowGrade   *bool   `json:"show_grade"`
}

// IsEmpty reports whether the patch carries no recognized fields.
func (p EnrollmentPatch) IsEmpty() bool {
	return p.Grade == nil && p.CanTutor == nil && p.ShowAsTutor == nil && p.ShowGrade == nil
}
