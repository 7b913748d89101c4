package models

import "time"

// UserRole represents the available roles for access control.
type UserRole string

const (
	RoleStudent UserRole = "STUDENT"
	RoleAdmin   UserRole = "ADMIN"
)

// User represents an application user stored in the users table.
// Profile fields are nullable; the privacy toggles gate what other
// students may see of them.
type User struct {
	ID               string    `db:"id" json:"id"`
	Email            string    `db:"email" json:"email"`
	PasswordHash     string    `db:"password_hash" json:"-"`
	Name             *string   `db:"name" json:"name,omitempty"`
	Role             UserRole  `db:"role" json:"role"`
	Major            *string   `db:"major" json:"major,omitempty"`
	Year             *string   `db:"year" json:"year,omitempty"`
	Bio              *string   `db:"bio" json:"bio,omitempty"`
	PhoneNumber      *string   `db:"phone_number" json:"phone_number,omitempty"`
	PhoneVisible     bool      `db:"phone_visible" json:"phone_visible"`
	MeetingPrefs     *string   `db:"meeting_prefs" json:"meeting_prefs,omitempty"`
	ShowGrades       bool      `db:"show_grades" json:"show_grades"`
	ShowCourses      bool      `db:"show_courses" json:"show_courses"`
	ShowTutorProfile bool      `db:"show_tutor_profile" json:"show_tutor_profile"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// ProfilePatch carries the fields a user may edit on their own profile.
// Nil means "leave unchanged"; provided strings are trimmed and empty
// results stored as NULL.
type ProfilePatch struct {
	Name             *string `json:"name"`
	Major            *string `json:"major"`
	Year             *string `json:"year"`
	Bio              *string `json:"bio"`
	PhoneNumber      *string `json:"phone_number"`
	PhoneVisible     *bool   `json:"phone_visible"`
	MeetingPrefs     *string `json:"meeting_prefs"`
	ShowGrades       *bool   `json:"show_grades"`
	ShowCourses      *bool   `json:"show_courses"`
	ShowTutorProfile *bool   `json:"show_tutor_profile"`
}

// IsEmpty reports whether the patch carries no recognized fields.
func (p ProfilePatch) IsEmpty() bool {
	return p.Name == nil && p.Major == nil && p.Year == nil && p.Bio == nil &&
		p.PhoneNumber == nil && p.PhoneVisible == nil && p.MeetingPrefs == nil &&
		p.ShowGrades == nil && p.ShowCourses == nil && p.ShowTutorProfile == nil
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
