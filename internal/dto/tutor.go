package dto

// PublicContactMethod is a contact method as disclosed to other users.
// Only visible methods are ever projected into this shape.
type PublicContactMethod struct {
	ID          string `json:"id"`
	Platform    string `json:"platform"`
	Identifier  string `json:"identifier"`
	IsPreferred bool   `json:"is_preferred"`
}

// TutorCourse is one course a tutor offers on their public profile.
type TutorCourse struct {
	EnrollmentID string  `json:"enrollment_id"`
	CourseID     string  `json:"course_id"`
	Prefix       string  `json:"prefix"`
	Number       string  `json:"number"`
	Title        string  `json:"title"`
	Grade        *string `json:"grade,omitempty"`
}

// CourseTutor is one tutor entry in a course's public tutor listing.
// Grade is present only when both the enrollment and the user consent
// to sharing it.
type CourseTutor struct {
	EnrollmentID   string                `json:"enrollment_id"`
	UserID         string                `json:"user_id"`
	Name           *string               `json:"name,omitempty"`
	Major          *string               `json:"major,omitempty"`
	Year           *string               `json:"year,omitempty"`
	Bio            *string               `json:"bio,omitempty"`
	Grade          *string               `json:"grade,omitempty"`
	ContactMethods []PublicContactMethod `json:"contact_methods"`
}

// CourseTutorListing is the public tutor list for one course.
type CourseTutorListing struct {
	CourseID string        `json:"course_id"`
	Prefix   string        `json:"prefix"`
	Number   string        `json:"number"`
	Title    string        `json:"title"`
	Tutors   []CourseTutor `json:"tutors"`
}

// TutorProfile is a tutor's public profile page: profile fields gated by
// the user's privacy toggles plus the courses they offer.
type TutorProfile struct {
	UserID         string                `json:"user_id"`
	Name           *string               `json:"name,omitempty"`
	Major          *string               `json:"major,omitempty"`
	Year           *string               `json:"year,omitempty"`
	Bio            *string               `json:"bio,omitempty"`
	PhoneNumber    *string               `json:"phone_number,omitempty"`
	MeetingPrefs   *string               `json:"meeting_prefs,omitempty"`
	ContactMethods []PublicContactMethod `json:"contact_methods"`
	Courses        []TutorCourse         `json:"courses"`
}
