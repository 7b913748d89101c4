package service

import (
	"sort"

	"github.com/coursematch/tutor-api/internal/dto"
	"github.com/coursematch/tutor-api/internal/models"
)

// Visibility rules for disclosing user, enrollment and contact data to
// viewers other than the owner. Each field is gated independently; a
// viewer seeing their own record bypasses redaction entirely. Admins get
// no bypass here: the per-user privacy toggles apply to them too.

// IncludedInTutorListing reports whether an enrollment appears in a
// course's public tutor list. The user-level toggle wins over any
// per-enrollment flags.
func IncludedInTutorListing(user models.User, enrollment models.Enrollment) bool {
	return enrollment.CanTutor && enrollment.ShowAsTutor && user.ShowTutorProfile
}

// GradeVisible reports whether an enrollment's grade may be disclosed.
// Both the enrollment-level and user-level consents must hold.
func GradeVisible(user models.User, enrollment models.Enrollment) bool {
	return enrollment.ShowGrade && user.ShowGrades
}

// ProjectContactMethods returns the contact methods a non-owner viewer
// may see: visible ones only, ordered preferred-first then by creation
// time ascending. The owner gets every method, same ordering.
func ProjectContactMethods(methods []models.ContactMethod, ownerID string, viewer *models.JWTClaims) []dto.PublicContactMethod {
	owner := viewer.IsOwner(ownerID)

	filtered := make([]models.ContactMethod, 0, len(methods))
	for _, m := range methods {
		if owner || m.Visible {
			filtered = append(filtered, m)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].IsPreferred != filtered[j].IsPreferred {
			return filtered[i].IsPreferred
		}
		return filtered[i].CreatedAt.Before(filtered[j].CreatedAt)
	})

	out := make([]dto.PublicContactMethod, 0, len(filtered))
	for _, m := range filtered {
		out = append(out, dto.PublicContactMethod{
			ID:          m.ID,
			Platform:    m.Platform,
			Identifier:  m.Identifier,
			IsPreferred: m.IsPreferred,
		})
	}
	return out
}

// ProjectCourseTutor builds the public listing entry for one tutor
// enrollment, or nil when the enrollment may not be listed. Bio, major
// and year ride along once the listing test passes; the grade field is
// still gated separately. Owner viewers get their grade regardless of
// the consent flags.
func ProjectCourseTutor(user models.User, enrollment models.Enrollment, methods []models.ContactMethod, viewer *models.JWTClaims) *dto.CourseTutor {
	if !IncludedInTutorListing(user, enrollment) {
		return nil
	}

	tutor := &dto.CourseTutor{
		EnrollmentID:   enrollment.ID,
		UserID:         user.ID,
		Name:           user.Name,
		Major:          user.Major,
		Year:           user.Year,
		Bio:            user.Bio,
		ContactMethods: ProjectContactMethods(methods, user.ID, viewer),
	}
	if viewer.IsOwner(user.ID) || GradeVisible(user, enrollment) {
		tutor.Grade = enrollment.Grade
	}
	return tutor
}

// ProjectTutorProfile builds a tutor's public profile page, or nil when
// the profile is hidden. Hidden profiles and unknown users are
// indistinguishable to callers. The whole tutor profile is visible or it
// isn't; there is no per-course hidden state beyond the listing flags.
func ProjectTutorProfile(user models.User, enrollments []models.EnrollmentDetail, methods []models.ContactMethod, viewer *models.JWTClaims) *dto.TutorProfile {
	owner := viewer.IsOwner(user.ID)
	if !user.ShowTutorProfile && !owner {
		return nil
	}

	profile := &dto.TutorProfile{
		UserID:         user.ID,
		Name:           user.Name,
		Major:          user.Major,
		Year:           user.Year,
		Bio:            user.Bio,
		MeetingPrefs:   user.MeetingPrefs,
		ContactMethods: ProjectContactMethods(methods, user.ID, viewer),
		Courses:        make([]dto.TutorCourse, 0, len(enrollments)),
	}
	if owner || user.PhoneVisible {
		profile.PhoneNumber = user.PhoneNumber
	}

	for _, e := range enrollments {
		if !owner && !(e.CanTutor && e.ShowAsTutor) {
			continue
		}
		course := dto.TutorCourse{
			EnrollmentID: e.ID,
			CourseID:     e.CourseID,
			Prefix:       e.CoursePrefix,
			Number:       e.CourseNumber,
			Title:        e.CourseTitle,
		}
		if owner || GradeVisible(user, e.Enrollment) {
			course.Grade = e.Grade
		}
		profile.Courses = append(profile.Courses, course)
	}
	return profile
}
