package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/coursematch/tutor-api/internal/models"
	"github.com/coursematch/tutor-api/internal/repository"
	appErrors "github.com/coursematch/tutor-api/pkg/errors"
)

type enrollmentRepository interface {
	ListDetailByUser(ctx context.Context, userID string) ([]models.EnrollmentDetail, error)
	FindByID(ctx context.Context, id string) (*models.Enrollment, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	Update(ctx context.Context, enrollment *models.Enrollment) error
	Delete(ctx context.Context, id string) error
}

type enrollmentCourseRepository interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

// EnrollmentInput holds fields for adding a course to a user's history.
type EnrollmentInput struct {
	CourseID    string  `json:"course_id" validate:"required"`
	Grade       *string `json:"grade"`
	CanTutor    bool    `json:"can_tutor"`
	ShowAsTutor bool    `json:"show_as_tutor"`
	ShowGrade   bool    `json:"show_grade"`
}

// EnrollmentService manages a user's own course history. Lookups by ID
// answer not-found for rows owned by other users, so the API never
// confirms that a foreign enrollment exists.
type EnrollmentService struct {
	repo      enrollmentRepository
	courses   enrollmentCourseRepository
	cache     directoryCache
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEnrollmentService constructs an EnrollmentService instance.
func NewEnrollmentService(repo enrollmentRepository, courses enrollmentCourseRepository, cache directoryCache, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &EnrollmentService{repo: repo, courses: courses, cache: cache, validator: validate, logger: logger}
}

// List returns the user's enrollments with course info, ordered by
// course code.
func (s *EnrollmentService) List(ctx context.Context, userID string) ([]models.EnrollmentDetail, error) {
	details, err := s.repo.ListDetailByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	if details == nil {
		details = []models.EnrollmentDetail{}
	}
	return details, nil
}

// Create records that the user took a course. The tutor listing flag
// only sticks when tutoring and grade sharing are both enabled.
func (s *EnrollmentService) Create(ctx context.Context, userID string, input EnrollmentInput) (*models.Enrollment, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}

	if _, err := s.courses.FindByID(ctx, input.CourseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	requested := models.Enrollment{
		UserID:      userID,
		CourseID:    input.CourseID,
		Grade:       trimGrade(input.Grade),
		CanTutor:    input.CanTutor,
		ShowAsTutor: input.ShowAsTutor,
		ShowGrade:   input.ShowGrade,
	}
	enrollment := NormalizeEnrollment(requested, models.EnrollmentPatch{})

	if err := s.repo.Create(ctx, &enrollment); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "course is already in your history")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create enrollment")
	}

	s.invalidateDirectory(ctx)
	return &enrollment, nil
}

// Update applies a partial update to one of the user's enrollments.
func (s *EnrollmentService) Update(ctx context.Context, userID, enrollmentID string, patch models.EnrollmentPatch) (*models.Enrollment, error) {
	if patch.IsEmpty() {
		return nil, appErrors.Clone(appErrors.ErrNothingToUpdate, "no enrollment fields provided")
	}

	existing, err := s.findOwned(ctx, userID, enrollmentID)
	if err != nil {
		return nil, err
	}

	next := NormalizeEnrollment(*existing, patch)
	if err := s.repo.Update(ctx, &next); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update enrollment")
	}

	s.invalidateDirectory(ctx)
	return &next, nil
}

// Delete removes one of the user's enrollments.
func (s *EnrollmentService) Delete(ctx context.Context, userID, enrollmentID string) error {
	if _, err := s.findOwned(ctx, userID, enrollmentID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, enrollmentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete enrollment")
	}

	s.invalidateDirectory(ctx)
	return nil
}

func (s *EnrollmentService) findOwned(ctx context.Context, userID, enrollmentID string) (*models.Enrollment, error) {
	enrollment, err := s.repo.FindByID(ctx, enrollmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	if enrollment.UserID != userID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
	}
	return enrollment, nil
}

func (s *EnrollmentService) invalidateDirectory(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, "tutors:*"); err != nil {
		s.logger.Warn("failed to invalidate directory cache", zap.Error(err))
	}
}

// trimGrade trims a submitted grade, mapping blanks to nil.
func trimGrade(grade *string) *string {
	if grade == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*grade)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
