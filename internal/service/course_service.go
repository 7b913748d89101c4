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

type courseRepository interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
	ExistsByCode(ctx context.Context, prefix, number, excludeID string) (bool, error)
}

// CourseInput holds fields for creating or updating a catalog course.
type CourseInput struct {
	Prefix      string  `json:"prefix" validate:"required,alpha,min=2,max=5"`
	Number      string  `json:"number" validate:"required,alphanum,min=3,max=6"`
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description"`
}

// normalize trims every field and uppercases the course code so both
// validation and persistence see the canonical form.
func (in *CourseInput) normalize() {
	in.Prefix = strings.ToUpper(strings.TrimSpace(in.Prefix))
	in.Number = strings.ToUpper(strings.TrimSpace(in.Number))
	in.Title = strings.TrimSpace(in.Title)
	in.Description = trimmedOrNil(in.Description)
}

// CourseService serves catalog searches and admin catalog management.
type CourseService struct {
	repo      courseRepository
	cache     directoryCache
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs a CourseService instance.
func NewCourseService(repo courseRepository, cache directoryCache, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &CourseService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// Search lists courses matching a free-text query. A query shaped like a
// course code matches prefix and number together; anything else matches
// any single field.
func (s *CourseService) Search(ctx context.Context, query string, page, pageSize int) ([]models.Course, *models.Pagination, error) {
	filter := models.CourseFilter{
		Predicate: ParseCourseQuery(query),
		Page:      page,
		PageSize:  pageSize,
	}
	courses, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search courses")
	}
	if courses == nil {
		courses = []models.Course{}
	}
	pagination := &models.Pagination{
		Page:       maxInt(filter.Page, 1),
		PageSize:   filter.PageSize,
		TotalCount: total,
	}
	if pagination.PageSize <= 0 || pagination.PageSize > 100 {
		pagination.PageSize = 50
	}
	return courses, pagination, nil
}

// Get returns a single course.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// Create adds a course to the catalog. Codes are unique per catalog.
func (s *CourseService) Create(ctx context.Context, input CourseInput) (*models.Course, error) {
	input.normalize()
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	course := &models.Course{
		Prefix:      input.Prefix,
		Number:      input.Number,
		Title:       input.Title,
		Description: input.Description,
	}
	if err := s.repo.Create(ctx, course); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "course code already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}

	s.invalidateDirectory(ctx)
	return course, nil
}

// Update rewrites a course's catalog entry.
func (s *CourseService) Update(ctx context.Context, id string, input CourseInput) (*models.Course, error) {
	input.normalize()
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	course, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	taken, err := s.repo.ExistsByCode(ctx, input.Prefix, input.Number, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check course code")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "course code already exists")
	}

	course.Prefix = input.Prefix
	course.Number = input.Number
	course.Title = input.Title
	course.Description = input.Description

	if err := s.repo.Update(ctx, course); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "course code already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}

	s.invalidateDirectory(ctx)
	return course, nil
}

// Delete removes a course; its enrollments cascade away with it.
func (s *CourseService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}

	s.invalidateDirectory(ctx)
	return nil
}

func (s *CourseService) invalidateDirectory(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, "tutors:*"); err != nil {
		s.logger.Warn("failed to invalidate directory cache", zap.Error(err))
	}
}

// trimmedOrNil trims an optional field, mapping blanks to nil.
func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
