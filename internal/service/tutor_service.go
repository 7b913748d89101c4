package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/coursematch/tutor-api/internal/dto"
	"github.com/coursematch/tutor-api/internal/models"
	appErrors "github.com/coursematch/tutor-api/pkg/errors"
)

type tutorUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.User, error)
}

type tutorEnrollmentRepository interface {
	ListDetailByUser(ctx context.Context, userID string) ([]models.EnrollmentDetail, error)
	ListTutorCandidatesByCourse(ctx context.Context, courseID string) ([]models.Enrollment, error)
}

type tutorContactRepository interface {
	ListByUser(ctx context.Context, userID string) ([]models.ContactMethod, error)
	ListByUserIDs(ctx context.Context, userIDs []string) ([]models.ContactMethod, error)
}

type tutorCourseRepository interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

type tutorCacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// courseTutorSource is the raw data behind a course's tutor listing.
// The source is cached; projection happens per viewer so owner bypass
// and privacy gating never leak through a shared cache entry.
type courseTutorSource struct {
	Course      models.Course          `json:"course"`
	Enrollments []models.Enrollment    `json:"enrollments"`
	Users       []models.User          `json:"users"`
	Methods     []models.ContactMethod `json:"methods"`
}

// tutorProfileSource is the raw data behind a tutor's profile page.
type tutorProfileSource struct {
	User        models.User               `json:"user"`
	Enrollments []models.EnrollmentDetail `json:"enrollments"`
	Methods     []models.ContactMethod    `json:"methods"`
}

// TutorService serves the public tutor directory: per-course tutor
// listings and tutor profile pages.
type TutorService struct {
	users       tutorUserRepository
	enrollments tutorEnrollmentRepository
	contacts    tutorContactRepository
	courses     tutorCourseRepository
	cache       tutorCacheRepository
	cacheTTL    time.Duration
	metrics     *MetricsService
	logger      *zap.Logger
}

// NewTutorService constructs a TutorService instance.
func NewTutorService(users tutorUserRepository, enrollments tutorEnrollmentRepository, contacts tutorContactRepository, courses tutorCourseRepository, cache tutorCacheRepository, cacheTTL time.Duration, metrics *MetricsService, logger *zap.Logger) *TutorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &TutorService{
		users:       users,
		enrollments: enrollments,
		contacts:    contacts,
		courses:     courses,
		cache:       cache,
		cacheTTL:    cacheTTL,
		metrics:     metrics,
		logger:      logger,
	}
}

// CourseTutors returns the public tutor listing for a course, projected
// for the given viewer.
func (s *TutorService) CourseTutors(ctx context.Context, courseID string, viewer *models.JWTClaims) (*dto.CourseTutorListing, error) {
	source, err := s.loadCourseTutorSource(ctx, courseID)
	if err != nil {
		return nil, err
	}

	usersByID := make(map[string]models.User, len(source.Users))
	for _, u := range source.Users {
		usersByID[u.ID] = u
	}
	methodsByUser := make(map[string][]models.ContactMethod, len(source.Users))
	for _, m := range source.Methods {
		methodsByUser[m.UserID] = append(methodsByUser[m.UserID], m)
	}

	listing := &dto.CourseTutorListing{
		CourseID: source.Course.ID,
		Prefix:   source.Course.Prefix,
		Number:   source.Course.Number,
		Title:    source.Course.Title,
		Tutors:   make([]dto.CourseTutor, 0, len(source.Enrollments)),
	}
	for _, enrollment := range source.Enrollments {
		user, ok := usersByID[enrollment.UserID]
		if !ok {
			continue
		}
		tutor := ProjectCourseTutor(user, enrollment, methodsByUser[user.ID], viewer)
		if tutor == nil {
			continue
		}
		listing.Tutors = append(listing.Tutors, *tutor)
	}
	return listing, nil
}

// TutorProfile returns a tutor's public profile page, projected for the
// given viewer. Hidden profiles answer not-found just like unknown users.
func (s *TutorService) TutorProfile(ctx context.Context, userID string, viewer *models.JWTClaims) (*dto.TutorProfile, error) {
	source, err := s.loadTutorProfileSource(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := ProjectTutorProfile(source.User, source.Enrollments, source.Methods, viewer)
	if profile == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "tutor not found")
	}
	return profile, nil
}

func (s *TutorService) loadCourseTutorSource(ctx context.Context, courseID string) (*courseTutorSource, error) {
	key := fmt.Sprintf("tutors:course:%s", courseID)
	if s.cache != nil {
		var cached courseTutorSource
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			s.metrics.RecordCacheOperation(true)
			return &cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("course tutor cache read failed", zap.Error(err))
		}
		s.metrics.RecordCacheOperation(false)
	}

	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	enrollments, err := s.enrollments.ListTutorCandidatesByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list tutors")
	}

	userIDs := make([]string, 0, len(enrollments))
	for _, e := range enrollments {
		userIDs = append(userIDs, e.UserID)
	}
	users, err := s.users.FindByIDs(ctx, userIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tutor users")
	}
	methods, err := s.contacts.ListByUserIDs(ctx, userIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tutor contacts")
	}

	source := &courseTutorSource{Course: *course, Enrollments: enrollments, Users: users, Methods: methods}
	s.storeInCache(ctx, key, source)
	return source, nil
}

func (s *TutorService) loadTutorProfileSource(ctx context.Context, userID string) (*tutorProfileSource, error) {
	key := fmt.Sprintf("tutors:profile:%s", userID)
	if s.cache != nil {
		var cached tutorProfileSource
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			s.metrics.RecordCacheOperation(true)
			return &cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("tutor profile cache read failed", zap.Error(err))
		}
		s.metrics.RecordCacheOperation(false)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "tutor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}

	enrollments, err := s.enrollments.ListDetailByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	methods, err := s.contacts.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list contact methods")
	}

	source := &tutorProfileSource{User: *user, Enrollments: enrollments, Methods: methods}
	s.storeInCache(ctx, key, source)
	return source, nil
}

func (s *TutorService) storeInCache(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		s.logger.Warn("directory cache write failed", zap.String("key", key), zap.Error(err))
	}
}
