package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/coursematch/tutor-api/internal/models"
	appErrors "github.com/coursematch/tutor-api/pkg/errors"
)

type profileUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	UpdateProfile(ctx context.Context, id string, patch models.ProfilePatch) error
}

type profileEnrollmentRepository interface {
	ListDetailByUser(ctx context.Context, userID string) ([]models.EnrollmentDetail, error)
}

type profileContactRepository interface {
	ListByUser(ctx context.Context, userID string) ([]models.ContactMethod, error)
}

// AccountOverview is the owner's full record: profile, course history and
// contact methods, unredacted.
type AccountOverview struct {
	User           *models.User              `json:"user"`
	Enrollments    []models.EnrollmentDetail `json:"enrollments"`
	ContactMethods []models.ContactMethod    `json:"contact_methods"`
}

// directoryCache invalidates cached tutor directory reads after writes
// that can change what other students see.
type directoryCache interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}

// ProfileService manages a user's own profile and privacy toggles.
type ProfileService struct {
	repo        profileUserRepository
	enrollments profileEnrollmentRepository
	contacts    profileContactRepository
	cache       directoryCache
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewProfileService constructs a ProfileService instance.
func NewProfileService(repo profileUserRepository, enrollments profileEnrollmentRepository, contacts profileContactRepository, cache directoryCache, validate *validator.Validate, logger *zap.Logger) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ProfileService{repo: repo, enrollments: enrollments, contacts: contacts, cache: cache, validator: validate, logger: logger}
}

// Get returns the full profile of the given user.
func (s *ProfileService) Get(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	return user, nil
}

// Overview returns the owner's complete record in one read. Visibility
// gates do not apply to the owner.
func (s *ProfileService) Overview(ctx context.Context, userID string) (*AccountOverview, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	enrollments, err := s.enrollments.ListDetailByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollments")
	}
	if enrollments == nil {
		enrollments = []models.EnrollmentDetail{}
	}

	contacts, err := s.contacts.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load contact methods")
	}
	if contacts == nil {
		contacts = []models.ContactMethod{}
	}

	return &AccountOverview{User: user, Enrollments: enrollments, ContactMethods: contacts}, nil
}

// Update applies a partial profile update. Provided strings are trimmed
// and empty results stored as NULL. An empty patch is rejected.
func (s *ProfileService) Update(ctx context.Context, userID string, patch models.ProfilePatch) (*models.User, error) {
	if patch.IsEmpty() {
		return nil, appErrors.Clone(appErrors.ErrNothingToUpdate, "no profile fields provided")
	}

	patch.Name = normalizeText(patch.Name)
	patch.Major = normalizeText(patch.Major)
	patch.Year = normalizeText(patch.Year)
	patch.Bio = normalizeText(patch.Bio)
	patch.PhoneNumber = normalizeText(patch.PhoneNumber)
	patch.MeetingPrefs = normalizeText(patch.MeetingPrefs)

	if _, err := s.Get(ctx, userID); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateProfile(ctx, userID, patch); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update profile")
	}

	if s.cache != nil {
		if err := s.cache.DeleteByPattern(ctx, "tutors:*"); err != nil {
			s.logger.Warn("failed to invalidate directory cache", zap.Error(err))
		}
	}

	return s.Get(ctx, userID)
}

// normalizeText trims a patch value in place. Blank strings survive so
// the repository can clear the column; nil still means "unchanged".
func normalizeText(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	return &trimmed
}
