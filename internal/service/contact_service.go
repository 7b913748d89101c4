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

type contactMethodRepository interface {
	ListByUser(ctx context.Context, userID string) ([]models.ContactMethod, error)
	FindByID(ctx context.Context, id string) (*models.ContactMethod, error)
	Delete(ctx context.Context, id string) error
	ApplyPlan(ctx context.Context, writes []models.ContactWrite) error
}

// ContactMethodInput holds fields for adding a contact method.
type ContactMethodInput struct {
	Platform    string `json:"platform" validate:"required"`
	Identifier  string `json:"identifier" validate:"required"`
	IsPreferred *bool  `json:"is_preferred"`
	Visible     *bool  `json:"visible"`
}

// ContactMethodPatch carries a partial contact method update.
type ContactMethodPatch struct {
	Platform    *string `json:"platform"`
	Identifier  *string `json:"identifier"`
	IsPreferred *bool   `json:"is_preferred"`
	Visible     *bool   `json:"visible"`
}

// IsEmpty reports whether the patch carries no recognized fields.
func (p ContactMethodPatch) IsEmpty() bool {
	return p.Platform == nil && p.Identifier == nil && p.IsPreferred == nil && p.Visible == nil
}

// ContactService manages a user's contact methods. Preference changes go
// through an ordered write plan applied in one transaction, keeping at
// most one preferred method per user.
type ContactService struct {
	repo      contactMethodRepository
	cache     directoryCache
	validator *validator.Validate
	logger    *zap.Logger
}

// NewContactService constructs a ContactService instance.
func NewContactService(repo contactMethodRepository, cache directoryCache, validate *validator.Validate, logger *zap.Logger) *ContactService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ContactService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns the user's own contact methods, preferred first.
func (s *ContactService) List(ctx context.Context, userID string) ([]models.ContactMethod, error) {
	methods, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list contact methods")
	}
	if methods == nil {
		methods = []models.ContactMethod{}
	}
	return methods, nil
}

// Create adds a contact method. Marking it preferred demotes any other
// preferred method in the same transaction.
func (s *ContactService) Create(ctx context.Context, userID string, input ContactMethodInput) (*models.ContactMethod, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid contact method payload")
	}

	existing, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list contact methods")
	}

	target := models.ContactMethod{
		Platform:   strings.TrimSpace(input.Platform),
		Identifier: strings.TrimSpace(input.Identifier),
		Visible:    true,
	}
	if input.Visible != nil {
		target.Visible = *input.Visible
	}

	writes := PlanPreferredContactWrites(userID, existing, target, input.IsPreferred)
	if err := s.repo.ApplyPlan(ctx, writes); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create contact method")
	}

	s.invalidateDirectory(ctx)
	return writes[len(writes)-1].Method, nil
}

// Update applies a partial update to one of the user's contact methods.
func (s *ContactService) Update(ctx context.Context, userID, methodID string, patch ContactMethodPatch) (*models.ContactMethod, error) {
	if patch.IsEmpty() {
		return nil, appErrors.Clone(appErrors.ErrNothingToUpdate, "no contact method fields provided")
	}

	method, err := s.findOwned(ctx, userID, methodID)
	if err != nil {
		return nil, err
	}

	target := *method
	if patch.Platform != nil {
		target.Platform = strings.TrimSpace(*patch.Platform)
	}
	if patch.Identifier != nil {
		target.Identifier = strings.TrimSpace(*patch.Identifier)
	}
	if patch.Visible != nil {
		target.Visible = *patch.Visible
	}
	if target.Platform == "" || target.Identifier == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "platform and identifier must not be blank")
	}

	existing, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list contact methods")
	}

	writes := PlanPreferredContactWrites(userID, existing, target, patch.IsPreferred)
	if err := s.repo.ApplyPlan(ctx, writes); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "contact method not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update contact method")
	}

	s.invalidateDirectory(ctx)
	return writes[len(writes)-1].Method, nil
}

// Delete removes one of the user's contact methods. Removing the
// preferred method leaves no method preferred.
func (s *ContactService) Delete(ctx context.Context, userID, methodID string) error {
	if _, err := s.findOwned(ctx, userID, methodID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, methodID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "contact method not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete contact method")
	}

	s.invalidateDirectory(ctx)
	return nil
}

func (s *ContactService) findOwned(ctx context.Context, userID, methodID string) (*models.ContactMethod, error) {
	method, err := s.repo.FindByID(ctx, methodID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "contact method not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load contact method")
	}
	if method.UserID != userID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "contact method not found")
	}
	return method, nil
}

func (s *ContactService) invalidateDirectory(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, "tutors:*"); err != nil {
		s.logger.Warn("failed to invalidate directory cache", zap.Error(err))
	}
}
