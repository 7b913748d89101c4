package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/coursematch/tutor-api/internal/models"
	appErrors "github.com/coursematch/tutor-api/pkg/errors"
)

type mockDirectoryCache struct {
	patterns []string
}

func (m *mockDirectoryCache) DeleteByPattern(ctx context.Context, pattern string) error {
	m.patterns = append(m.patterns, pattern)
	return nil
}

type mockProfileRepo struct {
	user      *models.User
	lastPatch *models.ProfilePatch
	updateErr error
}

func (m *mockProfileRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if m.user == nil || m.user.ID != id {
		return nil, sql.ErrNoRows
	}
	return m.user, nil
}

func (m *mockProfileRepo) UpdateProfile(ctx context.Context, id string, patch models.ProfilePatch) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.lastPatch = &patch
	return nil
}

type mockProfileEnrollments struct {
	details []models.EnrollmentDetail
}

func (m *mockProfileEnrollments) ListDetailByUser(ctx context.Context, userID string) ([]models.EnrollmentDetail, error) {
	return m.details, nil
}

type mockProfileContacts struct {
	methods []models.ContactMethod
}

func (m *mockProfileContacts) ListByUser(ctx context.Context, userID string) ([]models.ContactMethod, error) {
	return m.methods, nil
}

func TestProfileServiceGetUnknownUser(t *testing.T) {
	svc := NewProfileService(&mockProfileRepo{}, nil, nil, nil, validator.New(), zap.NewNop())

	_, err := svc.Get(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestProfileServiceOverview(t *testing.T) {
	grade := "A"
	repo := &mockProfileRepo{user: &models.User{ID: "u1", ShowGrades: true}}
	enrollments := &mockProfileEnrollments{details: []models.EnrollmentDetail{{
		Enrollment:   models.Enrollment{ID: "e1", UserID: "u1", CourseID: "c1", Grade: &grade},
		CoursePrefix: "CSCI",
		CourseNumber: "1301",
	}}}
	contacts := &mockProfileContacts{methods: []models.ContactMethod{{ID: "m1", UserID: "u1", Platform: "discord", Visible: false}}}
	svc := NewProfileService(repo, enrollments, contacts, nil, validator.New(), zap.NewNop())

	overview, err := svc.Overview(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, overview.Enrollments, 1)
	require.NotNil(t, overview.Enrollments[0].Grade)
	assert.Equal(t, "A", *overview.Enrollments[0].Grade)
	require.Len(t, overview.ContactMethods, 1, "owner sees hidden contact methods")
}

func TestProfileServiceOverviewEmptyHistory(t *testing.T) {
	repo := &mockProfileRepo{user: &models.User{ID: "u1"}}
	svc := NewProfileService(repo, &mockProfileEnrollments{}, &mockProfileContacts{}, nil, validator.New(), zap.NewNop())

	overview, err := svc.Overview(context.Background(), "u1")
	require.NoError(t, err)
	assert.NotNil(t, overview.Enrollments)
	assert.Empty(t, overview.Enrollments)
	assert.NotNil(t, overview.ContactMethods)
	assert.Empty(t, overview.ContactMethods)
}

func TestProfileServiceUpdateEmptyPatch(t *testing.T) {
	repo := &mockProfileRepo{user: &models.User{ID: "u1"}}
	svc := NewProfileService(repo, nil, nil, nil, validator.New(), zap.NewNop())

	_, err := svc.Update(context.Background(), "u1", models.ProfilePatch{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNothingToUpdate.Code, appErrors.FromError(err).Code)
	assert.Nil(t, repo.lastPatch)
}

func TestProfileServiceUpdateTrimsText(t *testing.T) {
	repo := &mockProfileRepo{user: &models.User{ID: "u1"}}
	cache := &mockDirectoryCache{}
	svc := NewProfileService(repo, nil, nil, cache, validator.New(), zap.NewNop())

	bio := "  happy to help  "
	blank := "   "
	_, err := svc.Update(context.Background(), "u1", models.ProfilePatch{Bio: &bio, Major: &blank})
	require.NoError(t, err)
	require.NotNil(t, repo.lastPatch)
	assert.Equal(t, "happy to help", *repo.lastPatch.Bio)
	assert.Equal(t, "", *repo.lastPatch.Major, "blank clears the column")
	assert.NotEmpty(t, cache.patterns, "directory cache invalidated")
}

func TestProfileServiceUpdatePrivacyToggle(t *testing.T) {
	repo := &mockProfileRepo{user: &models.User{ID: "u1", ShowGrades: true}}
	svc := NewProfileService(repo, nil, nil, nil, validator.New(), zap.NewNop())

	hide := false
	_, err := svc.Update(context.Background(), "u1", models.ProfilePatch{ShowGrades: &hide})
	require.NoError(t, err)
	require.NotNil(t, repo.lastPatch)
	require.NotNil(t, repo.lastPatch.ShowGrades)
	assert.False(t, *repo.lastPatch.ShowGrades)
}
