package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/coursematch/tutor-api/internal/models"
	appErrors "github.com/coursematch/tutor-api/pkg/errors"
)

type mockEnrollmentRepo struct {
	enrollments map[string]*models.Enrollment
	details     []models.EnrollmentDetail
	createErr   error
	lastUpdate  *models.Enrollment
}

func (m *mockEnrollmentRepo) ListDetailByUser(ctx context.Context, userID string) ([]models.EnrollmentDetail, error) {
	return m.details, nil
}

func (m *mockEnrollmentRepo) FindByID(ctx context.Context, id string) (*models.Enrollment, error) {
	enrollment, ok := m.enrollments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *enrollment
	return &clone, nil
}

func (m *mockEnrollmentRepo) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if m.createErr != nil {
		return m.createErr
	}
	enrollment.ID = "new-enrollment"
	if m.enrollments == nil {
		m.enrollments = make(map[string]*models.Enrollment)
	}
	m.enrollments[enrollment.ID] = enrollment
	return nil
}

func (m *mockEnrollmentRepo) Update(ctx context.Context, enrollment *models.Enrollment) error {
	if _, ok := m.enrollments[enrollment.ID]; !ok {
		return sql.ErrNoRows
	}
	m.enrollments[enrollment.ID] = enrollment
	m.lastUpdate = enrollment
	return nil
}

func (m *mockEnrollmentRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.enrollments[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.enrollments, id)
	return nil
}

type mockEnrollmentCourses struct {
	known map[string]bool
}

func (m *mockEnrollmentCourses) FindByID(ctx context.Context, id string) (*models.Course, error) {
	if !m.known[id] {
		return nil, sql.ErrNoRows
	}
	return &models.Course{ID: id, Prefix: "CSCI", Number: "1301"}, nil
}

func newEnrollmentService(repo *mockEnrollmentRepo, courses *mockEnrollmentCourses) *EnrollmentService {
	if courses == nil {
		courses = &mockEnrollmentCourses{known: map[string]bool{"c1": true}}
	}
	return NewEnrollmentService(repo, courses, nil, validator.New(), zap.NewNop())
}

func TestEnrollmentServiceCreateEnforcesListingRule(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	svc := newEnrollmentService(repo, nil)

	enrollment, err := svc.Create(context.Background(), "u1", EnrollmentInput{
		CourseID:    "c1",
		Grade:       strPtr("  A  "),
		CanTutor:    true,
		ShowAsTutor: true,
		ShowGrade:   false,
	})
	require.NoError(t, err)
	assert.Equal(t, "A", *enrollment.Grade)
	assert.False(t, enrollment.ShowAsTutor, "listing requires grade sharing")
}

func TestEnrollmentServiceCreateUnknownCourse(t *testing.T) {
	svc := newEnrollmentService(&mockEnrollmentRepo{}, &mockEnrollmentCourses{})

	_, err := svc.Create(context.Background(), "u1", EnrollmentInput{CourseID: "ghost"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestEnrollmentServiceCreateDuplicate(t *testing.T) {
	repo := &mockEnrollmentRepo{createErr: &pq.Error{Code: "23505"}}
	svc := newEnrollmentService(repo, nil)

	_, err := svc.Create(context.Background(), "u1", EnrollmentInput{CourseID: "c1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestEnrollmentServiceUpdateOwnershipHidden(t *testing.T) {
	repo := &mockEnrollmentRepo{enrollments: map[string]*models.Enrollment{
		"e1": {ID: "e1", UserID: "someone-else", CourseID: "c1"},
	}}
	svc := newEnrollmentService(repo, nil)

	_, err := svc.Update(context.Background(), "u1", "e1", models.EnrollmentPatch{CanTutor: boolPtr(true)})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code, "foreign rows look like missing rows")
}

func TestEnrollmentServiceUpdateEmptyPatch(t *testing.T) {
	svc := newEnrollmentService(&mockEnrollmentRepo{}, nil)

	_, err := svc.Update(context.Background(), "u1", "e1", models.EnrollmentPatch{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNothingToUpdate.Code, appErrors.FromError(err).Code)
}

func TestEnrollmentServiceUpdateDisablingGradeShareDelists(t *testing.T) {
	repo := &mockEnrollmentRepo{enrollments: map[string]*models.Enrollment{
		"e1": {ID: "e1", UserID: "u1", CourseID: "c1", CanTutor: true, ShowAsTutor: true, ShowGrade: true},
	}}
	svc := newEnrollmentService(repo, nil)

	updated, err := svc.Update(context.Background(), "u1", "e1", models.EnrollmentPatch{ShowGrade: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, updated.ShowGrade)
	assert.False(t, updated.ShowAsTutor, "delisted when grade sharing stops")
	assert.True(t, updated.CanTutor)
}

func TestEnrollmentServiceDelete(t *testing.T) {
	repo := &mockEnrollmentRepo{enrollments: map[string]*models.Enrollment{
		"e1": {ID: "e1", UserID: "u1", CourseID: "c1"},
	}}
	svc := newEnrollmentService(repo, nil)

	require.NoError(t, svc.Delete(context.Background(), "u1", "e1"))
	assert.Empty(t, repo.enrollments)

	err := svc.Delete(context.Background(), "u1", "e1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
