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

type mockContactRepo struct {
	methods  map[string]*models.ContactMethod
	lastPlan []models.ContactWrite
	planErr  error
}

func (m *mockContactRepo) ListByUser(ctx context.Context, userID string) ([]models.ContactMethod, error) {
	out := make([]models.ContactMethod, 0, len(m.methods))
	for _, method := range m.methods {
		if method.UserID == userID {
			out = append(out, *method)
		}
	}
	return out, nil
}

func (m *mockContactRepo) FindByID(ctx context.Context, id string) (*models.ContactMethod, error) {
	method, ok := m.methods[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *method
	return &clone, nil
}

func (m *mockContactRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.methods[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.methods, id)
	return nil
}

func (m *mockContactRepo) ApplyPlan(ctx context.Context, writes []models.ContactWrite) error {
	if m.planErr != nil {
		return m.planErr
	}
	m.lastPlan = writes
	if m.methods == nil {
		m.methods = make(map[string]*models.ContactMethod)
	}
	for _, w := range writes {
		switch w.Op {
		case models.ContactWriteClearPreferred:
			if method, ok := m.methods[w.MethodID]; ok {
				method.IsPreferred = false
			}
		case models.ContactWriteUpdate:
			clone := *w.Method
			m.methods[w.MethodID] = &clone
		case models.ContactWriteCreate:
			w.Method.ID = "new-method"
			clone := *w.Method
			m.methods[clone.ID] = &clone
		}
	}
	return nil
}

func newContactService(repo *mockContactRepo) *ContactService {
	return NewContactService(repo, nil, validator.New(), zap.NewNop())
}

func TestContactServiceCreatePreferredDemotesOthers(t *testing.T) {
	repo := &mockContactRepo{methods: map[string]*models.ContactMethod{
		"m1": {ID: "m1", UserID: "u1", Platform: "email", Identifier: "sam@example.edu", IsPreferred: true},
	}}
	svc := newContactService(repo)

	created, err := svc.Create(context.Background(), "u1", ContactMethodInput{
		Platform:    "discord",
		Identifier:  "sam#1",
		IsPreferred: boolPtr(true),
	})
	require.NoError(t, err)
	assert.True(t, created.IsPreferred)
	assert.False(t, repo.methods["m1"].IsPreferred, "old preferred demoted")
	require.Len(t, repo.lastPlan, 2)
	assert.Equal(t, models.ContactWriteClearPreferred, repo.lastPlan[0].Op)
}

func TestContactServiceCreateDefaultsVisible(t *testing.T) {
	repo := &mockContactRepo{}
	svc := newContactService(repo)

	created, err := svc.Create(context.Background(), "u1", ContactMethodInput{Platform: "slack", Identifier: "@sam"})
	require.NoError(t, err)
	assert.True(t, created.Visible)
	assert.False(t, created.IsPreferred)
}

func TestContactServiceCreateValidation(t *testing.T) {
	svc := newContactService(&mockContactRepo{})

	_, err := svc.Create(context.Background(), "u1", ContactMethodInput{Platform: "", Identifier: ""})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestContactServiceUpdateForeignMethodHidden(t *testing.T) {
	repo := &mockContactRepo{methods: map[string]*models.ContactMethod{
		"m1": {ID: "m1", UserID: "someone-else", Platform: "email", Identifier: "x"},
	}}
	svc := newContactService(repo)

	_, err := svc.Update(context.Background(), "u1", "m1", ContactMethodPatch{Visible: boolPtr(false)})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestContactServiceUpdateEmptyPatch(t *testing.T) {
	svc := newContactService(&mockContactRepo{})

	_, err := svc.Update(context.Background(), "u1", "m1", ContactMethodPatch{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNothingToUpdate.Code, appErrors.FromError(err).Code)
}

func TestContactServiceUpdateMakesPreferred(t *testing.T) {
	repo := &mockContactRepo{methods: map[string]*models.ContactMethod{
		"m1": {ID: "m1", UserID: "u1", Platform: "email", Identifier: "sam@example.edu", IsPreferred: true},
		"m2": {ID: "m2", UserID: "u1", Platform: "discord", Identifier: "sam#1"},
	}}
	svc := newContactService(repo)

	updated, err := svc.Update(context.Background(), "u1", "m2", ContactMethodPatch{IsPreferred: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, updated.IsPreferred)
	assert.False(t, repo.methods["m1"].IsPreferred)
}

func TestContactServiceDeletePreferredLeavesNonePreferred(t *testing.T) {
	repo := &mockContactRepo{methods: map[string]*models.ContactMethod{
		"m1": {ID: "m1", UserID: "u1", Platform: "email", Identifier: "sam@example.edu", IsPreferred: true},
		"m2": {ID: "m2", UserID: "u1", Platform: "discord", Identifier: "sam#1"},
	}}
	svc := newContactService(repo)

	require.NoError(t, svc.Delete(context.Background(), "u1", "m1"))
	assert.False(t, repo.methods["m2"].IsPreferred, "no automatic promotion")
}
