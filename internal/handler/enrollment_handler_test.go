package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coursematch/tutor-api/internal/middleware"
	"github.com/coursematch/tutor-api/internal/models"
)

func TestEnrollmentHandlerListRequiresAuth(t *testing.T) {
	handler := NewEnrollmentHandler(nil)
	c, w := newTestContext(t, http.MethodGet, "/me/enrollments", nil)

	handler.List(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestEnrollmentHandlerCreateInvalidBody(t *testing.T) {
	handler := NewEnrollmentHandler(nil)
	c, w := newTestContext(t, http.MethodPost, "/me/enrollments", []byte(`{`))
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u1", Role: models.RoleStudent})

	handler.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEnrollmentHandlerUpdateInvalidBody(t *testing.T) {
	handler := NewEnrollmentHandler(nil)
	c, w := newTestContext(t, http.MethodPatch, "/me/enrollments/e1", []byte(`[]`))
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u1", Role: models.RoleStudent})

	handler.Update(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
