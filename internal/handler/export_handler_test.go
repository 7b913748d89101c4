package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coursematch/tutor-api/internal/middleware"
	"github.com/coursematch/tutor-api/internal/models"
)

func TestExportHandlerRequiresAuth(t *testing.T) {
	handler := NewExportHandler(nil)
	c, w := newTestContext(t, http.MethodGet, "/me/exports/course-history", nil)

	handler.CourseHistory(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestExportHandlerRejectsUnknownFormat(t *testing.T) {
	handler := NewExportHandler(nil)
	c, w := newTestContext(t, http.MethodGet, "/me/exports/course-history?format=xlsx", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u1", Role: models.RoleStudent})

	handler.CourseHistory(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
