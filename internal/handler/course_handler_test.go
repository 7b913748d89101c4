package handler

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/coursematch/tutor-api/internal/models"
	"github.com/coursematch/tutor-api/internal/service"
)

type courseRepoStub struct {
	courses    []models.Course
	lastFilter models.CourseFilter
}

func (s *courseRepoStub) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	s.lastFilter = filter
	return s.courses, len(s.courses), nil
}

func (s *courseRepoStub) FindByID(ctx context.Context, id string) (*models.Course, error) {
	for _, c := range s.courses {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *courseRepoStub) Create(ctx context.Context, course *models.Course) error { return nil }
func (s *courseRepoStub) Update(ctx context.Context, course *models.Course) error { return nil }
func (s *courseRepoStub) Delete(ctx context.Context, id string) error             { return sql.ErrNoRows }
func (s *courseRepoStub) ExistsByCode(ctx context.Context, prefix, number, excludeID string) (bool, error) {
	return false, nil
}

func newCourseHandler(repo *courseRepoStub) *CourseHandler {
	return NewCourseHandler(service.NewCourseService(repo, nil, validator.New(), zap.NewNop()))
}

func TestCourseHandlerSearchParsesCodeQuery(t *testing.T) {
	repo := &courseRepoStub{courses: []models.Course{{ID: "c1", Prefix: "CSCI", Number: "1301", Title: "Intro to Computing"}}}
	handler := newCourseHandler(repo)
	c, w := newTestContext(t, http.MethodGet, "/courses?q=CSCI+1301", nil)

	handler.Search(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "CSCI", repo.lastFilter.Predicate.Prefix)
	assert.Equal(t, "1301", repo.lastFilter.Predicate.Number)
	assert.Contains(t, w.Body.String(), "Intro to Computing")
	assert.Contains(t, w.Body.String(), "pagination")
}

func TestCourseHandlerGetMissing(t *testing.T) {
	handler := newCourseHandler(&courseRepoStub{})
	c, w := newTestContext(t, http.MethodGet, "/courses/ghost", nil)
	c.Params = gin.Params{{Key: "id", Value: "ghost"}}

	handler.Get(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCourseHandlerDeleteMissing(t *testing.T) {
	handler := newCourseHandler(&courseRepoStub{})
	c, w := newTestContext(t, http.MethodDelete, "/admin/courses/ghost", nil)
	c.Params = gin.Params{{Key: "id", Value: "ghost"}}

	handler.Delete(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
