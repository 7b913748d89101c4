package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/coursematch/tutor-api/internal/models"
)

type mockExportEnrollments struct {
	details []models.EnrollmentDetail
}

func (m *mockExportEnrollments) ListDetailByUser(ctx context.Context, userID string) ([]models.EnrollmentDetail, error) {
	return m.details, nil
}

func exportFixture() *mockExportEnrollments {
	return &mockExportEnrollments{details: []models.EnrollmentDetail{
		{
			Enrollment: models.Enrollment{
				ID: "e1", UserID: "u1", CourseID: "c1",
				Grade: strPtr("A"), CanTutor: true, ShowAsTutor: true,
				CreatedAt: time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC),
			},
			CoursePrefix: "CSCI", CourseNumber: "1301", CourseTitle: "Intro to Computing",
		},
		{
			Enrollment:   models.Enrollment{ID: "e2", UserID: "u1", CourseID: "c2"},
			CoursePrefix: "MATH", CourseNumber: "2250", CourseTitle: "Calculus I",
		},
	}}
}

func TestExportServiceCourseHistoryCSV(t *testing.T) {
	svc := NewExportService(exportFixture(), zap.NewNop())

	file, err := svc.CourseHistoryCSV(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.True(t, strings.HasSuffix(file.FileName, ".csv"))

	content := string(file.Content)
	assert.Contains(t, content, "Course,Title,Grade,Tutoring,Listed,Added")
	assert.Contains(t, content, "CSCI 1301,Intro to Computing,A,yes,yes,2025-02-10")
	assert.Contains(t, content, "MATH 2250,Calculus I,,no,no")
}

func TestExportServiceCourseHistoryPDF(t *testing.T) {
	svc := NewExportService(exportFixture(), zap.NewNop())

	file, err := svc.CourseHistoryPDF(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, strings.HasSuffix(file.FileName, ".pdf"))
	require.NotEmpty(t, file.Content)
	assert.True(t, strings.HasPrefix(string(file.Content), "%PDF"))
}

func TestExportServiceEmptyHistory(t *testing.T) {
	svc := NewExportService(&mockExportEnrollments{}, zap.NewNop())

	file, err := svc.CourseHistoryCSV(context.Background(), "u1")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(file.Content)), "\n")
	assert.Len(t, lines, 1, "headers only")
}
