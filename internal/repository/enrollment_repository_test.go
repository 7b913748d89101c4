package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/coursematch/tutor-api/internal/models"
)

func newEnrollmentRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestEnrollmentRepositoryListDetailByUser(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "user_id", "course_id", "grade", "can_tutor", "show_as_tutor", "show_grade", "created_at", "updated_at", "course_prefix", "course_number", "course_title"}).
		AddRow("enr-1", "user-1", "course-1", "A", true, true, true, time.Now(), time.Now(), "CSCI", "1301", "Intro to Computing")
	mock.ExpectQuery(`SELECT e\.id, .+ FROM enrollments e\s+JOIN courses c ON c\.id = e\.course_id\s+WHERE e\.user_id = \$1\s+ORDER BY c\.prefix ASC, c\.number ASC`).
		WithArgs("user-1").
		WillReturnRows(rows)

	details, err := repo.ListDetailByUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, details, 1)
	require.Equal(t, "CSCI", details[0].CoursePrefix)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryCreateAssignsDefaults(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec("INSERT INTO enrollments").
		WillReturnResult(sqlmock.NewResult(1, 1))

	enrollment := &models.Enrollment{UserID: "user-1", CourseID: "course-1", CanTutor: true}
	require.NoError(t, repo.Create(context.Background(), enrollment))
	require.NotEmpty(t, enrollment.ID)
	require.False(t, enrollment.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryListTutorCandidates(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "user_id", "course_id", "grade", "can_tutor", "show_as_tutor", "show_grade", "created_at", "updated_at"}).
		AddRow("enr-1", "user-1", "course-1", nil, true, true, false, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, course_id, grade, can_tutor, show_as_tutor, show_grade, created_at, updated_at FROM enrollments WHERE course_id = $1 AND can_tutor = TRUE AND show_as_tutor = TRUE")).
		WithArgs("course-1").
		WillReturnRows(rows)

	enrollments, err := repo.ListTutorCandidatesByCourse(context.Background(), "course-1")
	require.NoError(t, err)
	require.Len(t, enrollments, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}
