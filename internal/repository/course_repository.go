package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/coursematch/tutor-api/internal/models"
)

const courseColumns = `id, prefix, number, title, description, created_at, updated_at`

// CourseRepository handles persistence of catalog courses.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs the repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// buildPredicateClause renders a course predicate into a WHERE fragment.
// Fragments match case-insensitively anywhere in the column.
func buildPredicateClause(pred models.CoursePredicate, args *[]interface{}) string {
	if pred.MatchAll {
		return ""
	}
	if pred.Conjunctive() {
		*args = append(*args, "%"+pred.Prefix+"%")
		prefixPos := len(*args)
		*args = append(*args, "%"+pred.Number+"%")
		return fmt.Sprintf(" WHERE prefix ILIKE $%d AND number ILIKE $%d", prefixPos, len(*args))
	}
	*args = append(*args, "%"+pred.Term+"%")
	pos := len(*args)
	return fmt.Sprintf(" WHERE (prefix ILIKE $%d OR number ILIKE $%d OR title ILIKE $%d)", pos, pos, pos)
}

// List returns courses matching the filter's predicate, ordered by
// course code.
func (r *CourseRepository) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	var args []interface{}
	clause := buildPredicateClause(filter.Predicate, &args)

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s FROM courses%s ORDER BY prefix ASC, number ASC LIMIT %d OFFSET %d",
		courseColumns, clause, size, offset)

	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list courses: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM courses%s", clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}
	return courses, total, nil
}

// FindByID returns a course by its ID.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	query := fmt.Sprintf("SELECT %s FROM courses WHERE id = $1", courseColumns)
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// Create persists a new catalog course. A duplicate (prefix, number)
// surfaces the unique violation untranslated for the service to map.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if course.CreatedAt.IsZero() {
		course.CreatedAt = now
	}
	course.UpdatedAt = now
	const query = `INSERT INTO courses (id, prefix, number, title, description, created_at, updated_at)
        VALUES (:id, :prefix, :number, :title, :description, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return err
	}
	return nil
}

// Update rewrites the mutable fields of a course.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	course.UpdatedAt = time.Now().UTC()
	const query = `UPDATE courses SET prefix = :prefix, number = :number, title = :title, description = :description, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, course)
	if err != nil {
		return err
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a course; enrollments cascade at the database layer.
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM courses WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ExistsByCode checks whether a (prefix, number) pair is already taken.
func (r *CourseRepository) ExistsByCode(ctx context.Context, prefix, number, excludeID string) (bool, error) {
	query := "SELECT 1 FROM courses WHERE UPPER(prefix) = UPPER($1) AND UPPER(number) = UPPER($2)"
	args := []interface{}{prefix, number}
	if excludeID != "" {
		args = append(args, excludeID)
		query += fmt.Sprintf(" AND id <> $%d", len(args))
	}
	query += " LIMIT 1"
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check course code: %w", err)
	}
	return true, nil
}
