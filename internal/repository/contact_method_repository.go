package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/coursematch/tutor-api/internal/models"
)

const contactMethodColumns = `id, user_id, platform, identifier, is_preferred, visible, created_at, updated_at`

// ContactMethodRepository handles persistence of contact methods.
type ContactMethodRepository struct {
	db *sqlx.DB
}

// NewContactMethodRepository constructs the repository.
func NewContactMethodRepository(db *sqlx.DB) *ContactMethodRepository {
	return &ContactMethodRepository{db: db}
}

// ListByUser returns a user's contact methods, preferred first, then
// oldest first.
func (r *ContactMethodRepository) ListByUser(ctx context.Context, userID string) ([]models.ContactMethod, error) {
	query := fmt.Sprintf("SELECT %s FROM contact_methods WHERE user_id = $1 ORDER BY is_preferred DESC, created_at ASC", contactMethodColumns)
	var methods []models.ContactMethod
	if err := r.db.SelectContext(ctx, &methods, query, userID); err != nil {
		return nil, fmt.Errorf("list contact methods: %w", err)
	}
	return methods, nil
}

// ListByUserIDs returns contact methods for many users at once.
func (r *ContactMethodRepository) ListByUserIDs(ctx context.Context, userIDs []string) ([]models.ContactMethod, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(userIDs))
	args := make([]interface{}, len(userIDs))
	for i, id := range userIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	query := fmt.Sprintf("SELECT %s FROM contact_methods WHERE user_id IN (%s) ORDER BY is_preferred DESC, created_at ASC",
		contactMethodColumns, strings.Join(placeholders, ","))
	var methods []models.ContactMethod
	if err := r.db.SelectContext(ctx, &methods, query, args...); err != nil {
		return nil, fmt.Errorf("list contact methods by users: %w", err)
	}
	return methods, nil
}

// FindByID returns a contact method by its ID.
func (r *ContactMethodRepository) FindByID(ctx context.Context, id string) (*models.ContactMethod, error) {
	query := fmt.Sprintf("SELECT %s FROM contact_methods WHERE id = $1", contactMethodColumns)
	var method models.ContactMethod
	if err := r.db.GetContext(ctx, &method, query, id); err != nil {
		return nil, err
	}
	return &method, nil
}

// Delete removes a contact method.
func (r *ContactMethodRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM contact_methods WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete contact method: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ApplyPlan executes an ordered write plan inside a single transaction.
// Clears run before the step that sets a new preferred method, so readers
// never observe two preferred methods for one user.
func (r *ContactMethodRepository) ApplyPlan(ctx context.Context, writes []models.ContactWrite) (err error) {
	if len(writes) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin contact write plan: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	for _, write := range writes {
		switch write.Op {
		case models.ContactWriteClearPreferred:
			if _, err = tx.ExecContext(ctx, "UPDATE contact_methods SET is_preferred = FALSE, updated_at = $2 WHERE id = $1", write.MethodID, now); err != nil {
				return fmt.Errorf("clear preferred contact method: %w", err)
			}
		case models.ContactWriteUpdate:
			write.Method.UpdatedAt = now
			const query = `UPDATE contact_methods SET platform = :platform, identifier = :identifier, is_preferred = :is_preferred, visible = :visible, updated_at = :updated_at WHERE id = :id`
			var result sql.Result
			if result, err = tx.NamedExecContext(ctx, query, write.Method); err != nil {
				return fmt.Errorf("update contact method: %w", err)
			}
			if affected, raErr := result.RowsAffected(); raErr == nil && affected == 0 {
				err = sql.ErrNoRows
				return err
			}
		case models.ContactWriteCreate:
			if write.Method.ID == "" {
				write.Method.ID = uuid.NewString()
			}
			write.Method.CreatedAt = now
			write.Method.UpdatedAt = now
			const query = `INSERT INTO contact_methods (id, user_id, platform, identifier, is_preferred, visible, created_at, updated_at)
        VALUES (:id, :user_id, :platform, :identifier, :is_preferred, :visible, :created_at, :updated_at)`
			if _, err = tx.NamedExecContext(ctx, query, write.Method); err != nil {
				return err
			}
		default:
			err = fmt.Errorf("unknown contact write op %q", write.Op)
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit contact write plan: %w", err)
	}
	return nil
}
