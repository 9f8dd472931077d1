package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nexchat/nexchat-backend/internal/repository"
)

// SessionRepository implements repository.SessionRepository using PostgreSQL
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository creates a new PostgreSQL session repository
func NewSessionRepository(db *sqlx.DB) repository.SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a new session row
func (r *SessionRepository) Create(ctx context.Context, session *repository.Session) error {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	now := time.Now()
	session.CreatedAt = now
	session.UpdatedAt = now

	query := `
		INSERT INTO chat_sessions (id, user_id, title, is_deleted, created_at, updated_at)
		VALUES (:id, :user_id, :title, :is_deleted, :created_at, :updated_at)`

	result, err := sqlx.NamedExecContext(ctx, ext(ctx, r.db), query, session)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows != 1 {
		return fmt.Errorf("session insert affected %d rows", rows)
	}

	return nil
}

// Get retrieves a session by ID. Tombstoned rows are treated as absent;
// callers see sql.ErrNoRows for them.
func (r *SessionRepository) Get(ctx context.Context, id string) (*repository.Session, error) {
	var session repository.Session
	query := `
		SELECT id, user_id, title, is_deleted, created_at, updated_at
		FROM chat_sessions
		WHERE id = $1 AND NOT is_deleted`

	if err := sqlx.GetContext(ctx, ext(ctx, r.db), &session, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return &session, nil
}

// ListByUser retrieves all live sessions owned by a user
func (r *SessionRepository) ListByUser(ctx context.Context, userID string) ([]*repository.Session, error) {
	sessions := []*repository.Session{}
	query := `
		SELECT id, user_id, title, is_deleted, created_at, updated_at
		FROM chat_sessions
		WHERE user_id = $1 AND NOT is_deleted
		ORDER BY updated_at DESC`

	if err := sqlx.SelectContext(ctx, ext(ctx, r.db), &sessions, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	return sessions, nil
}

// UpdateTitle updates a session title and returns rows affected
func (r *SessionRepository) UpdateTitle(ctx context.Context, id, title string) (int64, error) {
	query := `
		UPDATE chat_sessions
		SET title = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND NOT is_deleted`

	result, err := ext(ctx, r.db).ExecContext(ctx, query, id, title)
	if err != nil {
		return 0, fmt.Errorf("failed to update session title: %w", err)
	}

	return result.RowsAffected()
}

// SoftDelete tombstones a single session and returns rows affected
func (r *SessionRepository) SoftDelete(ctx context.Context, id string) (int64, error) {
	query := `
		UPDATE chat_sessions
		SET is_deleted = TRUE, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND NOT is_deleted`

	result, err := ext(ctx, r.db).ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete session: %w", err)
	}

	return result.RowsAffected()
}

// SoftDeleteBatch tombstones every listed session owned by the user in one
// statement and returns rows affected. The owner filter keeps a foreign id
// smuggled into the list from being deleted; the caller compares the count.
func (r *SessionRepository) SoftDeleteBatch(ctx context.Context, ids []string, userID string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query, args, err := sqlx.In(`
		UPDATE chat_sessions
		SET is_deleted = TRUE, updated_at = CURRENT_TIMESTAMP
		WHERE id IN (?) AND user_id = ? AND NOT is_deleted`, ids, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to build batch delete query: %w", err)
	}

	e := ext(ctx, r.db)
	result, err := e.ExecContext(ctx, e.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("failed to batch delete sessions: %w", err)
	}

	return result.RowsAffected()
}

// CountByUser returns the number of live sessions owned by a user
func (r *SessionRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM chat_sessions WHERE user_id = $1 AND NOT is_deleted`

	if err := sqlx.GetContext(ctx, ext(ctx, r.db), &count, query, userID); err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	return count, nil
}
