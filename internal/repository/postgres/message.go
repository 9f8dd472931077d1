package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nexchat/nexchat-backend/internal/repository"
)

// MessageRepository implements repository.MessageRepository using PostgreSQL
type MessageRepository struct {
	db *sqlx.DB
}

// NewMessageRepository creates a new PostgreSQL message repository
func NewMessageRepository(db *sqlx.DB) repository.MessageRepository {
	return &MessageRepository{db: db}
}

// Create inserts a new message and touches the owning session's updated_at
func (r *MessageRepository) Create(ctx context.Context, message *repository.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO chat_messages (id, session_id, user_id, role, content, created_at)
		VALUES (:id, :session_id, :user_id, :role, :content, :created_at)`

	result, err := sqlx.NamedExecContext(ctx, ext(ctx, r.db), query, message)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows != 1 {
		return fmt.Errorf("message insert affected %d rows", rows)
	}

	// Keep the session list ordered by recent activity
	touch := `UPDATE chat_sessions SET updated_at = CURRENT_TIMESTAMP WHERE id = $1`
	if _, err := ext(ctx, r.db).ExecContext(ctx, touch, message.SessionID); err != nil {
		return fmt.Errorf("failed to update session timestamp: %w", err)
	}

	return nil
}

// ListBySession retrieves all messages for a session in creation order.
// The id tiebreak keeps the order stable when timestamps collide.
func (r *MessageRepository) ListBySession(ctx context.Context, sessionID string) ([]*repository.Message, error) {
	messages := []*repository.Message{}
	query := `
		SELECT id, session_id, user_id, role, content, created_at
		FROM chat_messages
		WHERE session_id = $1
		ORDER BY created_at ASC, id ASC`

	if err := sqlx.SelectContext(ctx, ext(ctx, r.db), &messages, query, sessionID); err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	return messages, nil
}

// DeleteBySession deletes all messages for a session. Zero rows affected
// is a success; the wipe is idempotent.
func (r *MessageRepository) DeleteBySession(ctx context.Context, sessionID string) error {
	query := `DELETE FROM chat_messages WHERE session_id = $1`

	if _, err := ext(ctx, r.db).ExecContext(ctx, query, sessionID); err != nil {
		return fmt.Errorf("failed to delete messages: %w", err)
	}

	return nil
}

// CountBySession returns the number of messages in a session
func (r *MessageRepository) CountBySession(ctx context.Context, sessionID string) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM chat_messages WHERE session_id = $1`

	if err := sqlx.GetContext(ctx, ext(ctx, r.db), &count, query, sessionID); err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}

	return count, nil
}
