package repository

import (
	"context"
	"time"
)

// Message roles. The set is closed; anything else is rejected before insert.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ValidRole reports whether role belongs to the closed role set.
func ValidRole(role string) bool {
	return role == RoleSystem || role == RoleUser || role == RoleAssistant
}

// Session represents a chat session. Deleted sessions stay in the table
// with IsDeleted set; repositories treat them as absent.
type Session struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"userId"`
	Title     string    `db:"title" json:"title"`
	IsDeleted bool      `db:"is_deleted" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Message represents one turn in a conversation. UserID duplicates the
// owning session's user for audit queries; authorization never reads it.
type Message struct {
	ID        string    `db:"id" json:"id"`
	SessionID string    `db:"session_id" json:"sessionId"`
	UserID    string    `db:"user_id" json:"userId"`
	Role      string    `db:"role" json:"role"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// User is the minimal account record anchoring session ownership.
type User struct {
	ID           string    `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// SessionRepository defines session storage operations. Get returns the
// row regardless of owner so the service can distinguish NotFound from
// Forbidden; tombstoned rows are never returned. Mutations report rows
// affected so the service layer can detect lost updates.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	ListByUser(ctx context.Context, userID string) ([]*Session, error)
	UpdateTitle(ctx context.Context, id, title string) (int64, error)
	SoftDelete(ctx context.Context, id string) (int64, error)
	SoftDeleteBatch(ctx context.Context, ids []string, userID string) (int64, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
}

// MessageRepository defines message storage operations.
type MessageRepository interface {
	Create(ctx context.Context, message *Message) error
	ListBySession(ctx context.Context, sessionID string) ([]*Message, error)
	DeleteBySession(ctx context.Context, sessionID string) error
	CountBySession(ctx context.Context, sessionID string) (int64, error)
}

// UserRepository defines account storage operations.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
}

// TxRunner executes a function inside a database transaction. The
// transaction travels in the context; repository methods pick it up and
// run their statements on it instead of the pool.
type TxRunner interface {
	ExecTx(ctx context.Context, fn func(ctx context.Context) error) error
}
