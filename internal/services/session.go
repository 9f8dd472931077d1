package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nexchat/nexchat-backend/internal/chaterr"
	"github.com/nexchat/nexchat-backend/internal/repository"
)

// TitleMaxLen bounds session titles, in runes.
const TitleMaxLen = 100

// MessageEraser is the narrow capability the session service needs from
// the message side: wipe a session's messages inside the current
// transaction. It keeps the session/message dependency one-directional.
type MessageEraser interface {
	EraseSessionMessages(ctx context.Context, sessionID string) error
}

// SessionService owns session records and the ownership gate every other
// chat operation goes through.
type SessionService struct {
	repo   repository.SessionRepository
	eraser MessageEraser
	tx     repository.TxRunner
	log    *logrus.Logger
}

// NewSessionService creates a new session service
func NewSessionService(repo repository.SessionRepository, tx repository.TxRunner, log *logrus.Logger) *SessionService {
	return &SessionService{repo: repo, tx: tx, log: log}
}

// SetEraser wires the message-wipe capability. Called once at startup;
// it exists so the two services can be constructed without a cycle.
func (s *SessionService) SetEraser(eraser MessageEraser) {
	s.eraser = eraser
}

// CreateSession creates a new session. An empty title gets a generated
// placeholder.
func (s *SessionService) CreateSession(ctx context.Context, userID, title string) (*repository.Session, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = "新会话 " + uuid.New().String()[:8]
	}
	if utf8.RuneCountInString(title) > TitleMaxLen {
		return nil, chaterr.InvalidArgument("title too long")
	}

	session := &repository.Session{
		UserID:    userID,
		Title:     title,
		IsDeleted: false,
	}

	if err := s.repo.Create(ctx, session); err != nil {
		return nil, chaterr.Persistence("failed to create session", err)
	}

	s.log.WithFields(logrus.Fields{
		"session_id": session.ID,
		"user_id":    userID,
	}).Info("session created")

	return session, nil
}

// GetSession retrieves a session and enforces ownership. Tombstoned or
// unknown ids report NotFound; a live session owned by someone else
// reports Forbidden. Every message operation authorizes through here.
func (s *SessionService) GetSession(ctx context.Context, id, userID string) (*repository.Session, error) {
	session, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, chaterr.NotFound("session not found")
		}
		return nil, chaterr.Persistence("failed to load session", err)
	}

	if session.UserID != userID {
		return nil, chaterr.Forbidden("no access to this session")
	}

	return session, nil
}

// ListSessions returns all live sessions owned by the user
func (s *SessionService) ListSessions(ctx context.Context, userID string) ([]*repository.Session, error) {
	sessions, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, chaterr.Persistence("failed to list sessions", err)
	}
	return sessions, nil
}

// RenameSession updates a session title after revalidating ownership.
func (s *SessionService) RenameSession(ctx context.Context, id, userID, title string) (*repository.Session, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, chaterr.InvalidArgument("title must not be empty")
	}
	if utf8.RuneCountInString(title) > TitleMaxLen {
		return nil, chaterr.InvalidArgument("title too long")
	}

	session, err := s.GetSession(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.UpdateTitle(ctx, id, title)
	if err != nil {
		return nil, chaterr.Persistence("failed to update session title", err)
	}
	if rows != 1 {
		// Session vanished between the ownership check and the update
		return nil, chaterr.New(chaterr.KindPersistence, "session title update affected no rows")
	}

	session.Title = title
	return session, nil
}

// DeleteSession tombstones a session after wiping its messages. Cascade
// and tombstone run in one transaction; a failed cascade leaves the
// session untouched.
func (s *SessionService) DeleteSession(ctx context.Context, id, userID string) error {
	if _, err := s.GetSession(ctx, id, userID); err != nil {
		return err
	}

	err := s.tx.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.eraser.EraseSessionMessages(ctx, id); err != nil {
			return err
		}

		rows, err := s.repo.SoftDelete(ctx, id)
		if err != nil {
			return chaterr.Persistence("failed to delete session", err)
		}
		if rows != 1 {
			return chaterr.New(chaterr.KindPersistence, "session delete affected no rows")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"session_id": id,
		"user_id":    userID,
	}).Info("session deleted")

	return nil
}

// BatchDeleteSessions tombstones all listed sessions or none of them.
// Every id is revalidated before anything is touched; the first failure
// aborts the whole batch.
func (s *SessionService) BatchDeleteSessions(ctx context.Context, ids []string, userID string) error {
	if len(ids) == 0 {
		return nil
	}

	for _, id := range ids {
		if _, err := s.GetSession(ctx, id, userID); err != nil {
			return err
		}
	}

	err := s.tx.ExecTx(ctx, func(ctx context.Context) error {
		for _, id := range ids {
			if err := s.eraser.EraseSessionMessages(ctx, id); err != nil {
				return err
			}
		}

		rows, err := s.repo.SoftDeleteBatch(ctx, ids, userID)
		if err != nil {
			return chaterr.Persistence("failed to batch delete sessions", err)
		}
		if rows != int64(len(ids)) {
			return chaterr.Newf(chaterr.KindPersistence,
				"batch delete affected %d of %d sessions", rows, len(ids))
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"count":   len(ids),
		"user_id": userID,
	}).Info("sessions batch deleted")

	return nil
}

// CountSessions returns the number of live sessions owned by the user
func (s *SessionService) CountSessions(ctx context.Context, userID string) (int64, error) {
	count, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		return 0, chaterr.Persistence("failed to count sessions", err)
	}
	return count, nil
}
