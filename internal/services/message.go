package services

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/nexchat/nexchat-backend/internal/chaterr"
	"github.com/nexchat/nexchat-backend/internal/repository"
)

// SessionAuthorizer is the narrow capability the message service needs
// from the session side: resolve a session id for a user or fail with
// NotFound/Forbidden. It is the only authorization path for messages.
type SessionAuthorizer interface {
	GetSession(ctx context.Context, id, userID string) (*repository.Session, error)
}

// MessageService owns message records. It holds no ownership logic of
// its own; every operation authorizes through the session gate first,
// and gate failures propagate unchanged.
type MessageService struct {
	repo       repository.MessageRepository
	authorizer SessionAuthorizer
	log        *logrus.Logger
}

// NewMessageService creates a new message service
func NewMessageService(repo repository.MessageRepository, authorizer SessionAuthorizer, log *logrus.Logger) *MessageService {
	return &MessageService{repo: repo, authorizer: authorizer, log: log}
}

// SendMessage validates and stores a single message in a session.
func (s *MessageService) SendMessage(ctx context.Context, sessionID, userID, role, content string) (*repository.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, chaterr.InvalidArgument("message content must not be empty")
	}
	if !repository.ValidRole(role) {
		return nil, chaterr.Newf(chaterr.KindInvalidArgument, "invalid role %q", role)
	}

	if _, err := s.authorizer.GetSession(ctx, sessionID, userID); err != nil {
		return nil, err
	}

	message := &repository.Message{
		SessionID: sessionID,
		UserID:    userID,
		Role:      role,
		Content:   content,
	}

	if err := s.repo.Create(ctx, message); err != nil {
		return nil, chaterr.Persistence("failed to store message", err)
	}

	s.log.WithFields(logrus.Fields{
		"message_id": message.ID,
		"session_id": sessionID,
		"role":       role,
	}).Debug("message stored")

	return message, nil
}

// ListMessages returns a session's messages in creation order.
func (s *MessageService) ListMessages(ctx context.Context, sessionID, userID string) ([]*repository.Message, error) {
	if _, err := s.authorizer.GetSession(ctx, sessionID, userID); err != nil {
		return nil, err
	}

	messages, err := s.repo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, chaterr.Persistence("failed to list messages", err)
	}
	return messages, nil
}

// DeleteSessionMessages wipes all messages in a session. Idempotent: an
// already-empty session wipes to zero effect.
func (s *MessageService) DeleteSessionMessages(ctx context.Context, sessionID, userID string) error {
	if _, err := s.authorizer.GetSession(ctx, sessionID, userID); err != nil {
		return err
	}

	if err := s.repo.DeleteBySession(ctx, sessionID); err != nil {
		return chaterr.Persistence("failed to delete session messages", err)
	}
	return nil
}

// CountMessages returns the number of messages in a session.
func (s *MessageService) CountMessages(ctx context.Context, sessionID, userID string) (int64, error) {
	if _, err := s.authorizer.GetSession(ctx, sessionID, userID); err != nil {
		return 0, err
	}

	count, err := s.repo.CountBySession(ctx, sessionID)
	if err != nil {
		return 0, chaterr.Persistence("failed to count messages", err)
	}
	return count, nil
}

// EraseSessionMessages implements the MessageEraser capability used by
// session deletion. The session service has already authorized the
// caller and owns the surrounding transaction.
func (s *MessageService) EraseSessionMessages(ctx context.Context, sessionID string) error {
	if err := s.repo.DeleteBySession(ctx, sessionID); err != nil {
		return chaterr.Persistence("failed to cascade session messages", err)
	}
	return nil
}
