package services

import (
	"github.com/sirupsen/logrus"

	"github.com/nexchat/nexchat-backend/internal/providers"
	"github.com/nexchat/nexchat-backend/internal/repository"
)

// Services holds all service instances
type Services struct {
	Sessions *SessionService
	Messages *MessageService
	Chat     *ChatService
}

// NewServices creates all service instances and wires the narrow
// capabilities between the session and message services: messages
// authorize through the session gate, session deletion cascades through
// the message eraser.
func NewServices(
	sessionRepo repository.SessionRepository,
	messageRepo repository.MessageRepository,
	tx repository.TxRunner,
	registry *providers.Registry,
	providerID string,
	log *logrus.Logger,
) *Services {
	sessions := NewSessionService(sessionRepo, tx, log)
	messages := NewMessageService(messageRepo, sessions, log)
	sessions.SetEraser(messages)

	return &Services{
		Sessions: sessions,
		Messages: messages,
		Chat:     NewChatService(sessions, messages, registry, providerID, log),
	}
}
