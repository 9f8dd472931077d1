package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nexchat/nexchat-backend/internal/chaterr"
	"github.com/nexchat/nexchat-backend/internal/conversation"
	"github.com/nexchat/nexchat-backend/internal/providers"
	"github.com/nexchat/nexchat-backend/internal/repository"
)

// Fallback assistant texts stored when the provider fails. A failed call
// is recorded in the conversation rather than dropped, so the history
// stays a complete replayable record.
const (
	noResponseText   = "No response from AI service"
	providerErrorFmt = "Error calling AI service: %v"
)

// ChatService orchestrates exchanges with the completion provider and
// keeps the stored conversation consistent with what was sent.
type ChatService struct {
	sessions   *SessionService
	messages   *MessageService
	registry   *providers.Registry
	providerID string
	log        *logrus.Logger
}

// NewChatService creates a new chat service
func NewChatService(sessions *SessionService, messages *MessageService, registry *providers.Registry, providerID string, log *logrus.Logger) *ChatService {
	return &ChatService{
		sessions:   sessions,
		messages:   messages,
		registry:   registry,
		providerID: providerID,
		log:        log,
	}
}

// ChatResult is the outcome of a completed exchange
type ChatResult struct {
	SessionID string `json:"sessionId"`
	Reply     string `json:"reply"`
}

// Chat handles a single-turn exchange: a fresh session is created, the
// prompt goes to the provider, both turns are stored, and the session is
// titled from the prompt.
func (s *ChatService) Chat(ctx context.Context, userID, prompt, systemMessage, model string) (*ChatResult, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, chaterr.InvalidArgument("prompt must not be empty")
	}

	session, err := s.sessions.CreateSession(ctx, userID, "Chat - "+time.Now().Format(time.RFC3339))
	if err != nil {
		return nil, err
	}

	input := conversation.Assemble(systemMessage, nil, []providers.Message{
		{Role: repository.RoleUser, Content: prompt},
	})
	reply := s.complete(ctx, input, model)

	if _, err := s.messages.SendMessage(ctx, session.ID, userID, repository.RoleUser, prompt); err != nil {
		return nil, err
	}
	if _, err := s.messages.SendMessage(ctx, session.ID, userID, repository.RoleAssistant, reply); err != nil {
		return nil, err
	}

	s.rename(ctx, session.ID, userID, prompt)

	return &ChatResult{SessionID: session.ID, Reply: reply}, nil
}

// MultiChat handles a multi-turn exchange. With no session id a fresh
// session is created and every supplied turn is stored. On a continuing
// session with history only the last user turn is stored; the rest of
// the supplied list is treated as resent history.
func (s *ChatService) MultiChat(ctx context.Context, userID, sessionID string, incoming []providers.Message, systemMessage, model string) (*ChatResult, error) {
	if len(incoming) == 0 {
		return nil, chaterr.InvalidArgument("message list must not be empty")
	}
	for _, msg := range incoming {
		if !repository.ValidRole(msg.Role) {
			return nil, chaterr.Newf(chaterr.KindInvalidArgument, "invalid role %q", msg.Role)
		}
		if strings.TrimSpace(msg.Content) == "" {
			return nil, chaterr.InvalidArgument("message content must not be empty")
		}
	}

	var (
		session *repository.Session
		history []providers.Message
		err     error
	)

	if sessionID == "" {
		session, err = s.sessions.CreateSession(ctx, userID, "Multi Chat - "+time.Now().Format(time.RFC3339))
		if err != nil {
			return nil, err
		}
	} else {
		session, err = s.sessions.GetSession(ctx, sessionID, userID)
		if err != nil {
			return nil, err
		}

		stored, err := s.messages.ListMessages(ctx, sessionID, userID)
		if err != nil {
			return nil, err
		}
		history = make([]providers.Message, len(stored))
		for i, msg := range stored {
			history[i] = providers.Message{Role: msg.Role, Content: msg.Content}
		}
	}

	fresh := sessionID == "" || len(history) == 0
	for _, msg := range conversation.PersistPlan(fresh, incoming) {
		if _, err := s.messages.SendMessage(ctx, session.ID, userID, msg.Role, msg.Content); err != nil {
			return nil, err
		}
	}

	input := conversation.Assemble(systemMessage, history, incoming)
	reply := s.complete(ctx, input, model)

	if _, err := s.messages.SendMessage(ctx, session.ID, userID, repository.RoleAssistant, reply); err != nil {
		return nil, err
	}

	if last, ok := conversation.LastUserMessage(incoming); ok {
		s.rename(ctx, session.ID, userID, last.Content)
	}

	return &ChatResult{SessionID: session.ID, Reply: reply}, nil
}

// complete calls the provider and converts any failure into the fallback
// assistant text. The exchange itself never aborts on a provider error.
func (s *ChatService) complete(ctx context.Context, input []providers.Message, model string) string {
	provider := s.registry.Get(s.providerID)
	if provider == nil {
		s.log.WithField("provider", s.providerID).Error("provider not registered")
		return fmt.Sprintf(providerErrorFmt, "provider not configured")
	}

	resp, err := provider.Complete(ctx, providers.CompletionRequest{
		Messages: input,
		Model:    model,
	})
	if err != nil {
		if errors.Is(err, providers.ErrNoChoices) {
			return noResponseText
		}
		s.log.WithError(err).Warn("completion failed")
		return fmt.Sprintf(providerErrorFmt, err)
	}

	return resp.Content
}

// rename retitles the session from message content. Best effort: a lost
// rename never fails an exchange that already stored its reply.
func (s *ChatService) rename(ctx context.Context, sessionID, userID, content string) {
	title := conversation.DeriveTitle(content)
	if title == "" {
		return
	}
	if _, err := s.sessions.RenameSession(ctx, sessionID, userID, title); err != nil {
		s.log.WithError(err).WithField("session_id", sessionID).Warn("session rename failed")
	}
}
