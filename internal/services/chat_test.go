package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexchat/nexchat-backend/internal/chaterr"
	"github.com/nexchat/nexchat-backend/internal/providers"
	"github.com/nexchat/nexchat-backend/internal/repository"
)

func TestChat_SingleTurnStoresBothSides(t *testing.T) {
	env := newTestEnv()
	env.provider.reply = "Hi there"
	ctx := context.Background()

	result, err := env.svc.Chat.Chat(ctx, "u1", "Hello", "", "")
	require.NoError(t, err)
	assert.Equal(t, "Hi there", result.Reply)

	messages, err := env.svc.Messages.ListMessages(ctx, result.SessionID, "u1")
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, repository.RoleUser, messages[0].Role)
	assert.Equal(t, "Hello", messages[0].Content)
	assert.Equal(t, repository.RoleAssistant, messages[1].Role)
	assert.Equal(t, "Hi there", messages[1].Content)

	// Session ends up titled from the prompt
	session, err := env.svc.Sessions.GetSession(ctx, result.SessionID, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Hello", session.Title)
}

func TestChat_EmptyPrompt(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.Chat.Chat(context.Background(), "u1", "  ", "", "")
	assert.True(t, chaterr.Is(err, chaterr.KindInvalidArgument))
}

func TestChat_SystemMessageReachesProvider(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.Chat.Chat(context.Background(), "u1", "Hello", "be brief", "")
	require.NoError(t, err)

	sent := env.provider.lastReq.Messages
	require.Len(t, sent, 2)
	assert.Equal(t, providers.Message{Role: "system", Content: "be brief"}, sent[0])
	assert.Equal(t, providers.Message{Role: "user", Content: "Hello"}, sent[1])
}

func TestChat_ProviderFailureStoredAsAssistantMessage(t *testing.T) {
	env := newTestEnv()
	env.provider.err = errors.New("connection refused")
	ctx := context.Background()

	result, err := env.svc.Chat.Chat(ctx, "u1", "Hello", "", "")
	require.NoError(t, err)
	assert.Contains(t, result.Reply, "Error calling AI service")

	// The failure is part of the record, not dropped
	messages, _ := env.svc.Messages.ListMessages(ctx, result.SessionID, "u1")
	require.Len(t, messages, 2)
	assert.Equal(t, repository.RoleAssistant, messages[1].Role)
	assert.Contains(t, messages[1].Content, "Error calling AI service")
}

func TestChat_EmptyChoicesFallback(t *testing.T) {
	env := newTestEnv()
	env.provider.err = chaterr.Wrap(chaterr.KindProvider, "empty completion", providers.ErrNoChoices)

	result, err := env.svc.Chat.Chat(context.Background(), "u1", "Hello", "", "")
	require.NoError(t, err)
	assert.Equal(t, "No response from AI service", result.Reply)
}

func TestMultiChat_FreshSessionPersistsEverything(t *testing.T) {
	env := newTestEnv()
	env.provider.reply = "sure"
	ctx := context.Background()

	incoming := []providers.Message{
		{Role: "user", Content: "q1"},
		{Role: "assistant", Content: "a1"},
		{Role: "user", Content: "q2"},
	}

	result, err := env.svc.Chat.MultiChat(ctx, "u1", "", incoming, "", "")
	require.NoError(t, err)

	messages, _ := env.svc.Messages.ListMessages(ctx, result.SessionID, "u1")
	// All three supplied turns plus the reply
	require.Len(t, messages, 4)
	assert.Equal(t, "q1", messages[0].Content)
	assert.Equal(t, "a1", messages[1].Content)
	assert.Equal(t, "q2", messages[2].Content)
	assert.Equal(t, "sure", messages[3].Content)
}

func TestMultiChat_ContinuationPersistsOnlyLastUserTurn(t *testing.T) {
	env := newTestEnv()
	env.provider.reply = "answer"
	ctx := context.Background()

	// Seed a session with four stored turns
	session, _ := env.svc.Sessions.CreateSession(ctx, "u1", "seeded")
	seed := []providers.Message{
		{Role: "user", Content: "q1"},
		{Role: "assistant", Content: "a1"},
		{Role: "user", Content: "q2"},
		{Role: "assistant", Content: "a2"},
	}
	for _, m := range seed {
		_, err := env.svc.Messages.SendMessage(ctx, session.ID, "u1", m.Role, m.Content)
		require.NoError(t, err)
	}

	// Client resends the history plus one genuinely new turn
	incoming := append(append([]providers.Message{}, seed...), providers.Message{Role: "user", Content: "What next?"})

	result, err := env.svc.Chat.MultiChat(ctx, "u1", session.ID, incoming, "sys", "")
	require.NoError(t, err)
	assert.Equal(t, session.ID, result.SessionID)

	// Only "What next?" and the reply were added
	messages, _ := env.svc.Messages.ListMessages(ctx, session.ID, "u1")
	require.Len(t, messages, 6)
	assert.Equal(t, "What next?", messages[4].Content)
	assert.Equal(t, repository.RoleUser, messages[4].Role)
	assert.Equal(t, "answer", messages[5].Content)
	assert.Equal(t, repository.RoleAssistant, messages[5].Role)

	// Provider input: system + the resent batch, stored history not doubled
	sent := env.provider.lastReq.Messages
	require.Len(t, sent, 6)
	assert.Equal(t, providers.Message{Role: "system", Content: "sys"}, sent[0])
	assert.Equal(t, "What next?", sent[5].Content)

	// Session retitled from the last user turn
	updated, _ := env.svc.Sessions.GetSession(ctx, session.ID, "u1")
	assert.Equal(t, "What next?", updated.Title)
}

func TestMultiChat_ContinuationWithOnlyNewTurnIncludesHistory(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	session, _ := env.svc.Sessions.CreateSession(ctx, "u1", "seeded")
	env.svc.Messages.SendMessage(ctx, session.ID, "u1", repository.RoleUser, "q1")
	env.svc.Messages.SendMessage(ctx, session.ID, "u1", repository.RoleAssistant, "a1")

	incoming := []providers.Message{{Role: "user", Content: "q2"}}
	_, err := env.svc.Chat.MultiChat(ctx, "u1", session.ID, incoming, "", "")
	require.NoError(t, err)

	// History precedes the new turn on the wire
	sent := env.provider.lastReq.Messages
	require.Len(t, sent, 3)
	assert.Equal(t, "q1", sent[0].Content)
	assert.Equal(t, "a1", sent[1].Content)
	assert.Equal(t, "q2", sent[2].Content)
}

func TestMultiChat_UnknownSessionPropagates(t *testing.T) {
	env := newTestEnv()

	incoming := []providers.Message{{Role: "user", Content: "q"}}
	_, err := env.svc.Chat.MultiChat(context.Background(), "u1", "missing", incoming, "", "")
	assert.True(t, chaterr.Is(err, chaterr.KindNotFound))
}

func TestMultiChat_ForeignSessionPropagates(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	session, _ := env.svc.Sessions.CreateSession(ctx, "u1", "t")

	incoming := []providers.Message{{Role: "user", Content: "q"}}
	_, err := env.svc.Chat.MultiChat(ctx, "u2", session.ID, incoming, "", "")
	assert.True(t, chaterr.Is(err, chaterr.KindForbidden))
}

func TestMultiChat_Validation(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.svc.Chat.MultiChat(ctx, "u1", "", nil, "", "")
	assert.True(t, chaterr.Is(err, chaterr.KindInvalidArgument))

	_, err = env.svc.Chat.MultiChat(ctx, "u1", "", []providers.Message{{Role: "bot", Content: "x"}}, "", "")
	assert.True(t, chaterr.Is(err, chaterr.KindInvalidArgument))

	_, err = env.svc.Chat.MultiChat(ctx, "u1", "", []providers.Message{{Role: "user", Content: " "}}, "", "")
	assert.True(t, chaterr.Is(err, chaterr.KindInvalidArgument))
}

func TestMultiChat_EmptySessionTreatedAsFresh(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	// Session exists but holds no messages yet
	session, _ := env.svc.Sessions.CreateSession(ctx, "u1", "empty")

	incoming := []providers.Message{
		{Role: "system", Content: "setup"},
		{Role: "user", Content: "q1"},
	}
	_, err := env.svc.Chat.MultiChat(ctx, "u1", session.ID, incoming, "", "")
	require.NoError(t, err)

	// Both supplied turns persisted, plus the reply
	messages, _ := env.svc.Messages.ListMessages(ctx, session.ID, "u1")
	require.Len(t, messages, 3)
	assert.Equal(t, "setup", messages[0].Content)
	assert.Equal(t, "q1", messages[1].Content)
}
