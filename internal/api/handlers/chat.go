package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nexchat/nexchat-backend/internal/api/middleware"
	"github.com/nexchat/nexchat-backend/internal/chaterr"
	"github.com/nexchat/nexchat-backend/internal/providers"
	"github.com/nexchat/nexchat-backend/internal/services"
)

// ChatHandlers exposes the provider-facing chat endpoints
type ChatHandlers struct {
	chat *services.ChatService
}

// NewChatHandlers creates chat handlers
func NewChatHandlers(chat *services.ChatService) *ChatHandlers {
	return &ChatHandlers{chat: chat}
}

// Chat handles a single-turn exchange in a fresh session
func (h *ChatHandlers) Chat(c *fiber.Ctx) error {
	var req struct {
		Prompt        string `json:"prompt"`
		SystemMessage string `json:"systemMessage"`
		Model         string `json:"model"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, chaterr.InvalidArgument("invalid request body"))
	}

	result, err := h.chat.Chat(c.Context(), middleware.UserID(c), req.Prompt, req.SystemMessage, req.Model)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"sessionId": result.SessionID,
		"prompt":    req.Prompt,
		"response":  result.Reply,
	})
}

// MultiChat handles a multi-turn exchange, continuing an existing
// session when the request names one
func (h *ChatHandlers) MultiChat(c *fiber.Ctx) error {
	var req struct {
		SessionID     string              `json:"sessionId"`
		Messages      []providers.Message `json:"messages"`
		SystemMessage string              `json:"systemMessage"`
		Model         string              `json:"model"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, chaterr.InvalidArgument("invalid request body"))
	}

	result, err := h.chat.MultiChat(c.Context(), middleware.UserID(c), req.SessionID, req.Messages, req.SystemMessage, req.Model)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"sessionId": result.SessionID,
		"response":  result.Reply,
	})
}

// Health reports that the chat surface is up
func (h *ChatHandlers) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "AI chat service is running",
	})
}
