package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nexchat/nexchat-backend/internal/api/middleware"
	"github.com/nexchat/nexchat-backend/internal/chaterr"
	"github.com/nexchat/nexchat-backend/internal/services"
)

// MessageHandlers exposes message endpoints
type MessageHandlers struct {
	messages *services.MessageService
}

// NewMessageHandlers creates message handlers
func NewMessageHandlers(messages *services.MessageService) *MessageHandlers {
	return &MessageHandlers{messages: messages}
}

// Send stores a single message in a session
func (h *MessageHandlers) Send(c *fiber.Ctx) error {
	var req struct {
		SessionID string `json:"sessionId"`
		Role      string `json:"role"`
		Content   string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, chaterr.InvalidArgument("invalid request body"))
	}

	message, err := h.messages.SendMessage(c.Context(), req.SessionID, middleware.UserID(c), req.Role, req.Content)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(message)
}

// List returns a session's messages in conversation order
func (h *MessageHandlers) List(c *fiber.Ctx) error {
	messages, err := h.messages.ListMessages(c.Context(), c.Params("sessionId"), middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"messages": messages,
	})
}

// DeleteAll wipes every message in a session
func (h *MessageHandlers) DeleteAll(c *fiber.Ctx) error {
	if err := h.messages.DeleteSessionMessages(c.Context(), c.Params("sessionId"), middleware.UserID(c)); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"deleted": true})
}

// Count returns a session's message count
func (h *MessageHandlers) Count(c *fiber.Ctx) error {
	count, err := h.messages.CountMessages(c.Context(), c.Params("sessionId"), middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"count": count})
}
