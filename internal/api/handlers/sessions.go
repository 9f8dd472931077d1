package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nexchat/nexchat-backend/internal/api/middleware"
	"github.com/nexchat/nexchat-backend/internal/chaterr"
	"github.com/nexchat/nexchat-backend/internal/services"
)

// SessionHandlers exposes session lifecycle endpoints
type SessionHandlers struct {
	sessions *services.SessionService
}

// NewSessionHandlers creates session handlers
func NewSessionHandlers(sessions *services.SessionService) *SessionHandlers {
	return &SessionHandlers{sessions: sessions}
}

// Create creates a new chat session
func (h *SessionHandlers) Create(c *fiber.Ctx) error {
	var req struct {
		Title string `json:"title"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, chaterr.InvalidArgument("invalid request body"))
	}

	session, err := h.sessions.CreateSession(c.Context(), middleware.UserID(c), req.Title)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(session)
}

// List returns all sessions owned by the caller
func (h *SessionHandlers) List(c *fiber.Ctx) error {
	sessions, err := h.sessions.ListSessions(c.Context(), middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"sessions": sessions,
	})
}

// Get returns a single session
func (h *SessionHandlers) Get(c *fiber.Ctx) error {
	session, err := h.sessions.GetSession(c.Context(), c.Params("id"), middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(session)
}

// Rename updates a session title
func (h *SessionHandlers) Rename(c *fiber.Ctx) error {
	var req struct {
		Title string `json:"title"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, chaterr.InvalidArgument("invalid request body"))
	}

	session, err := h.sessions.RenameSession(c.Context(), c.Params("id"), middleware.UserID(c), req.Title)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(session)
}

// Delete tombstones a session and wipes its messages
func (h *SessionHandlers) Delete(c *fiber.Ctx) error {
	if err := h.sessions.DeleteSession(c.Context(), c.Params("id"), middleware.UserID(c)); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"deleted": true})
}

// BatchDelete tombstones a list of sessions, all or nothing
func (h *SessionHandlers) BatchDelete(c *fiber.Ctx) error {
	var req struct {
		IDs []string `json:"ids"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, chaterr.InvalidArgument("invalid request body"))
	}

	if err := h.sessions.BatchDeleteSessions(c.Context(), req.IDs, middleware.UserID(c)); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"deleted": len(req.IDs)})
}

// Count returns the caller's live session count
func (h *SessionHandlers) Count(c *fiber.Ctx) error {
	count, err := h.sessions.CountSessions(c.Context(), middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"count": count})
}
