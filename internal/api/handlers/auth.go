package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nexchat/nexchat-backend/internal/auth"
	"github.com/nexchat/nexchat-backend/internal/chaterr"
)

// AuthHandlers exposes the login endpoint
type AuthHandlers struct {
	auth *auth.Service
}

// NewAuthHandlers creates auth handlers
func NewAuthHandlers(authService *auth.Service) *AuthHandlers {
	return &AuthHandlers{auth: authService}
}

// Login validates credentials and returns a bearer token
func (h *AuthHandlers) Login(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, chaterr.InvalidArgument("invalid request body"))
	}
	if req.Username == "" || req.Password == "" {
		return fail(c, chaterr.InvalidArgument("username and password are required"))
	}

	user, token, err := h.auth.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":       user.ID,
			"username": user.Username,
		},
	})
}
