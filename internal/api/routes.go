package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nexchat/nexchat-backend/internal/api/handlers"
	"github.com/nexchat/nexchat-backend/internal/api/middleware"
	"github.com/nexchat/nexchat-backend/internal/auth"
	"github.com/nexchat/nexchat-backend/internal/services"
)

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, svc *services.Services, authService *auth.Service) {
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": "nexchat-backend",
		})
	})

	// Auth
	authHandlers := handlers.NewAuthHandlers(authService)
	api.Post("/auth/login", authHandlers.Login)

	chatHandlers := handlers.NewChatHandlers(svc.Chat)
	api.Get("/ai/health", chatHandlers.Health)

	// Everything registered below requires a resolved user identity
	api.Use(middleware.AuthRequired(authService))

	// Session management
	sessionHandlers := handlers.NewSessionHandlers(svc.Sessions)
	api.Post("/chat/sessions", sessionHandlers.Create)
	api.Get("/chat/sessions", sessionHandlers.List)
	api.Get("/chat/sessions/count", sessionHandlers.Count)
	api.Post("/chat/sessions/batch-delete", sessionHandlers.BatchDelete)
	api.Get("/chat/sessions/:id", sessionHandlers.Get)
	api.Put("/chat/sessions/:id", sessionHandlers.Rename)
	api.Delete("/chat/sessions/:id", sessionHandlers.Delete)

	// Messages
	messageHandlers := handlers.NewMessageHandlers(svc.Messages)
	api.Post("/chat/messages", messageHandlers.Send)
	api.Get("/chat/messages/session/:sessionId", messageHandlers.List)
	api.Delete("/chat/messages/session/:sessionId", messageHandlers.DeleteAll)
	api.Get("/chat/messages/session/:sessionId/count", messageHandlers.Count)

	// Provider-facing chat
	api.Post("/ai/chat", chatHandlers.Chat)
	api.Post("/ai/multi-chat", chatHandlers.MultiChat)
}
