package main

import (
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"github.com/nexchat/nexchat-backend/internal/api"
	"github.com/nexchat/nexchat-backend/internal/auth"
	"github.com/nexchat/nexchat-backend/internal/config"
	"github.com/nexchat/nexchat-backend/internal/database"
	"github.com/nexchat/nexchat-backend/internal/providers"
	"github.com/nexchat/nexchat-backend/internal/providers/deepseek"
	"github.com/nexchat/nexchat-backend/internal/repository/postgres"
	"github.com/nexchat/nexchat-backend/internal/services"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	// Connect to database
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()

	// Run migrations
	if err := database.RunMigrations(cfg.Database); err != nil {
		log.WithError(err).Fatal("failed to run migrations")
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Nexchat Backend",
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     getOrigins(),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// Initialize repositories
	sessionRepo := postgres.NewSessionRepository(db.DB)
	messageRepo := postgres.NewMessageRepository(db.DB)
	userRepo := postgres.NewUserRepository(db.DB)
	txRunner := postgres.NewTxManager(db.DB)

	// Initialize auth service
	jwtSecret := cfg.Auth.JWTSecret
	if jwtSecret == "" {
		jwtSecret = "change-me-in-production"
		log.Warn("using default JWT secret, set NEXCHAT_JWT_SECRET in production")
	}
	authService := auth.NewService(userRepo, auth.NewJWTService(jwtSecret, cfg.Auth.Issuer))

	// Initialize provider registry
	registry := providers.NewRegistry()
	if provider, err := deepseek.NewProvider(cfg.Provider); err != nil {
		log.WithError(err).Warn("completion provider not configured, chat replies will report the failure")
	} else {
		registry.Register(cfg.Provider.Name, provider)
	}

	// Initialize services
	svc := services.NewServices(sessionRepo, messageRepo, txRunner, registry, cfg.Provider.Name, log)

	// Setup routes
	api.SetupRoutes(app, svc, authService)

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.WithField("addr", addr).Info("nexchat backend starting")
	if err := app.Listen(addr); err != nil {
		log.WithError(err).Fatal("failed to start server")
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}

func getOrigins() string {
	origins := os.Getenv("NEXCHAT_CORS_ORIGINS")
	if origins == "" {
		return "http://localhost:5173,http://localhost:3000"
	}
	return origins
}
