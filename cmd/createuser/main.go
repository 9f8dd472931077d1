package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/nexchat/nexchat-backend/internal/auth"
	"github.com/nexchat/nexchat-backend/internal/config"
	"github.com/nexchat/nexchat-backend/internal/database"
	"github.com/nexchat/nexchat-backend/internal/repository"
	"github.com/nexchat/nexchat-backend/internal/repository/postgres"
)

func main() {
	var (
		username = flag.String("username", "testuser", "Username")
		password = flag.String("password", "password123", "User password")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	hash, err := auth.HashPassword(*password)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	user := &repository.User{
		Username:     *username,
		PasswordHash: hash,
	}

	userRepo := postgres.NewUserRepository(db.DB)
	if err := userRepo.Create(context.Background(), user); err != nil {
		log.Fatal("Failed to create user:", err)
	}

	fmt.Printf("Created user %s with id %s\n", user.Username, user.ID)
}
