package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/nexchat/nexchat-backend/internal/auth"
)

func main() {
	var (
		userID   = flag.String("user", "", "User id to mint a token for")
		username = flag.String("username", "", "Username claim")
	)
	flag.Parse()

	if *userID == "" {
		log.Fatal("-user is required")
	}

	secret := os.Getenv("NEXCHAT_JWT_SECRET")
	if secret == "" {
		secret = "change-me-in-production"
	}

	jwtService := auth.NewJWTService(secret, "nexchat")
	token, err := jwtService.GenerateToken(*userID, *username)
	if err != nil {
		log.Fatal("Failed to sign token:", err)
	}

	fmt.Println(token)
}
