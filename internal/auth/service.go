package auth

import (
	"context"
	"database/sql"
	"errors"

	"github.com/nexchat/nexchat-backend/internal/chaterr"
	"github.com/nexchat/nexchat-backend/internal/repository"
)

// Service resolves credentials to user identities. Everything past this
// package treats identity as an opaque user id.
type Service struct {
	users repository.UserRepository
	jwt   *JWTService
}

// NewService creates a new auth service
func NewService(users repository.UserRepository, jwt *JWTService) *Service {
	return &Service{users: users, jwt: jwt}
}

// Login validates credentials and issues a token
func (s *Service) Login(ctx context.Context, username, password string) (*repository.User, string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", chaterr.Unauthenticated("invalid username or password")
		}
		return nil, "", chaterr.Persistence("failed to load user", err)
	}

	if !CheckPassword(password, user.PasswordHash) {
		return nil, "", chaterr.Unauthenticated("invalid username or password")
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, "", chaterr.Persistence("failed to issue token", err)
	}

	return user, token, nil
}

// Resolve turns a bearer token into a user id, the contract the chat
// layer relies on: a user id or Unauthenticated, nothing in between.
func (s *Service) Resolve(tokenString string) (string, error) {
	claims, err := s.jwt.ValidateToken(tokenString)
	if err != nil {
		return "", chaterr.Wrap(chaterr.KindUnauthenticated, "invalid or expired token", err)
	}
	return claims.UserID, nil
}
