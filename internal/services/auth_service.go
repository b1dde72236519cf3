// File: internal/services/auth_service.go
package services

import (
	"context"
	"errors"

	"github.com/invoicelens/go-invoicelens/internal/auth"
	"github.com/invoicelens/go-invoicelens/internal/domain"
	"github.com/invoicelens/go-invoicelens/internal/repository/user"
)

var (
	ErrEmailTaken         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type AuthService struct {
	userRepo     user.UserRepository
	jwtSecretKey string
	logger       Logger
}

func NewAuthService(userRepo user.UserRepository, jwtSecretKey string, logger Logger) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		jwtSecretKey: jwtSecretKey,
		logger:       logger,
	}
}

// Register creates a user and returns a signed access token.
func (s *AuthService) Register(ctx context.Context, email, password string) (string, error) {
	if existing, err := s.userRepo.FindByEmail(ctx, email); err == nil && existing != nil {
		s.logger.Warn("registration failed - email already exists", "user_id", existing.ID)
		return "", ErrEmailTaken
	}

	newUser := &domain.User{Email: email}
	if err := newUser.IsValid(); err != nil {
		return "", err
	}
	if err := newUser.HashPassword(password); err != nil {
		return "", err
	}

	created, err := s.userRepo.Create(ctx, newUser)
	if err != nil {
		s.logger.Error("user creation failed", "error", err)
		return "", err
	}

	s.logger.Info("user registered", "user_id", created.ID)
	return auth.GenerateJWT(created.ID, created.Email, []byte(s.jwtSecretKey))
}

// Login verifies credentials and returns a signed access token. The
// same error covers unknown email and wrong password.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		s.logger.Warn("login failed - user not found")
		return "", ErrInvalidCredentials
	}

	if err := u.ValidatePassword(password); err != nil {
		s.logger.Warn("login failed - invalid password", "user_id", u.ID)
		return "", ErrInvalidCredentials
	}

	s.logger.Info("login successful", "user_id", u.ID)
	return auth.GenerateJWT(u.ID, u.Email, []byte(s.jwtSecretKey))
}
