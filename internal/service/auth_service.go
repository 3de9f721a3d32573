package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/mobidic-dev/tripsettle/internal/auth"
	"github.com/mobidic-dev/tripsettle/internal/models"
)

// ErrBadRegistration means the registration input is unusable before the
// authenticator even sees it.
var ErrBadRegistration = errors.New("email, display name, and password required")

// AuthService registers and authenticates accounts and issues session
// tokens carrying the display name the settlement engine keys on.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
	}
}

// Session is an authenticated user plus their bearer token.
type Session struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// Register creates a new account and returns a signed session.
func (s *AuthService) Register(ctx context.Context, email, displayName, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	displayName = strings.TrimSpace(displayName)
	if email == "" || displayName == "" || password == "" {
		return nil, ErrBadRegistration
	}

	user, err := s.authenticator.Register(ctx, email, displayName, password)
	if err != nil {
		slog.Warn("Registration failed", "email", email, "error", err)
		return nil, err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		slog.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, err
	}

	slog.Info("User registered", "user_id", user.ID, "display_name", user.DisplayName)
	return &Session{User: user, Token: token}, nil
}

// Login authenticates a user and returns a signed session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	if email == "" || password == "" {
		return nil, auth.ErrInvalidCredentials
	}

	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		slog.Warn("Login failed", "email", email)
		return nil, auth.ErrInvalidCredentials
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		slog.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, err
	}

	slog.Info("User logged in", "user_id", user.ID)
	return &Session{User: user, Token: token}, nil
}
