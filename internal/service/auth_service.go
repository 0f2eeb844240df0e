package service

import (
	"context"
	"errors"
	"strings"

	"qa-forum-web/internal/domain"
)

// ErrMissingCredentials is returned when email or password is blank.
var ErrMissingCredentials = errors.New("email and password are required")

// AuthService covers login and registration against the backend.
type AuthService interface {
	Login(ctx context.Context, creds domain.Credentials) (*domain.LoginResult, error)
	Register(ctx context.Context, reg domain.Registration) error
}

type authService struct {
	api ForumAPI
}

func NewAuthService(api ForumAPI) AuthService {
	return &authService{api: api}
}

func (s *authService) Login(ctx context.Context, creds domain.Credentials) (*domain.LoginResult, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	if creds.Email == "" || creds.Password == "" {
		return nil, ErrMissingCredentials
	}
	return s.api.Login(ctx, creds)
}

// Register validates locally first; a rejected form never reaches the network.
func (s *authService) Register(ctx context.Context, reg domain.Registration) error {
	reg.Username = strings.TrimSpace(reg.Username)
	reg.Email = strings.TrimSpace(reg.Email)
	if err := ValidateRegistration(reg); err != nil {
		return err
	}
	return s.api.Register(ctx, reg)
}
