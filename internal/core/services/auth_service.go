package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
	"github.com/comitanigiacomo/kanso-habits/internal/platform/metrics"
)

// TokenIssuer signs access tokens for a user id.
type TokenIssuer interface {
	GenerateToken(userID string) (string, error)
}

type AuthService struct {
	repo   domain.UserRepository
	tokens TokenIssuer
}

func NewAuthService(repo domain.UserRepository, tokens TokenIssuer) *AuthService {
	return &AuthService{
		repo:   repo,
		tokens: tokens,
	}
}

type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	id := uuid.NewString()
	user, err := domain.NewUser(id, input.Email)
	if err != nil {
		return nil, err
	}

	if err := user.SetDisplayName(input.DisplayName); err != nil {
		return nil, err
	}

	if err := user.SetPassword(input.Password); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, user); err != nil {
		metrics.RecordAuthEvent("register", "failure")
		return nil, fmt.Errorf("auth service: failed to create user: %w", err)
	}

	metrics.RecordAuthEvent("register", "success")
	return user, nil
}

// Login checks the credentials and returns a signed token. Unknown emails
// and wrong passwords both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.RecordAuthEvent("login", "failure")
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("auth service: lookup user: %w", err)
	}

	if err := user.CheckPassword(password); err != nil {
		metrics.RecordAuthEvent("login", "failure")
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return "", nil, err
	}

	metrics.RecordAuthEvent("login", "success")
	return token, user, nil
}
