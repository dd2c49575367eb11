package service

import (
	"context"
	"strings"
	"time"

	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/config"
	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/repository"
	apperrors "github.com/spec-kit/blog-service/pkg/util/errorutil"
)

const invalidCredentialsMessage = "invalid email or password"

// RegisterInput describes a new account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	City     string
	Bio      string
	Work     string
	Skills   string
}

// Session is the result of a successful login.
type Session struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// AuthService coordinates registration and login flows. It is the only issuer
// of session tokens.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository) *AuthService {
	return &AuthService{
		users:      users,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL()),
		bcryptCost: cfg.BcryptCost,
	}
}

// Register creates a new account.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	email := normalizeEmail(input.Email)
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("user with this email already exists", nil)
	} else if !apperrors.IsNoRows(err) {
		return nil, apperrors.NewPersistenceFailure(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hash,
		City:         strings.TrimSpace(input.City),
		Bio:          strings.TrimSpace(input.Bio),
		Work:         strings.TrimSpace(input.Work),
		Skills:       strings.TrimSpace(input.Skills),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.NewPersistenceFailure(err)
	}
	return user, nil
}

// Login authenticates a user and issues a session token. Unknown email and
// wrong password are reported identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if apperrors.IsNoRows(err) {
			auth.BurnCompare(password)
			return nil, apperrors.NewUnauthorized(invalidCredentialsMessage)
		}
		return nil, apperrors.NewPersistenceFailure(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized(invalidCredentialsMessage)
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &Session{User: user, Token: token, ExpiresAt: exp}, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
