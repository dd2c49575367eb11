package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-service/internal/domain"
	apperrors "github.com/spec-kit/blog-service/pkg/util/errorutil"
)

const identityKey = "auth_identity"

type identityCtxKey struct{}

var (
	errMissingHeader = errors.New("missing authorization header")
	errMalformed     = errors.New("malformed authorization header")
)

// Authenticator validates bearer tokens on protected routes.
type Authenticator struct {
	tokens *TokenManager
}

// NewAuthenticator constructs middleware.
func NewAuthenticator(tokens *TokenManager) *Authenticator {
	return &Authenticator{tokens: tokens}
}

// Handle enforces authentication for protected routes. Pre-flight requests
// pass through untouched. Every rejection carries the same message.
func (m *Authenticator) Handle(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodOptions {
		return c.Next()
	}

	token, err := bearerToken(c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return apperrors.NewAuthenticationFailed(err)
	}

	identity, err := m.tokens.ParseToken(token)
	if err != nil {
		return apperrors.NewAuthenticationFailed(err)
	}

	c.Locals(identityKey, identity)
	c.SetUserContext(WithIdentity(c.UserContext(), identity))
	return c.Next()
}

func bearerToken(header string) (string, error) {
	if strings.TrimSpace(header) == "" {
		return "", errMissingHeader
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errMalformed
	}
	return parts[1], nil
}

// IdentityFromContext retrieves the authenticated caller from request locals.
func IdentityFromContext(c *fiber.Ctx) (domain.Identity, bool) {
	identity, ok := c.Locals(identityKey).(domain.Identity)
	if !ok || identity.SubjectID == "" {
		return domain.Identity{}, false
	}
	return identity, true
}

// RequireIdentity returns the caller or an authentication failure.
func RequireIdentity(c *fiber.Ctx) (domain.Identity, error) {
	identity, ok := IdentityFromContext(c)
	if !ok {
		return domain.Identity{}, apperrors.NewAuthenticationFailed(nil)
	}
	return identity, nil
}

// WithIdentity attaches the caller to ctx.
func WithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, identity)
}

// IdentityFromCtx reads the caller attached by WithIdentity.
func IdentityFromCtx(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(identityCtxKey{}).(domain.Identity)
	return identity, ok
}
