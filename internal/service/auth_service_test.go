package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/blog-service/pkg/util/errorutil"
)

func TestRegisterAndLogin(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	user, err := h.auth.Register(ctx, RegisterInput{
		Name:     "  Alice ",
		Email:    " Alice@Example.com ",
		Password: "secret-pass",
		City:     "Lisbon",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, "secret-pass", user.PasswordHash)

	session, err := h.auth.Login(ctx, "ALICE@example.com", "secret-pass")
	require.NoError(t, err)
	assert.Equal(t, user.ID, session.User.ID)
	assert.NotEmpty(t, session.Token)

	identity, err := h.auth.TokenManager().ParseToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, identity.SubjectID)
	assert.True(t, identity.ExpiresAt.Equal(session.ExpiresAt))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	input := RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "secret-pass"}

	_, err := h.auth.Register(ctx, input)
	require.NoError(t, err)

	input.Email = "ALICE@example.com"
	_, err = h.auth.Register(ctx, input)
	requireCode(t, err, apperrors.CodeConflict)
}

func TestLoginFailuresLookTheSame(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, err := h.auth.Register(ctx, RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "secret-pass"})
	require.NoError(t, err)

	_, wrongPassword := h.auth.Login(ctx, "alice@example.com", "not-it")
	_, unknownEmail := h.auth.Login(ctx, "bob@example.com", "secret-pass")

	requireCode(t, wrongPassword, apperrors.CodeUnauthorized)
	requireCode(t, unknownEmail, apperrors.CodeUnauthorized)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}
