package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()
	tm := NewTokenManager(testSecret, 0)

	for _, subject := range []string{"A1", "6502f1b8-6f0e-4a41-9d8a-1b2c3d4e5f60", "user with spaces"} {
		token, exp, err := tm.GenerateToken(subject)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(2*time.Hour), exp, 5*time.Second)

		identity, err := tm.ParseToken(token)
		require.NoError(t, err)
		assert.Equal(t, subject, identity.SubjectID)
		assert.Equal(t, exp.Unix(), identity.ExpiresAt.Unix())
		assert.Equal(t, 2*time.Hour, identity.ExpiresAt.Sub(identity.IssuedAt))
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	t.Parallel()
	tm := NewTokenManager(testSecret, 2*time.Hour)
	tm.now = fixedClock(time.Now().Add(-4 * time.Hour))

	token, _, err := tm.GenerateToken("A1")
	require.NoError(t, err)

	tm.now = time.Now
	_, err = tm.ParseToken(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseTokenExpiresExactlyAfterTTL(t *testing.T) {
	t.Parallel()
	issued := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	tm := NewTokenManager(testSecret, 2*time.Hour)
	tm.now = fixedClock(issued)

	token, _, err := tm.GenerateToken("A1")
	require.NoError(t, err)

	tm.now = fixedClock(issued.Add(119 * time.Minute))
	_, err = tm.ParseToken(token)
	assert.NoError(t, err)

	tm.now = fixedClock(issued.Add(121 * time.Minute))
	_, err = tm.ParseToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseTokenRejectsForgedTokens(t *testing.T) {
	t.Parallel()
	tm := NewTokenManager(testSecret, 0)
	other := NewTokenManager("another-secret", 0)

	wrongKey, _, err := other.GenerateToken("A1")
	require.NoError(t, err)

	now := time.Now()
	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		SubjectID: "A1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{SubjectID: "A1"}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := map[string]string{
		"wrong key":  wrongKey,
		"alg none":   noneToken,
		"no expiry":  noExpiry,
		"no subject": noSubject,
		"garbage":    "malformed.token.here",
		"empty":      "",
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := tm.ParseToken(token)
			assert.Error(t, err)
		})
	}
}

func TestGenerateTokenRequiresSubject(t *testing.T) {
	t.Parallel()
	_, _, err := NewTokenManager(testSecret, 0).GenerateToken("")
	assert.Error(t, err)
}
