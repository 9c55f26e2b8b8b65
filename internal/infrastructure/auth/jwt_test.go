package auth

import (
	"testing"
	"time"

	"github.com/finsuite/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "test-issuer",
	})
}

func TestGenerateToken(t *testing.T) {
	svc := newTestJWTService()

	token, err := svc.GenerateToken(42, "ana@example.com")

	require.NoError(t, err)
	assert.NotEmpty(t, token.AccessToken)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), token.ExpiresAt, 5*time.Second)
}

func TestGenerateToken_RequiresEmail(t *testing.T) {
	_, err := newTestJWTService().GenerateToken(1, " ")
	assert.ErrorIs(t, err, ErrMissingEmail)
}

func TestValidateToken_Success(t *testing.T) {
	svc := newTestJWTService()
	token, err := svc.GenerateToken(42, "ana@example.com")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token.AccessToken)

	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.NotEmpty(t, claims.ID)
	userID, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
	assert.Greater(t, claims.RemainingTTL(), 14*time.Minute)
}

func TestValidateToken_UniqueJTI(t *testing.T) {
	svc := newTestJWTService()
	a, err := svc.GenerateToken(1, "a@example.com")
	require.NoError(t, err)
	b, err := svc.GenerateToken(1, "a@example.com")
	require.NoError(t, err)

	ca, err := svc.ValidateToken(a.AccessToken)
	require.NoError(t, err)
	cb, err := svc.ValidateToken(b.AccessToken)
	require.NoError(t, err)
	assert.NotEqual(t, ca.ID, cb.ID)
}

func TestValidateToken_Expired(t *testing.T) {
	svc := newTestJWTService()
	svc.now = func() time.Time { return time.Now().Add(-time.Hour) }
	token, err := svc.GenerateToken(42, "ana@example.com")
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateToken(token.AccessToken)

	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateToken_NotYetValid(t *testing.T) {
	svc := newTestJWTService()
	svc.now = func() time.Time { return time.Now().Add(time.Hour) }
	token, err := svc.GenerateToken(42, "ana@example.com")
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateToken(token.AccessToken)

	assert.ErrorIs(t, err, ErrTokenNotYetValid)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, err := newTestJWTService().GenerateToken(42, "ana@example.com")
	require.NoError(t, err)

	other := NewJWTService(config.JWTConfig{
		Secret:                "another-secret-key-of-32-characters",
		AccessTokenExpiration: time.Minute,
		Issuer:                "test-issuer",
	})
	_, err = other.ValidateToken(token.AccessToken)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_WrongIssuer(t *testing.T) {
	token, err := newTestJWTService().GenerateToken(42, "ana@example.com")
	require.NoError(t, err)

	other := NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		AccessTokenExpiration: time.Minute,
		Issuer:                "someone-else",
	})
	_, err = other.ValidateToken(token.AccessToken)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_MissingEmail(t *testing.T) {
	svc := newTestJWTService()
	now := time.Now()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "test-issuer",
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}).SignedString([]byte("test-secret-key-at-least-32-chars"))
	require.NoError(t, err)

	_, err = svc.ValidateToken(raw)

	assert.ErrorIs(t, err, ErrMissingEmail)
}

func TestValidateToken_Garbage(t *testing.T) {
	_, err := newTestJWTService().ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestClaims_UserID_Invalid(t *testing.T) {
	c := &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "abc"}}
	_, err := c.UserID()
	assert.ErrorIs(t, err, ErrInvalidClaims)
	assert.Equal(t, time.Duration(0), c.RemainingTTL())
}
