package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService("test-secret-key-for-testing-purposes", 30*24*time.Hour)
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	service := newTestJWTService()

	token, expiresAt, err := service.Generate("user-123", "test@example.com", "user")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := service.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "test@example.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, "user-123", claims.Subject)
}

func TestJWTService_Validate_WrongSecret(t *testing.T) {
	service := newTestJWTService()
	other := NewJWTService("a-different-secret", 30*24*time.Hour)

	token, _, err := service.Generate("user-123", "test@example.com", "user")
	require.NoError(t, err)

	_, err = other.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_Validate_Expired(t *testing.T) {
	service := NewJWTService("test-secret-key-for-testing-purposes", -time.Minute)

	token, _, err := service.Generate("user-123", "test@example.com", "user")
	require.NoError(t, err)

	_, err = service.Validate(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_Validate_Garbage(t *testing.T) {
	service := newTestJWTService()

	_, err := service.Validate("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_Validate_RejectsUnsignedToken(t *testing.T) {
	service := newTestJWTService()

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "user-123"})
	tokenString, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = service.Validate(tokenString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
