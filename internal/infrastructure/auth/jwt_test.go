package auth

import (
	"testing"
	"time"

	"github.com/dangreenberg93/cin7-uploader/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService() *TokenService {
	cfg := config.AuthConfig{
		JWTSecret:       "test-secret-key-at-least-32-chars",
		TokenExpiration: 15 * time.Minute,
		Issuer:          "test-issuer",
	}
	return NewTokenService(cfg)
}

func TestTokenService_GenerateAndValidate(t *testing.T) {
	svc := newTestTokenService()

	token, err := svc.Generate("ops@example.com")
	require.NoError(t, err)
	require.NotNil(t, token)
	assert.NotEmpty(t, token.AccessToken)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), token.ExpiresAt, 5*time.Second)

	claims, err := svc.Validate(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", claims.Operator)
	assert.Equal(t, "ops@example.com", claims.Subject)
	assert.Equal(t, "test-issuer", claims.Issuer)
}

func TestTokenService_Generate_MissingOperator(t *testing.T) {
	svc := newTestTokenService()

	token, err := svc.Generate("")
	assert.ErrorIs(t, err, ErrMissingOperator)
	assert.Nil(t, token)
}

func TestTokenService_Validate_InvalidToken(t *testing.T) {
	svc := newTestTokenService()

	_, err := svc.Validate("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_Validate_WrongSecret(t *testing.T) {
	svc := newTestTokenService()
	token, err := svc.Generate("ops@example.com")
	require.NoError(t, err)

	other := NewTokenService(config.AuthConfig{
		JWTSecret:       "a-completely-different-secret-value",
		TokenExpiration: 15 * time.Minute,
		Issuer:          "test-issuer",
	})

	_, err = other.Validate(token.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_Validate_Expired(t *testing.T) {
	svc := NewTokenService(config.AuthConfig{
		JWTSecret:       "test-secret-key-at-least-32-chars",
		TokenExpiration: -1 * time.Minute,
		Issuer:          "test-issuer",
	})

	token, err := svc.Generate("ops@example.com")
	require.NoError(t, err)

	_, err = svc.Validate(token.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}
