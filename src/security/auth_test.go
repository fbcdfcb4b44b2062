package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/dealdesk/backend/src/config"
)

func TestHashAndComparePassword(t *testing.T) {
	authService := NewAuthService("test-secret-key-that-is-32-bytes!")

	hash, err := authService.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.NoError(t, authService.CompareHashAndPassword(hash, "correct horse battery staple"))
	assert.Error(t, authService.CompareHashAndPassword(hash, "wrong password"))
}

func TestGenerateAndValidateToken(t *testing.T) {
	config.Cfg = &config.AppConfig{AccessTokenExpiry: time.Minute}
	authService := NewAuthService("test-secret-key-that-is-32-bytes!")

	token, err := authService.GenerateToken("42")
	require.NoError(t, err)

	userID, err := authService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "42", userID)

	// A token signed with a different secret must be rejected.
	otherService := NewAuthService("another-secret-key-that-is-32-b!")
	_, err = otherService.ValidateToken(token)
	assert.Error(t, err)

	_, err = authService.ValidateToken("not-a-jwt")
	assert.Error(t, err)
}

func TestGenerateRefreshToken(t *testing.T) {
	authService := NewAuthService("test-secret-key-that-is-32-bytes!")

	first, err := authService.GenerateRefreshToken()
	require.NoError(t, err)
	second, err := authService.GenerateRefreshToken()
	require.NoError(t, err)

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}
