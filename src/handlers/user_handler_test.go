package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/dealdesk/backend/src/config"
	"github.com/username/dealdesk/backend/src/database"
	"github.com/username/dealdesk/backend/src/logger"
	"github.com/username/dealdesk/backend/src/security"
)

func setupAuthTest(t *testing.T) *UserHandler {
	t.Helper()
	logger.InitLogger("error")
	config.Cfg = &config.AppConfig{
		AccessTokenExpiry:  time.Minute,
		RefreshTokenExpiry: time.Hour,
	}
	database.InitDB(filepath.Join(t.TempDir(), "test.db"))
	return NewUserHandler(security.NewAuthService("test-secret-key-that-is-32-bytes!"))
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestRegisterLoginRefreshFlow(t *testing.T) {
	h := setupAuthTest(t)

	rec := postJSON(t, h.RegisterUserHandler, "/api/auth/register", map[string]string{
		"username": "ana", "email": "ana@example.com", "password": "s3cret-password",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// Duplicate username is a conflict, not a server error.
	rec = postJSON(t, h.RegisterUserHandler, "/api/auth/register", map[string]string{
		"username": "ana", "email": "other@example.com", "password": "s3cret-password",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = postJSON(t, h.LoginUserHandler, "/api/auth/login", map[string]string{
		"username": "ana", "password": "s3cret-password",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var loginResp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &loginResp))
	require.NotEmpty(t, loginResp.AccessToken)
	require.NotEmpty(t, loginResp.RefreshToken)

	// The opaque refresh token is honored through its session row.
	rec = postJSON(t, h.RefreshTokenHandler, "/api/auth/refresh", map[string]string{
		"refresh_token": loginResp.RefreshToken,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var refreshResp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &refreshResp))
	assert.NotEmpty(t, refreshResp.AccessToken)
	assert.NotEqual(t, loginResp.RefreshToken, refreshResp.RefreshToken)

	// The spent refresh token was rotated out and is single use.
	rec = postJSON(t, h.RefreshTokenHandler, "/api/auth/refresh", map[string]string{
		"refresh_token": loginResp.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegister_MissingEmail(t *testing.T) {
	h := setupAuthTest(t)

	rec := postJSON(t, h.RegisterUserHandler, "/api/auth/register", map[string]string{
		"username": "bea", "password": "s3cret-password",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRefresh_UnknownToken(t *testing.T) {
	h := setupAuthTest(t)

	rec := postJSON(t, h.RefreshTokenHandler, "/api/auth/refresh", map[string]string{
		"refresh_token": "not-a-known-token",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	h := setupAuthTest(t)

	rec := postJSON(t, h.RegisterUserHandler, "/api/auth/register", map[string]string{
		"username": "cat", "email": "cat@example.com", "password": "s3cret-password",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(t, h.LoginUserHandler, "/api/auth/login", map[string]string{
		"username": "cat", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
