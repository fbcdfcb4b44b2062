package model

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/dealdesk/backend/src/database"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	database.InitDB(filepath.Join(t.TempDir(), "test.db"))
}

func TestCreateUserAndGetByUsername(t *testing.T) {
	setupTestDB(t)

	user := &User{Username: "ana", Email: "ana@example.com", Password: "hashed-password"}
	require.NoError(t, user.CreateUser(database.DB), "registration must insert against the NOT NULL email column")
	assert.NotZero(t, user.ID)

	found, err := GetUserByUsername(database.DB, "ana")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, "ana@example.com", found.Email)

	_, err = GetUserByUsername(database.DB, "missing")
	assert.Error(t, err)
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	setupTestDB(t)

	first := &User{Username: "ana", Email: "ana@example.com", Password: "hashed"}
	require.NoError(t, first.CreateUser(database.DB))

	second := &User{Username: "ana", Email: "other@example.com", Password: "hashed"}
	err := second.CreateUser(database.DB)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UNIQUE constraint failed: users.username")
}

func TestSessionLifecycle(t *testing.T) {
	setupTestDB(t)

	user := &User{Username: "bea", Email: "bea@example.com", Password: "hashed"}
	require.NoError(t, user.CreateUser(database.DB))

	session := &Session{
		UserID:       user.ID,
		Token:        "access-1",
		RefreshToken: "refresh-1",
		ExpiresAt:    time.Now().Add(time.Hour),
	}
	require.NoError(t, CreateSession(database.DB, session))

	byToken, err := GetSessionByToken(database.DB, "access-1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byToken.UserID)

	byRefresh, err := GetSessionByRefreshToken(database.DB, "refresh-1")
	require.NoError(t, err)
	assert.Equal(t, "access-1", byRefresh.Token)
	assert.Equal(t, user.ID, byRefresh.UserID)

	require.NoError(t, DeleteSessionByToken(database.DB, "access-1"))
	_, err = GetSessionByToken(database.DB, "access-1")
	assert.Error(t, err)
	_, err = GetSessionByRefreshToken(database.DB, "refresh-1")
	assert.Error(t, err)
}

func TestGetSessionByRefreshToken_Expired(t *testing.T) {
	setupTestDB(t)

	user := &User{Username: "cat", Email: "cat@example.com", Password: "hashed"}
	require.NoError(t, user.CreateUser(database.DB))

	session := &Session{
		UserID:       user.ID,
		Token:        "access-2",
		RefreshToken: "refresh-2",
		ExpiresAt:    time.Now().Add(-time.Minute),
	}
	require.NoError(t, CreateSession(database.DB, session))

	_, err := GetSessionByRefreshToken(database.DB, "refresh-2")
	assert.Error(t, err)
}
