package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/protrack/protrack-api/internal/dto"
	"github.com/protrack/protrack-api/internal/models"
)

func TestAuthHandler_LoginFlow(t *testing.T) {
	env := setupTestEnv(t)
	env.seedUser(t, "alice", models.RoleManager)

	w := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "alice",
		"password": testPassword,
	})
	require.Equal(t, http.StatusOK, w.Code)

	response := decode[dto.TokenResponse](t, w)
	require.NotEmpty(t, response.AccessToken)
	require.NotEmpty(t, response.RefreshToken)
	require.Equal(t, "alice", response.User.Username)

	// The access token authenticates follow-up requests
	me := env.do(t, http.MethodGet, "/api/auth/me", response.AccessToken, nil)
	require.Equal(t, http.StatusOK, me.Code)
}

func TestAuthHandler_LoginRejectsBadCredentials(t *testing.T) {
	env := setupTestEnv(t)
	env.seedUser(t, "alice", models.RoleUser)

	w := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "alice",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "nobody",
		"password": testPassword,
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_RefreshRotation(t *testing.T) {
	env := setupTestEnv(t)
	env.seedUser(t, "alice", models.RoleUser)

	login := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "alice",
		"password": testPassword,
	})
	require.Equal(t, http.StatusOK, login.Code)
	pair := decode[dto.TokenResponse](t, login)

	refresh := env.do(t, http.MethodPost, "/api/auth/refresh", "", map[string]string{
		"refresh_token": pair.RefreshToken,
	})
	require.Equal(t, http.StatusOK, refresh.Code)
	rotated := decode[dto.TokenResponse](t, refresh)
	require.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// The consumed token cannot be replayed
	replay := env.do(t, http.MethodPost, "/api/auth/refresh", "", map[string]string{
		"refresh_token": pair.RefreshToken,
	})
	require.Equal(t, http.StatusUnauthorized, replay.Code)
}

func TestAuthHandler_LogoutInvalidatesRefreshTokens(t *testing.T) {
	env := setupTestEnv(t)
	env.seedUser(t, "alice", models.RoleUser)

	login := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "alice",
		"password": testPassword,
	})
	pair := decode[dto.TokenResponse](t, login)

	w := env.do(t, http.MethodPost, "/api/auth/logout", pair.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	refresh := env.do(t, http.MethodPost, "/api/auth/refresh", "", map[string]string{
		"refresh_token": pair.RefreshToken,
	})
	require.Equal(t, http.StatusUnauthorized, refresh.Code)
}

func TestAuthHandler_RevokeRequiresElevatedRole(t *testing.T) {
	env := setupTestEnv(t)
	admin := env.seedUser(t, "admin", models.RoleAdmin)
	env.seedUser(t, "alice", models.RoleUser)

	login := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "alice",
		"password": testPassword,
	})
	pair := decode[dto.TokenResponse](t, login)

	// A plain User may not revoke
	w := env.do(t, http.MethodPost, "/api/auth/revoke", pair.AccessToken, map[string]string{
		"refresh_token": pair.RefreshToken,
	})
	require.Equal(t, http.StatusForbidden, w.Code)

	// An Admin may
	adminToken := env.accessTokenFor(t, admin)
	w = env.do(t, http.MethodPost, "/api/auth/revoke", adminToken, map[string]string{
		"refresh_token": pair.RefreshToken,
	})
	require.Equal(t, http.StatusOK, w.Code)

	// An unknown token is a 404
	w = env.do(t, http.MethodPost, "/api/auth/revoke", adminToken, map[string]string{
		"refresh_token": "never-issued",
	})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuthMiddleware_RejectsMissingOrGarbageToken(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/auth/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodGet, "/api/auth/me", "not-a-jwt", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
