package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin_Success(t *testing.T) {
	r := setupRouter(t, setupTestDB(t))

	w := doJSON(t, r, "POST", "/api/v1/auth/login", map[string]any{
		"username": testAdminUser,
		"password": testAdminPassword,
	}, "")

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.NotEmpty(t, data["access_token"])
	assert.Equal(t, "bearer", data["token_type"])
}

func TestLogin_WrongPassword(t *testing.T) {
	r := setupRouter(t, setupTestDB(t))

	w := doJSON(t, r, "POST", "/api/v1/auth/login", map[string]any{
		"username": testAdminUser,
		"password": "wrong",
	}, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProtectedRoute_RequiresToken(t *testing.T) {
	r := setupRouter(t, setupTestDB(t))

	w := doJSON(t, r, "POST", "/api/v1/authors", map[string]any{"name": "nobody"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, "POST", "/api/v1/authors", map[string]any{"name": "nobody"}, "garbage-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogout_RevokesToken(t *testing.T) {
	r := setupRouter(t, setupTestDB(t))
	token := adminToken(t)

	w := doJSON(t, r, "GET", "/api/v1/auth/me", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, "POST", "/api/v1/auth/logout", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, "GET", "/api/v1/auth/me", nil, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
