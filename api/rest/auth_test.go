package rest_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginAutoRegister(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "alice",
		"password": "pass1234",
	})
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode(t, w)
	assert.NotEmpty(t, resp["token"])
	assert.NotZero(t, resp["account_id"])
	assert.Equal(t, "alice", resp["username"])
}

func TestLoginWrongPassword(t *testing.T) {
	e := newEnv(t)
	e.login(t, "bob")

	w := e.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "bob",
		"password": "not-the-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginSecondTime(t *testing.T) {
	e := newEnv(t)
	t1 := e.login(t, "carol")
	t2 := e.login(t, "carol")
	assert.NotEmpty(t, t1)
	assert.NotEmpty(t, t2)
}

func TestLogoutKillsSession(t *testing.T) {
	e := newEnv(t)
	token := e.login(t, "dave")

	w := e.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// The token itself is still valid JWT, but the session is gone.
	w2 := e.do(t, http.MethodGet, "/api/characters", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w2.Code)
}

func TestRefreshRotatesToken(t *testing.T) {
	e := newEnv(t)
	token := e.login(t, "erin")

	w := e.do(t, http.MethodPost, "/api/auth/refresh", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	fresh := decode(t, w)["token"].(string)
	require.NotEqual(t, token, fresh)

	// Old session is revoked, new one works.
	assert.Equal(t, http.StatusUnauthorized, e.do(t, http.MethodGet, "/api/characters", token, nil).Code)
	assert.Equal(t, http.StatusOK, e.do(t, http.MethodGet, "/api/characters", fresh, nil).Code)
}

func TestLoginValidation(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "x", // too short
		"password": "pass1234",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
