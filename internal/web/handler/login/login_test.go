package login

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkboard/linkboard/internal/auth"
	"github.com/linkboard/linkboard/internal/db/models"
	"github.com/linkboard/linkboard/internal/web/handler/handlertest"
)

func setup(t *testing.T) *handlertest.Env {
	t.Helper()

	env := handlertest.New(t)
	svc := &Service{}
	require.NoError(t, svc.Init(env.API, env.Cfg, env.Deps))

	return env
}

func TestLogin(t *testing.T) {
	env := setup(t)

	resp, body := env.Do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "Owner@Example.com",
		"password": handlertest.OwnerPassword,
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	got := handlertest.Decode[loginResponse](t, body)
	assert.Equal(t, env.Owner.ID, got.User.ID)
	assert.Equal(t, "owner@example.com", got.User.Email)
	assert.Equal(t, models.RoleOwner, got.User.Role)

	id, err := env.Deps.Tokens.Verify(got.Token)
	require.NoError(t, err)
	assert.Equal(t, got.User, *id)
}

func TestLoginRejected(t *testing.T) {
	env := setup(t)

	tests := []struct {
		name string
		body map[string]string
		code int
		msg  string
	}{
		{
			name: "wrong password",
			body: map[string]string{"email": "owner@example.com", "password": "nope"},
			code: http.StatusUnauthorized,
			msg:  "Invalid credentials",
		},
		{
			name: "unknown email",
			body: map[string]string{"email": "ghost@example.com", "password": handlertest.OwnerPassword},
			code: http.StatusUnauthorized,
			msg:  "Invalid credentials",
		},
		{
			name: "missing password",
			body: map[string]string{"email": "owner@example.com"},
			code: http.StatusBadRequest,
			msg:  `"password" is required`,
		},
		{
			name: "malformed email",
			body: map[string]string{"email": "owner", "password": "x"},
			code: http.StatusBadRequest,
			msg:  `"email" must be a valid email`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := env.Do(t, http.MethodPost, "/api/auth/login", tt.body, "")
			assert.Equal(t, tt.code, resp.StatusCode)
			assert.Equal(t, tt.msg, handlertest.Decode[map[string]string](t, body)["error"])
		})
	}
}

func TestChangePassword(t *testing.T) {
	env := setup(t)
	token := env.Token(t)

	resp, body := env.Do(t, http.MethodPost, "/api/auth/change-password", map[string]string{
		"currentPassword": "wrong-password",
		"newPassword":     "a-new-password",
	}, token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Current password incorrect", handlertest.Decode[map[string]string](t, body)["error"])

	resp, _ = env.Do(t, http.MethodPost, "/api/auth/change-password", map[string]string{
		"currentPassword": handlertest.OwnerPassword,
		"newPassword":     "short",
	}, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = env.Do(t, http.MethodPost, "/api/auth/change-password", map[string]string{
		"currentPassword": handlertest.OwnerPassword,
		"newPassword":     "a-new-password",
	}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, _ = env.Do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "owner@example.com",
		"password": "a-new-password",
	}, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// issued before the change, still valid until it expires
	_, err := env.Deps.Tokens.Verify(token)
	assert.NoError(t, err)
}

func TestChangePasswordGuards(t *testing.T) {
	env := setup(t)
	body := map[string]string{"currentPassword": "x", "newPassword": "long-enough"}

	resp, _ := env.Do(t, http.MethodPost, "/api/auth/change-password", body, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	other := env.TokenFor(t, auth.Identity{ID: "someone", Email: "o@example.com", Role: models.RoleOther})
	resp, _ = env.Do(t, http.MethodPost, "/api/auth/change-password", body, other)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	ghost := env.TokenFor(t, auth.Identity{ID: "gone", Email: "gone@example.com", Role: models.RoleOwner})
	resp, raw := env.Do(t, http.MethodPost, "/api/auth/change-password", body, ghost)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "User not found", handlertest.Decode[map[string]string](t, raw)["error"])
}
