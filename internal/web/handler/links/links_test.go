package links

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkboard/linkboard/internal/auth"
	"github.com/linkboard/linkboard/internal/broadcast"
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

func TestCreateThenList(t *testing.T) {
	env := setup(t)
	token := env.Token(t)

	resp, body := env.Do(t, http.MethodPost, "/api/links", map[string]string{"title": "Go", "url": "https://go.dev"}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	first := handlertest.Decode[models.Link](t, body)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, env.Owner.ID, first.CreatedBy)

	// created_at must differ for a stable order
	time.Sleep(5 * time.Millisecond)

	resp, body = env.Do(t, http.MethodPost, "/api/links", map[string]string{"title": "Fiber", "url": "https://gofiber.io"}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = env.Do(t, http.MethodGet, "/api/links", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	list := handlertest.Decode[[]models.Link](t, body)
	require.Len(t, list, 2)
	assert.Equal(t, "Fiber", list[0].Title)
	assert.Equal(t, "https://gofiber.io", list[0].URL)
	assert.Equal(t, first.ID, list[1].ID)

	events := env.Events.Events()
	require.Len(t, events, 2)
	assert.Equal(t, broadcast.NewLink, events[0].Name)
	assert.Equal(t, first.ID, events[0].Payload.(models.Link).ID)
}

func TestCreateValidation(t *testing.T) {
	env := setup(t)

	resp, body := env.Do(t, http.MethodPost, "/api/links", map[string]string{"title": "x", "url": "not a url"}, env.Token(t))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, `"url" must be a valid uri`, handlertest.Decode[map[string]string](t, body)["error"])
	assert.Empty(t, env.Events.Events())
}

func TestCreateRequiresOwner(t *testing.T) {
	env := setup(t)
	payload := map[string]string{"title": "Go", "url": "https://go.dev"}

	resp, _ := env.Do(t, http.MethodPost, "/api/links", payload, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = env.Do(t, http.MethodPost, "/api/links", payload, "garbage")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	other := env.TokenFor(t, auth.Identity{ID: "x", Email: "x@example.com", Role: models.RoleOther})
	resp, _ = env.Do(t, http.MethodPost, "/api/links", payload, other)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	assert.Empty(t, env.Events.Events())
}

func TestDelete(t *testing.T) {
	env := setup(t)
	token := env.Token(t)

	_, body := env.Do(t, http.MethodPost, "/api/links", map[string]string{"title": "Go", "url": "https://go.dev"}, token)
	created := handlertest.Decode[models.Link](t, body)

	resp, body := env.Do(t, http.MethodDelete, "/api/links/"+created.ID, nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, handlertest.Decode[map[string]bool](t, body)["success"])

	resp, body = env.Do(t, http.MethodDelete, "/api/links/"+created.ID, nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, handlertest.Decode[map[string]bool](t, body)["success"])

	events := env.Events.Events()
	require.Len(t, events, 2)
	assert.Equal(t, broadcast.DeletedLink, events[1].Name)
	assert.Equal(t, broadcast.Deleted{ID: created.ID}, events[1].Payload)
}
