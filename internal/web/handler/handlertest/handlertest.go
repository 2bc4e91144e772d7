// Package handlertest wires handlers against an in-memory database for tests.
package handlertest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/linkboard/linkboard/internal/auth"
	"github.com/linkboard/linkboard/internal/config"
	"github.com/linkboard/linkboard/internal/db/dbtest"
	"github.com/linkboard/linkboard/internal/db/models"
	"github.com/linkboard/linkboard/internal/storage"
	"github.com/linkboard/linkboard/internal/web/handler"
)

// OwnerPassword is the password of the seeded owner.
const OwnerPassword = "owner-password"

// Event is one recorded Emit call.
type Event struct {
	Name    string
	Payload any
}

// Recorder is an emitter remembering every event.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Emit implements broadcast.Emitter.
func (r *Recorder) Emit(event string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, Event{Name: event, Payload: payload})
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]Event(nil), r.events...)
}

// Env is a fiber app with an /api group and its dependencies.
type Env struct {
	App    *fiber.App
	API    fiber.Router
	Cfg    *config.Config
	DB     *gorm.DB
	Deps   *handler.Deps
	Events *Recorder
	Owner  *models.User
}

// New builds an Env with a seeded owner and a local file store in a temp dir.
func New(t *testing.T) *Env {
	t.Helper()

	cfg := config.Default()
	cfg.Storage.LocalDir = t.TempDir()

	db := dbtest.Open(t)

	tokens, err := auth.NewTokenService([]byte("handler-test-secret"), time.Hour)
	require.NoError(t, err)

	files, err := storage.New(&cfg)
	require.NoError(t, err)

	_, err = auth.NewLocalProvider(db).EnsureOwner("owner@example.com", OwnerPassword)
	require.NoError(t, err)

	var owner models.User
	require.NoError(t, db.Where("email = ?", "owner@example.com").First(&owner).Error)

	app := fiber.New(fiber.Config{
		ErrorHandler: handler.ErrorHandler,
		BodyLimit:    cfg.Webserver.BodyLimit,
	})

	events := &Recorder{}

	return &Env{
		App:    app,
		API:    app.Group("/api"),
		Cfg:    &cfg,
		DB:     db,
		Events: events,
		Owner:  &owner,
		Deps: &handler.Deps{
			DB:     db,
			Tokens: tokens,
			Files:  files,
			Events: events,
		},
	}
}

// Token issues a token for the seeded owner.
func (e *Env) Token(t *testing.T) string {
	t.Helper()

	token, err := e.Deps.Tokens.Issue(auth.IdentityOf(e.Owner))
	require.NoError(t, err)

	return token
}

// TokenFor issues a token for an arbitrary identity.
func (e *Env) TokenFor(t *testing.T, id auth.Identity) string {
	t.Helper()

	token, err := e.Deps.Tokens.Issue(id)
	require.NoError(t, err)

	return token
}

// Do sends a request. A non-nil body is sent as JSON unless it is already []byte.
func (e *Env) Do(t *testing.T, method, path string, body any, token string) (*http.Response, []byte) {
	t.Helper()

	var (
		reader      io.Reader
		contentType string
	)

	switch b := body.(type) {
	case nil:
	case []byte:
		reader = bytes.NewReader(b)
		contentType = "application/pdf"
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)

		reader = bytes.NewReader(raw)
		contentType = fiber.MIMEApplicationJSON
	}

	req := httptest.NewRequest(method, path, reader)
	if contentType != "" {
		req.Header.Set(fiber.HeaderContentType, contentType)
	}

	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := e.App.Test(req, -1)
	require.NoError(t, err)

	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, out
}

// Decode unmarshals raw into a value of type T.
func Decode[T any](t *testing.T, raw []byte) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))

	return v
}
