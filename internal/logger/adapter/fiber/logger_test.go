package fiber_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkboard/linkboard/internal/logger"
	adapter "github.com/linkboard/linkboard/internal/logger/adapter/fiber"
)

type accessLine struct {
	IP     string `json:"IP"`
	Status int    `json:"status"`
	URI    string `json:"URI"`
	Method string `json:"method"`
	Host   string `json:"host"`
	Error  string `json:"error"`
}

func newTestApp(cfg adapter.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		CaseSensitive: true,
		Immutable:     true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError

			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
			}

			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(adapter.New(cfg))

	app.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.SendString("hello test")
	})
	app.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{"ok": true})
	})
	app.Get("/broken", func(_ *fiber.Ctx) error {
		return fiber.ErrBadGateway
	})

	return app
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		targetPath string
		quietAlive bool
		want       *accessLine
	}{
		{
			name:       "root",
			targetPath: "/",
			want:       &accessLine{Status: 200, URI: "/", Method: fiber.MethodGet, Host: "example.com"},
		},
		{
			name:       "query string kept",
			targetPath: "/?test=123",
			want:       &accessLine{Status: 200, URI: "/?test=123", Method: fiber.MethodGet, Host: "example.com"},
		},
		{
			name:       "unknown path",
			targetPath: "/no_path",
			want:       &accessLine{Status: 404, URI: "/no_path", Method: fiber.MethodGet, Host: "example.com"},
		},
		{
			name:       "chain error rendered by app handler",
			targetPath: "/broken",
			want:       &accessLine{Status: fiber.StatusBadGateway, URI: "/broken", Method: fiber.MethodGet, Host: "example.com"},
		},
		{
			name:       "health logged by default",
			targetPath: "/health",
			want:       &accessLine{Status: 200, URI: "/health", Method: fiber.MethodGet, Host: "example.com"},
		},
		{
			name:       "health skipped",
			targetPath: "/health",
			quietAlive: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			app := newTestApp(adapter.Config{
				Config: logger.Log{DisableCheckAlive: tt.quietAlive},
				Output: &buf,
			})

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, tt.targetPath, nil), -1)
			require.NoError(t, err)

			if tt.want == nil {
				assert.Empty(t, buf.String())
				return
			}

			assert.Equal(t, tt.want.Status, resp.StatusCode)

			var got accessLine
			require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

			assert.Equal(t, tt.want.Status, got.Status)
			assert.Equal(t, tt.want.URI, got.URI)
			assert.Equal(t, tt.want.Method, got.Method)
			assert.Equal(t, tt.want.Host, got.Host)
			assert.Equal(t, "0.0.0.0", got.IP)
		})
	}
}

func TestNewSkipsWithNext(t *testing.T) {
	var buf bytes.Buffer

	app := newTestApp(adapter.Config{
		Next:   func(_ *fiber.Ctx) bool { return true },
		Output: &buf,
	})

	_, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}
