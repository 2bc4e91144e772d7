package auth

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkboard/linkboard/internal/db/models"
)

func newMiddlewareApp(tokens *TokenService) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
			}

			return c.SendStatus(fiber.StatusInternalServerError)
		},
	})

	app.Get("/owner", RequireToken(tokens), RequireOwner(), func(c *fiber.Ctx) error {
		id, _ := IdentityFrom(c)
		return c.SendString(id.ID)
	})
	app.Get("/any", RequireToken(tokens), RequireRole(models.Roles...), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/misordered", RequireOwner(), func(c *fiber.Ctx) error {
		return c.SendString("unreachable")
	})

	return app
}

func TestRequireOwner(t *testing.T) {
	tokens := newTestTokens(t)
	app := newMiddlewareApp(tokens)

	ownerToken, err := tokens.Issue(Identity{ID: "o", Email: "o@example.com", Role: models.RoleOwner})
	require.NoError(t, err)

	otherToken, err := tokens.Issue(Identity{ID: "x", Email: "x@example.com", Role: models.RoleOther})
	require.NoError(t, err)

	testCases := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{name: "no header", path: "/owner", want: fiber.StatusUnauthorized},
		{name: "wrong scheme", path: "/owner", header: "Basic " + ownerToken, want: fiber.StatusUnauthorized},
		{name: "invalid token", path: "/owner", header: "Bearer nope", want: fiber.StatusUnauthorized},
		{name: "other role", path: "/owner", header: "Bearer " + otherToken, want: fiber.StatusForbidden},
		{name: "owner", path: "/owner", header: "Bearer " + ownerToken, want: fiber.StatusOK},
		{name: "lowercase scheme", path: "/owner", header: "bearer " + ownerToken, want: fiber.StatusOK},
		{name: "any role other", path: "/any", header: "Bearer " + otherToken, want: fiber.StatusOK},
		{name: "role check without token", path: "/misordered", header: "Bearer " + ownerToken, want: fiber.StatusUnauthorized},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, tc.path, nil)
			if tc.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tc.header)
			}

			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}
