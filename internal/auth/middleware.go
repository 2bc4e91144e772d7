package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/linkboard/linkboard/internal/db/models"
)

const identityKey = "identity"

// IdentityFrom returns the identity RequireToken stored for this request.
func IdentityFrom(c *fiber.Ctx) (*Identity, bool) {
	id, ok := c.Locals(identityKey).(*Identity)
	return id, ok && id != nil
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}

	return strings.TrimSpace(token)
}

// RequireToken rejects requests without a valid bearer token with 401.
func RequireToken(tokens *TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing token")
		}

		id, err := tokens.Verify(token)
		if err != nil {
			log.Debug().Err(err).Str("path", c.Path()).Msg("token rejected")
			return fiber.NewError(fiber.StatusUnauthorized, ErrInvalidToken.Error())
		}

		c.Locals(identityKey, id)

		return c.Next()
	}
}

// RequireRole lets a request through only if its identity holds one of roles.
// It must run after RequireToken.
func RequireRole(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := IdentityFrom(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "not authenticated")
		}

		if !id.Role.In(roles...) {
			log.Warn().Str("user_id", id.ID).Str("role", id.Role.String()).Str("path", c.Path()).
				Msg("user lacks required role")

			return fiber.NewError(fiber.StatusForbidden, "forbidden")
		}

		return c.Next()
	}
}

// RequireOwner lets only the owner through.
func RequireOwner() fiber.Handler {
	return RequireRole(models.RoleOwner)
}
