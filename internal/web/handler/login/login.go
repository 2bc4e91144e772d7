// Package login issues bearer tokens and lets the owner change their password.
package login

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/linkboard/linkboard/internal/auth"
	"github.com/linkboard/linkboard/internal/config"
	"github.com/linkboard/linkboard/internal/web/handler"
)

const (
	// Path is the path of the auth routes.
	Path = "/auth"
)

// Service is the login handler service.
type Service struct {
	handler.Service
	cfg      *config.Config
	deps     *handler.Deps
	provider *auth.LocalProvider
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}

type loginResponse struct {
	Token string        `json:"token"`
	User  auth.Identity `json:"user"`
}

// Init registers the auth routes.
func (s *Service) Init(router fiber.Router, cfg *config.Config, deps *handler.Deps) error {
	if err := deps.Check(router, cfg); err != nil {
		return err
	}

	s.cfg = cfg
	s.deps = deps
	s.provider = auth.NewLocalProvider(deps.DB)

	router.Route(Path, func(r fiber.Router) {
		r.Post("/login", s.Login)
		r.Post("/change-password", append(deps.Owner(), s.ChangePassword)...)
	})

	return nil
}

// Login exchanges email and password for a token.
func (s *Service) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := s.deps.Validator.Bind(c, &req); err != nil {
		return err
	}

	user, err := s.provider.Authenticate(req.Email, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		log.Info().Str("email", auth.NormalizeEmail(req.Email)).Msg("failed login")
		return handler.Unauthenticated("Invalid credentials")
	}

	if err != nil {
		return err
	}

	id := auth.IdentityOf(user)

	token, err := s.deps.Tokens.Issue(id)
	if err != nil {
		return err
	}

	log.Info().Str("user_id", id.ID).Msg("user logged in")

	return c.JSON(loginResponse{Token: token, User: id})
}

// ChangePassword replaces the password of the calling user.
func (s *Service) ChangePassword(c *fiber.Ctx) error {
	var req changePasswordRequest
	if err := s.deps.Validator.Bind(c, &req); err != nil {
		return err
	}

	id, ok := auth.IdentityFrom(c)
	if !ok {
		return handler.Unauthenticated("not authenticated")
	}

	err := s.provider.ChangePassword(id.ID, req.CurrentPassword, req.NewPassword)

	switch {
	case errors.Is(err, auth.ErrUserNotFound):
		return handler.NotFound("User not found")
	case errors.Is(err, auth.ErrInvalidOldPassword):
		return handler.Unauthenticated("Current password incorrect")
	case err != nil:
		return err
	}

	log.Info().Str("user_id", id.ID).Msg("password changed")

	return c.JSON(fiber.Map{"success": true})
}
