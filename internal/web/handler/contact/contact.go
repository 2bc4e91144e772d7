// Package contact accepts messages from the public contact form.
package contact

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/linkboard/linkboard/internal/config"
	contactdb "github.com/linkboard/linkboard/internal/db/controller/contact"
	"github.com/linkboard/linkboard/internal/db/models"
	"github.com/linkboard/linkboard/internal/web/handler"
)

const (
	// Path is the path of the contact route.
	Path = "/contact"
)

// Service is the contact handler service.
type Service struct {
	handler.Service
	cfg  *config.Config
	deps *handler.Deps
}

type request struct {
	Name    string  `json:"name" validate:"required"`
	Email   string  `json:"email" validate:"required,email"`
	Phone   *string `json:"phone"`
	Message string  `json:"message" validate:"required"`
}

// Init registers the contact route.
func (s *Service) Init(router fiber.Router, cfg *config.Config, deps *handler.Deps) error {
	if err := deps.Check(router, cfg); err != nil {
		return err
	}

	s.cfg = cfg
	s.deps = deps

	router.Post(Path, s.Post)

	return nil
}

// Post stores a contact message.
func (s *Service) Post(c *fiber.Ctx) error {
	var req request
	if err := s.deps.Validator.Bind(c, &req); err != nil {
		return err
	}

	msg := models.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
	}

	if err := contactdb.Create(s.deps.DB, &msg); err != nil {
		return err
	}

	log.Info().Str("contact_id", msg.ID).Msg("contact message received")

	return c.JSON(fiber.Map{"success": true, "id": msg.ID})
}
