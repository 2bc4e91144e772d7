// Package links serves the anchor link board.
package links

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/linkboard/linkboard/internal/auth"
	"github.com/linkboard/linkboard/internal/broadcast"
	"github.com/linkboard/linkboard/internal/config"
	"github.com/linkboard/linkboard/internal/db/controller/link"
	"github.com/linkboard/linkboard/internal/db/models"
	"github.com/linkboard/linkboard/internal/web/handler"
)

const (
	// Path is the path of the link routes.
	Path = "/links"
)

// Service is the links handler service.
type Service struct {
	handler.Service
	cfg  *config.Config
	deps *handler.Deps
}

type createRequest struct {
	Title string `json:"title" validate:"required"`
	URL   string `json:"url" validate:"required,url"`
}

// Init registers the link routes.
func (s *Service) Init(router fiber.Router, cfg *config.Config, deps *handler.Deps) error {
	if err := deps.Check(router, cfg); err != nil {
		return err
	}

	s.cfg = cfg
	s.deps = deps

	router.Route(Path, func(r fiber.Router) {
		r.Get(handler.RootPath, s.List)
		r.Post(handler.RootPath, append(deps.Owner(), s.Create)...)
		r.Delete("/:id", append(deps.Owner(), s.Delete)...)
	})

	return nil
}

// List returns every link, newest first.
func (s *Service) List(c *fiber.Ctx) error {
	links, err := link.List(s.deps.DB)
	if err != nil {
		return err
	}

	return c.JSON(links)
}

// Create stores a link and announces it.
func (s *Service) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := s.deps.Validator.Bind(c, &req); err != nil {
		return err
	}

	l := models.Link{Title: req.Title, URL: req.URL}
	if id, ok := auth.IdentityFrom(c); ok {
		l.CreatedBy = id.ID
	}

	if err := link.Create(s.deps.DB, &l); err != nil {
		return err
	}

	log.Debug().Str("link_id", l.ID).Msg("link created")
	s.deps.Events.Emit(broadcast.NewLink, l)

	return c.JSON(l)
}

// Delete removes a link. A missing id answers success false.
func (s *Service) Delete(c *fiber.Ctx) error {
	id := c.Params("id")

	deleted, err := link.Delete(s.deps.DB, id)
	if err != nil {
		return err
	}

	if deleted {
		s.deps.Events.Emit(broadcast.DeletedLink, broadcast.Deleted{ID: id})
	}

	return c.JSON(fiber.Map{"success": deleted})
}
