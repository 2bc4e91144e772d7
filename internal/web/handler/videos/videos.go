// Package videos serves the YouTube video board and its pinned video.
package videos

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/linkboard/linkboard/internal/auth"
	"github.com/linkboard/linkboard/internal/broadcast"
	"github.com/linkboard/linkboard/internal/config"
	"github.com/linkboard/linkboard/internal/db/controller"
	"github.com/linkboard/linkboard/internal/db/controller/video"
	"github.com/linkboard/linkboard/internal/db/models"
	"github.com/linkboard/linkboard/internal/web/handler"
)

const (
	// Path is the path of the video routes.
	Path = "/videos"
)

// Service is the videos handler service.
type Service struct {
	handler.Service
	cfg  *config.Config
	deps *handler.Deps
}

type createRequest struct {
	Title          string `json:"title" validate:"required"`
	YoutubeURLOrID string `json:"youtubeUrlOrId" validate:"required"`
}

// Init registers the video routes.
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
		r.Post("/:id/pin", append(deps.Owner(), s.Pin)...)
		r.Delete("/:id/pin", append(deps.Owner(), s.Unpin)...)
	})

	return nil
}

// List returns every video, newest first.
func (s *Service) List(c *fiber.Ctx) error {
	videos, err := video.List(s.deps.DB)
	if err != nil {
		return err
	}

	return c.JSON(videos)
}

// Create stores a video from a URL or bare id and announces it.
func (s *Service) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := s.deps.Validator.Bind(c, &req); err != nil {
		return err
	}

	ytID := ExtractYouTubeID(req.YoutubeURLOrID)
	if ytID == "" {
		return handler.InvalidInput("Unable to extract YouTube ID")
	}

	v := models.Video{Title: req.Title, YoutubeID: ytID}
	if id, ok := auth.IdentityFrom(c); ok {
		v.CreatedBy = id.ID
	}

	if err := video.Create(s.deps.DB, &v); err != nil {
		return err
	}

	s.deps.Events.Emit(broadcast.NewVideo, v)

	return c.JSON(v)
}

// Delete removes a video. A missing id answers success false.
func (s *Service) Delete(c *fiber.Ctx) error {
	id := c.Params("id")

	deleted, err := video.Delete(s.deps.DB, id)
	if err != nil {
		return err
	}

	if deleted {
		s.deps.Events.Emit(broadcast.DeletedVideo, broadcast.Deleted{ID: id})
	}

	return c.JSON(fiber.Map{"success": deleted})
}

// Pin makes the video the only pinned one.
func (s *Service) Pin(c *fiber.Ctx) error {
	v, err := video.Pin(s.deps.DB, c.Params("id"))
	if err != nil {
		return notFound(err)
	}

	log.Info().Str("video_id", v.ID).Msg("video pinned")
	s.deps.Events.Emit(broadcast.PinnedVideo, v)

	return c.JSON(v)
}

// Unpin clears the pinned flag of the video.
func (s *Service) Unpin(c *fiber.Ctx) error {
	v, err := video.Unpin(s.deps.DB, c.Params("id"))
	if err != nil {
		return notFound(err)
	}

	s.deps.Events.Emit(broadcast.UnpinnedVideo, v)

	return c.JSON(v)
}

func notFound(err error) error {
	if errors.Is(err, controller.ErrNotFound) || errors.Is(err, controller.ErrIDEmpty) {
		return handler.NotFound("Not found")
	}

	return err
}
