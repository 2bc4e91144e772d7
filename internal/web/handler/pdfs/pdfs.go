// Package pdfs serves PDF documents: presigned uploads, metadata and downloads.
package pdfs

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/linkboard/linkboard/internal/auth"
	"github.com/linkboard/linkboard/internal/broadcast"
	"github.com/linkboard/linkboard/internal/config"
	"github.com/linkboard/linkboard/internal/db/controller"
	"github.com/linkboard/linkboard/internal/db/controller/pdf"
	"github.com/linkboard/linkboard/internal/db/models"
	"github.com/linkboard/linkboard/internal/storage"
	"github.com/linkboard/linkboard/internal/web/handler"
)

const (
	// Path is the path of the pdf routes.
	Path = "/pdfs"

	defaultContentType = "application/pdf"
)

// Service is the pdfs handler service.
type Service struct {
	handler.Service
	cfg      *config.Config
	deps     *handler.Deps
	receiver storage.Receiver
	now      func() time.Time
}

type presignRequest struct {
	Filename    string `json:"filename" validate:"required"`
	ContentType string `json:"contentType" validate:"required"`
	Size        *int64 `json:"size" validate:"required,gte=0"`
}

type presignResponse struct {
	UploadURL   string `json:"uploadUrl"`
	FileKey     string `json:"fileKey"`
	DownloadURL string `json:"downloadUrl,omitempty"`
	Storage     string `json:"storage"`
}

type createRequest struct {
	Title       string `json:"title" validate:"required"`
	FileKey     string `json:"fileKey" validate:"required"`
	Filename    string `json:"filename" validate:"required"`
	ContentType string `json:"contentType" validate:"required"`
	Size        *int64 `json:"size" validate:"required,gte=0"`
}

// Init registers the pdf routes. Upload and download routes exist only
// when the file store is served by this process.
func (s *Service) Init(router fiber.Router, cfg *config.Config, deps *handler.Deps) error {
	if err := deps.Check(router, cfg); err != nil {
		return err
	}

	if deps.Files == nil {
		return handler.ErrNilDeps
	}

	s.cfg = cfg
	s.deps = deps
	s.receiver, _ = deps.Files.(storage.Receiver)

	if s.now == nil {
		s.now = time.Now
	}

	router.Route(Path, func(r fiber.Router) {
		r.Get(handler.RootPath, s.List)
		r.Post(handler.RootPath, append(deps.Owner(), s.Create)...)
		r.Post("/presign", append(deps.Owner(), s.Presign)...)

		if s.receiver != nil {
			r.Put("/upload/*", append(deps.Owner(), s.Upload)...)
			r.Get("/download/*", s.Download)
		}

		r.Delete("/:id", append(deps.Owner(), s.Delete)...)
	})

	log.Debug().Str("storage", deps.Files.Name()).Msg("pdf routes registered")

	return nil
}

// Presign hands out an upload URL and the key the document must be registered under.
func (s *Service) Presign(c *fiber.Ctx) error {
	var req presignRequest
	if err := s.deps.Validator.Bind(c, &req); err != nil {
		return err
	}

	if limit := s.cfg.Storage.MaxUploadSize; limit > 0 && *req.Size > limit {
		return handler.Validation(fmt.Sprintf(`"size" must be less than or equal to %d`, limit))
	}

	if !strings.Contains(req.ContentType, "pdf") {
		return handler.InvalidInput("contentType must be a PDF")
	}

	key := storage.NewKey(req.Filename, s.now())

	uploadURL, err := s.deps.Files.PresignUpload(c.UserContext(), key, req.ContentType)
	if err != nil {
		return handler.Upstream("Failed to generate presigned URL", err)
	}

	downloadURL, err := s.deps.Files.PresignDownload(c.UserContext(), key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to sign download url")
	}

	return c.JSON(presignResponse{
		UploadURL:   uploadURL,
		FileKey:     key,
		DownloadURL: downloadURL,
		Storage:     s.deps.Files.Name(),
	})
}

// Create registers the metadata of an uploaded document and announces it.
// The blob is not checked: registering an unknown key yields a dead download link.
func (s *Service) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := s.deps.Validator.Bind(c, &req); err != nil {
		return err
	}

	doc := models.PdfDocument{
		Title:       req.Title,
		FileKey:     req.FileKey,
		Filename:    req.Filename,
		ContentType: req.ContentType,
		Size:        *req.Size,
	}

	if id, ok := auth.IdentityFrom(c); ok {
		doc.CreatedBy = id.ID
	}

	if err := pdf.Create(s.deps.DB, &doc); err != nil {
		return err
	}

	s.deps.Events.Emit(broadcast.NewPdf, doc)

	return c.JSON(doc)
}

// List returns every document, newest first, each with a download URL when one can be signed.
func (s *Service) List(c *fiber.Ctx) error {
	docs, err := pdf.List(s.deps.DB)
	if err != nil {
		return err
	}

	for i := range docs {
		u, err := s.deps.Files.PresignDownload(c.UserContext(), docs[i].FileKey)
		if err != nil {
			log.Warn().Err(err).Str("key", docs[i].FileKey).Msg("failed to sign download url")
			continue
		}

		docs[i].DownloadURL = u
	}

	return c.JSON(docs)
}

// Delete removes the blob, then the metadata. A failed blob removal is logged and ignored.
func (s *Service) Delete(c *fiber.Ctx) error {
	id := c.Params("id")

	doc, err := pdf.Get(s.deps.DB, id)
	if errors.Is(err, controller.ErrNotFound) || errors.Is(err, controller.ErrIDEmpty) {
		return handler.NotFound("Not found")
	}

	if err != nil {
		return err
	}

	if err = s.deps.Files.Delete(c.UserContext(), doc.FileKey); err != nil {
		log.Error().Err(err).Str("key", doc.FileKey).Msg("failed to delete stored file")
	}

	if _, err = pdf.Delete(s.deps.DB, id); err != nil {
		return err
	}

	s.deps.Events.Emit(broadcast.DeletedPdf, broadcast.Deleted{ID: id})

	return c.JSON(fiber.Map{"success": true})
}

// Upload receives the raw bytes for a key handed out by Presign.
func (s *Service) Upload(c *fiber.Ctx) error {
	key, err := url.PathUnescape(c.Params("*"))
	if err != nil || key == "" {
		return handler.InvalidInput("invalid file key")
	}

	body := c.Body()
	if len(body) == 0 {
		return handler.InvalidInput("No file data received")
	}

	contentType := c.Get(fiber.HeaderContentType)
	if contentType == "" {
		contentType = defaultContentType
	}

	err = s.receiver.Save(c.UserContext(), key, contentType, body)

	switch {
	case errors.Is(err, storage.ErrEmptyObject):
		return handler.InvalidInput("No file data received")
	case errors.Is(err, storage.ErrObjectTooLarge):
		return handler.TooLarge(fmt.Sprintf("file exceeds %d bytes", s.cfg.Storage.MaxUploadSize))
	case errors.Is(err, storage.ErrInvalidKey):
		return handler.InvalidInput("invalid file key")
	case err != nil:
		return handler.Upstream("Failed to save file", err)
	}

	log.Info().Str("key", key).Int("size", len(body)).Msg("file stored")

	return c.JSON(fiber.Map{"success": true, "size": len(body)})
}

// Download serves stored bytes as an attachment.
func (s *Service) Download(c *fiber.Ctx) error {
	key, err := url.PathUnescape(c.Params("*"))
	if err != nil || key == "" {
		return handler.NotFound("PDF not found")
	}

	obj, err := s.receiver.Open(c.UserContext(), key)

	switch {
	case errors.Is(err, storage.ErrObjectNotFound), errors.Is(err, storage.ErrInvalidKey):
		return handler.NotFound("PDF not found")
	case err != nil:
		return handler.Upstream("Failed to read file", err)
	}

	c.Set(fiber.HeaderContentType, obj.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", path.Base(key)))

	return c.Send(obj.Data)
}
