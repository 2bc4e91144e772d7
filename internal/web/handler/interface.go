package handler

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/linkboard/linkboard/internal/auth"
	"github.com/linkboard/linkboard/internal/broadcast"
	"github.com/linkboard/linkboard/internal/config"
	"github.com/linkboard/linkboard/internal/storage"
)

// Service is the interface for a web handler service.
type Service interface {
	Init(router fiber.Router, cfg *config.Config, deps *Deps) error
}

// Deps are the collaborators shared by every handler.
type Deps struct {
	DB        *gorm.DB
	Tokens    *auth.TokenService
	Files     storage.Store
	Events    broadcast.Emitter
	Validator *Validator
}

// Check returns ErrNilDeps unless cfg, db and tokens are set,
// and fills in a Nop emitter and a validator when missing.
func (d *Deps) Check(router fiber.Router, cfg *config.Config) error {
	if router == nil || cfg == nil || d == nil || d.DB == nil || d.Tokens == nil {
		return ErrNilDeps
	}

	if d.Events == nil {
		d.Events = broadcast.Nop{}
	}

	if d.Validator == nil {
		d.Validator = NewValidator()
	}

	return nil
}

// Owner returns the middleware chain for owner-only routes.
func (d *Deps) Owner() []fiber.Handler {
	return []fiber.Handler{auth.RequireToken(d.Tokens), auth.RequireOwner()}
}
