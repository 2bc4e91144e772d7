package daemon

import (
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/linkboard/linkboard/internal/auth"
	"github.com/linkboard/linkboard/internal/config"
)

// seed creates the configured owner account if it does not exist yet.
func seed(cfg *config.Config, db *gorm.DB) error {
	if cfg.Owner.Email == "" {
		log.Warn().Msg("no owner configured, nobody can log in until one is seeded")
		return nil
	}

	created, err := auth.NewLocalProvider(db).EnsureOwner(cfg.Owner.Email, cfg.Owner.Password)
	if err != nil {
		return err
	}

	if created {
		log.Info().Str("email", auth.NormalizeEmail(cfg.Owner.Email)).Msg("owner account created")
	}

	return nil
}
