// Package daemon wires configuration, database, file store and broadcast hub into the web service.
package daemon

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/linkboard/linkboard/internal/auth"
	"github.com/linkboard/linkboard/internal/broadcast"
	"github.com/linkboard/linkboard/internal/config"
	"github.com/linkboard/linkboard/internal/db/dsn"
	"github.com/linkboard/linkboard/internal/db/models"
	"github.com/linkboard/linkboard/internal/storage"
	"github.com/linkboard/linkboard/internal/web"
	"github.com/linkboard/linkboard/internal/web/handler"
)

const relayPingTimeout = 3 * time.Second

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	db         *gorm.DB
	hub        *broadcast.Hub
	relay      *broadcast.RedisRelay
	webService *web.Service
}

// Start serves until SIGINT or SIGTERM and then shuts down gracefully.
func (d *Daemon) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if d.relay != nil {
		go func() { _ = d.hub.Follow(ctx, d.relay) }()
	}

	go d.webService.WaitShutdown()

	addr := ":" + strconv.Itoa(d.cfg.Webserver.Port)
	log.Info().Str("addr", addr).Bool("degraded", d.webService.Degraded()).Msg("starting web service")

	err := d.webService.Start(addr)

	d.close()

	return err
}

func (d *Daemon) close() {
	if d.relay != nil {
		if err := d.relay.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close broadcast relay")
		}
	}

	if d.db == nil {
		return
	}

	if sqlDB, err := d.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// New creates a new Daemon instance with the provided configuration.
// An unreachable database does not fail startup: the API then answers 503.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil, nil
	}

	d := &Daemon{cfg: cfg}

	db, err := openDB(cfg)
	if err != nil {
		log.Error().Err(err).Str("engine", cfg.DB.GormEngine).Msg("database unavailable, starting degraded")
	} else {
		d.db = db
	}

	d.hub = d.newHub()

	var deps *handler.Deps

	if d.db != nil {
		if deps, err = d.newDeps(); err != nil {
			return nil, err
		}
	}

	if d.webService, err = web.New(cfg, deps, d.hub); err != nil {
		return nil, fmt.Errorf("init web service: %w", err)
	}

	return d, nil
}

func openDB(cfg *config.Config) (*gorm.DB, error) {
	logLevel := gormlogger.Warn
	if cfg.DevMode {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(dsn.Dialector(cfg), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.DB.GormEngine, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	if err = sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping %s database: %w", cfg.DB.GormEngine, err)
	}

	if err = db.AutoMigrate(models.All()...); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return db, nil
}

// newHub chains the hub to redis when configured and reachable.
func (d *Daemon) newHub() *broadcast.Hub {
	if d.cfg.Redis.URL == "" {
		return broadcast.NewHub()
	}

	relay, err := broadcast.NewRedisRelay(d.cfg.Redis.URL, d.cfg.Redis.Channel)
	if err != nil {
		log.Error().Err(err).Msg("invalid redis url, broadcasting in process only")
		return broadcast.NewHub()
	}

	ctx, cancel := context.WithTimeout(context.Background(), relayPingTimeout)
	defer cancel()

	if err = relay.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("redis unreachable, broadcasting in process only")

		_ = relay.Close()

		return broadcast.NewHub()
	}

	d.relay = relay
	log.Info().Str("channel", d.cfg.Redis.Channel).Msg("broadcast relayed through redis")

	return broadcast.NewHub(broadcast.WithRelay(relay))
}

func (d *Daemon) newDeps() (*handler.Deps, error) {
	if err := seed(d.cfg, d.db); err != nil {
		return nil, err
	}

	secret, err := auth.ResolveSecret(d.db, d.cfg.Token.Secret)
	if err != nil {
		return nil, err
	}

	tokens, err := auth.NewTokenService(secret, d.cfg.Token.Lifetime)
	if err != nil {
		return nil, err
	}

	files, err := storage.New(d.cfg)
	if err != nil {
		return nil, err
	}

	log.Info().Str("storage", files.Name()).Msg("file storage selected")

	return &handler.Deps{
		DB:     d.db,
		Tokens: tokens,
		Files:  files,
		Events: d.hub,
	}, nil
}
