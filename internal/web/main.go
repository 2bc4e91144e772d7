// Package web assembles the HTTP service: middleware, API routes, websocket and static files.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/linkboard/linkboard/internal/config"
	fiberlog "github.com/linkboard/linkboard/internal/logger/adapter/fiber"
	"github.com/linkboard/linkboard/internal/web/handler"
	"github.com/linkboard/linkboard/internal/web/handler/contact"
	"github.com/linkboard/linkboard/internal/web/handler/links"
	"github.com/linkboard/linkboard/internal/web/handler/login"
	"github.com/linkboard/linkboard/internal/web/handler/pdfs"
	"github.com/linkboard/linkboard/internal/web/handler/realtime"
	"github.com/linkboard/linkboard/internal/web/handler/videos"
)

const (
	// HealthPath answers {"ok": true} while the service accepts traffic.
	HealthPath = "/health"
	// MetricsPath serves prometheus metrics when enabled.
	MetricsPath = "/metrics"
	// APIPath prefixes every REST route.
	APIPath = "/api"

	// DegradedMessage is returned by every API route while the database is unreachable.
	DegradedMessage = "Service temporarily unavailable: database connection failed"

	rateLimitKey = "global"
)

// Service represents the web service.
type Service struct {
	App      *fiber.App
	cfg      *config.Config
	alive    atomic.Bool
	degraded bool
}

// Start starts the web service on the given address and blocks until it stops.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for SIGINT or SIGTERM and shuts the service down gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	s.Shutdown()
}

// Shutdown fails the health check for the configured grace period, then stops the server.
func (s *Service) Shutdown() {
	if s.cfg.Webserver.ShutDownTime > 0 {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	log.Info().Msg("stopping http server ...")

	if err := s.App.Shutdown(); err != nil {
		log.Error().Err(err).Msg("")
	}

	log.Info().Msg("http server was stopped ... good bye...")
}

// Degraded reports whether the API runs without a database.
func (s *Service) Degraded() bool {
	return s.degraded
}

// New creates the web service. A nil deps or deps.DB starts it degraded:
// health, websocket and static files work, every API route answers 503.
func New(cfg *config.Config, deps *handler.Deps, source realtime.Source) (*Service, error) {
	if cfg == nil {
		panic("config cannot be nil")
	}

	app := fiber.New(
		fiber.Config{
			AppName:               cfg.Title,
			ErrorHandler:          handler.ErrorHandler,
			BodyLimit:             cfg.Webserver.BodyLimit,
			ReadBufferSize:        8192,
			CaseSensitive:         true,
			Immutable:             true,
			DisableStartupMessage: !cfg.DevMode,
		},
	)

	service := &Service{
		App:      app,
		cfg:      cfg,
		degraded: deps == nil || deps.DB == nil,
	}
	service.alive.Store(true)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New(recover.Config{EnableStackTrace: cfg.DevMode}))
	}

	app.Use(fiberlog.New(fiberlog.Config{Config: cfg.Log}))
	app.Use(helmet.New(helmet.Config{ContentSecurityPolicy: ""}))
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.Webserver.AllowOrigins}))

	if cfg.Webserver.RateLimit.Max > 0 {
		app.Use(limiter.New(limiter.Config{
			Next: func(c *fiber.Ctx) bool {
				return c.Path() == HealthPath || c.Path() == MetricsPath
			},
			Max:          cfg.Webserver.RateLimit.Max,
			Expiration:   cfg.Webserver.RateLimit.Window,
			KeyGenerator: func(*fiber.Ctx) string { return rateLimitKey },
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many requests"})
			},
		}))
	}

	app.Get(HealthPath, service.health)

	if cfg.Webserver.Metrics {
		app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))
	}

	if source != nil {
		if err := realtime.New(source).Init(app, cfg, deps); err != nil {
			return nil, err
		}
	}

	api := app.Group(APIPath)

	if service.degraded {
		log.Warn().Msg("database unavailable: api routes answer 503")

		api.Use(func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"ok": false, "error": DegradedMessage})
		})
	} else {
		for _, svc := range []handler.Service{
			&login.Service{},
			&links.Service{},
			&videos.Service{},
			&pdfs.Service{},
			&contact.Service{},
		} {
			if err := svc.Init(api, cfg, deps); err != nil {
				return nil, err
			}
		}

		api.Use(func(*fiber.Ctx) error {
			return handler.NotFound("Not found")
		})
	}

	if dir := cfg.Webserver.StaticDir; dir != "" {
		app.Use(filesystem.New(filesystem.Config{
			Root:         http.Dir(dir),
			Index:        "index.html",
			NotFoundFile: "index.html",
			Next: func(c *fiber.Ctx) bool {
				return strings.HasPrefix(c.Path(), APIPath+"/")
			},
		}))
	}

	return service, nil
}

func (s *Service) health(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"ok": false})
	}

	return c.JSON(fiber.Map{"ok": true})
}
