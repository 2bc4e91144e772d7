// Package realtime pushes broadcast events to browsers over a websocket.
package realtime

import (
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/linkboard/linkboard/internal/broadcast"
	"github.com/linkboard/linkboard/internal/config"
	"github.com/linkboard/linkboard/internal/web/handler"
)

const (
	// Path is the websocket endpoint.
	Path = "/ws"

	defaultPingInterval = 30 * time.Second
	writeWait           = 10 * time.Second
)

// Source hands out subscriptions to the event stream.
type Source interface {
	Subscribe() *broadcast.Subscription
}

// Service is the realtime handler service. It does not need the database.
type Service struct {
	handler.Service
	cfg          *config.Config
	source       Source
	pingInterval time.Duration
}

// New creates the realtime handler streaming from source.
func New(source Source) *Service {
	return &Service{source: source, pingInterval: defaultPingInterval}
}

// Init registers the websocket route.
func (s *Service) Init(router fiber.Router, cfg *config.Config, _ *handler.Deps) error {
	if router == nil || cfg == nil || s.source == nil {
		return handler.ErrNilDeps
	}

	s.cfg = cfg

	if s.pingInterval <= 0 {
		s.pingInterval = defaultPingInterval
	}

	router.Use(Path, func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}

		return fiber.ErrUpgradeRequired
	})
	router.Get(Path, websocket.New(s.serve))

	return nil
}

// serve forwards frames until the client goes away. Clients only listen,
// anything they send is discarded.
func (s *Service) serve(conn *websocket.Conn) {
	sub := s.source.Subscribe()
	defer sub.Close()

	done := make(chan struct{})

	go func() {
		defer close(done)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	defer func() {
		_ = conn.Close()
		<-done
	}()

	log.Debug().Str("remote", conn.RemoteAddr().String()).Msg("realtime client connected")

	ticker := time.NewTicker(s.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			log.Debug().Str("remote", conn.RemoteAddr().String()).Msg("realtime client disconnected")
			return
		case frame, ok := <-sub.C:
			if !ok {
				return
			}

			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))

			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				log.Debug().Err(err).Msg("realtime write failed")
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
