// Package broadcast fans out change notifications to connected clients.
//
// Delivery is best effort: there is no ordering across events, no replay for
// clients that connect later, and a client whose buffer is full misses the
// event. A Hub can be chained to other processes through a Relay.
package broadcast

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Event names emitted after a successful mutation.
const (
	NewLink       = "new:link"
	DeletedLink   = "deleted:link"
	NewVideo      = "new:video"
	DeletedVideo  = "deleted:video"
	PinnedVideo   = "pinned:video"
	UnpinnedVideo = "unpinned:video"
	NewPdf        = "new:pdf"
	DeletedPdf    = "deleted:pdf"
)

const (
	defaultBuffer  = 16
	publishTimeout = 2 * time.Second
)

// Emitter publishes an event to every connected client. It never fails the caller.
type Emitter interface {
	Emit(event string, payload any)
}

// Nop drops every event.
type Nop struct{}

// Emit implements Emitter.
func (Nop) Emit(string, any) {}

// Message is the frame sent to clients.
type Message struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Deleted is the payload of the deleted:* events.
type Deleted struct {
	ID string `json:"id"`
}

// Relay forwards frames to other processes, which hand them to their Hub.
type Relay interface {
	Publish(ctx context.Context, frame []byte) error
}

// Subscriber receives the frames relayed by every process, including this one.
type Subscriber interface {
	Run(ctx context.Context, deliver func([]byte)) error
}

// Subscription receives frames for one client until closed.
type Subscription struct {
	C <-chan []byte

	ch   chan []byte
	hub  *Hub
	once sync.Once
}

// Close stops delivery and closes C.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		delete(s.hub.subs, s)
		close(s.ch)
		s.hub.mu.Unlock()

		connectedClients.Dec()
	})
}

// Hub delivers frames to in-process subscribers.
type Hub struct {
	mu     sync.RWMutex
	subs   map[*Subscription]struct{}
	buffer int
	relay  Relay
}

// Option configures a Hub.
type Option func(*Hub)

// WithBuffer sets how many frames a slow client may lag behind before it misses events.
func WithBuffer(n int) Option {
	return func(h *Hub) {
		if n > 0 {
			h.buffer = n
		}
	}
}

// WithRelay publishes every event through r instead of delivering it directly.
// The relay is expected to feed frames back into Deliver, including our own.
func WithRelay(r Relay) Option {
	return func(h *Hub) {
		h.relay = r
	}
}

// NewHub creates a hub.
func NewHub(opts ...Option) *Hub {
	h := &Hub{
		subs:   make(map[*Subscription]struct{}),
		buffer: defaultBuffer,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Subscribe registers a new client.
func (h *Hub) Subscribe() *Subscription {
	ch := make(chan []byte, h.buffer)
	s := &Subscription{C: ch, ch: ch, hub: h}

	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()

	connectedClients.Inc()

	return s
}

// Clients returns the number of connected subscribers.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.subs)
}

// Emit implements Emitter.
func (h *Hub) Emit(event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("failed to encode broadcast payload")
		return
	}

	frame, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("failed to encode broadcast frame")
		return
	}

	emittedEvents.WithLabelValues(event).Inc()

	h.mu.RLock()
	relay := h.relay
	h.mu.RUnlock()

	if relay != nil {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		if err = relay.Publish(ctx, frame); err == nil {
			return
		}

		log.Warn().Err(err).Str("event", event).Msg("broadcast relay failed, delivering locally")
	}

	h.Deliver(frame)
}

// Follow runs s, feeding its frames to Deliver, until ctx is done.
// If s stops before that the relay is dropped and events are delivered in process.
func (h *Hub) Follow(ctx context.Context, s Subscriber) error {
	err := s.Run(ctx, h.Deliver)
	if ctx.Err() != nil {
		return nil
	}

	h.mu.Lock()
	h.relay = nil
	h.mu.Unlock()

	log.Error().Err(err).Msg("broadcast relay stopped, delivering in process only")

	return err
}

// Deliver hands frame to every subscriber without blocking.
func (h *Hub) Deliver(frame []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for s := range h.subs {
		select {
		case s.ch <- frame:
		default:
			droppedFrames.Inc()
		}
	}
}
