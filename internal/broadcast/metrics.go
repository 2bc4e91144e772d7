package broadcast

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	connectedClients = promauto.NewGauge(prometheus.GaugeOpts{ //nolint:gochecknoglobals
		Name: "broadcast_connected_clients",
		Help: "Number of realtime clients currently subscribed.",
	})

	emittedEvents = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "broadcast_events_total",
		Help: "Number of emitted events, differentiated by event name.",
	}, []string{"event"})

	droppedFrames = promauto.NewCounter(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "broadcast_dropped_frames_total",
		Help: "Number of frames not delivered because a client buffer was full.",
	})
)
