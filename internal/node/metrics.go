package node

import "github.com/prometheus/client_golang/prometheus"

// Metrics contains the node's counters. All counters are incremented from the
// dispatch goroutine; prometheus counters are safe to scrape concurrently.
type Metrics struct {
	MessagesReceived  prometheus.Counter
	DecodeErrors      prometheus.Counter
	UnhandledMessages prometheus.Counter
	Pings             prometheus.Counter
	TrajectoriesSent  prometheus.Counter
	SensorErrors      prometheus.Counter
}

// NewMetrics creates the node metrics. Call MustRegister to expose them on a
// registry; an unregistered Metrics still counts and is what tests use.
func NewMetrics() *Metrics {
	return &Metrics{
		MessagesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "maxnode",
			Subsystem: "osc",
			Name:      "messages_received_total",
			Help:      "Total number of well-formed OSC messages received",
		}),
		DecodeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "maxnode",
			Subsystem: "osc",
			Name:      "decode_errors_total",
			Help:      "Total number of datagrams dropped as malformed",
		}),
		UnhandledMessages: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "maxnode",
			Subsystem: "osc",
			Name:      "unhandled_messages_total",
			Help:      "Total number of messages routed to the fallback handler",
		}),
		Pings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "maxnode",
			Subsystem: "osc",
			Name:      "pings_total",
			Help:      "Total number of /ping requests answered",
		}),
		TrajectoriesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "maxnode",
			Subsystem: "osc",
			Name:      "trajectories_sent_total",
			Help:      "Total number of /trajectory replies sent",
		}),
		SensorErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "maxnode",
			Subsystem: "sensor",
			Name:      "errors_total",
			Help:      "Total number of failed sensor fetches",
		}),
	}
}

// MustRegister registers every counter with reg.
func (m *Metrics) MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(
		m.MessagesReceived,
		m.DecodeErrors,
		m.UnhandledMessages,
		m.Pings,
		m.TrajectoriesSent,
		m.SensorErrors,
	)
}
