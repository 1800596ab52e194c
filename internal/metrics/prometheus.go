package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector implements the Collector interface using Prometheus metrics.
type PrometheusCollector struct {
	// Connection metrics
	connectionsTotal  prometheus.Counter
	connectionsActive prometheus.Gauge

	// Registration metrics
	registrationsTotal prometheus.Counter
	usersActive        prometheus.Gauge

	// Room lifecycle metrics
	roomsActive prometheus.Gauge

	// Command metrics
	commandsTotal *prometheus.CounterVec

	// Delivery metrics
	messagesDeliveredTotal *prometheus.CounterVec

	// Error metrics
	clientErrorsTotal *prometheus.CounterVec

	// Liveness metrics
	pingsSentTotal        prometheus.Counter
	livenessTimeoutsTotal prometheus.Counter
}

// NewPrometheusCollector creates a new PrometheusCollector with all metrics registered.
func NewPrometheusCollector(reg prometheus.Registerer) *PrometheusCollector {
	c := &PrometheusCollector{
		connectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chatd_connections_total",
			Help: "Total number of chat connections opened.",
		}),
		connectionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "chatd_connections_active",
			Help: "Number of currently active chat connections.",
		}),

		registrationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chatd_registrations_total",
			Help: "Total number of successful NAME registrations.",
		}),
		usersActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "chatd_users_active",
			Help: "Number of currently registered users.",
		}),

		roomsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "chatd_rooms_active",
			Help: "Number of rooms currently in existence.",
		}),

		commandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chatd_commands_total",
			Help: "Total number of chat commands processed.",
		}, []string{"command"}),

		messagesDeliveredTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chatd_messages_delivered_total",
			Help: "Total number of messages enqueued for delivery.",
		}, []string{"kind"}),

		clientErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chatd_client_errors_total",
			Help: "Total number of ERROR lines sent to clients.",
		}, []string{"kind"}),

		pingsSentTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chatd_pings_sent_total",
			Help: "Total number of liveness PINGs sent.",
		}),
		livenessTimeoutsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chatd_liveness_timeouts_total",
			Help: "Total number of connections closed by the liveness deadline.",
		}),
	}

	// Register all metrics
	reg.MustRegister(
		c.connectionsTotal,
		c.connectionsActive,
		c.registrationsTotal,
		c.usersActive,
		c.roomsActive,
		c.commandsTotal,
		c.messagesDeliveredTotal,
		c.clientErrorsTotal,
		c.pingsSentTotal,
		c.livenessTimeoutsTotal,
	)

	return c
}

// ConnectionOpened increments the connection counter and active gauge.
func (c *PrometheusCollector) ConnectionOpened() {
	c.connectionsTotal.Inc()
	c.connectionsActive.Inc()
}

// ConnectionClosed decrements the active connections gauge.
func (c *PrometheusCollector) ConnectionClosed() {
	c.connectionsActive.Dec()
}

// UserRegistered increments the registration counter and active users gauge.
func (c *PrometheusCollector) UserRegistered() {
	c.registrationsTotal.Inc()
	c.usersActive.Inc()
}

// UserRemoved decrements the active users gauge.
func (c *PrometheusCollector) UserRemoved() {
	c.usersActive.Dec()
}

// RoomCreated increments the active rooms gauge.
func (c *PrometheusCollector) RoomCreated() {
	c.roomsActive.Inc()
}

// RoomDeleted decrements the active rooms gauge.
func (c *PrometheusCollector) RoomDeleted() {
	c.roomsActive.Dec()
}

// CommandProcessed increments the command counter.
func (c *PrometheusCollector) CommandProcessed(command string) {
	c.commandsTotal.WithLabelValues(command).Inc()
}

// MessageDelivered increments the delivery counter.
func (c *PrometheusCollector) MessageDelivered(kind string) {
	c.messagesDeliveredTotal.WithLabelValues(kind).Inc()
}

// ClientError increments the client error counter.
func (c *PrometheusCollector) ClientError(kind string) {
	c.clientErrorsTotal.WithLabelValues(kind).Inc()
}

// PingSent increments the ping counter.
func (c *PrometheusCollector) PingSent() {
	c.pingsSentTotal.Inc()
}

// LivenessTimeout increments the liveness timeout counter.
func (c *PrometheusCollector) LivenessTimeout() {
	c.livenessTimeoutsTotal.Inc()
}
