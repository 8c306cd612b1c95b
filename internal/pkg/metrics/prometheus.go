package metrics

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Auth events counted by RecordAuthEvent
const (
	EventRegister       = "register"
	EventLoginSuccess   = "login_success"
	EventLoginFailure   = "login_failure"
	EventVerify         = "verify"
	EventPasswordReset  = "password_reset"
	EventForgotPassword = "forgot_password"
	EventLogout         = "logout"
)

// Manager manages the Prometheus metrics of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	authEvents          *prometheus.CounterVec
}

// NewManager creates a new metrics manager. Without WithRegistry a fresh registry carrying the Go and
// process collectors is used.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "notes",
		subsystem:        "api",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by route, method and status code",
		},
		[]string{"route", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"route", "method", "status_code"},
	)

	m.authEvents = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "auth_events_total",
			Help:      "Total number of account events such as registrations and logins",
		},
		[]string{"event"},
	)
}

// Enabled reports whether metrics are recorded
func (m *Manager) Enabled() bool {
	return m.enabled
}

// RecordHTTPRequest counts a served request and observes its duration
func (m *Manager) RecordHTTPRequest(route, method string, status int, duration time.Duration) {
	if !m.enabled {
		return
	}
	code := fmt.Sprintf("%d", status)
	m.httpRequests.WithLabelValues(route, method, code).Inc()
	m.httpRequestDuration.WithLabelValues(route, method, code).Observe(duration.Seconds())
}

// RecordAuthEvent counts an account event
func (m *Manager) RecordAuthEvent(event string) {
	if !m.enabled {
		return
	}
	m.authEvents.WithLabelValues(event).Inc()
}

// RegisterDBStats exposes the connection pool statistics of db
func (m *Manager) RegisterDBStats(db *sql.DB, dbName string) error {
	if !m.enabled {
		return nil
	}
	if err := m.registry.Register(collectors.NewDBStatsCollector(db, dbName)); err != nil {
		return fmt.Errorf("failed to register database collector: %w", err)
	}
	return nil
}

// Registry returns the registry backing the manager
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus exposition format
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
