// Package metrics прометеевские метрики сервиса: HTTP-запросы и
// счётчики движка синхронизации расписаний
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics коллекторы сервиса; регистрируются в default registry
type Metrics struct {
	serviceName string

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	syncSavesTotal     *prometheus.CounterVec
	syncStaleResponses prometheus.Counter
	syncCancelledReqs  prometheus.Counter
}

// New создает и регистрирует коллекторы
func New(serviceName string) *Metrics {
	return &Metrics{
		serviceName: serviceName,

		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"service", "method", "path", "status"},
		),
		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service", "method", "path"},
		),

		syncSavesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "schedule_sync_saves_total",
				Help: "Schedule save attempts by outcome",
			},
			[]string{"service", "outcome"},
		),
		syncStaleResponses: promauto.NewCounter(
			prometheus.CounterOpts{
				Name:        "schedule_sync_stale_responses_total",
				Help:        "Responses discarded because a newer save superseded them",
				ConstLabels: prometheus.Labels{"service": serviceName},
			},
		),
		syncCancelledReqs: promauto.NewCounter(
			prometheus.CounterOpts{
				Name:        "schedule_sync_cancelled_requests_total",
				Help:        "In-flight save requests cancelled by a newer edit",
				ConstLabels: prometheus.Labels{"service": serviceName},
			},
		),
	}
}

// ObserveHTTPRequest фиксирует завершенный HTTP-запрос
func (m *Metrics) ObserveHTTPRequest(service, method, path, status string, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(service, method, path, status).Inc()
	m.httpRequestDuration.WithLabelValues(service, method, path).Observe(duration.Seconds())
}

// SaveSucceeded успешное сохранение расписания
func (m *Metrics) SaveSucceeded() {
	m.syncSavesTotal.WithLabelValues(m.serviceName, "success").Inc()
}

// SaveFailed неуспешное сохранение расписания
func (m *Metrics) SaveFailed() {
	m.syncSavesTotal.WithLabelValues(m.serviceName, "failure").Inc()
}

// SaveSkipped сохранение пропущено, состояние не менялось
func (m *Metrics) SaveSkipped() {
	m.syncSavesTotal.WithLabelValues(m.serviceName, "skipped").Inc()
}

// StaleResponseDiscarded отброшен ответ устаревшего запроса
func (m *Metrics) StaleResponseDiscarded() {
	m.syncStaleResponses.Inc()
}

// RequestCancelled отменен запрос, вытесненный более свежей правкой
func (m *Metrics) RequestCancelled() {
	m.syncCancelledReqs.Inc()
}
