package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Business metrics
	WateringsRecorded prometheus.Counter
	PlantsCreated     *prometheus.CounterVec
	AIGenerations     prometheus.Counter
	QuotaDenials      *prometheus.CounterVec
	RemindersEmitted  prometheus.Counter

	// Notification metrics
	NotificationsDegraded prometheus.Counter
	NotificationCache     *prometheus.CounterVec
}

// New creates the metrics and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		WateringsRecorded: f.NewCounter(prometheus.CounterOpts{
			Name: "waterings_recorded_total",
			Help: "Total number of watering events appended",
		}),
		PlantsCreated: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "plants_created_total",
				Help: "Total number of plants created",
			},
			[]string{"source"}, // manual, ai
		),
		AIGenerations: f.NewCounter(prometheus.CounterOpts{
			Name: "ai_generations_total",
			Help: "Total number of AI generations that consumed quota",
		}),
		QuotaDenials: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quota_denials_total",
				Help: "Total number of requests refused by a quota",
			},
			[]string{"dimension"}, // plants, ai_generations
		),
		RemindersEmitted: f.NewCounter(prometheus.CounterOpts{
			Name: "reminders_emitted_total",
			Help: "Total number of needs-water reminders emitted by the worker",
		}),

		NotificationsDegraded: f.NewCounter(prometheus.CounterOpts{
			Name: "notifications_degraded_total",
			Help: "Needs-water lists replaced by an empty list after a store failure",
		}),
		NotificationCache: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notification_cache_total",
				Help: "Needs-water cache lookups by result",
			},
			[]string{"result"}, // hit, miss, error
		),
	}
}

func (m *Metrics) WateringRecorded() {
	if m == nil {
		return
	}
	m.WateringsRecorded.Inc()
}

func (m *Metrics) PlantCreated(source string) {
	if m == nil {
		return
	}
	m.PlantsCreated.WithLabelValues(source).Inc()
}

func (m *Metrics) AIGenerationConsumed() {
	if m == nil {
		return
	}
	m.AIGenerations.Inc()
}

func (m *Metrics) QuotaDenied(dimension string) {
	if m == nil {
		return
	}
	m.QuotaDenials.WithLabelValues(dimension).Inc()
}

func (m *Metrics) ReminderEmitted() {
	if m == nil {
		return
	}
	m.RemindersEmitted.Inc()
}

func (m *Metrics) NotificationDegraded() {
	if m == nil {
		return
	}
	m.NotificationsDegraded.Inc()
}

func (m *Metrics) CacheLookup(result string) {
	if m == nil {
		return
	}
	m.NotificationCache.WithLabelValues(result).Inc()
}
