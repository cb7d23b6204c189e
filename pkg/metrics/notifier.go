package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// NotifierMetrics tracks outbox event dispatch outcomes per event type.
type NotifierMetrics struct {
	dispatched *prometheus.CounterVec
	failed     *prometheus.CounterVec
	latency    *prometheus.HistogramVec
}

// NewNotifierMetrics registers the notifier metrics on the provided registerer.
func NewNotifierMetrics(reg prometheus.Registerer) *NotifierMetrics {
	if reg == nil {
		return &NotifierMetrics{}
	}
	dispatched := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "qurandist",
		Subsystem: "notifier",
		Name:      "events_dispatched_total",
		Help:      "Outbox events delivered to notification channels.",
	}, []string{"event_type"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "qurandist",
		Subsystem: "notifier",
		Name:      "events_failed_total",
		Help:      "Outbox events that failed delivery.",
	}, []string{"event_type"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "qurandist",
		Subsystem: "notifier",
		Name:      "dispatch_seconds",
		Help:      "Time spent delivering a single outbox event.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"event_type"})
	reg.MustRegister(dispatched, failed, latency)
	return &NotifierMetrics{
		dispatched: dispatched,
		failed:     failed,
		latency:    latency,
	}
}

// IncDispatched increments the delivered counter for the event type.
func (n *NotifierMetrics) IncDispatched(eventType string) {
	if n == nil || n.dispatched == nil {
		return
	}
	n.dispatched.WithLabelValues(normalizeLabel(eventType)).Inc()
}

// IncFailed increments the failed counter for the event type.
func (n *NotifierMetrics) IncFailed(eventType string) {
	if n == nil || n.failed == nil {
		return
	}
	n.failed.WithLabelValues(normalizeLabel(eventType)).Inc()
}

// ObserveDispatch records how long one delivery took.
func (n *NotifierMetrics) ObserveDispatch(eventType string, duration time.Duration) {
	if n == nil || n.latency == nil {
		return
	}
	n.latency.WithLabelValues(normalizeLabel(eventType)).Observe(duration.Seconds())
}
