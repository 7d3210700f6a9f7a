package caliper

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts sensor activity, labelled by sensor id.
type Metrics struct {
	Enqueued  *prometheus.CounterVec
	Delivered *prometheus.CounterVec
	Dropped   *prometheus.CounterVec
	Failures  *prometheus.CounterVec
}

// NewMetrics creates unregistered sensor collectors.
func NewMetrics() *Metrics {
	return &Metrics{
		Enqueued: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: "caliper", Subsystem: "sensor", Name: "events_enqueued_total", Help: "Number of events accepted for delivery."},
			[]string{"sensor"},
		),
		Delivered: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: "caliper", Subsystem: "sensor", Name: "events_delivered_total", Help: "Number of events acknowledged by the endpoint."},
			[]string{"sensor"},
		),
		Dropped: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: "caliper", Subsystem: "sensor", Name: "events_dropped_total", Help: "Number of events rejected by the endpoint with a client error."},
			[]string{"sensor"},
		),
		Failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: "caliper", Subsystem: "sensor", Name: "send_failures_total", Help: "Number of failed envelope delivery attempts."},
			[]string{"sensor", "reason"},
		),
	}
}

// DefaultMetrics is used by sensors that are not given their own Metrics.
var DefaultMetrics = NewMetrics()

// RegisterCollectors registers m's collectors with reg.
func (m *Metrics) RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(m.Enqueued)
	reg.MustRegister(m.Delivered)
	reg.MustRegister(m.Dropped)
	reg.MustRegister(m.Failures)
}
