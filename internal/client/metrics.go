package client

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the upstream call collectors shared by every resource client.
type Metrics struct {
	requestCount    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requestCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "upstream_requests_total",
				Help: "Total number of calls made to the record API.",
			},
			[]string{"resource", "method", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "upstream_request_duration_seconds",
				Help:    "Latency of calls made to the record API.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"resource", "method"},
		),
	}

	if err := reg.Register(m.requestCount); err != nil {
		return nil, err
	}
	if err := reg.Register(m.requestDuration); err != nil {
		return nil, err
	}
	return m, nil
}

// observe is a no-op on a nil receiver so clients can run without metrics.
func (m *Metrics) observe(resource, method, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.requestCount.WithLabelValues(resource, method, status).Inc()
	m.requestDuration.WithLabelValues(resource, method).Observe(d.Seconds())
}
