package remote

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus metric names.
const (
	MetricRequestsTotal          = "catalog_remote_requests_total"
	MetricRequestDurationSeconds = "catalog_remote_request_duration_seconds"
)

// Call outcomes used as the "outcome" label
const (
	OutcomeSuccess   = "success"
	OutcomeHTTPError = "http_error"
	OutcomeNetwork   = "network_error"
	OutcomeInternal  = "internal_error"
)

// Metrics holds the collectors for remote store calls.
// A nil *Metrics records nothing.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricRequestsTotal,
				Help: "Total number of requests sent to the remote catalog store",
			},
			[]string{"operation", "outcome"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricRequestDurationSeconds,
				Help:    "Remote catalog store request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}

	for _, c := range []prometheus.Collector{m.requestsTotal, m.requestDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(op string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(op, outcome(err)).Inc()
	m.requestDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

func outcome(err error) string {
	if err == nil {
		return OutcomeSuccess
	}
	var rerr *Error
	if !errors.As(err, &rerr) {
		return OutcomeInternal
	}
	switch {
	case rerr.StatusCode == 0:
		return OutcomeNetwork
	case rerr.StatusCode >= 300:
		return OutcomeHTTPError
	default:
		return OutcomeInternal
	}
}
