// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AddressValidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "address_validations_total",
			Help: "Total number of address validations by outcome",
		},
		[]string{"outcome"},
	)

	LocationSearches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "location_searches_total",
			Help: "Total number of locality searches by status",
		},
		[]string{"status"},
	)

	ActivityLogWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activity_log_writes_total",
			Help: "Total number of activity log writes by status",
		},
		[]string{"status"},
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Duration of upstream locality API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "status"},
	)
)

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
	// StatusDropped marks background writes refused because too many were in flight.
	StatusDropped = "dropped"
)

// Status maps an error to the status label.
func Status(err error) string {
	if err != nil {
		return StatusFailure
	}
	return StatusSuccess
}
