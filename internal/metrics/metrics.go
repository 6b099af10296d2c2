package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Throughput metrics - Track registry activity
var (
	RegistrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "registry_registrations_total",
		Help: "Total number of successful content registrations",
	})

	RegistrationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registry_registration_errors_total",
			Help: "Total number of rejected registrations by error code",
		},
		[]string{"code"},
	)

	UpdatesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "registry_updates_total",
		Help: "Total number of successful content updates",
	})

	OwnershipQueries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "registry_ownership_queries_total",
		Help: "Total number of ownership verification queries",
	})

	FeesCollected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "registry_fees_collected_total",
		Help: "Total registration fees transferred to the authority",
	})

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registry_api_requests_total",
			Help: "Total number of API requests by endpoint",
		},
		[]string{"endpoint"},
	)
)

// State metrics - Track current registry state
var (
	RegisteredContents = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "registry_registered_contents",
		Help: "Number of content records in the registry",
	})

	MaxContents = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "registry_max_contents",
		Help: "Configured capacity ceiling",
	})

	RegistrationFee = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "registry_registration_fee",
		Help: "Configured fee per registration",
	})
)

// Performance metrics - Track archive persistence
var (
	ArchiveWriteDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "registry_archive_write_duration_seconds",
		Help:    "Time taken to persist a committed change to the archive",
		Buckets: prometheus.DefBuckets,
	})
)

// Error metrics - Track failures
var (
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registry_errors_total",
			Help: "Total number of errors by service",
		},
		[]string{"service"},
	)
)
