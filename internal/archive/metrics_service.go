package archive

import (
	"context"

	"contentregistry/internal/metrics"
	"contentregistry/internal/registry"
)

// MetricsService keeps the Prometheus registry state in step with the
// ledger.
type MetricsService struct{}

// NewMetricsService creates a MetricsService
func NewMetricsService() *MetricsService {
	return &MetricsService{}
}

// Process updates counters and gauges from the committed change
func (s *MetricsService) Process(ctx context.Context, change *registry.Change) error {
	switch change.Kind {
	case registry.ChangeRegistered:
		metrics.RegistrationsTotal.Inc()
		metrics.FeesCollected.Add(float64(change.FeeAmount))
	case registry.ChangeUpdated:
		metrics.UpdatesTotal.Inc()
	}

	metrics.RegisteredContents.Set(float64(change.State.NextContentID))
	metrics.MaxContents.Set(float64(change.State.MaxContents))
	metrics.RegistrationFee.Set(float64(change.State.RegistrationFee))

	return nil
}

// Name returns the service name
func (s *MetricsService) Name() string {
	return "MetricsService"
}
