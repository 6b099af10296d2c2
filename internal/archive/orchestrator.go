package archive

import (
	"context"
	"log/slog"

	"contentregistry/internal/metrics"
	"contentregistry/internal/registry"
)

// Orchestrator fans committed registry changes out to the registered
// services, in order. It implements registry.Dispatcher.
type Orchestrator struct {
	services []Service
}

// New creates a new Orchestrator with the given services
func New(services []Service) *Orchestrator {
	return &Orchestrator{
		services: services,
	}
}

// Dispatch runs a committed change through all registered services
func (o *Orchestrator) Dispatch(ctx context.Context, change *registry.Change) {
	slog.Debug("Orchestrator: Dispatching change",
		"kind", change.Kind,
		"services_count", len(o.services),
	)

	// Execute each service in order
	for _, service := range o.services {
		if err := service.Process(ctx, change); err != nil {
			slog.Error("Service processing failed",
				"service", service.Name(),
				"kind", change.Kind,
				"error", err,
			)
			metrics.ErrorsTotal.WithLabelValues(service.Name()).Inc()
			// Continue with the remaining services; the registry has
			// already committed this change.
		}
	}
}

// Services returns the list of registered services (for inspection/testing)
func (o *Orchestrator) Services() []Service {
	return o.services
}
