package archive

import (
	"context"

	"contentregistry/internal/registry"
)

// Service consumes committed registry changes. Services run sequentially on
// the delivery goroutine, so a slow service delays later deliveries but
// never blocks registry operations.
type Service interface {
	// Process handles a single committed change.
	// Returns error only for failures worth logging; the registry has
	// already committed, so errors never roll the change back.
	Process(ctx context.Context, change *registry.Change) error

	// Name returns the service name for logging
	Name() string
}
