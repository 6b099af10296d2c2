package archive

import (
	"context"
	"fmt"
	"time"

	"contentregistry/internal/metrics"
	"contentregistry/internal/registry"
	"contentregistry/internal/storage"
	"contentregistry/internal/storage/retry"
)

// StorageService persists committed registry changes to the archive so the
// ledger can be replayed after a restart.
type StorageService struct {
	repository storage.Repository
	strategy   retry.Strategy
}

// NewStorageService creates a StorageService. A nil strategy disables
// retries.
func NewStorageService(repository storage.Repository, strategy retry.Strategy) *StorageService {
	if strategy == nil {
		strategy = retry.NewNoRetryStrategy()
	}
	return &StorageService{
		repository: repository,
		strategy:   strategy,
	}
}

// Process writes the change to the archive
func (s *StorageService) Process(ctx context.Context, change *registry.Change) error {
	start := time.Now()
	defer func() {
		metrics.ArchiveWriteDuration.Observe(time.Since(start).Seconds())
	}()

	switch change.Kind {
	case registry.ChangeRegistered:
		return s.strategy.Execute(ctx, func() error {
			if err := s.repository.SaveContent(ctx, change.Record); err != nil {
				return err
			}
			return s.repository.SaveRegistryState(ctx, &change.State)
		})

	case registry.ChangeUpdated:
		return s.strategy.Execute(ctx, func() error {
			if err := s.repository.UpdateContent(ctx, change.Record); err != nil {
				return err
			}
			return s.repository.SaveContentUpdate(ctx, change.Update)
		})

	case registry.ChangeConfiguration:
		return s.strategy.Execute(ctx, func() error {
			return s.repository.SaveRegistryState(ctx, &change.State)
		})

	default:
		return fmt.Errorf("unknown change kind: %q", change.Kind)
	}
}

// Name returns the service name
func (s *StorageService) Name() string {
	return "StorageService"
}
