package storage

import (
	"context"

	"contentregistry/internal/models"
)

// Repository defines the durable archive behind the in-memory registry.
// The registry is the source of truth; the archive persists committed
// changes and is replayed into the registry at startup.
type Repository interface {
	// Schema
	Migrate(ctx context.Context) error

	// Content records
	SaveContent(ctx context.Context, record *models.ContentRecord) error
	UpdateContent(ctx context.Context, record *models.ContentRecord) error
	ListContents(ctx context.Context, limit, offset int) ([]*models.ContentRecord, error)
	ListAllContents(ctx context.Context) ([]*models.ContentRecord, error)

	// Update tracker (one row per content id, overwritten in place)
	SaveContentUpdate(ctx context.Context, update *models.ContentUpdateRecord) error
	ListAllContentUpdates(ctx context.Context) ([]*models.ContentUpdateRecord, error)

	// Registry configuration snapshot
	SaveRegistryState(ctx context.Context, state *models.RegistryState) error
	GetRegistryState(ctx context.Context) (*models.RegistryState, error)

	// Fee transfer journal
	SaveTransfer(ctx context.Context, transfer *models.FeeTransfer) error

	// Health & maintenance
	Ping(ctx context.Context) error
	Close() error
}
