package registry

import (
	"context"

	"contentregistry/internal/models"
)

// ChangeKind identifies what a committed mutation did.
type ChangeKind string

const (
	ChangeRegistered    ChangeKind = "registered"
	ChangeUpdated       ChangeKind = "updated"
	ChangeConfiguration ChangeKind = "configuration"
)

// Change describes one committed mutation. Payloads are snapshots; handlers
// may retain them without racing the registry.
type Change struct {
	Kind ChangeKind

	// Record is set for ChangeRegistered and ChangeUpdated.
	Record *models.ContentRecord

	// Update is set for ChangeUpdated.
	Update *models.ContentUpdateRecord

	// FeeAmount is the fee charged for ChangeRegistered.
	FeeAmount uint64

	// State is the configuration snapshot after the mutation.
	State models.RegistryState
}

// Dispatcher receives committed changes, one at a time in commit order, on
// the registry's delivery goroutine. Registry operations never wait on it,
// so a slow dispatcher delays the archive, not the ledger.
type Dispatcher interface {
	Dispatch(ctx context.Context, change *Change)
}
