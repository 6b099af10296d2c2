package payments

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"contentregistry/internal/identity"
	"contentregistry/internal/models"
)

// Transferor moves a registration fee from the registrant to the authority.
// The registry calls it synchronously before committing a new record; any
// error aborts the whole registration.
type Transferor interface {
	Transfer(ctx context.Context, amount uint64, from, to identity.Address) error
}

// TransferStore persists journaled transfers. *storage.PostgresRepository
// satisfies this.
type TransferStore interface {
	SaveTransfer(ctx context.Context, transfer *models.FeeTransfer) error
}

// Journal is a Transferor that writes every fee payment to durable storage,
// giving the registry an auditable fee trail.
type Journal struct {
	store TransferStore
}

// NewJournal creates a Journal backed by the given store.
func NewJournal(store TransferStore) *Journal {
	return &Journal{store: store}
}

// Transfer journals the payment. A storage failure is reported to the
// caller so the registration is rolled back.
func (j *Journal) Transfer(ctx context.Context, amount uint64, from, to identity.Address) error {
	transfer := &models.FeeTransfer{
		Amount:        amount,
		From:          from,
		To:            to,
		TransferredAt: time.Now().UTC(),
	}

	if err := j.store.SaveTransfer(ctx, transfer); err != nil {
		return fmt.Errorf("journaling fee transfer: %w", err)
	}

	slog.Debug("Fee transfer journaled",
		"amount", amount,
		"from", from,
		"to", to,
	)

	return nil
}

// Recorder is an in-memory Transferor for tests and standalone use.
type Recorder struct {
	mu        sync.Mutex
	transfers []models.FeeTransfer
	failWith  error
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Transfer records the payment in memory, or fails if FailWith was set.
func (r *Recorder) Transfer(ctx context.Context, amount uint64, from, to identity.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failWith != nil {
		return r.failWith
	}

	r.transfers = append(r.transfers, models.FeeTransfer{
		Amount:        amount,
		From:          from,
		To:            to,
		TransferredAt: time.Now().UTC(),
	})
	return nil
}

// FailWith makes every subsequent Transfer return err. Pass nil to clear.
func (r *Recorder) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failWith = err
}

// Transfers returns a copy of the recorded payments.
func (r *Recorder) Transfers() []models.FeeTransfer {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.FeeTransfer(nil), r.transfers...)
}
