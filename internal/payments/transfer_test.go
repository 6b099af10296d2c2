package payments

import (
	"context"
	"errors"
	"testing"

	"contentregistry/internal/models"
)

type fakeStore struct {
	saved    []models.FeeTransfer
	failWith error
}

func (s *fakeStore) SaveTransfer(ctx context.Context, transfer *models.FeeTransfer) error {
	if s.failWith != nil {
		return s.failWith
	}
	s.saved = append(s.saved, *transfer)
	return nil
}

func TestJournalTransfer(t *testing.T) {
	store := &fakeStore{}
	journal := NewJournal(store)

	if err := journal.Transfer(context.Background(), 100, "GFROM", "GTO"); err != nil {
		t.Fatalf("Transfer failed: %v", err)
	}

	if len(store.saved) != 1 {
		t.Fatalf("journaled transfers = %d, expected 1", len(store.saved))
	}
	saved := store.saved[0]
	if saved.Amount != 100 || saved.From != "GFROM" || saved.To != "GTO" {
		t.Errorf("unexpected journaled transfer: %+v", saved)
	}
	if saved.TransferredAt.IsZero() {
		t.Error("transfer timestamp not set")
	}
}

func TestJournalTransferStorageFailure(t *testing.T) {
	store := &fakeStore{failWith: errors.New("disk full")}
	journal := NewJournal(store)

	err := journal.Transfer(context.Background(), 100, "GFROM", "GTO")
	if err == nil {
		t.Fatal("expected an error when the store fails")
	}
	if len(store.saved) != 0 {
		t.Error("failed transfer must not be journaled")
	}
}

func TestRecorder(t *testing.T) {
	recorder := NewRecorder()
	ctx := context.Background()

	if err := recorder.Transfer(ctx, 50, "GFROM", "GTO"); err != nil {
		t.Fatalf("Transfer failed: %v", err)
	}

	recorder.FailWith(errors.New("insufficient funds"))
	if err := recorder.Transfer(ctx, 50, "GFROM", "GTO"); err == nil {
		t.Error("expected configured failure")
	}

	recorder.FailWith(nil)
	if err := recorder.Transfer(ctx, 75, "GFROM", "GTO"); err != nil {
		t.Fatalf("Transfer after clearing failure: %v", err)
	}

	transfers := recorder.Transfers()
	if len(transfers) != 2 {
		t.Fatalf("recorded transfers = %d, expected 2", len(transfers))
	}
	if transfers[1].Amount != 75 {
		t.Errorf("second transfer amount = %d, expected 75", transfers[1].Amount)
	}
}
