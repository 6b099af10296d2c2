package models

import (
	"time"

	"contentregistry/internal/identity"
)

// ContentRecord represents an ownership claim over a piece of content,
// keyed by its content-addressed hash. Only Title, Description and
// RegisteredAt are mutable after registration; everything else is fixed
// at creation time.
type ContentRecord struct {
	// Identification
	ContentID uint64 `json:"content_id"`
	Hash      []byte `json:"hash"` // exactly 32 bytes

	// Descriptive metadata
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`

	// Commercial terms
	Price       uint64 `json:"price"`
	RoyaltyRate uint64 `json:"royalty_rate"` // percentage, 0-100
	Currency    string `json:"currency"`

	// Ownership and lifecycle
	Creator      identity.Address `json:"creator"`
	Status       bool             `json:"status"`
	RegisteredAt uint64           `json:"registered_at"` // ledger time, refreshed on update
}

// Clone returns a deep copy so callers can never mutate registry state
// through a returned record.
func (c *ContentRecord) Clone() *ContentRecord {
	out := *c
	out.Hash = append([]byte(nil), c.Hash...)
	out.Tags = append([]string(nil), c.Tags...)
	return &out
}

// ContentUpdateRecord holds the most recent edit for a content record.
// There is at most one live entry per content ID; each successful update
// overwrites the previous one.
type ContentUpdateRecord struct {
	ContentID   uint64           `json:"content_id"`
	Title       string           `json:"updated_title"`
	Description string           `json:"updated_description"`
	UpdatedAt   uint64           `json:"updated_at"`
	UpdatedBy   identity.Address `json:"updated_by"` // always the record's creator
}

// RegistryState is a snapshot of the registry-wide configuration.
// NextContentID doubles as the total count of records ever created.
type RegistryState struct {
	NextContentID   uint64           `json:"next_content_id"`
	MaxContents     uint64           `json:"max_contents"`
	RegistrationFee uint64           `json:"registration_fee"`
	Authority       identity.Address `json:"authority,omitempty"` // empty until set, then immutable
}

// FeeTransfer is one journaled registration-fee payment.
type FeeTransfer struct {
	Amount        uint64           `json:"amount"`
	From          identity.Address `json:"from"`
	To            identity.Address `json:"to"`
	TransferredAt time.Time        `json:"transferred_at"`
}
