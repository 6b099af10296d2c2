package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"contentregistry/internal/identity"
	"contentregistry/internal/models"
	"contentregistry/internal/payments"
)

// Default configuration values, matching the on-chain contract.
const (
	DefaultMaxContents     = 100000
	DefaultRegistrationFee = 100
)

// RegisterParams carries the fields of a registration request.
type RegisterParams struct {
	Hash        []byte
	Title       string
	Description string
	Category    string
	Tags        []string
	Price       uint64
	RoyaltyRate uint64
	Currency    string
}

// Options configures a new Registry.
type Options struct {
	// MaxContents overrides the contract default when non-zero (zero is not
	// a valid ceiling).
	MaxContents uint64

	// RegistrationFee overrides the contract default when set. A pointer,
	// because zero is a valid fee.
	RegistrationFee *uint64

	// Clock stamps records with ledger time. Defaults to SystemClock.
	Clock Clock

	// Transferor collects registration fees. When nil, registrations are
	// accepted without a fee transfer.
	Transferor payments.Transferor

	// StrictAuthority requires the caller of SetMaxContents and
	// SetRegistrationFee to be the authority itself. The contract's
	// observed behavior only requires that an authority exists, so this
	// defaults to off.
	StrictAuthority bool
}

// Registry is the content-ownership ledger: a keyed record store, a
// hash-uniqueness index, an update tracker and the authority-gated
// configuration. One mutex serializes every mutation, so each operation is
// an indivisible step; either all of its effects commit or none do.
type Registry struct {
	mu sync.Mutex

	state   models.RegistryState
	records map[uint64]*models.ContentRecord
	byHash  map[[HashSize]byte]uint64
	updates map[uint64]*models.ContentUpdateRecord

	clock      Clock
	transferor payments.Transferor
	strict     bool

	// Committed changes are queued under their own lock and delivered by a
	// single goroutine, so slow archive writes never hold up r.mu.
	dispatcher  Dispatcher
	queueMu     sync.Mutex
	queueCond   *sync.Cond
	queue       []*Change
	queueClosed bool
	drained     chan struct{}
}

// New creates a Registry with the given options.
func New(opts Options) *Registry {
	maxContents := opts.MaxContents
	if maxContents == 0 {
		maxContents = DefaultMaxContents
	}
	fee := uint64(DefaultRegistrationFee)
	if opts.RegistrationFee != nil {
		fee = *opts.RegistrationFee
	}
	clock := opts.Clock
	if clock == nil {
		clock = SystemClock{}
	}

	return &Registry{
		state: models.RegistryState{
			MaxContents:     maxContents,
			RegistrationFee: fee,
		},
		records:    make(map[uint64]*models.ContentRecord),
		byHash:     make(map[[HashSize]byte]uint64),
		updates:    make(map[uint64]*models.ContentUpdateRecord),
		clock:      clock,
		transferor: opts.Transferor,
		strict:     opts.StrictAuthority,
	}
}

// SetDispatcher attaches a change dispatcher and starts the delivery
// goroutine. Changes are delivered in commit order, one at a time, outside
// the registry's critical section.
func (r *Registry) SetDispatcher(d Dispatcher) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dispatcher = d
	r.queueCond = sync.NewCond(&r.queueMu)
	r.drained = make(chan struct{})
	go r.drainQueue()
}

// Close flushes queued changes to the dispatcher and stops delivery. Safe to
// call when no dispatcher was attached.
func (r *Registry) Close() {
	r.mu.Lock()
	attached := r.dispatcher != nil
	r.mu.Unlock()
	if !attached {
		return
	}

	r.queueMu.Lock()
	r.queueClosed = true
	r.queueMu.Unlock()
	r.queueCond.Signal()
	<-r.drained
}

// drainQueue delivers queued changes in order until Close drains the queue.
func (r *Registry) drainQueue() {
	defer close(r.drained)
	for {
		r.queueMu.Lock()
		for len(r.queue) == 0 && !r.queueClosed {
			r.queueCond.Wait()
		}
		if len(r.queue) == 0 {
			r.queueMu.Unlock()
			return
		}
		change := r.queue[0]
		r.queue = r.queue[1:]
		r.queueMu.Unlock()

		r.dispatcher.Dispatch(context.Background(), change)
	}
}

// SetAuthority records the governance identity. It succeeds exactly once:
// the authority can never be replaced or cleared, and the reserved burn
// address is rejected.
func (r *Registry) SetAuthority(ctx context.Context, authority identity.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if authority.IsZero() || authority.IsBurn() {
		return ErrNotAuthorized
	}
	if !r.state.Authority.IsZero() {
		return ErrNotAuthorized
	}

	r.state.Authority = authority
	slog.Info("Registry authority set", "authority", authority)
	r.dispatch(&Change{Kind: ChangeConfiguration, State: r.state})
	return nil
}

// SetMaxContents adjusts the capacity ceiling. An authority must exist and
// the new ceiling must be positive.
func (r *Registry) SetMaxContents(ctx context.Context, caller identity.Address, maxContents uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if maxContents == 0 {
		return ErrInvalidMaxContents
	}
	if err := r.checkPrivilege(caller); err != nil {
		return err
	}

	r.state.MaxContents = maxContents
	slog.Info("Max contents updated", "max_contents", maxContents, "caller", caller)
	r.dispatch(&Change{Kind: ChangeConfiguration, State: r.state})
	return nil
}

// SetRegistrationFee adjusts the fee charged per registration. An authority
// must exist; a zero fee is valid.
func (r *Registry) SetRegistrationFee(ctx context.Context, caller identity.Address, fee uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkPrivilege(caller); err != nil {
		return err
	}

	r.state.RegistrationFee = fee
	slog.Info("Registration fee updated", "fee", fee, "caller", caller)
	r.dispatch(&Change{Kind: ChangeConfiguration, State: r.state})
	return nil
}

// checkPrivilege gates configuration mutations. The observed contract
// behavior treats "authority is set" as the privilege; strict mode also
// requires caller == authority.
func (r *Registry) checkPrivilege(caller identity.Address) error {
	if r.state.Authority.IsZero() {
		return ErrAuthorityNotVerified
	}
	if r.strict && caller != r.state.Authority {
		return ErrNotAuthorized
	}
	return nil
}

// Register validates the request, collects the registration fee and inserts
// a new record. Checks run in a fixed order so the reported failure is
// deterministic: capacity, hash, title, description, category, tag count,
// tag length, royalty, currency, duplicate hash, authority. If the fee
// transfer fails the registration leaves no trace.
func (r *Registry) Register(ctx context.Context, caller identity.Address, params RegisterParams) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state.NextContentID >= r.state.MaxContents {
		return 0, ErrMaxContentsExceeded
	}
	if err := ValidateHash(params.Hash); err != nil {
		return 0, err
	}
	if err := ValidateTitle(params.Title); err != nil {
		return 0, err
	}
	if err := ValidateDescription(params.Description); err != nil {
		return 0, err
	}
	if err := ValidateCategory(params.Category); err != nil {
		return 0, err
	}
	if err := ValidateTags(params.Tags); err != nil {
		return 0, err
	}
	if err := ValidateRoyaltyRate(params.RoyaltyRate); err != nil {
		return 0, err
	}
	if err := ValidateCurrency(params.Currency); err != nil {
		return 0, err
	}

	key := hashKey(params.Hash)
	if _, exists := r.byHash[key]; exists {
		return 0, ErrContentAlreadyExists
	}
	if r.state.Authority.IsZero() {
		return 0, ErrAuthorityNotVerified
	}

	// Fee transfer happens before any state change; a failure here means
	// the registration never happened.
	if r.transferor != nil {
		if err := r.transferor.Transfer(ctx, r.state.RegistrationFee, caller, r.state.Authority); err != nil {
			return 0, fmt.Errorf("registration fee transfer: %w", err)
		}
	}

	id := r.state.NextContentID
	record := &models.ContentRecord{
		ContentID:    id,
		Hash:         append([]byte(nil), params.Hash...),
		Title:        params.Title,
		Description:  params.Description,
		Category:     params.Category,
		Tags:         append([]string(nil), params.Tags...),
		Price:        params.Price,
		RoyaltyRate:  params.RoyaltyRate,
		Currency:     params.Currency,
		Creator:      caller,
		Status:       true,
		RegisteredAt: r.clock.Now(),
	}

	r.records[id] = record
	r.byHash[key] = id
	r.state.NextContentID++

	slog.Info("Content registered",
		"content_id", id,
		"creator", caller,
		"category", record.Category,
		"fee", r.state.RegistrationFee,
	)

	r.dispatch(&Change{
		Kind:      ChangeRegistered,
		Record:    record.Clone(),
		FeeAmount: r.state.RegistrationFee,
		State:     r.state,
	})

	return id, nil
}

// Get returns a copy of the record, or ErrContentNotFound.
func (r *Registry) Get(id uint64) (*models.ContentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[id]
	if !ok {
		return nil, ErrContentNotFound
	}
	return record.Clone(), nil
}

// Update replaces a record's title and description and refreshes its
// timestamp. Only the record's creator may update it; every other field is
// fixed at registration. The update tracker keeps just the latest edit.
func (r *Registry) Update(ctx context.Context, caller identity.Address, id uint64, title, description string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[id]
	if !ok {
		return ErrContentNotFound
	}
	if record.Creator != caller {
		return ErrNotAuthorized
	}
	if err := ValidateTitle(title); err != nil {
		return ErrInvalidUpdateParam
	}
	if err := ValidateDescription(description); err != nil {
		return ErrInvalidUpdateParam
	}

	now := r.clock.Now()
	record.Title = title
	record.Description = description
	record.RegisteredAt = now

	update := &models.ContentUpdateRecord{
		ContentID:   id,
		Title:       title,
		Description: description,
		UpdatedAt:   now,
		UpdatedBy:   caller,
	}
	r.updates[id] = update

	slog.Info("Content updated", "content_id", id, "updater", caller)

	updateCopy := *update
	r.dispatch(&Change{
		Kind:   ChangeUpdated,
		Record: record.Clone(),
		Update: &updateCopy,
		State:  r.state,
	})

	return nil
}

// LastUpdate returns the most recent tracked edit for a record, or
// ErrContentNotFound if the record has never been updated.
func (r *Registry) LastUpdate(id uint64) (*models.ContentUpdateRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	update, ok := r.updates[id]
	if !ok {
		return nil, ErrContentNotFound
	}
	updateCopy := *update
	return &updateCopy, nil
}

// Count returns the total number of records ever registered. Records are
// never deleted, so this is also the active count.
func (r *Registry) Count() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.NextContentID
}

// VerifyOwnership reports whether the claimed identity registered the given
// hash. The query is total: an unknown or malformed hash is simply false,
// so the result never leaks whether a hash exists.
func (r *Registry) VerifyOwnership(hash []byte, claimed identity.Address) bool {
	if len(hash) != HashSize {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byHash[hashKey(hash)]
	if !ok {
		return false
	}
	record, ok := r.records[id]
	if !ok {
		return false
	}
	return record.Creator == claimed
}

// State returns a snapshot of the registry configuration.
func (r *Registry) State() models.RegistryState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Restore rebuilds the in-memory ledger from archived state. It rejects
// snapshots that violate the registry invariants: ids must be dense from 0,
// hashes unique, and the next id equal to the record count.
func (r *Registry) Restore(records []*models.ContentRecord, updates []*models.ContentUpdateRecord, state models.RegistryState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state.NextContentID != 0 || len(r.records) != 0 {
		return fmt.Errorf("restore into a non-empty registry")
	}
	if uint64(len(records)) != state.NextContentID {
		return fmt.Errorf("snapshot has %d records but next content id %d", len(records), state.NextContentID)
	}

	restored := make(map[uint64]*models.ContentRecord, len(records))
	byHash := make(map[[HashSize]byte]uint64, len(records))

	for _, record := range records {
		if record.ContentID >= state.NextContentID {
			return fmt.Errorf("record id %d out of range", record.ContentID)
		}
		if _, dup := restored[record.ContentID]; dup {
			return fmt.Errorf("duplicate record id %d", record.ContentID)
		}
		if err := ValidateHash(record.Hash); err != nil {
			return fmt.Errorf("record %d: %w", record.ContentID, err)
		}
		key := hashKey(record.Hash)
		if _, dup := byHash[key]; dup {
			return fmt.Errorf("record %d: duplicate content hash", record.ContentID)
		}
		restored[record.ContentID] = record.Clone()
		byHash[key] = record.ContentID
	}

	restoredUpdates := make(map[uint64]*models.ContentUpdateRecord, len(updates))
	for _, update := range updates {
		if _, ok := restored[update.ContentID]; !ok {
			return fmt.Errorf("update for unknown record id %d", update.ContentID)
		}
		updateCopy := *update
		restoredUpdates[update.ContentID] = &updateCopy
	}

	r.records = restored
	r.byHash = byHash
	r.updates = restoredUpdates
	r.state = state

	slog.Info("Registry restored from archive",
		"records", len(records),
		"updates", len(updates),
		"next_content_id", state.NextContentID,
	)
	return nil
}

// dispatch queues a committed change for delivery. Callers hold the registry
// mutex, so enqueue order is commit order; the actual dispatcher call happens
// on the delivery goroutine.
func (r *Registry) dispatch(change *Change) {
	if r.dispatcher == nil {
		return
	}
	r.queueMu.Lock()
	r.queue = append(r.queue, change)
	r.queueMu.Unlock()
	r.queueCond.Signal()
}

func hashKey(hash []byte) [HashSize]byte {
	var key [HashSize]byte
	copy(key[:], hash)
	return key
}
