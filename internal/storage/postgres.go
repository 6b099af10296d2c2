package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"contentregistry/internal/identity"
	"contentregistry/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements the Repository interface using PostgreSQL
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(ctx context.Context, databaseURL string) (*PostgresRepository, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test the connection
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{
		pool: pool,
	}, nil
}

// Migrate creates the archive schema if it does not exist
func (r *PostgresRepository) Migrate(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS contents (
			content_id    BIGINT PRIMARY KEY,
			hash          BYTEA NOT NULL UNIQUE,
			title         TEXT NOT NULL,
			description   TEXT NOT NULL,
			category      TEXT NOT NULL,
			tags          JSONB NOT NULL,
			price         BIGINT NOT NULL,
			royalty_rate  BIGINT NOT NULL,
			currency      TEXT NOT NULL,
			creator       TEXT NOT NULL,
			status        BOOLEAN NOT NULL,
			registered_at BIGINT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS content_updates (
			content_id          BIGINT PRIMARY KEY REFERENCES contents (content_id),
			updated_title       TEXT NOT NULL,
			updated_description TEXT NOT NULL,
			updated_at          BIGINT NOT NULL,
			updated_by          TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS fee_transfers (
			id             BIGSERIAL PRIMARY KEY,
			amount         BIGINT NOT NULL,
			from_address   TEXT NOT NULL,
			to_address     TEXT NOT NULL,
			transferred_at TIMESTAMPTZ NOT NULL
		);

		CREATE TABLE IF NOT EXISTS registry_state (
			singleton        BOOLEAN PRIMARY KEY DEFAULT TRUE CHECK (singleton),
			next_content_id  BIGINT NOT NULL,
			max_contents     BIGINT NOT NULL,
			registration_fee BIGINT NOT NULL,
			authority        TEXT NOT NULL DEFAULT ''
		);
	`

	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// SaveContent archives a newly registered content record
func (r *PostgresRepository) SaveContent(ctx context.Context, record *models.ContentRecord) error {
	tagsJSON, err := json.Marshal(record.Tags)
	if err != nil {
		return fmt.Errorf("failed to marshal tags: %w", err)
	}

	query := `
		INSERT INTO contents (
			content_id, hash, title, description, category, tags,
			price, royalty_rate, currency, creator, status, registered_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (content_id) DO NOTHING
	`

	_, err = r.pool.Exec(ctx, query,
		record.ContentID,
		record.Hash,
		record.Title,
		record.Description,
		record.Category,
		tagsJSON,
		record.Price,
		record.RoyaltyRate,
		record.Currency,
		record.Creator.String(),
		record.Status,
		record.RegisteredAt,
	)

	if err != nil {
		return fmt.Errorf("failed to save content record: %w", err)
	}

	return nil
}

// UpdateContent archives the mutable fields of an edited record
func (r *PostgresRepository) UpdateContent(ctx context.Context, record *models.ContentRecord) error {
	query := `
		UPDATE contents
		SET title = $2, description = $3, registered_at = $4
		WHERE content_id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		record.ContentID,
		record.Title,
		record.Description,
		record.RegisteredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update content record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("content record %d not found in archive", record.ContentID)
	}

	return nil
}

// ListContents lists archived content records with pagination, newest first
func (r *PostgresRepository) ListContents(ctx context.Context, limit, offset int) ([]*models.ContentRecord, error) {
	query := contentSelectColumns + `
		ORDER BY content_id DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list content records: %w", err)
	}
	defer rows.Close()

	return scanContentRows(rows)
}

// ListAllContents returns every archived record ordered by id, used to
// replay the ledger at startup
func (r *PostgresRepository) ListAllContents(ctx context.Context) ([]*models.ContentRecord, error) {
	query := contentSelectColumns + `
		ORDER BY content_id ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list content records: %w", err)
	}
	defer rows.Close()

	return scanContentRows(rows)
}

const contentSelectColumns = `
	SELECT
		content_id, hash, title, description, category, tags,
		price, royalty_rate, currency, creator, status, registered_at
	FROM contents
`

func scanContentRows(rows pgx.Rows) ([]*models.ContentRecord, error) {
	var records []*models.ContentRecord

	for rows.Next() {
		var record models.ContentRecord
		var tagsJSON []byte
		var creator string

		err := rows.Scan(
			&record.ContentID,
			&record.Hash,
			&record.Title,
			&record.Description,
			&record.Category,
			&tagsJSON,
			&record.Price,
			&record.RoyaltyRate,
			&record.Currency,
			&creator,
			&record.Status,
			&record.RegisteredAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan content record: %w", err)
		}

		if err := json.Unmarshal(tagsJSON, &record.Tags); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tags: %w", err)
		}
		record.Creator = identity.Address(creator)

		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate content records: %w", err)
	}

	return records, nil
}

// SaveContentUpdate upserts the single tracked edit for a content id
func (r *PostgresRepository) SaveContentUpdate(ctx context.Context, update *models.ContentUpdateRecord) error {
	query := `
		INSERT INTO content_updates (
			content_id, updated_title, updated_description, updated_at, updated_by
		) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (content_id) DO UPDATE SET
			updated_title = EXCLUDED.updated_title,
			updated_description = EXCLUDED.updated_description,
			updated_at = EXCLUDED.updated_at,
			updated_by = EXCLUDED.updated_by
	`

	_, err := r.pool.Exec(ctx, query,
		update.ContentID,
		update.Title,
		update.Description,
		update.UpdatedAt,
		update.UpdatedBy.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to save content update: %w", err)
	}

	return nil
}

// ListAllContentUpdates returns every tracked edit, used at startup
func (r *PostgresRepository) ListAllContentUpdates(ctx context.Context) ([]*models.ContentUpdateRecord, error) {
	query := `
		SELECT content_id, updated_title, updated_description, updated_at, updated_by
		FROM content_updates
		ORDER BY content_id ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list content updates: %w", err)
	}
	defer rows.Close()

	var updates []*models.ContentUpdateRecord

	for rows.Next() {
		var update models.ContentUpdateRecord
		var updatedBy string

		err := rows.Scan(
			&update.ContentID,
			&update.Title,
			&update.Description,
			&update.UpdatedAt,
			&updatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan content update: %w", err)
		}
		update.UpdatedBy = identity.Address(updatedBy)

		updates = append(updates, &update)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate content updates: %w", err)
	}

	return updates, nil
}

// SaveRegistryState upserts the singleton configuration snapshot
func (r *PostgresRepository) SaveRegistryState(ctx context.Context, state *models.RegistryState) error {
	query := `
		INSERT INTO registry_state (
			singleton, next_content_id, max_contents, registration_fee, authority
		) VALUES (TRUE, $1, $2, $3, $4)
		ON CONFLICT (singleton) DO UPDATE SET
			next_content_id = EXCLUDED.next_content_id,
			max_contents = EXCLUDED.max_contents,
			registration_fee = EXCLUDED.registration_fee,
			authority = EXCLUDED.authority
	`

	_, err := r.pool.Exec(ctx, query,
		state.NextContentID,
		state.MaxContents,
		state.RegistrationFee,
		state.Authority.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to save registry state: %w", err)
	}

	return nil
}

// GetRegistryState returns the archived configuration snapshot, or nil when
// the archive is empty (fresh deployment)
func (r *PostgresRepository) GetRegistryState(ctx context.Context) (*models.RegistryState, error) {
	query := `
		SELECT next_content_id, max_contents, registration_fee, authority
		FROM registry_state
	`

	var state models.RegistryState
	var authority string

	err := r.pool.QueryRow(ctx, query).Scan(
		&state.NextContentID,
		&state.MaxContents,
		&state.RegistrationFee,
		&authority,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get registry state: %w", err)
	}

	state.Authority = identity.Address(authority)
	return &state, nil
}

// SaveTransfer appends a fee payment to the journal
func (r *PostgresRepository) SaveTransfer(ctx context.Context, transfer *models.FeeTransfer) error {
	query := `
		INSERT INTO fee_transfers (amount, from_address, to_address, transferred_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.pool.Exec(ctx, query,
		transfer.Amount,
		transfer.From.String(),
		transfer.To.String(),
		transfer.TransferredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save fee transfer: %w", err)
	}

	return nil
}

// Ping checks database connectivity
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close closes the connection pool
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}
