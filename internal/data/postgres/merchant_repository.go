package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/loyalty-points-ledger/internal/domain/merchant"
	"github.com/loyalty-points-ledger/internal/platform/persistence"
)

// MerchantRepository implements the merchant.Repository interface for PostgreSQL
type MerchantRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewMerchantRepository creates a new PostgreSQL merchant repository
func NewMerchantRepository(logger *slog.Logger, db *persistence.PostgresDB) merchant.Repository {
	return &MerchantRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// Create stores a new merchant
func (r *MerchantRepository) Create(ctx context.Context, m *merchant.Merchant) error {
	query := `
		INSERT INTO merchants (id, name, description, address, phone_number, website, opening_hours, is_open, rating, reward_threshold, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.querier.Exec(ctx, query,
		m.ID,
		m.Name,
		m.Description,
		m.Address,
		m.PhoneNumber,
		m.Website,
		m.OpeningHours,
		m.IsOpen,
		m.Rating,
		m.RewardThreshold,
		m.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create merchant", "error", err)
		return fmt.Errorf("failed to create merchant: %w", err)
	}

	return nil
}

// GetByID retrieves a merchant by its ID
func (r *MerchantRepository) GetByID(ctx context.Context, id uuid.UUID) (*merchant.Merchant, error) {
	query := `
		SELECT id, name, description, address, phone_number, website, opening_hours, is_open, rating, reward_threshold, created_at
		FROM merchants
		WHERE id = $1
	`

	var m merchant.Merchant
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&m.ID,
		&m.Name,
		&m.Description,
		&m.Address,
		&m.PhoneNumber,
		&m.Website,
		&m.OpeningHours,
		&m.IsOpen,
		&m.Rating,
		&m.RewardThreshold,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, merchant.ErrMerchantNotFound{MerchantID: id}
		}
		r.logger.Error("Failed to get merchant", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get merchant: %w", err)
	}

	return &m, nil
}

// List retrieves paginated merchants ordered by creation time
func (r *MerchantRepository) List(ctx context.Context, limit, offset int) ([]*merchant.Merchant, error) {
	query := `
		SELECT id, name, description, address, phone_number, website, opening_hours, is_open, rating, reward_threshold, created_at
		FROM merchants
		ORDER BY created_at ASC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.querier.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list merchants", "error", err)
		return nil, fmt.Errorf("failed to list merchants: %w", err)
	}
	defer rows.Close()

	return scanMerchants(rows)
}

// GetByIDs retrieves the merchants matching ids. Missing IDs are skipped
// rather than failing the whole lookup.
func (r *MerchantRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*merchant.Merchant, error) {
	if len(ids) == 0 {
		return []*merchant.Merchant{}, nil
	}

	query := `
		SELECT id, name, description, address, phone_number, website, opening_hours, is_open, rating, reward_threshold, created_at
		FROM merchants
		WHERE id = ANY($1)
		ORDER BY created_at ASC
	`

	rows, err := r.querier.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error("Failed to get merchants by IDs", "error", err)
		return nil, fmt.Errorf("failed to get merchants by IDs: %w", err)
	}
	defer rows.Close()

	return scanMerchants(rows)
}

func scanMerchants(rows pgx.Rows) ([]*merchant.Merchant, error) {
	var merchants []*merchant.Merchant
	for rows.Next() {
		var m merchant.Merchant
		err := rows.Scan(
			&m.ID,
			&m.Name,
			&m.Description,
			&m.Address,
			&m.PhoneNumber,
			&m.Website,
			&m.OpeningHours,
			&m.IsOpen,
			&m.Rating,
			&m.RewardThreshold,
			&m.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan merchant: %w", err)
		}
		merchants = append(merchants, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over merchants: %w", err)
	}

	return merchants, nil
}
