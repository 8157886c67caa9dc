package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/loyalty-points-ledger/internal/domain/account"
	"github.com/loyalty-points-ledger/internal/platform/persistence"
)

const uniqueViolationCode = "23505"

// AccountRepository implements the account.Repository interface for PostgreSQL
type AccountRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewAccountRepository creates a new PostgreSQL account repository
func NewAccountRepository(logger *slog.Logger, db *persistence.PostgresDB) account.Repository {
	return &AccountRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// Create stores a new account. Returns ErrDuplicateSubject when another
// account already holds the identity subject.
func (r *AccountRepository) Create(ctx context.Context, acc *account.Account) error {
	query := `
		INSERT INTO accounts (id, subject, name, email, phone, barcode, created_at, last_seen)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.querier.Exec(ctx, query,
		acc.ID,
		acc.Subject,
		acc.Name,
		acc.Email,
		acc.Phone,
		acc.Barcode,
		acc.CreatedAt,
		acc.LastSeen,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return account.ErrDuplicateSubject{Subject: acc.Subject}
		}
		r.logger.Error("Failed to create account", "error", err)
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// GetByID retrieves an account by its ID
func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	query := `
		SELECT id, subject, name, email, phone, barcode, created_at, last_seen
		FROM accounts
		WHERE id = $1
	`

	var acc account.Account
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&acc.ID,
		&acc.Subject,
		&acc.Name,
		&acc.Email,
		&acc.Phone,
		&acc.Barcode,
		&acc.CreatedAt,
		&acc.LastSeen,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrAccountNotFound{AccountID: id}
		}
		r.logger.Error("Failed to get account", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return &acc, nil
}

// GetBySubject retrieves an account by its identity subject.
// Returns nil, nil when no account exists for the subject.
func (r *AccountRepository) GetBySubject(ctx context.Context, subject string) (*account.Account, error) {
	query := `
		SELECT id, subject, name, email, phone, barcode, created_at, last_seen
		FROM accounts
		WHERE subject = $1
	`

	var acc account.Account
	err := r.querier.QueryRow(ctx, query, subject).Scan(
		&acc.ID,
		&acc.Subject,
		&acc.Name,
		&acc.Email,
		&acc.Phone,
		&acc.Barcode,
		&acc.CreatedAt,
		&acc.LastSeen,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get account by subject", "subject", subject, "error", err)
		return nil, fmt.Errorf("failed to get account by subject: %w", err)
	}

	return &acc, nil
}

// Update updates an existing account
func (r *AccountRepository) Update(ctx context.Context, acc *account.Account) error {
	query := `
		UPDATE accounts
		SET name = $1, email = $2, phone = $3, last_seen = $4
		WHERE id = $5
	`

	result, err := r.querier.Exec(ctx, query,
		acc.Name,
		acc.Email,
		acc.Phone,
		acc.LastSeen,
		acc.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update account", "id", acc.ID.String(), "error", err)
		return fmt.Errorf("failed to update account: %w", err)
	}

	if result.RowsAffected() == 0 {
		return account.ErrAccountNotFound{AccountID: acc.ID}
	}

	return nil
}

// Delete removes an account. Ledger entries are kept for audit.
func (r *AccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM accounts WHERE id = $1`

	result, err := r.querier.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete account", "id", id.String(), "error", err)
		return fmt.Errorf("failed to delete account: %w", err)
	}

	if result.RowsAffected() == 0 {
		return account.ErrAccountNotFound{AccountID: id}
	}

	return nil
}

// List retrieves paginated accounts ordered by creation time
func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*account.Account, error) {
	query := `
		SELECT id, subject, name, email, phone, barcode, created_at, last_seen
		FROM accounts
		ORDER BY created_at ASC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.querier.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list accounts", "error", err)
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*account.Account
	for rows.Next() {
		var acc account.Account
		err := rows.Scan(
			&acc.ID,
			&acc.Subject,
			&acc.Name,
			&acc.Email,
			&acc.Phone,
			&acc.Barcode,
			&acc.CreatedAt,
			&acc.LastSeen,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, &acc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over accounts: %w", err)
	}

	return accounts, nil
}
