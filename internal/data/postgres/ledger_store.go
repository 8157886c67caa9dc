// Package postgres provides PostgreSQL implementations of the domain
// repositories and the ledger store. It handles all database operations
// while maintaining transaction safety and proper error handling.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/loyalty-points-ledger/internal/domain/ledger"
	"github.com/loyalty-points-ledger/internal/domain/outbox"
	"github.com/loyalty-points-ledger/internal/platform/persistence"
)

// LedgerStore implements the ledger.Store interface for PostgreSQL.
// AtomicUpdate serializes writers per (account, merchant) row with
// SELECT ... FOR UPDATE; rows for different keys never block each other.
type LedgerStore struct {
	db         *persistence.PostgresDB
	outboxRepo outbox.Repository
	logger     *slog.Logger
}

// NewLedgerStore creates a new PostgreSQL ledger store. Redemption events
// returned by apply functions are written through outboxRepo inside the
// same transaction as the entry update.
func NewLedgerStore(logger *slog.Logger, db *persistence.PostgresDB, outboxRepo outbox.Repository) ledger.Store {
	return &LedgerStore{
		db:         db,
		outboxRepo: outboxRepo,
		logger:     logger,
	}
}

// AtomicUpdate executes fn against the current entry for key inside a
// single transaction. The row is created with a zero balance if absent,
// locked, transformed, and written back; a cancelled context before commit
// rolls the whole step back.
func (s *LedgerStore) AtomicUpdate(ctx context.Context, key ledger.Key, fn ledger.ApplyFunc) (ledger.Entry, error) {
	var (
		updated  ledger.Entry
		applyErr error
	)

	txErr := s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		// Fetch-or-create and lock in one step: the insert makes sure the
		// row exists so FOR UPDATE always has something to pin.
		insert := `
			INSERT INTO ledger_entries (account_id, merchant_id, balance, total_credited, created_at, updated_at)
			VALUES ($1, $2, 0, 0, NOW(), NOW())
			ON CONFLICT (account_id, merchant_id) DO NOTHING
		`
		if _, err := tx.Exec(ctx, insert, key.AccountID, key.MerchantID); err != nil {
			return fmt.Errorf("failed to ensure ledger entry exists: %w", err)
		}

		lock := `
			SELECT account_id, merchant_id, balance, total_credited, created_at, updated_at
			FROM ledger_entries
			WHERE account_id = $1 AND merchant_id = $2
			FOR UPDATE
		`
		var current ledger.Entry
		err := tx.QueryRow(ctx, lock, key.AccountID, key.MerchantID).Scan(
			&current.AccountID,
			&current.MerchantID,
			&current.Balance,
			&current.TotalCredited,
			&current.CreatedAt,
			&current.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to lock ledger entry: %w", err)
		}

		next, event, err := fn(current)
		if err != nil {
			applyErr = err
			return err
		}

		update := `
			UPDATE ledger_entries
			SET balance = $1, total_credited = $2, updated_at = NOW()
			WHERE account_id = $3 AND merchant_id = $4
		`
		if _, err := tx.Exec(ctx, update, next.Balance, next.TotalCredited, key.AccountID, key.MerchantID); err != nil {
			return fmt.Errorf("failed to update ledger entry: %w", err)
		}

		if event != nil {
			message, err := outbox.NewMessage(event)
			if err != nil {
				return fmt.Errorf("failed to build outbox message: %w", err)
			}
			if err := s.outboxRepo.WithTx(tx).Create(ctx, message); err != nil {
				return fmt.Errorf("failed to record redemption event: %w", err)
			}
		}

		updated = next
		return nil
	})

	if txErr != nil {
		// Errors from fn are the caller's domain errors and pass through
		// untouched; everything else is a persistence failure and retryable.
		if applyErr != nil && errors.Is(txErr, applyErr) {
			return ledger.Entry{}, txErr
		}
		s.logger.Error("Atomic ledger update failed",
			"account_id", key.AccountID.String(),
			"merchant_id", key.MerchantID.String(),
			"error", txErr,
		)
		return ledger.Entry{}, ledger.ErrStoreUnavailable{Cause: txErr}
	}

	return updated, nil
}

// Get retrieves the entry for key
func (s *LedgerStore) Get(ctx context.Context, key ledger.Key) (ledger.Entry, error) {
	query := `
		SELECT account_id, merchant_id, balance, total_credited, created_at, updated_at
		FROM ledger_entries
		WHERE account_id = $1 AND merchant_id = $2
	`

	var entry ledger.Entry
	err := s.db.Pool().QueryRow(ctx, query, key.AccountID, key.MerchantID).Scan(
		&entry.AccountID,
		&entry.MerchantID,
		&entry.Balance,
		&entry.TotalCredited,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ledger.Entry{}, ledger.ErrEntryNotFound{Key: key}
		}
		s.logger.Error("Failed to get ledger entry",
			"account_id", key.AccountID.String(),
			"merchant_id", key.MerchantID.String(),
			"error", err,
		)
		return ledger.Entry{}, ledger.ErrStoreUnavailable{Cause: err}
	}

	return entry, nil
}

// ListByAccount retrieves all entries for an account
func (s *LedgerStore) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]ledger.Entry, error) {
	query := `
		SELECT account_id, merchant_id, balance, total_credited, created_at, updated_at
		FROM ledger_entries
		WHERE account_id = $1
		ORDER BY created_at ASC
	`

	rows, err := s.db.Pool().Query(ctx, query, accountID)
	if err != nil {
		s.logger.Error("Failed to list ledger entries", "account_id", accountID.String(), "error", err)
		return nil, ledger.ErrStoreUnavailable{Cause: err}
	}
	defer rows.Close()

	var entries []ledger.Entry
	for rows.Next() {
		var entry ledger.Entry
		err := rows.Scan(
			&entry.AccountID,
			&entry.MerchantID,
			&entry.Balance,
			&entry.TotalCredited,
			&entry.CreatedAt,
			&entry.UpdatedAt,
		)
		if err != nil {
			return nil, ledger.ErrStoreUnavailable{Cause: err}
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, ledger.ErrStoreUnavailable{Cause: err}
	}

	return entries, nil
}
