package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/veltapay/custody/internal/domain"
	"github.com/veltapay/custody/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository. The table is
// append-only; no update or delete statement exists in this file on purpose.
type EntryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

const sumByWalletQuery = `
	SELECT COALESCE(SUM(
		CASE WHEN type = 'deposit' THEN amount ELSE -amount END
	), 0)::text
	FROM ledger_entries
	WHERE wallet_id = $1
`

// Create appends a new entry. tx may be nil.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	var metadata []byte
	if entry.Metadata != nil {
		var err error
		metadata, err = json.Marshal(entry.Metadata)
		if err != nil {
			return err
		}
	}

	query := `
		INSERT INTO ledger_entries (id, wallet_id, type, amount, transfer_id, description, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	args := []any{
		entry.ID,
		entry.WalletID,
		string(entry.Type),
		entry.Amount.String(),
		entry.TransferID,
		entry.Description,
		metadata,
		entry.CreatedAt,
	}

	var err error
	if tx != nil {
		_, err = tx.(*Tx).PgxTx().Exec(ctx, query, args...)
	} else {
		_, err = r.pool.Exec(ctx, query, args...)
	}

	return err
}

// SumByWallet folds all entries for the wallet: deposits minus payouts.
func (r *EntryRepository) SumByWallet(ctx context.Context, walletID string) (decimal.Decimal, error) {
	var sum string
	if err := r.pool.QueryRow(ctx, sumByWalletQuery, walletID).Scan(&sum); err != nil {
		return decimal.Zero, err
	}

	return decimal.NewFromString(sum)
}

// SumByWalletTx runs the fold inside a transaction so the settlement-time
// re-check sees entries written by the same transaction.
func (r *EntryRepository) SumByWalletTx(ctx context.Context, tx usecase.Transaction, walletID string) (decimal.Decimal, error) {
	var sum string
	if err := tx.(*Tx).PgxTx().QueryRow(ctx, sumByWalletQuery, walletID).Scan(&sum); err != nil {
		return decimal.Zero, err
	}

	return decimal.NewFromString(sum)
}

// SumByWalletAt folds entries created at or before the given time.
func (r *EntryRepository) SumByWalletAt(ctx context.Context, walletID string, at time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(
			CASE WHEN type = 'deposit' THEN amount ELSE -amount END
		), 0)::text
		FROM ledger_entries
		WHERE wallet_id = $1 AND created_at <= $2
	`

	var sum string
	if err := r.pool.QueryRow(ctx, query, walletID, at).Scan(&sum); err != nil {
		return decimal.Zero, err
	}

	return decimal.NewFromString(sum)
}

// ListByWallet returns entries for a wallet, newest first.
func (r *EntryRepository) ListByWallet(ctx context.Context, walletID string, limit, offset int) ([]*domain.Entry, error) {
	query := `
		SELECT id, wallet_id, type, amount::text, transfer_id, description, metadata, created_at
		FROM ledger_entries
		WHERE wallet_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, walletID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func scanEntry(row pgx.Row) (*domain.Entry, error) {
	var (
		entry      domain.Entry
		entryType  string
		amount     string
		transferID *string
		metadata   []byte
	)

	err := row.Scan(
		&entry.ID,
		&entry.WalletID,
		&entryType,
		&amount,
		&transferID,
		&entry.Description,
		&metadata,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	entry.Type = domain.EntryType(entryType)
	entry.TransferID = transferID

	entry.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, err
	}

	if metadata != nil {
		_ = json.Unmarshal(metadata, &entry.Metadata)
	}

	return &entry, nil
}

// Totals implements usecase.LedgerRepository: global deposit and payout sums.
func (r *EntryRepository) Totals(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN type = 'deposit' THEN amount ELSE 0 END), 0)::text,
			COALESCE(SUM(CASE WHEN type = 'payout' THEN amount ELSE 0 END), 0)::text
		FROM ledger_entries
	`

	var depositsStr, payoutsStr string
	if err := r.pool.QueryRow(ctx, query).Scan(&depositsStr, &payoutsStr); err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	deposits, err := decimal.NewFromString(depositsStr)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	payouts, err := decimal.NewFromString(payoutsStr)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return deposits, payouts, nil
}
