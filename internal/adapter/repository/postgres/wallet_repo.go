package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/veltapay/custody/internal/domain"
	"github.com/veltapay/custody/internal/usecase"
)

// WalletRepository implements usecase.WalletRepository.
type WalletRepository struct {
	pool *pgxpool.Pool
}

// NewWalletRepository creates a new WalletRepository.
func NewWalletRepository(pool *pgxpool.Pool) *WalletRepository {
	return &WalletRepository{pool: pool}
}

// Create inserts a new wallet. tx may be nil.
func (r *WalletRepository) Create(ctx context.Context, tx usecase.Transaction, wallet *domain.Wallet) error {
	query := `
		INSERT INTO wallets (id, owner_id, currency, created_at)
		VALUES ($1, $2, $3, $4)
	`

	var err error
	if tx != nil {
		_, err = tx.(*Tx).PgxTx().Exec(ctx, query, wallet.ID, wallet.OwnerID, wallet.Currency, wallet.CreatedAt)
	} else {
		_, err = r.pool.Exec(ctx, query, wallet.ID, wallet.OwnerID, wallet.Currency, wallet.CreatedAt)
	}

	return err
}

// FirstByOwner returns the oldest wallet row for the owner. Uniqueness is not
// enforced upstream historically; duplicates are tolerated by picking the
// first, never by failing.
func (r *WalletRepository) FirstByOwner(ctx context.Context, ownerID string) (*domain.Wallet, error) {
	query := `
		SELECT id, owner_id, currency, created_at
		FROM wallets
		WHERE owner_id = $1
		ORDER BY created_at ASC
		LIMIT 1
	`

	var wallet domain.Wallet
	err := r.pool.QueryRow(ctx, query, ownerID).Scan(
		&wallet.ID,
		&wallet.OwnerID,
		&wallet.Currency,
		&wallet.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, err
	}

	return &wallet, nil
}

// GetByID retrieves a wallet by ID.
func (r *WalletRepository) GetByID(ctx context.Context, id string) (*domain.Wallet, error) {
	query := `
		SELECT id, owner_id, currency, created_at
		FROM wallets
		WHERE id = $1
	`

	var wallet domain.Wallet
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&wallet.ID,
		&wallet.OwnerID,
		&wallet.Currency,
		&wallet.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, err
	}

	return &wallet, nil
}

// CountByOwner counts wallet rows for an owner.
func (r *WalletRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM wallets WHERE owner_id = $1`, ownerID).Scan(&count)
	return count, err
}

// List returns wallets ordered by creation time.
func (r *WalletRepository) List(ctx context.Context, limit, offset int) ([]*domain.Wallet, error) {
	query := `
		SELECT id, owner_id, currency, created_at
		FROM wallets
		ORDER BY created_at ASC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var wallets []*domain.Wallet
	for rows.Next() {
		var wallet domain.Wallet
		if err := rows.Scan(&wallet.ID, &wallet.OwnerID, &wallet.Currency, &wallet.CreatedAt); err != nil {
			return nil, err
		}
		wallets = append(wallets, &wallet)
	}

	return wallets, rows.Err()
}
