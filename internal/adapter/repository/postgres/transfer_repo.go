package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/veltapay/custody/internal/domain"
	"github.com/veltapay/custody/internal/usecase"
)

const pgErrUniqueViolation = "23505"

// TransferRepository implements usecase.TransferRepository.
type TransferRepository struct {
	pool *pgxpool.Pool
}

// NewTransferRepository creates a new TransferRepository.
func NewTransferRepository(pool *pgxpool.Pool) *TransferRepository {
	return &TransferRepository{pool: pool}
}

const transferColumns = `
	id, owner_id, idempotency_key, kind, purpose, amount::text, currency,
	destination_type, destination_id, fee::text, net::text, rate::text,
	status, metadata, created_at, updated_at
`

// Create inserts a new transfer. The unique index on (owner_id,
// idempotency_key) is the arbiter for concurrent retries: the losing writer
// gets ErrDuplicateIdempotency and falls back to the lookup path.
func (r *TransferRepository) Create(ctx context.Context, transfer *domain.Transfer) error {
	var metadata []byte
	if transfer.Metadata != nil {
		var err error
		metadata, err = json.Marshal(transfer.Metadata)
		if err != nil {
			return err
		}
	}

	query := `
		INSERT INTO transfers (
			id, owner_id, idempotency_key, kind, purpose, amount, currency,
			destination_type, destination_id, fee, net, rate,
			status, metadata, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := r.pool.Exec(ctx, query,
		transfer.ID,
		transfer.OwnerID,
		transfer.IdempotencyKey,
		string(transfer.Kind),
		string(transfer.Purpose),
		transfer.Amount.String(),
		transfer.Currency,
		transfer.Destination.Type,
		transfer.Destination.Identifier,
		transfer.Fee.String(),
		transfer.Net.String(),
		transfer.Rate.String(),
		string(transfer.Status),
		metadata,
		transfer.CreatedAt,
		transfer.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
			return domain.ErrDuplicateIdempotency
		}
		return err
	}

	return nil
}

// GetByID retrieves a transfer by ID.
func (r *TransferRepository) GetByID(ctx context.Context, id string) (*domain.Transfer, error) {
	query := fmt.Sprintf(`SELECT %s FROM transfers WHERE id = $1`, transferColumns)
	return scanTransferRow(r.pool.QueryRow(ctx, query, id))
}

// GetByIDTx retrieves a transfer inside a transaction.
func (r *TransferRepository) GetByIDTx(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transfer, error) {
	query := fmt.Sprintf(`SELECT %s FROM transfers WHERE id = $1`, transferColumns)
	return scanTransferRow(tx.(*Tx).PgxTx().QueryRow(ctx, query, id))
}

// GetByIdempotencyKey retrieves a transfer by its idempotency key.
func (r *TransferRepository) GetByIdempotencyKey(ctx context.Context, ownerID, key string) (*domain.Transfer, error) {
	query := fmt.Sprintf(`SELECT %s FROM transfers WHERE owner_id = $1 AND idempotency_key = $2`, transferColumns)
	return scanTransferRow(r.pool.QueryRow(ctx, query, ownerID, key))
}

// UpdateStatus conditionally moves the transfer from expected to next.
func (r *TransferRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, expected, next domain.TransferStatus, updatedAt time.Time) (bool, error) {
	query := `
		UPDATE transfers
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
	`

	tag, err := tx.(*Tx).PgxTx().Exec(ctx, query, string(next), updatedAt, id, string(expected))
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() == 1, nil
}

// List returns transfers matching the filter, newest first.
func (r *TransferRepository) List(ctx context.Context, filter usecase.TransferFilter) ([]*domain.Transfer, error) {
	query := fmt.Sprintf(`SELECT %s FROM transfers WHERE 1=1`, transferColumns)
	args := []any{}

	if filter.OwnerID != "" {
		args = append(args, filter.OwnerID)
		query += fmt.Sprintf(` AND owner_id = $%d`, len(args))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if filter.Kind != "" {
		args = append(args, string(filter.Kind))
		query += fmt.Sprintf(` AND kind = $%d`, len(args))
	}

	args = append(args, filter.Limit)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d`, len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(` OFFSET $%d`, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transfers []*domain.Transfer
	for rows.Next() {
		transfer, err := scanTransfer(rows)
		if err != nil {
			return nil, err
		}
		transfers = append(transfers, transfer)
	}

	return transfers, rows.Err()
}

func scanTransferRow(row pgx.Row) (*domain.Transfer, error) {
	transfer, err := scanTransfer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransferNotFound
		}
		return nil, err
	}

	return transfer, nil
}

func scanTransfer(row pgx.Row) (*domain.Transfer, error) {
	var (
		transfer                  domain.Transfer
		kind, purpose, status     string
		amount, fee, net, rate    string
		metadata                  []byte
	)

	err := row.Scan(
		&transfer.ID,
		&transfer.OwnerID,
		&transfer.IdempotencyKey,
		&kind,
		&purpose,
		&amount,
		&transfer.Currency,
		&transfer.Destination.Type,
		&transfer.Destination.Identifier,
		&fee,
		&net,
		&rate,
		&status,
		&metadata,
		&transfer.CreatedAt,
		&transfer.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	transfer.Kind = domain.TransferKind(kind)
	transfer.Purpose = domain.TransferPurpose(purpose)
	transfer.Status = domain.TransferStatus(status)

	if transfer.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, err
	}
	if transfer.Fee, err = decimal.NewFromString(fee); err != nil {
		return nil, err
	}
	if transfer.Net, err = decimal.NewFromString(net); err != nil {
		return nil, err
	}
	if transfer.Rate, err = decimal.NewFromString(rate); err != nil {
		return nil, err
	}

	if metadata != nil {
		_ = json.Unmarshal(metadata, &transfer.Metadata)
	}

	return &transfer, nil
}
