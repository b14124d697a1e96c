package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/veltapay/custody/internal/domain"
	"github.com/veltapay/custody/internal/usecase"
)

// OrderRepository implements usecase.OrderRepository.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository creates a new OrderRepository.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

const orderColumns = `
	id, owner_id, order_type, rail, origin_amount::text, origin_currency,
	converted_amount::text, converted_currency, rate::text, total_fee::text,
	status, beneficiary_ref, evidence_ref, proof_ref, metadata,
	created_at, updated_at
`

// Create inserts a new payment order.
func (r *OrderRepository) Create(ctx context.Context, order *domain.PaymentOrder) error {
	var metadata []byte
	if order.Metadata != nil {
		var err error
		metadata, err = json.Marshal(order.Metadata)
		if err != nil {
			return err
		}
	}

	query := `
		INSERT INTO payment_orders (
			id, owner_id, order_type, rail, origin_amount, origin_currency,
			converted_amount, converted_currency, rate, total_fee,
			status, beneficiary_ref, evidence_ref, proof_ref, metadata,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err := r.pool.Exec(ctx, query,
		order.ID,
		order.OwnerID,
		order.OrderType,
		order.Rail,
		order.OriginAmount.String(),
		order.OriginCurrency,
		order.ConvertedAmount.String(),
		order.ConvertedCurrency,
		order.Rate.String(),
		order.TotalFee.String(),
		string(order.Status),
		order.BeneficiaryRef,
		order.EvidenceRef,
		order.ProofRef,
		metadata,
		order.CreatedAt,
		order.UpdatedAt,
	)

	return err
}

// GetByID retrieves an order by ID.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.PaymentOrder, error) {
	query := fmt.Sprintf(`SELECT %s FROM payment_orders WHERE id = $1`, orderColumns)
	return scanOrderRow(r.pool.QueryRow(ctx, query, id))
}

// GetByIDTx retrieves an order inside a transaction.
func (r *OrderRepository) GetByIDTx(ctx context.Context, tx usecase.Transaction, id string) (*domain.PaymentOrder, error) {
	query := fmt.Sprintf(`SELECT %s FROM payment_orders WHERE id = $1`, orderColumns)
	return scanOrderRow(tx.(*Tx).PgxTx().QueryRow(ctx, query, id))
}

// UpdateTransition applies an already-planned transition conditionally on the
// expected current status. The losing writer of a race sees zero rows.
func (r *OrderRepository) UpdateTransition(ctx context.Context, tx usecase.Transaction, order *domain.PaymentOrder, expected domain.OrderStatus) (bool, error) {
	query := `
		UPDATE payment_orders
		SET status = $1, rate = $2, converted_amount = $3, total_fee = $4,
		    evidence_ref = $5, proof_ref = $6, updated_at = $7
		WHERE id = $8 AND status = $9
	`

	tag, err := tx.(*Tx).PgxTx().Exec(ctx, query,
		string(order.Status),
		order.Rate.String(),
		order.ConvertedAmount.String(),
		order.TotalFee.String(),
		order.EvidenceRef,
		order.ProofRef,
		order.UpdatedAt,
		order.ID,
		string(expected),
	)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() == 1, nil
}

// List returns orders matching the filter, newest first. Search matches the
// beneficiary and proof references.
func (r *OrderRepository) List(ctx context.Context, filter usecase.OrderFilter) ([]*domain.PaymentOrder, error) {
	query := fmt.Sprintf(`SELECT %s FROM payment_orders WHERE 1=1`, orderColumns)
	args := []any{}

	if filter.OwnerID != "" {
		args = append(args, filter.OwnerID)
		query += fmt.Sprintf(` AND owner_id = $%d`, len(args))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if filter.Rail != "" {
		args = append(args, filter.Rail)
		query += fmt.Sprintf(` AND rail = $%d`, len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(` AND (beneficiary_ref ILIKE $%d OR proof_ref ILIKE $%d)`, len(args), len(args))
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

	var orders []*domain.PaymentOrder
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	return orders, rows.Err()
}

func scanOrderRow(row pgx.Row) (*domain.PaymentOrder, error) {
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}

	return order, nil
}

func scanOrder(row pgx.Row) (*domain.PaymentOrder, error) {
	var (
		order                           domain.PaymentOrder
		status                          string
		originAmount, convertedAmount   string
		rate, totalFee                  string
		metadata                        []byte
	)

	err := row.Scan(
		&order.ID,
		&order.OwnerID,
		&order.OrderType,
		&order.Rail,
		&originAmount,
		&order.OriginCurrency,
		&convertedAmount,
		&order.ConvertedCurrency,
		&rate,
		&totalFee,
		&status,
		&order.BeneficiaryRef,
		&order.EvidenceRef,
		&order.ProofRef,
		&metadata,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	order.Status = domain.OrderStatus(status)

	if order.OriginAmount, err = decimal.NewFromString(originAmount); err != nil {
		return nil, err
	}
	if order.ConvertedAmount, err = decimal.NewFromString(convertedAmount); err != nil {
		return nil, err
	}
	if order.Rate, err = decimal.NewFromString(rate); err != nil {
		return nil, err
	}
	if order.TotalFee, err = decimal.NewFromString(totalFee); err != nil {
		return nil, err
	}

	if metadata != nil {
		_ = json.Unmarshal(metadata, &order.Metadata)
	}

	return &order, nil
}
