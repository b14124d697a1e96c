package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/veltapay/custody/internal/domain"
)

// FeeConfigRepository implements usecase.FeeConfigRepository.
type FeeConfigRepository struct {
	pool *pgxpool.Pool
}

// NewFeeConfigRepository creates a new FeeConfigRepository.
func NewFeeConfigRepository(pool *pgxpool.Pool) *FeeConfigRepository {
	return &FeeConfigRepository{pool: pool}
}

// GetByPurpose returns the active fee config for the purpose, or nil when no
// config exists yet. Missing config is not an error: callers treat it as a
// zero fee so rollout can be staged purpose by purpose.
func (r *FeeConfigRepository) GetByPurpose(ctx context.Context, purpose domain.FeePurpose) (*domain.FeeConfig, error) {
	query := `
		SELECT id, purpose, fee_type, value::text, updated_at
		FROM fee_configs
		WHERE purpose = $1
	`

	var (
		cfg     domain.FeeConfig
		feeType string
		value   string
	)

	err := r.pool.QueryRow(ctx, query, string(purpose)).Scan(
		&cfg.ID,
		&cfg.Purpose,
		&feeType,
		&value,
		&cfg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	cfg.Type = domain.FeeType(feeType)

	cfg.Value, err = decimal.NewFromString(value)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Upsert writes the single active value for a purpose. Changing it affects
// only future calculations.
func (r *FeeConfigRepository) Upsert(ctx context.Context, cfg *domain.FeeConfig) error {
	query := `
		INSERT INTO fee_configs (id, purpose, fee_type, value, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (purpose) DO UPDATE
		SET fee_type = EXCLUDED.fee_type, value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`

	_, err := r.pool.Exec(ctx, query,
		cfg.ID,
		string(cfg.Purpose),
		string(cfg.Type),
		cfg.Value.String(),
		cfg.UpdatedAt,
	)

	return err
}
