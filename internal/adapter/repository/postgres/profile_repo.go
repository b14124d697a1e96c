package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/veltapay/custody/internal/domain"
	"github.com/veltapay/custody/internal/usecase"
)

// ProfileRepository implements usecase.ProfileRepository.
type ProfileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

// GetByOwner retrieves the verification profile for an owner.
func (r *ProfileRepository) GetByOwner(ctx context.Context, ownerID string) (*domain.Profile, error) {
	query := `
		SELECT id, owner_id, status, updated_at, created_at
		FROM profiles
		WHERE owner_id = $1
	`

	var (
		profile domain.Profile
		status  string
	)

	err := r.pool.QueryRow(ctx, query, ownerID).Scan(
		&profile.ID,
		&profile.OwnerID,
		&status,
		&profile.UpdatedAt,
		&profile.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}

	profile.Status = domain.VerificationStatus(status)

	return &profile, nil
}

// UpdateStatus sets the owner's verification status.
func (r *ProfileRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, ownerID string, status domain.VerificationStatus, updatedAt time.Time) error {
	query := `
		UPDATE profiles
		SET status = $1, updated_at = $2
		WHERE owner_id = $3
	`

	var tag pgconn.CommandTag
	var err error
	if tx != nil {
		tag, err = tx.(*Tx).PgxTx().Exec(ctx, query, string(status), updatedAt, ownerID)
	} else {
		tag, err = r.pool.Exec(ctx, query, string(status), updatedAt, ownerID)
	}
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrProfileNotFound
	}

	return nil
}
