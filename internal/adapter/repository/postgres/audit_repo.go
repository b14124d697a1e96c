package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/veltapay/custody/internal/domain"
	"github.com/veltapay/custody/internal/usecase"
)

// AuditRepository implements usecase.AuditRepository. Append-only: prior
// records are never updated or deleted.
type AuditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

const auditInsertQuery = `
	INSERT INTO audit_logs (
		id, actor_id, actor_role, action, entity_table, entity_id,
		changed_fields, previous_values, new_values, reason, source, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
`

// Create inserts a new audit entry.
func (r *AuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	args, err := auditInsertArgs(log)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, auditInsertQuery, args...)
	return err
}

// CreateTx inserts a new audit entry inside a transaction, so it commits or
// aborts with the mutation it records.
func (r *AuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	args, err := auditInsertArgs(log)
	if err != nil {
		return err
	}

	_, err = tx.(*Tx).PgxTx().Exec(ctx, auditInsertQuery, args...)
	return err
}

func auditInsertArgs(log *domain.AuditLog) ([]any, error) {
	var previous, next []byte
	var err error

	if log.Previous != nil {
		if previous, err = json.Marshal(log.Previous); err != nil {
			return nil, err
		}
	}
	if log.New != nil {
		if next, err = json.Marshal(log.New); err != nil {
			return nil, err
		}
	}

	return []any{
		log.ID,
		log.ActorID,
		string(log.ActorRole),
		string(log.Action),
		log.EntityTable,
		log.EntityID,
		log.ChangedFields,
		previous,
		next,
		log.Reason,
		log.Source,
		log.CreatedAt,
	}, nil
}

// List retrieves audit entries matching the filter, newest first.
func (r *AuditRepository) List(ctx context.Context, filter usecase.AuditFilter) ([]*domain.AuditLog, error) {
	query := `
		SELECT id, actor_id, actor_role, action, entity_table, entity_id,
		       changed_fields, previous_values, new_values, reason, source, created_at
		FROM audit_logs
		WHERE 1=1
	`
	args := []any{}

	if filter.ActorID != "" {
		args = append(args, filter.ActorID)
		query += fmt.Sprintf(` AND actor_id = $%d`, len(args))
	}
	if filter.Action != "" {
		args = append(args, string(filter.Action))
		query += fmt.Sprintf(` AND action = $%d`, len(args))
	}
	if filter.EntityTable != "" {
		args = append(args, filter.EntityTable)
		query += fmt.Sprintf(` AND entity_table = $%d`, len(args))
	}
	if filter.EntityID != "" {
		args = append(args, filter.EntityID)
		query += fmt.Sprintf(` AND entity_id = $%d`, len(args))
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

	var logs []*domain.AuditLog
	for rows.Next() {
		log, err := scanAuditLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}

	return logs, rows.Err()
}

func scanAuditLog(row pgx.Row) (*domain.AuditLog, error) {
	var (
		log            domain.AuditLog
		role, action   string
		previous, next []byte
	)

	err := row.Scan(
		&log.ID,
		&log.ActorID,
		&role,
		&action,
		&log.EntityTable,
		&log.EntityID,
		&log.ChangedFields,
		&previous,
		&next,
		&log.Reason,
		&log.Source,
		&log.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	log.ActorRole = domain.Role(role)
	log.Action = domain.AuditAction(action)

	if previous != nil {
		_ = json.Unmarshal(previous, &log.Previous)
	}
	if next != nil {
		_ = json.Unmarshal(next, &log.New)
	}

	return &log, nil
}
