package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/veltapay/custody/internal/domain"
)

// WalletRepository defines data access for wallets.
type WalletRepository interface {
	Create(ctx context.Context, tx Transaction, wallet *domain.Wallet) error
	// FirstByOwner returns the oldest wallet row for the owner. Duplicate rows
	// are a data anomaly the system tolerates by always picking the first.
	FirstByOwner(ctx context.Context, ownerID string) (*domain.Wallet, error)
	GetByID(ctx context.Context, id string) (*domain.Wallet, error)
	CountByOwner(ctx context.Context, ownerID string) (int, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Wallet, error)
}

// EntryRepository defines data access for ledger entries. Append-only: no
// update or delete is exposed.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.Entry) error
	// SumByWallet folds all entries for the wallet: deposits minus payouts.
	SumByWallet(ctx context.Context, walletID string) (decimal.Decimal, error)
	// SumByWalletTx runs the same fold inside a transaction, for the
	// settlement-time re-check.
	SumByWalletTx(ctx context.Context, tx Transaction, walletID string) (decimal.Decimal, error)
	SumByWalletAt(ctx context.Context, walletID string, at time.Time) (decimal.Decimal, error)
	ListByWallet(ctx context.Context, walletID string, limit, offset int) ([]*domain.Entry, error)
}

// TransferFilter narrows transfer listings for operator surfaces.
type TransferFilter struct {
	OwnerID string
	Status  domain.TransferStatus
	Kind    domain.TransferKind
	Limit   int
	Offset  int
}

// TransferRepository defines data access for transfers.
type TransferRepository interface {
	Create(ctx context.Context, transfer *domain.Transfer) error
	GetByID(ctx context.Context, id string) (*domain.Transfer, error)
	GetByIdempotencyKey(ctx context.Context, ownerID, key string) (*domain.Transfer, error)
	// UpdateStatus conditionally moves the transfer from expected to next and
	// reports whether a row was updated. The single-writer-wins arbiter.
	UpdateStatus(ctx context.Context, tx Transaction, id string, expected, next domain.TransferStatus, updatedAt time.Time) (bool, error)
	GetByIDTx(ctx context.Context, tx Transaction, id string) (*domain.Transfer, error)
	List(ctx context.Context, filter TransferFilter) ([]*domain.Transfer, error)
}

// OrderFilter narrows order listings for operator surfaces.
type OrderFilter struct {
	OwnerID string
	Status  domain.OrderStatus
	Rail    string
	Search  string
	Limit   int
	Offset  int
}

// OrderRepository defines data access for payment orders.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.PaymentOrder) error
	GetByID(ctx context.Context, id string) (*domain.PaymentOrder, error)
	GetByIDTx(ctx context.Context, tx Transaction, id string) (*domain.PaymentOrder, error)
	// UpdateTransition conditionally applies the already-planned transition,
	// keyed on the expected current status. Reports whether a row was updated.
	UpdateTransition(ctx context.Context, tx Transaction, order *domain.PaymentOrder, expected domain.OrderStatus) (bool, error)
	List(ctx context.Context, filter OrderFilter) ([]*domain.PaymentOrder, error)
}

// FeeConfigRepository defines data access for fee configuration.
type FeeConfigRepository interface {
	// GetByPurpose returns nil, nil when no config exists for the purpose.
	GetByPurpose(ctx context.Context, purpose domain.FeePurpose) (*domain.FeeConfig, error)
	Upsert(ctx context.Context, cfg *domain.FeeConfig) error
}

// ProfileRepository defines data access for verification profiles.
type ProfileRepository interface {
	GetByOwner(ctx context.Context, ownerID string) (*domain.Profile, error)
	UpdateStatus(ctx context.Context, tx Transaction, ownerID string, status domain.VerificationStatus, updatedAt time.Time) error
}

// AuditFilter narrows audit log queries.
type AuditFilter struct {
	ActorID     string
	Action      domain.AuditAction
	EntityTable string
	EntityID    string
	Limit       int
	Offset      int
}

// AuditRepository defines data access for audit logs. Append-only.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	CreateTx(ctx context.Context, tx Transaction, log *domain.AuditLog) error
	List(ctx context.Context, filter AuditFilter) ([]*domain.AuditLog, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier retries an operation on transient store errors (deadlocks,
// serialization failures). Domain errors are never retried.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations for derived read-side values.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles HTTP-level idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
