package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/veltapay/custody/internal/domain"
	"github.com/veltapay/custody/internal/infrastructure/metrics"
)

// TransferUseCase orchestrates transfer creation and the audited settlement
// transitions that post ledger entries.
type TransferUseCase struct {
	txManager    TransactionManager
	transferRepo TransferRepository
	walletRepo   WalletRepository
	entryRepo    EntryRepository
	profileRepo  ProfileRepository
	feeRepo      FeeConfigRepository
	outboxRepo   OutboxRepository
	auditUC      *AuditUseCase
	retrier      Retrier
	idGen        IDGenerator
	metrics      *metrics.Metrics
}

// NewTransferUseCase creates a new TransferUseCase. outboxRepo, retrier and
// metrics may be nil.
func NewTransferUseCase(
	txManager TransactionManager,
	transferRepo TransferRepository,
	walletRepo WalletRepository,
	entryRepo EntryRepository,
	profileRepo ProfileRepository,
	feeRepo FeeConfigRepository,
	outboxRepo OutboxRepository,
	auditUC *AuditUseCase,
	retrier Retrier,
	idGen IDGenerator,
	m *metrics.Metrics,
) *TransferUseCase {
	return &TransferUseCase{
		txManager:    txManager,
		transferRepo: transferRepo,
		walletRepo:   walletRepo,
		entryRepo:    entryRepo,
		profileRepo:  profileRepo,
		feeRepo:      feeRepo,
		outboxRepo:   outboxRepo,
		auditUC:      auditUC,
		retrier:      retrier,
		idGen:        idGen,
		metrics:      m,
	}
}

// CreateTransferInput represents a client transfer request.
type CreateTransferInput struct {
	OwnerID        string
	Amount         decimal.Decimal
	Currency       string
	Kind           domain.TransferKind
	Purpose        domain.TransferPurpose
	IdempotencyKey string
	Destination    domain.Destination
	Network        string
}

// CreateTransfer validates and records a transfer idempotently. A retried
// request with the same key returns the original record unchanged; the lookup
// happens before any validation side effect so retries stay cheap.
func (uc *TransferUseCase) CreateTransfer(ctx context.Context, input CreateTransferInput) (*domain.Transfer, error) {
	existing, err := uc.transferRepo.GetByIdempotencyKey(ctx, input.OwnerID, input.IdempotencyKey)
	if err != nil && !errors.Is(err, domain.ErrTransferNotFound) {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	profile, err := uc.profileRepo.GetByOwner(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}
	if !profile.Status.IsVerified() {
		return nil, domain.ErrNotVerified
	}

	if input.Kind.Outbound() {
		wallet, err := uc.walletRepo.FirstByOwner(ctx, input.OwnerID)
		if err != nil {
			return nil, err
		}

		balance, err := uc.entryRepo.SumByWallet(ctx, wallet.ID)
		if err != nil {
			return nil, err
		}
		if balance.LessThan(input.Amount) {
			return nil, domain.ErrInsufficientFunds
		}
	}

	fee, err := uc.resolveFee(ctx, input.Purpose, input.Amount)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	transfer := &domain.Transfer{
		ID:             uc.idGen.Generate(),
		OwnerID:        input.OwnerID,
		IdempotencyKey: input.IdempotencyKey,
		Kind:           input.Kind,
		Purpose:        input.Purpose,
		Amount:         input.Amount,
		Currency:       input.Currency,
		Destination:    input.Destination,
		Fee:            fee,
		Net:            input.Amount.Sub(fee),
		Rate:           decimal.NewFromInt(1),
		Status:         domain.TransferStatusPending,
		Metadata: map[string]any{
			"engine":  EngineVersion,
			"network": input.Network,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := transfer.Validate(); err != nil {
		return nil, err
	}

	if err := uc.transferRepo.Create(ctx, transfer); err != nil {
		// A concurrent caller with the same key won the insert. The store's
		// uniqueness constraint is the arbiter; fall back to the idempotency
		// path instead of surfacing the raw constraint error.
		if errors.Is(err, domain.ErrDuplicateIdempotency) {
			return uc.transferRepo.GetByIdempotencyKey(ctx, input.OwnerID, input.IdempotencyKey)
		}
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TransfersCreated.WithLabelValues(string(input.Kind)).Inc()
	}

	return transfer, nil
}

func (uc *TransferUseCase) resolveFee(ctx context.Context, purpose domain.TransferPurpose, amount decimal.Decimal) (decimal.Decimal, error) {
	feePurpose, ok := domain.FeePurposeFor(purpose)
	if !ok {
		return decimal.Zero, nil
	}

	cfg, err := uc.feeRepo.GetByPurpose(ctx, feePurpose)
	if err != nil {
		return decimal.Zero, err
	}

	return domain.CalculateFee(amount, cfg), nil
}

// SettleTransferInput represents a staff/admin settlement decision.
type SettleTransferInput struct {
	Actor      *domain.Actor
	TransferID string
	// Reason is optional for a direct review decision; when supplied the
	// transition is written through the audit log.
	Reason string
	Source string
}

// CompleteTransfer confirms settlement: pending -> completed, posting the
// ledger entry for the moved amount. Balance sufficiency is re-verified inside
// the transaction because the request-time check may be stale.
func (uc *TransferUseCase) CompleteTransfer(ctx context.Context, input SettleTransferInput) (*domain.Transfer, error) {
	return uc.settle(ctx, input, domain.TransferStatusCompleted)
}

// FailTransfer voids a pending transfer: pending -> failed, no ledger effect.
func (uc *TransferUseCase) FailTransfer(ctx context.Context, input SettleTransferInput) (*domain.Transfer, error) {
	return uc.settle(ctx, input, domain.TransferStatusFailed)
}

func (uc *TransferUseCase) settle(ctx context.Context, input SettleTransferInput, next domain.TransferStatus) (*domain.Transfer, error) {
	if input.Actor == nil || !input.Actor.Role.CanReview() {
		return nil, domain.ErrUnauthorized
	}

	// Collect and validate the audit precondition up front: a rejected reason
	// aborts before any record-level write.
	auditInput := RecordInput{
		Actor:       input.Actor,
		Action:      domain.AuditActionChangeStatus,
		EntityTable: "transfers",
		EntityID:    input.TransferID,
		Reason:      input.Reason,
		Source:      input.Source,
	}
	if input.Reason != "" {
		if err := uc.auditUC.Validate(auditInput); err != nil {
			return nil, err
		}
	}

	var settled *domain.Transfer
	operation := func() error {
		transfer, err := uc.settleOnce(ctx, input, auditInput, next)
		if err != nil {
			return err
		}
		settled = transfer
		return nil
	}

	var err error
	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, operation)
	} else {
		err = operation()
	}
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TransfersSettled.WithLabelValues(string(next)).Inc()
	}

	return settled, nil
}

func (uc *TransferUseCase) settleOnce(ctx context.Context, input SettleTransferInput, auditInput RecordInput, next domain.TransferStatus) (*domain.Transfer, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	transfer, err := uc.transferRepo.GetByIDTx(txCtx, tx, input.TransferID)
	if err != nil {
		return nil, err
	}
	if transfer.Status.Terminal() {
		return nil, domain.ErrInvalidTransition
	}

	now := time.Now().UTC()

	updated, err := uc.transferRepo.UpdateStatus(txCtx, tx, transfer.ID, domain.TransferStatusPending, next, now)
	if err != nil {
		return nil, err
	}
	if !updated {
		// Another operator settled this transfer in between.
		return nil, domain.ErrConflict
	}

	if next == domain.TransferStatusCompleted {
		if err := uc.postSettlementEntry(txCtx, tx, transfer, now); err != nil {
			return nil, err
		}
	}

	if input.Reason != "" {
		auditInput.Previous = domain.JSON{"status": string(transfer.Status)}
		auditInput.New = domain.JSON{"status": string(next)}
		if _, err := uc.auditUC.RecordTx(txCtx, tx, auditInput); err != nil {
			return nil, err
		}
	}

	if uc.outboxRepo != nil {
		eventType := domain.EventTypeTransferCompleted
		if next == domain.TransferStatusFailed {
			eventType = domain.EventTypeTransferFailed
		}
		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   transfer.ID,
			AggregateType: domain.AggregateTypeTransfer,
			EventType:     eventType,
			Payload: map[string]any{
				"transfer_id": transfer.ID,
				"owner_id":    transfer.OwnerID,
				"kind":        string(transfer.Kind),
				"amount":      transfer.Amount.String(),
				"currency":    transfer.Currency,
			},
			CreatedAt: now,
		}
		if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	transfer.Status = next
	transfer.UpdatedAt = now

	return transfer, nil
}

// postSettlementEntry writes the ledger effect of a completed transfer. For
// outbound kinds the wallet balance is re-checked inside the transaction: two
// transfers can both pass the request-time check against the same funds.
func (uc *TransferUseCase) postSettlementEntry(ctx context.Context, tx Transaction, transfer *domain.Transfer, now time.Time) error {
	wallet, err := uc.walletRepo.FirstByOwner(ctx, transfer.OwnerID)
	if err != nil {
		return err
	}

	entryType := transfer.SettlementEntryType()
	if entryType == domain.EntryTypePayout {
		balance, err := uc.entryRepo.SumByWalletTx(ctx, tx, wallet.ID)
		if err != nil {
			return err
		}
		if balance.LessThan(transfer.Amount) {
			return domain.ErrInsufficientFunds
		}
	}

	transferID := transfer.ID
	entry := &domain.Entry{
		ID:          uc.idGen.Generate(),
		WalletID:    wallet.ID,
		Type:        entryType,
		Amount:      transfer.Amount,
		TransferID:  &transferID,
		Description: string(transfer.Purpose),
		Metadata:    map[string]any{"kind": string(transfer.Kind)},
		CreatedAt:   now,
	}
	if err := entry.Validate(); err != nil {
		return err
	}

	return uc.entryRepo.Create(ctx, tx, entry)
}

// GetTransfer retrieves a transfer by ID.
func (uc *TransferUseCase) GetTransfer(ctx context.Context, id string) (*domain.Transfer, error) {
	return uc.transferRepo.GetByID(ctx, id)
}

// ListTransfers lists transfers matching the filter.
func (uc *TransferUseCase) ListTransfers(ctx context.Context, filter TransferFilter) ([]*domain.Transfer, error) {
	filter.Limit, filter.Offset = domain.ValidatePagination(filter.Limit, filter.Offset)
	return uc.transferRepo.List(ctx, filter)
}
