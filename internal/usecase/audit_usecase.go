package usecase

import (
	"context"
	"time"

	"github.com/veltapay/custody/internal/domain"
	"github.com/veltapay/custody/internal/infrastructure/metrics"
)

// AuditUseCase records privileged mutations as immutable, field-level diffs.
type AuditUseCase struct {
	auditRepo AuditRepository
	idGen     IDGenerator
	metrics   *metrics.Metrics
}

// NewAuditUseCase creates a new AuditUseCase. metrics may be nil.
func NewAuditUseCase(auditRepo AuditRepository, idGen IDGenerator, m *metrics.Metrics) *AuditUseCase {
	return &AuditUseCase{
		auditRepo: auditRepo,
		idGen:     idGen,
		metrics:   m,
	}
}

// RecordInput represents input for recording an audit entry.
type RecordInput struct {
	Actor       *domain.Actor
	Action      domain.AuditAction
	EntityTable string
	EntityID    string
	Previous    domain.JSON
	New         domain.JSON
	Reason      string
	Source      string
}

// Record validates and persists one audit entry. For update actions only the
// fields whose serialized value differs are recorded; an empty diff is a
// no-op and returns (nil, nil) without writing. Callers must not assume a
// write occurred.
func (uc *AuditUseCase) Record(ctx context.Context, input RecordInput) (*domain.AuditLog, error) {
	return uc.record(ctx, nil, input)
}

// RecordTx is Record inside a running transaction, so the audit entry commits
// or aborts with the mutation it describes.
func (uc *AuditUseCase) RecordTx(ctx context.Context, tx Transaction, input RecordInput) (*domain.AuditLog, error) {
	return uc.record(ctx, tx, input)
}

// Validate checks the input preconditions without writing. Orchestrators call
// it before their record-level write so a rejected reason aborts the whole
// operation, leaving no "succeeded but unaudited" outcome.
func (uc *AuditUseCase) Validate(input RecordInput) error {
	if input.Actor == nil || !input.Actor.Role.IsValid() {
		return domain.ErrUnauthorized
	}
	if !input.Action.IsValid() || input.EntityTable == "" || input.EntityID == "" {
		return domain.ErrValidationFailed
	}
	if input.Action.RequiresReason() && len(input.Reason) < domain.MinAuditReasonLength {
		return domain.ErrValidationFailed
	}
	return nil
}

func (uc *AuditUseCase) record(ctx context.Context, tx Transaction, input RecordInput) (*domain.AuditLog, error) {
	if err := uc.Validate(input); err != nil {
		return nil, err
	}

	log := &domain.AuditLog{
		ID:          uc.idGen.Generate(),
		ActorID:     input.Actor.ID,
		ActorRole:   input.Actor.Role,
		Action:      input.Action,
		EntityTable: input.EntityTable,
		EntityID:    input.EntityID,
		Reason:      input.Reason,
		Source:      input.Source,
		CreatedAt:   time.Now().UTC(),
	}

	switch input.Action {
	case domain.AuditActionUpdate:
		changed, before, after := domain.DiffStates(input.Previous, input.New)
		if len(changed) == 0 {
			return nil, nil
		}
		log.ChangedFields = changed
		log.Previous = before
		log.New = after
	default:
		// create and status changes are stored as supplied: there is no
		// meaningful previous to subtract for a brand-new record.
		log.Previous = input.Previous
		log.New = input.New
	}

	var err error
	if tx != nil {
		err = uc.auditRepo.CreateTx(ctx, tx, log)
	} else {
		err = uc.auditRepo.Create(ctx, log)
	}
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.AuditEntriesCreated.WithLabelValues(string(input.Action), input.EntityTable).Inc()
	}

	return log, nil
}

// List returns audit entries matching the filter, newest first.
func (uc *AuditUseCase) List(ctx context.Context, filter AuditFilter) ([]*domain.AuditLog, error) {
	filter.Limit, filter.Offset = domain.ValidatePagination(filter.Limit, filter.Offset)
	return uc.auditRepo.List(ctx, filter)
}
