package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/veltapay/custody/internal/domain"
	"github.com/veltapay/custody/internal/infrastructure/metrics"
)

// OrderUseCase manages the staff-driven payment order pipeline.
type OrderUseCase struct {
	txManager  TransactionManager
	orderRepo  OrderRepository
	outboxRepo OutboxRepository
	auditUC    *AuditUseCase
	retrier    Retrier
	idGen      IDGenerator
	metrics    *metrics.Metrics
}

// NewOrderUseCase creates a new OrderUseCase. outboxRepo, retrier and metrics
// may be nil.
func NewOrderUseCase(
	txManager TransactionManager,
	orderRepo OrderRepository,
	outboxRepo OutboxRepository,
	auditUC *AuditUseCase,
	retrier Retrier,
	idGen IDGenerator,
	m *metrics.Metrics,
) *OrderUseCase {
	return &OrderUseCase{
		txManager:  txManager,
		orderRepo:  orderRepo,
		outboxRepo: outboxRepo,
		auditUC:    auditUC,
		retrier:    retrier,
		idGen:      idGen,
		metrics:    m,
	}
}

// CreateOrderInput represents a new payment order request.
type CreateOrderInput struct {
	Actor          *domain.Actor
	OwnerID        string
	OrderType      string
	Rail           string
	OriginAmount   decimal.Decimal
	OriginCurrency string
	BeneficiaryRef string
	Metadata       map[string]any
	// Manual marks an admin-entered order on behalf of a client.
	Manual bool
}

// CreateOrder records a new order in created status. Manual entries are an
// admin-only correction path and carry a metadata marker.
func (uc *OrderUseCase) CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.PaymentOrder, error) {
	if input.Actor == nil || !input.Actor.Role.IsValid() {
		return nil, domain.ErrUnauthorized
	}
	if input.Manual && !input.Actor.Role.CanCreateManualRecords() {
		return nil, domain.ErrUnauthorized
	}

	metadata := input.Metadata
	if input.Manual {
		if metadata == nil {
			metadata = map[string]any{}
		}
		metadata["manual_entry"] = true
		metadata["entered_by"] = input.Actor.ID
	}

	now := time.Now().UTC()
	order := &domain.PaymentOrder{
		ID:             uc.idGen.Generate(),
		OwnerID:        input.OwnerID,
		OrderType:      input.OrderType,
		Rail:           input.Rail,
		OriginAmount:   input.OriginAmount,
		OriginCurrency: input.OriginCurrency,
		Status:         domain.OrderStatusCreated,
		BeneficiaryRef: input.BeneficiaryRef,
		Metadata:       metadata,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := order.Validate(); err != nil {
		return nil, err
	}

	if err := uc.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	if _, err := uc.auditUC.Record(ctx, RecordInput{
		Actor:       input.Actor,
		Action:      domain.AuditActionCreate,
		EntityTable: "payment_orders",
		EntityID:    order.ID,
		New:         domain.MarshalState(order),
		Source:      "order_create",
	}); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.OrdersCreated.WithLabelValues(input.Rail).Inc()
	}

	return order, nil
}

// AdvanceOrderInput represents a staff/admin status change request.
type AdvanceOrderInput struct {
	Actor      *domain.Actor
	OrderID    string
	Transition domain.TransitionInput
	Source     string
}

// AdvanceOrder applies one status transition. The transition rules live in a
// single domain function; the update is conditional on the status the plan was
// computed from, so a concurrent operator loses with ErrConflict instead of
// writing a stale audit diff.
func (uc *OrderUseCase) AdvanceOrder(ctx context.Context, input AdvanceOrderInput) (*domain.PaymentOrder, error) {
	if input.Actor == nil {
		return nil, domain.ErrUnauthorized
	}

	auditInput := RecordInput{
		Actor:       input.Actor,
		Action:      domain.AuditActionChangeStatus,
		EntityTable: "payment_orders",
		EntityID:    input.OrderID,
		Reason:      input.Transition.Reason,
		Source:      input.Source,
	}
	if err := uc.auditUC.Validate(auditInput); err != nil {
		return nil, err
	}

	var advanced *domain.PaymentOrder
	operation := func() error {
		order, err := uc.advanceOnce(ctx, input, auditInput)
		if err != nil {
			return err
		}
		advanced = order
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
		uc.metrics.OrderTransitions.WithLabelValues(string(input.Transition.Requested)).Inc()
	}

	return advanced, nil
}

func (uc *OrderUseCase) advanceOnce(ctx context.Context, input AdvanceOrderInput, auditInput RecordInput) (*domain.PaymentOrder, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	order, err := uc.orderRepo.GetByIDTx(txCtx, tx, input.OrderID)
	if err != nil {
		return nil, err
	}

	if err := order.PlanTransition(input.Transition, input.Actor.Role); err != nil {
		return nil, err
	}

	// Capture the previous status before the update is applied so the log
	// reflects true before/after state even under concurrent operators.
	previous := order.Status
	now := time.Now().UTC()
	order.Apply(input.Transition, now)

	updated, err := uc.orderRepo.UpdateTransition(txCtx, tx, order, previous)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, domain.ErrConflict
	}

	auditInput.Previous = domain.JSON{"status": string(previous)}
	auditInput.New = domain.JSON{"status": string(order.Status)}
	if _, err := uc.auditUC.RecordTx(txCtx, tx, auditInput); err != nil {
		return nil, err
	}

	if uc.outboxRepo != nil {
		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   order.ID,
			AggregateType: domain.AggregateTypeOrder,
			EventType:     domain.EventTypeOrderStatusChanged,
			Payload: map[string]any{
				"order_id": order.ID,
				"owner_id": order.OwnerID,
				"rail":     order.Rail,
				"from":     string(previous),
				"to":       string(order.Status),
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

	return order, nil
}

// GetOrder retrieves an order by ID.
func (uc *OrderUseCase) GetOrder(ctx context.Context, id string) (*domain.PaymentOrder, error) {
	return uc.orderRepo.GetByID(ctx, id)
}

// ListOrders lists orders matching the filter.
func (uc *OrderUseCase) ListOrders(ctx context.Context, filter OrderFilter) ([]*domain.PaymentOrder, error) {
	filter.Limit, filter.Offset = domain.ValidatePagination(filter.Limit, filter.Offset)
	return uc.orderRepo.List(ctx, filter)
}
