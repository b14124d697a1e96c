package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/veltapay/custody/internal/domain"
	"github.com/veltapay/custody/internal/usecase"
	"github.com/veltapay/custody/internal/usecase/mocks"
)

type orderMocks struct {
	txMgr      *mocks.MockTransactionManager
	orderRepo  *mocks.MockOrderRepository
	outboxRepo *mocks.MockOutboxRepository
	auditRepo  *mocks.MockAuditRepository
}

func newOrderMocks() *orderMocks {
	return &orderMocks{
		txMgr:      mocks.NewMockTransactionManager(),
		orderRepo:  mocks.NewMockOrderRepository(),
		outboxRepo: mocks.NewMockOutboxRepository(),
		auditRepo:  mocks.NewMockAuditRepository(),
	}
}

func (m *orderMocks) usecase() *usecase.OrderUseCase {
	auditUC := usecase.NewAuditUseCase(m.auditRepo, mocks.NewMockIDGenerator(), nil)
	return usecase.NewOrderUseCase(
		m.txMgr,
		m.orderRepo,
		m.outboxRepo,
		auditUC,
		nil,
		mocks.NewMockIDGenerator(),
		nil,
	)
}

func (m *orderMocks) seedOrder(status domain.OrderStatus) {
	_ = m.orderRepo.Create(context.Background(), &domain.PaymentOrder{
		ID:             "ord-1",
		OwnerID:        "owner-1",
		OrderType:      "payout",
		Rail:           "swift",
		OriginAmount:   decimal.NewFromInt(1000),
		OriginCurrency: "USD",
		Status:         status,
	})
}

func TestOrderUseCase_CreateOrder(t *testing.T) {
	client := &domain.Actor{ID: "client-1", Role: domain.RoleClient}
	admin := &domain.Actor{ID: "admin-1", Role: domain.RoleAdmin}
	staff := &domain.Actor{ID: "staff-1", Role: domain.RoleStaff}

	tests := []struct {
		name        string
		input       usecase.CreateOrderInput
		expectError bool
		errorType   error
		check       func(*testing.T, *orderMocks, *domain.PaymentOrder)
	}{
		{
			name: "client creates own order",
			input: usecase.CreateOrderInput{
				Actor:          client,
				OwnerID:        "client-1",
				OrderType:      "payout",
				Rail:           "swift",
				OriginAmount:   decimal.NewFromInt(1000),
				OriginCurrency: "USD",
			},
			check: func(t *testing.T, m *orderMocks, order *domain.PaymentOrder) {
				if order.Status != domain.OrderStatusCreated {
					t.Errorf("expected created status, got %s", order.Status)
				}
				logs := m.auditRepo.Logs()
				if len(logs) != 1 || logs[0].Action != domain.AuditActionCreate {
					t.Errorf("expected one create audit entry, got %+v", logs)
				}
			},
		},
		{
			name: "admin creates manual order with marker",
			input: usecase.CreateOrderInput{
				Actor:          admin,
				OwnerID:        "client-2",
				OrderType:      "payout",
				Rail:           "sepa",
				OriginAmount:   decimal.NewFromInt(500),
				OriginCurrency: "EUR",
				Manual:         true,
			},
			check: func(t *testing.T, m *orderMocks, order *domain.PaymentOrder) {
				if order.Metadata["manual_entry"] != true {
					t.Error("expected manual_entry marker in metadata")
				}
				if order.Metadata["entered_by"] != "admin-1" {
					t.Errorf("expected entered_by admin-1, got %v", order.Metadata["entered_by"])
				}
			},
		},
		{
			name: "staff cannot create manual order",
			input: usecase.CreateOrderInput{
				Actor:          staff,
				OwnerID:        "client-2",
				Rail:           "sepa",
				OriginAmount:   decimal.NewFromInt(500),
				OriginCurrency: "EUR",
				Manual:         true,
			},
			expectError: true,
			errorType:   domain.ErrUnauthorized,
		},
		{
			name: "reject missing rail",
			input: usecase.CreateOrderInput{
				Actor:          client,
				OwnerID:        "client-1",
				OriginAmount:   decimal.NewFromInt(500),
				OriginCurrency: "USD",
			},
			expectError: true,
			errorType:   domain.ErrValidationFailed,
		},
		{
			name: "reject non-positive amount",
			input: usecase.CreateOrderInput{
				Actor:          client,
				OwnerID:        "client-1",
				Rail:           "swift",
				OriginAmount:   decimal.Zero,
				OriginCurrency: "USD",
			},
			expectError: true,
			errorType:   domain.ErrInvalidAmount,
		},
		{
			name: "reject missing actor",
			input: usecase.CreateOrderInput{
				OwnerID:        "client-1",
				Rail:           "swift",
				OriginAmount:   decimal.NewFromInt(100),
				OriginCurrency: "USD",
			},
			expectError: true,
			errorType:   domain.ErrUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newOrderMocks()
			uc := m.usecase()

			order, err := uc.CreateOrder(context.Background(), tt.input)

			if tt.expectError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.errorType != nil && !errors.Is(err, tt.errorType) {
					t.Errorf("expected error %v, got %v", tt.errorType, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.check != nil {
				tt.check(t, m, order)
			}
		})
	}
}

func TestOrderUseCase_AdvanceOrder(t *testing.T) {
	staff := &domain.Actor{ID: "staff-1", Role: domain.RoleStaff}
	admin := &domain.Actor{ID: "admin-1", Role: domain.RoleAdmin}

	advance := func(actor *domain.Actor, transition domain.TransitionInput) usecase.AdvanceOrderInput {
		if transition.Reason == "" {
			transition.Reason = "reviewed and approved"
		}
		return usecase.AdvanceOrderInput{
			Actor:      actor,
			OrderID:    "ord-1",
			Transition: transition,
			Source:     "api",
		}
	}

	tests := []struct {
		name        string
		from        domain.OrderStatus
		input       usecase.AdvanceOrderInput
		setupMocks  func(*orderMocks)
		expectError bool
		errorType   error
		check       func(*testing.T, *orderMocks, *domain.PaymentOrder)
	}{
		{
			name:  "created advances to waiting_deposit",
			from:  domain.OrderStatusCreated,
			input: advance(staff, domain.TransitionInput{Requested: domain.OrderStatusWaitingDeposit}),
			check: func(t *testing.T, m *orderMocks, order *domain.PaymentOrder) {
				if order.Status != domain.OrderStatusWaitingDeposit {
					t.Errorf("expected waiting_deposit, got %s", order.Status)
				}
				if len(m.outboxRepo.Events()) != 1 {
					t.Errorf("expected one outbox event, got %d", len(m.outboxRepo.Events()))
				}
			},
		},
		{
			name: "deposit confirmed straight from created",
			from: domain.OrderStatusCreated,
			input: advance(staff, domain.TransitionInput{
				Requested: domain.OrderStatusDepositReceived,
				Reason:    "deposit confirmed on chain",
			}),
			check: func(t *testing.T, m *orderMocks, order *domain.PaymentOrder) {
				if order.Status != domain.OrderStatusDepositReceived {
					t.Errorf("expected deposit_received, got %s", order.Status)
				}
			},
		},
		{
			name: "reject skipping pipeline step",
			from: domain.OrderStatusCreated,
			input: advance(staff, domain.TransitionInput{
				Requested:       domain.OrderStatusProcessing,
				Rate:            decimal.NewFromFloat(0.92),
				ConvertedAmount: decimal.NewFromInt(920),
				Fee:             decimal.NewFromInt(15),
			}),
			expectError: true,
			errorType:   domain.ErrInvalidTransition,
		},
		{
			name: "processing requires financial terms",
			from: domain.OrderStatusDepositReceived,
			input: advance(staff, domain.TransitionInput{
				Requested: domain.OrderStatusProcessing,
			}),
			expectError: true,
			errorType:   domain.ErrInvalidTransition,
		},
		{
			name: "processing fixes financial terms",
			from: domain.OrderStatusDepositReceived,
			input: advance(staff, domain.TransitionInput{
				Requested:       domain.OrderStatusProcessing,
				Rate:            decimal.NewFromFloat(0.92),
				ConvertedAmount: decimal.NewFromInt(920),
				Fee:             decimal.NewFromInt(15),
			}),
			check: func(t *testing.T, m *orderMocks, order *domain.PaymentOrder) {
				if !order.Rate.Equal(decimal.NewFromFloat(0.92)) {
					t.Errorf("expected rate 0.92, got %s", order.Rate)
				}
				if !order.ConvertedAmount.Equal(decimal.NewFromInt(920)) {
					t.Errorf("expected converted 920, got %s", order.ConvertedAmount)
				}
				if !order.TotalFee.Equal(decimal.NewFromInt(15)) {
					t.Errorf("expected fee 15, got %s", order.TotalFee)
				}
			},
		},
		{
			name: "completion requires proof",
			from: domain.OrderStatusProcessing,
			input: advance(staff, domain.TransitionInput{
				Requested: domain.OrderStatusCompleted,
			}),
			expectError: true,
			errorType:   domain.ErrInvalidTransition,
		},
		{
			name: "completion with reference",
			from: domain.OrderStatusProcessing,
			input: advance(staff, domain.TransitionInput{
				Requested: domain.OrderStatusCompleted,
				Reference: "MT103-20260831-001",
			}),
			check: func(t *testing.T, m *orderMocks, order *domain.PaymentOrder) {
				if order.Status != domain.OrderStatusCompleted {
					t.Errorf("expected completed, got %s", order.Status)
				}
				if order.ProofRef != "MT103-20260831-001" {
					t.Errorf("expected proof ref recorded, got %q", order.ProofRef)
				}
			},
		},
		{
			name: "fail from any non-terminal state",
			from: domain.OrderStatusWaitingDeposit,
			input: advance(staff, domain.TransitionInput{
				Requested: domain.OrderStatusFailed,
				Reason:    "client cancelled the payment",
			}),
			check: func(t *testing.T, m *orderMocks, order *domain.PaymentOrder) {
				if order.Status != domain.OrderStatusFailed {
					t.Errorf("expected failed, got %s", order.Status)
				}
			},
		},
		{
			name:        "reject transition from terminal state",
			from:        domain.OrderStatusCompleted,
			input:       advance(staff, domain.TransitionInput{Requested: domain.OrderStatusFailed, Reason: "late cancellation"}),
			expectError: true,
			errorType:   domain.ErrInvalidTransition,
		},
		{
			name:        "staff cannot regress funded order",
			from:        domain.OrderStatusDepositReceived,
			input:       advance(staff, domain.TransitionInput{Requested: domain.OrderStatusCreated, Reason: "restart the pipeline"}),
			expectError: true,
			errorType:   domain.ErrUnauthorized,
		},
		{
			name:  "admin regresses funded order",
			from:  domain.OrderStatusDepositReceived,
			input: advance(admin, domain.TransitionInput{Requested: domain.OrderStatusCreated, Reason: "deposit attributed to wrong order"}),
			check: func(t *testing.T, m *orderMocks, order *domain.PaymentOrder) {
				if order.Status != domain.OrderStatusCreated {
					t.Errorf("expected created, got %s", order.Status)
				}
			},
		},
		{
			name:        "reject short reason",
			from:        domain.OrderStatusCreated,
			input:       advance(staff, domain.TransitionInput{Requested: domain.OrderStatusWaitingDeposit, Reason: "ok"}),
			expectError: true,
			errorType:   domain.ErrValidationFailed,
		},
		{
			name:        "reject client actor",
			from:        domain.OrderStatusCreated,
			input:       advance(&domain.Actor{ID: "client-1", Role: domain.RoleClient}, domain.TransitionInput{Requested: domain.OrderStatusWaitingDeposit}),
			expectError: true,
			errorType:   domain.ErrUnauthorized,
		},
		{
			name:  "conflict when concurrent operator wins",
			from:  domain.OrderStatusCreated,
			input: advance(staff, domain.TransitionInput{Requested: domain.OrderStatusWaitingDeposit}),
			setupMocks: func(m *orderMocks) {
				m.orderRepo.UpdateTransitionFunc = func(ctx context.Context, tx usecase.Transaction, order *domain.PaymentOrder, expected domain.OrderStatus) (bool, error) {
					return false, nil
				}
			},
			expectError: true,
			errorType:   domain.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newOrderMocks()
			m.seedOrder(tt.from)
			if tt.setupMocks != nil {
				tt.setupMocks(m)
			}
			uc := m.usecase()

			order, err := uc.AdvanceOrder(context.Background(), tt.input)

			if tt.expectError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.errorType != nil && !errors.Is(err, tt.errorType) {
					t.Errorf("expected error %v, got %v", tt.errorType, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.check != nil {
				tt.check(t, m, order)
			}

			logs := m.auditRepo.Logs()
			if len(logs) != 1 {
				t.Fatalf("expected one audit entry, got %d", len(logs))
			}
			if logs[0].Action != domain.AuditActionChangeStatus {
				t.Errorf("expected change_status audit action, got %s", logs[0].Action)
			}
		})
	}
}
