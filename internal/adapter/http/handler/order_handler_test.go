package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/veltapay/custody/internal/adapter/http/dto"
	"github.com/veltapay/custody/internal/domain"
	"github.com/veltapay/custody/internal/usecase"
)

type orderServiceStub struct {
	createFn  func(ctx context.Context, input usecase.CreateOrderInput) (*domain.PaymentOrder, error)
	advanceFn func(ctx context.Context, input usecase.AdvanceOrderInput) (*domain.PaymentOrder, error)
	getFn     func(ctx context.Context, id string) (*domain.PaymentOrder, error)
	listFn    func(ctx context.Context, filter usecase.OrderFilter) ([]*domain.PaymentOrder, error)
}

func (s *orderServiceStub) CreateOrder(ctx context.Context, input usecase.CreateOrderInput) (*domain.PaymentOrder, error) {
	return s.createFn(ctx, input)
}

func (s *orderServiceStub) AdvanceOrder(ctx context.Context, input usecase.AdvanceOrderInput) (*domain.PaymentOrder, error) {
	return s.advanceFn(ctx, input)
}

func (s *orderServiceStub) GetOrder(ctx context.Context, id string) (*domain.PaymentOrder, error) {
	return s.getFn(ctx, id)
}

func (s *orderServiceStub) ListOrders(ctx context.Context, filter usecase.OrderFilter) ([]*domain.PaymentOrder, error) {
	return s.listFn(ctx, filter)
}

func orderBody() []byte {
	body, _ := json.Marshal(dto.CreateOrderRequest{
		OrderType:      "payout",
		Rail:           "swift",
		OriginAmount:   "1000",
		OriginCurrency: "USD",
		BeneficiaryRef: "ben-1",
	})
	return body
}

func TestOrderHandler_Create(t *testing.T) {
	var captured usecase.CreateOrderInput
	handler := NewOrderHandler(&orderServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateOrderInput) (*domain.PaymentOrder, error) {
			captured = input
			return &domain.PaymentOrder{ID: "ord-1", Status: domain.OrderStatusCreated}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader(orderBody()))
	req = withActor(req, &domain.Actor{ID: "client-1", Role: domain.RoleClient})
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.OwnerID != "client-1" {
		t.Errorf("owner must come from the actor, got %q", captured.OwnerID)
	}
	if captured.Manual {
		t.Error("direct create must not be manual")
	}
	if !captured.OriginAmount.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("expected amount 1000, got %s", captured.OriginAmount)
	}
}

func TestOrderHandler_CreateManual_OwnerFromBody(t *testing.T) {
	var captured usecase.CreateOrderInput
	handler := NewOrderHandler(&orderServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateOrderInput) (*domain.PaymentOrder, error) {
			captured = input
			return &domain.PaymentOrder{ID: "ord-1", Status: domain.OrderStatusCreated}, nil
		},
	})

	body, _ := json.Marshal(dto.CreateOrderRequest{
		OwnerID:        "client-2",
		OrderType:      "payout",
		Rail:           "sepa",
		OriginAmount:   "500",
		OriginCurrency: "EUR",
	})
	req := httptest.NewRequest(http.MethodPost, "/orders/manual", bytes.NewReader(body))
	req = withActor(req, &domain.Actor{ID: "admin-1", Role: domain.RoleAdmin})
	rec := httptest.NewRecorder()

	handler.CreateManual(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if !captured.Manual {
		t.Error("expected manual flag set")
	}
	if captured.OwnerID != "client-2" {
		t.Errorf("manual path takes owner from body, got %q", captured.OwnerID)
	}
}

func TestOrderHandler_Create_InvalidAmount(t *testing.T) {
	handler := NewOrderHandler(&orderServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateOrderInput) (*domain.PaymentOrder, error) {
			t.Fatal("use case must not be reached on invalid input")
			return nil, nil
		},
	})

	body, _ := json.Marshal(dto.CreateOrderRequest{
		OrderType:      "payout",
		Rail:           "swift",
		OriginAmount:   "not-a-number",
		OriginCurrency: "USD",
	})
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader(body))
	req = withActor(req, &domain.Actor{ID: "client-1", Role: domain.RoleClient})
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestOrderHandler_UpdateStatus(t *testing.T) {
	var captured usecase.AdvanceOrderInput
	handler := NewOrderHandler(&orderServiceStub{
		advanceFn: func(ctx context.Context, input usecase.AdvanceOrderInput) (*domain.PaymentOrder, error) {
			captured = input
			return &domain.PaymentOrder{ID: input.OrderID, Status: input.Transition.Requested}, nil
		},
	})

	body, _ := json.Marshal(dto.AdvanceOrderRequest{
		Status:          "processing",
		Rate:            "0.92",
		ConvertedAmount: "920",
		Fee:             "15",
		Reason:          "terms agreed with desk",
	})
	req := httptest.NewRequest(http.MethodPost, "/orders/ord-1/status", bytes.NewReader(body))
	req = withActor(req, &domain.Actor{ID: "staff-1", Role: domain.RoleStaff})
	req = withURLParam(req, "id", "ord-1")
	rec := httptest.NewRecorder()

	handler.UpdateStatus(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.OrderID != "ord-1" {
		t.Errorf("expected ord-1, got %q", captured.OrderID)
	}
	if captured.Transition.Requested != domain.OrderStatusProcessing {
		t.Errorf("expected processing, got %s", captured.Transition.Requested)
	}
	if !captured.Transition.Rate.Equal(decimal.NewFromFloat(0.92)) {
		t.Errorf("expected rate 0.92, got %s", captured.Transition.Rate)
	}
}

func TestOrderHandler_UpdateStatus_MissingReason(t *testing.T) {
	handler := NewOrderHandler(&orderServiceStub{
		advanceFn: func(ctx context.Context, input usecase.AdvanceOrderInput) (*domain.PaymentOrder, error) {
			t.Fatal("use case must not be reached on invalid input")
			return nil, nil
		},
	})

	body, _ := json.Marshal(dto.AdvanceOrderRequest{Status: "waiting_deposit"})
	req := httptest.NewRequest(http.MethodPost, "/orders/ord-1/status", bytes.NewReader(body))
	req = withActor(req, &domain.Actor{ID: "staff-1", Role: domain.RoleStaff})
	req = withURLParam(req, "id", "ord-1")
	rec := httptest.NewRecorder()

	handler.UpdateStatus(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestOrderHandler_UpdateStatus_InvalidTransition(t *testing.T) {
	handler := NewOrderHandler(&orderServiceStub{
		advanceFn: func(ctx context.Context, input usecase.AdvanceOrderInput) (*domain.PaymentOrder, error) {
			return nil, domain.ErrInvalidTransition
		},
	})

	body, _ := json.Marshal(dto.AdvanceOrderRequest{Status: "completed", Reason: "settled without proof"})
	req := httptest.NewRequest(http.MethodPost, "/orders/ord-1/status", bytes.NewReader(body))
	req = withActor(req, &domain.Actor{ID: "staff-1", Role: domain.RoleStaff})
	req = withURLParam(req, "id", "ord-1")
	rec := httptest.NewRecorder()

	handler.UpdateStatus(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestOrderHandler_List_Filters(t *testing.T) {
	var captured usecase.OrderFilter
	handler := NewOrderHandler(&orderServiceStub{
		listFn: func(ctx context.Context, filter usecase.OrderFilter) ([]*domain.PaymentOrder, error) {
			captured = filter
			return []*domain.PaymentOrder{}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/orders?status=processing&rail=swift&search=MT103", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured.Status != domain.OrderStatusProcessing || captured.Rail != "swift" || captured.Search != "MT103" {
		t.Errorf("unexpected filter: %+v", captured)
	}
}
