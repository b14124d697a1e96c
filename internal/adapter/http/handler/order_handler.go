package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/veltapay/custody/internal/adapter/http/dto"
	"github.com/veltapay/custody/internal/domain"
	"github.com/veltapay/custody/internal/usecase"
)

// OrderService defines the payment order operations the handler exposes.
type OrderService interface {
	CreateOrder(ctx context.Context, input usecase.CreateOrderInput) (*domain.PaymentOrder, error)
	AdvanceOrder(ctx context.Context, input usecase.AdvanceOrderInput) (*domain.PaymentOrder, error)
	GetOrder(ctx context.Context, id string) (*domain.PaymentOrder, error)
	ListOrders(ctx context.Context, filter usecase.OrderFilter) ([]*domain.PaymentOrder, error)
}

// OrderHandler handles payment order HTTP requests.
type OrderHandler struct {
	orderUC OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderUC OrderService) *OrderHandler {
	return &OrderHandler{orderUC: orderUC}
}

// Create creates a new payment order owned by the authenticated actor.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, false)
}

// CreateManual creates an order on behalf of a client. Admin only; the owner
// comes from the request body.
func (h *OrderHandler) CreateManual(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, true)
}

func (h *OrderHandler) create(w http.ResponseWriter, r *http.Request, manual bool) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req dto.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(actor, manual)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order request", err.Error())
		return
	}

	order, err := h.orderUC.CreateOrder(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create order", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.OrderFromDomain(order))
}

// UpdateStatus applies one status transition to an order.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing order ID", "")
		return
	}

	var req dto.AdvanceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	transition, err := req.ToTransitionInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid transition request", err.Error())
		return
	}

	order, err := h.orderUC.AdvanceOrder(r.Context(), usecase.AdvanceOrderInput{
		Actor:      actor,
		OrderID:    id,
		Transition: transition,
		Source:     "api",
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to advance order", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.OrderFromDomain(order))
}

// Get retrieves an order by ID.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing order ID", "")
		return
	}

	order, err := h.orderUC.GetOrder(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get order", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.OrderFromDomain(order))
}

// List lists orders filtered by owner, status, rail and reference search.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := usecase.OrderFilter{
		OwnerID: r.URL.Query().Get("owner_id"),
		Status:  domain.OrderStatus(r.URL.Query().Get("status")),
		Rail:    r.URL.Query().Get("rail"),
		Search:  r.URL.Query().Get("search"),
		Limit:   parseIntQuery(r, "limit", domain.DefaultPageSize),
		Offset:  parseIntQuery(r, "offset", 0),
	}

	orders, err := h.orderUC.ListOrders(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list orders", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.OrdersFromDomain(orders))
}
