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

// TransferService defines the transfer operations the handler exposes.
type TransferService interface {
	CreateTransfer(ctx context.Context, input usecase.CreateTransferInput) (*domain.Transfer, error)
	CompleteTransfer(ctx context.Context, input usecase.SettleTransferInput) (*domain.Transfer, error)
	FailTransfer(ctx context.Context, input usecase.SettleTransferInput) (*domain.Transfer, error)
	GetTransfer(ctx context.Context, id string) (*domain.Transfer, error)
	ListTransfers(ctx context.Context, filter usecase.TransferFilter) ([]*domain.Transfer, error)
}

// TransferHandler handles transfer-related HTTP requests.
type TransferHandler struct {
	transferUC TransferService
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transferUC TransferService) *TransferHandler {
	return &TransferHandler{transferUC: transferUC}
}

// Create creates a new transfer for the authenticated owner.
func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req dto.CreateTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(actor.ID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid transfer request", err.Error())
		return
	}

	transfer, err := h.transferUC.CreateTransfer(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create transfer", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransferFromDomain(transfer))
}

// Complete confirms settlement of a pending transfer.
func (h *TransferHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.settle(w, r, h.transferUC.CompleteTransfer)
}

// Fail voids a pending transfer.
func (h *TransferHandler) Fail(w http.ResponseWriter, r *http.Request) {
	h.settle(w, r, h.transferUC.FailTransfer)
}

func (h *TransferHandler) settle(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, input usecase.SettleTransferInput) (*domain.Transfer, error),
) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transfer ID", "")
		return
	}

	var req dto.SettleTransferRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
			return
		}
	}

	transfer, err := op(r.Context(), usecase.SettleTransferInput{
		Actor:      actor,
		TransferID: id,
		Reason:     req.Reason,
		Source:     "api",
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to settle transfer", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransferFromDomain(transfer))
}

// Get retrieves a transfer by ID.
func (h *TransferHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transfer ID", "")
		return
	}

	transfer, err := h.transferUC.GetTransfer(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get transfer", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransferFromDomain(transfer))
}

// List lists transfers filtered by owner, status and kind.
func (h *TransferHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := usecase.TransferFilter{
		OwnerID: r.URL.Query().Get("owner_id"),
		Status:  domain.TransferStatus(r.URL.Query().Get("status")),
		Kind:    domain.TransferKind(r.URL.Query().Get("kind")),
		Limit:   parseIntQuery(r, "limit", domain.DefaultPageSize),
		Offset:  parseIntQuery(r, "offset", 0),
	}

	transfers, err := h.transferUC.ListTransfers(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list transfers", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransfersFromDomain(transfers))
}
