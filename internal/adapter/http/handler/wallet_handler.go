package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/veltapay/custody/internal/adapter/http/dto"
	"github.com/veltapay/custody/internal/usecase"
)

// WalletHandler serves derived wallet state: balances and ledger entries.
type WalletHandler struct {
	ledgerUC   *usecase.LedgerUseCase
	walletRepo usecase.WalletRepository
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(ledgerUC *usecase.LedgerUseCase, walletRepo usecase.WalletRepository) *WalletHandler {
	return &WalletHandler{ledgerUC: ledgerUC, walletRepo: walletRepo}
}

// Balance returns the owner's wallet balance derived from the ledger. With an
// `at` query parameter (RFC 3339) the fold is bounded by that time.
func (h *WalletHandler) Balance(w http.ResponseWriter, r *http.Request) {
	ownerID := chi.URLParam(r, "owner")
	if ownerID == "" {
		writeError(w, http.StatusBadRequest, "missing owner ID", "")
		return
	}

	wallet, err := h.walletRepo.FirstByOwner(r.Context(), ownerID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to resolve wallet", err.Error())
		return
	}

	resp := dto.BalanceResponse{
		WalletID: wallet.ID,
		OwnerID:  wallet.OwnerID,
		Currency: wallet.Currency,
	}

	if atParam := r.URL.Query().Get("at"); atParam != "" {
		at, perr := time.Parse(time.RFC3339, atParam)
		if perr != nil {
			writeError(w, http.StatusBadRequest, "invalid at parameter", perr.Error())
			return
		}

		balance, err := h.ledgerUC.BalanceAt(r.Context(), wallet.ID, at)
		if err != nil {
			writeError(w, mapDomainError(err), "failed to compute balance", err.Error())
			return
		}

		resp.Balance = balance.String()
		resp.AsOf = &at
		writeJSON(w, http.StatusOK, resp)
		return
	}

	balance, err := h.ledgerUC.CachedBalance(r.Context(), wallet.ID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compute balance", err.Error())
		return
	}

	resp.Balance = balance.String()
	writeJSON(w, http.StatusOK, resp)
}

// Entries lists the owner's ledger entries, newest first.
func (h *WalletHandler) Entries(w http.ResponseWriter, r *http.Request) {
	ownerID := chi.URLParam(r, "owner")
	if ownerID == "" {
		writeError(w, http.StatusBadRequest, "missing owner ID", "")
		return
	}

	wallet, err := h.walletRepo.FirstByOwner(r.Context(), ownerID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to resolve wallet", err.Error())
		return
	}

	entries, err := h.ledgerUC.ListEntries(r.Context(), usecase.ListEntriesInput{
		WalletID: wallet.ID,
		Limit:    parseIntQuery(r, "limit", 0),
		Offset:   parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list entries", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EntriesFromDomain(entries))
}
