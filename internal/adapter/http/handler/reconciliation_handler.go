package handler

import (
	"net/http"

	"github.com/veltapay/custody/internal/adapter/http/dto"
	"github.com/veltapay/custody/internal/domain"
	"github.com/veltapay/custody/internal/usecase"
)

// ReconciliationHandler exposes the ledger consistency check to operators.
type ReconciliationHandler struct {
	reconUC *usecase.ReconciliationUseCase
}

// NewReconciliationHandler creates a new ReconciliationHandler.
func NewReconciliationHandler(reconUC *usecase.ReconciliationUseCase) *ReconciliationHandler {
	return &ReconciliationHandler{reconUC: reconUC}
}

// Check runs the full consistency check. This folds every wallet, so it is an
// operator tool, not a hot path.
func (h *ReconciliationHandler) Check(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	if !actor.Role.CanReview() {
		writeError(w, http.StatusForbidden, "forbidden", domain.ErrUnauthorized.Error())
		return
	}

	report, err := h.reconUC.CheckConsistency(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "consistency check failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ConsistencyFromReport(report))
}
