package handler

import (
	"net/http"

	"github.com/veltapay/custody/internal/adapter/http/dto"
	"github.com/veltapay/custody/internal/domain"
	"github.com/veltapay/custody/internal/usecase"
)

// AuditHandler serves the audit trail to operators.
type AuditHandler struct {
	auditUC *usecase.AuditUseCase
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(auditUC *usecase.AuditUseCase) *AuditHandler {
	return &AuditHandler{auditUC: auditUC}
}

// List lists audit entries filtered by actor, action and entity.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	if !actor.Role.CanReview() {
		writeError(w, http.StatusForbidden, "forbidden", domain.ErrUnauthorized.Error())
		return
	}

	filter := usecase.AuditFilter{
		ActorID:     r.URL.Query().Get("actor_id"),
		Action:      domain.AuditAction(r.URL.Query().Get("action")),
		EntityTable: r.URL.Query().Get("entity_table"),
		EntityID:    r.URL.Query().Get("entity_id"),
		Limit:       parseIntQuery(r, "limit", domain.DefaultPageSize),
		Offset:      parseIntQuery(r, "offset", 0),
	}

	logs, err := h.auditUC.List(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list audit entries", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AuditLogsFromDomain(logs))
}
