package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/veltapay/custody/internal/adapter/http/dto"
	"github.com/veltapay/custody/internal/usecase"
)

// OnboardingHandler handles verification approvals.
type OnboardingHandler struct {
	onboardingUC *usecase.OnboardingUseCase
}

// NewOnboardingHandler creates a new OnboardingHandler.
func NewOnboardingHandler(onboardingUC *usecase.OnboardingUseCase) *OnboardingHandler {
	return &OnboardingHandler{onboardingUC: onboardingUC}
}

// Approve marks the owner verified and provisions their wallet.
func (h *OnboardingHandler) Approve(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	ownerID := chi.URLParam(r, "owner")
	if ownerID == "" {
		writeError(w, http.StatusBadRequest, "missing owner ID", "")
		return
	}

	var req dto.ApproveProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid approval request", err.Error())
		return
	}

	profile, err := h.onboardingUC.ApproveProfile(r.Context(), usecase.ApproveProfileInput{
		Actor:    actor,
		OwnerID:  ownerID,
		Currency: req.Currency,
		Reason:   req.Reason,
		Source:   "api",
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to approve profile", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ProfileFromDomain(profile))
}

// GetProfile returns the owner's verification profile.
func (h *OnboardingHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ownerID := chi.URLParam(r, "owner")
	if ownerID == "" {
		writeError(w, http.StatusBadRequest, "missing owner ID", "")
		return
	}

	profile, err := h.onboardingUC.GetProfile(r.Context(), ownerID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get profile", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ProfileFromDomain(profile))
}
