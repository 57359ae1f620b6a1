package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/nexcard/backend/internal/middleware"
	"github.com/nexcard/backend/internal/models"
	"github.com/nexcard/backend/internal/services"
)

type SubscriptionHandler struct {
	subs services.SubscriptionService
}

func NewSubscriptionHandler(subs services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subs: subs}
}

func (h *SubscriptionHandler) GetSubscription(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	sub, err := h.subs.GetByUID(ctx, userID)
	if err != nil {
		if err == services.ErrSubscriptionNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("No subscription found"))
			return
		}
		log.Printf("[GetSubscription] user=%s error=%v", userID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to load subscription"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(sub))
}

// SelectPlan creates or switches the caller's plan. FREE activates
// immediately; paid plans stay pending until payment confirmation.
func (h *SubscriptionHandler) SelectPlan(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var req models.SelectPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	sub, err := h.subs.SelectPlan(ctx, userID, req.Plan)
	if err != nil {
		if err == services.ErrPlanBelowUsage {
			writeJSON(w, http.StatusConflict, models.NewErrorResponse("Plan limit is below your current card count"))
			return
		}
		log.Printf("[SelectPlan] user=%s plan=%s error=%v", userID, req.Plan, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to select plan"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(sub))
}

func (h *SubscriptionHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var req models.ConfirmPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	sub, err := h.subs.ConfirmPayment(ctx, userID, &req)
	if err != nil {
		switch err {
		case services.ErrSubscriptionNotFound:
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("No subscription found"))
		case services.ErrPlanBelowUsage:
			writeJSON(w, http.StatusConflict, models.NewErrorResponse("Plan limit is below your current card count"))
		default:
			log.Printf("[ConfirmPayment] user=%s error=%v", userID, err)
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to confirm payment"))
		}
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(sub))
}
