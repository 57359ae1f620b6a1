package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nexcard/backend/internal/middleware"
	"github.com/nexcard/backend/internal/models"
	"github.com/nexcard/backend/internal/services"
)

type ScannedHandler struct {
	scans services.ScannedService
	cards services.CardService
	subs  services.SubscriptionService
}

func NewScannedHandler(scans services.ScannedService, cards services.CardService, subs services.SubscriptionService) *ScannedHandler {
	return &ScannedHandler{
		scans: scans,
		cards: cards,
		subs:  subs,
	}
}

// SaveScannedCard adds a card link to the viewer's wallet. The wallet cap
// comes from the viewer's plan; viewers without a subscription record are
// uncapped.
func (h *ScannedHandler) SaveScannedCard(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusForbidden, models.NewErrorResponse("Sign up to save recently scanned cards"))
		return
	}

	var req models.SaveScannedRequest
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

	if _, err := h.cards.FindByLink(ctx, req.CardLink); err != nil {
		if err == services.ErrCardNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Card not found"))
			return
		}
		log.Printf("[SaveScanned] lookup link=%s error=%v", req.CardLink, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to save scanned card"))
		return
	}

	maxLimit := models.Unlimited
	if sub, err := h.subs.GetByUID(ctx, userID); err == nil {
		maxLimit = sub.Plan.ScanLimit()
	}

	scanned, err := h.scans.Add(ctx, userID, req.CardLink, maxLimit)
	if err != nil {
		log.Printf("[SaveScanned] user=%s error=%v", userID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to save scanned card"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]interface{}{
		"saved":         true,
		"scanned_cards": scanned,
	}))
}

// GetMyScannedCards lists the caller's wallet oldest-first. With a card_link
// query parameter it instead resolves that single card, which the scan UI
// uses before offering to save it.
func (h *ScannedHandler) GetMyScannedCards(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	if cardLink := r.URL.Query().Get("card_link"); cardLink != "" {
		card, err := h.cards.FindByLink(ctx, cardLink)
		if err != nil {
			if err == services.ErrCardNotFound {
				writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Card not found"))
				return
			}
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to fetch card"))
			return
		}
		writeJSON(w, http.StatusOK, models.NewSuccessResponse(card))
		return
	}

	scanned, err := h.scans.Get(ctx, userID)
	if err != nil {
		log.Printf("[GetScanned] user=%s error=%v", userID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list scanned cards"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]interface{}{
		"scanned_cards": scanned,
	}))
}

func (h *ScannedHandler) DeleteScannedCard(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	cardLink := chi.URLParam(r, "*")
	if cardLink == "" {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Card link is required"))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	if err := h.scans.Remove(ctx, userID, cardLink); err != nil {
		if err == services.ErrScanNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Card not found in your history"))
			return
		}
		log.Printf("[DeleteScanned] user=%s link=%s error=%v", userID, cardLink, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to remove scanned card"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]string{
		"message": "Card removed from recently scanned history",
	}))
}
