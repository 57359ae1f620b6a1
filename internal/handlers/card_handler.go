package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nexcard/backend/internal/middleware"
	"github.com/nexcard/backend/internal/models"
	"github.com/nexcard/backend/internal/services"
)

type CardHandler struct {
	cards services.CardService
	subs  services.SubscriptionService
	cache *services.CardCache
}

// cache may be nil when no Redis is configured.
func NewCardHandler(cards services.CardService, subs services.SubscriptionService, cache *services.CardCache) *CardHandler {
	return &CardHandler{
		cards: cards,
		subs:  subs,
		cache: cache,
	}
}

// CreateCard creates the card optimistically, then enforces the plan limit
// through the subscription counter's atomic increment. On a failed increment
// the card is deleted again (best effort).
func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var req models.CreateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		log.Printf("[CreateCard] Validation errors: %v", errors)
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	if _, err := h.subs.GetByUID(ctx, userID); err != nil {
		if err == services.ErrSubscriptionNotFound {
			writeJSON(w, http.StatusForbidden, models.NewErrorResponse("No active subscription found"))
			return
		}
		log.Printf("[CreateCard] subscription lookup user=%s error=%v", userID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to create card"))
		return
	}

	card, err := h.cards.Create(ctx, userID, &req)
	if err != nil {
		log.Printf("[CreateCard] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to create card"))
		return
	}

	if err := h.subs.IncrementCardCount(ctx, userID); err != nil {
		// Compensating delete. If it fails we accept the orphaned card; it is
		// not counted against the quota.
		if delErr := h.cards.Delete(ctx, userID, card.CardID); delErr != nil {
			log.Printf("[CreateCard] rollback delete failed card=%s error=%v", card.CardID, delErr)
		}

		switch err {
		case services.ErrCardLimitReached:
			writeJSON(w, http.StatusForbidden, models.NewErrorResponse("Card limit reached. Upgrade your plan."))
		case services.ErrSubscriptionNotFound:
			writeJSON(w, http.StatusForbidden, models.NewErrorResponse("No active subscription found"))
		default:
			log.Printf("[CreateCard] increment user=%s error=%v", userID, err)
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to create card"))
		}
		return
	}

	log.Printf("[CreateCard] Card created: %s", card.CardID)
	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(card))
}

func (h *CardHandler) GetMyCards(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	cards, err := h.cards.ListByOwner(ctx, userID)
	if err != nil {
		log.Printf("[GetMyCards] user=%s error=%v", userID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list cards"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(cards))
}

func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	cardID := chi.URLParam(r, "cardId")

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	card, err := h.cards.GetByID(ctx, cardID)
	if err != nil {
		if err == services.ErrCardNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Card not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to get card"))
		return
	}

	if card.OwnerUID != userID {
		writeJSON(w, http.StatusForbidden, models.NewErrorResponse("Access denied"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(card))
}

func (h *CardHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	cardID := chi.URLParam(r, "cardId")

	var req models.UpdateCardRequest
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

	card, err := h.cards.Update(ctx, userID, cardID, &req)
	if err != nil {
		// Ownership mismatch reads as not-found so card existence never leaks.
		if err == services.ErrCardNotFound || err == services.ErrUnauthorized {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Card not found"))
			return
		}
		log.Printf("[UpdateCard] card=%s error=%v", cardID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to update card"))
		return
	}

	if h.cache != nil {
		h.cache.Invalidate(ctx, card.CardLink)
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(card))
}

// DeleteCard removes the card, then decrements the owner's counter. The pair
// is not atomic; a crash in between leaves the counter overstated.
func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	cardID := chi.URLParam(r, "cardId")

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	if err := h.cards.Delete(ctx, userID, cardID); err != nil {
		if err == services.ErrCardNotFound || err == services.ErrUnauthorized {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Card not found"))
			return
		}
		log.Printf("[DeleteCard] card=%s error=%v", cardID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to delete card"))
		return
	}

	if err := h.subs.DecrementCardCount(ctx, userID); err != nil {
		log.Printf("[DeleteCard] decrement user=%s error=%v", userID, err)
	}
	if h.cache != nil {
		h.cache.Invalidate(ctx, models.CardLinkFor(cardID))
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]bool{"deleted": true}))
}

// GetPublicCard serves the unauthenticated card fetch. Every hit bumps the
// view counter; the increment is best-effort relative to the response.
func (h *CardHandler) GetPublicCard(w http.ResponseWriter, r *http.Request) {
	cardLink := chi.URLParam(r, "*")
	if cardLink == "" {
		writeJSON(w, http.StatusNotFound, models.NewErrorResponse("No link provided"))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	card, cached := h.lookupCard(ctx, cardLink)
	if card == nil {
		writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Card not found"))
		return
	}

	if err := h.cards.IncrementViews(ctx, card.CardID); err != nil {
		log.Printf("[PublicCard] view increment card=%s error=%v", card.CardID, err)
	} else if !cached {
		card.Views++
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(card))
}

// lookupCard consults the cache first, then the store. The bool reports
// whether the returned card came from the cache.
func (h *CardHandler) lookupCard(ctx context.Context, cardLink string) (*models.Card, bool) {
	if h.cache != nil {
		if card, ok := h.cache.Get(ctx, cardLink); ok {
			return card, true
		}
	}

	card, err := h.cards.FindByLink(ctx, cardLink)
	if err != nil {
		if err != services.ErrCardNotFound {
			log.Printf("[PublicCard] lookup link=%s error=%v", cardLink, err)
		}
		return nil, false
	}

	if h.cache != nil {
		h.cache.Set(ctx, card)
	}
	return card, false
}
