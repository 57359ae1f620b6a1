package handlers

import (
	"fmt"
	"net/http"

	"github.com/nexcard/backend/internal/models"
	"github.com/nexcard/backend/internal/services"
)

type VCardHandler struct {
	cards services.CardService
}

func NewVCardHandler(cards services.CardService) *VCardHandler {
	return &VCardHandler{cards: cards}
}

// DownloadVCard serves a card as a .vcf attachment. Public, like the card
// page itself, but does not count as a view.
func (h *VCardHandler) DownloadVCard(w http.ResponseWriter, r *http.Request) {
	cardID := r.URL.Query().Get("cardId")
	if cardID == "" {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("cardId query parameter is required"))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	card, err := h.cards.GetByID(ctx, cardID)
	if err != nil {
		if err == services.ErrCardNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Card not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to build vCard"))
		return
	}

	vcf := services.BuildVCard(card)

	w.Header().Set("Content-Type", "text/vcard; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.vcf"`, card.CardID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(vcf))
}
