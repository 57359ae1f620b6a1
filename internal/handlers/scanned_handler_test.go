package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexcard/backend/internal/models"
)

type scannedListResponse struct {
	Saved        bool                 `json:"saved"`
	ScannedCards []models.ScannedCard `json:"scanned_cards"`
}

func (e *testEnv) saveScan(t *testing.T, token, cardLink string) scannedListResponse {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/api/recently-scanned", token, models.SaveScannedRequest{CardLink: cardLink})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp scannedListResponse
	decodeData(t, rec, &resp)
	return resp
}

func walletLinks(list []models.ScannedCard) []string {
	links := make([]string, 0, len(list))
	for _, entry := range list {
		links = append(links, entry.CardLink)
	}
	return links
}

func TestSaveScannedCardRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/recently-scanned", "", models.SaveScannedRequest{CardLink: "card/abc"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSaveScannedCardUnknownLink(t *testing.T) {
	env := newTestEnv(t)
	token := mintToken(t, "viewer")

	rec := env.do(t, http.MethodPost, "/api/recently-scanned", token, models.SaveScannedRequest{CardLink: "card/nope"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSaveScannedCardValidation(t *testing.T) {
	env := newTestEnv(t)
	token := mintToken(t, "viewer")

	rec := env.do(t, http.MethodPost, "/api/recently-scanned", token, models.SaveScannedRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Contains(t, resp.Errors, "card_link")
}

func TestScannedWalletOrderingAndResave(t *testing.T) {
	env := newTestEnv(t)
	ownerToken := mintToken(t, "owner")
	env.selectPlan(t, ownerToken, models.PlanPro)

	a := env.createCard(t, ownerToken, "Card A")
	b := env.createCard(t, ownerToken, "Card B")

	viewerToken := mintToken(t, "viewer")
	env.saveScan(t, viewerToken, a.CardLink)
	resp := env.saveScan(t, viewerToken, b.CardLink)
	assert.Equal(t, []string{a.CardLink, b.CardLink}, walletLinks(resp.ScannedCards))

	// Re-saving A moves it to the newest slot without duplicating it.
	resp = env.saveScan(t, viewerToken, a.CardLink)
	assert.Equal(t, []string{b.CardLink, a.CardLink}, walletLinks(resp.ScannedCards))
}

func TestScannedWalletEvictsOldestAtPlanLimit(t *testing.T) {
	env := newTestEnv(t)
	ownerToken := mintToken(t, "owner")
	env.selectPlan(t, ownerToken, models.PlanPremium)

	limit := models.PlanFree.ScanLimit()
	links := make([]string, 0, limit+1)
	for i := 0; i <= limit; i++ {
		card := env.createCard(t, ownerToken, fmt.Sprintf("Card %d", i))
		links = append(links, card.CardLink)
	}

	viewerToken := mintToken(t, "viewer")
	env.selectPlan(t, viewerToken, models.PlanFree)

	var resp scannedListResponse
	for _, link := range links {
		resp = env.saveScan(t, viewerToken, link)
	}

	require.Len(t, resp.ScannedCards, limit)
	// The first scan fell off; the rest kept their order.
	assert.Equal(t, links[1:], walletLinks(resp.ScannedCards))
}

func TestGetMyScannedCards(t *testing.T) {
	env := newTestEnv(t)
	ownerToken := mintToken(t, "owner")
	env.selectPlan(t, ownerToken, models.PlanFree)
	card := env.createCard(t, ownerToken, "Jordan Smith")

	viewerToken := mintToken(t, "viewer")
	env.saveScan(t, viewerToken, card.CardLink)

	rec := env.do(t, http.MethodGet, "/api/recently-scanned/me", viewerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp scannedListResponse
	decodeData(t, rec, &resp)
	assert.Equal(t, []string{card.CardLink}, walletLinks(resp.ScannedCards))

	// Single-card resolution by link.
	rec = env.do(t, http.MethodGet, "/api/recently-scanned/me?card_link="+card.CardLink, viewerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got models.Card
	decodeData(t, rec, &got)
	assert.Equal(t, card.CardID, got.CardID)
}

func TestGetMyScannedCardsEmptyWallet(t *testing.T) {
	env := newTestEnv(t)
	token := mintToken(t, "viewer")

	rec := env.do(t, http.MethodGet, "/api/recently-scanned/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp scannedListResponse
	decodeData(t, rec, &resp)
	assert.Empty(t, resp.ScannedCards)
}

func TestDeleteScannedCard(t *testing.T) {
	env := newTestEnv(t)
	ownerToken := mintToken(t, "owner")
	env.selectPlan(t, ownerToken, models.PlanFree)
	a := env.createCard(t, ownerToken, "Card A")
	b := env.createCard(t, ownerToken, "Card B")

	viewerToken := mintToken(t, "viewer")
	env.saveScan(t, viewerToken, a.CardLink)
	env.saveScan(t, viewerToken, b.CardLink)

	rec := env.do(t, http.MethodDelete, "/api/recently-scanned/me/"+a.CardLink, viewerToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/recently-scanned/me", viewerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp scannedListResponse
	decodeData(t, rec, &resp)
	assert.Equal(t, []string{b.CardLink}, walletLinks(resp.ScannedCards))

	// Removing it again is a 404.
	rec = env.do(t, http.MethodDelete, "/api/recently-scanned/me/"+a.CardLink, viewerToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
