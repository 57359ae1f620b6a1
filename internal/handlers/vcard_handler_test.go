package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexcard/backend/internal/models"
)

func TestDownloadVCard(t *testing.T) {
	env := newTestEnv(t)
	token := mintToken(t, "owner")
	env.selectPlan(t, token, models.PlanFree)

	rec := env.do(t, http.MethodPost, "/api/cards", token, models.CreateCardRequest{
		FullName: "Jordan Smith",
		Company:  "Acme Corp",
		Email:    "jordan@example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var card models.Card
	decodeData(t, rec, &card)

	rec = env.do(t, http.MethodGet, "/api/vcard?cardId="+card.CardID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/vcard; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, fmt.Sprintf(`attachment; filename="%s.vcf"`, card.CardID), rec.Header().Get("Content-Disposition"))

	body := rec.Body.String()
	assert.Contains(t, body, "BEGIN:VCARD")
	assert.Contains(t, body, "FN:Jordan Smith")
	assert.Contains(t, body, "ORG:Acme Corp")
	assert.Contains(t, body, "EMAIL;TYPE=INTERNET:jordan@example.com")
	assert.Contains(t, body, "END:VCARD")
}

func TestDownloadVCardMissingID(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/vcard", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDownloadVCardUnknownCard(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/vcard?cardId=nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDownloadVCardDoesNotCountViews(t *testing.T) {
	env := newTestEnv(t)
	token := mintToken(t, "owner")
	env.selectPlan(t, token, models.PlanFree)
	card := env.createCard(t, token, "Jordan Smith")

	rec := env.do(t, http.MethodGet, "/api/vcard?cardId="+card.CardID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/cards/"+card.CardID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got models.Card
	decodeData(t, rec, &got)
	assert.Equal(t, int64(0), got.Views)
}
