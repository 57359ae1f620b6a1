package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/nexcard/backend/internal/handlers"
	"github.com/nexcard/backend/internal/middleware"
	"github.com/nexcard/backend/internal/models"
	"github.com/nexcard/backend/internal/routes"
	"github.com/nexcard/backend/internal/services"
)

const testJWTSecret = "handler-test-secret"

// testEnv wires the full router against the in-memory services, with JWT auth
// so tests can mint their own tokens.
type testEnv struct {
	router *chi.Mux
	cards  *services.MemoryCardService
	subs   *services.MemorySubscriptionService
	scans  *services.MemoryScannedService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cards := services.NewMemoryCardService()
	subs := services.NewMemorySubscriptionService()
	scans := services.NewMemoryScannedService()
	profiles := services.NewMemoryProfileService()

	router := routes.New(routes.Deps{
		Auth:           middleware.JWTAuth(testJWTSecret),
		AllowedOrigins: []string{"*"},
		Cards:          handlers.NewCardHandler(cards, subs, nil),
		Scanned:        handlers.NewScannedHandler(scans, cards, subs),
		Subscriptions:  handlers.NewSubscriptionHandler(subs),
		Profiles:       handlers.NewProfileHandler(profiles),
		VCards:         handlers.NewVCardHandler(cards),
	})

	return &testEnv{router: router, cards: cards, subs: subs, scans: scans}
}

func mintToken(t *testing.T, userID string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"email":   userID + "@example.com",
		"exp":     time.Now().Add(time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return signed
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// apiResponse mirrors the response envelope with Data left raw so each test
// can decode it into the type it expects.
type apiResponse struct {
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Error   string            `json:"error"`
	Errors  map[string]string `json:"errors"`
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) apiResponse {
	t.Helper()

	var resp apiResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()

	resp := decodeResponse(t, rec)
	require.True(t, resp.Success, "expected success envelope, got error %q", resp.Error)
	require.NoError(t, json.Unmarshal(resp.Data, out))
}

// selectPlan provisions a subscription for uid through the API.
func (e *testEnv) selectPlan(t *testing.T, token string, plan models.Plan) {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/api/subscription/select", token, models.SelectPlanRequest{Plan: plan})
	require.Equal(t, http.StatusOK, rec.Code)
}

// createCard creates a card through the API and returns it.
func (e *testEnv) createCard(t *testing.T, token, fullName string) *models.Card {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/api/cards", token, models.CreateCardRequest{FullName: fullName})
	require.Equal(t, http.StatusCreated, rec.Code)

	var card models.Card
	decodeData(t, rec, &card)
	return &card
}
