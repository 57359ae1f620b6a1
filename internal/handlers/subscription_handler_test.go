package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexcard/backend/internal/models"
)

func TestGetSubscriptionBeforeSelect(t *testing.T) {
	env := newTestEnv(t)
	token := mintToken(t, "user-1")

	rec := env.do(t, http.MethodGet, "/api/subscription", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSelectPlanFreeActivatesImmediately(t *testing.T) {
	env := newTestEnv(t)
	token := mintToken(t, "user-1")

	rec := env.do(t, http.MethodPost, "/api/subscription/select", token, models.SelectPlanRequest{Plan: models.PlanFree})
	require.Equal(t, http.StatusOK, rec.Code)

	var sub models.Subscription
	decodeData(t, rec, &sub)
	assert.Equal(t, models.PlanFree, sub.Plan)
	assert.Equal(t, models.SubscriptionActive, sub.Status)
	assert.Equal(t, 0, sub.CardsCreated)
}

func TestSelectPaidPlanStaysPendingUntilPayment(t *testing.T) {
	env := newTestEnv(t)
	token := mintToken(t, "user-1")

	rec := env.do(t, http.MethodPost, "/api/subscription/select", token, models.SelectPlanRequest{Plan: models.PlanPro})
	require.Equal(t, http.StatusOK, rec.Code)
	var sub models.Subscription
	decodeData(t, rec, &sub)
	assert.Equal(t, models.SubscriptionPending, sub.Status)

	rec = env.do(t, http.MethodPost, "/api/subscription/confirm-payment", token, models.ConfirmPaymentRequest{
		Plan:           models.PlanPro,
		PaymentGateway: "razorpay",
		PaymentID:      "pay_123",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &sub)
	assert.Equal(t, models.SubscriptionActive, sub.Status)
	assert.Equal(t, "razorpay", sub.PaymentGateway)
	assert.Equal(t, "pay_123", sub.PaymentID)
}

func TestSelectPlanRejectsUnknownPlan(t *testing.T) {
	env := newTestEnv(t)
	token := mintToken(t, "user-1")

	rec := env.do(t, http.MethodPost, "/api/subscription/select", token, map[string]string{"plan": "GOLD"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Contains(t, resp.Errors, "plan")
}

func TestConfirmPaymentValidation(t *testing.T) {
	env := newTestEnv(t)
	token := mintToken(t, "user-1")
	env.selectPlan(t, token, models.PlanPro)

	rec := env.do(t, http.MethodPost, "/api/subscription/confirm-payment", token, models.ConfirmPaymentRequest{Plan: models.PlanPro})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Contains(t, resp.Errors, "payment_gateway")
	assert.Contains(t, resp.Errors, "payment_id")
}

func TestConfirmPaymentWithoutSubscription(t *testing.T) {
	env := newTestEnv(t)
	token := mintToken(t, "user-1")

	rec := env.do(t, http.MethodPost, "/api/subscription/confirm-payment", token, models.ConfirmPaymentRequest{
		Plan:           models.PlanPro,
		PaymentGateway: "razorpay",
		PaymentID:      "pay_123",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDowngradeBelowUsageConflicts(t *testing.T) {
	env := newTestEnv(t)
	token := mintToken(t, "user-1")
	env.selectPlan(t, token, models.PlanPremium)

	// Create more cards than FREE allows, then try to downgrade.
	for i := 0; i <= models.PlanFree.CardLimit(); i++ {
		env.createCard(t, token, "Card")
	}

	rec := env.do(t, http.MethodPost, "/api/subscription/select", token, models.SelectPlanRequest{Plan: models.PlanFree})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// The existing plan is untouched.
	rec = env.do(t, http.MethodGet, "/api/subscription", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var sub models.Subscription
	decodeData(t, rec, &sub)
	assert.Equal(t, models.PlanPremium, sub.Plan)
}
