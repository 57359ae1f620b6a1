package models

import "time"

type Plan string

const (
	PlanFree    Plan = "FREE"
	PlanPro     Plan = "PRO"
	PlanPremium Plan = "PREMIUM"
)

// Unlimited is the sentinel limit for plans with no cap.
const Unlimited = -1

const (
	SubscriptionActive  = "active"
	SubscriptionPending = "pending"
)

func (p Plan) Valid() bool {
	switch p {
	case PlanFree, PlanPro, PlanPremium:
		return true
	}
	return false
}

// CardLimit is the maximum number of cards the plan may own.
func (p Plan) CardLimit() int {
	switch p {
	case PlanFree:
		return 10
	case PlanPro:
		return 50
	default:
		return Unlimited
	}
}

// ScanLimit is the maximum size of the recently-scanned wallet.
func (p Plan) ScanLimit() int {
	switch p {
	case PlanFree:
		return 10
	case PlanPro:
		return 50
	default:
		return Unlimited
	}
}

// Subscription tracks a user's plan tier and how many cards they currently
// own. CardsCreated never exceeds the plan's card limit except transiently
// during the create-then-rollback window in card creation.
type Subscription struct {
	UID            string    `json:"uid" firestore:"uid"`
	Plan           Plan      `json:"plan" firestore:"plan"`
	Status         string    `json:"status" firestore:"status"`
	CardsCreated   int       `json:"cards_created" firestore:"cardsCreated"`
	PaymentGateway string    `json:"payment_gateway,omitempty" firestore:"paymentGateway,omitempty"`
	PaymentID      string    `json:"payment_id,omitempty" firestore:"paymentId,omitempty"`
	UpdatedAt      time.Time `json:"updated_at" firestore:"updatedAt"`
}

type SelectPlanRequest struct {
	Plan Plan `json:"plan"`
}

func (r *SelectPlanRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if !r.Plan.Valid() {
		errors["plan"] = "Plan must be one of FREE, PRO, PREMIUM"
	}
	return errors
}

type ConfirmPaymentRequest struct {
	Plan           Plan   `json:"plan"`
	PaymentGateway string `json:"payment_gateway"`
	PaymentID      string `json:"payment_id"`
}

func (r *ConfirmPaymentRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if !r.Plan.Valid() {
		errors["plan"] = "Plan must be one of FREE, PRO, PREMIUM"
	}
	if r.PaymentGateway == "" {
		errors["payment_gateway"] = "Payment gateway is required"
	}
	if r.PaymentID == "" {
		errors["payment_id"] = "Payment ID is required"
	}
	return errors
}
