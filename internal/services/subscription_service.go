package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/nexcard/backend/internal/models"
)

var (
	ErrSubscriptionNotFound = errors.New("no active subscription found")
	ErrCardLimitReached     = errors.New("card limit reached for plan")
	ErrPlanBelowUsage       = errors.New("plan limit is below current card count")
)

// SubscriptionService tracks plan tier and card count per user.
// IncrementCardCount is the single place the card limit is enforced and must
// be atomic with respect to concurrent creations by the same user.
type SubscriptionService interface {
	GetByUID(ctx context.Context, uid string) (*models.Subscription, error)
	SelectPlan(ctx context.Context, uid string, plan models.Plan) (*models.Subscription, error)
	ConfirmPayment(ctx context.Context, uid string, req *models.ConfirmPaymentRequest) (*models.Subscription, error)
	IncrementCardCount(ctx context.Context, uid string) error
	DecrementCardCount(ctx context.Context, uid string) error
}

type MemorySubscriptionService struct {
	mu   sync.RWMutex
	subs map[string]*models.Subscription // uid -> subscription
}

func NewMemorySubscriptionService() *MemorySubscriptionService {
	return &MemorySubscriptionService{
		subs: make(map[string]*models.Subscription),
	}
}

func (s *MemorySubscriptionService) GetByUID(_ context.Context, uid string) (*models.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sub, exists := s.subs[uid]
	if !exists {
		return nil, ErrSubscriptionNotFound
	}
	return copySubscription(sub), nil
}

func (s *MemorySubscriptionService) SelectPlan(_ context.Context, uid string, plan models.Plan) (*models.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, exists := s.subs[uid]
	if !exists {
		sub = &models.Subscription{UID: uid}
		s.subs[uid] = sub
	}

	if limit := plan.CardLimit(); limit != models.Unlimited && sub.CardsCreated > limit {
		return nil, ErrPlanBelowUsage
	}

	sub.Plan = plan
	sub.Status = models.SubscriptionPending
	if plan == models.PlanFree {
		sub.Status = models.SubscriptionActive
	}
	sub.UpdatedAt = time.Now()
	return copySubscription(sub), nil
}

func (s *MemorySubscriptionService) ConfirmPayment(_ context.Context, uid string, req *models.ConfirmPaymentRequest) (*models.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, exists := s.subs[uid]
	if !exists {
		return nil, ErrSubscriptionNotFound
	}

	if limit := req.Plan.CardLimit(); limit != models.Unlimited && sub.CardsCreated > limit {
		return nil, ErrPlanBelowUsage
	}

	sub.Plan = req.Plan
	sub.Status = models.SubscriptionActive
	sub.PaymentGateway = req.PaymentGateway
	sub.PaymentID = req.PaymentID
	sub.UpdatedAt = time.Now()
	return copySubscription(sub), nil
}

// IncrementCardCount performs the check-and-increment under the write lock,
// so concurrent creations for the same user serialize here.
func (s *MemorySubscriptionService) IncrementCardCount(_ context.Context, uid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, exists := s.subs[uid]
	if !exists {
		return ErrSubscriptionNotFound
	}

	if limit := sub.Plan.CardLimit(); limit != models.Unlimited && sub.CardsCreated+1 > limit {
		return ErrCardLimitReached
	}

	sub.CardsCreated++
	sub.UpdatedAt = time.Now()
	return nil
}

func (s *MemorySubscriptionService) DecrementCardCount(_ context.Context, uid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, exists := s.subs[uid]
	if !exists {
		return ErrSubscriptionNotFound
	}

	if sub.CardsCreated > 0 {
		sub.CardsCreated--
	}
	sub.UpdatedAt = time.Now()
	return nil
}

func copySubscription(sub *models.Subscription) *models.Subscription {
	c := *sub
	return &c
}
