package services

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/nexcard/backend/internal/models"
)

const subscriptionsCollection = "subscriptions"

// FirestoreSubscriptionService stores one subscription document per user
// (doc ID = uid). All counter mutations run inside Firestore transactions so
// the limit check and the increment are a single atomic read-modify-write.
type FirestoreSubscriptionService struct {
	client  *firestore.Client
	subsCol *firestore.CollectionRef
}

func NewFirestoreSubscriptionService(client *firestore.Client) *FirestoreSubscriptionService {
	return &FirestoreSubscriptionService{
		client:  client,
		subsCol: client.Collection(subscriptionsCollection),
	}
}

func (s *FirestoreSubscriptionService) GetByUID(ctx context.Context, uid string) (*models.Subscription, error) {
	snap, err := s.subsCol.Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}

	var sub models.Subscription
	if err := snap.DataTo(&sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *FirestoreSubscriptionService) SelectPlan(ctx context.Context, uid string, plan models.Plan) (*models.Subscription, error) {
	ref := s.subsCol.Doc(uid)

	var result *models.Subscription
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		sub := &models.Subscription{UID: uid, Plan: models.PlanFree}
		snap, err := tx.Get(ref)
		if err != nil && status.Code(err) != codes.NotFound {
			return err
		}
		if err == nil {
			if err := snap.DataTo(sub); err != nil {
				return err
			}
		}

		if limit := plan.CardLimit(); limit != models.Unlimited && sub.CardsCreated > limit {
			return ErrPlanBelowUsage
		}

		sub.UID = uid
		sub.Plan = plan
		sub.Status = models.SubscriptionPending
		if plan == models.PlanFree {
			sub.Status = models.SubscriptionActive
		}
		sub.UpdatedAt = time.Now().UTC()

		result = sub
		return tx.Set(ref, sub)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *FirestoreSubscriptionService) ConfirmPayment(ctx context.Context, uid string, req *models.ConfirmPaymentRequest) (*models.Subscription, error) {
	ref := s.subsCol.Doc(uid)

	var result *models.Subscription
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return ErrSubscriptionNotFound
			}
			return err
		}

		var sub models.Subscription
		if err := snap.DataTo(&sub); err != nil {
			return err
		}

		if limit := req.Plan.CardLimit(); limit != models.Unlimited && sub.CardsCreated > limit {
			return ErrPlanBelowUsage
		}

		sub.Plan = req.Plan
		sub.Status = models.SubscriptionActive
		sub.PaymentGateway = req.PaymentGateway
		sub.PaymentID = req.PaymentID
		sub.UpdatedAt = time.Now().UTC()

		result = &sub
		return tx.Set(ref, &sub)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// IncrementCardCount is the sole limit-enforcement point for card creation.
// The transaction re-reads the counter on contention, so two racing creates
// for the same user cannot both slip under the limit.
func (s *FirestoreSubscriptionService) IncrementCardCount(ctx context.Context, uid string) error {
	ref := s.subsCol.Doc(uid)

	return s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return ErrSubscriptionNotFound
			}
			return err
		}

		var sub models.Subscription
		if err := snap.DataTo(&sub); err != nil {
			return err
		}

		if limit := sub.Plan.CardLimit(); limit != models.Unlimited && sub.CardsCreated+1 > limit {
			return ErrCardLimitReached
		}

		return tx.Update(ref, []firestore.Update{
			{Path: "cardsCreated", Value: sub.CardsCreated + 1},
			{Path: "updatedAt", Value: time.Now().UTC()},
		})
	})
}

func (s *FirestoreSubscriptionService) DecrementCardCount(ctx context.Context, uid string) error {
	ref := s.subsCol.Doc(uid)

	return s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return ErrSubscriptionNotFound
			}
			return err
		}

		var sub models.Subscription
		if err := snap.DataTo(&sub); err != nil {
			return err
		}

		next := sub.CardsCreated
		if next > 0 {
			next--
		}
		return tx.Update(ref, []firestore.Update{
			{Path: "cardsCreated", Value: next},
			{Path: "updatedAt", Value: time.Now().UTC()},
		})
	})
}
