package services

import (
	"context"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/nexcard/backend/internal/models"
)

const cardsCollection = "cards"

type FirestoreCardService struct {
	client   *firestore.Client
	cardsCol *firestore.CollectionRef
}

func NewFirestoreCardService(client *firestore.Client) *FirestoreCardService {
	return &FirestoreCardService{
		client:   client,
		cardsCol: client.Collection(cardsCollection),
	}
}

func (s *FirestoreCardService) Create(ctx context.Context, ownerUID string, req *models.CreateCardRequest) (*models.Card, error) {
	now := time.Now().UTC()
	cardID := uuid.New().String()
	card := &models.Card{
		CardID:      cardID,
		OwnerUID:    ownerUID,
		CardLink:    models.CardLinkFor(cardID),
		Views:       0,
		FullName:    req.FullName,
		Designation: req.Designation,
		Company:     req.Company,
		Bio:         req.Bio,
		Phone:       req.Phone,
		Email:       req.Email,
		Website:     req.Website,
		LinkedIn:    req.LinkedIn,
		Twitter:     req.Twitter,
		Instagram:   req.Instagram,
		Facebook:    req.Facebook,
		Theme:       req.Theme,
		Layout:      req.Layout,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := s.cardsCol.Doc(cardID).Create(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

func (s *FirestoreCardService) GetByID(ctx context.Context, cardID string) (*models.Card, error) {
	snap, err := s.cardsCol.Doc(cardID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrCardNotFound
		}
		return nil, err
	}
	return decodeCard(snap)
}

func (s *FirestoreCardService) ListByOwner(ctx context.Context, ownerUID string) ([]*models.Card, error) {
	iter := s.cardsCol.Where("ownerUid", "==", ownerUID).Documents(ctx)
	defer iter.Stop()

	out := make([]*models.Card, 0)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		card, err := decodeCard(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, card)
	}
	return out, nil
}

func (s *FirestoreCardService) FindByLink(ctx context.Context, cardLink string) (*models.Card, error) {
	iter := s.cardsCol.Where("cardLink", "==", cardLink).Limit(1).Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == iterator.Done {
		return nil, ErrCardNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeCard(snap)
}

func (s *FirestoreCardService) Update(ctx context.Context, ownerUID, cardID string, req *models.UpdateCardRequest) (*models.Card, error) {
	ref := s.cardsCol.Doc(cardID)

	var updated *models.Card
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return ErrCardNotFound
			}
			return err
		}
		card, err := decodeCard(snap)
		if err != nil {
			return err
		}
		if card.OwnerUID != ownerUID {
			return ErrUnauthorized
		}

		card.FullName = req.FullName
		card.Designation = req.Designation
		card.Company = req.Company
		card.Bio = req.Bio
		card.Phone = req.Phone
		card.Email = req.Email
		card.Website = req.Website
		card.LinkedIn = req.LinkedIn
		card.Twitter = req.Twitter
		card.Instagram = req.Instagram
		card.Facebook = req.Facebook
		card.Theme = req.Theme
		card.Layout = req.Layout
		card.UpdatedAt = time.Now().UTC()

		updated = card
		return tx.Set(ref, card)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *FirestoreCardService) Delete(ctx context.Context, ownerUID, cardID string) error {
	ref := s.cardsCol.Doc(cardID)

	return s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return ErrCardNotFound
			}
			return err
		}
		card, err := decodeCard(snap)
		if err != nil {
			return err
		}
		if card.OwnerUID != ownerUID {
			return ErrUnauthorized
		}
		return tx.Delete(ref)
	})
}

// IncrementViews bumps the view counter server-side so concurrent public
// fetches never lose counts.
func (s *FirestoreCardService) IncrementViews(ctx context.Context, cardID string) error {
	_, err := s.cardsCol.Doc(cardID).Update(ctx, []firestore.Update{
		{Path: "views", Value: firestore.Increment(1)},
	})
	if err != nil && status.Code(err) == codes.NotFound {
		return ErrCardNotFound
	}
	return err
}

func decodeCard(snap *firestore.DocumentSnapshot) (*models.Card, error) {
	var card models.Card
	if err := snap.DataTo(&card); err != nil {
		log.Printf("[FirestoreCardService] decode failed doc=%s err=%v", snap.Ref.ID, err)
		return nil, err
	}
	return &card, nil
}
