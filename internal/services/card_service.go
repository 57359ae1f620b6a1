package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nexcard/backend/internal/models"
)

var (
	ErrCardNotFound = errors.New("card not found")
	ErrUnauthorized = errors.New("unauthorized to modify this card")
)

// CardService is the card store. Ownership checks live here so handlers only
// translate errors to statuses.
type CardService interface {
	Create(ctx context.Context, ownerUID string, req *models.CreateCardRequest) (*models.Card, error)
	GetByID(ctx context.Context, cardID string) (*models.Card, error)
	ListByOwner(ctx context.Context, ownerUID string) ([]*models.Card, error)
	FindByLink(ctx context.Context, cardLink string) (*models.Card, error)
	Update(ctx context.Context, ownerUID, cardID string, req *models.UpdateCardRequest) (*models.Card, error)
	Delete(ctx context.Context, ownerUID, cardID string) error
	IncrementViews(ctx context.Context, cardID string) error
}

type MemoryCardService struct {
	mu     sync.RWMutex
	cards  map[string]*models.Card // cardID -> card
	byLink map[string]string       // cardLink -> cardID
}

func NewMemoryCardService() *MemoryCardService {
	return &MemoryCardService{
		cards:  make(map[string]*models.Card),
		byLink: make(map[string]string),
	}
}

func (s *MemoryCardService) Create(_ context.Context, ownerUID string, req *models.CreateCardRequest) (*models.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
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

	s.cards[card.CardID] = card
	s.byLink[card.CardLink] = card.CardID
	return copyCard(card), nil
}

func (s *MemoryCardService) GetByID(_ context.Context, cardID string) (*models.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	card, exists := s.cards[cardID]
	if !exists {
		return nil, ErrCardNotFound
	}
	return copyCard(card), nil
}

func (s *MemoryCardService) ListByOwner(_ context.Context, ownerUID string) ([]*models.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Card, 0)
	for _, card := range s.cards {
		if card.OwnerUID == ownerUID {
			out = append(out, copyCard(card))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryCardService) FindByLink(_ context.Context, cardLink string) (*models.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cardID, exists := s.byLink[cardLink]
	if !exists {
		return nil, ErrCardNotFound
	}
	return copyCard(s.cards[cardID]), nil
}

func (s *MemoryCardService) Update(_ context.Context, ownerUID, cardID string, req *models.UpdateCardRequest) (*models.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	card, exists := s.cards[cardID]
	if !exists {
		return nil, ErrCardNotFound
	}
	if card.OwnerUID != ownerUID {
		return nil, ErrUnauthorized
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
	card.UpdatedAt = time.Now()

	return copyCard(card), nil
}

func (s *MemoryCardService) Delete(_ context.Context, ownerUID, cardID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	card, exists := s.cards[cardID]
	if !exists {
		return ErrCardNotFound
	}
	if card.OwnerUID != ownerUID {
		return ErrUnauthorized
	}

	delete(s.byLink, card.CardLink)
	delete(s.cards, cardID)
	return nil
}

func (s *MemoryCardService) IncrementViews(_ context.Context, cardID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	card, exists := s.cards[cardID]
	if !exists {
		return ErrCardNotFound
	}
	card.Views++
	return nil
}

func copyCard(card *models.Card) *models.Card {
	c := *card
	return &c
}
