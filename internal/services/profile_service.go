package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/nexcard/backend/internal/models"
)

var ErrProfileNotFound = errors.New("profile not found")

// ProfileService stores user account profiles keyed by auth UID.
type ProfileService interface {
	GetOrCreate(ctx context.Context, uid, email string) (*models.Profile, error)
	Upsert(ctx context.Context, uid, email string, req *models.UpsertProfileRequest) (*models.Profile, error)
}

type MemoryProfileService struct {
	mu       sync.RWMutex
	profiles map[string]*models.Profile // uid -> profile
}

func NewMemoryProfileService() *MemoryProfileService {
	return &MemoryProfileService{
		profiles: make(map[string]*models.Profile),
	}
}

func (s *MemoryProfileService) GetOrCreate(_ context.Context, uid, email string) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prof, exists := s.profiles[uid]
	if !exists {
		now := time.Now()
		prof = &models.Profile{UserID: uid, Email: email, CreatedAt: now, UpdatedAt: now}
		s.profiles[uid] = prof
	} else if email != "" && prof.Email == "" {
		prof.Email = email
		prof.UpdatedAt = time.Now()
	}

	p := *prof
	return &p, nil
}

func (s *MemoryProfileService) Upsert(_ context.Context, uid, email string, req *models.UpsertProfileRequest) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	prof, exists := s.profiles[uid]
	if !exists {
		prof = &models.Profile{UserID: uid, CreatedAt: now}
		s.profiles[uid] = prof
	}

	if email != "" {
		prof.Email = email
	}
	if req.DisplayName != nil {
		prof.DisplayName = *req.DisplayName
	}
	if req.PhotoURL != nil {
		prof.PhotoURL = *req.PhotoURL
	}
	prof.UpdatedAt = now

	p := *prof
	return &p, nil
}
