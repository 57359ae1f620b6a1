package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/nexcard/backend/internal/models"
)

var ErrScanNotFound = errors.New("card not found in scanned history")

// ScannedService is the per-user wallet of recently scanned cards. The list
// is insertion-ordered (oldest first), deduplicated by card link, and bounded
// by the viewer's plan-derived limit.
type ScannedService interface {
	Add(ctx context.Context, uid, cardLink string, maxLimit int) ([]models.ScannedCard, error)
	Get(ctx context.Context, uid string) ([]models.ScannedCard, error)
	Remove(ctx context.Context, uid, cardLink string) error
}

type MemoryScannedService struct {
	mu    sync.RWMutex
	lists map[string][]models.ScannedCard // uid -> ordered entries
}

func NewMemoryScannedService() *MemoryScannedService {
	return &MemoryScannedService{
		lists: make(map[string][]models.ScannedCard),
	}
}

func (s *MemoryScannedService) Add(_ context.Context, uid, cardLink string, maxLimit int) ([]models.ScannedCard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := appendScan(s.lists[uid], cardLink, maxLimit, time.Now())
	s.lists[uid] = list
	return copyScans(list), nil
}

func (s *MemoryScannedService) Get(_ context.Context, uid string) ([]models.ScannedCard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return copyScans(s.lists[uid]), nil
}

func (s *MemoryScannedService) Remove(_ context.Context, uid, cardLink string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, removed := removeScan(s.lists[uid], cardLink)
	if !removed {
		return ErrScanNotFound
	}
	s.lists[uid] = list
	return nil
}

// appendScan applies the wallet update: drop any entry with the same link,
// evict the oldest entry when the list is full, then append. Re-scans
// therefore move to the most-recent position; first-time overflow is FIFO.
func appendScan(list []models.ScannedCard, cardLink string, maxLimit int, now time.Time) []models.ScannedCard {
	filtered := make([]models.ScannedCard, 0, len(list)+1)
	for _, entry := range list {
		if entry.CardLink != cardLink {
			filtered = append(filtered, entry)
		}
	}

	if maxLimit != models.Unlimited && len(filtered) > 0 && len(filtered) >= maxLimit {
		filtered = filtered[1:]
	}

	return append(filtered, models.ScannedCard{CardLink: cardLink, ScannedAt: now})
}

func removeScan(list []models.ScannedCard, cardLink string) ([]models.ScannedCard, bool) {
	filtered := make([]models.ScannedCard, 0, len(list))
	removed := false
	for _, entry := range list {
		if entry.CardLink == cardLink {
			removed = true
			continue
		}
		filtered = append(filtered, entry)
	}
	return filtered, removed
}

func copyScans(list []models.ScannedCard) []models.ScannedCard {
	out := make([]models.ScannedCard, len(list))
	copy(out, list)
	return out
}
