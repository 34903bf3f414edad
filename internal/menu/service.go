// Package menu serves the restaurant menu from the POS, keeping an
// in-memory snapshot so a POS outage degrades to stale data instead of a
// blank screen. Degradation is explicit: callers always learn whether
// they got live or cached data, never silently substituted content.
package menu

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/toastmobile/ordering/internal/models"
)

var ErrItemNotFound = errors.New("menu item not found")

// Fetcher is the slice of the POS client the menu service needs.
type Fetcher interface {
	GetMenu(ctx context.Context) ([]models.MenuItem, error)
}

// Service caches the menu snapshot behind a TTL.
type Service struct {
	fetcher Fetcher
	ttl     time.Duration
	log     *slog.Logger

	mu        sync.Mutex
	snapshot  []models.MenuItem
	fetchedAt time.Time
}

// NewService creates a menu service. ttl bounds how long a snapshot is
// served without consulting the POS.
func NewService(fetcher Fetcher, ttl time.Duration, log *slog.Logger) *Service {
	return &Service{
		fetcher: fetcher,
		ttl:     ttl,
		log:     log,
	}
}

// Get returns the menu. degraded is true when the POS could not be
// reached and a stale snapshot was served instead. When the POS is down
// and no snapshot exists the error is returned unchanged.
func (s *Service) Get(ctx context.Context) (items []models.MenuItem, degraded bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot != nil && time.Since(s.fetchedAt) < s.ttl {
		return s.copySnapshot(), false, nil
	}

	fetched, err := s.fetcher.GetMenu(ctx)
	if err != nil {
		if s.snapshot == nil {
			return nil, false, err
		}
		s.log.Warn("menu fetch failed, serving stale snapshot",
			"error", err,
			"snapshot_age", time.Since(s.fetchedAt).String(),
		)
		return s.copySnapshot(), true, nil
	}

	s.snapshot = fetched
	s.fetchedAt = time.Now()
	return s.copySnapshot(), false, nil
}

// Item resolves a menu item by id, refreshing the menu if needed. The
// degraded flag mirrors Get.
func (s *Service) Item(ctx context.Context, id string) (models.MenuItem, bool, error) {
	items, degraded, err := s.Get(ctx)
	if err != nil {
		return models.MenuItem{}, degraded, err
	}

	for _, item := range items {
		if item.ID == id {
			return item, degraded, nil
		}
	}

	return models.MenuItem{}, degraded, ErrItemNotFound
}

func (s *Service) copySnapshot() []models.MenuItem {
	items := make([]models.MenuItem, len(s.snapshot))
	copy(items, s.snapshot)
	return items
}
