package menu

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/toastmobile/ordering/internal/models"
	"github.com/toastmobile/ordering/pkg/logger"
)

type mockFetcher struct {
	calls int
	items []models.MenuItem
	err   error
}

func (m *mockFetcher) GetMenu(ctx context.Context) ([]models.MenuItem, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.items, nil
}

var testMenu = []models.MenuItem{
	{ID: "1", Name: "Burger", Price: 12.99},
	{ID: "2", Name: "Salad", Price: 10.99},
}

func TestGet_FetchesAndCaches(t *testing.T) {
	fetcher := &mockFetcher{items: testMenu}
	svc := NewService(fetcher, time.Minute, logger.New("error"))

	items, degraded, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("Get() unexpected error: %v", err)
	}
	if degraded {
		t.Error("fresh fetch must not be degraded")
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	// Second call within the TTL must not hit the POS again.
	if _, _, err := svc.Get(context.Background()); err != nil {
		t.Fatalf("Get() unexpected error: %v", err)
	}
	if fetcher.calls != 1 {
		t.Errorf("expected 1 fetch, got %d", fetcher.calls)
	}
}

func TestGet_DegradedOnFetchFailure(t *testing.T) {
	fetcher := &mockFetcher{items: testMenu}
	svc := NewService(fetcher, 0, logger.New("error")) // zero TTL forces a fetch every call

	if _, _, err := svc.Get(context.Background()); err != nil {
		t.Fatalf("Get() unexpected error: %v", err)
	}

	fetcher.err = errors.New("POS unreachable")

	items, degraded, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("Get() unexpected error with snapshot available: %v", err)
	}
	if !degraded {
		t.Error("stale snapshot must be flagged as degraded")
	}
	if len(items) != 2 {
		t.Errorf("expected the stale snapshot, got %d items", len(items))
	}
}

func TestGet_ErrorWithoutSnapshot(t *testing.T) {
	fetcher := &mockFetcher{err: errors.New("POS unreachable")}
	svc := NewService(fetcher, time.Minute, logger.New("error"))

	_, degraded, err := svc.Get(context.Background())
	if err == nil {
		t.Fatal("expected an error when no snapshot exists")
	}
	if degraded {
		t.Error("a hard failure is not degraded mode")
	}
}

func TestItem(t *testing.T) {
	fetcher := &mockFetcher{items: testMenu}
	svc := NewService(fetcher, time.Minute, logger.New("error"))

	item, _, err := svc.Item(context.Background(), "2")
	if err != nil {
		t.Fatalf("Item() unexpected error: %v", err)
	}
	if item.Name != "Salad" {
		t.Errorf("expected Salad, got %s", item.Name)
	}

	_, _, err = svc.Item(context.Background(), "999")
	if !errors.Is(err, ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
}
