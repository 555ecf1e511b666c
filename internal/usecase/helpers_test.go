package usecase_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/DRSN-tech/go-cart/internal/domain"
	"github.com/DRSN-tech/go-cart/internal/repository/memory"
	"github.com/DRSN-tech/go-cart/internal/usecase"
	"github.com/DRSN-tech/go-cart/pkg/e"
	"github.com/shopspring/decimal"
)

type fakeCatalog struct {
	products map[string]*domain.Product
	err      error
	calls    int
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{products: map[string]*domain.Product{
		"p1": domain.NewProduct("p1", "Widget", decimal.RequireFromString("9.99")),
		"p2": domain.NewProduct("p2", "Gadget", decimal.RequireFromString("15.00")),
	}}
}

func (f *fakeCatalog) LookupProduct(_ context.Context, itemID string) (*domain.Product, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}

	product, ok := f.products[itemID]
	if !ok {
		return nil, e.Wrap("item "+itemID, e.ErrNotFound)
	}

	return product, nil
}

// flakyStore оборачивает хранилище в памяти и умеет отказывать на запись/чтение.
type flakyStore struct {
	*memory.CartRepo
	failUpsert bool
	failQuery  bool
	failDelete bool
	upserts    int
}

var errBackendDown = errors.New("backend down")

func (s *flakyStore) Upsert(ctx context.Context, entry *domain.CartEntry) error {
	s.upserts++
	if s.failUpsert {
		return errBackendDown
	}

	return s.CartRepo.Upsert(ctx, entry)
}

func (s *flakyStore) QueryByOwner(ctx context.Context, ownerID string) ([]domain.CartEntry, error) {
	if s.failQuery {
		return nil, e.WithKind(e.ErrStoreUnavailable, errBackendDown)
	}

	return s.CartRepo.QueryByOwner(ctx, ownerID)
}

func (s *flakyStore) DeleteByKey(ctx context.Context, ownerID, itemID string) error {
	if s.failDelete {
		return errBackendDown
	}

	return s.CartRepo.DeleteByKey(ctx, ownerID, itemID)
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type recordingPublisher struct {
	mu     sync.Mutex
	events []*usecase.CartEvent
	err    error
}

func (p *recordingPublisher) PublishCartEvent(_ context.Context, event *usecase.CartEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)

	return p.err
}
