package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/DRSN-tech/go-cart/internal/domain"
	"github.com/DRSN-tech/go-cart/pkg/e"
)

// CartRepo — хранилище корзин в памяти процесса для локального запуска и тестов.
// Как и коллекция без нативного TTL, истёкшие позиции не удаляет.
type CartRepo struct {
	mu      sync.RWMutex
	entries map[string]map[string]domain.CartEntry // ownerID -> itemID -> entry
}

func NewCartRepo() *CartRepo {
	return &CartRepo{entries: make(map[string]map[string]domain.CartEntry)}
}

func (r *CartRepo) Upsert(ctx context.Context, entry *domain.CartEntry) error {
	if err := ctx.Err(); err != nil {
		return e.WithKind(e.ErrStoreUnavailable, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	owned, ok := r.entries[entry.OwnerID]
	if !ok {
		owned = make(map[string]domain.CartEntry)
		r.entries[entry.OwnerID] = owned
	}
	owned[entry.ItemID] = *entry

	return nil
}

// QueryByOwner возвращает позиции, отсортированные по itemID.
func (r *CartRepo) QueryByOwner(ctx context.Context, ownerID string) ([]domain.CartEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, e.WithKind(e.ErrStoreUnavailable, err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	owned := r.entries[ownerID]
	result := make([]domain.CartEntry, 0, len(owned))
	for _, entry := range owned {
		result = append(result, entry)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ItemID < result[j].ItemID })

	return result, nil
}

func (r *CartRepo) DeleteByKey(ctx context.Context, ownerID, itemID string) error {
	if err := ctx.Err(); err != nil {
		return e.WithKind(e.ErrStoreUnavailable, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	owned, ok := r.entries[ownerID]
	if !ok {
		return nil
	}
	delete(owned, itemID)
	if len(owned) == 0 {
		delete(r.entries, ownerID)
	}

	return nil
}
