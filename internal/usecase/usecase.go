package usecase

import (
	"context"

	"github.com/DRSN-tech/go-cart/internal/domain"
)

// CartUC — операции движка корзин.
type CartUC interface {
	Add(ctx context.Context, ownerID, itemID string) (*domain.Cart, error)
	Get(ctx context.Context, ownerID string) (*domain.Cart, error)
	Remove(ctx context.Context, ownerID, itemID string) (*domain.Cart, error)
}

// CartDispatcher — внешний контракт для точек входа (HTTP, Lambda).
type CartDispatcher interface {
	Dispatch(ctx context.Context, action, ownerID string, payload []byte) (*Result, error)
}
