package usecase

import (
	"context"

	"github.com/DRSN-tech/go-cart/internal/domain"
)

// CatalogReader читает товары из реляционного каталога.
// LookupProduct возвращает e.ErrNotFound, если строки нет, и e.ErrCatalogUnavailable при сбое соединения или запроса.
type CatalogReader interface {
	LookupProduct(ctx context.Context, itemID string) (*domain.Product, error)
}

// CartStore — общий контракт хранилищ корзин (таблица ключ-значение, контейнер документов, коллекция).
// Все ошибки бэкенда возвращаются как e.ErrStoreUnavailable.
type CartStore interface {
	// Upsert записывает или перезаписывает позицию по ключу (ownerID, itemID).
	Upsert(ctx context.Context, entry *domain.CartEntry) error
	// QueryByOwner возвращает все позиции владельца. Истёкшие позиции не отфильтровываются.
	QueryByOwner(ctx context.Context, ownerID string) ([]domain.CartEntry, error)
	// DeleteByKey удаляет позицию; отсутствие позиции ошибкой не является.
	DeleteByKey(ctx context.Context, ownerID, itemID string) error
}
