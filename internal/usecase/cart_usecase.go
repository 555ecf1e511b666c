package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/DRSN-tech/go-cart/internal/domain"
	"github.com/DRSN-tech/go-cart/pkg/e"
	"github.com/DRSN-tech/go-cart/pkg/logger"
)

// Clock возвращает текущее время (подменяется в тестах).
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// CartUseCase реализует движок корзин: обогащение позиции из каталога,
// запись в активное хранилище и чтение корзины после каждой мутации.
// Не хранит состояния между вызовами; какой вариант хранилища активен, движок не знает.
type CartUseCase struct {
	catalog       CatalogReader
	store         CartStore
	publisher     CartEventPublisher
	clock         Clock
	logger        logger.Logger
	filterExpired bool
}

type Option func(*CartUseCase)

func WithClock(clock Clock) Option {
	return func(c *CartUseCase) {
		if clock != nil {
			c.clock = clock
		}
	}
}

func WithEventPublisher(publisher CartEventPublisher) Option {
	return func(c *CartUseCase) {
		if publisher != nil {
			c.publisher = publisher
		}
	}
}

// WithExpiredFilter включает отбрасывание истёкших позиций при чтении корзины.
// По умолчанию выключено: корзина отдаётся в том виде, в каком её вернуло хранилище.
func WithExpiredFilter(enabled bool) Option {
	return func(c *CartUseCase) {
		c.filterExpired = enabled
	}
}

func NewCartUC(catalog CatalogReader, store CartStore, logger logger.Logger, opts ...Option) *CartUseCase {
	uc := &CartUseCase{
		catalog:   catalog,
		store:     store,
		publisher: nopPublisher{},
		clock:     systemClock{},
		logger:    logger,
	}
	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// Add добавляет товар в корзину владельца (upsert с обновлением TTL) и возвращает корзину целиком.
// Если товара нет в каталоге, в хранилище ничего не пишется.
func (c *CartUseCase) Add(ctx context.Context, ownerID, itemID string) (*domain.Cart, error) {
	const op = "CartUseCase.Add"

	ownerID, err := normalizeOwner(ownerID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	product, err := c.catalog.LookupProduct(ctx, itemID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, e.Wrap(op, e.WithKind(e.ErrItemNotFound, err))
		}
		return nil, e.Wrap(op, err)
	}

	entry := domain.NewCartEntry(ownerID, product, c.clock.Now())
	if err := c.store.Upsert(ctx, entry); err != nil {
		return nil, e.Wrap(op, storeErr(err))
	}

	cart, err := c.Get(ctx, ownerID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	c.publish(ctx, NewCartEvent(CartItemAdded, ownerID, entry.ItemID, entry.Price, cart.ItemCount, c.clock.Now()))

	return cart, nil
}

// Get возвращает все позиции владельца. Пустая корзина — не ошибка.
func (c *CartUseCase) Get(ctx context.Context, ownerID string) (*domain.Cart, error) {
	const op = "CartUseCase.Get"

	ownerID, err := normalizeOwner(ownerID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	entries, err := c.store.QueryByOwner(ctx, ownerID)
	if err != nil {
		return nil, e.Wrap(op, storeErr(err))
	}

	if c.filterExpired {
		entries = c.dropExpired(entries)
	}

	return domain.NewCart(ownerID, entries), nil
}

// Remove удаляет позицию и возвращает корзину после удаления.
// Удаление отсутствующей позиции успешно и корзину не меняет.
func (c *CartUseCase) Remove(ctx context.Context, ownerID, itemID string) (*domain.Cart, error) {
	const op = "CartUseCase.Remove"

	ownerID, err := normalizeOwner(ownerID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if err := c.store.DeleteByKey(ctx, ownerID, itemID); err != nil {
		return nil, e.Wrap(op, storeErr(err))
	}

	cart, err := c.Get(ctx, ownerID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	c.publish(ctx, NewCartEvent(CartItemRemoved, ownerID, itemID, "", cart.ItemCount, c.clock.Now()))

	return cart, nil
}

// publish отправляет событие; ошибка только логируется и на результат действия не влияет.
func (c *CartUseCase) publish(ctx context.Context, event *CartEvent) {
	if err := c.publisher.PublishCartEvent(ctx, event); err != nil {
		c.logger.Warnf("Failed to publish %s event for user %s: %v", event.Type, event.OwnerID, err)
	}
}

func (c *CartUseCase) dropExpired(entries []domain.CartEntry) []domain.CartEntry {
	now := c.clock.Now()
	live := make([]domain.CartEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.Expired(now) {
			continue
		}
		live = append(live, entry)
	}

	return live
}

// normalizeOwner обрезает пробелы вокруг ключа владельца: " u1" и "u1" — одна корзина.
func normalizeOwner(ownerID string) (string, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return "", e.ErrOwnerRequired
	}

	return ownerID, nil
}

// storeErr гарантирует, что сбой хранилища помечен как e.ErrStoreUnavailable.
func storeErr(err error) error {
	if errors.Is(err, e.ErrStoreUnavailable) {
		return err
	}

	return e.WithKind(e.ErrStoreUnavailable, err)
}
