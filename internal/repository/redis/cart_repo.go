package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"time"

	"github.com/DRSN-tech/go-cart/internal/domain"
	"github.com/DRSN-tech/go-cart/internal/repository/redis/converter"
	"github.com/DRSN-tech/go-cart/pkg/clients"
	"github.com/DRSN-tech/go-cart/pkg/e"
	"github.com/DRSN-tech/go-cart/pkg/logger"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

// CartRepo хранит корзины в Redis: позиция лежит в отдельном ключе с EXPIREAT,
// а множество cart:{owner}:items индексирует позиции владельца.
// Сегменты ключей экранируются (keySegment), поэтому ":" в идентификаторах не склеивает ключи разных владельцев.
type CartRepo struct {
	client *clients.RedisClient
	conv   converter.CartEntryConverter
	logger logger.Logger
}

func NewCartRepo(client *clients.RedisClient, conv converter.CartEntryConverter, logger logger.Logger) *CartRepo {
	return &CartRepo{
		client: client,
		conv:   conv,
		logger: logger,
	}
}

// Upsert атомарно пишет позицию и добавляет её в индекс владельца.
// Индекс живёт не меньше самой свежей позиции.
func (c *CartRepo) Upsert(ctx context.Context, entry *domain.CartEntry) error {
	data, err := c.marshalEntry(c.conv.ToRedisModel(entry))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), e.WithKind(e.ErrStoreUnavailable, err))
	}

	expireAt := time.Unix(entry.ExpiresAt, 0)
	itemKey := c.itemKey(entry.OwnerID, entry.ItemID)
	indexKey := c.indexKey(entry.OwnerID)

	_, err = c.client.Client.TxPipelined(ctx, func(pipe r.Pipeliner) error {
		pipe.Set(ctx, itemKey, data, 0)
		pipe.ExpireAt(ctx, itemKey, expireAt)
		pipe.SAdd(ctx, indexKey, entry.ItemID)
		pipe.ExpireAt(ctx, indexKey, expireAt)
		return nil
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), e.WithKind(e.ErrStoreUnavailable, err))
	}

	return nil
}

// QueryByOwner читает индекс владельца и забирает позиции одним MGET.
// Ключи, истёкшие по TTL, убираются из индекса.
func (c *CartRepo) QueryByOwner(ctx context.Context, ownerID string) ([]domain.CartEntry, error) {
	indexKey := c.indexKey(ownerID)

	itemIDs, err := c.client.Client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), e.WithKind(e.ErrStoreUnavailable, err))
	}
	if len(itemIDs) == 0 {
		return []domain.CartEntry{}, nil
	}
	sort.Strings(itemIDs)

	keys := make([]string, len(itemIDs))
	for i, itemID := range itemIDs {
		keys[i] = c.itemKey(ownerID, itemID)
	}

	values, err := c.client.Client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), e.WithKind(e.ErrStoreUnavailable, err))
	}

	result := make([]domain.CartEntry, 0, len(values))
	stale := make([]any, 0)
	for i, val := range values {
		data, err := redisValueToBytes(val, keys[i])
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), e.WithKind(e.ErrStoreUnavailable, err))
		}
		if data == nil {
			stale = append(stale, itemIDs[i])
			continue
		}

		model, err := c.unmarshalEntry(data)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), e.WithKind(e.ErrStoreUnavailable, err))
		}
		result = append(result, *c.conv.ToEntity(model))
	}

	if len(stale) > 0 {
		if err := c.client.Client.SRem(ctx, indexKey, stale...).Err(); err != nil {
			c.logger.Warnf("Redis SREM of expired cart items failed: %v", e.Wrap(whereami.WhereAmI(), err))
		}
	}

	return result, nil
}

func (c *CartRepo) DeleteByKey(ctx context.Context, ownerID, itemID string) error {
	_, err := c.client.Client.TxPipelined(ctx, func(pipe r.Pipeliner) error {
		pipe.Del(ctx, c.itemKey(ownerID, itemID))
		pipe.SRem(ctx, c.indexKey(ownerID), itemID)
		return nil
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), e.WithKind(e.ErrStoreUnavailable, err))
	}

	return nil
}

func (c *CartRepo) marshalEntry(model *converter.CartEntryRedisModel) ([]byte, error) {
	return json.Marshal(model)
}

func (c *CartRepo) unmarshalEntry(data []byte) (*converter.CartEntryRedisModel, error) {
	var model converter.CartEntryRedisModel
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, err
	}

	return &model, nil
}

func (c *CartRepo) itemKey(ownerID, itemID string) string {
	return fmt.Sprintf("cart:%s:item:%s", keySegment(ownerID), keySegment(itemID))
}

func (c *CartRepo) indexKey(ownerID string) string {
	return fmt.Sprintf("cart:%s:items", keySegment(ownerID))
}

// keySegment экранирует идентификатор так, что в нём не остаётся ":".
func keySegment(id string) string {
	return url.QueryEscape(id)
}

// redisValueToBytes конвертирует значение из Redis в []byte; nil означает отсутствие ключа.
func redisValueToBytes(val interface{}, key string) ([]byte, error) {
	switch v := val.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("unexpected Redis value type for key %s: %T", key, val)
	}
}
