package cosmos

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/data/azcosmos"
	"github.com/DRSN-tech/go-cart/internal/domain"
	"github.com/DRSN-tech/go-cart/pkg/e"
	"github.com/jimlawless/whereami"
)

const queryByOwner = "SELECT * FROM c WHERE c.userId = @userId"

// Container — операции azcosmos.ContainerClient, которые использует хранилище корзин.
type Container interface {
	UpsertItem(ctx context.Context, partitionKey azcosmos.PartitionKey, item []byte, o *azcosmos.ItemOptions) (azcosmos.ItemResponse, error)
	DeleteItem(ctx context.Context, partitionKey azcosmos.PartitionKey, itemID string, o *azcosmos.ItemOptions) (azcosmos.ItemResponse, error)
	NewQueryItemsPager(query string, partitionKey azcosmos.PartitionKey, o *azcosmos.QueryOptions) *runtime.Pager[azcosmos.QueryItemsResponse]
}

// CartRepo — вариант DocumentContainer: документ на позицию с id "{userId}_{itemId}", раздел по владельцу.
type CartRepo struct {
	container Container
	now       func() time.Time
}

func NewCartRepo(container Container) *CartRepo {
	return &CartRepo{
		container: container,
		now:       time.Now,
	}
}

func (c *CartRepo) Upsert(ctx context.Context, entry *domain.CartEntry) error {
	data, err := json.Marshal(toDocument(entry, c.now()))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), e.WithKind(e.ErrStoreUnavailable, err))
	}

	if _, err := c.container.UpsertItem(ctx, azcosmos.NewPartitionKeyString(entry.OwnerID), data, nil); err != nil {
		return e.Wrap(whereami.WhereAmI(), e.WithKind(e.ErrStoreUnavailable, err))
	}

	return nil
}

// QueryByOwner выполняет параметризованный запрос в пределах раздела владельца.
func (c *CartRepo) QueryByOwner(ctx context.Context, ownerID string) ([]domain.CartEntry, error) {
	pager := c.container.NewQueryItemsPager(queryByOwner, azcosmos.NewPartitionKeyString(ownerID), &azcosmos.QueryOptions{
		QueryParameters: []azcosmos.QueryParameter{{Name: "@userId", Value: ownerID}},
	})

	result := make([]domain.CartEntry, 0)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), e.WithKind(e.ErrStoreUnavailable, err))
		}

		for _, raw := range page.Items {
			var doc cartDocument
			if err := json.Unmarshal(raw, &doc); err != nil {
				return nil, e.Wrap(whereami.WhereAmI(), e.WithKind(e.ErrStoreUnavailable, err))
			}
			result = append(result, doc.toEntity())
		}
	}

	return result, nil
}

// DeleteByKey удаляет документ по id и ключу раздела. 404 от Cosmos DB ошибкой не считается.
func (c *CartRepo) DeleteByKey(ctx context.Context, ownerID, itemID string) error {
	_, err := c.container.DeleteItem(ctx, azcosmos.NewPartitionKeyString(ownerID), domain.CartEntryID(ownerID, itemID), nil)
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return e.Wrap(whereami.WhereAmI(), e.WithKind(e.ErrStoreUnavailable, err))
	}

	return nil
}

func isNotFound(err error) bool {
	var respErr *azcore.ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound
}
