package cosmos

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/data/azcosmos"
	"github.com/DRSN-tech/go-cart/internal/domain"
	"github.com/DRSN-tech/go-cart/pkg/e"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeContainer хранит документы по id и отдаёт запрос страницами по одному документу.
type fakeContainer struct {
	docs       map[string][]byte
	lastQuery  string
	lastParams []azcosmos.QueryParameter
	err        error
}

func newFakeContainer() *fakeContainer {
	return &fakeContainer{docs: make(map[string][]byte)}
}

func (f *fakeContainer) UpsertItem(_ context.Context, _ azcosmos.PartitionKey, item []byte, _ *azcosmos.ItemOptions) (azcosmos.ItemResponse, error) {
	if f.err != nil {
		return azcosmos.ItemResponse{}, f.err
	}
	var doc cartDocument
	if err := json.Unmarshal(item, &doc); err != nil {
		return azcosmos.ItemResponse{}, err
	}
	f.docs[doc.ID] = item
	return azcosmos.ItemResponse{Value: item}, nil
}

func (f *fakeContainer) DeleteItem(_ context.Context, _ azcosmos.PartitionKey, itemID string, _ *azcosmos.ItemOptions) (azcosmos.ItemResponse, error) {
	if f.err != nil {
		return azcosmos.ItemResponse{}, f.err
	}
	if _, ok := f.docs[itemID]; !ok {
		return azcosmos.ItemResponse{}, &azcore.ResponseError{ErrorCode: "NotFound", StatusCode: http.StatusNotFound}
	}
	delete(f.docs, itemID)
	return azcosmos.ItemResponse{}, nil
}

func (f *fakeContainer) NewQueryItemsPager(query string, _ azcosmos.PartitionKey, o *azcosmos.QueryOptions) *runtime.Pager[azcosmos.QueryItemsResponse] {
	f.lastQuery = query
	f.lastParams = o.QueryParameters
	owner := o.QueryParameters[0].Value.(string)

	var pages [][]byte
	ids := make([]string, 0, len(f.docs))
	for id := range f.docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		var doc cartDocument
		_ = json.Unmarshal(f.docs[id], &doc)
		if doc.OwnerID == owner {
			pages = append(pages, f.docs[id])
		}
	}

	next := 0
	return runtime.NewPager(runtime.PagingHandler[azcosmos.QueryItemsResponse]{
		More: func(azcosmos.QueryItemsResponse) bool { return next < len(pages) },
		Fetcher: func(context.Context, *azcosmos.QueryItemsResponse) (azcosmos.QueryItemsResponse, error) {
			if f.err != nil {
				return azcosmos.QueryItemsResponse{}, f.err
			}
			if next >= len(pages) {
				return azcosmos.QueryItemsResponse{}, nil
			}
			page := azcosmos.QueryItemsResponse{Items: [][]byte{pages[next]}}
			next++
			return page, nil
		},
	})
}

func entry(owner, item, price string, now time.Time) *domain.CartEntry {
	return domain.NewCartEntry(owner, domain.NewProduct(item, "desc "+item, decimal.RequireFromString(price)), now)
}

func newRepo(container Container, now time.Time) *CartRepo {
	repo := NewCartRepo(container)
	repo.now = func() time.Time { return now }
	return repo
}

func TestUpsertDocumentShape(t *testing.T) {
	container := newFakeContainer()
	now := time.Unix(1_700_000_000, 0)
	repo := newRepo(container, now)

	require.NoError(t, repo.Upsert(context.Background(), entry("u1", "p1", "9.99", now)))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(container.docs["u1_p1"], &doc))
	assert.Equal(t, "u1_p1", doc["id"])
	assert.Equal(t, "u1", doc["userId"])
	assert.Equal(t, "9.99", doc["price"])
	assert.EqualValues(t, 3600, doc["ttl"])
	assert.EqualValues(t, 1_700_003_600, doc["expiresAt"])
}

func TestUpsertTTLNeverBelowOneSecond(t *testing.T) {
	container := newFakeContainer()
	now := time.Unix(1_700_000_000, 0)
	repo := newRepo(container, now.Add(2*time.Hour))

	require.NoError(t, repo.Upsert(context.Background(), entry("u1", "p1", "9.99", now)))

	var doc cartDocument
	require.NoError(t, json.Unmarshal(container.docs["u1_p1"], &doc))
	assert.Equal(t, int64(1), doc.TTL)
}

func TestQueryByOwner(t *testing.T) {
	container := newFakeContainer()
	now := time.Now()
	repo := newRepo(container, now)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, entry("u1", "p1", "9.99", now)))
	require.NoError(t, repo.Upsert(ctx, entry("u1", "p2", "15.00", now)))
	require.NoError(t, repo.Upsert(ctx, entry("u2", "p1", "9.99", now)))

	items, err := repo.QueryByOwner(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "u1_p1", items[0].ID)
	assert.Equal(t, "15.00", items[1].Price)
	assert.Equal(t, now.Add(domain.CartEntryTTL).Unix(), items[1].ExpiresAt)
	assert.Equal(t, queryByOwner, container.lastQuery)
	assert.Equal(t, "@userId", container.lastParams[0].Name)
}

func TestQueryByOwnerEmpty(t *testing.T) {
	repo := newRepo(newFakeContainer(), time.Now())

	items, err := repo.QueryByOwner(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestDeleteByKeyIgnoresMissingDocument(t *testing.T) {
	container := newFakeContainer()
	now := time.Now()
	repo := newRepo(container, now)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, entry("u1", "p1", "9.99", now)))
	require.NoError(t, repo.DeleteByKey(ctx, "u1", "p1"))
	require.NoError(t, repo.DeleteByKey(ctx, "u1", "p1"))
	assert.Empty(t, container.docs)
}

func TestBackendErrorsAreStoreUnavailable(t *testing.T) {
	container := newFakeContainer()
	container.err = &azcore.ResponseError{ErrorCode: "ServiceUnavailable", StatusCode: http.StatusServiceUnavailable}
	repo := newRepo(container, time.Now())
	ctx := context.Background()

	err := repo.Upsert(ctx, entry("u1", "p1", "9.99", time.Now()))
	assert.ErrorIs(t, err, e.ErrStoreUnavailable)
	var respErr *azcore.ResponseError
	assert.True(t, errors.As(err, &respErr))

	_, err = repo.QueryByOwner(ctx, "u1")
	assert.ErrorIs(t, err, e.ErrStoreUnavailable)

	assert.ErrorIs(t, repo.DeleteByKey(ctx, "u1", "p1"), e.ErrStoreUnavailable)
}
