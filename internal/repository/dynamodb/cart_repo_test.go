package dynamodb

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/DRSN-tech/go-cart/internal/domain"
	"github.com/DRSN-tech/go-cart/pkg/e"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTable хранит элементы по (userId, itemId) и отдаёт Query страницами по pageSize.
type fakeTable struct {
	items    map[[2]string]map[string]types.AttributeValue
	pageSize int
	queries  int
	err      error
}

func newFakeTable() *fakeTable {
	return &fakeTable{items: make(map[[2]string]map[string]types.AttributeValue), pageSize: 1}
}

func keyOf(item map[string]types.AttributeValue) [2]string {
	return [2]string{
		item["userId"].(*types.AttributeValueMemberS).Value,
		item["itemId"].(*types.AttributeValueMemberS).Value,
	}
}

func (f *fakeTable) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.items[keyOf(in.Item)] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeTable) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.queries++
	owner := in.ExpressionAttributeValues[":uid"].(*types.AttributeValueMemberS).Value

	var itemIDs []string
	for k := range f.items {
		if k[0] == owner {
			itemIDs = append(itemIDs, k[1])
		}
	}
	sort.Strings(itemIDs)

	start := 0
	if in.ExclusiveStartKey != nil {
		last := in.ExclusiveStartKey["itemId"].(*types.AttributeValueMemberS).Value
		start = sort.SearchStrings(itemIDs, last) + 1
	}
	end := min(start+f.pageSize, len(itemIDs))

	out := &dynamodb.QueryOutput{}
	for _, id := range itemIDs[start:end] {
		out.Items = append(out.Items, f.items[[2]string{owner, id}])
	}
	if end < len(itemIDs) {
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			"userId": &types.AttributeValueMemberS{Value: owner},
			"itemId": &types.AttributeValueMemberS{Value: itemIDs[end-1]},
		}
	}
	return out, nil
}

func (f *fakeTable) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	delete(f.items, keyOf(in.Key))
	return &dynamodb.DeleteItemOutput{}, nil
}

func entry(owner, item, price string, now time.Time) *domain.CartEntry {
	return domain.NewCartEntry(owner, domain.NewProduct(item, "desc "+item, decimal.RequireFromString(price)), now)
}

func TestUpsertWritesKeyAndTTL(t *testing.T) {
	table := newFakeTable()
	repo := NewCartRepo(table, "UserCarts")
	now := time.Unix(1_700_000_000, 0)

	require.NoError(t, repo.Upsert(context.Background(), entry("u1", "p1", "9.99", now)))

	item := table.items[[2]string{"u1", "p1"}]
	require.NotNil(t, item)
	assert.Equal(t, "9.99", item["price"].(*types.AttributeValueMemberS).Value)
	assert.Equal(t, "1700003600", item["ttl"].(*types.AttributeValueMemberN).Value)
}

func TestQueryByOwnerFollowsPages(t *testing.T) {
	table := newFakeTable()
	repo := NewCartRepo(table, "UserCarts")
	ctx := context.Background()
	now := time.Now()

	for _, id := range []string{"p3", "p1", "p2"} {
		require.NoError(t, repo.Upsert(ctx, entry("u1", id, "1.00", now)))
	}
	require.NoError(t, repo.Upsert(ctx, entry("u2", "p9", "1.00", now)))

	items, err := repo.QueryByOwner(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, 3, table.queries)
	assert.Equal(t, "u1_p1", items[0].ID)
	assert.Equal(t, "p3", items[2].ItemID)
	assert.Equal(t, "desc p3", items[2].Description)
}

func TestQueryByOwnerEmpty(t *testing.T) {
	repo := NewCartRepo(newFakeTable(), "UserCarts")

	items, err := repo.QueryByOwner(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestDeleteByKey(t *testing.T) {
	table := newFakeTable()
	repo := NewCartRepo(table, "UserCarts")
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, entry("u1", "p1", "9.99", time.Now())))
	require.NoError(t, repo.DeleteByKey(ctx, "u1", "p1"))
	require.NoError(t, repo.DeleteByKey(ctx, "u1", "p1"))
	assert.Empty(t, table.items)
}

func TestBackendErrorsAreStoreUnavailable(t *testing.T) {
	table := newFakeTable()
	table.err = &types.ResourceNotFoundException{Message: aws.String("table missing")}
	repo := NewCartRepo(table, "UserCarts")
	ctx := context.Background()

	err := repo.Upsert(ctx, entry("u1", "p1", "9.99", time.Now()))
	assert.ErrorIs(t, err, e.ErrStoreUnavailable)
	var notFound *types.ResourceNotFoundException
	assert.True(t, errors.As(err, &notFound))

	_, err = repo.QueryByOwner(ctx, "u1")
	assert.ErrorIs(t, err, e.ErrStoreUnavailable)

	assert.ErrorIs(t, repo.DeleteByKey(ctx, "u1", "p1"), e.ErrStoreUnavailable)
}
