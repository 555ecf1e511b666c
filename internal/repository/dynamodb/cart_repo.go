package dynamodb

import (
	"context"

	"github.com/DRSN-tech/go-cart/internal/domain"
	"github.com/DRSN-tech/go-cart/pkg/e"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/jimlawless/whereami"
)

// API — операции DynamoDB, которые использует хранилище корзин.
type API interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// CartRepo — вариант KeyValueTable: таблица с составным ключом (userId, itemId).
// Истёкшие элементы удаляет сам DynamoDB по атрибуту ttl, с задержкой.
type CartRepo struct {
	api   API
	table string
}

func NewCartRepo(api API, table string) *CartRepo {
	return &CartRepo{
		api:   api,
		table: table,
	}
}

func (c *CartRepo) Upsert(ctx context.Context, entry *domain.CartEntry) error {
	item, err := attributevalue.MarshalMap(toItem(entry))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), e.WithKind(e.ErrStoreUnavailable, err))
	}

	_, err = c.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(c.table),
		Item:      item,
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), e.WithKind(e.ErrStoreUnavailable, err))
	}

	return nil
}

// QueryByOwner читает раздел владельца целиком, проходя по всем страницам ответа.
func (c *CartRepo) QueryByOwner(ctx context.Context, ownerID string) ([]domain.CartEntry, error) {
	paginator := dynamodb.NewQueryPaginator(c.api, &dynamodb.QueryInput{
		TableName:              aws.String(c.table),
		KeyConditionExpression: aws.String("userId = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: ownerID},
		},
	})

	result := make([]domain.CartEntry, 0)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), e.WithKind(e.ErrStoreUnavailable, err))
		}

		var items []cartItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), e.WithKind(e.ErrStoreUnavailable, err))
		}
		for _, item := range items {
			result = append(result, item.toEntity())
		}
	}

	return result, nil
}

// DeleteByKey удаляет элемент; DynamoDB не считает удаление отсутствующего ключа ошибкой.
func (c *CartRepo) DeleteByKey(ctx context.Context, ownerID, itemID string) error {
	_, err := c.api.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(c.table),
		Key: map[string]types.AttributeValue{
			"userId": &types.AttributeValueMemberS{Value: ownerID},
			"itemId": &types.AttributeValueMemberS{Value: itemID},
		},
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), e.WithKind(e.ErrStoreUnavailable, err))
	}

	return nil
}
