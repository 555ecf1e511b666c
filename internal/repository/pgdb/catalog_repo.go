package pgdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/DRSN-tech/go-cart/internal/domain"
	"github.com/DRSN-tech/go-cart/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/go-cart/pkg/e"
	"github.com/jackc/pgx/v5"
	"github.com/jimlawless/whereami"
)

// Querier — минимальный срез pgxpool.Pool, нужный каталогу.
// Пул берёт соединение на один запрос и сразу возвращает его.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CatalogRepo читает товары из таблицы products. Только чтение.
type CatalogRepo struct {
	db   Querier
	conv converter.ProductConverter
}

func NewCatalogRepo(db Querier, conv converter.ProductConverter) *CatalogRepo {
	return &CatalogRepo{
		db:   db,
		conv: conv,
	}
}

// LookupProduct возвращает товар по идентификатору.
// Нет строки — e.ErrNotFound; любой сбой соединения или запроса — e.ErrCatalogUnavailable.
func (c *CatalogRepo) LookupProduct(ctx context.Context, itemID string) (*domain.Product, error) {
	query := `
		SELECT id, description, price::text
		FROM products
		WHERE id = $1
	`

	var model converter.ProductModel
	err := c.db.QueryRow(ctx, query, itemID).Scan(&model.ID, &model.Description, &model.Price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(fmt.Sprintf("%s: item %s", whereami.WhereAmI(), itemID), e.ErrNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), e.WithKind(e.ErrCatalogUnavailable, err))
	}

	product, err := c.conv.ToEntity(&model)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), e.WithKind(e.ErrCatalogUnavailable, err))
	}

	return product, nil
}
