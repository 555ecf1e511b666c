package pgdb

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DRSN-tech/go-cart/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/go-cart/pkg/e"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var lookupQuery = regexp.QuoteMeta(`SELECT id, description, price::text FROM products WHERE id = $1`)

func newCatalog(t *testing.T) (*CatalogRepo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return NewCatalogRepo(mock, converter.NewProductConverter()), mock
}

func TestLookupProductFound(t *testing.T) {
	repo, mock := newCatalog(t)
	mock.ExpectQuery(lookupQuery).
		WithArgs("p1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "description", "price"}).AddRow("p1", "Widget", "9.99"))

	product, err := repo.LookupProduct(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", product.ID)
	assert.Equal(t, "Widget", product.Description)
	assert.Equal(t, "9.99", product.Price.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLookupProductKeepsScale(t *testing.T) {
	repo, mock := newCatalog(t)
	mock.ExpectQuery(lookupQuery).
		WithArgs("p2").
		WillReturnRows(pgxmock.NewRows([]string{"id", "description", "price"}).AddRow("p2", "Gadget", "10.00"))

	product, err := repo.LookupProduct(context.Background(), "p2")
	require.NoError(t, err)
	assert.Equal(t, "10.00", product.Price.StringFixed(-product.Price.Exponent()))
}

func TestLookupProductNotFound(t *testing.T) {
	repo, mock := newCatalog(t)
	mock.ExpectQuery(lookupQuery).
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows([]string{"id", "description", "price"}))

	_, err := repo.LookupProduct(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, e.ErrNotFound)
	assert.NotErrorIs(t, err, e.ErrCatalogUnavailable)
}

func TestLookupProductQueryFailure(t *testing.T) {
	repo, mock := newCatalog(t)
	mock.ExpectQuery(lookupQuery).
		WithArgs("p1").
		WillReturnError(errors.New("connection refused"))

	_, err := repo.LookupProduct(context.Background(), "p1")
	require.Error(t, err)
	assert.ErrorIs(t, err, e.ErrCatalogUnavailable)
	assert.NotErrorIs(t, err, e.ErrNotFound)
}

func TestLookupProductCorruptPrice(t *testing.T) {
	repo, mock := newCatalog(t)
	mock.ExpectQuery(lookupQuery).
		WithArgs("p1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "description", "price"}).AddRow("p1", "Widget", "n/a"))

	_, err := repo.LookupProduct(context.Background(), "p1")
	assert.ErrorIs(t, err, e.ErrCatalogUnavailable)
}
