package converter

import (
	"fmt"

	"github.com/DRSN-tech/go-cart/internal/domain"
	"github.com/shopspring/decimal"
)

// ProductConverter преобразует Product между domain и моделью PostgreSQL.
type ProductConverter interface {
	ToEntity(model *ProductModel) (*domain.Product, error)
}

type productConverter struct{}

func NewProductConverter() ProductConverter {
	return productConverter{}
}

func (productConverter) ToEntity(model *ProductModel) (*domain.Product, error) {
	price, err := decimal.NewFromString(model.Price)
	if err != nil {
		return nil, fmt.Errorf("invalid price %q for product %s: %w", model.Price, model.ID, err)
	}

	return domain.NewProduct(model.ID, model.Description, price), nil
}
