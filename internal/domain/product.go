package domain

import "github.com/shopspring/decimal"

// Product описывает товар каталога. Принадлежит каталогу и сервисом корзин не изменяется.
type Product struct {
	ID          string
	Description string
	Price       decimal.Decimal
}

func NewProduct(id string, description string, price decimal.Decimal) *Product {
	return &Product{
		ID:          id,
		Description: description,
		Price:       price,
	}
}
