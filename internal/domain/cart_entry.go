package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartEntryTTL — фиксированное время жизни позиции корзины с момента последнего upsert.
const CartEntryTTL = time.Hour

// CartEntry — единица хранения корзины: одна позиция товара у одного владельца.
// Description и Price — снимок товара на момент записи, повторно с каталогом не сверяются.
type CartEntry struct {
	ID          string `json:"id,omitempty"` // синтетический ключ ownerId_itemId
	ItemID      string `json:"itemId"`
	OwnerID     string `json:"userId"`
	Description string `json:"description"`
	Price       string `json:"price"` // десятичное число строкой
	ExpiresAt   int64  `json:"ttl"`   // unix-время в секундах
}

// NewCartEntry обогащает позицию данными товара и вычисляет срок истечения now + CartEntryTTL.
func NewCartEntry(ownerID string, product *Product, now time.Time) *CartEntry {
	return &CartEntry{
		ID:          CartEntryID(ownerID, product.ID),
		ItemID:      product.ID,
		OwnerID:     ownerID,
		Description: product.Description,
		Price:       FormatPrice(product.Price),
		ExpiresAt:   now.Add(CartEntryTTL).Unix(),
	}
}

// CartEntryID строит синтетический ключ для хранилищ без составных ключей.
func CartEntryID(ownerID, itemID string) string {
	return ownerID + "_" + itemID
}

// Expired сообщает, истёк ли срок позиции к моменту now.
func (c *CartEntry) Expired(now time.Time) bool {
	return c.ExpiresAt <= now.Unix()
}

// FormatPrice рендерит цену строкой, сохраняя масштаб из каталога ("10.00" остаётся "10.00").
func FormatPrice(price decimal.Decimal) string {
	if exp := price.Exponent(); exp < 0 {
		return price.StringFixed(-exp)
	}

	return price.String()
}
