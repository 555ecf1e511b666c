package dynamodb

import "github.com/DRSN-tech/go-cart/internal/domain"

// cartItem — элемент таблицы корзин. Ключ: userId (HASH) + itemId (RANGE); ttl — атрибут TTL таблицы.
type cartItem struct {
	OwnerID     string `dynamodbav:"userId"`
	ItemID      string `dynamodbav:"itemId"`
	Description string `dynamodbav:"description"`
	Price       string `dynamodbav:"price"`
	ExpiresAt   int64  `dynamodbav:"ttl"`
}

func toItem(entry *domain.CartEntry) cartItem {
	return cartItem{
		OwnerID:     entry.OwnerID,
		ItemID:      entry.ItemID,
		Description: entry.Description,
		Price:       entry.Price,
		ExpiresAt:   entry.ExpiresAt,
	}
}

func (i cartItem) toEntity() domain.CartEntry {
	return domain.CartEntry{
		ID:          domain.CartEntryID(i.OwnerID, i.ItemID),
		ItemID:      i.ItemID,
		OwnerID:     i.OwnerID,
		Description: i.Description,
		Price:       i.Price,
		ExpiresAt:   i.ExpiresAt,
	}
}
