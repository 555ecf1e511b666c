package cosmos

import (
	"time"

	"github.com/DRSN-tech/go-cart/internal/domain"
)

// cartDocument — документ контейнера корзин, раздел по /userId.
// ttl у Cosmos DB относительный (секунды с последней записи), поэтому абсолютный срок хранится отдельно в expiresAt.
type cartDocument struct {
	ID          string `json:"id"`
	OwnerID     string `json:"userId"`
	ItemID      string `json:"itemId"`
	Description string `json:"description"`
	Price       string `json:"price"`
	ExpiresAt   int64  `json:"expiresAt"`
	TTL         int64  `json:"ttl"`
}

func toDocument(entry *domain.CartEntry, now time.Time) cartDocument {
	return cartDocument{
		ID:          domain.CartEntryID(entry.OwnerID, entry.ItemID),
		OwnerID:     entry.OwnerID,
		ItemID:      entry.ItemID,
		Description: entry.Description,
		Price:       entry.Price,
		ExpiresAt:   entry.ExpiresAt,
		TTL:         max(entry.ExpiresAt-now.Unix(), 1),
	}
}

func (d cartDocument) toEntity() domain.CartEntry {
	return domain.CartEntry{
		ID:          d.ID,
		ItemID:      d.ItemID,
		OwnerID:     d.OwnerID,
		Description: d.Description,
		Price:       d.Price,
		ExpiresAt:   d.ExpiresAt,
	}
}
