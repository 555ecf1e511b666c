package firestore

import (
	"time"

	"github.com/DRSN-tech/go-cart/internal/domain"
)

// cartDocument — документ коллекции корзин. expireAt нужен для TTL-политики Firestore,
// ttl хранит тот же срок в unix-секундах, как и остальные варианты хранилища.
type cartDocument struct {
	OwnerID     string    `firestore:"userId"`
	ItemID      string    `firestore:"itemId"`
	Description string    `firestore:"description"`
	Price       string    `firestore:"price"`
	ExpiresAt   int64     `firestore:"ttl"`
	ExpireAt    time.Time `firestore:"expireAt"`
}

func toDocument(entry *domain.CartEntry) cartDocument {
	return cartDocument{
		OwnerID:     entry.OwnerID,
		ItemID:      entry.ItemID,
		Description: entry.Description,
		Price:       entry.Price,
		ExpiresAt:   entry.ExpiresAt,
		ExpireAt:    time.Unix(entry.ExpiresAt, 0).UTC(),
	}
}

func (d cartDocument) toEntity() domain.CartEntry {
	return domain.CartEntry{
		ID:          domain.CartEntryID(d.OwnerID, d.ItemID),
		ItemID:      d.ItemID,
		OwnerID:     d.OwnerID,
		Description: d.Description,
		Price:       d.Price,
		ExpiresAt:   d.ExpiresAt,
	}
}
