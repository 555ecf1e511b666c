package usecase

import (
	"time"

	"github.com/DRSN-tech/go-cart/internal/domain"
	"github.com/google/uuid"
)

// Имена действий диспетчера.
const (
	ActionAdd        = "add"
	ActionRemoveItem = "removeItem"
	ActionGetCart    = "getCart"
)

// Result — ответ диспетчера.
type Result struct {
	Success bool         `json:"success"`
	Cart    *domain.Cart `json:"cart,omitempty"`
}

// ActionPayload — тело запроса для add и removeItem.
type ActionPayload struct {
	ItemID *string `json:"itemId"`
}

// CartEventType — тип события изменения корзины.
type CartEventType string

const (
	CartItemAdded   CartEventType = "cart.item_added"
	CartItemRemoved CartEventType = "cart.item_removed"
)

// CartEvent описывает изменение корзины для внешних потребителей.
type CartEvent struct {
	EventID   string        `json:"eventId"`
	Type      CartEventType `json:"type"`
	OwnerID   string        `json:"userId"`
	ItemID    string        `json:"itemId"`
	Price     string        `json:"price,omitempty"`
	ItemCount int           `json:"itemCount"`
	Timestamp int64         `json:"timestamp"`
}

// MAPPERS
func NewResult(cart *domain.Cart) *Result {
	return &Result{
		Success: true,
		Cart:    cart,
	}
}

func NewCartEvent(eventType CartEventType, ownerID, itemID, price string, itemCount int, now time.Time) *CartEvent {
	return &CartEvent{
		EventID:   uuid.NewString(),
		Type:      eventType,
		OwnerID:   ownerID,
		ItemID:    itemID,
		Price:     price,
		ItemCount: itemCount,
		Timestamp: now.UTC().Unix(),
	}
}
