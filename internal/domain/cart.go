package domain

// Cart — представление корзины владельца, которое возвращается вызывающей стороне.
type Cart struct {
	UserID    string      `json:"userId"`
	Items     []CartEntry `json:"items"`
	ItemCount int         `json:"itemCount"`
}

func NewCart(userID string, items []CartEntry) *Cart {
	if items == nil {
		items = []CartEntry{}
	}

	return &Cart{
		UserID:    userID,
		Items:     items,
		ItemCount: len(items),
	}
}

// Find возвращает позицию по itemID, если она есть в корзине.
func (c *Cart) Find(itemID string) (CartEntry, bool) {
	for _, item := range c.Items {
		if item.ItemID == itemID {
			return item, true
		}
	}

	return CartEntry{}, false
}
