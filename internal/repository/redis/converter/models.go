package converter

// CartEntryRedisModel — JSON-значение ключа позиции корзины в Redis.
type CartEntryRedisModel struct {
	ItemID      string `json:"itemId"`
	OwnerID     string `json:"userId"`
	Description string `json:"description"`
	Price       string `json:"price"`
	ExpiresAt   int64  `json:"ttl"`
}
