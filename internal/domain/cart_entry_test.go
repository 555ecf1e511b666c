package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewCartEntry(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	product := NewProduct("p1", "Widget", decimal.RequireFromString("9.99"))

	entry := NewCartEntry("u1", product, now)

	assert.Equal(t, "u1_p1", entry.ID)
	assert.Equal(t, "u1", entry.OwnerID)
	assert.Equal(t, "p1", entry.ItemID)
	assert.Equal(t, "Widget", entry.Description)
	assert.Equal(t, "9.99", entry.Price)
	assert.Equal(t, int64(1_700_003_600), entry.ExpiresAt)
}

func TestNewCartEntryKeepsDecimalScale(t *testing.T) {
	product := NewProduct("p2", "Gadget", decimal.RequireFromString("10.00"))

	entry := NewCartEntry("u1", product, time.Now())

	assert.Equal(t, "10.00", entry.Price)
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "9.99", FormatPrice(decimal.RequireFromString("9.99")))
	assert.Equal(t, "150", FormatPrice(decimal.NewFromInt(150)))
	assert.Equal(t, "0.10", FormatPrice(decimal.RequireFromString("0.10")))
}

func TestCartEntryExpired(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	entry := CartEntry{ExpiresAt: now.Unix()}

	assert.True(t, entry.Expired(now))
	assert.False(t, entry.Expired(now.Add(-time.Second)))
}

func TestNewCartCountsItems(t *testing.T) {
	empty := NewCart("u1", nil)
	assert.NotNil(t, empty.Items)
	assert.Equal(t, 0, empty.ItemCount)

	cart := NewCart("u1", []CartEntry{{ItemID: "a"}, {ItemID: "b"}})
	assert.Equal(t, 2, cart.ItemCount)

	item, ok := cart.Find("b")
	assert.True(t, ok)
	assert.Equal(t, "b", item.ItemID)

	_, ok = cart.Find("c")
	assert.False(t, ok)
}
