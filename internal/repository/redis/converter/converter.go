package converter

import "github.com/DRSN-tech/go-cart/internal/domain"

// CartEntryConverter преобразует CartEntry между domain и моделью Redis.
type CartEntryConverter interface {
	ToRedisModel(entity *domain.CartEntry) *CartEntryRedisModel
	ToEntity(model *CartEntryRedisModel) *domain.CartEntry
}

type cartEntryConverter struct{}

func NewCartEntryConverter() CartEntryConverter {
	return cartEntryConverter{}
}

func (cartEntryConverter) ToRedisModel(entity *domain.CartEntry) *CartEntryRedisModel {
	return &CartEntryRedisModel{
		ItemID:      entity.ItemID,
		OwnerID:     entity.OwnerID,
		Description: entity.Description,
		Price:       entity.Price,
		ExpiresAt:   entity.ExpiresAt,
	}
}

func (cartEntryConverter) ToEntity(model *CartEntryRedisModel) *domain.CartEntry {
	return &domain.CartEntry{
		ID:          domain.CartEntryID(model.OwnerID, model.ItemID),
		ItemID:      model.ItemID,
		OwnerID:     model.OwnerID,
		Description: model.Description,
		Price:       model.Price,
		ExpiresAt:   model.ExpiresAt,
	}
}
