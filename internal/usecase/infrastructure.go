package usecase

import "context"

// CartEventPublisher публикует события изменения корзин во внешнюю шину.
type CartEventPublisher interface {
	PublishCartEvent(ctx context.Context, event *CartEvent) error
}

type nopPublisher struct{}

func (nopPublisher) PublishCartEvent(context.Context, *CartEvent) error { return nil }
