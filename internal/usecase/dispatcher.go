package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"github.com/DRSN-tech/go-cart/internal/domain"
	"github.com/DRSN-tech/go-cart/pkg/e"
	"github.com/DRSN-tech/go-cart/pkg/logger"
	"github.com/google/uuid"
)

// Dispatcher сопоставляет имя действия с операцией движка.
// add и removeItem требуют payload с itemId; любое другое имя (в том числе пустое) — чтение корзины.
type Dispatcher struct {
	cartUC CartUC
	logger logger.Logger
}

func NewDispatcher(cartUC CartUC, logger logger.Logger) *Dispatcher {
	return &Dispatcher{cartUC: cartUC, logger: logger}
}

func (d *Dispatcher) Dispatch(ctx context.Context, action, ownerID string, payload []byte) (*Result, error) {
	const op = "Dispatcher.Dispatch"

	invocationID := uuid.NewString()
	d.logger.Infof("Processing action %q for user %s, invocation %s", action, ownerID, invocationID)

	var (
		cart *domain.Cart
		err  error
	)
	switch action {
	case ActionAdd:
		itemID, perr := decodeItemID(payload)
		if perr != nil {
			return nil, e.Wrap(op, perr)
		}
		cart, err = d.cartUC.Add(ctx, ownerID, itemID)
	case ActionRemoveItem:
		itemID, perr := decodeItemID(payload)
		if perr != nil {
			return nil, e.Wrap(op, perr)
		}
		cart, err = d.cartUC.Remove(ctx, ownerID, itemID)
	default:
		cart, err = d.cartUC.Get(ctx, ownerID)
	}
	if err != nil {
		d.logger.Warnf("Action %q failed, invocation %s: %v", action, invocationID, err)
		return nil, e.Wrap(op, err)
	}

	return NewResult(cart), nil
}

// decodeItemID достаёт itemId из JSON-объекта payload.
func decodeItemID(payload []byte) (string, error) {
	if len(bytes.TrimSpace(payload)) == 0 {
		return "", e.Wrap("payload is empty", e.ErrMalformedPayload)
	}

	var body ActionPayload
	if err := json.Unmarshal(payload, &body); err != nil {
		return "", e.WithKind(e.ErrMalformedPayload, err)
	}

	if body.ItemID == nil || strings.TrimSpace(*body.ItemID) == "" {
		return "", e.Wrap("itemId is missing", e.ErrMalformedPayload)
	}

	return *body.ItemID, nil
}
