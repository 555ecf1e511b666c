package clients

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/DRSN-tech/go-cart/internal/cfg"
	"github.com/DRSN-tech/go-cart/pkg/e"
	"github.com/jimlawless/whereami"
)

// NewFirestoreClient создаёт клиент Firestore; учётные данные берутся из ADC,
// а при заданном FIRESTORE_EMULATOR_HOST клиент ходит в эмулятор.
func NewFirestoreClient(ctx context.Context, cfg *cfg.FirestoreCfg) (*firestore.Client, error) {
	client, err := firestore.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return client, nil
}
