package clients

import (
	"github.com/Azure/azure-sdk-for-go/sdk/data/azcosmos"
	"github.com/DRSN-tech/go-cart/internal/cfg"
	"github.com/DRSN-tech/go-cart/pkg/e"
	"github.com/jimlawless/whereami"
)

// NewCosmosContainer подключается к аккаунту Cosmos DB по ключу и возвращает клиент контейнера.
func NewCosmosContainer(cfg *cfg.CosmosCfg, container string) (*azcosmos.ContainerClient, error) {
	cred, err := azcosmos.NewKeyCredential(cfg.Key)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	client, err := azcosmos.NewClientWithKey(cfg.Endpoint, cred, nil)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	containerClient, err := client.NewContainer(cfg.Database, container)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return containerClient, nil
}
