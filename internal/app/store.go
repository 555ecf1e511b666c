package app

import (
	"context"

	"github.com/DRSN-tech/go-cart/internal/cfg"
	cosmosRepo "github.com/DRSN-tech/go-cart/internal/repository/cosmos"
	dynamoRepo "github.com/DRSN-tech/go-cart/internal/repository/dynamodb"
	firestoreRepo "github.com/DRSN-tech/go-cart/internal/repository/firestore"
	"github.com/DRSN-tech/go-cart/internal/repository/memory"
	redisRepo "github.com/DRSN-tech/go-cart/internal/repository/redis"
	redisConv "github.com/DRSN-tech/go-cart/internal/repository/redis/converter"
	"github.com/DRSN-tech/go-cart/internal/usecase"
	"github.com/DRSN-tech/go-cart/pkg/clients"
	"github.com/DRSN-tech/go-cart/pkg/e"
	"github.com/jimlawless/whereami"
)

// newCartStore выбирает вариант хранилища по CART_STORE_BACKEND. Выбор делается один раз при старте.
func (a *App) newCartStore(ctx context.Context) (usecase.CartStore, error) {
	switch a.cfg.Cart.Backend {
	case cfg.BackendDynamoDB:
		awsCfg, err := a.awsConfig(ctx)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		client := clients.NewDynamoDBClient(awsCfg, a.cfg.Dynamo)
		return dynamoRepo.NewCartRepo(client, a.cfg.Cart.TableName), nil

	case cfg.BackendCosmos:
		container, err := clients.NewCosmosContainer(a.cfg.Cosmos, a.cfg.Cart.TableName)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		return cosmosRepo.NewCartRepo(container), nil

	case cfg.BackendFirestore:
		client, err := clients.NewFirestoreClient(ctx, a.cfg.Firestore)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		a.closer.Add("firestore", func(context.Context) error { return client.Close() })
		return firestoreRepo.NewCartRepo(client, a.cfg.Cart.TableName), nil

	case cfg.BackendRedis:
		client, err := clients.ConnectRedis(ctx, a.cfg.Redis, a.logger)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		a.closer.Add("redis", client.Close)
		return redisRepo.NewCartRepo(client, redisConv.NewCartEntryConverter(), a.logger), nil

	case cfg.BackendMemory:
		a.logger.Warnf("cart store is in-memory: carts are lost on restart and not shared between instances")
		return memory.NewCartRepo(), nil

	default:
		return nil, e.Wrap(a.cfg.Cart.Backend, e.ErrUnknownCartBackend)
	}
}
