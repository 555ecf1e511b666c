package clients

import (
	"context"
	"time"

	"github.com/DRSN-tech/go-cart/internal/cfg"
	"github.com/DRSN-tech/go-cart/pkg/e"
	"github.com/DRSN-tech/go-cart/pkg/jitter"
	"github.com/DRSN-tech/go-cart/pkg/logger"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

const (
	redisPingAttempts = 3
	redisPingTimeout  = 2 * time.Second
	redisBackoffBase  = 100 * time.Millisecond
	redisBackoffMax   = time.Second
)

// RedisClient хранит подключение к Redis для варианта хранилища корзин с нативным TTL.
type RedisClient struct {
	Client *r.Client
}

func newRedisOptions(cfg *cfg.RedisCfg) *r.Options {
	return &r.Options{
		Addr:         cfg.Addr,
		Username:     cfg.User,
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	}
}

// ConnectRedis открывает клиент и ждёт ответа на PING с повторами.
// При неудаче клиент закрывается, ошибка помечается как ErrStoreUnavailable.
func ConnectRedis(ctx context.Context, cfg *cfg.RedisCfg, log logger.Logger) (*RedisClient, error) {
	rc := &RedisClient{Client: r.NewClient(newRedisOptions(cfg))}

	for attempt := 0; ; attempt++ {
		err := rc.Ping(ctx)
		if err == nil {
			log.Infof("redis cart store is ready at %s (db %d)", cfg.Addr, cfg.DB)
			return rc, nil
		}
		if attempt == redisPingAttempts-1 || ctx.Err() != nil {
			_ = rc.Client.Close()
			return nil, e.Wrap(whereami.WhereAmI(), e.WithKind(e.ErrStoreUnavailable, err))
		}

		delay := jitter.ExponentialBackoff(redisBackoffBase, redisBackoffMax, attempt, jitter.DefaultJitter)
		log.Warnf("redis is not ready (attempt %d/%d), retrying in %s: %v", attempt+1, redisPingAttempts, delay, err)
		select {
		case <-ctx.Done():
			_ = rc.Client.Close()
			return nil, e.Wrap(whereami.WhereAmI(), ctx.Err())
		case <-time.After(delay):
		}
	}
}

func (rc *RedisClient) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()

	if err := rc.Client.Ping(pingCtx).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	return nil
}

// Close совместим с сигнатурой closer.Func.
func (rc *RedisClient) Close(context.Context) error {
	return rc.Client.Close()
}
