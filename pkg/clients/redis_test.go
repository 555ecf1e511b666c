package clients

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DRSN-tech/go-cart/internal/cfg"
	"github.com/DRSN-tech/go-cart/pkg/e"
	"github.com/DRSN-tech/go-cart/pkg/logger"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	rc, err := ConnectRedis(context.Background(), &cfg.RedisCfg{
		Addr:        mr.Addr(),
		DialTimeout: time.Second,
		Timeout:     time.Second,
	}, logger.Nop{})
	require.NoError(t, err)

	require.NoError(t, rc.Client.Set(context.Background(), "k", "v", 0).Err())
	assert.True(t, mr.Exists("k"))
	require.NoError(t, rc.Close(context.Background()))
}

func TestConnectRedis_Unavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := ConnectRedis(context.Background(), &cfg.RedisCfg{
		Addr:        addr,
		DialTimeout: 100 * time.Millisecond,
		Timeout:     100 * time.Millisecond,
	}, logger.Nop{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, e.ErrStoreUnavailable))
}
