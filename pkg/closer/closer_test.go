package closer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloseRunsInReverseOrder(t *testing.T) {
	c := NewCloser(0)
	var order []string
	for _, name := range []string{"catalog", "store", "producer"} {
		c.Add(name, func(context.Context) error {
			order = append(order, name)
			return nil
		})
	}

	require.NoError(t, c.Close(context.Background()))
	assert.Equal(t, []string{"producer", "store", "catalog"}, order)
}

func TestCloseCollectsErrorsAndRunsOnce(t *testing.T) {
	c := NewCloser(0)
	calls := 0
	errStore := errors.New("connection reset")
	c.Add("catalog", func(context.Context) error { calls++; return nil })
	c.Add("store", func(context.Context) error { calls++; return errStore })

	err := c.Close(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errStore)
	assert.Contains(t, err.Error(), "close store")

	assert.Equal(t, err, c.Close(context.Background()))
	assert.Equal(t, 2, calls)
}

func TestCloseForcesRemainingAfterCancel(t *testing.T) {
	c := NewCloser(time.Second)
	var (
		mu     sync.Mutex
		forced []string
	)
	c.Add("catalog", func(ctx context.Context) error {
		mu.Lock()
		defer mu.Unlock()
		forced = append(forced, "catalog")
		return nil
	})
	c.Add("slow", func(context.Context) error {
		time.Sleep(200 * time.Millisecond)
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := c.Close(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "shutdown interrupted")
	assert.Contains(t, forced, "catalog")
}

func TestCloseDoesNotRepeatInterruptedClose(t *testing.T) {
	c := NewCloser(time.Second)
	var (
		mu    sync.Mutex
		calls int
	)
	c.Add("store", func(context.Context) error {
		mu.Lock()
		calls++
		second := calls > 1
		mu.Unlock()
		if second {
			return errors.New("client is closed")
		}
		time.Sleep(100 * time.Millisecond)
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := c.Close(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "1/1 resources left")
	assert.NotContains(t, err.Error(), "client is closed")

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, calls)
}
