package closer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

const defaultForcedTimeout = 2 * time.Second

// Func — сигнатура функции закрытия ресурса.
type Func func(ctx context.Context) error

type resource struct {
	name  string
	close Func
}

// Closer закрывает зарегистрированные ресурсы (пул каталога, клиент хранилища, producer) в обратном порядке.
// Безопасен для конкурентного использования; Close выполняется один раз.
type Closer struct {
	mu            sync.Mutex
	once          sync.Once
	resources     []resource
	forcedTimeout time.Duration
	err           error
}

// NewCloser создает новый экземпляр Closer.
// forcedTimeout — время на принудительное закрытие ресурсов, не успевших закрыться до отмены контекста Close.
func NewCloser(forcedTimeout time.Duration) *Closer {
	if forcedTimeout <= 0 {
		forcedTimeout = defaultForcedTimeout
	}

	return &Closer{forcedTimeout: forcedTimeout}
}

// Add регистрирует ресурс; name попадает в текст ошибки.
func (c *Closer) Add(name string, f Func) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resources = append(c.resources, resource{name: name, close: f})
}

// Close закрывает ресурсы в порядке LIFO. Если ctx отменяется раньше,
// оставшиеся ресурсы закрываются параллельно с собственным таймаутом.
// Ресурс, чьё закрытие уже идёт, повторно не закрывается: Close дожидается его в пределах того же таймаута.
// Повторные вызовы возвращают результат первого.
func (c *Closer) Close(ctx context.Context) error {
	c.once.Do(func() {
		c.mu.Lock()
		resources := c.resources
		c.mu.Unlock()

		remaining, running, errs := c.gracefulClose(ctx, resources)
		if running != nil {
			errs = append(errs, fmt.Errorf("shutdown interrupted: %d/%d resources left: %w",
				len(remaining)+1, len(resources), ctx.Err()))
			errs = append(errs, c.forcedClose(remaining, running)...)
		}

		c.err = errors.Join(errs...)
	})

	return c.err
}

// inFlight — закрытие, которое ещё выполняется в момент отмены контекста.
type inFlight struct {
	name string
	done <-chan error
}

// gracefulClose возвращает ресурсы, до которых не дошла очередь из-за отмены контекста,
// и закрытие, прерванное отменой (nil, если отмены не было).
func (c *Closer) gracefulClose(ctx context.Context, resources []resource) ([]resource, *inFlight, []error) {
	var errs []error
	for i := len(resources) - 1; i >= 0; i-- {
		res := resources[i]
		done := make(chan error, 1)
		go func() {
			done <- res.close(ctx)
		}()

		select {
		case err := <-done:
			if err != nil {
				errs = append(errs, fmt.Errorf("close %s: %w", res.name, err))
			}
		case <-ctx.Done():
			return resources[:i], &inFlight{name: res.name, done: done}, errs
		}
	}

	return nil, nil, errs
}

func (c *Closer) forcedClose(resources []resource, running *inFlight) []error {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	collect := func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.forcedTimeout)
	defer cancel()

	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case err := <-running.done:
			if err != nil {
				collect(fmt.Errorf("close %s: %w", running.name, err))
			}
		case <-ctx.Done():
			collect(fmt.Errorf("close %s: %w", running.name, ctx.Err()))
		}
	}()

	for _, res := range resources {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := res.close(ctx); err != nil {
				collect(fmt.Errorf("forced close %s: %w", res.name, err))
			}
		}()
	}

	wg.Wait()
	return errs
}
