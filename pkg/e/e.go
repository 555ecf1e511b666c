package e

import (
	"errors"
	"fmt"
)

var (
	// Каталог
	ErrNotFound           = errors.New("product not found in catalog")
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// Хранилище корзин
	ErrStoreUnavailable = errors.New("cart store unavailable")

	// 400 Bad Request
	ErrMalformedPayload = errors.New("malformed payload")
	ErrOwnerRequired    = errors.New("userId is required")

	// 404 Not Found
	ErrItemNotFound = errors.New("item not found in catalog")

	// Конфигурация
	ErrIncorrectEnvVariable = errors.New("incorrect environment variable")
	ErrUnknownCartBackend   = errors.New("unknown cart store backend")

	// Точки входа
	ErrMethodNotAllowed = errors.New("method not allowed")

	ErrInternalServerError = errors.New("internal server error")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}

// WithKind помечает ошибку категорией kind, сохраняя исходную причину.
// errors.Is срабатывает и для kind, и для cause.
func WithKind(kind error, cause error) error {
	return fmt.Errorf("%w: %w", kind, cause)
}
