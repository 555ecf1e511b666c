package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/DRSN-tech/go-cart/pkg/e"
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

// ToHTTPResponse сопоставляет категорию ошибки с HTTP-статусом и безопасным сообщением.
// Подробности причины наружу не отдаются, только в лог.
func ToHTTPResponse(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrMalformedPayload):
		return http.StatusBadRequest, e.ErrMalformedPayload.Error()
	case errors.Is(err, e.ErrOwnerRequired):
		return http.StatusBadRequest, e.ErrOwnerRequired.Error()
	case errors.Is(err, e.ErrItemNotFound):
		return http.StatusNotFound, e.ErrItemNotFound.Error()
	case errors.Is(err, e.ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed, e.ErrMethodNotAllowed.Error()
	case errors.Is(err, e.ErrCatalogUnavailable):
		return http.StatusServiceUnavailable, e.ErrCatalogUnavailable.Error()
	case errors.Is(err, e.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, e.ErrStoreUnavailable.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
