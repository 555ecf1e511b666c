package http

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/DRSN-tech/go-cart/internal/usecase"
	"github.com/DRSN-tech/go-cart/pkg/e"
	"github.com/DRSN-tech/go-cart/pkg/logger"
)

const maxBodySize = 1 << 20

type CartHandler struct {
	dispatcher usecase.CartDispatcher
	logger     logger.Logger
}

func NewCartHandler(dispatcher usecase.CartDispatcher, logger logger.Logger) *CartHandler {
	return &CartHandler{dispatcher: dispatcher, logger: logger}
}

// getCart — GET /api/v1/cart?userId=...
func (h *CartHandler) getCart(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, usecase.ActionGetCart)
}

// addItem — POST /api/v1/cart?userId=... с телом {"itemId": "..."}
func (h *CartHandler) addItem(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, usecase.ActionAdd)
}

// removeItem — DELETE /api/v1/cart?userId=... с телом {"itemId": "..."}
func (h *CartHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, usecase.ActionRemoveItem)
}

func (h *CartHandler) dispatch(w http.ResponseWriter, r *http.Request, action string) {
	ownerID := strings.TrimSpace(r.URL.Query().Get("userId"))
	if ownerID == "" {
		h.logger.Warnf("%d %s: %s %s", http.StatusBadRequest, e.ErrOwnerRequired.Error(), r.Method, r.URL.Path)
		WriteError(w, e.ErrOwnerRequired)
		return
	}

	var body []byte
	if action != usecase.ActionGetCart {
		data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
		if err != nil {
			h.logger.Warnf("%d failed to read body: %v", http.StatusBadRequest, err)
			WriteError(w, e.WithKind(e.ErrMalformedPayload, err))
			return
		}
		body = data
	}

	result, err := h.dispatcher.Dispatch(r.Context(), action, ownerID, body)
	if err != nil {
		code, _ := ToHTTPResponse(err)
		if code >= http.StatusInternalServerError {
			h.logger.Errorf(err, "cart action %s failed for user %s", action, ownerID)
		} else if !errors.Is(err, e.ErrItemNotFound) {
			h.logger.Warnf("%d %s", code, err.Error())
		}
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, result)
}

func (h *CartHandler) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.logger.Warnf("%d %s %s", http.StatusMethodNotAllowed, r.Method, r.URL.Path)
	WriteError(w, e.ErrMethodNotAllowed)
}
