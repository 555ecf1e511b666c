package lambda

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	v1Http "github.com/DRSN-tech/go-cart/internal/delivery/v1/http"
	"github.com/DRSN-tech/go-cart/internal/usecase"
	"github.com/DRSN-tech/go-cart/pkg/e"
	"github.com/DRSN-tech/go-cart/pkg/logger"
	"github.com/aws/aws-lambda-go/events"
)

// Event — входное событие функции: действие, владелец в queryStringParameters.userId и JSON-тело.
type Event struct {
	EventType             string            `json:"eventType"`
	QueryStringParameters map[string]string `json:"queryStringParameters"`
	Body                  *string           `json:"body"`
}

type Handler struct {
	dispatcher usecase.CartDispatcher
	logger     logger.Logger
}

func NewHandler(dispatcher usecase.CartDispatcher, logger logger.Logger) *Handler {
	return &Handler{dispatcher: dispatcher, logger: logger}
}

// Handle передаёт событие диспетчеру и упаковывает результат в ответ API Gateway.
// Ошибки действий возвращаются статусом ответа, а не ошибкой вызова, чтобы Lambda не повторяла запрос.
func (h *Handler) Handle(ctx context.Context, event Event) (events.APIGatewayProxyResponse, error) {
	ownerID := strings.TrimSpace(event.QueryStringParameters["userId"])
	if ownerID == "" {
		return h.errorResponse(e.ErrOwnerRequired), nil
	}

	var payload []byte
	if event.Body != nil {
		payload = []byte(*event.Body)
	}

	result, err := h.dispatcher.Dispatch(ctx, event.EventType, ownerID, payload)
	if err != nil {
		if code, _ := v1Http.ToHTTPResponse(err); code >= http.StatusInternalServerError {
			h.logger.Errorf(err, "cart action %s failed for user %s", event.EventType, ownerID)
		} else {
			h.logger.Warnf("cart action %s rejected: %v", event.EventType, err)
		}
		return h.errorResponse(err), nil
	}

	return h.response(http.StatusOK, result), nil
}

func (h *Handler) errorResponse(err error) events.APIGatewayProxyResponse {
	code, msg := v1Http.ToHTTPResponse(err)
	return h.response(code, v1Http.NewErrorResponse(code, msg))
}

func (h *Handler) response(status int, data any) events.APIGatewayProxyResponse {
	body, err := json.Marshal(data)
	if err != nil {
		h.logger.Errorf(err, "failed to encode lambda response")
		status = http.StatusInternalServerError
		body = []byte(`{"code":500,"message":"internal server error"}`)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":                "application/json",
			"Access-Control-Allow-Origin": "*",
		},
		Body: string(body),
	}
}
