package http

import (
	"net/http"
	"time"

	"github.com/DRSN-tech/go-cart/internal/usecase"
	"github.com/DRSN-tech/go-cart/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(dispatcher usecase.CartDispatcher) {
	r.router.Use(middleware.RequestID)
	r.router.Use(r.requestLogger)
	r.router.Use(middleware.Recoverer)
	r.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Requested-With"},
		MaxAge:         3600,
	}))

	cartHandler := NewCartHandler(dispatcher, r.logger)
	r.router.MethodNotAllowed(cartHandler.methodNotAllowed)

	r.router.Get("/healthz", healthz)
	r.router.Route("/api/v1", func(v1 chi.Router) {
		registerCartRoutes(v1, cartHandler)
	})
}

func registerCartRoutes(router chi.Router, cartHandler *CartHandler) {
	router.Get("/cart", cartHandler.getCart)
	router.Post("/cart", cartHandler.addItem)
	router.Delete("/cart", cartHandler.removeItem)
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requestLogger пишет одну строку на запрос: метод, путь, статус, длительность и request id.
func (r *Router) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		next.ServeHTTP(ww, req)

		r.logger.Debugf("%s %s -> %d in %s (request_id=%s)",
			req.Method, req.URL.Path, ww.Status(), time.Since(start), middleware.GetReqID(req.Context()))
	})
}
