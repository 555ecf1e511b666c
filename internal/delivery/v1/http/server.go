package http

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/DRSN-tech/go-cart/internal/cfg"
)

const readHeaderTimeout = 2 * time.Second

type Server struct {
	httpServer *http.Server
	listener   net.Listener
}

func NewServer(handler http.Handler, cfg *cfg.HTTPConfig) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           handler,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: readHeaderTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
		},
	}
}

// Listen занимает порт заранее, чтобы ошибка привязки вернулась синхронно, до запуска Run в горутине.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	s.listener = ln

	return nil
}

// Addr возвращает фактический адрес (после Listen порт "0" заменяется выданным системой).
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}

	return s.httpServer.Addr
}

func (s *Server) Run() error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	return s.httpServer.Serve(s.listener)
}

func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
