// internal/server/server.go

// Package server exposes the assessment API over HTTP: the question
// catalog, the tone matrix, and the assess operation, plus health and
// metrics endpoints.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"assessment-engine/internal/common/config"
	"assessment-engine/internal/common/logger"
	"assessment-engine/internal/refdata"
	"assessment-engine/internal/service"
)

type Server struct {
	httpServer *http.Server
	store      *refdata.Store
	service    *service.Service
	logger     logger.Logger
}

func New(cfg config.ServerConfig, store *refdata.Store, svc *service.Service, log logger.Logger) *Server {
	s := &Server{
		store:   store,
		service: svc,
		logger:  log.WithFields(map[string]interface{}{"component": "http-server"}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /questions", s.handleQuestions)
	mux.HandleFunc("GET /tone-options", s.handleToneOptions)
	mux.HandleFunc("POST /assess", s.handleAssess)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.Handle("GET /metrics", promhttp.Handler())

	s.httpServer = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      corsMiddleware(loggingMiddleware(s.logger, mux)),
		ReadTimeout:  config.GetDuration(cfg.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.WriteTimeout),
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the fully wrapped handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) Start() error {
	s.logger.Info("http server starting", map[string]interface{}{
		"addr": s.httpServer.Addr,
	})
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down", nil)
	return s.httpServer.Shutdown(ctx)
}
