// Package server exposes code and sheet generation over HTTP.
//
// Routes:
//
//	GET  /health              liveness
//	GET  /layouts             the named layouts
//	GET  /codes?n=&length=    fresh codes as JSON
//	POST /sheets              a rendered sheet (body: pipeline.Options as JSON)
//
// Every code the server issues, through /codes or /sheets, enters one seen
// set, so the server never hands out the same code twice during its
// lifetime. Seed the set from earlier audit logs to extend that guarantee
// across restarts.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/labmed/barcoder/pkg/observability"
	"github.com/labmed/barcoder/pkg/pipeline"
)

// Config holds server configuration.
type Config struct {
	Addr            string
	MaxCodes        int
	ShutdownTimeout time.Duration
}

// Server is the HTTP service.
type Server struct {
	cfg        Config
	runner     *pipeline.Runner
	logger     *log.Logger
	hooks      observability.HTTPHooks
	router     chi.Router
	httpServer *http.Server
}

// New creates a server that renders sheets with runner. The runner's seen
// set, audit writer and cache are shared by all requests; its store is not
// used.
func New(cfg Config, runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.MaxCodes <= 0 {
		cfg.MaxCodes = 10000
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	s := &Server{
		cfg:    cfg,
		runner: runner,
		logger: logger,
		hooks:  observability.HTTP(),
	}
	s.router = s.routes()
	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(timing)
	r.Use(s.logRequests)

	r.Get("/health", s.handleHealth)
	r.Get("/layouts", s.handleLayouts)
	r.Get("/codes", s.handleCodes)
	r.Post("/sheets", s.handleSheets)
	return r
}

// Handler returns the server's routes, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errChan:
		return err
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}
