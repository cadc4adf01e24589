// Package server exposes the conversion pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ukaji3/datasweeper-go/internal/config"
	"github.com/ukaji3/datasweeper-go/internal/metrics"
	"github.com/ukaji3/datasweeper-go/pkg/datasweeper"
)

// Server wires the router, middleware and HTTP server.
type Server struct {
	cfg      config.ServerConfig
	logger   *slog.Logger
	handler  *Handler
	recorder *metrics.Recorder
	http     *http.Server
}

// New builds a Server from configuration. The processor reports to recorder.
func New(cfg *config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*Server, error) {
	format, err := datasweeper.ParseFormat(cfg.Pipeline.DefaultFormat)
	if err != nil {
		return nil, fmt.Errorf("invalid default format: %w", err)
	}
	processor := datasweeper.NewProcessor(
		datasweeper.WithLogger(logger.With(slog.String("component", "pipeline"))),
		datasweeper.WithObserver(recorder),
		datasweeper.WithPreviewRows(cfg.Pipeline.PreviewRows),
	)

	s := &Server{
		cfg:      cfg.Server,
		logger:   logger,
		handler:  NewHandler(processor, logger, format, cfg.Server.MaxUploadBytes),
		recorder: recorder,
	}
	s.http = &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      s.Routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	return s, nil
}

// Routes returns the HTTP handler with every route mounted.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(middleware.RealIP)
	r.Use(StructuredLogger(s.logger))
	r.Use(Recoverer(s.logger))

	r.Get("/healthz", s.handler.Health)
	r.Handle("/metrics", s.recorder.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if s.cfg.RateLimit.Enabled {
			r.Use(NewRateLimiter(s.cfg.RateLimit.RPS, s.cfg.RateLimit.Burst, s.logger).Handler)
		}
		r.Post("/convert", s.handler.Convert)
		r.Post("/convert/download", s.handler.Download)
		r.Post("/chart", s.handler.Chart)
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", slog.String("addr", s.cfg.Addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
