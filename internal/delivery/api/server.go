package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"mcranksync/internal/application"
	"mcranksync/pkg/config"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the REST surface consumed by the Minecraft plugin.
type Server struct {
	httpServer *http.Server
	services   *application.Service
	logger     application.Logger
	token      string
}

func NewServer(cfg *config.Config, services *application.Service, logger application.Logger) *Server {
	s := &Server{
		services: services,
		logger:   logger,
		token:    cfg.APIToken,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.authenticate)
		r.Post("/rank-update", s.handleRankUpdate)
		r.Post("/player-join", s.handlePlayerJoin)
		r.Post("/link", s.handleLink)
		r.Post("/unlink", s.handleUnlink)
		r.Get("/linked/{uuid}", s.handleLinked)
	})

	s.httpServer = &http.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Handler exposes the router, used by tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) Run() error {
	s.logger.Info("REST API server listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
