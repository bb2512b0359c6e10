// Package server exposes the profile field over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"hierarchicalmenu/profilefield/internal/config"
	"hierarchicalmenu/profilefield/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"
)

type Server struct {
	service *service.Service
	config  config.ServerConfig
	router  chi.Router
}

func New(svc *service.Service, cfg config.ServerConfig) *Server {
	s := &Server{
		service: svc,
		config:  cfg,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/fields/{fieldID}", func(r chi.Router) {
		r.Get("/", s.handleGetField)
		r.Put("/", s.handleSaveField)
		r.Post("/import", s.handleImport)

		r.Route("/nodes", func(r chi.Router) {
			r.Post("/", s.handleAddNode)
			r.Get("/{nodeID}", s.handleGetNode)
			r.Patch("/{nodeID}", s.handleRenameNode)
			r.Delete("/{nodeID}", s.handleDeleteNode)
		})

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Post("/", s.handleSubmit)
			r.Get("/form", s.handleForm)
			r.Post("/cascade", s.handleCascade)
			r.Get("/display", s.handleDisplay)
		})
	})

	return r
}

// Handler returns the routed handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.config.Host, s.config.Port),
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.config.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.config.WriteTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("🌐 Listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info("🛑 Shutting down http server")
	return srv.Shutdown(shutdownCtx)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.WithFields(log.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"duration":   time.Since(start).String(),
			"request_id": middleware.GetReqID(r.Context()),
		}).Debug("request served")
	})
}
