// Package server implements the gridkit HTTP API.
//
// Routes:
//
//	GET    /healthz
//	GET    /v1/layouts                         newest stored layouts
//	POST   /v1/layouts                         lay out a listing and store it
//	GET    /v1/layouts/{id}                    a stored layout
//	GET    /v1/layouts/{id}/elements           rectangle or index query
//	GET    /v1/layouts/{id}/render.{format}    svg, json, dot, flow, png, pdf
//	DELETE /v1/layouts/{id}
//
// Every JSON response uses the same envelope:
//
//	{"ok": true, "data": {...}}
//	{"ok": false, "error": {"code": "INVALID_LISTING", "message": "..."}}
//
// Error codes come from pkg/errors and map onto HTTP status codes.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/speedui/gridkit/pkg/pipeline"
	"github.com/speedui/gridkit/pkg/store"
)

// Config holds the configuration for the HTTP server.
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MaxBodyBytes int64
}

// Server is the gridkit HTTP API.
type Server struct {
	cfg    Config
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
	router chi.Router
	http   *http.Server
}

// New creates a server and registers all routes. The runner supplies
// caching; the store keeps the layouts clients create.
func New(cfg Config, runner *pipeline.Runner, st store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 4 << 20
	}
	s := &Server{
		cfg:    cfg,
		runner: runner,
		store:  st,
		logger: logger.WithPrefix("http"),
	}
	s.router = s.routes()
	return s
}

// Handler returns the router with its middleware chain.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1/layouts", func(r chi.Router) {
		r.Get("/", s.handleListLayouts)
		r.Post("/", s.handleCreateLayout)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetLayout)
			r.Delete("/", s.handleDeleteLayout)
			r.Get("/elements", s.handleElements)
			r.Get("/render.{format}", s.handleRender)
		})
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, codeNotFound, "no route for "+r.URL.Path, http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, codeMethodNotAllowed, r.Method+" not allowed on "+r.URL.Path, http.StatusMethodNotAllowed)
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.http = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  120 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	s.logger.Info("listening", "addr", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		if err := s.http.Serve(ln); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return s.http.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
