// package server contains middleware & handlers for the player web service
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/player/internal/library"
	"github.com/desertthunder/player/internal/shared"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Handler defines the interface for HTTP request handlers in the player service.
// Implementations serve one area of the API (metadata, downloads, search, pages).
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the path patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

const shutdownTimeout = 10 * time.Second

// Server serves the library catalog and the player page.
type Server struct {
	config   shared.ServerConfig
	catalog  *library.Catalog
	provider *PlayerProvider
	router   *BasicRouter
	handler  http.Handler
	logger   *log.Logger
}

// New wires handlers and middleware for catalog and provider.
func New(cfg shared.ServerConfig, catalog *library.Catalog, provider *PlayerProvider, logger *log.Logger) *Server {
	s := &Server{
		config:   cfg,
		catalog:  catalog,
		provider: provider,
		router:   NewBasicRouter(),
		logger:   logger,
	}

	s.router.Use(
		RequestID(),
		Logging(logger),
		RateLimit(cfg.RateLimit, cfg.Burst),
	)

	s.router.Handler(&MetaHandler{catalog: catalog})
	s.router.Handler(&DownloadHandler{catalog: catalog})
	s.router.Handler(&SearchHandler{provider: provider})
	s.router.Handler(&PlayerHandler{provider: provider})
	s.router.Handler(&PageHandler{provider: provider, title: "Player"})
	s.router.Handler(NewStaticHandler())
	s.router.Handle(http.MethodGet, "/healthz", http.HandlerFunc(s.health))

	s.handler = StripPrefix(cfg.Prefix)(s.router)
	return s
}

// ServeHTTP implements [http.Handler].
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// ListenAndServe serves on the configured address until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Addr())
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String(), "prefix", s.config.Prefix)
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	status, session := "ok", ""
	if current := s.provider.Current(); current != nil {
		session = current.ID
	} else {
		status = "starting"
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":     status,
		"songs":      len(s.catalog.Songs()),
		"generation": s.catalog.Generation(),
		"session":    session,
	})
}

// Patterns returns the registered route patterns.
func (s *Server) Patterns() []string {
	return s.router.Patterns()
}
