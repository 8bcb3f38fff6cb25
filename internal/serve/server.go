package serve

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/marcus/darktalk/pkg/dialog"
)

// ServeConfig holds the configuration for the HTTP server.
type ServeConfig struct {
	Port       int
	Addr       string
	Token      string
	CORSOrigin string
}

// Server is the darktalk preview server. It hosts dialogs in memory and
// lets HTTP clients render them and drive them with key and click events.
type Server struct {
	config ServeConfig
	mux    *http.ServeMux
	http   *http.Server

	// mu serializes every dialog operation: it plays the part of the
	// single UI thread dialogs expect.
	mu      sync.Mutex
	manager *dialog.Manager
	dialogs map[string]*record
}

// record is a dialog known to the server. Closed dialogs stay until
// deleted so clients can read their outcome.
type record struct {
	d       *dialog.Dialog
	mounted bool
}

// NewServer creates a Server and registers all routes. opts configure the
// dialog manager; the server always installs itself as the host.
func NewServer(config ServeConfig, opts ...dialog.Option) *Server {
	s := &Server{
		config:  config,
		mux:     http.NewServeMux(),
		dialogs: make(map[string]*record),
	}
	s.manager = dialog.NewManager(s, opts...)
	s.registerRoutes()
	return s
}

// Mount implements dialog.Host. Called with s.mu held.
func (s *Server) Mount(d *dialog.Dialog) {
	s.dialogs[d.ID()] = &record{d: d, mounted: true}
}

// Detach implements dialog.Host. Called with s.mu held.
func (s *Server) Detach(d *dialog.Dialog) {
	if rec, ok := s.dialogs[d.ID()]; ok {
		rec.mounted = false
	}
}

// Handler returns the mux wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)

	// Final order (outermost to innermost):
	//   recovery -> logging -> CORS -> auth -> handler
	h = s.authMiddleware(h)
	h = s.corsMiddleware(h)
	h = s.loggingMiddleware(h)
	h = s.recoveryMiddleware(h)

	return h
}

// Listen opens the configured address. Port 0 picks a free port.
func (s *Server) Listen() (net.Listener, error) {
	addr := fmt.Sprintf("%s:%d", s.config.Addr, s.config.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	return ln, nil
}

// Serve serves on ln and shuts down gracefully when ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.http = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

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
		return s.http.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// ============================================================================
// Route Registration
// ============================================================================

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /darktalk.css", s.handleStylesheet)

	s.mux.HandleFunc("GET /v1/dialogs", s.handleListDialogs)
	s.mux.HandleFunc("POST /v1/dialogs", s.handleCreateDialog)
	s.mux.HandleFunc("GET /v1/dialogs/{id}", s.handleGetDialog)
	s.mux.HandleFunc("DELETE /v1/dialogs/{id}", s.handleDeleteDialog)
	s.mux.HandleFunc("GET /v1/dialogs/{id}/page", s.handleDialogPage)

	// Input events
	s.mux.HandleFunc("POST /v1/dialogs/{id}/keys", s.handleKey)
	s.mux.HandleFunc("POST /v1/dialogs/{id}/click", s.handleClick)
	s.mux.HandleFunc("POST /v1/dialogs/{id}/input", s.handleInput)
	s.mux.HandleFunc("POST /v1/dialogs/{id}/progress", s.handleProgress)
}

// ============================================================================
// Middleware
// ============================================================================

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.code = code
	sr.ResponseWriter.WriteHeader(code)
}

// recoveryMiddleware catches panics, logs the stack trace, and returns a 500
// error envelope.
func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("panic recovered",
					"panic", rec,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)
				WriteError(w, ErrInternal, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request with method, path, status code, and
// duration.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sr := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(sr, r)
		slog.Info("req",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sr.code,
			"dur", time.Since(start).String(),
		)
	})
}

// corsMiddleware handles CORS preflight and sets response headers when
// CORSOrigin is configured.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if s.config.CORSOrigin == "" || origin == "" {
			next.ServeHTTP(w, r)
			return
		}
		if s.config.CORSOrigin != "*" && s.config.CORSOrigin != origin {
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		w.Header().Set("Access-Control-Max-Age", "3600")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// authMiddleware validates the Bearer token when one is configured.
// GET /health and the stylesheet are always public.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.config.Token == "" {
			next.ServeHTTP(w, r)
			return
		}
		if r.Method == http.MethodGet && (r.URL.Path == "/health" || r.URL.Path == "/darktalk.css") {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			WriteError(w, ErrUnauthorized, "missing authorization header", http.StatusUnauthorized)
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			WriteError(w, ErrUnauthorized, "invalid authorization format", http.StatusUnauthorized)
			return
		}
		if strings.TrimPrefix(authHeader, "Bearer ") != s.config.Token {
			WriteError(w, ErrUnauthorized, "invalid token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}
