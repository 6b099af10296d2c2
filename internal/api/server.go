package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"contentregistry/internal/metrics"
	"contentregistry/internal/registry"
	"contentregistry/internal/storage"
)

// Server represents the HTTP API server
// Provides endpoints for Prometheus metrics, health checks, and the
// registry's read/write operations
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	registry   *registry.Registry
	repository storage.Repository
	port       int
}

// NewServer creates a new API server instance
// The registry serves all reads and mutations; the repository backs the
// paginated list endpoint and the health check
func NewServer(port int, reg *registry.Registry, repository storage.Repository) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		mux:        mux,
		registry:   reg,
		repository: repository,
		port:       port,
	}

	// Register all HTTP routes
	s.registerRoutes()

	return s
}

// registerRoutes sets up all HTTP routes
func (s *Server) registerRoutes() {
	// Core endpoints
	s.mux.HandleFunc("/", counted("index", s.handleIndex))
	s.mux.HandleFunc("/health", counted("health", s.handleHealth))
	s.mux.Handle("/metrics", s.handleMetrics())

	// Content endpoints
	s.mux.HandleFunc("/contents", counted("contents", s.handleContents))
	s.mux.HandleFunc("/contents/", counted("contents", s.handleContentRoutes))

	// Authority-gated configuration
	s.mux.HandleFunc("/admin/authority", counted("admin", s.handleSetAuthority))
	s.mux.HandleFunc("/admin/max-contents", counted("admin", s.handleSetMaxContents))
	s.mux.HandleFunc("/admin/fee", counted("admin", s.handleSetRegistrationFee))
}

// counted wraps a handler with the per-endpoint request counter
func counted(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metrics.APIRequestsTotal.WithLabelValues(endpoint).Inc()
		next(w, r)
	}
}

// handleContents routes the collection endpoint (without trailing slash)
func (s *Server) handleContents(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListContents(w, r)
	case http.MethodPost:
		s.handleRegister(w, r)
	default:
		s.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleContentRoutes routes content sub-endpoints (with trailing slash)
func (s *Server) handleContentRoutes(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/contents/")
	parts := strings.Split(path, "/")

	// POST /contents/verify
	if len(parts) == 1 && parts[0] == "verify" {
		if r.Method != http.MethodPost {
			s.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.handleVerifyOwnership(w, r)
		return
	}

	if r.Method == http.MethodPut && len(parts) == 1 {
		s.handleUpdate(w, r, parts[0])
		return
	}

	if r.Method != http.MethodGet {
		s.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// GET /contents/count
	if len(parts) == 1 && parts[0] == "count" {
		s.handleCount(w, r)
		return
	}

	// GET /contents/{id}
	if len(parts) == 1 {
		s.handleGetContent(w, r, parts[0])
		return
	}

	// GET /contents/{id}/update
	if len(parts) == 2 && parts[1] == "update" {
		s.handleGetContentUpdate(w, r, parts[0])
		return
	}

	s.sendError(w, "Endpoint not found", http.StatusNotFound)
}

// Start starts the HTTP server in a goroutine
// Returns immediately after starting the server
func (s *Server) Start() error {
	go func() {
		slog.Info("API server starting",
			"port", s.port,
			"endpoints", []string{"/", "/health", "/metrics", "/contents"},
		)

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("API server error", "error", err)
		}
	}()

	// Give the server a moment to start
	time.Sleep(100 * time.Millisecond)

	return nil
}

// Shutdown gracefully shuts down the HTTP server
// Waits for active connections to close or context to timeout
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("API server shutting down...")
	return s.httpServer.Shutdown(ctx)
}
