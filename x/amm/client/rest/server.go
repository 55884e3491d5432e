// Package rest serves read-only amm queries over HTTP from a genesis
// snapshot. It backs the ammcli serve command.
package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"cosmossdk.io/log"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/ammx-chain/ammx/x/amm/client/cli"
)

// Config holds configuration for the quote server
type Config struct {
	// ListenAddr is the host:port the server binds to.
	ListenAddr string

	// EnableCORS allows browser clients from any origin.
	EnableCORS bool

	// AllowedOrigins restricts CORS when non-empty.
	AllowedOrigins []string

	// RateLimit is the per client requests per second. Zero disables it.
	RateLimit int

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig returns the default quote server configuration
func DefaultConfig() Config {
	return Config{
		ListenAddr:   ":1318",
		EnableCORS:   true,
		RateLimit:    50,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
}

// Server is the HTTP quote API over a snapshot.
type Server struct {
	logger     log.Logger
	snapshot   *cli.Snapshot
	metrics    *serverMetrics
	registry   *prometheus.Registry
	httpServer *http.Server
}

// NewServer wires routes, middleware and metrics around snapshot.
func NewServer(cfg Config, snapshot *cli.Snapshot, logger log.Logger) (*Server, error) {
	if snapshot == nil {
		return nil, fmt.Errorf("snapshot is required")
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}

	registry := prometheus.NewRegistry()
	s := &Server{
		logger:   logger.With("module", "amm-rest"),
		snapshot: snapshot,
		metrics:  newServerMetrics(registry),
		registry: registry,
	}
	s.metrics.pairs.Set(float64(snapshot.NumPairs()))

	router := mux.NewRouter()
	s.RegisterRoutes(router)
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	router.Use(s.instrument)

	var httpHandler http.Handler = router
	if cfg.RateLimit > 0 {
		httpHandler = rateLimit(cfg.RateLimit, httpHandler)
	}
	if cfg.EnableCORS {
		origins := cfg.AllowedOrigins
		if len(origins) == 0 {
			origins = []string{"*"}
		}
		c := cors.New(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type"},
		})
		httpHandler = c.Handler(httpHandler)
	}
	httpHandler = requestID(httpHandler)
	httpHandler = handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(httpHandler)

	s.httpServer = &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           httpHandler,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

// Handler returns the root handler, middleware included.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves until Stop is called. It returns nil after a clean shutdown.
func (s *Server) Start() error {
	s.logger.Info("starting amm quote server", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("quote server: %w", err)
	}
	return nil
}

// Stop gracefully stops the server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping amm quote server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}
	return nil
}
