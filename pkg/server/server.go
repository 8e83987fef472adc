package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"github.com/tb0hdan/masscan-mcp/pkg/config"
	"github.com/tb0hdan/masscan-mcp/pkg/metrics"
	"github.com/tb0hdan/masscan-mcp/pkg/storage"
)

const (
	ServiceName       = "Masscan MCP Server"
	ShutdownTimeout   = 10 * time.Second
	ReadHeaderTimeout = 10 * time.Second
)

// Server owns the MCP server and everything it was configured with. It is
// built once at startup; nothing reads the environment after that.
type Server struct {
	*mcp.Server
	cfg     config.ServerConfig
	storage storage.Storage
	metrics *metrics.Metrics
	logger  zerolog.Logger
	version string
}

// NewServer builds the MCP server. store and m may be nil.
func NewServer(cfg config.ServerConfig, impl *mcp.Implementation, store storage.Storage, m *metrics.Metrics, logger zerolog.Logger) *Server {
	return &Server{
		Server:  mcp.NewServer(impl, nil),
		cfg:     cfg,
		storage: store,
		metrics: m,
		logger:  logger.With().Str("component", "server").Logger(),
		version: impl.Version,
	}
}

func (s *Server) Storage() storage.Storage {
	return s.storage
}

func (s *Server) Metrics() *metrics.Metrics {
	return s.metrics
}

func (s *Server) Config() config.ServerConfig {
	return s.cfg
}

// Handler returns the HTTP routes for the http and sse transports.
func (s *Server) Handler() (http.Handler, error) {
	getServer := func(*http.Request) *mcp.Server {
		return s.Server
	}

	mux := http.NewServeMux()
	endpoints := map[string]string{"mcp": "/mcp"}

	switch s.cfg.Transport {
	case config.TransportHTTP:
		// Stateless mode avoids "session not found" errors after server restart
		handler := mcp.NewStreamableHTTPHandler(getServer, &mcp.StreamableHTTPOptions{
			Stateless: true,
		})
		mux.Handle("/mcp", handler)
		mux.Handle("/mcp/", handler)
	case config.TransportSSE:
		handler := mcp.NewSSEHandler(getServer, nil)
		mux.Handle("/mcp", handler)
		mux.Handle("/mcp/sse", handler)
		endpoints["sse"] = "/mcp/sse"
	default:
		return nil, fmt.Errorf("transport %q is not served over HTTP", s.cfg.Transport)
	}

	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
		endpoints["metrics"] = "/metrics"
	}

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":  "ok",
			"version": s.version,
		})
	})

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"service":   ServiceName,
			"version":   s.version,
			"transport": s.cfg.Transport,
			"endpoints": endpoints,
		})
	})

	return mux, nil
}

// Run serves the configured transport until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	if s.cfg.Transport == config.TransportStdio {
		s.logger.Info().Msgf("%s running on stdio", ServiceName)
		if err := s.Server.Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("stdio transport failed: %w", err)
		}
		return nil
	}

	handler, err := s.Handler()
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              s.cfg.Address(),
		Handler:           handler,
		ReadHeaderTimeout: ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.logger.Info().Msgf("%s starting on address %s (%s transport)", ServiceName, s.cfg.Address(), s.cfg.Transport)
	s.logger.Info().Msgf("MCP endpoint available at: http://%s/mcp", s.cfg.Address())

	select {
	case err := <-errCh:
		return fmt.Errorf("%s failed to start: %w", ServiceName, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout) //nolint:contextcheck
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil { //nolint:contextcheck
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

// Shutdown releases the storage.
func (s *Server) Shutdown(_ context.Context) error {
	if s.storage != nil {
		return s.storage.Close()
	}
	return nil
}
