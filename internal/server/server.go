package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/klauspost/compress/gzhttp"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sanonone/hermes/internal/mcp"
	"github.com/sanonone/hermes/internal/store"
	"golang.org/x/time/rate"
)

// Version is reported by GET /info.
const Version = "0.1.0"

// Options configures the HTTP server.
type Options struct {
	Addr      string
	AuthToken string // empty disables authentication

	RateLimitRPS   float64 // 0 disables rate limiting
	RateLimitBurst int     // 0 means ceil(RateLimitRPS)

	EnableMCP bool
}

// Server holds the HTTP interface and the underlying store.
type Server struct {
	Store *store.MemoryStore

	httpServer *http.Server
	mcpServer  *mcpsdk.Server
	limiter    *rate.Limiter
	authToken  string
}

// NewServer wires the handlers and middleware around st.
func NewServer(st *store.MemoryStore, opts Options) *Server {
	s := &Server{
		Store:     st,
		authToken: opts.AuthToken,
		mcpServer: mcp.NewMCPServer(st),
	}
	if opts.RateLimitRPS > 0 {
		burst := opts.RateLimitBurst
		if burst <= 0 {
			burst = int(opts.RateLimitRPS)
			if float64(burst) < opts.RateLimitRPS {
				burst++
			}
		}
		s.limiter = rate.NewLimiter(rate.Limit(opts.RateLimitRPS), burst)
	}

	apiMux := http.NewServeMux()
	s.registerHTTPHandlers(apiMux)

	mux := http.NewServeMux()
	// Streamed MCP responses must not pass through the gzip writer.
	if opts.EnableMCP {
		mux.Handle("/mcp", mcp.NewHTTPHandler(s.mcpServer))
	}
	mux.Handle("/", gzhttp.GzipHandler(apiMux))

	// Chain middlewares: Recovery -> Logging -> RateLimit -> Auth -> Mux.
	// Recovery must be outer-most to catch everything.
	var handler http.Handler = mux
	handler = s.authMiddleware(handler)
	handler = s.rateLimitMiddleware(handler)
	handler = s.LoggingMiddleware(handler)
	handler = s.RecoveryMiddleware(handler)

	rootMux := http.NewServeMux()
	rootMux.HandleFunc("GET /healthz", s.handleHealthz)
	rootMux.Handle("GET /metrics", promhttp.Handler())
	rootMux.Handle("/", handler)

	s.httpServer = &http.Server{
		Addr:    opts.Addr,
		Handler: rootMux,
	}
	return s
}

// Handler returns the root handler, for embedding and tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// MCPServer returns the MCP server backed by the same store, so callers can
// also serve it on another transport such as stdio.
func (s *Server) MCPServer() *mcpsdk.Server {
	return s.mcpServer
}

// Run blocks serving HTTP until Shutdown is called.
func (s *Server) Run() error {
	slog.Info("HTTP server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server startup failed: %w", err)
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("Starting graceful shutdown of HTTP server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP server shutdown: %w", err)
	}
	return nil
}
