// Command hermes runs the in-memory vector store behind an HTTP API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sanonone/hermes/internal/config"
	"github.com/sanonone/hermes/internal/logging"
	"github.com/sanonone/hermes/internal/server"
	"github.com/sanonone/hermes/internal/store"
	"github.com/sanonone/hermes/pkg/core/distance"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "hermes:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "Path to a YAML configuration file")
	httpAddr := flag.String("http-addr", "", "HTTP listen address, overrides the config (e.g. :8080)")
	mcpStdio := flag.Bool("mcp-stdio", false, "Also serve the MCP tools on stdin/stdout")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *httpAddr != "" {
		cfg.HTTPAddr = *httpAddr
	}

	// stdout belongs to the MCP stdio transport when it is enabled.
	if _, err := logging.Setup(os.Stderr, cfg.LogFormat, cfg.LogLevel); err != nil {
		return err
	}

	metric, _ := distance.ParseMetric(cfg.Metric)
	precision, _ := distance.ParsePrecision(cfg.Precision)
	st, err := store.New(store.Options{
		Metric:    metric,
		Precision: precision,
		Dimension: cfg.Dimension,
	})
	if err != nil {
		return err
	}

	cpu := distance.Capabilities()
	slog.Info("Hermes starting",
		"version", server.Version,
		"metric", metric,
		"precision", precision,
		"dimension", cfg.Dimension,
		"cpu", cpu.Brand,
		"features", cpu.Features,
	)

	srv := server.NewServer(st, server.Options{
		Addr:           cfg.HTTPAddr,
		AuthToken:      cfg.AuthToken,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		EnableMCP:      cfg.MCPEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Run)
	if *mcpStdio {
		g.Go(func() error {
			err := srv.MCPServer().Run(gctx, &mcpsdk.StdioTransport{})
			if err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("MCP stdio: %w", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("Hermes stopped")
	return nil
}
