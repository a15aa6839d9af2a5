// Command hermes-load fills a running Hermes server with random vectors and
// then times a nearest-neighbour query, the way embedding workloads would.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"sync/atomic"
	"time"

	"github.com/sanonone/hermes/internal/logging"
	"github.com/sanonone/hermes/pkg/client"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

func main() {
	serverURL := flag.String("server", "http://localhost:8080", "Hermes base URL")
	apiKey := flag.String("api-key", os.Getenv("HERMES_AUTH_TOKEN"), "Bearer token, if the server requires one")
	dim := flag.Int("dim", 1536, "Vector dimension")
	count := flag.Int("count", 50000, "Number of vectors to insert")
	k := flag.Int("k", 5, "Neighbours to request in the final search")
	concurrency := flag.Int("concurrency", 8, "Parallel insert workers")
	rps := flag.Float64("rps", 0, "Client-side insert rate limit, 0 for unlimited")
	flag.Parse()

	if _, err := logging.Setup(os.Stderr, "text", "info"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	c := client.New(*serverURL, client.WithAPIKey(*apiKey))
	ctx := context.Background()

	if err := c.Health(ctx); err != nil {
		slog.Error("Could not connect to Hermes server. Please ensure it is running.", "server", *serverURL, "error", err)
		os.Exit(1)
	}

	if err := insertData(ctx, c, *count, *dim, *concurrency, *rps); err != nil {
		slog.Error("Insertion failed", "error", err)
		os.Exit(1)
	}
	if err := searchData(ctx, c, *dim, *k); err != nil {
		slog.Error("Search request failed", "error", err)
		os.Exit(1)
	}
}

func randomVector(dim int) []float32 {
	v := make([]float32, dim)
	for i := range v {
		v[i] = rand.Float32()
	}
	return v
}

func insertData(ctx context.Context, c *client.Client, count, dim, concurrency int, rps float64) error {
	slog.Info("Starting generation and insertion", "vectors", count, "dim", dim, "workers", concurrency)
	start := time.Now()

	var limiter *rate.Limiter
	if rps > 0 {
		limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}

	var done atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i := 0; i < count; i++ {
		id := fmt.Sprintf("doc_%d", i)
		g.Go(func() error {
			if limiter != nil {
				if err := limiter.Wait(gctx); err != nil {
					return err
				}
			}
			if _, err := c.Insert(gctx, id, randomVector(dim)); err != nil {
				return fmt.Errorf("failed to insert %s: %w", id, err)
			}
			// Progress every 1000 items keeps the output readable.
			if n := done.Add(1); n%1000 == 0 {
				slog.Info("Processed vectors", "count", n)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("Insertion complete", "total_time", time.Since(start).Round(time.Millisecond).String())
	return nil
}

func searchData(ctx context.Context, c *client.Client, dim, k int) error {
	slog.Info("Executing search query")

	start := time.Now()
	resp, err := c.Search(ctx, randomVector(dim), k)
	if err != nil {
		return err
	}
	clientLatency := time.Since(start)

	slog.Info("Search completed",
		"client_latency", clientLatency.String(),
		"server_processing", resp.Latency,
	)

	out, err := json.MarshalIndent(resp.Results, "", "  ")
	if err != nil {
		return err
	}
	fmt.Printf("\nTop %d Results:\n%s\n", k, out)
	return nil
}
