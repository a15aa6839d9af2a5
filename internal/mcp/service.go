package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sanonone/hermes/internal/store"
	"github.com/sanonone/hermes/pkg/core/distance"
)

// Service implements the tool handlers on top of a MemoryStore. Errors are
// returned as-is; the SDK reports them to the model as tool errors.
type Service struct {
	store *store.MemoryStore
}

func NewService(s *store.MemoryStore) *Service {
	return &Service{store: s}
}

// --- Tool Handlers ---

func (s *Service) InsertVector(ctx context.Context, req *mcp.CallToolRequest, args InsertVectorArgs) (*mcp.CallToolResult, InsertVectorResult, error) {
	id, err := s.store.Insert(args.ID, args.Vector)
	if err != nil {
		return nil, InsertVectorResult{}, fmt.Errorf("insert failed: %w", err)
	}
	return nil, InsertVectorResult{ID: id, Status: "saved"}, nil
}

func (s *Service) SearchVectors(ctx context.Context, req *mcp.CallToolRequest, args SearchVectorsArgs) (*mcp.CallToolResult, SearchVectorsResult, error) {
	results, err := s.store.Search(args.Vector, args.K)
	if err != nil {
		return nil, SearchVectorsResult{}, fmt.Errorf("search failed: %w", err)
	}
	hits := make([]SearchHit, len(results))
	for i, r := range results {
		hits[i] = SearchHit{ID: r.ID, Distance: r.Distance}
	}
	return nil, SearchVectorsResult{Results: hits, Count: len(hits)}, nil
}

func (s *Service) VectorDistance(ctx context.Context, req *mcp.CallToolRequest, args VectorDistanceArgs) (*mcp.CallToolResult, VectorDistanceResult, error) {
	metric, err := distance.ParseMetric(args.Metric)
	if err != nil {
		return nil, VectorDistanceResult{}, err
	}
	fn, err := distance.GetFunc(metric)
	if err != nil {
		return nil, VectorDistanceResult{}, err
	}
	d, err := fn(args.A, args.B)
	if err != nil {
		return nil, VectorDistanceResult{}, err
	}
	return nil, VectorDistanceResult{Distance: d, Metric: string(metric)}, nil
}

func (s *Service) GetVector(ctx context.Context, req *mcp.CallToolRequest, args GetVectorArgs) (*mcp.CallToolResult, GetVectorResult, error) {
	rec, err := s.store.Get(args.ID)
	if err != nil {
		return nil, GetVectorResult{}, err
	}
	return nil, GetVectorResult{ID: rec.ID, Vector: rec.Vector}, nil
}
