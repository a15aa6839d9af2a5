package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sanonone/hermes/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	s, err := store.New(store.DefaultOptions())
	require.NoError(t, err)
	return NewService(s)
}

func TestServiceInsertAndSearch(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, res, err := svc.InsertVector(ctx, nil, InsertVectorArgs{ID: "origin", Vector: []float32{0, 0}})
	require.NoError(t, err)
	assert.Equal(t, "origin", res.ID)

	_, _, err = svc.InsertVector(ctx, nil, InsertVectorArgs{ID: "p", Vector: []float32{3, 4}})
	require.NoError(t, err)

	_, found, err := svc.SearchVectors(ctx, nil, SearchVectorsArgs{Vector: []float32{3, 4}, K: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, found.Count)
	assert.Equal(t, SearchHit{ID: "p", Distance: 0}, found.Results[0])
	assert.Equal(t, SearchHit{ID: "origin", Distance: 5}, found.Results[1])

	_, got, err := svc.GetVector(ctx, nil, GetVectorArgs{ID: "p"})
	require.NoError(t, err)
	assert.Equal(t, []float32{3, 4}, got.Vector)
}

func TestServiceErrors(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.InsertVector(ctx, nil, InsertVectorArgs{ID: "x"})
	assert.True(t, errors.Is(err, store.ErrEmptyVector))

	_, _, err = svc.GetVector(ctx, nil, GetVectorArgs{ID: "missing"})
	assert.True(t, errors.Is(err, store.ErrNotFound))

	_, _, err = svc.VectorDistance(ctx, nil, VectorDistanceArgs{A: []float32{1}, B: []float32{1, 2}})
	assert.Error(t, err)

	_, _, err = svc.VectorDistance(ctx, nil, VectorDistanceArgs{A: []float32{1}, B: []float32{2}, Metric: "jaccard"})
	assert.Error(t, err)
}

func TestServiceVectorDistance(t *testing.T) {
	svc := newTestService(t)
	_, res, err := svc.VectorDistance(context.Background(), nil, VectorDistanceArgs{
		A: []float32{0, 0},
		B: []float32{3, 4},
	})
	require.NoError(t, err)
	assert.Equal(t, float32(5), res.Distance)
	assert.Equal(t, "euclidean", res.Metric)
}

func TestMCPServerOverInMemoryTransport(t *testing.T) {
	ctx := context.Background()
	s, err := store.New(store.DefaultOptions())
	require.NoError(t, err)

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	ss, err := NewMCPServer(s).Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	defer ss.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer cs.Close()

	tools, err := cs.ListTools(ctx, nil)
	require.NoError(t, err)
	names := make([]string, 0, len(tools.Tools))
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"insert_vector", "search_vectors", "vector_distance", "get_vector"}, names)

	res, err := cs.CallTool(ctx, &mcp.CallToolParams{
		Name:      "vector_distance",
		Arguments: map[string]any{"a": []float32{1}, "b": []float32{4}},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)
}
