// Package mcp exposes the vector store as Model Context Protocol tools.
package mcp

import (
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sanonone/hermes/internal/store"
)

// Version is reported to MCP clients during initialisation.
const Version = "0.1.0"

func NewMCPServer(s *store.MemoryStore) *mcp.Server {
	service := NewService(s)

	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "Hermes",
		Version: Version,
	}, nil)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "insert_vector",
		Description: "Store a vector under an id. An existing id is replaced.",
	}, service.InsertVector)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "search_vectors",
		Description: "Find the k stored vectors closest to a query vector, nearest first.",
	}, service.SearchVectors)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "vector_distance",
		Description: "Compute the distance between two vectors of equal length.",
	}, service.VectorDistance)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_vector",
		Description: "Fetch a stored vector by id.",
	}, service.GetVector)

	return srv
}

// NewHTTPHandler serves srv over the streamable HTTP transport.
func NewHTTPHandler(srv *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return srv
	}, nil)
}
