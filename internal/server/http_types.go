package server

import (
	"github.com/sanonone/hermes/internal/store"
	"github.com/sanonone/hermes/pkg/core/distance"
)

// InsertRequest is the body of POST /insert.
type InsertRequest struct {
	ID     string    `json:"id"`
	Vector []float32 `json:"vector"`
}

// InsertResponse acknowledges a stored vector.
type InsertResponse struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// SearchRequest is the body of POST /search.
type SearchRequest struct {
	Vector []float32 `json:"vector"`
	K      int       `json:"k"`
}

// SearchResponse carries the nearest neighbours and the server-side latency.
type SearchResponse struct {
	Results []store.SearchResult `json:"results"`
	Count   int                  `json:"count"`
	Latency string               `json:"latency"`
}

// DistanceRequest is the body of POST /distance.
type DistanceRequest struct {
	A      []float32 `json:"a"`
	B      []float32 `json:"b"`
	Metric string    `json:"metric,omitempty"`
}

type DistanceResponse struct {
	Distance float32         `json:"distance"`
	Metric   distance.Metric `json:"metric"`
}

// ListResponse is returned by GET /vectors.
type ListResponse struct {
	IDs    []string `json:"ids"`
	Offset int      `json:"offset"`
	Total  int      `json:"total"`
}

// InfoResponse is returned by GET /info.
type InfoResponse struct {
	Version string           `json:"version"`
	Store   store.Info       `json:"store"`
	CPU     distance.CPUInfo `json:"cpu"`
}
