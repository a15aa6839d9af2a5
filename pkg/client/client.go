// Package client provides a Go client for the Hermes HTTP API.
//
// It covers vector insertion and lookup, nearest-neighbour search, ad-hoc
// distance computation, and the health and info endpoints. Non-2xx responses
// are returned as *APIError.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// APIError represents an error returned by the Hermes API (status >= 400).
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
}

// --- JSON models ---

// SearchResult is one nearest neighbour.
type SearchResult struct {
	ID       string  `json:"id"`
	Distance float32 `json:"distance"`
}

// SearchResponse is the full result of a search.
type SearchResponse struct {
	Results []SearchResult `json:"results"`
	Count   int            `json:"count"`
	// Latency is the server-side processing time as formatted by Go.
	Latency string `json:"latency"`
}

// Vector is a stored vector.
type Vector struct {
	ID     string    `json:"id"`
	Vector []float32 `json:"vector"`
}

// Info describes the server and its store.
type Info struct {
	Version string `json:"version"`
	Store   struct {
		Metric      string `json:"metric"`
		Precision   string `json:"precision"`
		Dimension   int    `json:"dimension"`
		VectorCount int    `json:"vector_count"`
	} `json:"store"`
	CPU struct {
		Arch          string   `json:"arch"`
		Brand         string   `json:"brand"`
		PhysicalCores int      `json:"physical_cores"`
		LogicalCores  int      `json:"logical_cores"`
		Features      []string `json:"features"`
	} `json:"cpu"`
}

type insertResponse struct {
	ID string `json:"id"`
}

type distanceResponse struct {
	Distance float32 `json:"distance"`
}

type listResponse struct {
	IDs   []string `json:"ids"`
	Total int      `json:"total"`
}

// --- Client ---

// Client talks to one Hermes server. It is safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option customises a Client.
type Option func(*Client)

// WithAPIKey sends "Authorization: Bearer <key>" on every request.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithHTTPClient replaces the default client (10s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a client for baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// jsonRequest executes a request and decodes a JSON response into out
// (skipped when out is nil).
func (c *Client) jsonRequest(ctx context.Context, method, endpoint string, payload, out any) error {
	var reqBody io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal JSON payload: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("connection error: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		msg := string(body)
		if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
			msg = errResp.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if len(body) == 0 {
		return fmt.Errorf("empty response body (status %d)", resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Insert stores vector under id and returns the stored id. An empty id asks
// the server to generate one.
func (c *Client) Insert(ctx context.Context, id string, vector []float32) (string, error) {
	var resp insertResponse
	payload := map[string]any{"id": id, "vector": vector}
	if err := c.jsonRequest(ctx, http.MethodPost, "/insert", payload, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// Search returns the k nearest stored vectors to query.
func (c *Client) Search(ctx context.Context, query []float32, k int) (*SearchResponse, error) {
	var resp SearchResponse
	payload := map[string]any{"vector": query, "k": k}
	if err := c.jsonRequest(ctx, http.MethodPost, "/search", payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Distance asks the server for the distance between a and b. An empty
// metric means euclidean.
func (c *Client) Distance(ctx context.Context, a, b []float32, metric string) (float32, error) {
	var resp distanceResponse
	payload := map[string]any{"a": a, "b": b}
	if metric != "" {
		payload["metric"] = metric
	}
	if err := c.jsonRequest(ctx, http.MethodPost, "/distance", payload, &resp); err != nil {
		return 0, err
	}
	return resp.Distance, nil
}

// Get fetches a stored vector.
func (c *Client) Get(ctx context.Context, id string) (*Vector, error) {
	var v Vector
	if err := c.jsonRequest(ctx, http.MethodGet, "/vectors/"+url.PathEscape(id), nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Delete removes a stored vector.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.jsonRequest(ctx, http.MethodDelete, "/vectors/"+url.PathEscape(id), nil, nil)
}

// List returns a page of stored ids and the total count.
func (c *Client) List(ctx context.Context, offset, limit int) ([]string, int, error) {
	q := url.Values{}
	q.Set("offset", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(limit))
	var resp listResponse
	if err := c.jsonRequest(ctx, http.MethodGet, "/vectors?"+q.Encode(), nil, &resp); err != nil {
		return nil, 0, err
	}
	return resp.IDs, resp.Total, nil
}

// Info returns server and store details.
func (c *Client) Info(ctx context.Context) (*Info, error) {
	var info Info
	if err := c.jsonRequest(ctx, http.MethodGet, "/info", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Health returns nil when the server answers its health check.
func (c *Client) Health(ctx context.Context) error {
	return c.jsonRequest(ctx, http.MethodGet, "/healthz", nil, nil)
}
