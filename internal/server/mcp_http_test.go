package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bearerTransport struct {
	token string
}

func (b bearerTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.Header.Set("Authorization", "Bearer "+b.token)
	return http.DefaultTransport.RoundTrip(r)
}

func connectMCP(t *testing.T, url string, httpClient *http.Client) *mcpsdk.ClientSession {
	t.Helper()
	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test-client", Version: "v0"}, nil)
	cs, err := client.Connect(context.Background(), &mcpsdk.StreamableClientTransport{
		Endpoint:   url + "/mcp",
		HTTPClient: httpClient,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { cs.Close() })
	return cs
}

func TestMCPOverHTTP(t *testing.T) {
	s := newTestServer(t, Options{EnableMCP: true, AuthToken: "secret"})
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	cs := connectMCP(t, srv.URL, &http.Client{Transport: bearerTransport{token: "secret"}})
	ctx := context.Background()

	res, err := cs.CallTool(ctx, &mcpsdk.CallToolParams{
		Name:      "vector_distance",
		Arguments: map[string]any{"a": []float32{0, 0}, "b": []float32{3, 4}},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	out, ok := res.StructuredContent.(map[string]any)
	require.True(t, ok, "%T", res.StructuredContent)
	assert.Equal(t, 5.0, out["distance"])
	assert.Equal(t, "euclidean", out["metric"])

	// Tools share the store behind the REST API.
	_, err = cs.CallTool(ctx, &mcpsdk.CallToolParams{
		Name:      "insert_vector",
		Arguments: map[string]any{"id": "from-mcp", "vector": []float32{1, 2}},
	})
	require.NoError(t, err)
	rec, err := s.Store.Get("from-mcp")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2}, rec.Vector)
}

func TestMCPRouteRequiresAuth(t *testing.T) {
	h := newTestServer(t, Options{EnableMCP: true, AuthToken: "secret"}).Handler()

	rec := do(t, h, http.MethodPost, "/mcp", "{}", "Content-Type", "application/json")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMCPRouteDisabled(t *testing.T) {
	h := newTestServer(t, Options{}).Handler()

	rec := do(t, h, http.MethodPost, "/mcp", "{}", "Content-Type", "application/json")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMCPRouteRateLimited(t *testing.T) {
	h := newTestServer(t, Options{EnableMCP: true, RateLimitRPS: 0.001, RateLimitBurst: 1}).Handler()

	body := `{"jsonrpc":"2.0","id":1,"method":"ping"}`
	rec := do(t, h, http.MethodPost, "/mcp", body, "Content-Type", "application/json")
	assert.NotEqual(t, http.StatusTooManyRequests, rec.Code)

	rec = do(t, h, http.MethodPost, "/mcp", body, "Content-Type", "application/json")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
