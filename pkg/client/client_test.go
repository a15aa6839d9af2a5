package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sanonone/hermes/internal/server"
	"github.com/sanonone/hermes/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, token string, opts ...Option) *Client {
	t.Helper()
	st, err := store.New(store.DefaultOptions())
	require.NoError(t, err)
	srv := httptest.NewServer(server.NewServer(st, server.Options{AuthToken: token}).Handler())
	t.Cleanup(srv.Close)
	return New(srv.URL, opts...)
}

func TestClientRoundTrip(t *testing.T) {
	c := newTestClient(t, "")
	ctx := context.Background()

	require.NoError(t, c.Health(ctx))

	id, err := c.Insert(ctx, "origin", []float32{0, 0})
	require.NoError(t, err)
	assert.Equal(t, "origin", id)

	_, err = c.Insert(ctx, "p", []float32{3, 4})
	require.NoError(t, err)

	generated, err := c.Insert(ctx, "", []float32{30, 40})
	require.NoError(t, err)
	assert.NotEmpty(t, generated)

	t.Run("Search", func(t *testing.T) {
		resp, err := c.Search(ctx, []float32{0, 0}, 2)
		require.NoError(t, err)
		assert.Equal(t, 2, resp.Count)
		assert.Equal(t, []SearchResult{{ID: "origin", Distance: 0}, {ID: "p", Distance: 5}}, resp.Results)
		assert.NotEmpty(t, resp.Latency)
	})

	t.Run("Distance", func(t *testing.T) {
		d, err := c.Distance(ctx, []float32{1}, []float32{4}, "")
		require.NoError(t, err)
		assert.Equal(t, float32(3), d)

		d, err = c.Distance(ctx, []float32{1, 0}, []float32{0, 1}, "cosine")
		require.NoError(t, err)
		assert.InDelta(t, 1, d, 1e-6)
	})

	t.Run("GetListDelete", func(t *testing.T) {
		v, err := c.Get(ctx, "p")
		require.NoError(t, err)
		assert.Equal(t, []float32{3, 4}, v.Vector)

		ids, total, err := c.List(ctx, 0, 10)
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Contains(t, ids, "origin")

		require.NoError(t, c.Delete(ctx, "p"))
		_, err = c.Get(ctx, "p")
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	})

	t.Run("Info", func(t *testing.T) {
		info, err := c.Info(ctx)
		require.NoError(t, err)
		assert.Equal(t, "euclidean", info.Store.Metric)
		assert.Equal(t, 2, info.Store.VectorCount)
	})
}

func TestClientAPIErrors(t *testing.T) {
	c := newTestClient(t, "")
	ctx := context.Background()

	_, err := c.Insert(ctx, "empty", nil)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Vector cannot be empty", apiErr.Message)

	_, err = c.Distance(ctx, []float32{1}, []float32{1, 2}, "")
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}

func TestClientNonFiniteDistance(t *testing.T) {
	c := newTestClient(t, "")

	d, err := c.Distance(context.Background(), []float32{3e38}, []float32{-3e38}, "")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr), "got d=%v err=%v", d, err)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
}

func TestClientEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	c := New(srv.URL)
	ctx := context.Background()

	_, err := c.Distance(ctx, []float32{1}, []float32{2}, "")
	assert.Error(t, err)
	// Endpoints without a decoded body accept it.
	assert.NoError(t, c.Health(ctx))
}

func TestClientAuth(t *testing.T) {
	ctx := context.Background()

	anonymous := newTestClient(t, "secret")
	_, err := anonymous.Info(ctx)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	// Health is never authenticated.
	assert.NoError(t, anonymous.Health(ctx))

	authed := newTestClient(t, "secret", WithAPIKey("secret"))
	_, err = authed.Info(ctx)
	assert.NoError(t, err)
}

func TestClientConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := New(url).Health(context.Background())
	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}
