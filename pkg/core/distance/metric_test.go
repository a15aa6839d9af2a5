package distance

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetFunc(t *testing.T) {
	t.Run("Euclidean", func(t *testing.T) {
		fn, err := GetFunc(MetricEuclidean)
		require.NoError(t, err)
		d, err := fn([]float32{0, 0}, []float32{3, 4})
		require.NoError(t, err)
		assert.Equal(t, float32(5), d)
	})

	t.Run("SquaredEuclidean", func(t *testing.T) {
		fn, err := GetFunc(MetricSquaredEuclidean)
		require.NoError(t, err)
		d, err := fn([]float32{1, 2}, []float32{3, 4})
		require.NoError(t, err)
		assert.Equal(t, float32(8), d)
	})

	t.Run("CosineParallel", func(t *testing.T) {
		fn, err := GetFunc(MetricCosine)
		require.NoError(t, err)
		d, err := fn([]float32{1, 2, 3}, []float32{2, 4, 6})
		require.NoError(t, err)
		assert.InDelta(t, 0, d, 1e-6)
	})

	t.Run("CosineOrthogonal", func(t *testing.T) {
		fn, _ := GetFunc(MetricCosine)
		d, err := fn([]float32{1, 0}, []float32{0, 1})
		require.NoError(t, err)
		assert.InDelta(t, 1, d, 1e-6)
	})

	t.Run("CosineZeroVector", func(t *testing.T) {
		fn, _ := GetFunc(MetricCosine)
		d, err := fn([]float32{0, 0}, []float32{1, 1})
		require.NoError(t, err)
		assert.Equal(t, float32(1), d)
	})

	t.Run("Mismatch", func(t *testing.T) {
		for _, m := range []Metric{MetricEuclidean, MetricSquaredEuclidean, MetricCosine} {
			fn, _ := GetFunc(m)
			_, err := fn([]float32{1}, []float32{1, 2})
			assert.True(t, errors.Is(err, ErrDimensionMismatch), "metric %s", m)
		}
	})

	t.Run("Unknown", func(t *testing.T) {
		_, err := GetFunc("manhattan")
		assert.Error(t, err)
	})
}

func TestParseMetric(t *testing.T) {
	m, err := ParseMetric("")
	require.NoError(t, err)
	assert.Equal(t, MetricEuclidean, m)

	m, err = ParseMetric("cosine")
	require.NoError(t, err)
	assert.Equal(t, MetricCosine, m)

	_, err = ParseMetric("hamming")
	assert.Error(t, err)
}

func TestCapabilities(t *testing.T) {
	info := Capabilities()
	assert.NotEmpty(t, info.Arch)
	assert.NotNil(t, info.Features)
}
