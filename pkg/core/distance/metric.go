package distance

import (
	"fmt"

	"github.com/chewxy/math32"
	"gonum.org/v1/gonum/blas/gonum"
)

// Metric names a distance calculation.
type Metric string

const (
	// Euclidean distance, sqrt(sum((a-b)^2)). The default.
	MetricEuclidean Metric = "euclidean"
	// Squared Euclidean distance. Same ordering as MetricEuclidean, no root.
	MetricSquaredEuclidean Metric = "squared_euclidean"
	// Cosine distance, 1 - cosine similarity.
	MetricCosine Metric = "cosine"
)

// Func computes a distance between two whole vectors.
type Func func(a, b []float32) (float32, error)

var gonumEngine = gonum.Implementation{}

func squaredDistance(a, b []float32) (float32, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, len(a), len(b))
	}
	return SquaredEuclidean(a, b, len(a)), nil
}

// cosineDistance uses the Gonum BLAS kernels. A zero vector has no direction,
// so its distance to anything is 1.
func cosineDistance(a, b []float32) (float32, error) {
	n := len(a)
	if n != len(b) {
		return 0, fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, n, len(b))
	}
	if n == 0 {
		return 1, nil
	}
	na := gonumEngine.Snrm2(n, a, 1)
	nb := gonumEngine.Snrm2(n, b, 1)
	if na == 0 || nb == 0 {
		return 1, nil
	}
	sim := gonumEngine.Sdot(n, a, 1, b, 1) / (na * nb)
	// Rounding can push |sim| slightly past 1.
	sim = math32.Max(-1, math32.Min(1, sim))
	return 1 - sim, nil
}

var float32Funcs = map[Metric]Func{
	MetricEuclidean:        Distance,
	MetricSquaredEuclidean: squaredDistance,
	MetricCosine:           cosineDistance,
}

// GetFunc returns the float32 implementation of metric.
func GetFunc(metric Metric) (Func, error) {
	fn, ok := float32Funcs[metric]
	if !ok {
		return nil, fmt.Errorf("metric '%s' not supported for float32 precision", metric)
	}
	return fn, nil
}

// ParseMetric maps a user supplied name to a Metric. The empty string selects
// MetricEuclidean.
func ParseMetric(s string) (Metric, error) {
	if s == "" {
		return MetricEuclidean, nil
	}
	m := Metric(s)
	if _, ok := float32Funcs[m]; !ok {
		return "", fmt.Errorf("unknown metric '%s'", s)
	}
	return m, nil
}
