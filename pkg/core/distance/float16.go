package distance

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/x448/float16"
)

// Precision is the element type a store keeps its vectors in.
type Precision string

const (
	Float32 Precision = "float32"
	// Float16 halves memory at the cost of about three decimal digits.
	Float16 Precision = "float16"
)

// ParsePrecision maps a user supplied name to a Precision. The empty string
// selects Float32.
func ParsePrecision(s string) (Precision, error) {
	switch Precision(s) {
	case "", Float32:
		return Float32, nil
	case Float16:
		return Float16, nil
	}
	return "", fmt.Errorf("unknown precision '%s'", s)
}

// Func16 computes a distance between two float16 vectors stored as raw bits.
type Func16 func(a, b []uint16) (float32, error)

// EncodeFloat16 converts v to float16 bit patterns.
func EncodeFloat16(v []float32) []uint16 {
	out := make([]uint16, len(v))
	for i, f := range v {
		out[i] = float16.Fromfloat32(f).Bits()
	}
	return out
}

// DecodeFloat16 converts float16 bit patterns back to float32.
func DecodeFloat16(v []uint16) []float32 {
	out := make([]float32, len(v))
	for i, u := range v {
		out[i] = float16.Frombits(u).Float32()
	}
	return out
}

// SquaredEuclideanFloat16 widens each element to float32 and accumulates in
// float32, in index order. Same precondition as SquaredEuclidean.
func SquaredEuclideanFloat16(a, b []uint16, n int) float32 {
	assertLen16(a, b, n)
	var sum float32
	for i := 0; i < n; i++ {
		diff := float16.Frombits(a[i]).Float32() - float16.Frombits(b[i]).Float32()
		sum += float32(diff * diff)
	}
	return sum
}

// EuclideanFloat16 is Euclidean over float16 bits.
func EuclideanFloat16(a, b []uint16, n int) float32 {
	return math32.Sqrt(SquaredEuclideanFloat16(a, b, n))
}

var float16Funcs = map[Metric]Func16{
	MetricEuclidean: func(a, b []uint16) (float32, error) {
		if len(a) != len(b) {
			return 0, fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, len(a), len(b))
		}
		return EuclideanFloat16(a, b, len(a)), nil
	},
	MetricSquaredEuclidean: func(a, b []uint16) (float32, error) {
		if len(a) != len(b) {
			return 0, fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, len(a), len(b))
		}
		return SquaredEuclideanFloat16(a, b, len(a)), nil
	},
}

// GetFloat16Func returns the float16 implementation of metric. Only the
// Euclidean family is available at half precision.
func GetFloat16Func(metric Metric) (Func16, error) {
	fn, ok := float16Funcs[metric]
	if !ok {
		return nil, fmt.Errorf("metric '%s' not supported for float16 precision", metric)
	}
	return fn, nil
}
