// Package distance provides the vector distance kernels used by Hermes.
//
// The central function is Euclidean, a sequential single-precision loop over
// two caller-owned buffers followed by one square root. It is pure and
// reentrant: any number of goroutines may call it on shared read-only input.
//
// Around the raw kernel the package offers a checked slice form (Distance),
// a small catalog of metrics addressed by name (GetFunc), and half-precision
// variants for stores that keep vectors as float16 bits.
package distance

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
)

// ErrDimensionMismatch is returned by the checked functions when the two
// vectors do not have the same length.
var ErrDimensionMismatch = errors.New("vectors must have the same length")

// Euclidean returns the Euclidean distance between the first n elements of a
// and b, as float32.
//
// Precondition: len(a) >= n and len(b) >= n. The function does not validate
// this and never truncates; a violation panics with the runtime bounds error
// (or, in builds tagged hermesdebug, with a descriptive assertion). n <= 0
// yields 0.
//
// The sum is accumulated in float32 in index order. Each squared difference
// is rounded to float32 before it is added, so the compiler cannot fuse the
// multiply and add on platforms with FMA.
func Euclidean(a, b []float32, n int) float32 {
	return math32.Sqrt(SquaredEuclidean(a, b, n))
}

// SquaredEuclidean is Euclidean without the final square root. Same
// precondition.
func SquaredEuclidean(a, b []float32, n int) float32 {
	assertLen(a, b, n)
	var sum float32
	for i := 0; i < n; i++ {
		diff := a[i] - b[i]
		sum += float32(diff * diff)
	}
	return sum
}

// Distance is the checked form of Euclidean for whole slices.
func Distance(a, b []float32) (float32, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, len(a), len(b))
	}
	return Euclidean(a, b, len(a)), nil
}
