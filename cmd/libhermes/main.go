// Command libhermes builds the distance kernel as a C library:
//
//	go build -buildmode=c-shared -o libhermes.so ./cmd/libhermes
//
// The exported symbol matches hermes_distance.h.
package main

/*
#include "hermes_distance.h"
*/
import "C"

import (
	"unsafe"

	"github.com/sanonone/hermes/pkg/core/distance"
)

// euclidean_distance borrows a and b for the duration of the call. Both must
// point to at least n floats; nothing is checked beyond n <= 0 and NULL.
//
//export euclidean_distance
func euclidean_distance(a, b *C.float, n C.int) C.float {
	if n <= 0 || a == nil || b == nil {
		return 0
	}
	xs := unsafe.Slice((*float32)(unsafe.Pointer(a)), int(n))
	ys := unsafe.Slice((*float32)(unsafe.Pointer(b)), int(n))
	return C.float(distance.Euclidean(xs, ys, int(n)))
}

// callFromGo drives euclidean_distance through the C calling convention. It
// exists for main_test.go, since cgo is not allowed in _test.go files.
func callFromGo(a, b []float32, n int) float32 {
	var pa, pb *C.float
	if len(a) > 0 {
		pa = (*C.float)(unsafe.Pointer(&a[0]))
	}
	if len(b) > 0 {
		pb = (*C.float)(unsafe.Pointer(&b[0]))
	}
	return float32(euclidean_distance(pa, pb, C.int(n)))
}

func main() {}
