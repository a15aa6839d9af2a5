//go:build hermesdebug

package distance

import "fmt"

func assertLen(a, b []float32, n int) {
	if n > len(a) || n > len(b) {
		panic(fmt.Sprintf("distance: n=%d exceeds buffer length (len(a)=%d, len(b)=%d)", n, len(a), len(b)))
	}
}

func assertLen16(a, b []uint16, n int) {
	if n > len(a) || n > len(b) {
		panic(fmt.Sprintf("distance: n=%d exceeds float16 buffer length (len(a)=%d, len(b)=%d)", n, len(a), len(b)))
	}
}
