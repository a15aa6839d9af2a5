//go:build !hermesdebug

package distance

// Release builds rely on the runtime bounds check.
func assertLen(a, b []float32, n int) {}

func assertLen16(a, b []uint16, n int) {}
