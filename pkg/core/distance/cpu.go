package distance

import (
	"runtime"

	"github.com/klauspost/cpuid/v2"
)

// CPUInfo describes the host the kernels run on. The kernels themselves are
// scalar on every platform; this is reported for operators comparing hosts.
type CPUInfo struct {
	Arch          string   `json:"arch"`
	Brand         string   `json:"brand"`
	PhysicalCores int      `json:"physical_cores"`
	LogicalCores  int      `json:"logical_cores"`
	Features      []string `json:"features"`
}

// Capabilities reports the vector-relevant features of the current CPU.
func Capabilities() CPUInfo {
	info := CPUInfo{
		Arch:          runtime.GOARCH,
		Brand:         cpuid.CPU.BrandName,
		PhysicalCores: cpuid.CPU.PhysicalCores,
		LogicalCores:  cpuid.CPU.LogicalCores,
		Features:      []string{},
	}
	for _, f := range []struct {
		id   cpuid.FeatureID
		name string
	}{
		{cpuid.SSE4, "sse4.1"},
		{cpuid.AVX, "avx"},
		{cpuid.AVX2, "avx2"},
		{cpuid.FMA3, "fma3"},
		{cpuid.F16C, "f16c"},
		{cpuid.AVX512F, "avx512f"},
		{cpuid.ASIMD, "asimd"},
		{cpuid.FPHP, "fphp"},
	} {
		if cpuid.CPU.Supports(f.id) {
			info.Features = append(info.Features, f.name)
		}
	}
	return info
}
