package gust

import (
	"golang.org/x/sys/cpu"
)

// CPUFeatures tracks the instruction set extensions available on the
// host backing the device.
type CPUFeatures struct {
	HasAVX     bool
	HasAVX2    bool
	HasAVX512F bool
	HasFMA     bool
	HasSSE4    bool
	HasNEON    bool
}

// Global CPU feature detection
var cpuFeatures CPUFeatures

func init() {
	detectCPUFeatures()
}

// detectCPUFeatures populates the global cpuFeatures struct
func detectCPUFeatures() {
	cpuFeatures = CPUFeatures{
		HasSSE4:    cpu.X86.HasSSE41 || cpu.X86.HasSSE42,
		HasAVX:     cpu.X86.HasAVX,
		HasAVX2:    cpu.X86.HasAVX2,
		HasAVX512F: cpu.X86.HasAVX512F,
		HasFMA:     cpu.X86.HasFMA,
		HasNEON:    cpu.ARM64.HasASIMD,
	}
}

// Features returns the detected host capabilities.
func Features() CPUFeatures {
	return cpuFeatures
}

// vectorAlign returns the element-count granularity reduction chunk
// boundaries are rounded to: the widest vector register the host offers,
// in float32 lanes.
func vectorAlign() int {
	switch {
	case cpuFeatures.HasAVX512F:
		return 16
	case cpuFeatures.HasAVX2, cpuFeatures.HasAVX:
		return 8
	default:
		return 4
	}
}
