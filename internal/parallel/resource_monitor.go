// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package parallel

import (
	"runtime"
	"time"
)

// ResourceMetrics is a snapshot of process resource usage
type ResourceMetrics struct {
	CPUCores       int       `json:"cpu_cores"`
	GoroutineCount int       `json:"goroutine_count"`
	HeapUsed       uint64    `json:"heap_used_mb"`
	GCCount        uint32    `json:"gc_count"`
	Timestamp      time.Time `json:"timestamp"`
}

// ResourceLimits bounds the automatic worker count
type ResourceLimits struct {
	MaxWorkers      int    `json:"max_workers"`
	MinWorkers      int    `json:"min_workers"`
	MemoryThreshold uint64 `json:"memory_threshold_mb"`
}

// DefaultResourceLimits returns the limits used for automatic sizing
func DefaultResourceLimits() ResourceLimits {
	return ResourceLimits{
		MaxWorkers:      MaxWorkers,
		MinWorkers:      1,
		MemoryThreshold: 1024, // heap above 1GB halves the worker count
	}
}

// CurrentMetrics reads the runtime's view of the process
func CurrentMetrics() ResourceMetrics {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return ResourceMetrics{
		CPUCores:       runtime.NumCPU(),
		GoroutineCount: runtime.NumGoroutine(),
		HeapUsed:       m.HeapAlloc / 1024 / 1024,
		GCCount:        m.NumGC,
		Timestamp:      time.Now(),
	}
}

// IsMemoryPressure reports whether the heap is above the limit threshold
func (l ResourceLimits) IsMemoryPressure(metrics ResourceMetrics) bool {
	return l.MemoryThreshold > 0 && metrics.HeapUsed > l.MemoryThreshold
}

// OptimalWorkerCount sizes the pool from CPU cores, halved under memory
// pressure, and never larger than the number of chunks to process.
func OptimalWorkerCount(limits ResourceLimits, metrics ResourceMetrics, chunks int) int {
	workers := metrics.CPUCores
	if limits.IsMemoryPressure(metrics) {
		workers /= 2
	}
	if chunks > 0 {
		workers = min(workers, chunks)
	}
	if limits.MaxWorkers > 0 {
		workers = min(workers, limits.MaxWorkers)
	}
	return max(workers, limits.MinWorkers, 1)
}
