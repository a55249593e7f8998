// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package parallel

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"phone-cleaner/internal/observability"
	"phone-cleaner/internal/row"

	"golang.org/x/sync/errgroup"
)

// DefaultChunkSize is used when a processor is built with a non-positive
// chunk size.
const DefaultChunkSize = 500

// MaxWorkers caps the worker count to avoid resource exhaustion.
const MaxWorkers = 8

// LineFunc classifies one line. i is the 0-based line position.
type LineFunc func(line string, i int) row.Row

// ProgressCallback is called after each chunk with the number of lines done
type ProgressCallback func(completed, total int, current string)

// ProcessingStats tracks processing statistics
type ProcessingStats struct {
	TotalLines    int           `json:"total_lines"`
	Chunks        int           `json:"chunks"`
	ChunkSize     int           `json:"chunk_size"`
	WorkerCount   int           `json:"worker_count"`
	TotalDuration time.Duration `json:"total_duration_ms"`
}

// PanicError carries a panic recovered while processing a chunk.
type PanicError struct {
	Chunk int
	Value interface{}
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic in chunk %d: %v", e.Chunk, e.Value)
}

// ParallelProcessor runs a LineFunc over lines in fixed-size chunks
type ParallelProcessor struct {
	workers   int
	chunkSize int
	observer  *observability.StandardObserver
}

// NewParallelProcessor creates a processor. workers <= 0 sizes the pool
// from the current resource usage, capped at MaxWorkers; workers == 1
// processes chunks in order on the calling goroutine.
func NewParallelProcessor(workers, chunkSize int, observer *observability.StandardObserver) *ParallelProcessor {
	if workers <= 0 {
		workers = OptimalWorkerCount(DefaultResourceLimits(), CurrentMetrics(), 0)
	}
	if workers > MaxWorkers {
		workers = MaxWorkers
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &ParallelProcessor{
		workers:   workers,
		chunkSize: chunkSize,
		observer:  observer,
	}
}

// Workers returns the effective worker count.
func (pp *ParallelProcessor) Workers() int { return pp.workers }

// ChunkSize returns the effective chunk size.
func (pp *ParallelProcessor) ChunkSize() int { return pp.chunkSize }

// ProcessLines applies fn to every line and returns rows in input order.
// Output does not depend on the worker count. Progress is reported after
// each chunk. On cancellation or a chunk panic no rows are returned.
func (pp *ParallelProcessor) ProcessLines(ctx context.Context, lines []string, fn LineFunc, progress ProgressCallback) ([]row.Row, *ProcessingStats, error) {
	start := time.Now()

	var finishTiming func(bool, map[string]interface{})
	if pp.observer != nil {
		finishTiming = pp.observer.StartTiming("parallel_processor", "process_lines", "batch")
	}

	total := len(lines)
	chunks := (total + pp.chunkSize - 1) / pp.chunkSize
	rows := make([]row.Row, total)

	var mu sync.Mutex
	completed := 0
	report := func(n int) {
		if progress == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		completed += n
		progress(completed, total, fmt.Sprintf("%d/%d lines", completed, total))
	}

	var err error
	if pp.workers == 1 || chunks <= 1 {
		err = pp.sequential(ctx, lines, rows, fn, report)
	} else {
		err = pp.concurrent(ctx, lines, rows, fn, report)
	}

	stats := &ProcessingStats{
		TotalLines:    total,
		Chunks:        chunks,
		ChunkSize:     pp.chunkSize,
		WorkerCount:   pp.workers,
		TotalDuration: time.Since(start),
	}

	if finishTiming != nil {
		finishTiming(err == nil, map[string]interface{}{
			"total_lines":  total,
			"chunks":       chunks,
			"worker_count": pp.workers,
		})
	}

	if err != nil {
		return nil, stats, err
	}
	return rows, stats, nil
}

func (pp *ParallelProcessor) sequential(ctx context.Context, lines []string, rows []row.Row, fn LineFunc, report func(int)) error {
	for c, from := 0, 0; from < len(lines); c, from = c+1, from+pp.chunkSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		to := min(from+pp.chunkSize, len(lines))
		if err := runChunk(c, lines, rows, from, to, fn); err != nil {
			return err
		}
		report(to - from)
	}
	return nil
}

func (pp *ParallelProcessor) concurrent(ctx context.Context, lines []string, rows []row.Row, fn LineFunc, report func(int)) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(pp.workers)

	for c, from := 0, 0; from < len(lines); c, from = c+1, from+pp.chunkSize {
		c, from := c, from
		to := min(from+pp.chunkSize, len(lines))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// Chunks own disjoint ranges of rows.
			if err := runChunk(c, lines, rows, from, to, fn); err != nil {
				return err
			}
			report(to - from)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func runChunk(chunk int, lines []string, rows []row.Row, from, to int, fn LineFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Chunk: chunk, Value: r, Stack: debug.Stack()}
		}
	}()
	for i := from; i < to; i++ {
		rows[i] = fn(lines[i], i)
	}
	return nil
}
