// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"phone-cleaner/internal/countries"
	"phone-cleaner/internal/logger"
	"phone-cleaner/internal/observability"
	"phone-cleaner/internal/parallel"
	"phone-cleaner/internal/presets"
	"phone-cleaner/internal/report"
	"phone-cleaner/internal/row"
)

// CleanConfig holds everything one cleaning run needs.
type CleanConfig struct {
	Input    string
	Source   string // where Input came from, for logs
	Settings report.Settings
	// Table is the reference country table; nil loads the embedded one.
	Table   countries.Table
	Presets *presets.Registry
	// ChunkSize is the number of lines between progress updates.
	ChunkSize int
	// Workers > 1 processes chunks concurrently.
	Workers  int
	Progress parallel.ProgressCallback
	Debug    bool
}

// BatchError is the single batch-fatal outcome of a run. It is distinct
// from per-row invalid reasons, which never abort a batch.
type BatchError struct {
	Op        string
	Err       error
	Recovered interface{}
}

func (e *BatchError) Error() string {
	if e.Recovered != nil {
		return fmt.Sprintf("%s: unexpected fault: %v", e.Op, e.Recovered)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }

// Clean runs the whole pipeline over cfg.Input. The report is built only
// after every line is classified and deduplicated; a cancelled or faulted
// run returns a *BatchError and no report.
func Clean(ctx context.Context, cfg CleanConfig) (rep *report.Report, err error) {
	defer func() {
		if r := recover(); r != nil {
			rep = nil
			err = &BatchError{Op: "clean", Recovered: r}
		}
	}()

	start := time.Now()

	// Build observer
	observer := observability.NewStandardObserver(observability.ObservabilityMetrics, nil)
	var debugObs *observability.DebugObserver
	if cfg.Debug {
		debugObs = observability.NewDebugObserver(os.Stderr)
		observer = debugObs.StandardObserver
	}
	finishRun := observer.StartTiming("core", "clean", cfg.Source)
	step := func(name string) func(bool, string) {
		if debugObs == nil {
			return func(bool, string) {}
		}
		return debugObs.StartStep("core", name, cfg.Source)
	}

	table := cfg.Table
	if table == nil {
		if table, err = countries.Default(); err != nil {
			finishRun(false, nil)
			return nil, &BatchError{Op: "load countries", Err: err}
		}
	}

	lines := report.SplitLines(cfg.Input)

	endAnalyze := step("analyze")
	hints := report.AnalyzeInput(lines)
	endAnalyze(true, fmt.Sprintf("csv_like=%t separator_like=%t", hints.CSVLike, hints.SeparatorLike))

	nctx := report.BuildContext(table, cfg.Settings, cfg.Presets)
	if nctx.DefaultCountry == nil {
		logger.Warn().
			Str("default_country", nctx.DefaultCountryISO2).
			Str("preset", cfg.Settings.PresetID).
			Msg("default country not found, local numbers will be rejected as ambiguous")
	}

	endProcess := step("process")
	pp := parallel.NewParallelProcessor(max(cfg.Workers, 1), cfg.ChunkSize, observer)
	rows, stats, err := pp.ProcessLines(ctx, lines, func(line string, i int) row.Row {
		return report.ProcessLine(line, i, nctx, hints)
	}, cfg.Progress)
	if err != nil {
		endProcess(false, err.Error())
		finishRun(false, map[string]interface{}{"lines": len(lines)})
		var pe *parallel.PanicError
		if errors.As(err, &pe) {
			return nil, &BatchError{Op: "process", Err: err, Recovered: pe.Value}
		}
		return nil, &BatchError{Op: "process", Err: err}
	}
	endProcess(true, fmt.Sprintf("%d lines in %d chunks", stats.TotalLines, stats.Chunks))

	endBuild := step("dedupe")
	rep = report.Build(rows, cfg.Settings, hints, time.Since(start))
	endBuild(true, fmt.Sprintf("%d phone groups", len(rep.DuplicateGroupsByPhone)))
	if debugObs != nil {
		debugObs.LogMetric("core", "name_phone_groups", len(rep.DuplicateGroupsByNamePhone))
		debugObs.LogMetric("core", "name_groups", len(rep.DuplicateGroupsByName))
	}

	observer.WithRunID(rep.RunID)
	finishRun(true, map[string]interface{}{
		"total":     rep.Stats.Total,
		"valid":     rep.Stats.Valid,
		"unique":    rep.Stats.Unique,
		"duplicate": rep.Stats.Duplicate,
		"invalid":   rep.Stats.Invalid,
		"workers":   pp.Workers(),
	})
	return rep, nil
}
