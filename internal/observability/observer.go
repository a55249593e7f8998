// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"time"

	"phone-cleaner/internal/logger"

	"github.com/rs/zerolog"
)

// StandardObserver times pipeline phases and reports them through zerolog
type StandardObserver struct {
	level         ObservabilityLevel
	log           zerolog.Logger
	runID         string
	DebugObserver *DebugObserver // Reference to debug observer when in debug mode
}

type ObservabilityLevel int

const (
	ObservabilityOff     ObservabilityLevel = 0
	ObservabilityMetrics ObservabilityLevel = 1
	ObservabilityDebug   ObservabilityLevel = 2
)

// NewStandardObserver creates an observer. A nil log uses the global logger.
func NewStandardObserver(level ObservabilityLevel, log *zerolog.Logger) *StandardObserver {
	if log == nil {
		log = logger.Get()
	}
	return &StandardObserver{
		level: level,
		log:   *log,
	}
}

// WithRunID tags every following record with the run id.
func (o *StandardObserver) WithRunID(id string) *StandardObserver {
	o.runID = id
	return o
}

// StartTiming returns a function to complete timing
func (o *StandardObserver) StartTiming(component, operation, target string) func(success bool, metadata map[string]interface{}) {
	start := time.Now()

	return func(success bool, metadata map[string]interface{}) {
		o.LogOperation(StandardObservabilityData{
			Component:  component,
			Operation:  operation,
			Target:     target,
			DurationMs: time.Since(start).Milliseconds(),
			Success:    success,
			Metadata:   metadata,
		})
	}
}

// LogOperation logs operation data. Metrics level logs at debug, debug level
// at info so it shows with default log settings.
func (o *StandardObserver) LogOperation(data StandardObservabilityData) {
	if o == nil || o.level == ObservabilityOff {
		return
	}
	data.RunID = o.runID

	ev := o.log.Debug()
	if o.level == ObservabilityDebug {
		ev = o.log.Info()
	}
	if !data.Success {
		ev = o.log.Warn()
	}

	ev = ev.Str("component", data.Component).
		Str("operation", data.Operation).
		Int64("duration_ms", data.DurationMs).
		Bool("success", data.Success)
	if data.RunID != "" {
		ev = ev.Str("run_id", data.RunID)
	}
	if data.Target != "" {
		ev = ev.Str("target", data.Target)
	}
	if data.Error != "" {
		ev = ev.Str("error", data.Error)
	}
	if len(data.Metadata) > 0 {
		ev = ev.Fields(data.Metadata)
	}
	ev.Msg("operation")
}

// StandardObservabilityData for all components
type StandardObservabilityData struct {
	Component  string                 `json:"component"`
	Operation  string                 `json:"operation"`
	RunID      string                 `json:"run_id,omitempty"`
	Target     string                 `json:"target,omitempty"`
	DurationMs int64                  `json:"duration_ms,omitempty"`
	Success    bool                   `json:"success"`
	Error      string                 `json:"error,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}
