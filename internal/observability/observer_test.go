// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestStartTimingLogsOperation(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)
	obs := NewStandardObserver(ObservabilityDebug, &log).WithRunID("run-1")

	done := obs.StartTiming("core", "dedupe", "stdin")
	done(true, map[string]interface{}{"rows": 3})

	out := buf.String()
	assert.Contains(t, out, `"component":"core"`)
	assert.Contains(t, out, `"operation":"dedupe"`)
	assert.Contains(t, out, `"run_id":"run-1"`)
	assert.Contains(t, out, `"target":"stdin"`)
	assert.Contains(t, out, `"rows":3`)
	assert.Contains(t, out, `"level":"info"`)
}

func TestFailedOperationLogsWarning(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)
	obs := NewStandardObserver(ObservabilityMetrics, &log)

	obs.StartTiming("core", "process", "")(false, nil)
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.NotContains(t, buf.String(), "target")
}

func TestObservabilityOffIsSilent(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)
	obs := NewStandardObserver(ObservabilityOff, &log)

	obs.StartTiming("core", "process", "")(true, nil)
	assert.Empty(t, buf.String())

	var nilObs *StandardObserver
	nilObs.LogOperation(StandardObservabilityData{})
}

func TestDebugObserverNestsSteps(t *testing.T) {
	var buf bytes.Buffer
	d := NewDebugObserver(&buf)

	outer := d.StartStep("core", "clean", "list.txt")
	inner := d.StartStep("core", "dedupe", "list.txt")
	d.LogMetric("core", "groups", 2)
	inner(true, "")
	outer(false, "cancelled")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[1], "  "))
	assert.Contains(t, lines[2], "groups = 2")
	assert.Contains(t, lines[4], "failed")
	assert.Same(t, d, d.StandardObserver.DebugObserver)
}
