// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package json

import (
	"context"
	"encoding/json"
	"testing"

	"phone-cleaner/internal/core"
	"phone-cleaner/internal/formatters"
	"phone-cleaner/internal/formatters/shared"
	"phone-cleaner/internal/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatReport(t *testing.T) {
	rep, err := core.Clean(context.Background(), core.CleanConfig{
		Input:    "Ahmed - 0551234567\nAhmed - +966551234567\n\nMona",
		Settings: report.DefaultSettings(),
	})
	require.NoError(t, err)

	out, err := NewFormatter().Format(rep, formatters.FormatterOptions{})
	require.NoError(t, err)

	var doc shared.ReportDocument
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, rep.RunID, doc.RunID)
	assert.Equal(t, report.Stats{Total: 4, Valid: 2, Unique: 1, Duplicate: 1, Invalid: 2}, doc.Stats)
	require.Len(t, doc.Invalid, 2)
	assert.Equal(t, "empty", doc.Invalid[0].Reason)
	assert.Equal(t, "no_digits", doc.Invalid[1].Reason)
	assert.NotContains(t, out, `"rows"`)
	assert.NotContains(t, out, `"settings"`)
}

func TestFormatVerbose(t *testing.T) {
	rep, err := core.Clean(context.Background(), core.CleanConfig{
		Input:    "0551234567",
		Settings: report.DefaultSettings(),
	})
	require.NoError(t, err)

	out, err := NewFormatter().Format(rep, formatters.FormatterOptions{Verbose: true})
	require.NoError(t, err)
	assert.Contains(t, out, `"rows"`)
	assert.Contains(t, out, `"default_country": "SA"`)
	assert.Contains(t, out, `"normalized": "+966551234567"`)
}
