// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"
	"path/filepath"
	"testing"

	"phone-cleaner/internal/config"
	"phone-cleaner/internal/report"
	"phone-cleaner/internal/row"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePort(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"8080", 8080, false},
		{"65535", 65535, false},
		{"abc", 0, true},
		{"0", 0, true},
		{"70000", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := validatePort(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveConfigurationDefaults(t *testing.T) {
	cfg := config.Default()
	final, err := resolveConfiguration(cfg, "", &configFlags{})
	require.NoError(t, err)

	assert.Equal(t, "text", final.format)
	assert.Equal(t, "cleaned", final.view)
	assert.Equal(t, 1, final.workers)
	assert.Equal(t, config.DefaultChunkSize, final.chunkSize)
	assert.Equal(t, report.DefaultSettings(), final.settings)
}

func TestResolveConfigurationProfile(t *testing.T) {
	cfg := config.Default()
	final, err := resolveConfiguration(cfg, "lenient", &configFlags{})
	require.NoError(t, err)
	assert.False(t, final.settings.StrictMode)

	_, err = resolveConfiguration(cfg, "missing", &configFlags{})
	assert.Error(t, err)
}

func TestResolveConfigurationUnknownPreset(t *testing.T) {
	cfg := config.Default()
	cfg.Defaults.Cleaning.PresetID = "mars"
	_, err := resolveConfiguration(cfg, "", &configFlags{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown preset 'mars'")
}

func TestValidateWebModeFlagsWithoutFlags(t *testing.T) {
	assert.NoError(t, validateWebModeFlags())
}

func TestInvalidRowCountIgnoresBlankLines(t *testing.T) {
	rep := &report.Report{Invalid: []row.Row{
		{Status: row.StatusInvalid, Reason: row.ReasonEmpty},
		{Status: row.StatusInvalid, Reason: row.ReasonNoDigits},
		{Status: row.StatusInvalid, Reason: row.ReasonTooShort},
	}}
	assert.Equal(t, 2, invalidRowCount(rep))
}

func TestWriteOutputAppendsNewline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, writeOutput(path, "name,phone"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "name,phone\n", string(data))
}

func TestShouldSuppressProgressOutput(t *testing.T) {
	assert.True(t, shouldSuppressProgressOutput(&finalConfiguration{}, false))
	assert.True(t, shouldSuppressProgressOutput(&finalConfiguration{quiet: true}, true))
	assert.True(t, shouldSuppressProgressOutput(&finalConfiguration{debug: true}, true))
	assert.False(t, shouldSuppressProgressOutput(&finalConfiguration{}, true))
}
