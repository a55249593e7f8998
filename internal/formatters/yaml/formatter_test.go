// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package yaml

import (
	"context"
	"testing"

	"phone-cleaner/internal/core"
	"phone-cleaner/internal/formatters"
	"phone-cleaner/internal/formatters/shared"
	"phone-cleaner/internal/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestFormatMatchesJSONStructure(t *testing.T) {
	rep, err := core.Clean(context.Background(), core.CleanConfig{
		Input:    "Sara, 0501112222\nSara, 0501112222",
		Settings: report.DefaultSettings(),
	})
	require.NoError(t, err)

	out, err := NewFormatter().Format(rep, formatters.FormatterOptions{})
	require.NoError(t, err)

	var doc shared.ReportDocument
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, rep.RunID, doc.RunID)
	assert.Equal(t, rep.Stats, doc.Stats)
	assert.Equal(t, 1, doc.Stats.Duplicate)
	require.Len(t, doc.Groups.ByNamePhone, 1)
	assert.Equal(t, "+966501112222__sara", doc.Groups.ByNamePhone[0].Key)
}
