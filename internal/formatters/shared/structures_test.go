// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package shared

import (
	"context"
	"testing"

	"phone-cleaner/internal/core"
	"phone-cleaner/internal/formatters"
	"phone-cleaner/internal/report"
	"phone-cleaner/internal/row"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleLabel(t *testing.T) {
	tests := []struct {
		name      string
		row       row.Row
		injection bool
		want      string
	}{
		{"name wins", row.Row{MatchedRuleName: "Yemen", MatchedRuleID: "r1", MatchedRuleDialCode: "+967"}, true, "Yemen"},
		{"blank name falls to id", row.Row{MatchedRuleName: "  ", MatchedRuleID: "r1", MatchedRuleDialCode: "+967"}, true, "r1"},
		{"dial code last", row.Row{MatchedRuleDialCode: "+967"}, false, "+967"},
		{"no rule match with injection", row.Row{Reason: row.ReasonNoRuleMatch}, true, "no_rule_match"},
		{"no rule match without injection", row.Row{Reason: row.ReasonNoRuleMatch}, false, ""},
		{"other reason", row.Row{Reason: row.ReasonTooShort}, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RuleLabel(tt.row, tt.injection))
		})
	}
}

func TestConvertReport(t *testing.T) {
	rep, err := core.Clean(context.Background(), core.CleanConfig{
		Input:    "Ahmed - 0551234567\nAhmed - +966551234567\nMona",
		Settings: report.DefaultSettings(),
	})
	require.NoError(t, err)

	doc := ConvertReport(rep, formatters.FormatterOptions{})
	assert.Equal(t, rep.RunID, doc.RunID)
	assert.Equal(t, report.Stats{Total: 3, Valid: 2, Unique: 1, Duplicate: 1, Invalid: 1}, doc.Stats)
	require.Len(t, doc.Unique, 1)
	assert.Equal(t, "SA", doc.Unique[0].Country)
	assert.True(t, doc.Unique[0].Kept)
	require.Len(t, doc.Groups.ByPhone, 1)
	assert.Equal(t, []int{1, 2}, doc.Groups.ByPhone[0].Indices)
	assert.Equal(t, 1, doc.Groups.ByPhone[0].KeptIndex)
	require.Len(t, doc.Invalid, 1)
	assert.Equal(t, "no_digits", doc.Invalid[0].Reason)
	assert.Nil(t, doc.Rows)
	assert.Nil(t, doc.Settings)

	verbose := ConvertReport(rep, formatters.FormatterOptions{Verbose: true})
	assert.Len(t, verbose.Rows, 3)
	require.NotNil(t, verbose.Settings)
	assert.Equal(t, "SA", verbose.Settings.DefaultCountryISO2)
}
