// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package help

import (
	"bytes"
	"strings"
	"testing"

	"phone-cleaner/internal/countries"
	"phone-cleaner/internal/injection"
	"phone-cleaner/internal/presets"
	"phone-cleaner/internal/row"

	"github.com/stretchr/testify/assert"
)

func newTestSystem() (*System, *bytes.Buffer) {
	var buf bytes.Buffer
	h := NewSystem(true)
	h.SetOutput(&buf)
	return h, &buf
}

func TestEveryReasonIsExplained(t *testing.T) {
	for _, r := range row.Reasons {
		_, ok := reasonInfo[r]
		assert.True(t, ok, "missing explanation for %s", r)
	}
	assert.Len(t, reasonInfo, len(row.Reasons))
}

func TestShowReasons(t *testing.T) {
	h, buf := newTestSystem()
	h.ShowReasons()
	out := buf.String()
	for _, r := range row.Reasons {
		assert.Contains(t, out, string(r))
		assert.Contains(t, out, r.Describe())
	}
}

func TestShowReasonHelp(t *testing.T) {
	h, buf := newTestSystem()
	assert.True(t, h.ShowReasonHelp(" TOO_SHORT "))
	assert.Contains(t, buf.String(), "too_short")
	assert.Contains(t, buf.String(), "FIX:")

	buf.Reset()
	assert.False(t, h.ShowReasonHelp("bogus"))
	assert.Contains(t, buf.String(), "reason 'bogus' not found")
}

func TestShowPresets(t *testing.T) {
	h, buf := newTestSystem()
	h.ShowPresets(presets.DefaultRegistry().List(), "yemen")

	var yemenLine string
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.Contains(line, "yemen") {
			yemenLine = line
		}
	}
	assert.True(t, strings.HasPrefix(yemenLine, "* yemen"), yemenLine)
	assert.Contains(t, yemenLine, "YE")
	assert.Contains(t, buf.String(), "saudi")
}

func TestShowRules(t *testing.T) {
	h, buf := newTestSystem()
	rules := injection.DefaultRules()
	rules[1].Enabled = false
	lo, hi := 7, 9
	rules = append(rules, injection.Rule{ID: "r3", DialCode: "+971", LengthMode: injection.LengthRange, LengthMin: &lo, LengthMax: &hi})
	h.ShowRules(rules, true)

	out := buf.String()
	assert.Contains(t, out, "Conditional injection is enabled")
	assert.Contains(t, out, "=10")
	assert.Contains(t, out, "05")
	assert.Contains(t, out, "77,73,71")
	assert.Contains(t, out, "7-9")
	assert.Contains(t, out, "any")
	assert.Contains(t, out, "off")
	assert.Less(t, strings.Index(out, "+966"), strings.Index(out, "+967"))
}

func TestShowRulesEmpty(t *testing.T) {
	h, buf := newTestSystem()
	h.ShowRules(nil, false)
	assert.Contains(t, buf.String(), "disabled")
	assert.Contains(t, buf.String(), "No rules configured.")
}

func TestShowProfiles(t *testing.T) {
	h, buf := newTestSystem()
	h.ShowProfiles(map[string]string{"b": "second", "a": "first"})
	out := buf.String()
	assert.Less(t, strings.Index(out, "first"), strings.Index(out, "second"))

	buf.Reset()
	h.ShowProfiles(nil)
	assert.Contains(t, buf.String(), "No profiles defined.")
}

func TestShowLintIssues(t *testing.T) {
	h, buf := newTestSystem()
	h.ShowLintIssues(nil)
	assert.Contains(t, buf.String(), "agrees")

	buf.Reset()
	h.ShowLintIssues([]countries.LintIssue{{ISO2: "XX", Field: "iso2", Message: "unknown region"}})
	assert.Contains(t, buf.String(), "1 country table issue(s):")
	assert.Contains(t, buf.String(), "unknown region")
}

func TestGeneralHelpMentionsEveryFormat(t *testing.T) {
	h, buf := newTestSystem()
	h.ShowGeneralHelp()
	for _, f := range []string{"text", "json", "csv", "yaml", "junit"} {
		assert.Contains(t, buf.String(), f)
	}
	assert.Contains(t, buf.String(), "-explain-reasons")
}
