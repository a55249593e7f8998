// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package injection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRuleDefaultsAreClean(t *testing.T) {
	for _, r := range DefaultRules() {
		assert.Empty(t, ValidateRule(r), r.ID)
	}
}

func TestValidateRuleProblems(t *testing.T) {
	cases := []struct {
		name string
		rule Rule
		want string
	}{
		{"no dial digits", Rule{DialCode: "+", LengthMode: LengthEquals, LengthEquals: intPtr(9)}, "dial code must contain digits"},
		{"zero dial code", Rule{DialCode: "+0", LengthMode: LengthEquals, LengthEquals: intPtr(9)}, "dial code must not start with 0"},
		{"equals zero", Rule{DialCode: "+966", LengthMode: LengthEquals, LengthEquals: intPtr(0)}, "equals mode needs a positive length"},
		{"range empty", Rule{DialCode: "+966", LengthMode: LengthRange}, "range mode needs at least one positive bound"},
		{"range inverted", Rule{DialCode: "+966", LengthMode: LengthRange, LengthMin: intPtr(10), LengthMax: intPtr(8)}, "range minimum is greater than maximum"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Contains(t, ValidateRule(tc.rule), tc.want)
		})
	}
}

func TestValidateRuleStructTags(t *testing.T) {
	problems := ValidateRule(Rule{DialCode: "+966", LengthMode: "between", TrunkHandling: "drop"})
	assert.Contains(t, problems, `LengthMode failed "oneof" check`)
	assert.Contains(t, problems, `TrunkHandling failed "oneof" check`)
}

func TestValidateRulesKeysByID(t *testing.T) {
	rules := []Rule{
		DefaultRules()[0],
		{ID: "bad", DialCode: "", LengthMode: LengthEquals},
		{DialCode: "+966", LengthMode: LengthRange},
	}
	got := ValidateRules(rules)
	assert.Len(t, got, 2)
	assert.Contains(t, got, "bad")
	assert.Contains(t, got, "#3")
}

func TestEnsureIDs(t *testing.T) {
	rules := []Rule{{ID: "keep"}, {ID: "  "}, {}}
	out := EnsureIDs(rules)
	assert.Equal(t, "keep", out[0].ID)
	assert.NotEmpty(t, out[1].ID)
	assert.NotEmpty(t, out[2].ID)
	assert.NotEqual(t, out[1].ID, out[2].ID)
	assert.Equal(t, "  ", rules[1].ID, "input must not change")
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Saudi", Rule{ID: "a", Name: "Saudi", DialCode: "+966"}.Label())
	assert.Equal(t, "a", Rule{ID: "a", DialCode: "+966"}.Label())
	assert.Equal(t, "+966", Rule{DialCode: "+966"}.Label())
}
