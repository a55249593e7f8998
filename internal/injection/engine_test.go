// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package injection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchDefaultRules(t *testing.T) {
	rules := DefaultRules()

	t.Run("saudi mobile removes trunk", func(t *testing.T) {
		res, ok := Match("0551234567", rules)
		require.True(t, ok)
		assert.Equal(t, "+966551234567", res.E164)
		assert.Equal(t, "rule_saudi_mobile", res.RuleID)
		assert.Equal(t, "551234567", res.NationalNumber)
		assert.Equal(t, "+966", res.MatchedDialCode())
	})

	t.Run("yemen prefixes", func(t *testing.T) {
		res, ok := Match("777123456", rules)
		require.True(t, ok)
		assert.Equal(t, "+967777123456", res.E164)
		assert.Equal(t, "rule_yemen_local", res.RuleID)
	})

	t.Run("no match", func(t *testing.T) {
		_, ok := Match("1234567", rules)
		assert.False(t, ok)
	})
}

func TestMatchFirstRuleWins(t *testing.T) {
	broad := Rule{ID: "broad", DialCode: "+1", LengthMode: LengthRange, LengthMin: intPtr(5), Enabled: true}
	specific := Rule{ID: "specific", DialCode: "+967", LengthMode: LengthEquals, LengthEquals: intPtr(9), Prefixes: []string{"77"}, Enabled: true}

	res, ok := Match("777123456", []Rule{broad, specific})
	require.True(t, ok)
	assert.Equal(t, "broad", res.RuleID)

	res, ok = Match("777123456", []Rule{specific, broad})
	require.True(t, ok)
	assert.Equal(t, "specific", res.RuleID)
}

func TestMatchSkipsUnusableRules(t *testing.T) {
	fallback := Rule{ID: "fallback", DialCode: "+44", LengthMode: LengthRange, LengthMax: intPtr(12), Enabled: true}
	cases := []struct {
		name string
		rule Rule
	}{
		{"disabled", Rule{ID: "x", DialCode: "+966", LengthMode: LengthRange, LengthMin: intPtr(1), Enabled: false}},
		{"no dial digits", Rule{ID: "x", DialCode: "+", LengthMode: LengthRange, LengthMin: intPtr(1), Enabled: true}},
		{"equals without length", Rule{ID: "x", DialCode: "+966", LengthMode: LengthEquals, Enabled: true}},
		{"range without bounds", Rule{ID: "x", DialCode: "+966", LengthMode: LengthRange, Enabled: true}},
		{"prefix mismatch", Rule{ID: "x", DialCode: "+966", LengthMode: LengthRange, LengthMin: intPtr(1), Prefixes: []string{"05"}, Enabled: true}},
		{"only a zero", Rule{ID: "x", DialCode: "+966", LengthMode: LengthEquals, LengthEquals: intPtr(1), TrunkHandling: TrunkRemoveLeading0, Enabled: true}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			local := "712345678"
			if tc.name == "only a zero" {
				local = "0"
			}
			res, ok := Match(local, []Rule{tc.rule, fallback})
			require.True(t, ok)
			assert.Equal(t, "fallback", res.RuleID)
		})
	}
}

func TestMatchRangeOpenBounds(t *testing.T) {
	minOnly := Rule{ID: "min", DialCode: "+20", LengthMode: LengthRange, LengthMin: intPtr(10), Enabled: true}
	_, ok := Match("123456789", []Rule{minOnly})
	assert.False(t, ok)
	_, ok = Match("12345678901234", []Rule{minOnly})
	assert.True(t, ok)

	maxOnly := Rule{ID: "max", DialCode: "+20", LengthMode: LengthRange, LengthMax: intPtr(3), Enabled: true}
	_, ok = Match("123", []Rule{maxOnly})
	assert.True(t, ok)
	_, ok = Match("1234", []Rule{maxOnly})
	assert.False(t, ok)
}

func TestMatchFoldsPrefixes(t *testing.T) {
	rule := Rule{ID: "ar", DialCode: "+٩٦٧", LengthMode: LengthEquals, LengthEquals: intPtr(9), Prefixes: []string{"", "٧٧"}, Enabled: true}
	res, ok := Match("777123456", []Rule{rule})
	require.True(t, ok)
	assert.Equal(t, "+967777123456", res.E164)
}

func TestKeepTrunk(t *testing.T) {
	rule := Rule{ID: "keep", DialCode: "+39", LengthMode: LengthEquals, LengthEquals: intPtr(10), TrunkHandling: TrunkKeep, Enabled: true}
	res, ok := Match("0612345678", []Rule{rule})
	require.True(t, ok)
	assert.Equal(t, "+390612345678", res.E164)
}
