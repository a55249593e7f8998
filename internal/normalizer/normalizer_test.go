// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package normalizer

import (
	"testing"

	"phone-cleaner/internal/countries"
	"phone-cleaner/internal/injection"
	"phone-cleaner/internal/row"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func saudiContext() *Context {
	table := countries.SortByDialCodeLength(countries.MustDefault())
	return &Context{
		Countries:               table,
		DefaultCountry:          countries.LookupByISO2(table, "SA", nil),
		DefaultCountryISO2:      "SA",
		StrictMode:              true,
		AllowMissingTrunkPrefix: true,
		IgnoreUnmatched:         true,
	}
}

func TestSanitize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"+966 55 123 4567", "+966551234567"},
		{"(+966) 55-123", "+96655123"},
		{"٠٥٥ ١٢٣ ٤٥٦٧", "0551234567"},
		{"966+55+1", "966551"},
		{"++966", "+966"},
		{"abc", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Sanitize(tc.in), "input %q", tc.in)
	}
}

func TestNormalizeInternational(t *testing.T) {
	ctx := saudiContext()

	t.Run("e164 round trip", func(t *testing.T) {
		res := Normalize("+966551234567", ctx)
		require.True(t, res.OK)
		assert.Equal(t, "+966551234567", res.Normalized)
		assert.Equal(t, "551234567", res.NationalNumber)
		assert.True(t, res.IsInternational)
		require.NotNil(t, res.Country)
		assert.Equal(t, "SA", res.Country.ISO2)
	})

	t.Run("double zero prefix", func(t *testing.T) {
		res := Normalize("00966551234567", ctx)
		require.True(t, res.OK)
		assert.Equal(t, "+966551234567", res.Normalized)
		assert.True(t, res.IsInternational)
	})

	t.Run("unknown dial code keeps all digits national", func(t *testing.T) {
		res := Normalize("+999123456789", ctx)
		require.True(t, res.OK)
		assert.Nil(t, res.Country)
		assert.Equal(t, "999123456789", res.NationalNumber)
	})

	t.Run("dial code only", func(t *testing.T) {
		res := Normalize("+966", ctx)
		assert.Equal(t, row.ReasonInvalidPrefix, res.Reason)
	})

	t.Run("bare prefixes", func(t *testing.T) {
		assert.Equal(t, row.ReasonNoDigits, Normalize("00", ctx).Reason)
		assert.Equal(t, row.ReasonNoDigits, Normalize("+", ctx).Reason)
		assert.Equal(t, row.ReasonNoDigits, Normalize("tel:", ctx).Reason)
	})

	t.Run("zero after plus", func(t *testing.T) {
		assert.Equal(t, row.ReasonInvalidPrefix, Normalize("+0123456789", ctx).Reason)
		assert.Equal(t, row.ReasonInvalidPrefix, Normalize("000966551234567", ctx).Reason)
	})
}

func TestNormalizeLocal(t *testing.T) {
	t.Run("trunk prefix stripped", func(t *testing.T) {
		res := Normalize("055 123 4567", saudiContext())
		require.True(t, res.OK)
		assert.Equal(t, "+966551234567", res.Normalized)
		assert.False(t, res.IsInternational)
	})

	t.Run("eastern arabic digits", func(t *testing.T) {
		res := Normalize("٠٥٥١٢٣٤٥٦٧", saudiContext())
		require.True(t, res.OK)
		assert.Equal(t, "+966551234567", res.Normalized)
	})

	t.Run("missing trunk allowed", func(t *testing.T) {
		res := Normalize("551234567", saudiContext())
		require.True(t, res.OK)
		assert.Equal(t, "+966551234567", res.Normalized)
	})

	t.Run("missing trunk rejected", func(t *testing.T) {
		ctx := saudiContext()
		ctx.AllowMissingTrunkPrefix = false
		assert.Equal(t, row.ReasonInvalidPrefix, Normalize("551234567", ctx).Reason)
	})

	t.Run("extra zeros stripped", func(t *testing.T) {
		ctx := saudiContext()
		ctx.StripExtraLeadingZeros = true
		res := Normalize("00551234567", ctx)
		// "00" routes to the international path first.
		assert.True(t, res.IsInternational || !res.OK)

		res = Normalize("0 0551234567", ctx)
		assert.True(t, res.IsInternational || !res.OK)

		res = Normalize("0-551234567", ctx)
		require.True(t, res.OK)
		assert.Equal(t, "+966551234567", res.Normalized)
	})

	t.Run("trunk only", func(t *testing.T) {
		assert.Equal(t, row.ReasonInvalidPrefix, Normalize("0", saudiContext()).Reason)
	})

	t.Run("no default country", func(t *testing.T) {
		ctx := saudiContext()
		ctx.DefaultCountry = nil
		assert.Equal(t, row.ReasonAmbiguous, Normalize("0551234567", ctx).Reason)
	})
}

func TestNormalizeConditionalInjection(t *testing.T) {
	base := func() *Context {
		ctx := saudiContext()
		ctx.UseConditionalInjection = true
		ctx.Rules = injection.DefaultRules()
		return ctx
	}

	t.Run("yemen rule", func(t *testing.T) {
		res := Normalize("777123456", base())
		require.True(t, res.OK)
		assert.Equal(t, "+967777123456", res.Normalized)
		assert.Equal(t, "rule_yemen_local", res.MatchedRuleID)
		assert.Equal(t, "+967", res.MatchedRuleDialCode)
		require.NotNil(t, res.Country)
		assert.Equal(t, "YE", res.Country.ISO2)
	})

	t.Run("unmatched ignored", func(t *testing.T) {
		res := Normalize("1234567", base())
		assert.False(t, res.OK)
		assert.Equal(t, row.ReasonNoRuleMatch, res.Reason)
	})

	t.Run("fallback to default", func(t *testing.T) {
		ctx := base()
		ctx.FallbackToDefault = true
		res := Normalize("1234567", ctx)
		require.True(t, res.OK)
		assert.Equal(t, "+9661234567", res.Normalized)
		assert.Empty(t, res.MatchedRuleID)
	})

	t.Run("unmatched not ignored falls back", func(t *testing.T) {
		ctx := base()
		ctx.IgnoreUnmatched = false
		res := Normalize("1234567", ctx)
		require.True(t, res.OK)
		assert.Equal(t, "+9661234567", res.Normalized)
	})

	t.Run("international bypasses rules", func(t *testing.T) {
		res := Normalize("+967777123456", base())
		require.True(t, res.OK)
		assert.Empty(t, res.MatchedRuleID)
	})
}
