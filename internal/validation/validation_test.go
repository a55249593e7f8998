// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package validation

import (
	"testing"

	"phone-cleaner/internal/countries"
	"phone-cleaner/internal/normalizer"
	"phone-cleaner/internal/row"

	"github.com/stretchr/testify/assert"
)

var saudi = &countries.Country{ISO2: "SA", DialCode: "966", TrunkPrefix: "0", NationalNumberLengthMin: 9, NationalNumberLengthMax: 9}

func success(national string, c *countries.Country) normalizer.Result {
	dial := "999"
	if c != nil {
		dial = c.DialCode
	}
	return normalizer.Result{OK: true, Normalized: "+" + dial + national, NationalNumber: national, Country: c}
}

func TestValidateLength(t *testing.T) {
	cases := []struct {
		name   string
		res    normalizer.Result
		strict bool
		reason row.InvalidReason
	}{
		{"within country bounds", success("551234567", saudi), true, ""},
		{"short strict", success("55123456", saudi), true, row.ReasonTooShort},
		{"short lenient forgiven", success("55123456", saudi), false, ""},
		{"short lenient below generic", success("123", saudi), false, row.ReasonTooShort},
		{"long strict", success("5512345678", saudi), true, row.ReasonTooLong},
		{"long lenient forgiven", success("5512345678", saudi), false, ""},
		{"long lenient above generic", success("551234567890123", saudi), false, row.ReasonTooLong},
		{"no country generic short", success("123", nil), false, row.ReasonTooShort},
		{"no country generic long", success("1234567890123", nil), false, row.ReasonTooLong},
		{"no country generic ok", success("12345678", nil), false, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ValidateLength(tc.res, tc.strict)
			if tc.reason == "" {
				assert.True(t, got.OK)
				assert.Equal(t, tc.res.Normalized, got.Normalized)
			} else {
				assert.False(t, got.OK)
				assert.Equal(t, tc.reason, got.Reason)
			}
		})
	}
}

func TestValidateLengthOneSidedBounds(t *testing.T) {
	minOnly := &countries.Country{ISO2: "XX", DialCode: "99", NationalNumberLengthMin: 4}
	// max falls back to the generic 15-digit total
	got := ValidateLength(success("1234567890123456", minOnly), true)
	assert.Equal(t, row.ReasonTooLong, got.Reason)

	maxOnly := &countries.Country{ISO2: "XX", DialCode: "99", NationalNumberLengthMax: 12}
	// min falls back to the generic 7-digit total
	got = ValidateLength(success("1234", maxOnly), true)
	assert.Equal(t, row.ReasonTooShort, got.Reason)
}

func TestValidateStrictNeedsCountry(t *testing.T) {
	res := success("12345678", nil)

	got := Validate(res, true)
	assert.False(t, got.OK)
	assert.Equal(t, row.ReasonAmbiguous, got.Reason)

	got = Validate(res, false)
	assert.True(t, got.OK)
}

func TestValidatePassesFailuresThrough(t *testing.T) {
	got := Validate(normalizer.Fail(row.ReasonNoDigits), true)
	assert.Equal(t, row.ReasonNoDigits, got.Reason)
}
