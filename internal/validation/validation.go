// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package validation applies length bounds and the strict-mode country
// requirement to normalized numbers.
package validation

import (
	"phone-cleaner/internal/countries"
	"phone-cleaner/internal/normalizer"
	"phone-cleaner/internal/row"
)

// ValidateLength checks national length against the country bounds, falling
// back to the generic 7-15 total digit bounds where a country sets none.
// Outside strict mode a country bound violation is forgiven when the total
// digit count is still within the generic bounds.
func ValidateLength(res normalizer.Result, strict bool) normalizer.Result {
	if !res.OK {
		return res
	}

	total := res.TotalDigits()
	national := len(res.NationalNumber)

	var lo, hi int
	if res.Country != nil {
		lo = res.Country.NationalNumberLengthMin
		hi = res.Country.NationalNumberLengthMax
	}

	if lo > 0 && national < lo {
		if !strict && total >= countries.GenericMinLength {
			return res
		}
		return normalizer.Fail(row.ReasonTooShort)
	}
	if hi > 0 && national > hi {
		if !strict && total <= countries.GenericMaxLength {
			return res
		}
		return normalizer.Fail(row.ReasonTooLong)
	}
	if lo == 0 && total < countries.GenericMinLength {
		return normalizer.Fail(row.ReasonTooShort)
	}
	if hi == 0 && total > countries.GenericMaxLength {
		return normalizer.Fail(row.ReasonTooLong)
	}
	return res
}

// Validate rejects unresolved countries in strict mode, then checks length.
func Validate(res normalizer.Result, strict bool) normalizer.Result {
	if !res.OK {
		return res
	}
	if strict && res.Country == nil {
		return normalizer.Fail(row.ReasonAmbiguous)
	}
	return ValidateLength(res, strict)
}
