// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package normalizer turns a raw phone token into E.164 form.
package normalizer

import (
	"strings"

	"phone-cleaner/internal/countries"
	"phone-cleaner/internal/digits"
	"phone-cleaner/internal/injection"
	"phone-cleaner/internal/row"
)

// Context is the read-only normalization context shared by every line of a
// batch. Countries must be sorted by descending dial-code length.
type Context struct {
	Countries               countries.Table
	DefaultCountry          *countries.Country
	DefaultCountryISO2      string
	StrictMode              bool
	AllowMissingTrunkPrefix bool
	StripExtraLeadingZeros  bool
	UseConditionalInjection bool
	IgnoreUnmatched         bool
	FallbackToDefault       bool
	Rules                   []injection.Rule
}

// Result is either a success carrying the E.164 number or a failure carrying
// a reason. Failures are terminal for the row.
type Result struct {
	OK                  bool
	Reason              row.InvalidReason
	Normalized          string
	NationalNumber      string
	Country             *countries.Country
	IsInternational     bool
	MatchedRuleID       string
	MatchedRuleName     string
	MatchedRuleDialCode string
}

// Fail builds a failed result.
func Fail(reason row.InvalidReason) Result {
	return Result{Reason: reason}
}

// TotalDigits is the digit count of the E.164 number without its "+".
func (r Result) TotalDigits() int {
	return len(strings.TrimPrefix(r.Normalized, "+"))
}

// Sanitize folds digits and strips everything except digits and "+". If the
// remaining text starts with "+", the result is "+" followed by every digit;
// any other "+" is dropped.
func Sanitize(raw string) string {
	kept := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '+' {
			return r
		}
		return -1
	}, digits.ToWestern(raw))
	onlyDigits := strings.ReplaceAll(kept, "+", "")
	if strings.HasPrefix(kept, "+") {
		return "+" + onlyDigits
	}
	return onlyDigits
}

// Normalize resolves raw into E.164 using ctx.
func Normalize(raw string, ctx *Context) Result {
	sanitized := Sanitize(raw)
	if sanitized == "" || sanitized == "+" {
		return Fail(row.ReasonNoDigits)
	}

	switch {
	case strings.HasPrefix(sanitized, "00"):
		rest := sanitized[2:]
		if rest == "" {
			return Fail(row.ReasonNoDigits)
		}
		return international(rest, ctx.Countries)
	case strings.HasPrefix(sanitized, "+"):
		return international(sanitized[1:], ctx.Countries)
	}

	if ctx.UseConditionalInjection {
		return injected(sanitized, ctx)
	}
	return local(sanitized, ctx)
}

func injected(localDigits string, ctx *Context) Result {
	if localDigits == "" {
		return Fail(row.ReasonNoDigits)
	}
	if m, ok := injection.Match(localDigits, ctx.Rules); ok {
		return Result{
			OK:                  true,
			Normalized:          m.E164,
			NationalNumber:      m.NationalNumber,
			Country:             countries.LookupByDialCode(ctx.Countries, m.DialCodeDigits+m.NationalNumber, nil),
			MatchedRuleID:       m.RuleID,
			MatchedRuleName:     m.RuleName,
			MatchedRuleDialCode: m.MatchedDialCode(),
		}
	}
	if ctx.FallbackToDefault || !ctx.IgnoreUnmatched {
		return local(localDigits, ctx)
	}
	return Fail(row.ReasonNoRuleMatch)
}

// international handles a digit string that followed "+" or "00".
func international(digitsOnly string, table countries.Table) Result {
	if digitsOnly == "" {
		return Fail(row.ReasonNoDigits)
	}
	// E.164 country codes never start with 0.
	if digitsOnly[0] == '0' {
		return Fail(row.ReasonInvalidPrefix)
	}

	country := countries.LookupByDialCode(table, digitsOnly, nil)
	national := digitsOnly
	if country != nil {
		national = digitsOnly[len(country.DialCode):]
	}
	if national == "" {
		return Fail(row.ReasonInvalidPrefix)
	}

	return Result{
		OK:              true,
		Normalized:      "+" + digitsOnly,
		NationalNumber:  national,
		Country:         country,
		IsInternational: true,
	}
}

// local applies the default country's trunk rules.
func local(value string, ctx *Context) Result {
	dc := ctx.DefaultCountry
	if dc == nil {
		return Fail(row.ReasonAmbiguous)
	}

	d := digits.Extract(value)
	if d == "" {
		return Fail(row.ReasonNoDigits)
	}

	if trunk := dc.TrunkPrefix; trunk != "" {
		if strings.HasPrefix(d, trunk) {
			d = d[len(trunk):]
		} else if !ctx.AllowMissingTrunkPrefix {
			return Fail(row.ReasonInvalidPrefix)
		}
	}

	if ctx.StripExtraLeadingZeros {
		d = strings.TrimLeft(d, "0")
	}
	if d == "" {
		return Fail(row.ReasonInvalidPrefix)
	}

	return Result{
		OK:             true,
		Normalized:     "+" + dc.DialCode + d,
		NationalNumber: d,
		Country:        dc,
	}
}
