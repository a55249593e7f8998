// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package injection

import (
	"math"
	"strings"

	"phone-cleaner/internal/digits"
)

// Result is a successful rule match.
type Result struct {
	RuleID         string
	RuleName       string
	DialCodeDigits string
	NationalNumber string
	E164           string
}

// MatchedDialCode returns the rule dial code in "+digits" form.
func (r Result) MatchedDialCode() string {
	return "+" + r.DialCodeDigits
}

// Match evaluates rules in order against localDigits (ASCII digits only).
// Disabled rules and rules without a usable dial code are skipped. The first
// rule satisfying every check wins; ok is false when none does.
func Match(localDigits string, rules []Rule) (Result, bool) {
	for _, rule := range rules {
		if !rule.Enabled {
			continue
		}
		dial := rule.DialDigits()
		if dial == "" || dial[0] == '0' {
			continue
		}
		if !matchLength(rule, len(localDigits)) {
			continue
		}
		if !matchPrefixes(rule, localDigits) {
			continue
		}

		national := localDigits
		if rule.TrunkHandling == TrunkRemoveLeading0 && strings.HasPrefix(national, "0") {
			national = national[1:]
		}
		if national == "" {
			continue
		}

		return Result{
			RuleID:         rule.ID,
			RuleName:       rule.Name,
			DialCodeDigits: dial,
			NationalNumber: national,
			E164:           "+" + dial + national,
		}, true
	}
	return Result{}, false
}

func matchLength(rule Rule, length int) bool {
	if rule.LengthMode == LengthEquals {
		if rule.LengthEquals == nil {
			return false
		}
		return length == *rule.LengthEquals
	}

	if rule.LengthMin == nil && rule.LengthMax == nil {
		return false
	}
	lo, hi := 0, math.MaxInt
	if rule.LengthMin != nil {
		lo = *rule.LengthMin
	}
	if rule.LengthMax != nil {
		hi = *rule.LengthMax
	}
	return length >= lo && length <= hi
}

func matchPrefixes(rule Rule, localDigits string) bool {
	if len(rule.Prefixes) == 0 {
		return true
	}
	for _, prefix := range rule.Prefixes {
		p := digits.Extract(prefix)
		if p == "" {
			continue
		}
		if strings.HasPrefix(localDigits, p) {
			return true
		}
	}
	return false
}
