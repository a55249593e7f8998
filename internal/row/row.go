// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package row defines the per-line records that flow through the cleaning
// pipeline, from the parsed line to the classified row.
package row

import (
	"strings"

	"phone-cleaner/internal/countries"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Status is the classification of a row.
type Status string

const (
	StatusValid     Status = "valid"
	StatusInvalid   Status = "invalid"
	StatusDuplicate Status = "duplicate"
)

// InvalidReason explains why a row was rejected. Reasons are row-local and
// never abort a batch.
type InvalidReason string

const (
	ReasonEmpty         InvalidReason = "empty"
	ReasonNoDigits      InvalidReason = "no_digits"
	ReasonNoRuleMatch   InvalidReason = "no_rule_match"
	ReasonInvalidPrefix InvalidReason = "invalid_prefix"
	ReasonTooShort      InvalidReason = "too_short"
	ReasonTooLong       InvalidReason = "too_long"
	ReasonAmbiguous     InvalidReason = "ambiguous"
)

// Reasons lists every invalid reason in a stable order.
var Reasons = []InvalidReason{
	ReasonEmpty,
	ReasonNoDigits,
	ReasonNoRuleMatch,
	ReasonInvalidPrefix,
	ReasonTooShort,
	ReasonTooLong,
	ReasonAmbiguous,
}

// Describe returns a one-line human explanation of the reason.
func (r InvalidReason) Describe() string {
	switch r {
	case ReasonEmpty:
		return "blank line"
	case ReasonNoDigits:
		return "nothing left after stripping non-digits"
	case ReasonNoRuleMatch:
		return "conditional injection is on, no rule fired and unmatched numbers are not tolerated"
	case ReasonInvalidPrefix:
		return "trunk or dial-code stripping left no digits, or the trunk prefix was missing"
	case ReasonTooShort:
		return "number is shorter than the country or generic minimum"
	case ReasonTooLong:
		return "number is longer than the country or generic maximum"
	case ReasonAmbiguous:
		return "no country could be resolved (no default country, or strict mode)"
	default:
		return string(r)
	}
}

// Parsed is one input line split into a name and a raw phone token.
type Parsed struct {
	Index    int    `json:"index" yaml:"index"`
	Raw      string `json:"raw" yaml:"raw"`
	Name     string `json:"name" yaml:"name"`
	PhoneRaw string `json:"phone_raw" yaml:"phone_raw"`
}

// Row is a parsed line extended with its normalization and classification.
// Rows are values: later passes return modified copies.
type Row struct {
	Parsed

	Status              Status             `json:"status" yaml:"status"`
	Reason              InvalidReason      `json:"reason,omitempty" yaml:"reason,omitempty"`
	Normalized          string             `json:"normalized,omitempty" yaml:"normalized,omitempty"`
	NationalNumber      string             `json:"national_number,omitempty" yaml:"national_number,omitempty"`
	Country             *countries.Country `json:"country,omitempty" yaml:"country,omitempty"`
	NameNormalized      string             `json:"name_normalized,omitempty" yaml:"name_normalized,omitempty"`
	IsKept              bool               `json:"is_kept,omitempty" yaml:"is_kept,omitempty"`
	MatchedRuleID       string             `json:"matched_rule_id,omitempty" yaml:"matched_rule_id,omitempty"`
	MatchedRuleName     string             `json:"matched_rule_name,omitempty" yaml:"matched_rule_name,omitempty"`
	MatchedRuleDialCode string             `json:"matched_rule_dial_code,omitempty" yaml:"matched_rule_dial_code,omitempty"`
}

// Invalid builds a rejected row for p.
func Invalid(p Parsed, reason InvalidReason) Row {
	return Row{Parsed: p, Status: StatusInvalid, Reason: reason}
}

// DuplicateGroup collects rows sharing a grouping key. Groups exist only for
// two or more rows. IDs are per-run sequence numbers; match groups by Key.
type DuplicateGroup struct {
	ID             string `json:"id" yaml:"id"`
	Key            string `json:"key" yaml:"key"`
	CanonicalPhone string `json:"canonical_phone,omitempty" yaml:"canonical_phone,omitempty"`
	Items          []Row  `json:"items" yaml:"items"`
	KeptIndex      int    `json:"kept_index" yaml:"kept_index"`
}

// CollapseSpaces replaces every whitespace run with a single space and trims.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeName returns the comparison form of a name: NFKC-composed,
// width-folded, space-collapsed and case-folded.
func NormalizeName(name string) string {
	collapsed := CollapseSpaces(width.Fold.String(norm.NFKC.String(name)))
	if collapsed == "" {
		return ""
	}
	// Casers are stateful; one per call keeps this safe across goroutines.
	return cases.Fold().String(collapsed)
}
