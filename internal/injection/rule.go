// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package injection assigns a dial code to ambiguous local numbers using an
// ordered list of length and prefix rules. The first matching rule wins.
package injection

import (
	"strings"

	"phone-cleaner/internal/digits"

	"github.com/google/uuid"
)

// LengthMode selects how a rule checks the local digit count.
type LengthMode string

const (
	LengthEquals LengthMode = "equals"
	LengthRange  LengthMode = "range"
)

// TrunkHandling controls what happens to a leading zero after a match.
type TrunkHandling string

const (
	TrunkKeep           TrunkHandling = "keep"
	TrunkRemoveLeading0 TrunkHandling = "removeLeading0"
)

// MatchStrategy is kept for configuration compatibility. Only first match
// wins is supported.
const MatchFirstWins = "firstMatchWins"

// Rule describes one conditional-injection rule.
type Rule struct {
	ID            string        `yaml:"id" json:"id"`
	Name          string        `yaml:"name,omitempty" json:"name,omitempty"`
	DialCode      string        `yaml:"dial_code" json:"dial_code" validate:"required"`
	LengthMode    LengthMode    `yaml:"length_mode" json:"length_mode" validate:"required,oneof=equals range"`
	LengthEquals  *int          `yaml:"length_equals,omitempty" json:"length_equals,omitempty"`
	LengthMin     *int          `yaml:"length_min,omitempty" json:"length_min,omitempty"`
	LengthMax     *int          `yaml:"length_max,omitempty" json:"length_max,omitempty"`
	Prefixes      []string      `yaml:"prefixes,omitempty" json:"prefixes,omitempty"`
	TrunkHandling TrunkHandling `yaml:"trunk_handling,omitempty" json:"trunk_handling,omitempty" validate:"omitempty,oneof=keep removeLeading0"`
	MatchStrategy string        `yaml:"match_strategy,omitempty" json:"match_strategy,omitempty" validate:"omitempty,oneof=firstMatchWins"`
	Enabled       bool          `yaml:"enabled" json:"enabled"`
}

// DialDigits returns the rule's dial code with everything but digits removed.
func (r Rule) DialDigits() string {
	return digits.Extract(r.DialCode)
}

// Label names the rule for exports: name, then id, then dial code.
func (r Rule) Label() string {
	switch {
	case strings.TrimSpace(r.Name) != "":
		return r.Name
	case r.ID != "":
		return r.ID
	default:
		return r.DialCode
	}
}

// NewRuleID returns a fresh random rule id.
func NewRuleID() string {
	return uuid.NewString()
}

// EnsureIDs returns a copy of rules where every rule without an id has one.
func EnsureIDs(rules []Rule) []Rule {
	out := make([]Rule, len(rules))
	for i, r := range rules {
		if strings.TrimSpace(r.ID) == "" {
			r.ID = NewRuleID()
		}
		out[i] = r
	}
	return out
}

func intPtr(v int) *int { return &v }

// DefaultRules returns the stock Saudi mobile and Yemen local rules.
func DefaultRules() []Rule {
	return []Rule{
		{
			ID:            "rule_saudi_mobile",
			Name:          "سعودي موبايل",
			DialCode:      "+966",
			LengthMode:    LengthEquals,
			LengthEquals:  intPtr(10),
			Prefixes:      []string{"05"},
			TrunkHandling: TrunkRemoveLeading0,
			MatchStrategy: MatchFirstWins,
			Enabled:       true,
		},
		{
			ID:            "rule_yemen_local",
			Name:          "يمن محلي",
			DialCode:      "+967",
			LengthMode:    LengthEquals,
			LengthEquals:  intPtr(9),
			Prefixes:      []string{"77", "73", "71"},
			TrunkHandling: TrunkKeep,
			MatchStrategy: MatchFirstWins,
			Enabled:       true,
		},
	}
}
