// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package parser splits a free-form input line into a name and a raw phone
// token using an ordered chain of heuristics.
package parser

import (
	"regexp"
	"strings"

	"phone-cleaner/internal/digits"
	"phone-cleaner/internal/row"
)

// Hints describe the overall shape of the input. They bias strategy
// selection but every strategy still checks the line itself.
type Hints struct {
	CSVLike       bool `json:"csv_like" yaml:"csv_like"`
	SeparatorLike bool `json:"separator_like" yaml:"separator_like"`
}

const digitClass = `0-9\x{0660}-\x{0669}\x{06F0}-\x{06F9}`

var (
	separatorRegex     = regexp.MustCompile(`[|,;]+`)
	dashSeparatorRegex = regexp.MustCompile(`[\s\p{Zs}][-–—][\s\p{Zs}]`)

	// Patterns run on the original line so match offsets stay valid for
	// slicing; the digit class therefore covers every folded script.
	phoneLikeRegex = regexp.MustCompile(
		`(?:\+|[0٠۰]{2})?[` + digitClass + `][` + digitClass + `\s\p{Zs}()./_-]{4,}[` + digitClass + `]`)
)

// line carries the per-call inputs every strategy sees.
type line struct {
	raw     string
	trimmed string
	index   int
	hints   Hints
}

// strategy is one step of the chain. apply returns false to hand the line
// to the next strategy.
type strategy struct {
	name  string
	apply func(l line) (row.Parsed, bool)
}

var strategies = []strategy{
	{name: "blank", apply: parseBlank},
	{name: "separator", apply: parseSeparated},
	{name: "dash", apply: parseDashed},
	{name: "phone_like", apply: parsePhoneLike},
	{name: "digits_only", apply: parseDigitsOnly},
	{name: "name_only", apply: parseNameOnly},
}

// StrategyNames returns the chain order, mostly for diagnostics.
func StrategyNames() []string {
	names := make([]string, len(strategies))
	for i, s := range strategies {
		names[i] = s.name
	}
	return names
}

// ParseRow splits raw into name and phone. index is stored unchanged; callers
// pass the 1-based line number.
func ParseRow(raw string, index int, hints Hints) row.Parsed {
	l := line{raw: raw, trimmed: strings.TrimSpace(raw), index: index, hints: hints}
	for _, s := range strategies {
		if p, ok := s.apply(l); ok {
			return p
		}
	}
	// name_only always succeeds.
	return row.Parsed{Index: index, Raw: raw}
}

func parseBlank(l line) (row.Parsed, bool) {
	if l.trimmed != "" {
		return row.Parsed{}, false
	}
	return row.Parsed{Index: l.index, Raw: l.raw}, true
}

func parseSeparated(l line) (row.Parsed, bool) {
	if !l.hints.SeparatorLike && !l.hints.CSVLike && !separatorRegex.MatchString(l.trimmed) {
		return row.Parsed{}, false
	}
	return splitOn(l, separatorRegex)
}

func parseDashed(l line) (row.Parsed, bool) {
	if !dashSeparatorRegex.MatchString(l.trimmed) {
		return row.Parsed{}, false
	}
	return splitOn(l, dashSeparatorRegex)
}

// splitOn splits on re, keeps non-empty parts and picks the densest one as
// the phone. Fewer than two parts declines the line.
func splitOn(l line, re *regexp.Regexp) (row.Parsed, bool) {
	var parts []string
	for _, part := range re.Split(l.trimmed, -1) {
		if part = row.CollapseSpaces(part); part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) < 2 {
		return row.Parsed{}, false
	}

	phoneIndex := pickPhoneIndex(parts)
	names := make([]string, 0, len(parts)-1)
	for i, part := range parts {
		if i != phoneIndex {
			names = append(names, part)
		}
	}
	return row.Parsed{
		Index:    l.index,
		Raw:      l.raw,
		Name:     row.CollapseSpaces(strings.Join(names, " ")),
		PhoneRaw: parts[phoneIndex],
	}, true
}

// pickPhoneIndex returns the part with the most digits. The first part wins
// ties, including the all-zero case.
func pickPhoneIndex(parts []string) int {
	best, bestScore := 0, 0
	for i, part := range parts {
		if score := digits.Count(part); score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

func parsePhoneLike(l line) (row.Parsed, bool) {
	matches := phoneLikeRegex.FindAllStringIndex(l.trimmed, -1)
	if len(matches) == 0 {
		return row.Parsed{}, false
	}

	best := matches[0]
	bestDigits := digits.Count(l.trimmed[best[0]:best[1]])
	for _, m := range matches[1:] {
		if n := digits.Count(l.trimmed[m[0]:m[1]]); n > bestDigits {
			best, bestDigits = m, n
		}
	}

	start, end := best[0], best[1]
	rest := l.trimmed[:start] + l.trimmed[end:]
	return row.Parsed{
		Index:    l.index,
		Raw:      l.raw,
		Name:     row.CollapseSpaces(strings.Trim(rest, ",-|")),
		PhoneRaw: strings.TrimSpace(l.trimmed[start:end]),
	}, true
}

func parseDigitsOnly(l line) (row.Parsed, bool) {
	if digits.Count(l.trimmed) == 0 {
		return row.Parsed{}, false
	}
	return row.Parsed{Index: l.index, Raw: l.raw, PhoneRaw: l.trimmed}, true
}

func parseNameOnly(l line) (row.Parsed, bool) {
	return row.Parsed{Index: l.index, Raw: l.raw, Name: row.CollapseSpaces(l.trimmed)}, true
}
