// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package report turns input lines into a cleaning report: it analyzes the
// input shape, builds the normalization context, classifies every line and
// assembles the final counts and duplicate groups.
package report

import (
	"regexp"
	"strings"
	"time"

	"phone-cleaner/internal/countries"
	"phone-cleaner/internal/dedupe"
	"phone-cleaner/internal/normalizer"
	"phone-cleaner/internal/parser"
	"phone-cleaner/internal/presets"
	"phone-cleaner/internal/row"
	"phone-cleaner/internal/validation"

	"github.com/google/uuid"
)

// Hints describe the input shape; see parser.Hints.
type Hints = parser.Hints

// Stats holds the summary counts. Total = Valid + Invalid and
// Valid = Unique + Duplicate.
type Stats struct {
	Total     int `json:"total" yaml:"total"`
	Valid     int `json:"valid" yaml:"valid"`
	Unique    int `json:"unique" yaml:"unique"`
	Duplicate int `json:"duplicate" yaml:"duplicate"`
	Invalid   int `json:"invalid" yaml:"invalid"`
}

// Report is built once per run and is read-only afterwards.
type Report struct {
	RunID                      string               `json:"run_id" yaml:"run_id"`
	CreatedAt                  time.Time            `json:"created_at" yaml:"created_at"`
	Duration                   time.Duration        `json:"duration" yaml:"duration"`
	Rows                       []row.Row            `json:"rows" yaml:"rows"`
	Unique                     []row.Row            `json:"unique" yaml:"unique"`
	Duplicates                 []row.Row            `json:"duplicates" yaml:"duplicates"`
	Invalid                    []row.Row            `json:"invalid" yaml:"invalid"`
	DuplicateGroupsByPhone     []row.DuplicateGroup `json:"duplicate_groups_by_phone" yaml:"duplicate_groups_by_phone"`
	DuplicateGroupsByNamePhone []row.DuplicateGroup `json:"duplicate_groups_by_name_phone" yaml:"duplicate_groups_by_name_phone"`
	DuplicateGroupsByName      []row.DuplicateGroup `json:"duplicate_groups_by_name" yaml:"duplicate_groups_by_name"`
	Stats                      Stats                `json:"stats" yaml:"stats"`
	Hints                      Hints                `json:"hints" yaml:"hints"`
	Settings                   Settings             `json:"settings" yaml:"settings"`
}

const (
	sampleSize     = 50
	shapeThreshold = 0.4
)

var spacedDash = regexp.MustCompile(`[\s\p{Zs}][-–—][\s\p{Zs}]`)

// SplitLines splits text on LF or CRLF.
func SplitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// AnalyzeInput samples the first lines and flags comma-heavy or
// pipe/dash-heavy input. Blank lines are sampled but never counted.
func AnalyzeInput(lines []string) Hints {
	sample := lines
	if len(sample) > sampleSize {
		sample = sample[:sampleSize]
	}

	var csvCount, sepCount int
	for _, l := range sample {
		trimmed := strings.TrimSpace(l)
		if trimmed == "" {
			continue
		}
		if strings.Contains(trimmed, ",") {
			csvCount++
		}
		if strings.Contains(trimmed, "|") || spacedDash.MatchString(trimmed) {
			sepCount++
		}
	}

	threshold := max(1, int(float64(len(sample))*shapeThreshold))
	return Hints{
		CSVLike:       csvCount >= threshold,
		SeparatorLike: sepCount >= threshold,
	}
}

// BuildContext derives the normalization context. A known preset supplies
// the default country and its overrides, which are also substituted into
// the sorted table so dial-code lookups see them. An unknown preset id is
// ignored. A nil registry means the built-in presets.
func BuildContext(table countries.Table, s Settings, registry *presets.Registry) *normalizer.Context {
	if registry == nil {
		registry = presets.DefaultRegistry()
	}

	defaultISO2 := s.DefaultCountryISO2
	var override *countries.Override
	if p, ok := registry.Get(s.PresetID); ok {
		defaultISO2 = p.DefaultCountry
		override = p.Override()
	}

	sorted := countries.SortByDialCodeLength(countries.ApplyOverride(table, defaultISO2, override))

	return &normalizer.Context{
		Countries:               sorted,
		DefaultCountry:          countries.LookupByISO2(sorted, defaultISO2, override),
		DefaultCountryISO2:      strings.ToUpper(defaultISO2),
		StrictMode:              s.StrictMode,
		AllowMissingTrunkPrefix: s.AllowMissingTrunkPrefix,
		StripExtraLeadingZeros:  s.StripExtraLeadingZeros,
		UseConditionalInjection: s.Injection.Enabled,
		IgnoreUnmatched:         s.Injection.IgnoreUnmatched,
		FallbackToDefault:       s.Injection.FallbackToDefault,
		Rules:                   s.Injection.Rules,
	}
}

// ProcessLine parses, normalizes and validates one line. i is the 0-based
// position; the row index is i+1.
func ProcessLine(line string, i int, ctx *normalizer.Context, hints Hints) row.Row {
	parsed := parser.ParseRow(line, i+1, hints)

	if parsed.PhoneRaw == "" {
		reason := row.ReasonNoDigits
		if strings.TrimSpace(line) == "" {
			reason = row.ReasonEmpty
		}
		return row.Invalid(parsed, reason)
	}

	normalized := normalizer.Normalize(parsed.PhoneRaw, ctx)
	validated := validation.Validate(normalized, ctx.StrictMode)

	if !validated.OK {
		r := row.Invalid(parsed, validated.Reason)
		if normalized.OK {
			r.MatchedRuleID = normalized.MatchedRuleID
			r.MatchedRuleName = normalized.MatchedRuleName
			r.MatchedRuleDialCode = normalized.MatchedRuleDialCode
		}
		return r
	}

	return row.Row{
		Parsed:              parsed,
		Status:              row.StatusValid,
		Normalized:          validated.Normalized,
		NationalNumber:      validated.NationalNumber,
		Country:             validated.Country,
		MatchedRuleID:       validated.MatchedRuleID,
		MatchedRuleName:     validated.MatchedRuleName,
		MatchedRuleDialCode: validated.MatchedRuleDialCode,
	}
}

// Build deduplicates the valid rows and assembles the report. rows are not
// modified; the report carries reclassified copies.
func Build(rows []row.Row, s Settings, hints Hints, duration time.Duration) *Report {
	var valid []row.Row
	var validPos []int
	var invalid []row.Row
	for i, r := range rows {
		switch r.Status {
		case row.StatusValid:
			valid = append(valid, r)
			validPos = append(validPos, i)
		case row.StatusInvalid:
			invalid = append(invalid, r)
		}
	}

	d := dedupe.Dedupe(valid, s.DetectNameDuplicates)

	all := make([]row.Row, len(rows))
	copy(all, rows)
	for j, pos := range validPos {
		all[pos] = d.Rows[j]
	}

	return &Report{
		RunID:                      uuid.NewString(),
		CreatedAt:                  time.Now().UTC(),
		Duration:                   duration,
		Rows:                       all,
		Unique:                     d.Unique,
		Duplicates:                 d.Duplicates,
		Invalid:                    invalid,
		DuplicateGroupsByPhone:     d.ByPhone,
		DuplicateGroupsByNamePhone: d.ByNamePhone,
		DuplicateGroupsByName:      d.ByName,
		Stats: Stats{
			Total:     len(rows),
			Valid:     len(valid),
			Unique:    len(d.Unique),
			Duplicate: len(d.Duplicates),
			Invalid:   len(invalid),
		},
		Hints:    hints,
		Settings: s,
	}
}
