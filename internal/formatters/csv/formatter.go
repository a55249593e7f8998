// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package csv

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"phone-cleaner/internal/formatters"
	"phone-cleaner/internal/formatters/shared"
	"phone-cleaner/internal/report"
	"phone-cleaner/internal/row"
)

// e164Field matches normalized numbers, which start with '+' but are safe
// to leave unquoted in a spreadsheet.
var e164Field = regexp.MustCompile(`^\+[0-9]+$`)

// Formatter implements CSV output formatting
type Formatter struct{}

// NewFormatter creates a new CSV formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "csv"
}

func (f *Formatter) Description() string {
	return "Comma-separated export views (cleaned, phones, duplicates, invalid)"
}

func (f *Formatter) FileExtension() string {
	return ".csv"
}

func (f *Formatter) Format(rep *report.Report, options formatters.FormatterOptions) (string, error) {
	inj := shared.InjectionEnabled(rep)

	var records [][]string
	switch options.View {
	case "", formatters.ViewCleaned:
		records = f.cleaned(rep)
	case formatters.ViewPhones:
		return f.phones(rep), nil
	case formatters.ViewDuplicates:
		records = f.duplicates(rep, inj)
	case formatters.ViewInvalid:
		records = f.invalid(rep, inj)
	default:
		return "", fmt.Errorf("unsupported CSV view %q", options.View)
	}

	lines := make([]string, 0, len(records))
	for _, rec := range records {
		fields := make([]string, len(rec))
		for i, field := range rec {
			fields[i] = f.escapeCSVField(field)
		}
		lines = append(lines, strings.Join(fields, ","))
	}
	return strings.Join(lines, "\n"), nil
}

// cleaned lists the name and normalized phone of every unique row
func (f *Formatter) cleaned(rep *report.Report) [][]string {
	records := [][]string{{"name", "phone"}}
	for _, r := range rep.Unique {
		records = append(records, []string{r.Name, r.Normalized})
	}
	return records
}

// phones is the bare list of unique normalized numbers, one per line
func (f *Formatter) phones(rep *report.Report) string {
	out := make([]string, 0, len(rep.Unique))
	for _, r := range rep.Unique {
		out = append(out, r.Normalized)
	}
	return strings.Join(out, "\n")
}

// duplicates flattens the by-phone groups, kept row first
func (f *Formatter) duplicates(rep *report.Report, inj bool) [][]string {
	records := [][]string{{
		"group_id", "canonical_phone", "status", "row_index", "name",
		"raw_phone", "normalized_phone", "matched_rule", "raw_line",
	}}
	for _, g := range rep.DuplicateGroupsByPhone {
		for _, r := range g.Items {
			status := string(row.StatusDuplicate)
			if r.IsKept {
				status = "kept"
			}
			records = append(records, []string{
				g.ID,
				g.CanonicalPhone,
				status,
				strconv.Itoa(r.Index),
				r.Name,
				r.PhoneRaw,
				r.Normalized,
				shared.RuleLabel(r, inj),
				r.Raw,
			})
		}
	}
	return records
}

func (f *Formatter) invalid(rep *report.Report, inj bool) [][]string {
	records := [][]string{{"row_index", "raw_line", "reason", "matched_rule"}}
	for _, r := range rep.Invalid {
		records = append(records, []string{
			strconv.Itoa(r.Index),
			r.Raw,
			string(r.Reason),
			shared.RuleLabel(r, inj),
		})
	}
	return records
}

// escapeCSVField properly escapes a field for CSV format and prevents CSV injection
func (f *Formatter) escapeCSVField(field string) string {
	field = f.sanitizeFormulaInjection(field)

	if strings.ContainsAny(field, ",\"\n\r") {
		escaped := strings.ReplaceAll(field, "\"", "\"\"")
		return "\"" + escaped + "\""
	}
	return field
}

// sanitizeFormulaInjection prefixes fields that a spreadsheet would
// evaluate as a formula. Pure E.164 numbers are left alone.
func (f *Formatter) sanitizeFormulaInjection(field string) string {
	if len(field) == 0 || e164Field.MatchString(field) {
		return field
	}

	switch field[0] {
	case '=', '+', '-', '@':
		return "'" + field
	}
	return field
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
