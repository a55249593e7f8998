// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package shared

import (
	"strings"
	"time"

	"phone-cleaner/internal/formatters"
	"phone-cleaner/internal/report"
	"phone-cleaner/internal/row"
)

// ReportDocument is the top-level structure for JSON/YAML output
type ReportDocument struct {
	RunID      string           `json:"run_id" yaml:"run_id"`
	CreatedAt  string           `json:"created_at" yaml:"created_at"`
	DurationMs int64            `json:"duration_ms" yaml:"duration_ms"`
	Stats      report.Stats     `json:"stats" yaml:"stats"`
	Hints      report.Hints     `json:"hints" yaml:"hints"`
	Unique     []DocumentRow    `json:"unique" yaml:"unique"`
	Duplicates []DocumentRow    `json:"duplicates" yaml:"duplicates"`
	Invalid    []DocumentRow    `json:"invalid" yaml:"invalid"`
	Groups     DocumentGroups   `json:"duplicate_groups" yaml:"duplicate_groups"`
	Rows       []DocumentRow    `json:"rows,omitempty" yaml:"rows,omitempty"`
	Settings   *report.Settings `json:"settings,omitempty" yaml:"settings,omitempty"`
}

// DocumentRow is a single classified row in JSON/YAML format
type DocumentRow struct {
	Index          int    `json:"index" yaml:"index"`
	Name           string `json:"name" yaml:"name"`
	PhoneRaw       string `json:"phone_raw" yaml:"phone_raw"`
	Raw            string `json:"raw" yaml:"raw"`
	Status         string `json:"status" yaml:"status"`
	Reason         string `json:"reason,omitempty" yaml:"reason,omitempty"`
	Normalized     string `json:"normalized,omitempty" yaml:"normalized,omitempty"`
	NationalNumber string `json:"national_number,omitempty" yaml:"national_number,omitempty"`
	Country        string `json:"country,omitempty" yaml:"country,omitempty"`
	MatchedRule    string `json:"matched_rule,omitempty" yaml:"matched_rule,omitempty"`
	Kept           bool   `json:"kept,omitempty" yaml:"kept,omitempty"`
}

// DocumentGroup references group members by row index
type DocumentGroup struct {
	ID             string `json:"id" yaml:"id"`
	Key            string `json:"key" yaml:"key"`
	CanonicalPhone string `json:"canonical_phone,omitempty" yaml:"canonical_phone,omitempty"`
	KeptIndex      int    `json:"kept_index" yaml:"kept_index"`
	Indices        []int  `json:"indices" yaml:"indices"`
}

// DocumentGroups holds the three duplicate-group lists
type DocumentGroups struct {
	ByPhone     []DocumentGroup `json:"by_phone" yaml:"by_phone"`
	ByNamePhone []DocumentGroup `json:"by_name_phone" yaml:"by_name_phone"`
	ByName      []DocumentGroup `json:"by_name" yaml:"by_name"`
}

// RuleLabel names the injection rule applied to r: the rule name, then its
// id, then its dial code. Rows rejected because no rule matched are
// labeled no_rule_match when injection was on.
func RuleLabel(r row.Row, injectionEnabled bool) string {
	switch {
	case strings.TrimSpace(r.MatchedRuleName) != "":
		return r.MatchedRuleName
	case r.MatchedRuleID != "":
		return r.MatchedRuleID
	case r.MatchedRuleDialCode != "":
		return r.MatchedRuleDialCode
	case injectionEnabled && r.Reason == row.ReasonNoRuleMatch:
		return string(row.ReasonNoRuleMatch)
	default:
		return ""
	}
}

// InjectionEnabled reports whether the run that produced rep had
// conditional injection switched on.
func InjectionEnabled(rep *report.Report) bool {
	return rep != nil && rep.Settings.Injection.Enabled
}

// ConvertRow flattens a row for document output
func ConvertRow(r row.Row, injectionEnabled bool) DocumentRow {
	d := DocumentRow{
		Index:          r.Index,
		Name:           r.Name,
		PhoneRaw:       r.PhoneRaw,
		Raw:            r.Raw,
		Status:         string(r.Status),
		Reason:         string(r.Reason),
		Normalized:     r.Normalized,
		NationalNumber: r.NationalNumber,
		MatchedRule:    RuleLabel(r, injectionEnabled),
		Kept:           r.IsKept,
	}
	if r.Country != nil {
		d.Country = r.Country.ISO2
	}
	return d
}

func convertRows(rows []row.Row, injectionEnabled bool) []DocumentRow {
	out := make([]DocumentRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, ConvertRow(r, injectionEnabled))
	}
	return out
}

func convertGroups(groups []row.DuplicateGroup) []DocumentGroup {
	out := make([]DocumentGroup, 0, len(groups))
	for _, g := range groups {
		indices := make([]int, len(g.Items))
		for i, item := range g.Items {
			indices[i] = item.Index
		}
		out = append(out, DocumentGroup{
			ID:             g.ID,
			Key:            g.Key,
			CanonicalPhone: g.CanonicalPhone,
			KeptIndex:      g.KeptIndex,
			Indices:        indices,
		})
	}
	return out
}

// ConvertReport builds the JSON/YAML document. Verbose output adds every
// row in input order and the settings used.
func ConvertReport(rep *report.Report, options formatters.FormatterOptions) ReportDocument {
	inj := InjectionEnabled(rep)
	doc := ReportDocument{
		RunID:      rep.RunID,
		CreatedAt:  rep.CreatedAt.UTC().Format(time.RFC3339),
		DurationMs: rep.Duration.Milliseconds(),
		Stats:      rep.Stats,
		Hints:      rep.Hints,
		Unique:     convertRows(rep.Unique, inj),
		Duplicates: convertRows(rep.Duplicates, inj),
		Invalid:    convertRows(rep.Invalid, inj),
		Groups: DocumentGroups{
			ByPhone:     convertGroups(rep.DuplicateGroupsByPhone),
			ByNamePhone: convertGroups(rep.DuplicateGroupsByNamePhone),
			ByName:      convertGroups(rep.DuplicateGroupsByName),
		},
	}
	if options.Verbose {
		doc.Rows = convertRows(rep.Rows, inj)
		settings := rep.Settings
		doc.Settings = &settings
	}
	return doc
}
