// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package countries

import (
	"sort"
	"strings"
)

// Table is an ordered list of countries. Tables are never mutated in place;
// every transformation returns a new slice.
type Table []Country

// SortByDialCodeLength returns a copy of t ordered by descending dial-code
// length. Entries with equal length keep their original relative order.
// LookupByDialCode relies on this ordering for longest-prefix matching.
func SortByDialCodeLength(t Table) Table {
	sorted := make(Table, len(t))
	copy(sorted, t)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].DialCode) > len(sorted[j].DialCode)
	})
	return sorted
}

// LookupByISO2 finds a country by case-insensitive ISO2 code. When override
// is non-nil the returned value is a merged copy.
func LookupByISO2(t Table, iso2 string, override *Override) *Country {
	code := strings.ToUpper(strings.TrimSpace(iso2))
	if code == "" {
		return nil
	}
	for _, c := range t {
		if c.ISO2 == code {
			merged := c.Merge(override)
			return &merged
		}
	}
	return nil
}

// LookupByDialCode returns the first country whose dial code prefixes digits.
// The table must already be sorted with SortByDialCodeLength. The override is
// merged only when it targets the matched country.
func LookupByDialCode(t Table, digits string, override *Override) *Country {
	if digits == "" {
		return nil
	}
	for _, c := range t {
		if c.DialCode == "" || !strings.HasPrefix(digits, c.DialCode) {
			continue
		}
		if override.Targets(c.ISO2) {
			c = c.Merge(override)
		}
		return &c
	}
	return nil
}

// ApplyOverride returns a new table where the country named by iso2 carries
// the override fields. The input table is left untouched.
func ApplyOverride(t Table, iso2 string, override *Override) Table {
	if iso2 == "" || override == nil {
		return t
	}
	code := strings.ToUpper(iso2)
	out := make(Table, len(t))
	for i, c := range t {
		if c.ISO2 == code {
			c = c.Merge(override)
		}
		out[i] = c
	}
	return out
}

// ISO2Codes lists the ISO2 codes in table order.
func (t Table) ISO2Codes() []string {
	codes := make([]string, 0, len(t))
	for _, c := range t {
		codes = append(codes, c.ISO2)
	}
	return codes
}
