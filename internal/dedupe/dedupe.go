// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package dedupe groups valid rows by phone, by name and phone, and
// optionally by name alone.
package dedupe

import (
	"fmt"
	"sort"

	"phone-cleaner/internal/row"
)

// Result is the outcome of one deduplication pass. Rows holds every input
// row reclassified, in input order; the inputs are never modified.
type Result struct {
	Rows        []row.Row
	Unique      []row.Row
	Duplicates  []row.Row
	ByPhone     []row.DuplicateGroup
	ByNamePhone []row.DuplicateGroup
	ByName      []row.DuplicateGroup
}

// keyFunc returns the grouping key for r, or "" to exclude it.
type keyFunc func(r row.Row) string

// orderedGroups keeps first-seen key order, as map iteration does not.
type orderedGroups struct {
	keys  []string
	items map[string][]int
}

func group(rows []row.Row, key keyFunc) orderedGroups {
	g := orderedGroups{items: make(map[string][]int)}
	for i, r := range rows {
		k := key(r)
		if k == "" {
			continue
		}
		if _, seen := g.items[k]; !seen {
			g.keys = append(g.keys, k)
		}
		g.items[k] = append(g.items[k], i)
	}
	return g
}

// Dedupe classifies valid rows. Within each phone group the lowest index is
// kept and the rest become duplicates. Name-based groups are informational.
func Dedupe(rows []row.Row, detectNameDuplicates bool) Result {
	out := make([]row.Row, len(rows))
	for i, r := range rows {
		r.NameNormalized = row.NormalizeName(r.Name)
		out[i] = r
	}

	res := Result{Rows: out}

	byPhone := group(out, func(r row.Row) string { return r.Normalized })
	for _, key := range byPhone.keys {
		idx := byPhone.items[key]
		sort.SliceStable(idx, func(a, b int) bool { return out[idx[a]].Index < out[idx[b]].Index })

		for pos, i := range idx {
			if pos == 0 {
				out[i].Status = row.StatusValid
				out[i].IsKept = true
				continue
			}
			out[i].Status = row.StatusDuplicate
			out[i].IsKept = false
		}
	}

	// Second pass so group items carry their final status.
	for n, key := range byPhone.keys {
		idx := byPhone.items[key]
		res.Unique = append(res.Unique, out[idx[0]])
		for _, i := range idx[1:] {
			res.Duplicates = append(res.Duplicates, out[i])
		}
		if len(idx) < 2 {
			continue
		}
		res.ByPhone = append(res.ByPhone, row.DuplicateGroup{
			ID:             fmt.Sprintf("phone_%d", n+1),
			Key:            key,
			CanonicalPhone: key,
			Items:          pick(out, idx),
			KeptIndex:      out[idx[0]].Index,
		})
	}

	res.ByNamePhone = buildGroups(out, func(r row.Row) string {
		if r.Normalized == "" || r.NameNormalized == "" {
			return ""
		}
		return r.Normalized + "__" + r.NameNormalized
	})

	if detectNameDuplicates {
		res.ByName = buildGroups(out, func(r row.Row) string { return r.NameNormalized })
	}
	return res
}

// buildGroups returns groups of two or more rows, numbered after filtering.
func buildGroups(rows []row.Row, key keyFunc) []row.DuplicateGroup {
	g := group(rows, key)
	var groups []row.DuplicateGroup
	for _, k := range g.keys {
		idx := g.items[k]
		if len(idx) < 2 {
			continue
		}
		kept := rows[idx[0]].Index
		for _, i := range idx[1:] {
			if rows[i].Index < kept {
				kept = rows[i].Index
			}
		}
		groups = append(groups, row.DuplicateGroup{
			ID:             fmt.Sprintf("group_%d", len(groups)+1),
			Key:            k,
			CanonicalPhone: rows[idx[0]].Normalized,
			Items:          pick(rows, idx),
			KeptIndex:      kept,
		})
	}
	return groups
}

func pick(rows []row.Row, idx []int) []row.Row {
	items := make([]row.Row, len(idx))
	for i, j := range idx {
		items[i] = rows[j]
	}
	return items
}
