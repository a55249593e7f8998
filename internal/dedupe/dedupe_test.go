// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package dedupe

import (
	"testing"

	"phone-cleaner/internal/row"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func valid(index int, name, normalized string) row.Row {
	return row.Row{
		Parsed:     row.Parsed{Index: index, Name: name},
		Status:     row.StatusValid,
		Normalized: normalized,
	}
}

func TestDedupeByPhone(t *testing.T) {
	rows := []row.Row{
		valid(1, "Ahmed", "+966551234567"),
		valid(2, "Sara", "+966500000000"),
		valid(3, "ahmed", "+966551234567"),
		valid(4, "", "+966551234567"),
	}

	res := Dedupe(rows, false)

	require.Len(t, res.Unique, 2)
	assert.Equal(t, 1, res.Unique[0].Index)
	assert.True(t, res.Unique[0].IsKept)
	assert.Equal(t, 2, res.Unique[1].Index)

	require.Len(t, res.Duplicates, 2)
	for _, d := range res.Duplicates {
		assert.Equal(t, row.StatusDuplicate, d.Status)
		assert.False(t, d.IsKept)
	}

	require.Len(t, res.ByPhone, 1)
	g := res.ByPhone[0]
	assert.Equal(t, "phone_1", g.ID)
	assert.Equal(t, "+966551234567", g.Key)
	assert.Equal(t, "+966551234567", g.CanonicalPhone)
	assert.Equal(t, 1, g.KeptIndex)
	require.Len(t, g.Items, 3)
	assert.Equal(t, row.StatusValid, g.Items[0].Status)
	assert.Equal(t, row.StatusDuplicate, g.Items[1].Status)
}

func TestDedupePhoneGroupIDsCountSingletons(t *testing.T) {
	rows := []row.Row{
		valid(1, "", "+1"),
		valid(2, "", "+2"),
		valid(3, "", "+2"),
	}
	res := Dedupe(rows, false)
	require.Len(t, res.ByPhone, 1)
	assert.Equal(t, "phone_2", res.ByPhone[0].ID)
}

func TestDedupeKeepsLowestIndex(t *testing.T) {
	rows := []row.Row{
		valid(9, "", "+966551234567"),
		valid(4, "", "+966551234567"),
	}
	res := Dedupe(rows, false)
	require.Len(t, res.Unique, 1)
	assert.Equal(t, 4, res.Unique[0].Index)
	assert.Equal(t, 4, res.ByPhone[0].KeptIndex)

	// Rows stay in input order.
	assert.Equal(t, row.StatusDuplicate, res.Rows[0].Status)
	assert.True(t, res.Rows[1].IsKept)
}

func TestDedupeExactlyOneKeptPerPhone(t *testing.T) {
	var rows []row.Row
	phones := []string{"+1", "+2", "+1", "+3", "+2", "+1"}
	for i, p := range phones {
		rows = append(rows, valid(i+1, "", p))
	}
	res := Dedupe(rows, false)

	kept := map[string]int{}
	for _, r := range res.Rows {
		if r.IsKept {
			kept[r.Normalized]++
		}
	}
	assert.Equal(t, map[string]int{"+1": 1, "+2": 1, "+3": 1}, kept)
	assert.Equal(t, len(rows), len(res.Unique)+len(res.Duplicates))
}

func TestDedupeNamePhoneGroups(t *testing.T) {
	rows := []row.Row{
		valid(1, "Ahmed  Ali", "+966551234567"),
		valid(2, "ahmed ali", "+966551234567"),
		valid(3, "Sara", "+966551234567"),
		valid(4, "", "+966551234567"),
		valid(5, "Sara", "+966500000000"),
	}

	res := Dedupe(rows, false)

	require.Len(t, res.ByNamePhone, 1)
	g := res.ByNamePhone[0]
	assert.Equal(t, "group_1", g.ID)
	assert.Equal(t, "+966551234567__ahmed ali", g.Key)
	assert.Equal(t, 1, g.KeptIndex)
	assert.Len(t, g.Items, 2)
	assert.Empty(t, res.ByName)
}

func TestDedupeNameOnlyGroupsAreGated(t *testing.T) {
	rows := []row.Row{
		valid(1, "Sara", "+966551234567"),
		valid(2, "SARA", "+966500000000"),
		valid(3, "", "+966511111111"),
		valid(4, "", "+966522222222"),
	}

	res := Dedupe(rows, true)
	require.Len(t, res.ByName, 1)
	assert.Equal(t, "sara", res.ByName[0].Key)
	assert.Equal(t, "+966551234567", res.ByName[0].CanonicalPhone)

	// Name groups never change status.
	for _, r := range res.Rows {
		assert.Equal(t, row.StatusValid, r.Status)
	}
}

func TestDedupeDoesNotMutateInput(t *testing.T) {
	rows := []row.Row{
		valid(1, "A", "+1"),
		valid(2, "A", "+1"),
	}
	_ = Dedupe(rows, true)
	assert.Equal(t, row.StatusValid, rows[1].Status)
	assert.False(t, rows[0].IsKept)
	assert.Empty(t, rows[0].NameNormalized)
}
