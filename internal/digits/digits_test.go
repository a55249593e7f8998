// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package digits

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToWestern(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"eastern arabic", "٠١٢٣٤٥٦٧٨٩", "0123456789"},
		{"persian", "۰۱۲۳۴۵۶۷۸۹", "0123456789"},
		{"mixed scripts", "٩٩١٢٣ and ۴۵", "99123 and 45"},
		{"letters untouched", "أحمد abc", "أحمد abc"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ToWestern(tc.input))
		})
	}
}

func TestExtract(t *testing.T) {
	assert.Equal(t, "0551234567", Extract("أحمد ٠٥٥-١٢٣-٤٥٦٧"))
	assert.Equal(t, "966551234567", Extract("+966 (55) 123.4567"))
	assert.Equal(t, "", Extract("no digits here"))
	assert.Equal(t, "", Extract(""))
}

func TestExtractIsIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"abc",
		"+966 55 123 4567",
		"٠٥٥١٢٣٤٥٦٧",
		"۰۹۱۲ ۳۴۵ ۶۷۸۹",
		"tel: 00-967-777-123-456 ext 9",
	}
	for _, in := range inputs {
		once := Extract(in)
		assert.Equal(t, once, Extract(once), "input %q", in)
	}
}

func TestCount(t *testing.T) {
	assert.Equal(t, 10, Count("٠٥٥-123-٤٥٦٧"))
	assert.Equal(t, 0, Count("Ahmed"))
}

func TestIsDigit(t *testing.T) {
	for _, r := range []rune{'0', '9', '٠', '٩', '۰', '۹'} {
		assert.True(t, IsDigit(r), "rune %q", r)
	}
	for _, r := range []rune{'a', '+', ' ', '-', '١' + 20} {
		assert.False(t, IsDigit(r), "rune %q", r)
	}
}
