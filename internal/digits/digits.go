// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package digits folds Eastern Arabic and Persian digit glyphs to ASCII.
package digits

import (
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

const (
	arabicIndicZero   = '٠' // ٠
	arabicIndicNine   = '٩' // ٩
	extendedIndicZero = '۰' // ۰
	extendedIndicNine = '۹' // ۹
)

// foldRune maps a single Eastern Arabic or Extended Arabic-Indic digit to
// its ASCII counterpart. Every other rune is returned unchanged.
func foldRune(r rune) rune {
	switch {
	case r >= arabicIndicZero && r <= arabicIndicNine:
		return '0' + (r - arabicIndicZero)
	case r >= extendedIndicZero && r <= extendedIndicNine:
		return '0' + (r - extendedIndicZero)
	}
	return r
}

// IsDigit reports whether r is an ASCII, Eastern Arabic or Persian digit.
func IsDigit(r rune) bool {
	return (r >= '0' && r <= '9') ||
		(r >= arabicIndicZero && r <= arabicIndicNine) ||
		(r >= extendedIndicZero && r <= extendedIndicNine)
}

func isNotASCIIDigit(r rune) bool {
	return r < '0' || r > '9'
}

// Folder returns a transformer that folds digit glyphs to ASCII.
// The returned transformer is stateless and may be shared.
func Folder() transform.Transformer {
	return runes.Map(foldRune)
}

// ToWestern converts Eastern Arabic (٠-٩) and Persian (۰-۹) digits to 0-9.
// All other characters pass through unchanged.
func ToWestern(s string) string {
	if s == "" {
		return ""
	}
	out, _, err := transform.String(Folder(), s)
	if err != nil {
		return s
	}
	return out
}

// Extract folds s and drops every character that is not an ASCII digit.
func Extract(s string) string {
	if s == "" {
		return ""
	}
	// transform.Chain keeps internal buffers, so build one per call.
	chain := transform.Chain(Folder(), runes.Remove(runes.Predicate(isNotASCIIDigit)))
	out, _, err := transform.String(chain, s)
	if err != nil {
		return ""
	}
	return out
}

// Count returns the number of digits in s after folding.
func Count(s string) int {
	n := 0
	for _, r := range s {
		if IsDigit(r) {
			n++
		}
	}
	return n
}
