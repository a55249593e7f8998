// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package countries holds the reference country table used to resolve dial
// codes, trunk prefixes and national-number length bounds.
package countries

import "strings"

const (
	// DefaultISO2 is the default country when settings carry none.
	DefaultISO2 = "SA"

	// GenericMinLength and GenericMaxLength bound the total E.164 digit count
	// when a country declares no bound of its own.
	GenericMinLength = 7
	GenericMaxLength = 15
)

// Country is one reference-data entry. Zero length bounds mean "unset".
type Country struct {
	ISO2                    string `yaml:"iso2" json:"iso2" validate:"required,len=2,alpha"`
	NameEN                  string `yaml:"name_en" json:"name_en" validate:"required"`
	NameAR                  string `yaml:"name_ar" json:"name_ar"`
	DialCode                string `yaml:"dial_code" json:"dial_code" validate:"required,number,max=4"`
	TrunkPrefix             string `yaml:"trunk_prefix,omitempty" json:"trunk_prefix,omitempty" validate:"omitempty,number"`
	NationalNumberLengthMin int    `yaml:"national_number_length_min,omitempty" json:"national_number_length_min,omitempty" validate:"gte=0"`
	NationalNumberLengthMax int    `yaml:"national_number_length_max,omitempty" json:"national_number_length_max,omitempty" validate:"gte=0"`
}

// Override is a partial Country. Nil fields leave the base value untouched.
// ISO2, when set, names the country the override targets.
type Override struct {
	ISO2                    string  `yaml:"iso2,omitempty" json:"iso2,omitempty"`
	NameEN                  *string `yaml:"name_en,omitempty" json:"name_en,omitempty"`
	NameAR                  *string `yaml:"name_ar,omitempty" json:"name_ar,omitempty"`
	DialCode                *string `yaml:"dial_code,omitempty" json:"dial_code,omitempty"`
	TrunkPrefix             *string `yaml:"trunk_prefix,omitempty" json:"trunk_prefix,omitempty"`
	NationalNumberLengthMin *int    `yaml:"national_number_length_min,omitempty" json:"national_number_length_min,omitempty"`
	NationalNumberLengthMax *int    `yaml:"national_number_length_max,omitempty" json:"national_number_length_max,omitempty"`
}

// Targets reports whether the override is bound to the given country.
func (o *Override) Targets(iso2 string) bool {
	return o != nil && o.ISO2 != "" && strings.EqualFold(o.ISO2, iso2)
}

// Merge returns a copy of c with every non-nil override field applied.
func (c Country) Merge(o *Override) Country {
	if o == nil {
		return c
	}
	if o.NameEN != nil {
		c.NameEN = *o.NameEN
	}
	if o.NameAR != nil {
		c.NameAR = *o.NameAR
	}
	if o.DialCode != nil {
		c.DialCode = *o.DialCode
	}
	if o.TrunkPrefix != nil {
		c.TrunkPrefix = *o.TrunkPrefix
	}
	if o.NationalNumberLengthMin != nil {
		c.NationalNumberLengthMin = *o.NationalNumberLengthMin
	}
	if o.NationalNumberLengthMax != nil {
		c.NationalNumberLengthMax = *o.NationalNumberLengthMax
	}
	return c
}

// HasMin reports whether the country declares a national minimum length.
func (c Country) HasMin() bool { return c.NationalNumberLengthMin > 0 }

// HasMax reports whether the country declares a national maximum length.
func (c Country) HasMax() bool { return c.NationalNumberLengthMax > 0 }
