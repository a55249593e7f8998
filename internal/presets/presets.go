// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package presets provides named country presets. A preset picks the default
// country and overrides some of its reference fields.
package presets

import (
	"fmt"
	"strings"

	"phone-cleaner/internal/countries"

	"github.com/go-playground/validator/v10"
)

// Preset bundles a default country with country-field overrides.
type Preset struct {
	ID               string              `yaml:"id" json:"id" validate:"required"`
	LabelAR          string              `yaml:"label_ar" json:"label_ar"`
	LabelEN          string              `yaml:"label_en" json:"label_en"`
	DescriptionAR    string              `yaml:"description_ar" json:"description_ar"`
	DescriptionEN    string              `yaml:"description_en,omitempty" json:"description_en,omitempty"`
	DefaultCountry   string              `yaml:"default_country" json:"default_country" validate:"required,len=2,alpha"`
	CountryOverrides *countries.Override `yaml:"country_overrides,omitempty" json:"country_overrides,omitempty"`
}

// Override returns the preset's override bound to its default country, or
// nil when the preset overrides nothing.
func (p Preset) Override() *countries.Override {
	if p.CountryOverrides == nil {
		return nil
	}
	o := *p.CountryOverrides
	o.ISO2 = strings.ToUpper(p.DefaultCountry)
	return &o
}

func fixedLength(trunk string, n int) *countries.Override {
	return &countries.Override{
		TrunkPrefix:             &trunk,
		NationalNumberLengthMin: &n,
		NationalNumberLengthMax: &n,
	}
}

// Builtin returns the presets shipped with the tool.
func Builtin() []Preset {
	return []Preset{
		{
			ID:               "saudi",
			LabelAR:          "الإعداد السعودي",
			LabelEN:          "Saudi preset",
			DescriptionAR:    "يفرض طول 9 أرقام مع بادئة محلية 0.",
			DescriptionEN:    "Enforces 9 national digits with local trunk prefix 0.",
			DefaultCountry:   "SA",
			CountryOverrides: fixedLength("0", 9),
		},
		{
			ID:               "yemen",
			LabelAR:          "الإعداد اليمني",
			LabelEN:          "Yemen preset",
			DescriptionAR:    "يفرض طول 9 أرقام مع بادئة محلية 0.",
			DescriptionEN:    "Enforces 9 national digits with local trunk prefix 0.",
			DefaultCountry:   "YE",
			CountryOverrides: fixedLength("0", 9),
		},
		{
			ID:               "uae",
			LabelAR:          "الإعداد الإماراتي",
			LabelEN:          "UAE preset",
			DescriptionAR:    "يفرض طول 9 أرقام مع بادئة محلية 0.",
			DescriptionEN:    "Enforces 9 national digits with local trunk prefix 0.",
			DefaultCountry:   "AE",
			CountryOverrides: fixedLength("0", 9),
		},
		{
			ID:               "egypt",
			LabelAR:          "الإعداد المصري",
			LabelEN:          "Egypt preset",
			DescriptionAR:    "يفرض طول 10 أرقام مع بادئة محلية 0.",
			DescriptionEN:    "Enforces 10 national digits with local trunk prefix 0.",
			DefaultCountry:   "EG",
			CountryOverrides: fixedLength("0", 10),
		},
	}
}

// Registry holds presets in insertion order.
type Registry struct {
	order   []string
	presets map[string]Preset
}

// NewRegistry creates a registry. Later presets replace earlier ones with the
// same id but keep the original position.
func NewRegistry(ps ...Preset) *Registry {
	r := &Registry{presets: make(map[string]Preset)}
	for _, p := range ps {
		r.put(p)
	}
	return r
}

// DefaultRegistry returns a registry of the built-in presets.
func DefaultRegistry() *Registry {
	return NewRegistry(Builtin()...)
}

func (r *Registry) put(p Preset) {
	if _, exists := r.presets[p.ID]; !exists {
		r.order = append(r.order, p.ID)
	}
	r.presets[p.ID] = p
}

// Get looks a preset up by id. An empty id never matches.
func (r *Registry) Get(id string) (Preset, bool) {
	if r == nil || id == "" {
		return Preset{}, false
	}
	p, ok := r.presets[id]
	return p, ok
}

// List returns presets in registration order.
func (r *Registry) List() []Preset {
	if r == nil {
		return nil
	}
	out := make([]Preset, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.presets[id])
	}
	return out
}

// Merge returns a new registry with extra presets added or replacing
// existing ones. The receiver is not modified.
func (r *Registry) Merge(extra []Preset) *Registry {
	merged := NewRegistry(r.List()...)
	for _, p := range extra {
		merged.put(p)
	}
	return merged
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the required preset fields.
func Validate(p Preset) error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("preset %q: %w", p.ID, err)
	}
	return nil
}
