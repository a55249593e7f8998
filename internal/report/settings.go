// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"phone-cleaner/internal/countries"
	"phone-cleaner/internal/injection"

	"github.com/go-playground/validator/v10"
)

// InjectionSettings configures conditional dial-code injection.
type InjectionSettings struct {
	Enabled           bool             `yaml:"enabled" json:"enabled"`
	IgnoreUnmatched   bool             `yaml:"ignore_unmatched" json:"ignore_unmatched"`
	FallbackToDefault bool             `yaml:"fallback_to_default" json:"fallback_to_default"`
	Rules             []injection.Rule `yaml:"rules" json:"rules"`
}

// Settings is the user-configurable cleaning context.
type Settings struct {
	DefaultCountryISO2      string            `yaml:"default_country" json:"default_country" validate:"omitempty,len=2,alpha"`
	StrictMode              bool              `yaml:"strict_mode" json:"strict_mode"`
	AllowMissingTrunkPrefix bool              `yaml:"allow_missing_trunk_prefix" json:"allow_missing_trunk_prefix"`
	StripExtraLeadingZeros  bool              `yaml:"strip_extra_leading_zeros" json:"strip_extra_leading_zeros"`
	DetectNameDuplicates    bool              `yaml:"detect_name_duplicates" json:"detect_name_duplicates"`
	PresetID                string            `yaml:"preset" json:"preset"`
	Injection               InjectionSettings `yaml:"injection" json:"injection"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		DefaultCountryISO2:      countries.DefaultISO2,
		StrictMode:              true,
		AllowMissingTrunkPrefix: true,
		StripExtraLeadingZeros:  false,
		DetectNameDuplicates:    false,
		PresetID:                "saudi",
		Injection: InjectionSettings{
			Enabled:           false,
			IgnoreUnmatched:   true,
			FallbackToDefault: false,
			Rules:             injection.DefaultRules(),
		},
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the settings fields and every injection rule. Problems are
// joined into one error, rule problems keyed by rule id.
func (s Settings) Validate() error {
	var errs []error
	if err := validate.Struct(s); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				errs = append(errs, fmt.Errorf("%s failed %q check", fe.Namespace(), fe.Tag()))
			}
		} else {
			errs = append(errs, err)
		}
	}

	problems := injection.ValidateRules(s.Injection.Rules)
	ids := make([]string, 0, len(problems))
	for id := range problems {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		errs = append(errs, fmt.Errorf("rule %s: %s", id, strings.Join(problems[id], "; ")))
	}
	return errors.Join(errs...)
}
