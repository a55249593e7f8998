// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package injection

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateRule lists the problems with a rule. An empty result means the
// rule is usable.
func ValidateRule(r Rule) []string {
	var problems []string

	if err := validate.Struct(r); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				problems = append(problems, fmt.Sprintf("%s failed %q check", fe.Field(), fe.Tag()))
			}
		} else {
			problems = append(problems, err.Error())
		}
	}

	dial := r.DialDigits()
	switch {
	case dial == "":
		problems = append(problems, "dial code must contain digits")
	case dial[0] == '0':
		problems = append(problems, "dial code must not start with 0")
	}

	switch r.LengthMode {
	case LengthEquals:
		if r.LengthEquals == nil || *r.LengthEquals <= 0 {
			problems = append(problems, "equals mode needs a positive length")
		}
	case LengthRange:
		lo, hi := 0, 0
		if r.LengthMin != nil {
			lo = *r.LengthMin
		}
		if r.LengthMax != nil {
			hi = *r.LengthMax
		}
		if lo <= 0 && hi <= 0 {
			problems = append(problems, "range mode needs at least one positive bound")
		}
		if lo > 0 && hi > 0 && lo > hi {
			problems = append(problems, "range minimum is greater than maximum")
		}
	}

	return problems
}

// ValidateRules validates every rule and returns problems keyed by rule id
// (or "#n" for rules without one). Rules without problems are omitted.
func ValidateRules(rules []Rule) map[string][]string {
	out := make(map[string][]string)
	for i, r := range rules {
		problems := ValidateRule(r)
		if len(problems) == 0 {
			continue
		}
		key := r.ID
		if key == "" {
			key = fmt.Sprintf("#%d", i+1)
		}
		out[key] = problems
	}
	return out
}
