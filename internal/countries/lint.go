// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package countries

import (
	"fmt"
	"strconv"

	"github.com/nyaruka/phonenumbers"
)

// LintIssue describes a table entry that disagrees with libphonenumber
// metadata. Issues are advisory and never affect normalization.
type LintIssue struct {
	ISO2    string `json:"iso2" yaml:"iso2"`
	Field   string `json:"field" yaml:"field"`
	Message string `json:"message" yaml:"message"`
}

func (i LintIssue) String() string {
	return fmt.Sprintf("%s %s: %s", i.ISO2, i.Field, i.Message)
}

// Lint cross-checks dial codes and national length bounds against
// libphonenumber's region metadata.
func Lint(t Table) []LintIssue {
	var issues []LintIssue
	for _, c := range t {
		code := phonenumbers.GetCountryCodeForRegion(c.ISO2)
		if code == 0 {
			issues = append(issues, LintIssue{ISO2: c.ISO2, Field: "iso2", Message: "unknown region"})
			continue
		}
		if want := strconv.Itoa(code); want != c.DialCode {
			issues = append(issues, LintIssue{
				ISO2:    c.ISO2,
				Field:   "dial_code",
				Message: fmt.Sprintf("table has %q, metadata has %q", c.DialCode, want),
			})
		}

		example := phonenumbers.GetExampleNumberForType(c.ISO2, phonenumbers.MOBILE)
		if example == nil {
			continue
		}
		nsn := len(phonenumbers.GetNationalSignificantNumber(example))
		if c.HasMin() && nsn < c.NationalNumberLengthMin {
			issues = append(issues, LintIssue{
				ISO2:    c.ISO2,
				Field:   "national_number_length_min",
				Message: fmt.Sprintf("example mobile number has %d digits, below min %d", nsn, c.NationalNumberLengthMin),
			})
		}
		if c.HasMax() && nsn > c.NationalNumberLengthMax {
			issues = append(issues, LintIssue{
				ISO2:    c.ISO2,
				Field:   "national_number_length_max",
				Message: fmt.Sprintf("example mobile number has %d digits, above max %d", nsn, c.NationalNumberLengthMax),
			})
		}
	}
	return issues
}

// LibraryAgrees reports whether libphonenumber also considers e164 a valid
// number. It is used for advisory output only.
func LibraryAgrees(e164 string) bool {
	num, err := phonenumbers.Parse(e164, "")
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumber(num)
}
