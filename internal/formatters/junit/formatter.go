// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package junit

import (
	"encoding/xml"
	"fmt"
	"strings"

	"phone-cleaner/internal/formatters"
	"phone-cleaner/internal/formatters/shared"
	"phone-cleaner/internal/report"
	"phone-cleaner/internal/row"
)

// JUnit XML structures based on the standard JUnit XML schema
type TestSuites struct {
	XMLName    xml.Name    `xml:"testsuites"`
	Name       string      `xml:"name,attr"`
	Tests      int         `xml:"tests,attr"`
	Failures   int         `xml:"failures,attr"`
	Errors     int         `xml:"errors,attr"`
	Time       string      `xml:"time,attr"`
	TestSuites []TestSuite `xml:"testsuite"`
}

type TestSuite struct {
	XMLName   xml.Name   `xml:"testsuite"`
	Name      string     `xml:"name,attr"`
	Tests     int        `xml:"tests,attr"`
	Failures  int        `xml:"failures,attr"`
	Errors    int        `xml:"errors,attr"`
	Time      string     `xml:"time,attr"`
	TestCases []TestCase `xml:"testcase"`
}

type TestCase struct {
	XMLName   xml.Name `xml:"testcase"`
	Name      string   `xml:"name,attr"`
	ClassName string   `xml:"classname,attr"`
	Time      string   `xml:"time,attr"`
	Failure   *Failure `xml:"failure,omitempty"`
	SystemOut string   `xml:"system-out,omitempty"`
}

type Failure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Content string `xml:",chardata"`
}

// Formatter renders one test case per row. Invalid rows fail, so a CI job
// can gate on a clean contact list.
type Formatter struct{}

// NewFormatter creates a new JUnit XML formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "junit"
}

func (f *Formatter) Description() string {
	return "JUnit XML with invalid rows as failures, for CI/CD gating"
}

func (f *Formatter) FileExtension() string {
	return ".xml"
}

func (f *Formatter) Format(rep *report.Report, options formatters.FormatterOptions) (string, error) {
	inj := shared.InjectionEnabled(rep)
	elapsed := fmt.Sprintf("%.3f", rep.Duration.Seconds())

	suite := TestSuite{
		Name:      "rows",
		Time:      elapsed,
		TestCases: make([]TestCase, 0, len(rep.Rows)),
	}
	for _, r := range rep.Rows {
		tc := f.createTestCase(r, inj, options)
		if tc.Failure != nil {
			suite.Failures++
		}
		suite.TestCases = append(suite.TestCases, tc)
		suite.Tests++
	}

	testSuites := TestSuites{
		Name:       "phone-cleaner",
		Tests:      suite.Tests,
		Failures:   suite.Failures,
		Time:       elapsed,
		TestSuites: []TestSuite{suite},
	}

	xmlData, err := xml.MarshalIndent(testSuites, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JUnit XML: %w", err)
	}

	// Add XML declaration
	return xml.Header + string(xmlData), nil
}

// createTestCase maps a row to a test case named after its line number
func (f *Formatter) createTestCase(r row.Row, inj bool, options formatters.FormatterOptions) TestCase {
	tc := TestCase{
		Name:      fmt.Sprintf("line %d", r.Index),
		ClassName: "phone-cleaner." + string(r.Status),
		Time:      "0.000",
	}

	if r.Status == row.StatusInvalid {
		var content strings.Builder
		fmt.Fprintf(&content, "Line %d: %s", r.Index, r.Reason.Describe())
		if label := shared.RuleLabel(r, inj); label != "" {
			fmt.Fprintf(&content, "\nRule: %s", label)
		}
		fmt.Fprintf(&content, "\nRaw: %s", r.Raw)
		tc.Failure = &Failure{
			Message: string(r.Reason),
			Type:    string(r.Reason),
			Content: content.String(),
		}
		return tc
	}

	if options.Verbose {
		tc.SystemOut = r.Normalized
	}
	return tc
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
