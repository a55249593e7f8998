// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"phone-cleaner/internal/formatters"
	"phone-cleaner/internal/formatters/shared"
	"phone-cleaner/internal/report"
	"phone-cleaner/internal/row"

	"github.com/fatih/color"
)

// Column limits keep long raw lines from wrapping the table.
const (
	maxNameWidth = 30
	maxRawWidth  = 48
)

// Formatter implements text-based output formatting
type Formatter struct {
	colors map[string]*color.Color
}

// NewFormatter creates a new text formatter
func NewFormatter() *Formatter {
	return &Formatter{
		colors: map[string]*color.Color{
			"green":   color.New(color.FgGreen),
			"yellow":  color.New(color.FgYellow),
			"red":     color.New(color.FgRed),
			"cyan":    color.New(color.FgCyan),
			"magenta": color.New(color.FgMagenta),
			"blue":    color.New(color.FgBlue),
			"white":   color.New(color.FgWhite, color.Bold),
		},
	}
}

func (f *Formatter) Name() string {
	return "text"
}

func (f *Formatter) Description() string {
	return "Human-readable summary and tables with colors"
}

func (f *Formatter) FileExtension() string {
	return ".txt"
}

func (f *Formatter) Format(rep *report.Report, options formatters.FormatterOptions) (string, error) {
	// Disable colors if requested
	if options.NoColor {
		color.NoColor = true
	}

	var b strings.Builder
	f.appendSummary(&b, rep, options)

	inj := shared.InjectionEnabled(rep)
	switch options.View {
	case "", formatters.ViewCleaned:
		f.appendCleaned(&b, rep, inj, options)
		if options.Verbose {
			f.appendDuplicates(&b, rep, options)
			f.appendInvalid(&b, rep, inj, options)
		}
	case formatters.ViewPhones:
		for _, r := range rep.Unique {
			b.WriteString(r.Normalized + "\n")
		}
	case formatters.ViewDuplicates:
		f.appendDuplicates(&b, rep, options)
	case formatters.ViewInvalid:
		f.appendInvalid(&b, rep, inj, options)
	default:
		return "", fmt.Errorf("unsupported text view %q", options.View)
	}

	return strings.TrimRight(b.String(), "\n"), nil
}

func (f *Formatter) paint(options formatters.FormatterOptions, name, s string) string {
	if options.NoColor {
		return s
	}
	return f.colors[name].Sprint(s)
}

// appendSummary writes the stats bar and the input-shape line
func (f *Formatter) appendSummary(b *strings.Builder, rep *report.Report, options formatters.FormatterOptions) {
	s := rep.Stats
	fmt.Fprintf(b, "%s %d  %s %d  %s %d  %s %d  %s %d\n",
		f.paint(options, "white", "Total:"), s.Total,
		f.paint(options, "green", "Valid:"), s.Valid,
		f.paint(options, "cyan", "Unique:"), s.Unique,
		f.paint(options, "yellow", "Duplicate:"), s.Duplicate,
		f.paint(options, "red", "Invalid:"), s.Invalid,
	)

	var shape []string
	if rep.Hints.CSVLike {
		shape = append(shape, "comma separated")
	}
	if rep.Hints.SeparatorLike {
		shape = append(shape, "pipe/dash separated")
	}
	if len(shape) > 0 {
		fmt.Fprintf(b, "%s %s\n", f.paint(options, "blue", "Input:"), strings.Join(shape, ", "))
	}
	if options.Verbose {
		fmt.Fprintf(b, "%s %s  %s %dms\n",
			f.paint(options, "blue", "Run:"), rep.RunID,
			f.paint(options, "blue", "Duration:"), rep.Duration.Milliseconds())
	}
	b.WriteString("\n")
}

func (f *Formatter) appendHeader(b *strings.Builder, options formatters.FormatterOptions, format string, cols ...any) {
	header := fmt.Sprintf(format, cols...)
	b.WriteString(f.paint(options, "white", header) + "\n")
	b.WriteString(f.paint(options, "white", strings.Repeat("-", utf8.RuneCountInString(header))) + "\n")
}

func (f *Formatter) appendCleaned(b *strings.Builder, rep *report.Report, inj bool, options formatters.FormatterOptions) {
	if len(rep.Unique) == 0 {
		b.WriteString("No valid numbers found.\n")
		return
	}

	nameWidth := columnWidth(rep.Unique, "NAME", func(r row.Row) string { return r.Name }, maxNameWidth)
	f.appendHeader(b, options, "%-6s %-*s %-16s %-7s %s", "ROW", nameWidth, "NAME", "PHONE", "COUNTRY", "RULE")
	for _, r := range rep.Unique {
		country := ""
		if r.Country != nil {
			country = r.Country.ISO2
		}
		fmt.Fprintf(b, "%-6d %-*s %s %-7s %s\n",
			r.Index,
			nameWidth, truncate(r.Name, nameWidth),
			f.paint(options, "green", fmt.Sprintf("%-16s", r.Normalized)),
			country,
			shared.RuleLabel(r, inj),
		)
	}
	b.WriteString("\n")
}

func (f *Formatter) appendDuplicates(b *strings.Builder, rep *report.Report, options formatters.FormatterOptions) {
	if len(rep.DuplicateGroupsByPhone) == 0 {
		b.WriteString("No duplicate numbers found.\n")
	} else {
		b.WriteString(f.paint(options, "yellow", fmt.Sprintf("Duplicates by phone (%d)", len(rep.DuplicateGroupsByPhone))) + "\n")
		for _, g := range rep.DuplicateGroupsByPhone {
			f.appendGroup(b, g, options)
		}
	}

	if len(rep.DuplicateGroupsByNamePhone) > 0 {
		b.WriteString(f.paint(options, "magenta", fmt.Sprintf("Same name and phone (%d)", len(rep.DuplicateGroupsByNamePhone))) + "\n")
		for _, g := range rep.DuplicateGroupsByNamePhone {
			f.appendGroup(b, g, options)
		}
	}
	if len(rep.DuplicateGroupsByName) > 0 {
		b.WriteString(f.paint(options, "magenta", fmt.Sprintf("Same name (%d)", len(rep.DuplicateGroupsByName))) + "\n")
		for _, g := range rep.DuplicateGroupsByName {
			f.appendGroup(b, g, options)
		}
	}
	b.WriteString("\n")
}

func (f *Formatter) appendGroup(b *strings.Builder, g row.DuplicateGroup, options formatters.FormatterOptions) {
	fmt.Fprintf(b, "  %s %s\n", f.paint(options, "cyan", g.ID), g.CanonicalPhone)
	for _, r := range g.Items {
		mark := "  "
		if r.Index == g.KeptIndex {
			mark = f.paint(options, "green", "* ")
		}
		fmt.Fprintf(b, "    %s%-6d %s\n", mark, r.Index, truncate(r.Raw, maxRawWidth))
	}
}

func (f *Formatter) appendInvalid(b *strings.Builder, rep *report.Report, inj bool, options formatters.FormatterOptions) {
	if len(rep.Invalid) == 0 {
		b.WriteString("No invalid rows.\n")
		return
	}

	f.appendHeader(b, options, "%-6s %-15s %-20s %s", "ROW", "REASON", "RULE", "LINE")
	for _, r := range rep.Invalid {
		fmt.Fprintf(b, "%-6d %s %-20s %s\n",
			r.Index,
			f.paint(options, "red", fmt.Sprintf("%-15s", r.Reason)),
			shared.RuleLabel(r, inj),
			truncate(r.Raw, maxRawWidth),
		)
	}
	b.WriteString("\n")
}

func columnWidth(rows []row.Row, header string, field func(row.Row) string, limit int) int {
	width := utf8.RuneCountInString(header)
	for _, r := range rows {
		if n := utf8.RuneCountInString(field(r)); n > width {
			width = n
		}
	}
	return min(width, limit)
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-3]) + "..."
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
