// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package help

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"phone-cleaner/internal/countries"
	"phone-cleaner/internal/injection"
	"phone-cleaner/internal/presets"
	"phone-cleaner/internal/row"

	"github.com/fatih/color"
)

// ReasonInfo contains the long form explanation of an invalid reason
type ReasonInfo struct {
	Reason   row.InvalidReason
	Details  string   // What triggers the reason
	Examples []string // Input lines that produce it under default settings
	Fix      string   // Setting or input change that usually resolves it
}

// reasonInfo is keyed by reason and listed in row.Reasons order.
var reasonInfo = map[row.InvalidReason]ReasonInfo{
	row.ReasonEmpty: {
		Details:  "The line is blank or only whitespace. Blank lines are counted in the totals and never deduplicated.",
		Examples: []string{"", "   "},
		Fix:      "Nothing to fix; blank lines are reported so row numbers stay aligned with the input.",
	},
	row.ReasonNoDigits: {
		Details:  "After folding Arabic-Indic digits and stripping everything but 0-9, nothing remained.",
		Examples: []string{"Mona", "call me later"},
		Fix:      "Check that the phone column was exported; names alone cannot be cleaned.",
	},
	row.ReasonNoRuleMatch: {
		Details:  "Conditional injection is enabled, no enabled rule matched the local digits, and fallback to the default country is off.",
		Examples: []string{"Ali - 0123"},
		Fix:      "Add a rule for the number shape, or turn on injection.fallback_to_default.",
	},
	row.ReasonInvalidPrefix: {
		Details:  "Removing the trunk prefix or dial code left no digits, the number started with +0, or strict mode required a trunk prefix that was missing.",
		Examples: []string{"+0551234567", "0"},
		Fix:      "Enable allow_missing_trunk_prefix when lists drop the leading 0.",
	},
	row.ReasonTooShort: {
		Details:  "The national number is shorter than the country minimum, or the full number has fewer than 7 digits when no country bounds apply. Outside strict mode a short national number passes while the full number has at least 7 digits.",
		Examples: []string{"055123"},
		Fix:      "Usually a typo in the source list; the lenient profile accepts numbers within the generic bounds.",
	},
	row.ReasonTooLong: {
		Details:  "The national number is longer than the country maximum, or the full number has more than 15 digits when no country bounds apply.",
		Examples: []string{"05512345678901"},
		Fix:      "Two numbers on one line are read as one; split them in the source list.",
	},
	row.ReasonAmbiguous: {
		Details:  "No country could be resolved in strict mode: the number carries no known dial code and there is no usable default country.",
		Examples: []string{"0551234567 (with default_country unset)"},
		Fix:      "Set default_country or pick a preset.",
	},
}

// System renders help content for the CLI
type System struct {
	out     io.Writer
	noColor bool
	colors  map[string]*color.Color
}

// NewSystem creates a new help system writing to stdout
func NewSystem(noColor bool) *System {
	// Disable colors if requested
	if noColor {
		color.NoColor = true
	}

	return &System{
		out:     os.Stdout,
		noColor: noColor,
		colors: map[string]*color.Color{
			"title":    color.New(color.FgWhite, color.Bold),
			"header":   color.New(color.FgBlue, color.Bold),
			"item":     color.New(color.FgCyan),
			"emphasis": color.New(color.FgWhite, color.Bold),
			"positive": color.New(color.FgGreen),
			"negative": color.New(color.FgRed),
			"warning":  color.New(color.FgYellow),
			"example":  color.New(color.FgMagenta),
		},
	}
}

// SetOutput redirects help output
func (h *System) SetOutput(w io.Writer) {
	h.out = w
}

func (h *System) println(style string, a ...interface{}) {
	if h.noColor {
		fmt.Fprintln(h.out, a...)
		return
	}
	h.colors[style].Fprintln(h.out, a...)
}

func (h *System) sprint(style string, s string) string {
	if h.noColor {
		return s
	}
	return h.colors[style].Sprint(s)
}

// ShowGeneralHelp displays general help information
func (h *System) ShowGeneralHelp() {
	h.println("title", "Phone Cleaner - Phone List Normalization and Deduplication")
	fmt.Fprintln(h.out, "==========================================================")
	fmt.Fprintln(h.out)
	h.println("header", "USAGE:")
	fmt.Fprintln(h.out, "  phone-cleaner [-file <path>] [options]   # reads stdin when -file is omitted or '-'")
	fmt.Fprintln(h.out, "  phone-cleaner -web [-port <port>]        # HTTP API mode")
	fmt.Fprintln(h.out)

	h.println("header", "OPTIONS:")
	w := tabwriter.NewWriter(h.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  -file\t<path>\tInput list: .txt, .csv, .tsv, .vcf or .pdf")
	fmt.Fprintln(w, "  -config\t<path>\tPath to configuration file (YAML)")
	fmt.Fprintln(w, "  -profile\t<name>\tProfile name to use from config file")
	fmt.Fprintln(w, "  -list-profiles\t\tList available profiles")
	fmt.Fprintln(w, "  -env-file\t<path>\tLoad environment variables from a .env file")
	fmt.Fprintln(w, "  -format\t<format>\tOutput format: text, json, csv, yaml, junit (default: text)")
	fmt.Fprintln(w, "  -view\t<view>\tExport view: cleaned, phones, duplicates, invalid (default: cleaned)")
	fmt.Fprintln(w, "  -output\t<path>\tWrite output to a file instead of stdout")
	fmt.Fprintln(w, "  -country\t<iso2>\tDefault country, e.g. SA")
	fmt.Fprintln(w, "  -preset\t<id>\tCountry preset (see -list-presets)")
	fmt.Fprintln(w, "  -strict\t\tStrict country resolution (default: true)")
	fmt.Fprintln(w, "  -allow-missing-trunk\t\tAccept national numbers without the trunk prefix (default: true)")
	fmt.Fprintln(w, "  -strip-zeros\t\tStrip extra leading zeros")
	fmt.Fprintln(w, "  -name-dupes\t\tAlso report same-name groups")
	fmt.Fprintln(w, "  -inject\t\tEnable conditional dial-code injection")
	fmt.Fprintln(w, "  -workers\t<n>\tProcess chunks concurrently (0 sizes from CPU and memory)")
	fmt.Fprintln(w, "  -verbose\t\tInclude every row and the settings in the output")
	fmt.Fprintln(w, "  -debug\t\tEnable debug logging")
	fmt.Fprintln(w, "  -quiet\t\tSuppress progress output")
	fmt.Fprintln(w, "  -fail-on-invalid\t\tExit with status 2 when any non-blank row is invalid")
	fmt.Fprintln(w, "  -preprocess-only, -p\t\tOutput the extracted input text and exit")
	fmt.Fprintln(w, "  -no-color\t\tDisable colored output")
	fmt.Fprintln(w, "  -list-presets\t\tList country presets")
	fmt.Fprintln(w, "  -list-rules\t\tList injection rules in evaluation order")
	fmt.Fprintln(w, "  -explain-reasons\t\tExplain invalid reasons")
	fmt.Fprintln(w, "  -check-countries\t\tCompare the country table with libphonenumber metadata")
	fmt.Fprintln(w, "  -web\t\tStart the HTTP API")
	fmt.Fprintln(w, "  -port\t<port>\tPort for the HTTP API (default: 8080)")
	fmt.Fprintln(w, "  -version\t\tShow version information")
	fmt.Fprintln(w, "  -help\t\tShow this help message")
	w.Flush()

	fmt.Fprintln(h.out)
	h.println("header", "EXAMPLES:")
	h.println("example", "  phone-cleaner -file contacts.txt")
	h.println("example", "  phone-cleaner -file contacts.pdf -format csv -view invalid -output invalid.csv")
	h.println("example", "  cat list.txt | phone-cleaner -format csv -view phones")
	h.println("example", "  phone-cleaner -file list.txt -profile gulf-mixed -verbose")
	h.println("example", "  phone-cleaner -web -port 9000")

	fmt.Fprintln(h.out)
	h.println("header", "CONFIGURATION:")
	fmt.Fprintln(h.out, "  Default config: ~/.phone-cleaner/config.yaml")
	fmt.Fprintln(h.out, "  Project config: phone-cleaner.yaml or .phone-cleaner.yaml (in current directory)")
	fmt.Fprintln(h.out, "  Environment: PHONE_CLEANER_CONFIG_DIR - Override config directory")
}

// ShowPresets lists presets, marking the active one
func (h *System) ShowPresets(list []presets.Preset, active string) {
	h.println("title", "Country Presets")
	fmt.Fprintln(h.out)

	w := tabwriter.NewWriter(h.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  ID\tCOUNTRY\tTRUNK\tLENGTH\tLABEL")
	for _, p := range list {
		marker := " "
		if p.ID == active {
			marker = "*"
		}
		trunk, length := "-", "-"
		if o := p.CountryOverrides; o != nil {
			if o.TrunkPrefix != nil {
				trunk = *o.TrunkPrefix
			}
			length = boundsLabel(o.NationalNumberLengthMin, o.NationalNumberLengthMax)
		}
		label := p.LabelEN
		if p.LabelAR != "" {
			label = strings.TrimSpace(label + " / " + p.LabelAR)
		}
		fmt.Fprintf(w, "%s %s\t%s\t%s\t%s\t%s\n", marker, h.sprint("emphasis", p.ID),
			strings.ToUpper(p.DefaultCountry), trunk, length, label)
	}
	w.Flush()
}

// ShowRules lists injection rules in evaluation order
func (h *System) ShowRules(rules []injection.Rule, enabled bool) {
	h.println("title", "Injection Rules")
	state := h.sprint("negative", "disabled")
	if enabled {
		state = h.sprint("positive", "enabled")
	}
	fmt.Fprintf(h.out, "Conditional injection is %s. Rules are tried top to bottom; the first match wins.\n\n", state)

	if len(rules) == 0 {
		fmt.Fprintln(h.out, "No rules configured.")
		return
	}

	w := tabwriter.NewWriter(h.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  #\tRULE\tDIAL\tLENGTH\tPREFIXES\tTRUNK\tSTATE")
	for i, r := range rules {
		length := "-"
		switch r.LengthMode {
		case injection.LengthEquals:
			if r.LengthEquals != nil {
				length = "=" + strconv.Itoa(*r.LengthEquals)
			}
		case injection.LengthRange:
			length = boundsLabel(r.LengthMin, r.LengthMax)
		}
		prefixes := "any"
		if len(r.Prefixes) > 0 {
			prefixes = strings.Join(r.Prefixes, ",")
		}
		trunk := string(r.TrunkHandling)
		if trunk == "" {
			trunk = string(injection.TrunkKeep)
		}
		ruleState := h.sprint("positive", "on")
		if !r.Enabled {
			ruleState = h.sprint("warning", "off")
		}
		fmt.Fprintf(w, "  %d\t%s\t%s\t%s\t%s\t%s\t%s\n", i+1, r.Label(), r.DialCode, length, prefixes, trunk, ruleState)
	}
	w.Flush()
}

// ShowReasons lists every invalid reason with its short description
func (h *System) ShowReasons() {
	h.println("title", "Invalid Reasons")
	fmt.Fprintln(h.out)

	w := tabwriter.NewWriter(h.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  REASON\tDESCRIPTION")
	for _, r := range row.Reasons {
		fmt.Fprintf(w, "  %s\t%s\n", h.sprint("item", string(r)), r.Describe())
	}
	w.Flush()

	fmt.Fprintln(h.out)
	fmt.Fprintln(h.out, "For details on one reason, use:")
	h.println("example", "  phone-cleaner -explain-reasons <reason>")
}

// ShowReasonHelp displays detailed help for one reason
func (h *System) ShowReasonHelp(name string) bool {
	reason := row.InvalidReason(strings.ToLower(strings.TrimSpace(name)))
	info, exists := reasonInfo[reason]
	if !exists {
		h.println("negative", fmt.Sprintf("Error: reason '%s' not found.", name))
		fmt.Fprintln(h.out, "Use 'phone-cleaner -explain-reasons' to see every reason.")
		return false
	}

	h.println("title", string(reason))
	fmt.Fprintln(h.out, strings.Repeat("=", len(reason)))
	fmt.Fprintln(h.out, reason.Describe())
	fmt.Fprintln(h.out)
	fmt.Fprintln(h.out, info.Details)
	fmt.Fprintln(h.out)

	if len(info.Examples) > 0 {
		h.println("header", "EXAMPLES:")
		for _, ex := range info.Examples {
			fmt.Fprintf(h.out, "  - %s\n", h.sprint("example", strconv.Quote(ex)))
		}
		fmt.Fprintln(h.out)
	}
	h.println("header", "FIX:")
	fmt.Fprintf(h.out, "  %s\n", info.Fix)
	return true
}

// ShowProfiles lists profile names with descriptions
func (h *System) ShowProfiles(profiles map[string]string) {
	if len(profiles) == 0 {
		fmt.Fprintln(h.out, "No profiles defined.")
		return
	}
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)

	h.println("title", "Available Profiles")
	w := tabwriter.NewWriter(h.out, 0, 0, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(w, "  %s\t%s\n", h.sprint("emphasis", name), profiles[name])
	}
	w.Flush()
}

// ShowLintIssues prints country table disagreements with libphonenumber
func (h *System) ShowLintIssues(issues []countries.LintIssue) {
	if len(issues) == 0 {
		h.println("positive", "Country table agrees with libphonenumber metadata.")
		return
	}
	h.println("warning", fmt.Sprintf("%d country table issue(s):", len(issues)))
	w := tabwriter.NewWriter(h.out, 0, 0, 2, ' ', 0)
	for _, issue := range issues {
		fmt.Fprintf(w, "  %s\t%s\t%s\n", issue.ISO2, issue.Field, issue.Message)
	}
	w.Flush()
}

func boundsLabel(lo, hi *int) string {
	switch {
	case lo != nil && hi != nil:
		return fmt.Sprintf("%d-%d", *lo, *hi)
	case lo != nil:
		return fmt.Sprintf(">=%d", *lo)
	case hi != nil:
		return fmt.Sprintf("<=%d", *hi)
	default:
		return "-"
	}
}
