// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"phone-cleaner/internal/config"
	"phone-cleaner/internal/core"
	"phone-cleaner/internal/countries"
	"phone-cleaner/internal/help"
	"phone-cleaner/internal/logger"
	"phone-cleaner/internal/observability"
	"phone-cleaner/internal/parallel"
	"phone-cleaner/internal/paths"
	"phone-cleaner/internal/preprocessors"
	"phone-cleaner/internal/report"
	"phone-cleaner/internal/row"
	"phone-cleaner/internal/version"
	"phone-cleaner/internal/web"

	"phone-cleaner/internal/formatters"
	_ "phone-cleaner/internal/formatters/csv"
	_ "phone-cleaner/internal/formatters/json"
	_ "phone-cleaner/internal/formatters/junit"
	_ "phone-cleaner/internal/formatters/text"
	_ "phone-cleaner/internal/formatters/yaml"

	"github.com/gin-gonic/gin"
	"golang.org/x/term"
)

// Exit codes
const (
	exitOK          = 0
	exitError       = 1
	exitInvalidRows = 2
)

// configFlags holds command line flag values
type configFlags struct {
	outputFormat      string
	view              string
	verbose           bool
	debug             bool
	noColor           bool
	quiet             bool
	workers           int
	country           string
	preset            string
	strict            bool
	allowMissingTrunk bool
	stripZeros        bool
	nameDupes         bool
	inject            bool
}

// finalConfiguration holds resolved configuration values
type finalConfiguration struct {
	format    string
	view      string
	verbose   bool
	debug     bool
	noColor   bool
	quiet     bool
	workers   int
	chunkSize int
	settings  report.Settings
}

// loadConfiguration loads the configuration file or returns default config
func loadConfiguration(configFile string) *config.Config {
	cfg, err := config.LoadConfigOrDefault(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Error loading config file: %v\n", err)
		fmt.Fprintf(os.Stderr, "Using default configuration\n")
	}
	return cfg
}

// resolveConfiguration resolves final configuration values from config file, profile, and command line flags
func resolveConfiguration(cfg *config.Config, profileName string, flags *configFlags) (*finalConfiguration, error) {
	final := &finalConfiguration{}
	activeProfile := cfg.GetProfile(profileName)

	// Format
	final.format = "text" // default fallback
	if cfg.Defaults.Format != "" {
		final.format = cfg.Defaults.Format
	}
	if activeProfile != nil && activeProfile.Format != "" {
		final.format = activeProfile.Format
	}
	if isFlagSet("format") && flags.outputFormat != "" {
		final.format = strings.ToLower(flags.outputFormat)
	}

	// View
	final.view = formatters.ViewCleaned
	if cfg.Defaults.View != "" {
		final.view = cfg.Defaults.View
	}
	if isFlagSet("view") && flags.view != "" {
		final.view = strings.ToLower(flags.view)
	}
	if !formatters.IsView(final.view) {
		return nil, fmt.Errorf("unsupported view '%s'. Available views: %s",
			final.view, strings.Join(formatters.Views, ", "))
	}

	final.verbose = cfg.Defaults.Verbose
	if isFlagSet("verbose") {
		final.verbose = flags.verbose
	}
	final.debug = cfg.Defaults.Debug
	if isFlagSet("debug") {
		final.debug = flags.debug
	}
	final.noColor = cfg.Defaults.NoColor
	if isFlagSet("no-color") {
		final.noColor = flags.noColor
	}
	final.quiet = cfg.Defaults.Quiet
	if isFlagSet("quiet") {
		final.quiet = flags.quiet
	}

	final.workers = cfg.Defaults.Workers
	if isFlagSet("workers") {
		if flags.workers < 0 {
			return nil, fmt.Errorf("invalid workers %d: must be 0 (auto) or more", flags.workers)
		}
		final.workers = flags.workers
	}
	if final.workers == 0 {
		final.workers = parallel.OptimalWorkerCount(parallel.DefaultResourceLimits(), parallel.CurrentMetrics(), 0)
	}
	final.chunkSize = cfg.Defaults.ChunkSize

	// Cleaning settings: defaults, then profile, then flags
	settings, err := cfg.Settings(profileName)
	if err != nil {
		return nil, err
	}
	if isFlagSet("country") {
		settings.DefaultCountryISO2 = strings.ToUpper(strings.TrimSpace(flags.country))
	}
	if isFlagSet("preset") {
		settings.PresetID = strings.TrimSpace(flags.preset)
	}
	if isFlagSet("strict") {
		settings.StrictMode = flags.strict
	}
	if isFlagSet("allow-missing-trunk") {
		settings.AllowMissingTrunkPrefix = flags.allowMissingTrunk
	}
	if isFlagSet("strip-zeros") {
		settings.StripExtraLeadingZeros = flags.stripZeros
	}
	if isFlagSet("name-dupes") {
		settings.DetectNameDuplicates = flags.nameDupes
	}
	if isFlagSet("inject") {
		settings.Injection.Enabled = flags.inject
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid cleaning settings: %w", err)
	}
	if settings.PresetID != "" {
		if _, ok := cfg.PresetRegistry().Get(settings.PresetID); !ok {
			return nil, fmt.Errorf("unknown preset '%s' (see -list-presets)", settings.PresetID)
		}
	}
	final.settings = settings

	return final, nil
}

// handleProfiles lists profiles and checks that the requested one exists
func handleProfiles(cfg *config.Config, helpSystem *help.System, listProfiles bool, profileName string) error {
	if listProfiles {
		profiles := make(map[string]string)
		for _, name := range cfg.ListProfiles() {
			profiles[name] = cfg.GetProfile(name).Description
		}
		helpSystem.ShowProfiles(profiles)
		return nil
	}
	if profileName != "" && cfg.GetProfile(profileName) == nil {
		return fmt.Errorf("profile '%s' not found (available: %s)", profileName, strings.Join(cfg.ListProfiles(), ", "))
	}
	return nil
}

// shouldSuppressProgressOutput determines if progress output should be suppressed
func shouldSuppressProgressOutput(finalConfig *finalConfiguration, isInteractive bool) bool {
	return finalConfig.debug || finalConfig.quiet || !isInteractive
}

// readInput returns the text of the input file, or stdin for "" and "-"
func readInput(inputFile string, observer *observability.StandardObserver) (string, string, error) {
	if inputFile == "" || inputFile == "-" {
		if isTerminal(os.Stdin) {
			return "", "", errors.New("no input: pass -file <path> or pipe a list on stdin")
		}
		content, err := preprocessors.ReadInput(os.Stdin, "stdin")
		if err != nil {
			return "", "", err
		}
		return content.Text, "stdin", nil
	}

	if err := paths.ValidatePath(inputFile); err != nil {
		return "", "", err
	}
	text, err := preprocessors.Extract(inputFile, observer)
	if err != nil {
		return "", "", err
	}
	return text, inputFile, nil
}

// invalidRowCount counts rejected rows, ignoring blank lines
func invalidRowCount(rep *report.Report) int {
	n := 0
	for _, r := range rep.Invalid {
		if r.Reason != row.ReasonEmpty {
			n++
		}
	}
	return n
}

// writeOutput writes to the output file, or stdout when none is given
func writeOutput(outputFile, content string) error {
	var w io.Writer = os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	if _, err := io.WriteString(w, content); err != nil {
		return err
	}
	if !strings.HasSuffix(content, "\n") {
		_, err := io.WriteString(w, "\n")
		return err
	}
	return nil
}

func main() {
	os.Exit(run())
}

func run() int {
	// Parse command line flags
	inputFile := flag.String("file", "", "Path to the input list (.txt, .csv, .tsv, .vcf, .pdf); stdin when omitted or '-'")
	configFile := flag.String("config", "", "Path to configuration file (YAML)")
	envFile := flag.String("env-file", "", "Path to a .env file (default: <config dir>/.env)")
	profileName := flag.String("profile", "", "Profile name to use from config file")
	listProfiles := flag.Bool("list-profiles", false, "List available profiles")
	outputFormat := flag.String("format", "", "Output format: text, json, csv, yaml, junit (default: text)")
	view := flag.String("view", "", "Export view: cleaned, phones, duplicates, invalid (default: cleaned)")
	outputFile := flag.String("output", "", "Path to output file (if not specified, output to stdout)")
	verbose := flag.Bool("verbose", false, "Include every row and the settings in the output")
	debug := flag.Bool("debug", false, "Enable debug logging")
	quiet := flag.Bool("quiet", false, "Suppress progress output (useful for scripts and CI/CD)")
	noColor := flag.Bool("no-color", false, "Disable colored output")
	workers := flag.Int("workers", 1, "Number of chunks processed concurrently (0 sizes from CPU and memory)")
	country := flag.String("country", "", "Default country ISO2 code, e.g. SA")
	preset := flag.String("preset", "", "Country preset id (see -list-presets)")
	strict := flag.Bool("strict", true, "Strict country resolution")
	allowMissingTrunk := flag.Bool("allow-missing-trunk", true, "Accept national numbers without the trunk prefix")
	stripZeros := flag.Bool("strip-zeros", false, "Strip extra leading zeros")
	nameDupes := flag.Bool("name-dupes", false, "Also report same-name groups")
	inject := flag.Bool("inject", false, "Enable conditional dial-code injection")
	failOnInvalid := flag.Bool("fail-on-invalid", false, "Exit with status 2 when any non-blank row is invalid")
	preprocessOnly := flag.Bool("preprocess-only", false, "Output the extracted input text and exit")
	preprocessOnlyShort := flag.Bool("p", false, "Output the extracted input text and exit (alias for -preprocess-only)")
	listPresets := flag.Bool("list-presets", false, "List country presets")
	listRules := flag.Bool("list-rules", false, "List injection rules in evaluation order")
	explainReasons := flag.Bool("explain-reasons", false, "Explain invalid reasons; pass a reason name as argument for details")
	checkCountries := flag.Bool("check-countries", false, "Compare the country table with libphonenumber metadata")
	webMode := flag.Bool("web", false, "Start the HTTP API instead of cleaning a list")
	webPort := flag.String("port", "8080", "Port for the HTTP API")
	showHelp := flag.Bool("help", false, "Show help information")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Info())
		return exitOK
	}

	if err := config.LoadEnvFile(*envFile, isFlagSet("env-file")); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitError
	}

	cfg := loadConfiguration(*configFile)
	config.ApplyEnv(cfg)

	logLevel := cfg.Logging.Level
	if *debug {
		logLevel = "debug"
	}
	logger.Init(logger.Config{Level: logLevel, Format: cfg.Logging.Format})

	colorOff := *noColor || cfg.Defaults.NoColor || !isTerminal(os.Stdout)
	helpSystem := help.NewSystem(colorOff)

	if *showHelp {
		helpSystem.ShowGeneralHelp()
		return exitOK
	}

	if *webMode {
		if err := handleWebMode(cfg, *webPort, flag.Args(), *inputFile, *debug); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return exitError
		}
		return exitOK
	}

	if err := handleProfiles(cfg, helpSystem, *listProfiles, *profileName); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitError
	}
	if *listProfiles {
		return exitOK
	}

	flags := &configFlags{
		outputFormat:      *outputFormat,
		view:              *view,
		verbose:           *verbose,
		debug:             *debug,
		noColor:           *noColor,
		quiet:             *quiet,
		workers:           *workers,
		country:           *country,
		preset:            *preset,
		strict:            *strict,
		allowMissingTrunk: *allowMissingTrunk,
		stripZeros:        *stripZeros,
		nameDupes:         *nameDupes,
		inject:            *inject,
	}
	finalConfig, err := resolveConfiguration(cfg, *profileName, flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitError
	}

	switch {
	case *listPresets:
		helpSystem.ShowPresets(cfg.PresetRegistry().List(), finalConfig.settings.PresetID)
		return exitOK
	case *listRules:
		helpSystem.ShowRules(finalConfig.settings.Injection.Rules, finalConfig.settings.Injection.Enabled)
		return exitOK
	case *explainReasons:
		if flag.NArg() > 0 {
			if !helpSystem.ShowReasonHelp(flag.Arg(0)) {
				return exitError
			}
			return exitOK
		}
		helpSystem.ShowReasons()
		return exitOK
	case *checkCountries:
		table, err := cfg.CountryTable()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return exitError
		}
		issues := countries.Lint(table)
		helpSystem.ShowLintIssues(issues)
		if len(issues) > 0 {
			return exitInvalidRows
		}
		return exitOK
	}

	observer := observability.NewStandardObserver(observability.ObservabilityMetrics, nil)
	text, source, err := readInput(*inputFile, observer)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitError
	}

	if *preprocessOnly || *preprocessOnlyShort {
		if err := writeOutput(*outputFile, text); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return exitError
		}
		return exitOK
	}

	table, err := cfg.CountryTable()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitError
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	showProgress := !shouldSuppressProgressOutput(finalConfig, isTerminal(os.Stderr))
	cleanCfg := core.CleanConfig{
		Input:     text,
		Source:    source,
		Settings:  finalConfig.settings,
		Table:     table,
		Presets:   cfg.PresetRegistry(),
		ChunkSize: finalConfig.chunkSize,
		Workers:   finalConfig.workers,
		Debug:     finalConfig.debug,
	}
	if showProgress {
		cleanCfg.Progress = func(completed, total int, _ string) {
			fmt.Fprintf(os.Stderr, "\rProcessed %d/%d lines", completed, total)
			if completed == total {
				fmt.Fprintln(os.Stderr)
			}
		}
	}

	rep, err := core.Clean(ctx, cleanCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitError
	}

	output, err := formatters.Export(finalConfig.format, rep, formatters.FormatterOptions{
		View:    finalConfig.view,
		Verbose: finalConfig.verbose,
		NoColor: finalConfig.noColor || *outputFile != "" || !isTerminal(os.Stdout),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitError
	}
	if err := writeOutput(*outputFile, output); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitError
	}
	if *outputFile != "" && !finalConfig.quiet {
		fmt.Fprintf(os.Stderr, "Results written to %s\n", *outputFile)
	}

	if *failOnInvalid && invalidRowCount(rep) > 0 {
		return exitInvalidRows
	}
	return exitOK
}

// isFlagSet checks if a flag was explicitly set on the command line
func isFlagSet(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// handleWebMode validates web mode flags and starts the web server
func handleWebMode(cfg *config.Config, port string, args []string, inputFile string, debug bool) error {
	if len(args) > 0 || inputFile != "" {
		return fmt.Errorf("-web flag cannot be used with an input list\n"+
			"Web mode starts a server - POST lists to http://localhost:%s/api/clean", port)
	}

	// Validate incompatible flags with web mode
	if err := validateWebModeFlags(); err != nil {
		return err
	}

	portNum, err := validatePort(port)
	if err != nil {
		return fmt.Errorf("port validation failed: %w", err)
	}

	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}
	server, err := web.NewWebServer(cfg, portNum)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.Start(ctx)
}

// webIncompatibleFlags maps CLI-only flags to the reason they do not apply
var webIncompatibleFlags = []struct {
	name   string
	reason string
}{
	{"output", "Web mode returns results in the HTTP response"},
	{"format", "Web mode selects the format with ?format="},
	{"view", "Web mode selects the view with ?view="},
	{"no-color", "Web mode output is never colored"},
	{"quiet", "Web mode has no progress output"},
	{"preprocess-only", "Web mode does not support preprocess-only mode"},
	{"p", "Web mode does not support preprocess-only mode"},
	{"fail-on-invalid", "Web mode reports invalid rows in the response"},
	{"list-profiles", "Web mode accepts a profile per request"},
	{"list-presets", "Use GET /api/presets"},
	{"list-rules", "Use POST /api/rules/validate"},
	{"explain-reasons", "Invalid reasons are described in the report"},
	{"check-countries", "Run -check-countries without -web"},
}

// validateWebModeFlags validates that incompatible flags are not used with -web
func validateWebModeFlags() error {
	var incompatibleFlags []string
	var troubleshooting []string
	for _, f := range webIncompatibleFlags {
		if isFlagSet(f.name) {
			incompatibleFlags = append(incompatibleFlags, "-"+f.name)
			troubleshooting = append(troubleshooting, f.reason)
		}
	}

	if len(incompatibleFlags) == 0 {
		return nil
	}
	errorMsg := fmt.Sprintf("-web flag cannot be used with the following flags: %s\n\n", strings.Join(incompatibleFlags, ", "))
	errorMsg += "Troubleshooting:\n"
	for i, tip := range troubleshooting {
		errorMsg += fmt.Sprintf("  %d. %s\n", i+1, tip)
	}
	errorMsg += "\nRemove the incompatible flags and try again."
	return errors.New(errorMsg)
}

// validatePort validates that the port string is a valid port number
func validatePort(portStr string) (int, error) {
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0, fmt.Errorf("invalid port format '%s': must be a number", portStr)
	}

	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("invalid port %d: must be between 1 and 65535", port)
	}

	if port < 1024 && os.Geteuid() != 0 {
		return 0, fmt.Errorf("port %d requires root privileges (ports below 1024 are privileged)", port)
	}

	return port, nil
}

// isTerminal checks if the file descriptor is a terminal
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
