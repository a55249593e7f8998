// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"phone-cleaner/internal/countries"
	"phone-cleaner/internal/injection"
	"phone-cleaner/internal/paths"
	"phone-cleaner/internal/presets"
	"phone-cleaner/internal/report"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables read by ApplyEnv.
const (
	EnvLogLevel       = "PHONE_CLEANER_LOG_LEVEL"
	EnvLogFormat      = "PHONE_CLEANER_LOG_FORMAT"
	EnvDefaultCountry = "PHONE_CLEANER_DEFAULT_COUNTRY"
	EnvPreset         = "PHONE_CLEANER_PRESET"
	EnvCountriesFile  = "PHONE_CLEANER_COUNTRIES_FILE"
)

// DefaultChunkSize is the number of lines processed between progress updates.
const DefaultChunkSize = 500

// Config represents the application configuration
type Config struct {
	// Default settings
	Defaults struct {
		Format    string          `yaml:"format" validate:"omitempty,oneof=text json yaml csv junit"`
		View      string          `yaml:"view" validate:"omitempty,oneof=cleaned phones duplicates invalid"`
		Verbose   bool            `yaml:"verbose"`
		Debug     bool            `yaml:"debug"`
		NoColor   bool            `yaml:"no_color"`
		Quiet     bool            `yaml:"quiet"`
		Workers   int             `yaml:"workers" validate:"gte=0,lte=64"`
		ChunkSize int             `yaml:"chunk_size" validate:"gte=0"`
		Cleaning  report.Settings `yaml:"cleaning" validate:"-"`
	} `yaml:"defaults"`

	Logging struct {
		Level  string `yaml:"level" validate:"omitempty,oneof=trace debug info warn warning error disabled off"`
		Format string `yaml:"format" validate:"omitempty,oneof=console json"`
	} `yaml:"logging"`

	// Replacement country table (YAML or JSON list)
	CountriesFile string `yaml:"countries_file"`

	// Extra presets merged over the built-in ones
	Presets []presets.Preset `yaml:"presets"`

	// Profiles for different cleaning scenarios
	Profiles map[string]Profile `yaml:"profiles"`
}

// Profile overrides selected cleaning settings. Nil fields keep the value
// from the defaults.
type Profile struct {
	Description             string            `yaml:"description"`
	Format                  string            `yaml:"format" validate:"omitempty,oneof=text json yaml csv junit"`
	DefaultCountry          *string           `yaml:"default_country"`
	StrictMode              *bool             `yaml:"strict_mode"`
	AllowMissingTrunkPrefix *bool             `yaml:"allow_missing_trunk_prefix"`
	StripExtraLeadingZeros  *bool             `yaml:"strip_extra_leading_zeros"`
	DetectNameDuplicates    *bool             `yaml:"detect_name_duplicates"`
	Preset                  *string           `yaml:"preset"`
	Injection               *InjectionProfile `yaml:"injection"`
}

// InjectionProfile overrides injection settings. Rules, when present,
// replace the whole list.
type InjectionProfile struct {
	Enabled           *bool            `yaml:"enabled"`
	IgnoreUnmatched   *bool            `yaml:"ignore_unmatched"`
	FallbackToDefault *bool            `yaml:"fallback_to_default"`
	Rules             []injection.Rule `yaml:"rules"`
}

// Apply returns s with the profile's overrides applied.
func (p *Profile) Apply(s report.Settings) report.Settings {
	if p == nil {
		return s
	}
	setString(&s.DefaultCountryISO2, p.DefaultCountry)
	setString(&s.PresetID, p.Preset)
	setBool(&s.StrictMode, p.StrictMode)
	setBool(&s.AllowMissingTrunkPrefix, p.AllowMissingTrunkPrefix)
	setBool(&s.StripExtraLeadingZeros, p.StripExtraLeadingZeros)
	setBool(&s.DetectNameDuplicates, p.DetectNameDuplicates)
	if inj := p.Injection; inj != nil {
		setBool(&s.Injection.Enabled, inj.Enabled)
		setBool(&s.Injection.IgnoreUnmatched, inj.IgnoreUnmatched)
		setBool(&s.Injection.FallbackToDefault, inj.FallbackToDefault)
		if inj.Rules != nil {
			s.Injection.Rules = injection.EnsureIDs(inj.Rules)
		}
	}
	return s
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

// Default returns the built-in configuration.
func Default() *Config {
	config := &Config{
		Profiles: make(map[string]Profile),
	}
	config.Defaults.Format = "text"
	config.Defaults.View = "cleaned"
	config.Defaults.Workers = 1
	config.Defaults.ChunkSize = DefaultChunkSize
	config.Defaults.Cleaning = report.DefaultSettings()
	config.Logging.Level = "warn"
	config.Logging.Format = "console"

	strict := false
	config.Profiles["lenient"] = Profile{
		Description: "Accepts numbers outside country length bounds when the total digit count is plausible",
		StrictMode:  &strict,
	}
	enabled, fallback := true, true
	config.Profiles["gulf-mixed"] = Profile{
		Description: "Conditional injection for mixed Saudi and Yemeni lists, falling back to the default country",
		Injection: &InjectionProfile{
			Enabled:           &enabled,
			FallbackToDefault: &fallback,
		},
	}
	return config
}

// boolDefaults are true-by-default fields restored when absent from the file.
var boolDefaults = []struct {
	path []string
	get  func(c *Config) *bool
}{
	{[]string{"defaults", "cleaning", "strict_mode"}, func(c *Config) *bool { return &c.Defaults.Cleaning.StrictMode }},
	{[]string{"defaults", "cleaning", "allow_missing_trunk_prefix"}, func(c *Config) *bool { return &c.Defaults.Cleaning.AllowMissingTrunkPrefix }},
	{[]string{"defaults", "cleaning", "injection", "ignore_unmatched"}, func(c *Config) *bool { return &c.Defaults.Cleaning.Injection.IgnoreUnmatched }},
}

// LoadConfig loads configuration from the specified file path
func LoadConfig(configPath string) (*Config, error) {
	config := Default()

	// If no config file specified, return default config
	if configPath == "" {
		return config, nil
	}

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	defaults := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	// Restore defaults if not explicitly set in config file
	for _, f := range boolDefaults {
		if !containsField(data, f.path...) {
			*f.get(config) = *f.get(defaults)
		}
	}
	if !containsField(data, "defaults", "cleaning", "injection", "rules") {
		config.Defaults.Cleaning.Injection.Rules = defaults.Defaults.Cleaning.Injection.Rules
	}
	config.Defaults.Cleaning.Injection.Rules = injection.EnsureIDs(config.Defaults.Cleaning.Injection.Rules)

	for name, p := range defaults.Profiles {
		if _, exists := config.Profiles[name]; !exists {
			config.Profiles[name] = p
		}
	}

	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// FindConfigFile looks for a configuration file in standard locations
func FindConfigFile() string {
	for _, name := range []string{"phone-cleaner.yaml", "phone-cleaner.yml", ".phone-cleaner.yaml", ".phone-cleaner.yml", "config.yaml"} {
		if fileExists(name) {
			return name
		}
	}

	if standardConfig := paths.GetConfigFile(); fileExists(standardConfig) {
		return standardConfig
	}

	if home, err := os.UserHomeDir(); err == nil {
		homeConfig := filepath.Join(home, ".phone-cleaner.yaml")
		if fileExists(homeConfig) {
			return homeConfig
		}
	}
	return ""
}

// fileExists checks if a file exists and is not a directory
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// ListProfiles returns the available profile names, sorted
func (c *Config) ListProfiles() []string {
	profiles := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		profiles = append(profiles, name)
	}
	sort.Strings(profiles)
	return profiles
}

// GetProfile returns a profile by name, or nil if not found
func (c *Config) GetProfile(name string) *Profile {
	if profile, exists := c.Profiles[name]; exists {
		return &profile
	}
	return nil
}

// Settings returns the cleaning settings with the named profile applied.
// An unknown profile is an error; an empty name means the defaults.
func (c *Config) Settings(profile string) (report.Settings, error) {
	s := c.Defaults.Cleaning
	if profile == "" {
		return s, nil
	}
	p := c.GetProfile(profile)
	if p == nil {
		return s, fmt.Errorf("profile %q not found (available: %s)", profile, strings.Join(c.ListProfiles(), ", "))
	}
	return p.Apply(s), nil
}

// PresetRegistry returns the built-in presets merged with configured ones.
func (c *Config) PresetRegistry() *presets.Registry {
	return presets.DefaultRegistry().Merge(c.Presets)
}

// CountryTable loads the configured country table, or the embedded one.
func (c *Config) CountryTable() (countries.Table, error) {
	return countries.LoadOrDefault(c.CountriesFile)
}

// containsField checks if a nested field exists in the YAML data
func containsField(data []byte, path ...string) bool {
	var yamlData map[string]interface{}
	if err := yaml.Unmarshal(data, &yamlData); err != nil {
		return false
	}

	current := yamlData
	for i, key := range path {
		if i == len(path)-1 {
			_, exists := current[key]
			return exists
		}
		next, ok := current[key].(map[string]interface{})
		if !ok {
			return false
		}
		current = next
	}
	return false
}

// LoadEnvFile loads KEY=VALUE pairs from path without overriding variables
// already set. A missing file is not an error unless it was asked for.
func LoadEnvFile(path string, required bool) error {
	if path == "" {
		path = paths.GetEnvFile()
	}
	if !fileExists(path) {
		if required {
			return fmt.Errorf("env file %s not found", path)
		}
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("error loading env file: %w", err)
	}
	return nil
}

// ApplyEnv overlays PHONE_CLEANER_* variables onto the configuration.
func ApplyEnv(c *Config) {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = strings.ToLower(v)
	}
	if v := os.Getenv(EnvDefaultCountry); v != "" {
		c.Defaults.Cleaning.DefaultCountryISO2 = strings.ToUpper(v)
	}
	if v, ok := os.LookupEnv(EnvPreset); ok {
		c.Defaults.Cleaning.PresetID = v
	}
	if v := os.Getenv(EnvCountriesFile); v != "" {
		c.CountriesFile = v
	}
}

// ValidationError is one configuration problem.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors collects every problem found by ValidateConfig.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Error()
	}
	return strings.Join(msgs, "; ")
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateConfig checks field constraints, cleaning settings, rules,
// presets and profiles. It returns ValidationErrors or nil.
func ValidateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("configuration cannot be nil")
	}

	var errs ValidationErrors
	addFieldErrors := func(prefix string, err error) {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				errs = append(errs, ValidationError{Field: prefix + fe.Namespace(), Message: fmt.Sprintf("failed %q check", fe.Tag())})
			}
		} else if err != nil {
			errs = append(errs, ValidationError{Field: prefix, Message: err.Error()})
		}
	}

	addFieldErrors("", validate.Struct(config))

	if err := config.Defaults.Cleaning.Validate(); err != nil {
		errs = append(errs, ValidationError{Field: "defaults.cleaning", Message: err.Error()})
	}

	if config.CountriesFile != "" {
		if err := paths.ValidatePath(config.CountriesFile); err != nil {
			errs = append(errs, ValidationError{Field: "countries_file", Message: err.Error()})
		}
	}

	for i, p := range config.Presets {
		if err := presets.Validate(p); err != nil {
			errs = append(errs, ValidationError{Field: fmt.Sprintf("presets[%d]", i), Message: err.Error()})
		}
	}

	for _, name := range config.ListProfiles() {
		p := config.Profiles[name]
		addFieldErrors("profiles."+name+".", validate.Struct(p))
		if p.Injection != nil {
			for id, problems := range injection.ValidateRules(p.Injection.Rules) {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("profiles.%s.injection.rules[%s]", name, id),
					Message: strings.Join(problems, "; "),
				})
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// LoadConfigOrDefault loads configuration from configFile (or searches standard locations
// when configFile is empty). If loading fails, it returns a default configuration and the
// load error so the caller can log it.
func LoadConfigOrDefault(configFile string) (*Config, error) {
	configPath := configFile
	if configPath == "" {
		configPath = FindConfigFile()
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		return Default(), err
	}
	return cfg, nil
}
