// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package formatters

import (
	"fmt"
	"sort"
	"strings"

	"phone-cleaner/internal/report"
)

// Export views. Formatters that render a single table pick it by view;
// document formatters ignore it.
const (
	ViewCleaned    = "cleaned"
	ViewPhones     = "phones"
	ViewDuplicates = "duplicates"
	ViewInvalid    = "invalid"
)

// Views lists the supported export views.
var Views = []string{ViewCleaned, ViewPhones, ViewDuplicates, ViewInvalid}

// IsView reports whether v names a supported view. Empty means cleaned.
func IsView(v string) bool {
	if v == "" {
		return true
	}
	for _, known := range Views {
		if v == known {
			return true
		}
	}
	return false
}

// FormatterOptions defines configuration options for formatters
type FormatterOptions struct {
	View    string // Export view; empty means cleaned
	Verbose bool   // Whether to include every row and the settings used
	NoColor bool   // Whether to disable colored output
}

// Formatter interface defines methods that all output formatters must implement
type Formatter interface {
	// Format renders a cleaning report
	Format(rep *report.Report, options FormatterOptions) (string, error)

	// Name returns the name of the formatter (e.g., "json", "text", "csv")
	Name() string

	// Description returns a brief description of what this formatter outputs
	Description() string

	// FileExtension returns the recommended file extension for this format (e.g., ".json", ".txt", ".csv")
	FileExtension() string
}

// Registry holds all registered formatters
type Registry struct {
	formatters map[string]Formatter
}

// NewRegistry creates a new formatter registry
func NewRegistry() *Registry {
	return &Registry{
		formatters: make(map[string]Formatter),
	}
}

// Register adds a formatter to the registry
func (r *Registry) Register(formatter Formatter) {
	r.formatters[formatter.Name()] = formatter
}

// Get retrieves a formatter by name
func (r *Registry) Get(name string) (Formatter, bool) {
	formatter, exists := r.formatters[name]
	return formatter, exists
}

// List returns all registered formatter names, sorted
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.formatters))
	for name := range r.formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FormatInfo provides metadata about a formatter for the HTTP API
type FormatInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Extension   string `json:"extension"`
	MimeType    string `json:"mime_type"`
}

// DefaultRegistry is the global formatter registry
var DefaultRegistry = NewRegistry()

// Register is a convenience function to register a formatter with the default registry
func Register(formatter Formatter) {
	DefaultRegistry.Register(formatter)
}

// Get is a convenience function to get a formatter from the default registry
func Get(name string) (Formatter, bool) {
	return DefaultRegistry.Get(name)
}

// List is a convenience function to list all formatters in the default registry
func List() []string {
	return DefaultRegistry.List()
}

// Export renders rep with the named formatter. It is shared by the CLI and
// the HTTP API.
func Export(format string, rep *report.Report, options FormatterOptions) (string, error) {
	if rep == nil {
		return "", fmt.Errorf("no report to format")
	}
	if !IsView(options.View) {
		return "", fmt.Errorf("unsupported view '%s'. Available views: %s", options.View, strings.Join(Views, ", "))
	}
	formatter, exists := Get(format)
	if !exists {
		return "", fmt.Errorf("unsupported format '%s'. Available formats: %s", format, strings.Join(List(), ", "))
	}
	return formatter.Format(rep, options)
}

// ExportForWeb provides web-friendly export with proper MIME types and filenames
func ExportForWeb(format string, rep *report.Report, options FormatterOptions) (content string, mimeType string, filename string, err error) {
	content, err = Export(format, rep, options)
	if err != nil {
		return "", "", "", err
	}

	info := GetFormatInfo(format)
	view := options.View
	if view == "" {
		view = ViewCleaned
	}
	return content, info.MimeType, "phone-cleaner-" + view + info.Extension, nil
}

// GetFormatInfo returns metadata about a specific formatter
func GetFormatInfo(name string) FormatInfo {
	formatter, exists := Get(name)
	if !exists {
		return FormatInfo{}
	}

	info := FormatInfo{
		Name:        formatter.Name(),
		Description: formatter.Description(),
		Extension:   formatter.FileExtension(),
	}

	switch name {
	case "json":
		info.MimeType = "application/json"
	case "csv":
		info.MimeType = "text/csv"
	case "yaml":
		info.MimeType = "application/x-yaml"
	case "junit":
		info.MimeType = "application/xml"
	case "text":
		info.MimeType = "text/plain"
	default:
		info.MimeType = "application/octet-stream"
	}

	return info
}

// GetSupportedFormats returns information about all available formatters
func GetSupportedFormats() []FormatInfo {
	var formats []FormatInfo
	for _, name := range List() {
		formats = append(formats, GetFormatInfo(name))
	}
	return formats
}
