// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package countries

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed data/countries.yaml
var defaultTableData []byte

var validate = validator.New(validator.WithRequiredStructEnabled())

// Default parses the embedded reference table.
func Default() (Table, error) {
	return Parse(defaultTableData, ".yaml")
}

// MustDefault is Default for callers that cannot recover from a broken
// embedded table, such as package-level test fixtures.
func MustDefault() Table {
	t, err := Default()
	if err != nil {
		panic(fmt.Sprintf("embedded country table: %v", err))
	}
	return t
}

// Load reads a replacement table from a YAML or JSON file.
func Load(path string) (Table, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("error reading country table: %w", err)
	}
	return Parse(data, filepath.Ext(path))
}

// LoadOrDefault returns the table at path, or the embedded table when path
// is empty.
func LoadOrDefault(path string) (Table, error) {
	if path == "" {
		return Default()
	}
	return Load(path)
}

// Parse decodes a table. ext selects the codec (".json", otherwise YAML).
func Parse(data []byte, ext string) (Table, error) {
	var t Table
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &t); err != nil {
			return nil, fmt.Errorf("error parsing country table: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &t); err != nil {
			return nil, fmt.Errorf("error parsing country table: %w", err)
		}
	}
	if err := Validate(t); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks every entry and rejects duplicate ISO2 codes.
func Validate(t Table) error {
	if len(t) == 0 {
		return fmt.Errorf("country table is empty")
	}
	seen := make(map[string]bool, len(t))
	for i, c := range t {
		if err := validate.Struct(c); err != nil {
			return fmt.Errorf("country #%d (%s): %w", i+1, c.ISO2, err)
		}
		if c.ISO2 != strings.ToUpper(c.ISO2) {
			return fmt.Errorf("country #%d: iso2 %q must be upper case", i+1, c.ISO2)
		}
		if seen[c.ISO2] {
			return fmt.Errorf("country #%d: duplicate iso2 %q", i+1, c.ISO2)
		}
		if c.HasMin() && c.HasMax() && c.NationalNumberLengthMin > c.NationalNumberLengthMax {
			return fmt.Errorf("country %s: national length min %d exceeds max %d",
				c.ISO2, c.NationalNumberLengthMin, c.NationalNumberLengthMax)
		}
		seen[c.ISO2] = true
	}
	return nil
}
