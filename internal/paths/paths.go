// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package paths

import (
	"os"
	"path/filepath"
)

// ConfigDirEnv overrides the configuration directory on every platform.
const ConfigDirEnv = "PHONE_CLEANER_CONFIG_DIR"

const appDir = "phone-cleaner"

// GetConfigDir returns the phone-cleaner configuration directory.
// os.UserConfigDir covers APPDATA on Windows and XDG_CONFIG_HOME elsewhere.
func GetConfigDir() string {
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		return dir
	}
	if base, err := os.UserConfigDir(); err == nil {
		return filepath.Join(base, appDir)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, "."+appDir)
	}
	return "." + appDir
}

// GetConfigFile returns the path to the main config file
func GetConfigFile() string {
	return filepath.Join(GetConfigDir(), "config.yaml")
}

// GetEnvFile returns the path to the optional .env file in the config dir
func GetEnvFile() string {
	return filepath.Join(GetConfigDir(), ".env")
}

// ValidatePath rejects paths the OS cannot open.
func ValidatePath(path string) error {
	for _, char := range path {
		if char == 0 {
			return &PathValidationError{Path: path, Reason: "contains null byte"}
		}
	}
	return nil
}

// PathValidationError represents a path validation error
type PathValidationError struct {
	Path   string
	Reason string
}

func (e *PathValidationError) Error() string {
	return "invalid path '" + e.Path + "': " + e.Reason
}
