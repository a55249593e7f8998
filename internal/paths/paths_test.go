// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package paths

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetConfigDirOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(ConfigDirEnv, dir)

	assert.Equal(t, dir, GetConfigDir())
	assert.Equal(t, filepath.Join(dir, "config.yaml"), GetConfigFile())
	assert.Equal(t, filepath.Join(dir, ".env"), GetEnvFile())
}

func TestGetConfigDirDefault(t *testing.T) {
	t.Setenv(ConfigDirEnv, "")
	assert.Contains(t, GetConfigDir(), "phone-cleaner")
}

func TestValidatePath(t *testing.T) {
	assert.NoError(t, ValidatePath("countries.yaml"))

	err := ValidatePath("bad\x00name")
	var pathErr *PathValidationError
	assert.ErrorAs(t, err, &pathErr)
	assert.Equal(t, "contains null byte", pathErr.Reason)
}
