// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package preprocessors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different types of processing errors
type ErrorType string

const (
	// File-related errors
	ErrorTypeFileAccess ErrorType = "file_access"
	ErrorTypeFileSize   ErrorType = "file_size"

	// Format-related errors
	ErrorTypeUnsupportedFormat ErrorType = "unsupported_format"
	ErrorTypeInvalidFormat     ErrorType = "invalid_format"

	// Processing-related errors
	ErrorTypeExtractionFailed ErrorType = "extraction_failed"
)

// ProcessingError represents an error that occurred while reading an input
type ProcessingError struct {
	FilePath  string
	ErrorType ErrorType
	Message   string
	Cause     error
}

// Error implements the error interface
func (pe *ProcessingError) Error() string {
	parts := []string{fmt.Sprintf("cannot read %s", pe.FilePath), fmt.Sprintf("error=%s", pe.ErrorType)}
	if pe.Message != "" {
		parts = append(parts, fmt.Sprintf("message=%s", pe.Message))
	}
	if pe.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause=%v", pe.Cause))
	}
	return strings.Join(parts, " ")
}

// Unwrap returns the underlying error
func (pe *ProcessingError) Unwrap() error {
	return pe.Cause
}

// NewProcessingError creates a new processing error
func NewProcessingError(filePath string, errorType ErrorType, message string, cause error) *ProcessingError {
	return &ProcessingError{
		FilePath:  filePath,
		ErrorType: errorType,
		Message:   message,
		Cause:     cause,
	}
}

// ErrorTypeOf returns the processing error type of err, or "" when err is
// not a processing error.
func ErrorTypeOf(err error) ErrorType {
	var pe *ProcessingError
	if errors.As(err, &pe) {
		return pe.ErrorType
	}
	return ""
}
