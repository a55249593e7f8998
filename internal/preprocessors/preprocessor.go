// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package preprocessors turns input files into the plain text the cleaner
// reads line by line.
package preprocessors

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"phone-cleaner/internal/observability"
)

// MaxInputSize bounds every input source.
const MaxInputSize = 100 * 1024 * 1024 // 100MB

// ProcessedContent represents content that has been processed by a preprocessor
type ProcessedContent struct {
	// Original file information
	OriginalPath string
	Filename     string

	// Extracted content, one contact per line
	Text string

	// Content metadata
	Format    string
	PageCount int
	LineCount int
	CharCount int

	// Processing information
	ProcessorType string
}

// Preprocessor interface defines methods for preprocessing files
type Preprocessor interface {
	// CanProcess checks if this preprocessor can handle the given file
	CanProcess(filePath string) bool

	// Process extracts content from the file
	Process(filePath string) (*ProcessedContent, error)

	// GetName returns the name of this preprocessor
	GetName() string

	// GetSupportedExtensions returns the file extensions this preprocessor supports
	GetSupportedExtensions() []string

	// SetObserver sets the observability component
	SetObserver(observer *observability.StandardObserver)
}

// PreprocessorManager manages all available preprocessors
type PreprocessorManager struct {
	preprocessors []Preprocessor
}

// NewPreprocessorManager creates a new preprocessor manager
func NewPreprocessorManager() *PreprocessorManager {
	return &PreprocessorManager{
		preprocessors: make([]Preprocessor, 0),
	}
}

// NewDefaultManager returns a manager with the plain text and PDF
// preprocessors registered and sharing observer.
func NewDefaultManager(observer *observability.StandardObserver) *PreprocessorManager {
	pm := NewPreprocessorManager()
	pm.RegisterPreprocessor(NewPlainTextPreprocessor())
	pm.RegisterPreprocessor(NewPDFPreprocessor())
	for _, p := range pm.preprocessors {
		p.SetObserver(observer)
	}
	return pm
}

// RegisterPreprocessor adds a preprocessor to the manager
func (pm *PreprocessorManager) RegisterPreprocessor(p Preprocessor) {
	pm.preprocessors = append(pm.preprocessors, p)
}

// GetPreprocessor returns the appropriate preprocessor for a file, or nil if none found
func (pm *PreprocessorManager) GetPreprocessor(filePath string) Preprocessor {
	for _, p := range pm.preprocessors {
		if p.CanProcess(filePath) {
			return p
		}
	}
	return nil
}

// SupportedExtensions lists every extension some preprocessor accepts
func (pm *PreprocessorManager) SupportedExtensions() []string {
	var exts []string
	for _, p := range pm.preprocessors {
		exts = append(exts, p.GetSupportedExtensions()...)
	}
	return exts
}

// ProcessFile extracts text with the first preprocessor that accepts the file
func (pm *PreprocessorManager) ProcessFile(filePath string) (*ProcessedContent, error) {
	p := pm.GetPreprocessor(filePath)
	if p == nil {
		return nil, NewProcessingError(filePath, ErrorTypeUnsupportedFormat,
			fmt.Sprintf("supported extensions: %s", strings.Join(pm.SupportedExtensions(), ", ")), nil)
	}
	return p.Process(filePath)
}

// Extract returns the text of the file at path using the default
// preprocessors.
func Extract(path string, observer *observability.StandardObserver) (string, error) {
	content, err := NewDefaultManager(observer).ProcessFile(path)
	if err != nil {
		return "", err
	}
	return content.Text, nil
}

// ReadInput reads a whole stream, such as stdin, as plain text.
func ReadInput(r io.Reader, name string) (*ProcessedContent, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxInputSize+1))
	if err != nil {
		return nil, NewProcessingError(name, ErrorTypeFileAccess, "read failed", err)
	}
	if len(data) > MaxInputSize {
		return nil, NewProcessingError(name, ErrorTypeFileSize,
			fmt.Sprintf("input exceeds %d bytes", MaxInputSize), nil)
	}

	text, err := decodeText(data)
	if err != nil {
		return nil, NewProcessingError(name, ErrorTypeInvalidFormat, "input is not text", err)
	}
	return &ProcessedContent{
		OriginalPath:  name,
		Filename:      filepath.Base(name),
		Text:          text,
		Format:        "Plain Text",
		LineCount:     strings.Count(text, "\n") + 1,
		CharCount:     len(text),
		ProcessorType: "stream",
	}, nil
}
