// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package preprocessors

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"phone-cleaner/internal/observability"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// PlainTextPreprocessor reads text exports as-is. CSV and TSV are not split
// into fields; the row parser's delimiter handling covers them.
type PlainTextPreprocessor struct {
	observer *observability.StandardObserver
}

// NewPlainTextPreprocessor creates a new plain text preprocessor
func NewPlainTextPreprocessor() *PlainTextPreprocessor {
	return &PlainTextPreprocessor{}
}

// SetObserver sets the observability component
func (ptp *PlainTextPreprocessor) SetObserver(observer *observability.StandardObserver) {
	ptp.observer = observer
}

// GetName returns the name of this preprocessor
func (ptp *PlainTextPreprocessor) GetName() string {
	return "Plain Text Preprocessor"
}

// GetSupportedExtensions returns the file extensions this preprocessor supports
func (ptp *PlainTextPreprocessor) GetSupportedExtensions() []string {
	return []string{".txt", ".text", ".csv", ".tsv", ".vcf"}
}

// CanProcess checks if this preprocessor can handle the given file. Files
// without an extension are treated as text.
func (ptp *PlainTextPreprocessor) CanProcess(filePath string) bool {
	ext := strings.ToLower(filepath.Ext(filePath))
	if ext == "" {
		return true
	}
	for _, supported := range ptp.GetSupportedExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}

// Process extracts text content from the file
func (ptp *PlainTextPreprocessor) Process(filePath string) (*ProcessedContent, error) {
	var finishTiming func(bool, map[string]interface{})
	var finishStep func(bool, string)
	if ptp.observer != nil {
		finishTiming = ptp.observer.StartTiming("plaintext_preprocessor", "process_file", filePath)
		if ptp.observer.DebugObserver != nil {
			finishStep = ptp.observer.DebugObserver.StartStep("plaintext_preprocessor", "process_file", filePath)
		}
	}

	content, err := ptp.readTextFile(filePath)
	if err != nil {
		if finishTiming != nil {
			finishTiming(false, map[string]interface{}{"error": err.Error()})
		}
		if finishStep != nil {
			finishStep(false, fmt.Sprintf("Failed to read text file: %v", err))
		}
		return nil, err
	}

	result := &ProcessedContent{
		OriginalPath:  filePath,
		Filename:      filepath.Base(filePath),
		Text:          content,
		Format:        "Plain Text",
		LineCount:     strings.Count(content, "\n") + 1,
		CharCount:     len(content),
		ProcessorType: "plaintext",
	}

	if finishTiming != nil {
		finishTiming(true, map[string]interface{}{
			"char_count": result.CharCount,
			"line_count": result.LineCount,
		})
	}
	if finishStep != nil {
		finishStep(true, fmt.Sprintf("Processed plain text file: %d lines", result.LineCount))
	}
	return result, nil
}

// readTextFile reads the whole file after checking its size
func (ptp *PlainTextPreprocessor) readTextFile(filePath string) (string, error) {
	cleanPath := filepath.Clean(filePath)
	info, err := os.Stat(cleanPath)
	if err != nil {
		return "", NewProcessingError(filePath, ErrorTypeFileAccess, "failed to get file info", err)
	}
	if info.IsDir() {
		return "", NewProcessingError(filePath, ErrorTypeFileAccess, "path is a directory", nil)
	}
	if info.Size() > MaxInputSize {
		return "", NewProcessingError(filePath, ErrorTypeFileSize,
			fmt.Sprintf("file too large: %d bytes (max: %d bytes)", info.Size(), MaxInputSize), nil)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return "", NewProcessingError(filePath, ErrorTypeFileAccess, "failed to read file", err)
	}

	text, err := decodeText(data)
	if err != nil {
		return "", NewProcessingError(filePath, ErrorTypeInvalidFormat, "file is not text", err)
	}
	return text, nil
}

var (
	errBinary  = errors.New("binary content")
	errNotUTF8 = errors.New("invalid UTF-8")
	utf16LE    = []byte{0xFF, 0xFE}
	utf16BE    = []byte{0xFE, 0xFF}
)

// decodeText honors a UTF-8 or UTF-16 byte order mark and drops it.
// Anything else must already be UTF-8. Spreadsheet exports commonly carry
// a BOM.
func decodeText(data []byte) (string, error) {
	hasUTF16BOM := bytes.HasPrefix(data, utf16LE) || bytes.HasPrefix(data, utf16BE)
	if !hasUTF16BOM && !utf8.Valid(data) {
		return "", errNotUTF8
	}

	// Decoders are stateful; build one per call.
	decoded, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
	if err != nil {
		return "", fmt.Errorf("decode failed: %w", err)
	}
	if bytes.IndexByte(decoded, 0) >= 0 {
		return "", errBinary
	}
	return string(decoded), nil
}
