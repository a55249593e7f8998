// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package preprocessors

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestExtractPlainText(t *testing.T) {
	for _, name := range []string{"contacts.txt", "contacts.CSV", "contacts.tsv", "contacts"} {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, name, []byte("Ahmed - 0551234567\nSara, 0501112222\n"))
			text, err := Extract(path, nil)
			require.NoError(t, err)
			assert.Equal(t, "Ahmed - 0551234567\nSara, 0501112222\n", text)
		})
	}
}

func TestExtractStripsUTF8BOM(t *testing.T) {
	path := writeFile(t, "bom.csv", append([]byte{0xEF, 0xBB, 0xBF}, []byte("name,phone")...))
	text, err := Extract(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "name,phone", text)
}

func TestExtractDecodesUTF16(t *testing.T) {
	// "05" in UTF-16LE with BOM
	path := writeFile(t, "utf16.txt", []byte{0xFF, 0xFE, '0', 0, '5', 0})
	text, err := Extract(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "05", text)
}

func TestExtractRejectsBinary(t *testing.T) {
	path := writeFile(t, "blob.txt", []byte{0x00, 0x01, 0x02})
	_, err := Extract(path, nil)
	require.Error(t, err)
	assert.Equal(t, ErrorTypeInvalidFormat, ErrorTypeOf(err))
}

func TestExtractRejectsInvalidUTF8(t *testing.T) {
	path := writeFile(t, "latin1.txt", []byte{'a', 0xE9, 'b'})
	_, err := Extract(path, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, errNotUTF8)
}

func TestExtractUnsupportedExtension(t *testing.T) {
	path := writeFile(t, "contacts.xlsx", []byte("PK"))
	_, err := Extract(path, nil)
	require.Error(t, err)
	assert.Equal(t, ErrorTypeUnsupportedFormat, ErrorTypeOf(err))
	assert.Contains(t, err.Error(), ".pdf")
}

func TestExtractMissingFile(t *testing.T) {
	_, err := Extract(filepath.Join(t.TempDir(), "missing.txt"), nil)
	require.Error(t, err)
	assert.Equal(t, ErrorTypeFileAccess, ErrorTypeOf(err))
}

func TestExtractInvalidPDF(t *testing.T) {
	path := writeFile(t, "broken.pdf", []byte("this is not a pdf"))
	_, err := Extract(path, nil)
	require.Error(t, err)
	assert.Equal(t, ErrorTypeInvalidFormat, ErrorTypeOf(err))
}

func TestReadInput(t *testing.T) {
	content, err := ReadInput(strings.NewReader("0551234567\r\n0551234567"), "-")
	require.NoError(t, err)
	assert.Equal(t, "0551234567\r\n0551234567", content.Text)
	assert.Equal(t, 2, content.LineCount)
	assert.Equal(t, "stream", content.ProcessorType)
}

func TestGetPreprocessor(t *testing.T) {
	pm := NewDefaultManager(nil)
	assert.Equal(t, "PDF Text Preprocessor", pm.GetPreprocessor("a/b/List.PDF").GetName())
	assert.Equal(t, "Plain Text Preprocessor", pm.GetPreprocessor("list.txt").GetName())
	assert.Nil(t, pm.GetPreprocessor("list.docx"))
}

func TestReconstructRowText(t *testing.T) {
	elements := []pdf.Text{
		{S: "0551234567", X: 100, W: 60, FontSize: 10},
		{S: "Ahm", X: 10, W: 18, FontSize: 10},
		{S: "ed", X: 28, W: 12, FontSize: 10},
	}
	assert.Equal(t, "Ahmed 0551234567", reconstructRowText(elements))
	assert.Equal(t, "", reconstructRowText(nil))
}

func TestNonEmptyLines(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, nonEmptyLines("  a \n\n b\n"))
}
