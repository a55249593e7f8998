// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package preprocessors

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"phone-cleaner/internal/observability"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// MaxPDFPages caps how many pages are read from one document.
const MaxPDFPages = 200

// PDFPreprocessor extracts one text line per visual row, so a contact
// table printed to PDF comes back as one contact per line.
type PDFPreprocessor struct {
	observer  *observability.StandardObserver
	pdfConfig *model.Configuration
}

var disableConfigDir sync.Once

// NewPDFPreprocessor creates a new PDF preprocessor. pdfcpu runs on its
// built-in defaults and never touches a user config directory.
func NewPDFPreprocessor() *PDFPreprocessor {
	disableConfigDir.Do(api.DisableConfigDir)
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &PDFPreprocessor{pdfConfig: conf}
}

// SetObserver sets the observability component
func (pp *PDFPreprocessor) SetObserver(observer *observability.StandardObserver) {
	pp.observer = observer
}

// GetName returns the name of this preprocessor
func (pp *PDFPreprocessor) GetName() string {
	return "PDF Text Preprocessor"
}

// GetSupportedExtensions returns the file extensions this preprocessor supports
func (pp *PDFPreprocessor) GetSupportedExtensions() []string {
	return []string{".pdf"}
}

// CanProcess checks if this preprocessor can handle the given file
func (pp *PDFPreprocessor) CanProcess(filePath string) bool {
	return strings.ToLower(filepath.Ext(filePath)) == ".pdf"
}

// Process validates the document and extracts its text
func (pp *PDFPreprocessor) Process(filePath string) (*ProcessedContent, error) {
	var finishTiming func(bool, map[string]interface{})
	if pp.observer != nil {
		finishTiming = pp.observer.StartTiming("pdf_preprocessor", "process_file", filePath)
	}

	result, err := pp.process(filePath)
	if finishTiming != nil {
		if err != nil {
			finishTiming(false, map[string]interface{}{"error": err.Error()})
		} else {
			finishTiming(true, map[string]interface{}{
				"page_count": result.PageCount,
				"line_count": result.LineCount,
			})
		}
	}
	return result, err
}

func (pp *PDFPreprocessor) process(filePath string) (*ProcessedContent, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, NewProcessingError(filePath, ErrorTypeFileAccess, "failed to get file info", err)
	}
	if info.Size() > MaxInputSize {
		return nil, NewProcessingError(filePath, ErrorTypeFileSize,
			fmt.Sprintf("file too large: %d bytes (max: %d bytes)", info.Size(), MaxInputSize), nil)
	}

	if err := api.ValidateFile(filePath, pp.pdfConfig); err != nil {
		return nil, NewProcessingError(filePath, ErrorTypeInvalidFormat, "invalid PDF file", err)
	}

	f, r, err := pdf.Open(filePath)
	if err != nil {
		return nil, NewProcessingError(filePath, ErrorTypeExtractionFailed, "error opening PDF", err)
	}
	defer f.Close()

	pages := min(r.NumPage(), MaxPDFPages)
	var lines []string
	for i := 1; i <= pages; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := extractPageLines(p)
		if err != nil {
			return nil, NewProcessingError(filePath, ErrorTypeExtractionFailed,
				fmt.Sprintf("page %d", i), err)
		}
		lines = append(lines, text...)
	}

	text := strings.Join(lines, "\n")
	return &ProcessedContent{
		OriginalPath:  filePath,
		Filename:      filepath.Base(filePath),
		Text:          text,
		Format:        "PDF",
		PageCount:     pages,
		LineCount:     len(lines),
		CharCount:     len(text),
		ProcessorType: "pdf",
	}, nil
}

// extractPageLines returns the page's rows top to bottom. It falls back to
// plain text when row grouping fails.
func extractPageLines(p pdf.Page) ([]string, error) {
	rows, err := p.GetTextByRow()
	if err != nil {
		plain, perr := p.GetPlainText(nil)
		if perr != nil {
			return nil, perr
		}
		return nonEmptyLines(plain), nil
	}

	sorted := make([]*pdf.Row, 0, len(rows))
	for _, row := range rows {
		if row != nil && len(row.Content) > 0 {
			sorted = append(sorted, row)
		}
	}
	// PDF Y grows upwards.
	sort.SliceStable(sorted, func(i, j int) bool {
		return averageY(sorted[i].Content) > averageY(sorted[j].Content)
	})

	var lines []string
	for _, row := range sorted {
		if text := strings.TrimSpace(reconstructRowText(row.Content)); text != "" {
			lines = append(lines, text)
		}
	}
	return lines, nil
}

func averageY(elements []pdf.Text) float64 {
	if len(elements) == 0 {
		return 0
	}
	var total float64
	for _, e := range elements {
		total += e.Y
	}
	return total / float64(len(elements))
}

// reconstructRowText joins glyph runs left to right, inserting a space
// where the gap exceeds a fifth of the font size.
func reconstructRowText(elements []pdf.Text) string {
	if len(elements) == 0 {
		return ""
	}

	sorted := make([]pdf.Text, len(elements))
	copy(sorted, elements)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	var b strings.Builder
	for i, e := range sorted {
		b.WriteString(e.S)
		if i == len(sorted)-1 {
			break
		}
		fontSize := e.FontSize
		if fontSize <= 0 {
			fontSize = 12
		}
		if gap := sorted[i+1].X - (e.X + e.W); gap > fontSize*0.2 {
			b.WriteString(" ")
		}
	}
	return b.String()
}

func nonEmptyLines(text string) []string {
	var out []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
