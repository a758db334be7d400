// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"bytes"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// maxPDFPages caps how many pages are processed per document. Contracts
// longer than this are truncated rather than rejected.
const maxPDFPages = 50

var pdfConfig = model.NewDefaultConfiguration()

// extractPDF extracts text from a PDF contract. The file is validated with
// pdfcpu first so corrupt or encrypted uploads fail with a clear reason
// before parsing, then text is pulled page by page with coordinate-aware
// spacing so clause excerpts read like the printed document.
func extractPDF(path string) (*TextContent, error) {
	if err := api.ValidateFile(path, pdfConfig); err != nil {
		return nil, &ExtractionError{Path: path, Reason: "invalid or corrupt PDF", Err: err}
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, &ExtractionError{Path: path, Reason: "cannot open PDF", Err: err}
	}
	defer f.Close()

	pageCount := r.NumPage()
	if pageCount > maxPDFPages {
		pageCount = maxPDFPages
	}

	var buf bytes.Buffer
	for i := 1; i <= pageCount; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := pageText(p)
		if err != nil || strings.TrimSpace(text) == "" {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(text)
	}

	text := cleanText(buf.String())

	return &TextContent{
		Filename:  filepath.Base(path),
		Text:      text,
		PageCount: pageCount,
		WordCount: len(strings.Fields(text)),
		CharCount: len(text),
	}, nil
}

// pageText extracts one page using row-based positioning, falling back to
// plain extraction when row data is unavailable.
func pageText(p pdf.Page) (string, error) {
	rows, err := p.GetTextByRow()
	if err != nil {
		return p.GetPlainText(nil)
	}

	sorted := make([]*pdf.Row, 0, len(rows))
	for _, row := range rows {
		if row != nil && len(row.Content) > 0 {
			sorted = append(sorted, row)
		}
	}
	// Read top to bottom; PDF Y coordinates grow upward.
	sort.Slice(sorted, func(i, j int) bool {
		return averageY(sorted[i].Content) < averageY(sorted[j].Content)
	})

	var buf bytes.Buffer
	for _, row := range sorted {
		line := rowText(row.Content)
		if strings.TrimSpace(line) != "" {
			buf.WriteString(line)
			buf.WriteString("\n")
		}
	}
	return buf.String(), nil
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

// rowText joins the text elements of one row left to right, inserting a
// space wherever the horizontal gap between elements is wide enough to have
// been one in the source document.
func rowText(elements []pdf.Text) string {
	if len(elements) == 0 {
		return ""
	}

	sorted := make([]pdf.Text, len(elements))
	copy(sorted, elements)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].X < sorted[j].X
	})

	var buf bytes.Buffer
	for i, e := range sorted {
		buf.WriteString(e.S)
		if i == len(sorted)-1 {
			continue
		}
		gap := sorted[i+1].X - (e.X + e.W)
		fontSize := e.FontSize
		if fontSize <= 0 {
			fontSize = 12
		}
		if gap > fontSize*0.2 {
			buf.WriteString(" ")
		}
	}
	return buf.String()
}

// cleanText normalizes whitespace while preserving line structure, so
// trigger phrases split across spacing artifacts still match.
func cleanText(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.ReplaceAll(line, "\t", " ")
		for strings.Contains(line, "  ") {
			line = strings.ReplaceAll(line, "  ", " ")
		}
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
