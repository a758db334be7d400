// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package extract converts uploaded contract documents into plain text for
// the analyzer. It is a collaborator of the core engine, never a dependency
// of it: the engine only ever sees the extracted string.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"contract-guard/internal/analyzer"
)

// MaxFileSize is the largest document accepted for extraction (10MB).
const MaxFileSize = 10 * 1024 * 1024

// TextContent is the extracted text plus basic document statistics.
type TextContent struct {
	Filename  string
	Text      string
	PageCount int
	WordCount int
	CharCount int
}

// UnsupportedFormatError indicates the file extension is not one we can
// extract text from.
type UnsupportedFormatError struct {
	Path string
	Ext  string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported document format %q (supported: %s)", e.Ext, strings.Join(SupportedExtensions(), ", "))
}

// ExtractionError indicates a supported document could not be turned into
// analyzable text: parse failure, or too little text after cleanup.
type ExtractionError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to extract text from %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("failed to extract text from %s: %s", e.Path, e.Reason)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Extractor converts a document file into plain text.
type Extractor interface {
	ExtractText(path string) (*TextContent, error)
}

// SupportedExtensions lists the document formats the default extractor
// accepts. Word documents are deliberately absent: users convert to PDF.
func SupportedExtensions() []string {
	return []string{".pdf", ".txt", ".md"}
}

// IsSupported reports whether the path has an extractable extension.
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, s := range SupportedExtensions() {
		if ext == s {
			return true
		}
	}
	return false
}

// DocumentExtractor is the default Extractor dispatching on file extension.
type DocumentExtractor struct {
	minTextLength int
}

// NewDocumentExtractor creates the default extractor.
func NewDocumentExtractor() *DocumentExtractor {
	return &DocumentExtractor{minTextLength: analyzer.MinTextLength}
}

// NewDocumentExtractorWithMinText creates an extractor whose
// insufficient-text gate matches the engine's configured minimum, so the
// caller gets a format-level diagnosis at the same threshold the analyzer
// enforces. Non-positive values fall back to the default.
func NewDocumentExtractorWithMinText(minTextLength int) *DocumentExtractor {
	if minTextLength <= 0 {
		minTextLength = analyzer.MinTextLength
	}
	return &DocumentExtractor{minTextLength: minTextLength}
}

// ExtractText extracts plain text from the document at path. It fails with
// *UnsupportedFormatError for unknown extensions and *ExtractionError when a
// supported document yields no usable text.
func (d *DocumentExtractor) ExtractText(path string) (*TextContent, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &ExtractionError{Path: path, Reason: "cannot stat file", Err: err}
	}
	if info.Size() > MaxFileSize {
		return nil, &ExtractionError{Path: path, Reason: fmt.Sprintf("file exceeds %d byte limit", MaxFileSize)}
	}

	ext := strings.ToLower(filepath.Ext(path))
	var content *TextContent
	switch ext {
	case ".pdf":
		content, err = extractPDF(path)
	case ".txt", ".md":
		content, err = extractPlainText(path)
	default:
		return nil, &UnsupportedFormatError{Path: path, Ext: ext}
	}
	if err != nil {
		return nil, err
	}

	// The analyzer re-validates, but signaling insufficient text here gives
	// the caller a format-level diagnosis instead of a generic input error.
	if len(strings.TrimSpace(content.Text)) < d.minTextLength {
		return nil, &ExtractionError{Path: path, Reason: "document contains insufficient extractable text"}
	}

	return content, nil
}

// extractPlainText reads a text document directly.
func extractPlainText(path string) (*TextContent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ExtractionError{Path: path, Reason: "cannot read file", Err: err}
	}

	text := string(data)
	return &TextContent{
		Filename:  filepath.Base(path),
		Text:      text,
		PageCount: 1,
		WordCount: len(strings.Fields(text)),
		CharCount: len(text),
	}, nil
}
