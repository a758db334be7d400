// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package formatters

import (
	"fmt"
	"strings"

	"contract-guard/internal/analyzer"
)

// Document pairs an analyzed file with its analysis result.
type Document struct {
	Path   string
	Result *analyzer.Result
}

// FormatterOptions defines configuration options for formatters
type FormatterOptions struct {
	Verbose    bool // Whether to display detailed information
	NoColor    bool // Whether to disable colored output
	ShowClause bool // Whether to display the extracted clause text
}

// Formatter interface defines methods that all output formatters must implement
type Formatter interface {
	// Format renders the analyzed documents in the formatter's output format
	Format(docs []Document, options FormatterOptions) (string, error)

	// Name returns the name of the formatter (e.g., "json", "text", "csv")
	Name() string

	// Description returns a brief description of what this formatter outputs
	Description() string

	// FileExtension returns the recommended file extension for this format (e.g., ".json", ".txt", ".csv")
	FileExtension() string
}

// Registry holds all registered formatters
type Registry struct {
	formatters map[string]Formatter
}

// NewRegistry creates a new formatter registry
func NewRegistry() *Registry {
	return &Registry{
		formatters: make(map[string]Formatter),
	}
}

// Register adds a formatter to the registry
func (r *Registry) Register(formatter Formatter) {
	r.formatters[formatter.Name()] = formatter
}

// Get retrieves a formatter by name
func (r *Registry) Get(name string) (Formatter, bool) {
	formatter, exists := r.formatters[name]
	return formatter, exists
}

// List returns all registered formatter names
func (r *Registry) List() []string {
	var names []string
	for name := range r.formatters {
		names = append(names, name)
	}
	return names
}

// FormatInfo provides metadata about a formatter for web integration
type FormatInfo struct {
	Name        string
	Description string
	Extension   string
	MimeType    string
}

// DefaultRegistry is the global formatter registry
var DefaultRegistry = NewRegistry()

// Register is a convenience function to register a formatter with the default registry
func Register(formatter Formatter) {
	DefaultRegistry.Register(formatter)
}

// Get is a convenience function to get a formatter from the default registry
func Get(name string) (Formatter, bool) {
	return DefaultRegistry.Get(name)
}

// List is a convenience function to list all formatters in the default registry
func List() []string {
	return DefaultRegistry.List()
}

// Export provides unified formatting for both CLI and web handlers
func Export(format string, docs []Document, options FormatterOptions) (string, error) {
	formatter, exists := Get(format)
	if !exists {
		availableFormats := List()
		return "", fmt.Errorf("unsupported format '%s'. Available formats: %s", format, strings.Join(availableFormats, ", "))
	}
	return formatter.Format(docs, options)
}

// ExportForWeb provides web-friendly export with proper MIME types and filenames
func ExportForWeb(format string, docs []Document, options FormatterOptions) (content string, mimeType string, filename string, err error) {
	content, err = Export(format, docs, options)
	if err != nil {
		return "", "", "", err
	}

	info := GetFormatInfo(format)
	mimeType = info.MimeType
	filename = "contract-guard-report" + info.Extension

	return content, mimeType, filename, nil
}

// GetFormatInfo returns metadata about a specific formatter
func GetFormatInfo(name string) FormatInfo {
	formatter, exists := Get(name)
	if !exists {
		return FormatInfo{}
	}

	info := FormatInfo{
		Name:        formatter.Name(),
		Description: formatter.Description(),
		Extension:   formatter.FileExtension(),
	}

	switch name {
	case "json":
		info.MimeType = "application/json"
	case "csv":
		info.MimeType = "text/csv"
	case "text":
		info.MimeType = "text/plain"
	default:
		info.MimeType = "application/octet-stream"
	}

	return info
}
