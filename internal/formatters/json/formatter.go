// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package json

import (
	"encoding/json"
	"time"

	"contract-guard/internal/analyzer"
	"contract-guard/internal/formatters"
)

// Formatter implements JSON output formatting
type Formatter struct{}

// NewFormatter creates a new JSON formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "json"
}

func (f *Formatter) Description() string {
	return "Machine-readable JSON output"
}

func (f *Formatter) FileExtension() string {
	return ".json"
}

// report is the top-level JSON document
type report struct {
	Timestamp     string           `json:"timestamp"`
	DocumentCount int              `json:"documentCount"`
	Documents     []reportDocument `json:"documents"`
}

type reportDocument struct {
	File     string           `json:"file"`
	Analysis *analyzer.Result `json:"analysis"`
}

func (f *Formatter) Format(docs []formatters.Document, options formatters.FormatterOptions) (string, error) {
	out := report{
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		DocumentCount: len(docs),
		Documents:     make([]reportDocument, 0, len(docs)),
	}

	for _, doc := range docs {
		out.Documents = append(out.Documents, reportDocument{
			File:     doc.Path,
			Analysis: doc.Result,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func init() {
	formatters.Register(NewFormatter())
}
