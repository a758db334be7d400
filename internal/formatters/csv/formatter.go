// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package csv

import (
	"fmt"
	"strings"

	"contract-guard/internal/formatters"
)

// Formatter implements CSV output formatting
type Formatter struct{}

// NewFormatter creates a new CSV formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "csv"
}

func (f *Formatter) Description() string {
	return "Comma-separated values for spreadsheet import"
}

func (f *Formatter) FileExtension() string {
	return ".csv"
}

func (f *Formatter) Format(docs []formatters.Document, options formatters.FormatterOptions) (string, error) {
	headers := []string{"Filename", "Overall Risk", "Risk Score", "Flag Type", "Severity", "Title", "Recommendation"}
	if options.ShowClause {
		headers = append(headers, "Clause")
	}

	csvRows := []string{strings.Join(headers, ",")}

	for _, doc := range docs {
		res := doc.Result
		if len(res.RedFlags) == 0 {
			// One row per clean document so every analyzed file appears in the report
			row := []string{
				escapeCSVField(doc.Path),
				string(res.OverallRisk),
				fmt.Sprintf("%d", res.RiskScore),
				"", "", "",
				"",
			}
			if options.ShowClause {
				row = append(row, "")
			}
			csvRows = append(csvRows, strings.Join(row, ","))
			continue
		}

		for _, flag := range res.RedFlags {
			row := []string{
				escapeCSVField(doc.Path),
				string(res.OverallRisk),
				fmt.Sprintf("%d", res.RiskScore),
				escapeCSVField(flag.Type),
				string(flag.Severity),
				escapeCSVField(flag.Title),
				escapeCSVField(flag.Recommendation),
			}
			if options.ShowClause {
				row = append(row, escapeCSVField(flag.Clause))
			}
			csvRows = append(csvRows, strings.Join(row, ","))
		}
	}

	return strings.Join(csvRows, "\n"), nil
}

// escapeCSVField quotes a field when it contains separators or quotes
func escapeCSVField(field string) string {
	if strings.ContainsAny(field, ",\"\n") {
		return "\"" + strings.ReplaceAll(field, "\"", "\"\"") + "\""
	}
	return field
}

func init() {
	formatters.Register(NewFormatter())
}
