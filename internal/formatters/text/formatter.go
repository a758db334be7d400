// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"fmt"
	"strings"

	"contract-guard/internal/analyzer"
	"contract-guard/internal/formatters"

	"github.com/fatih/color"
)

// Formatter implements text-based output formatting
type Formatter struct {
	colors map[string]*color.Color
}

// NewFormatter creates a new text formatter
func NewFormatter() *Formatter {
	return &Formatter{
		colors: map[string]*color.Color{
			"green":  color.New(color.FgGreen),
			"yellow": color.New(color.FgYellow),
			"red":    color.New(color.FgRed),
			"cyan":   color.New(color.FgCyan),
			"white":  color.New(color.FgWhite, color.Bold),
		},
	}
}

func (f *Formatter) Name() string {
	return "text"
}

func (f *Formatter) Description() string {
	return "Human-readable text output with colors"
}

func (f *Formatter) FileExtension() string {
	return ".txt"
}

func (f *Formatter) Format(docs []formatters.Document, options formatters.FormatterOptions) (string, error) {
	// Disable colors if requested
	if options.NoColor {
		color.NoColor = true
	}

	if len(docs) == 0 {
		return "No documents analyzed.", nil
	}

	var builder strings.Builder
	for i, doc := range docs {
		if i > 0 {
			builder.WriteString("\n")
		}
		if options.Verbose {
			f.appendDetailedDocument(&builder, doc, options)
		} else {
			f.appendSummaryLine(&builder, doc)
		}
	}

	return builder.String(), nil
}

// appendSummaryLine prints a single line per document
func (f *Formatter) appendSummaryLine(builder *strings.Builder, doc formatters.Document) {
	res := doc.Result
	tier := f.tierColor(res.OverallRisk).Sprint(strings.ToUpper(string(res.OverallRisk)))
	flags := "red flags"
	if len(res.RedFlags) == 1 {
		flags = "red flag"
	}
	fmt.Fprintf(builder, "%s: %s risk (score %d/100, %d %s)\n",
		doc.Path, tier, res.RiskScore, len(res.RedFlags), flags)
}

// appendDetailedDocument prints the full analysis for a document
func (f *Formatter) appendDetailedDocument(builder *strings.Builder, doc formatters.Document, options formatters.FormatterOptions) {
	res := doc.Result

	f.colors["white"].Fprintln(builder, doc.Path)
	fmt.Fprintf(builder, "  Overall risk: %s (score %d/100)\n",
		f.tierColor(res.OverallRisk).Sprint(strings.ToUpper(string(res.OverallRisk))), res.RiskScore)
	fmt.Fprintf(builder, "  %s\n", res.Summary)

	if len(res.RedFlags) == 0 {
		return
	}

	fmt.Fprintln(builder, "  Red flags:")
	for _, flag := range res.RedFlags {
		severity := f.severityColor(flag.Severity).Sprintf("[%s]", strings.ToUpper(string(flag.Severity)))
		fmt.Fprintf(builder, "    %s %s\n", severity, flag.Title)
		fmt.Fprintf(builder, "      %s\n", flag.Description)
		fmt.Fprintf(builder, "      Recommendation: %s\n", flag.Recommendation)
		if options.ShowClause && flag.Clause != "" {
			fmt.Fprintf(builder, "      Clause: %s\n", f.colors["cyan"].Sprint(flag.Clause))
		}
	}
}

func (f *Formatter) tierColor(tier analyzer.RiskTier) *color.Color {
	switch tier {
	case analyzer.TierHigh:
		return f.colors["red"]
	case analyzer.TierMedium:
		return f.colors["yellow"]
	default:
		return f.colors["green"]
	}
}

func (f *Formatter) severityColor(severity analyzer.Severity) *color.Color {
	switch severity {
	case analyzer.SeverityHigh:
		return f.colors["red"]
	case analyzer.SeverityMedium:
		return f.colors["yellow"]
	default:
		return f.colors["green"]
	}
}

func init() {
	formatters.Register(NewFormatter())
}
