// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"strings"
	"testing"

	"contract-guard/internal/analyzer"
	"contract-guard/internal/formatters"
)

func sampleDocument() formatters.Document {
	return formatters.Document{
		Path: "contracts/employment.pdf",
		Result: &analyzer.Result{
			OverallRisk: analyzer.TierHigh,
			RiskScore:   75,
			RedFlags: []analyzer.Finding{
				{
					Type:           "non-compete",
					Severity:       analyzer.SeverityHigh,
					Title:          "Non-Compete Clause",
					Description:    "Restricts your ability to work for competitors after leaving",
					Clause:         "...shall not compete with the company...",
					Recommendation: "Negotiate the duration and geographic scope, or ask for removal",
				},
			},
			Summary: "⚠️ HIGH RISK: This contract contains 1 serious issue (non-compete). We strongly recommend having a lawyer review this contract before signing.",
		},
	}
}

func TestFormatSummaryLine(t *testing.T) {
	f := NewFormatter()
	out, err := f.Format([]formatters.Document{sampleDocument()}, formatters.FormatterOptions{NoColor: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(out, "contracts/employment.pdf") {
		t.Errorf("expected output to contain file path, got %q", out)
	}
	if !strings.Contains(out, "HIGH risk") {
		t.Errorf("expected output to contain tier, got %q", out)
	}
	if !strings.Contains(out, "score 75/100") {
		t.Errorf("expected output to contain score, got %q", out)
	}
	if !strings.Contains(out, "1 red flag)") {
		t.Errorf("expected singular red flag count, got %q", out)
	}
}

func TestFormatVerbose(t *testing.T) {
	f := NewFormatter()
	out, err := f.Format([]formatters.Document{sampleDocument()}, formatters.FormatterOptions{
		Verbose: true,
		NoColor: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"Overall risk: HIGH",
		"[HIGH] Non-Compete Clause",
		"Restricts your ability to work for competitors after leaving",
		"Recommendation: Negotiate the duration and geographic scope, or ask for removal",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected verbose output to contain %q, got:\n%s", want, out)
		}
	}

	// Clause only appears with ShowClause
	if strings.Contains(out, "shall not compete") {
		t.Error("clause text should not appear without ShowClause")
	}
}

func TestFormatShowClause(t *testing.T) {
	f := NewFormatter()
	out, err := f.Format([]formatters.Document{sampleDocument()}, formatters.FormatterOptions{
		Verbose:    true,
		NoColor:    true,
		ShowClause: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(out, "Clause: ...shall not compete with the company...") {
		t.Errorf("expected clause text in output, got:\n%s", out)
	}
}

func TestFormatNoDocuments(t *testing.T) {
	f := NewFormatter()
	out, err := f.Format(nil, formatters.FormatterOptions{NoColor: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "No documents analyzed." {
		t.Errorf("unexpected output: %q", out)
	}
}
