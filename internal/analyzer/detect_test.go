// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package analyzer

import (
	"regexp"
	"strings"
	"testing"
)

func TestDetect_OneFindingPerRule(t *testing.T) {
	engine := testEngine(t)

	// The trigger phrase repeats; the rule must fire once.
	text := "non-compete here, another non-compete there, and a third non-compete clause for good measure"
	findings := engine.detect(text, Normalize(text))

	count := 0
	for _, f := range findings {
		if f.Type == "non-compete" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected exactly one non-compete finding, got %d", count)
	}
}

func TestDetect_FindingCarriesRuleStatics(t *testing.T) {
	engine := testEngine(t)

	text := "the contractor shall indemnify and hold harmless the company from all claims"
	findings := engine.detect(text, Normalize(text))

	if len(findings) != 1 {
		t.Fatalf("expected one finding, got %d", len(findings))
	}
	f := findings[0]
	if f.Type != "indemnification" || f.Severity != SeverityMedium {
		t.Errorf("unexpected identity: %+v", f)
	}
	if f.Title == "" || f.Description == "" || f.Recommendation == "" {
		t.Error("finding should carry the rule's display text")
	}
	if !strings.Contains(f.Clause, "indemnify") {
		t.Errorf("clause should quote the match: %q", f.Clause)
	}
}

// A trigger that fires without a matching context pattern still yields a
// finding, just with an empty clause.
func TestDetect_EmptyClauseOnPatternDrift(t *testing.T) {
	catalog := []RiskRule{
		{
			Type:     "drifted",
			Severity: SeverityHigh,
			Trigger: func(text string) bool {
				return strings.Contains(text, "payment")
			},
			ContextPattern: regexp.MustCompile(`phrase-that-never-appears`),
			Title:          "Drifted Rule",
			Description:    "desc",
			Recommendation: "rec",
		},
	}
	engine, err := NewEngineWithCatalog(DefaultOptions(), catalog)
	if err != nil {
		t.Fatal(err)
	}

	text := "payment terms are net thirty days"
	findings := engine.detect(text, Normalize(text))

	if len(findings) != 1 {
		t.Fatalf("finding must not be dropped on context miss, got %d findings", len(findings))
	}
	if findings[0].Clause != "" {
		t.Errorf("expected empty clause, got %q", findings[0].Clause)
	}
	if findings[0].Severity != SeverityHigh {
		t.Error("severity classification must survive a context miss")
	}
}

func TestDetect_NoTriggersNoFindings(t *testing.T) {
	engine := testEngine(t)

	text := "a perfectly ordinary services agreement with plain payment terms"
	findings := engine.detect(text, Normalize(text))

	if len(findings) != 0 {
		t.Errorf("expected no findings, got %+v", findings)
	}
	if findings == nil {
		t.Error("detect should return an empty slice, not nil")
	}
}

func TestDetect_OverlappingConcernsReportedSeparately(t *testing.T) {
	engine := testEngine(t)

	// Liability and indemnification overlap semantically; both are
	// reported by design.
	text := "contractor accepts unlimited liability and shall indemnify the company"
	findings := engine.detect(text, Normalize(text))

	if len(findings) != 2 {
		t.Fatalf("expected two findings, got %d", len(findings))
	}
	if findings[0].Type != "liability" || findings[1].Type != "indemnification" {
		t.Errorf("unexpected findings: %q, %q", findings[0].Type, findings[1].Type)
	}
}
