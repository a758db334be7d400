// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package analyzer

import (
	"testing"
)

func TestCatalog_TypesUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, rule := range Catalog() {
		if seen[rule.Type] {
			t.Errorf("duplicate rule type %q in catalog", rule.Type)
		}
		seen[rule.Type] = true
	}
}

func TestCatalog_RulesComplete(t *testing.T) {
	for _, rule := range Catalog() {
		if rule.Type == "" {
			t.Error("rule with empty type")
		}
		if rule.Trigger == nil {
			t.Errorf("rule %q has no trigger", rule.Type)
		}
		if rule.ContextPattern == nil {
			t.Errorf("rule %q has no context pattern", rule.Type)
		}
		if rule.Title == "" || rule.Description == "" || rule.Recommendation == "" {
			t.Errorf("rule %q is missing display text", rule.Type)
		}
		switch rule.Severity {
		case SeverityHigh, SeverityMedium, SeverityLow:
		default:
			t.Errorf("rule %q has invalid severity %q", rule.Type, rule.Severity)
		}
	}
}

func TestRuleTriggers(t *testing.T) {
	triggers := make(map[string]func(string) bool)
	for _, rule := range Catalog() {
		triggers[rule.Type] = rule.Trigger
	}

	cases := []struct {
		rule string
		text string
		want bool
	}{
		{"non-compete", "subject to a non-compete covenant", true},
		{"non-compete", "subject to a non compete covenant", true},
		{"non-compete", "subject to a noncompete covenant", false},
		{"liability", "accepts unlimited liability for damages", true},
		{"liability", "bears sole liability for losses", true},
		{"liability", "liability is capped at fees paid", false},
		{"ip-rights", "all intellectual property shall transfer to company", true},
		{"ip-rights", "contractor will assign intellectual property rights", true},
		{"ip-rights", "deliverables are intellectual property produced as work for hire", true},
		{"ip-rights", "intellectual property remains with contractor", false},
		{"ip-rights", "contractor shall transfer all equipment", false},
		{"auto-renewal", "this agreement will auto-renew annually", true},
		{"auto-renewal", "renewal is automatic each term", true}, // loose by design
		{"auto-renewal", "the lease may be renewed by mutual consent", false},
		{"termination", "termination may occur at will", true},
		{"termination", "termination without cause on thirty days notice", true},
		{"termination", "termination only for material breach", false},
		{"indemnification", "contractor shall indemnify company", true},
		{"indemnification", "contractor agrees to hold harmless the company", true},
		{"indemnification", "company maintains its own insurance", false},
		{"arbitration", "disputes resolved by binding arbitration", true},
		{"arbitration", "disputes resolved by arbitration", false},
		{"arbitration", "binding commitments are listed in exhibit c", false},
	}

	for _, tc := range cases {
		trigger, ok := triggers[tc.rule]
		if !ok {
			t.Fatalf("no rule %q in catalog", tc.rule)
		}
		if got := trigger(tc.text); got != tc.want {
			t.Errorf("rule %q on %q: got %v, want %v", tc.rule, tc.text, got, tc.want)
		}
	}
}

// Removing a rule from the catalog must not change whether any other rule
// fires, nor its finding content.
func TestRuleIndependence(t *testing.T) {
	text := "This agreement has a non-compete covenant, unlimited liability, binding arbitration, and the contractor shall indemnify the company for all claims arising hereunder in perpetuity."
	normalized := Normalize(text)

	full, err := NewEngine(DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	baseline := full.detect(text, normalized)

	catalog := Catalog()
	for drop := range catalog {
		reduced := make([]RiskRule, 0, len(catalog)-1)
		reduced = append(reduced, catalog[:drop]...)
		reduced = append(reduced, catalog[drop+1:]...)

		engine, err := NewEngineWithCatalog(DefaultOptions(), reduced)
		if err != nil {
			t.Fatal(err)
		}

		findings := engine.detect(text, normalized)
		for _, f := range findings {
			if f.Type == catalog[drop].Type {
				t.Errorf("removed rule %q still fired", catalog[drop].Type)
			}
			match := findByType(baseline, f.Type)
			if match == nil {
				t.Errorf("rule %q fired only without %q present", f.Type, catalog[drop].Type)
				continue
			}
			if *match != f {
				t.Errorf("finding for %q changed when %q was removed", f.Type, catalog[drop].Type)
			}
		}
	}
}

func findByType(findings []Finding, ruleType string) *Finding {
	for i := range findings {
		if findings[i].Type == ruleType {
			return &findings[i]
		}
	}
	return nil
}
