// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package analyzer

import (
	"regexp"
	"strings"
)

// RiskRule is one entry in the rule catalog: a trigger predicate over
// normalized text plus the static fields copied into any Finding it
// produces. Each rule is self-contained so a reviewer can audit it without
// cross-referencing others, and adding a rule never touches existing ones.
type RiskRule struct {
	// Type is the short stable identifier, unique across the catalog.
	Type     string
	Severity Severity

	// Trigger decides whether the rule fires. It is an existence check
	// against the lowercased document, never an occurrence counter.
	Trigger func(normalized string) bool

	// ContextPattern locates the representative span in the original text
	// for clause extraction. A trigger may fire without the pattern
	// matching; the finding is still emitted with an empty clause.
	ContextPattern *regexp.Regexp

	Title          string
	Description    string
	Recommendation string
}

// containsAny reports whether the text contains at least one of the phrases.
func containsAny(text string, phrases ...string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

// defaultCatalog is the ordered rule set. Order is meaningful: findings are
// reported in catalog order, which is the display priority for ties.
var defaultCatalog = []RiskRule{
	{
		Type:     "non-compete",
		Severity: SeverityHigh,
		Trigger: func(text string) bool {
			return containsAny(text, "non-compete", "non compete")
		},
		ContextPattern: regexp.MustCompile(`(?i)non[- ]compete`),
		Title:          "Non-Compete Clause Detected",
		Description:    "This contract may restrict your ability to work in your industry after leaving.",
		Recommendation: "Negotiate the duration and geographic scope. 6 months + local area is reasonable. 2 years + nationwide is excessive.",
	},
	{
		Type:     "liability",
		Severity: SeverityHigh,
		Trigger: func(text string) bool {
			return containsAny(text, "unlimited liability", "sole liability")
		},
		ContextPattern: regexp.MustCompile(`(?i)unlimited liability|sole liability`),
		Title:          "Unlimited Liability",
		Description:    "You could be responsible for unlimited damages if something goes wrong.",
		Recommendation: "Cap liability at 1-2x the contract value. Never accept unlimited liability.",
	},
	{
		Type:     "ip-rights",
		Severity: SeverityHigh,
		Trigger: func(text string) bool {
			return strings.Contains(text, "intellectual property") &&
				containsAny(text, "transfer", "assign", "work for hire")
		},
		ContextPattern: regexp.MustCompile(`(?i)intellectual property.{0,100}(transfer|assign|work for hire)`),
		Title:          "Intellectual Property Transfer",
		Description:    "This contract may give the other party ownership of your work or ideas.",
		Recommendation: "Specify exactly what IP is transferred. Retain rights to pre-existing work and side projects.",
	},
	{
		// Known precision gap: "auto" and "renew" may match anywhere in the
		// document, not in proximity. Kept loose for behavioral parity.
		Type:     "auto-renewal",
		Severity: SeverityMedium,
		Trigger: func(text string) bool {
			return strings.Contains(text, "auto") && strings.Contains(text, "renew")
		},
		ContextPattern: regexp.MustCompile(`(?i)auto.{0,20}renew`),
		Title:          "Automatic Renewal Clause",
		Description:    "Contract automatically renews unless you cancel (often with short notice periods).",
		Recommendation: "Set calendar reminder 60 days before renewal. Negotiate opt-in renewal instead.",
	},
	{
		Type:     "termination",
		Severity: SeverityMedium,
		Trigger: func(text string) bool {
			return strings.Contains(text, "termination") &&
				containsAny(text, "at will", "without cause")
		},
		ContextPattern: regexp.MustCompile(`(?i)termination.{0,100}(at will|without cause)`),
		Title:          "Unfair Termination Terms",
		Description:    "The other party can terminate without cause, but you may not have the same right.",
		Recommendation: "Ensure termination rights are mutual. Require 30-90 days notice.",
	},
	{
		Type:     "indemnification",
		Severity: SeverityMedium,
		Trigger: func(text string) bool {
			return containsAny(text, "indemnify", "hold harmless")
		},
		ContextPattern: regexp.MustCompile(`(?i)indemnify|hold harmless`),
		Title:          "Indemnification Clause",
		Description:    "You may be required to pay legal fees and damages if they get sued.",
		Recommendation: "Limit indemnification to cases where you were actually at fault. Exclude third-party claims.",
	},
	{
		Type:     "arbitration",
		Severity: SeverityLow,
		Trigger: func(text string) bool {
			return strings.Contains(text, "arbitration") && strings.Contains(text, "binding")
		},
		ContextPattern: regexp.MustCompile(`(?i)binding.{0,20}arbitration`),
		Title:          "Mandatory Arbitration",
		Description:    "You waive your right to sue in court and must use arbitration.",
		Recommendation: "Check if arbitration costs are shared fairly. Ensure location is convenient.",
	},
}

// Catalog returns a copy of the default ordered rule catalog.
func Catalog() []RiskRule {
	rules := make([]RiskRule, len(defaultCatalog))
	copy(rules, defaultCatalog)
	return rules
}
