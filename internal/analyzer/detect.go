// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package analyzer

// detect runs the rule catalog against the document in a single pass. Each
// rule's trigger is evaluated against the normalized text; on a fire the
// clause is extracted from the original text so the excerpt quotes the
// document faithfully. Findings come back in catalog order, and nothing is
// merged or removed: overlapping concerns (liability vs indemnification)
// are reported separately by design, favoring recall over precision.
func (e *Engine) detect(original, normalized string) []Finding {
	findings := []Finding{}

	for _, rule := range e.catalog {
		if !rule.Trigger(normalized) {
			continue
		}

		// A fired trigger whose context pattern misses still yields a
		// finding: losing the excerpt is acceptable, losing the severity
		// classification is not.
		clause := ExtractClause(original, rule.ContextPattern, e.opts.ContextWindow)

		findings = append(findings, Finding{
			Type:           rule.Type,
			Severity:       rule.Severity,
			Title:          rule.Title,
			Description:    rule.Description,
			Clause:         clause,
			Recommendation: rule.Recommendation,
		})
	}

	return findings
}
