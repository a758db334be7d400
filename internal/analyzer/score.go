// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package analyzer

// Score aggregates findings into a single risk score in [0, 100]: a weighted
// sum of severity point values, clamped at 100. The model is intentionally a
// transparent sum a user can audit, not a fitted one. An empty finding list
// always scores 0.
func (e *Engine) Score(findings []Finding) int {
	score := 0
	for _, f := range findings {
		switch f.Severity {
		case SeverityHigh:
			score += e.opts.WeightHigh
		case SeverityMedium:
			score += e.opts.WeightMedium
		case SeverityLow:
			score += e.opts.WeightLow
		}
	}
	if score > 100 {
		score = 100
	}
	return score
}

// TierFor maps a risk score onto its tier. Thresholds are inclusive at the
// lower bound of each tier and shared by every component that needs them.
func (e *Engine) TierFor(score int) RiskTier {
	switch {
	case score >= e.opts.TierHighThreshold:
		return TierHigh
	case score >= e.opts.TierMediumThreshold:
		return TierMedium
	default:
		return TierLow
	}
}
