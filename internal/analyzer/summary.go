// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package analyzer

import (
	"fmt"
	"strings"
)

const noFlagsSummary = "No major red flags detected in this contract. However, we still recommend having a lawyer review important agreements."

// Summarize turns the ordered finding set and overall tier into a short
// single-paragraph narrative. High-severity findings lead with their count
// and comma-joined types (catalog order), medium findings get a secondary
// sentence, and the paragraph closes with a tier-specific call to action.
// The output is never empty and never multi-paragraph.
func Summarize(findings []Finding, tier RiskTier) string {
	if len(findings) == 0 {
		return noFlagsSummary
	}

	var high, medium []Finding
	for _, f := range findings {
		switch f.Severity {
		case SeverityHigh:
			high = append(high, f)
		case SeverityMedium:
			medium = append(medium, f)
		}
	}

	var b strings.Builder

	if len(high) > 0 {
		types := make([]string, len(high))
		for i, f := range high {
			types[i] = f.Type
		}
		fmt.Fprintf(&b, "⚠️ HIGH RISK: This contract contains %d serious issue%s (%s). ",
			len(high), plural(len(high)), strings.Join(types, ", "))
	}

	if len(medium) > 0 {
		fmt.Fprintf(&b, "Found %d moderate concern%s that should be reviewed. ",
			len(medium), plural(len(medium)))
	}

	switch tier {
	case TierHigh:
		b.WriteString("We strongly recommend having a lawyer review this contract before signing.")
	case TierMedium:
		b.WriteString("Consider negotiating these terms or consulting with a lawyer.")
	default:
		b.WriteString("Review the flagged items carefully before proceeding.")
	}

	return b.String()
}

func plural(n int) string {
	if n > 1 {
		return "s"
	}
	return ""
}
