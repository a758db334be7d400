// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package analyzer

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// ExtractClause returns a bounded excerpt of the original text around the
// first match of pattern, with ellipsis markers signaling truncation. The
// window is the total context budget in characters, split evenly on each
// side of the match and clipped to document boundaries. A miss returns the
// empty string; extraction never fails and never blocks detection.
//
// This is a display aid, not a legal quotation. Same input always yields the
// same output.
func ExtractClause(text string, pattern *regexp.Regexp, window int) string {
	if pattern == nil || window <= 0 {
		return ""
	}

	loc := pattern.FindStringIndex(text)
	if loc == nil {
		return ""
	}

	half := window / 2
	start := loc[0] - half
	if start < 0 {
		start = 0
	}
	end := loc[1] + half
	if end > len(text) {
		end = len(text)
	}

	// Keep the window from splitting a multi-byte rune at either edge.
	for start > 0 && !utf8.RuneStart(text[start]) {
		start--
	}
	for end < len(text) && !utf8.RuneStart(text[end]) {
		end++
	}

	excerpt := strings.TrimSpace(text[start:end])
	if excerpt == "" {
		return ""
	}
	return "..." + excerpt + "..."
}
