// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package analyzer

import (
	"regexp"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestExtractClause_Basic(t *testing.T) {
	text := strings.Repeat("a ", 100) + "non-compete clause" + strings.Repeat(" b", 100)
	pattern := regexp.MustCompile(`(?i)non[- ]compete`)

	clause := ExtractClause(text, pattern, 200)
	if clause == "" {
		t.Fatal("expected a clause excerpt")
	}
	if !strings.HasPrefix(clause, "...") || !strings.HasSuffix(clause, "...") {
		t.Errorf("excerpt should carry ellipsis markers: %q", clause)
	}
	if !strings.Contains(clause, "non-compete") {
		t.Errorf("excerpt should contain the match: %q", clause)
	}
}

func TestExtractClause_NoMatch(t *testing.T) {
	clause := ExtractClause("nothing relevant here", regexp.MustCompile(`non[- ]compete`), 200)
	if clause != "" {
		t.Errorf("expected empty string on miss, got %q", clause)
	}
}

func TestExtractClause_ClipsToDocumentBoundaries(t *testing.T) {
	text := "non-compete at the very start"
	clause := ExtractClause(text, regexp.MustCompile(`non[- ]compete`), 200)
	if clause != "..."+text+"..." {
		t.Errorf("short document should be excerpted whole: %q", clause)
	}
}

func TestExtractClause_BoundedLength(t *testing.T) {
	text := strings.Repeat("x", 5000) + " indemnify " + strings.Repeat("y", 5000)
	pattern := regexp.MustCompile(`indemnify`)

	for _, window := range []int{50, 200, 1000} {
		clause := ExtractClause(text, pattern, window)
		// Window budget plus the matched span plus the two markers.
		limit := window + len("indemnify") + 6
		if len(clause) > limit {
			t.Errorf("window %d: excerpt of %d chars exceeds bound %d", window, len(clause), limit)
		}
	}
}

func TestExtractClause_Deterministic(t *testing.T) {
	text := strings.Repeat("lorem ipsum ", 50) + "binding arbitration" + strings.Repeat(" dolor sit", 50)
	pattern := regexp.MustCompile(`binding.{0,20}arbitration`)

	first := ExtractClause(text, pattern, 200)
	for i := 0; i < 10; i++ {
		if got := ExtractClause(text, pattern, 200); got != first {
			t.Fatalf("extraction not deterministic: %q vs %q", first, got)
		}
	}
}

func TestExtractClause_DegenerateInputs(t *testing.T) {
	pattern := regexp.MustCompile(`x`)

	if got := ExtractClause("", pattern, 200); got != "" {
		t.Errorf("empty text: got %q", got)
	}
	if got := ExtractClause("xxx", nil, 200); got != "" {
		t.Errorf("nil pattern: got %q", got)
	}
	if got := ExtractClause("xxx", pattern, 0); got != "" {
		t.Errorf("zero window: got %q", got)
	}
}

func TestExtractClause_FirstMatchOnly(t *testing.T) {
	text := "first indemnify occurrence" + strings.Repeat(" filler", 100) + " second indemnify occurrence"
	clause := ExtractClause(text, regexp.MustCompile(`indemnify`), 60)
	if !strings.Contains(clause, "first") {
		t.Errorf("expected excerpt around the first occurrence: %q", clause)
	}
	if strings.Contains(clause, "second") {
		t.Errorf("excerpt should not reach the second occurrence: %q", clause)
	}
}

func TestExtractClause_RuneBoundaries(t *testing.T) {
	// Multi-byte runes on both sides of the match; small windows land the
	// byte offsets inside a rune unless the excerpt clips to boundaries.
	text := strings.Repeat("§", 50) + " non-compete " + strings.Repeat("é", 50)
	pattern := regexp.MustCompile(`non[- ]compete`)

	for window := 1; window <= 40; window++ {
		clause := ExtractClause(text, pattern, window)
		if !utf8.ValidString(clause) {
			t.Fatalf("window %d produced invalid UTF-8: %q", window, clause)
		}
	}
}
