// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package analyzer

import (
	"testing"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	return engine
}

func findingsOf(severities ...Severity) []Finding {
	findings := make([]Finding, len(severities))
	for i, s := range severities {
		findings[i] = Finding{Type: "test", Severity: s}
	}
	return findings
}

func TestScore_Weights(t *testing.T) {
	engine := testEngine(t)

	cases := []struct {
		name       string
		severities []Severity
		want       int
	}{
		{"empty", nil, 0},
		{"one high", []Severity{SeverityHigh}, 30},
		{"one medium", []Severity{SeverityMedium}, 15},
		{"one low", []Severity{SeverityLow}, 5},
		{"two high", []Severity{SeverityHigh, SeverityHigh}, 60},
		{"mixed", []Severity{SeverityHigh, SeverityHigh, SeverityMedium}, 75},
		{"full catalog", []Severity{SeverityHigh, SeverityHigh, SeverityHigh, SeverityMedium, SeverityMedium, SeverityMedium, SeverityLow}, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := engine.Score(findingsOf(tc.severities...)); got != tc.want {
				t.Errorf("Score() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestScore_ClampedAt100(t *testing.T) {
	engine := testEngine(t)

	var severities []Severity
	for i := 0; i < 10; i++ {
		severities = append(severities, SeverityHigh)
	}
	if got := engine.Score(findingsOf(severities...)); got != 100 {
		t.Errorf("Score() = %d, want clamp at 100", got)
	}
}

// Adding findings never lowers the score.
func TestScore_Monotonic(t *testing.T) {
	engine := testEngine(t)

	base := []Severity{}
	prev := 0
	additions := []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityLow, SeverityHigh, SeverityHigh, SeverityHigh}
	for _, add := range additions {
		base = append(base, add)
		score := engine.Score(findingsOf(base...))
		if score < prev {
			t.Fatalf("score decreased from %d to %d after adding %q", prev, score, add)
		}
		if score < 0 || score > 100 {
			t.Fatalf("score %d out of bounds", score)
		}
		prev = score
	}
}

func TestTierFor_Thresholds(t *testing.T) {
	engine := testEngine(t)

	cases := []struct {
		score int
		want  RiskTier
	}{
		{0, TierLow},
		{30, TierLow},
		{39, TierLow},
		{40, TierMedium},
		{60, TierMedium},
		{69, TierMedium},
		{70, TierHigh},
		{100, TierHigh},
	}
	for _, tc := range cases {
		if got := engine.TierFor(tc.score); got != tc.want {
			t.Errorf("TierFor(%d) = %s, want %s", tc.score, got, tc.want)
		}
	}
}

func TestScore_ConfigurableWeights(t *testing.T) {
	opts := DefaultOptions()
	opts.WeightHigh = 50
	opts.WeightMedium = 10
	engine, err := NewEngine(opts)
	if err != nil {
		t.Fatal(err)
	}

	if got := engine.Score(findingsOf(SeverityHigh, SeverityMedium)); got != 60 {
		t.Errorf("Score() with custom weights = %d, want 60", got)
	}
}
