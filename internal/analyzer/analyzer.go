// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package analyzer

import (
	"fmt"
	"strings"
)

// Severity classifies how serious a detected clause is. It is fixed per
// rule, not computed per document.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// RiskTier is the coarse risk bucket derived from the numeric risk score.
type RiskTier string

const (
	TierHigh   RiskTier = "high"
	TierMedium RiskTier = "medium"
	TierLow    RiskTier = "low"
)

// MinTextLength is the minimum number of characters a document must contain
// before analysis is attempted. The extractor enforces the same bound;
// Analyze re-validates defensively rather than producing a vacuous report.
const MinTextLength = 100

// Finding is one detected risk instance produced by a single rule for a
// single analysis. At most one Finding per rule: rules are existence checks,
// not occurrence counters.
type Finding struct {
	Type           string   `json:"type"`
	Severity       Severity `json:"severity"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Clause         string   `json:"clause"`
	Recommendation string   `json:"recommendation"`
}

// Result is the structured outcome of a single analysis. It is constructed
// once per Analyze call and never mutated afterwards; ownership passes
// entirely to the caller.
type Result struct {
	OverallRisk RiskTier  `json:"overallRisk"`
	RiskScore   int       `json:"riskScore"`
	RedFlags    []Finding `json:"redFlags"`
	Summary     string    `json:"summary"`
}

// InputError indicates the document text was absent or too short to analyze.
// The core fails fast with no partial result.
type InputError struct {
	Length int
}

func (e *InputError) Error() string {
	if e.Length == 0 {
		return "document text is empty"
	}
	return fmt.Sprintf("document text too short for analysis: %d characters (minimum %d)", e.Length, MinTextLength)
}

// Engine runs the deterministic rule-based contract analysis. The zero
// configuration from DefaultOptions matches the documented scoring model;
// all tunables live in Options so rule logic never changes when they do.
//
// An Engine is immutable after construction and safe for concurrent use:
// Analyze performs no I/O, acquires no locks, and shares no per-call state.
type Engine struct {
	catalog []RiskRule
	opts    Options
}

// Options holds the scoring and extraction tunables. These are configuration
// constants external to rule logic so they can be tuned without touching the
// detector.
type Options struct {
	// Severity point values summed across findings.
	WeightHigh   int
	WeightMedium int
	WeightLow    int

	// Tier thresholds, inclusive at the lower bound of each tier.
	TierHighThreshold   int
	TierMediumThreshold int

	// Total clause context budget in characters (half on each side of the
	// matched span).
	ContextWindow int

	// Minimum document length accepted by Analyze.
	MinTextLength int
}

// DefaultOptions returns the baseline scoring model: high=30, medium=15,
// low=5, tiers at 70/40, 200-character clause windows.
func DefaultOptions() Options {
	return Options{
		WeightHigh:          30,
		WeightMedium:        15,
		WeightLow:           5,
		TierHighThreshold:   70,
		TierMediumThreshold: 40,
		ContextWindow:       200,
		MinTextLength:       MinTextLength,
	}
}

// Validate checks that the options describe a usable scoring model.
func (o Options) Validate() error {
	if o.WeightHigh < 0 || o.WeightMedium < 0 || o.WeightLow < 0 {
		return fmt.Errorf("severity weights must be non-negative (high=%d medium=%d low=%d)", o.WeightHigh, o.WeightMedium, o.WeightLow)
	}
	if o.TierHighThreshold <= o.TierMediumThreshold {
		return fmt.Errorf("high tier threshold (%d) must exceed medium tier threshold (%d)", o.TierHighThreshold, o.TierMediumThreshold)
	}
	if o.ContextWindow <= 0 {
		return fmt.Errorf("context window must be positive, got %d", o.ContextWindow)
	}
	if o.MinTextLength <= 0 {
		return fmt.Errorf("minimum text length must be positive, got %d", o.MinTextLength)
	}
	return nil
}

// NewEngine creates an engine over the default rule catalog.
func NewEngine(opts Options) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid analyzer options: %w", err)
	}
	return &Engine{catalog: Catalog(), opts: opts}, nil
}

// NewEngineWithCatalog creates an engine over a custom ordered rule set.
// Catalog order defines finding order in results.
func NewEngineWithCatalog(opts Options, catalog []RiskRule) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid analyzer options: %w", err)
	}
	rules := make([]RiskRule, len(catalog))
	copy(rules, catalog)
	return &Engine{catalog: rules, opts: opts}, nil
}

// Options returns a copy of the engine's tunables.
func (e *Engine) Options() Options {
	return e.opts
}

// Analyze is the sole public entry point of the core: it takes raw extracted
// document text and returns the complete analysis result. It fails with
// *InputError when the text is empty or below the minimum length; every
// other degradation (a trigger firing without a locatable clause) is
// absorbed into the result rather than escalated.
func (e *Engine) Analyze(text string) (*Result, error) {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < e.opts.MinTextLength {
		return nil, &InputError{Length: len(trimmed)}
	}

	normalized := Normalize(text)
	findings := e.detect(text, normalized)
	score := e.Score(findings)
	tier := e.TierFor(score)

	return &Result{
		OverallRisk: tier,
		RiskScore:   score,
		RedFlags:    findings,
		Summary:     Summarize(findings, tier),
	}, nil
}

// Normalize produces the case-normalized copy of the document used for
// trigger evaluation. The original text is kept untouched for clause
// extraction so excerpts preserve their original casing and punctuation.
func Normalize(text string) string {
	return strings.ToLower(text)
}
