// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package entitlement

import "contract-guard/internal/analyzer"

// upgradeNotice replaces per-flag recommendations for free-tier callers
const upgradeNotice = "Upgrade to premium to see detailed recommendations."

// ApplyTier returns the result as the caller's tier is allowed to see
// it. Premium callers get the full result; free callers get findings
// and scores but recommendations are withheld. The input is not
// modified.
func ApplyTier(result *analyzer.Result, premium bool) *analyzer.Result {
	if result == nil || premium {
		return result
	}

	redacted := *result
	redacted.RedFlags = make([]analyzer.Finding, len(result.RedFlags))
	for i, flag := range result.RedFlags {
		flag.Recommendation = upgradeNotice
		redacted.RedFlags[i] = flag
	}
	return &redacted
}
