// Package classify maps free-form model replies onto a caller-supplied label
// set using an ordered chain of matching strategies with fixed confidence
// scores.
package classify

import "strings"

// Confidence assigned per matching tier. An exact reply is near-certain, a
// containment hit is plausible, the fallback is a guess. The values are
// policy constants, not calibrated probabilities.
const (
	ExactConfidence    = 0.95
	ContainsConfidence = 0.7
	FallbackConfidence = 0.3
)

// Tier names, also used as the metrics label.
const (
	TierExact    = "exact"
	TierContains = "contains"
	TierFallback = "fallback"
)

// Match is the outcome of scoring one reply against a label set.
type Match struct {
	// Label is returned with the caller's original casing.
	Label      string
	Confidence float64
	Tier       string
}

// matcher is one strategy in the ordered fallback chain: a pure function
// from a normalized reply and the label set to an optional match.
type matcher func(norm string, labels []string) (Match, bool)

// tiers are evaluated in fixed order until one yields a result. The final
// fallback always does.
var tiers = []matcher{matchExact, matchContains, matchFallback}

// Score resolves a model reply to exactly one label. Labels must be
// non-empty; ties within a tier go to the earliest label in caller order.
func Score(reply string, labels []string) Match {
	norm := normalize(reply)
	for _, match := range tiers {
		if m, ok := match(norm, labels); ok {
			return m
		}
	}
	// Unreachable: matchFallback always yields.
	return Match{}
}

// matchExact hits when the reply is some label, nothing more.
func matchExact(norm string, labels []string) (Match, bool) {
	for _, l := range labels {
		if n := normalize(l); n != "" && n == norm {
			return Match{Label: l, Confidence: ExactConfidence, Tier: TierExact}, true
		}
	}
	return Match{}, false
}

// matchContains hits on the first label appearing anywhere in the reply.
func matchContains(norm string, labels []string) (Match, bool) {
	for _, l := range labels {
		if n := normalize(l); n != "" && strings.Contains(norm, n) {
			return Match{Label: l, Confidence: ContainsConfidence, Tier: TierContains}, true
		}
	}
	return Match{}, false
}

// matchFallback picks the first label outright so a ClassificationResponse
// is always produced; callers log this tier as a degraded outcome.
func matchFallback(_ string, labels []string) (Match, bool) {
	return Match{Label: labels[0], Confidence: FallbackConfidence, Tier: TierFallback}, true
}

// normalize folds case and strips the padding and quoting models wrap around
// bare labels.
func normalize(s string) string {
	return strings.ToLower(strings.Trim(s, "\"' \t\r\n"))
}
