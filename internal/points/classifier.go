// Package points assigns credit-point tiers to certification names.
// Classification is keyword containment against a small fixed tier table,
// checked in priority order with the lowest tier as the default, so it is
// total: every input maps to exactly one tier.
package points

import (
	"strings"

	"credpoints/internal/logging"
)

// Tier is one row of the point table.
type Tier struct {
	// Category is the human-readable tier name, e.g. "Any Professional or Specialty".
	Category string `json:"category"`

	// Keywords are matched case-insensitively as substrings of the
	// certification name. Empty means the tier matches everything.
	Keywords []string `json:"keywords"`

	// Points awarded for this tier.
	Points float64 `json:"points"`

	// Priority orders matching; lower values are checked first.
	Priority int `json:"priority"`
}

// Classification is the result of classifying a certification name.
type Classification struct {
	Category string  `json:"category"`
	Points   float64 `json:"points"`
}

// DefaultTiers is the compiled-in three-row point table. The tier store
// seeds its database from this table and the classifier falls back to it
// when no store is configured.
func DefaultTiers() []Tier {
	return []Tier{
		{
			Category: "Any Professional or Specialty",
			Keywords: []string{"professional", "specialty"},
			Points:   10,
			Priority: 0,
		},
		{
			Category: "Any Associate or Hashicorp",
			Keywords: []string{"associate", "hashicorp", "terraform"},
			Points:   5,
			Priority: 1,
		},
		{
			Category: "Anything Else",
			Keywords: nil, // catch-all
			Points:   2.5,
			Priority: 2,
		},
	}
}

// Classify assigns a tier to a certification name using the compiled-in
// table. First match wins; unmatched names get the lowest tier.
func Classify(certName string) Classification {
	return ClassifyWith(DefaultTiers(), certName)
}

// ClassifyWith assigns a tier using an explicit tier table. Tiers must
// already be ordered by priority (the store guarantees this). If no tier
// matches, the last catch-all tier applies; an empty table yields the
// compiled-in default tier so the function stays total.
func ClassifyWith(tiers []Tier, certName string) Classification {
	lower := strings.ToLower(certName)

	for _, tier := range tiers {
		if tier.Matches(lower) {
			logging.PointsDebug("classified %q as %q (%.1f points)", certName, tier.Category, tier.Points)
			return Classification{Category: tier.Category, Points: tier.Points}
		}
	}

	// Only reachable with an empty or catch-all-free table.
	fallback := DefaultTiers()
	last := fallback[len(fallback)-1]
	logging.PointsDebug("classified %q via fallback tier %q", certName, last.Category)
	return Classification{Category: last.Category, Points: last.Points}
}

// Matches reports whether the lowercased certification name falls into this
// tier. A tier with no keywords matches everything.
func (t Tier) Matches(lowerName string) bool {
	if len(t.Keywords) == 0 {
		return true
	}
	for _, kw := range t.Keywords {
		if strings.Contains(lowerName, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
