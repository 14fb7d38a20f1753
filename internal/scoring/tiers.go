// internal/scoring/tiers.go
package scoring

import (
	"math"

	"assessment-engine/internal/models"
	"assessment-engine/internal/refdata"
)

// ClassifyTier maps a normalized score in [0,1] to a tier name.
// Boundaries are scanned in ascending order of upper bound and the
// upper edge is inclusive: a score exactly at a boundary classifies
// into the lower tier. Scores above every bound fall into the top tier.
func ClassifyTier(score float64, boundaries []refdata.TierBoundary) string {
	for _, b := range boundaries {
		if score <= b.High {
			return b.Name
		}
	}
	return boundaries[len(boundaries)-1].Name
}

// Round2 rounds to two decimals, half away from zero. Tier boundary
// edge cases depend on this: 0.335 rounds up to 0.34, not down.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// TierDistribution counts how many functional areas landed in each
// tier. Every tier appears in the result, zero-valued when empty.
func TierDistribution(report models.Report) map[string]int {
	distribution := make(map[string]int, len(models.Tiers))
	for _, tier := range models.Tiers {
		distribution[tier] = 0
	}
	for _, cs := range report.CategoryScores {
		distribution[cs.Tier]++
	}
	return distribution
}
