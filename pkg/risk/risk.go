// Package risk computes integer 1-10 risk scores for pattern matches and
// applies sensitivity-level visibility gating.
package risk

import (
	"math"
	"path/filepath"
	"strings"

	"github.com/Sumatoshi-tech/fixhound/pkg/mathutil"
	"github.com/Sumatoshi-tech/fixhound/pkg/memory"
)

// Score bounds.
const (
	MinScore = 1
	MaxScore = 10
)

// Occurrence bonus cap.
const occurrenceBonusCap = 2.0

// File-history bonus thresholds.
const (
	fileHistoryHeavy  = 5
	fileHistoryMedium = 3
)

// Genericity penalty parameters: short patterns built around word-class
// tokens match too broadly and lose half a point.
const (
	genericRegexLength = 30
	genericityPenalty  = -0.5
)

// Score computes the risk score for a pattern matched in filePath, given
// the full repository pattern collection for file-history context. The
// result is always within [MinScore, MaxScore].
func Score(p *memory.BugPattern, filePath string, all []*memory.BugPattern) int {
	base := float64(p.RiskBase)
	occurrence := math.Min(occurrenceBonusCap, math.Log2(float64(p.OccurrenceCount+1)))
	history := fileHistoryBonus(filePath, all)

	penalty := 0.0
	if len(p.Regex) < genericRegexLength && hasGenericToken(p.Regex) {
		penalty = genericityPenalty
	}

	raw := int(math.Round(base + occurrence + history + penalty))
	raw = mathutil.Clamp(raw, MinScore, MaxScore)

	// Deterministic diversity term derived from the category text, so that
	// distinct patterns do not collapse onto identical presentation scores.
	raw += diversity(string(p.Category))

	return mathutil.Clamp(raw, MinScore, MaxScore)
}

// fileHistoryBonus maps the number of commit references across all patterns
// whose file basename matches filePath's basename onto a bonus.
func fileHistoryBonus(filePath string, all []*memory.BugPattern) float64 {
	if filePath == "" {
		return 0
	}

	base := filepath.Base(filePath)
	count := 0

	for _, p := range all {
		for _, ref := range p.Commits {
			if filepath.Base(ref.File) == base {
				count++
			}
		}
	}

	switch {
	case count >= fileHistoryHeavy:
		return 1.5
	case count >= fileHistoryMedium:
		return 1.0
	case count >= 1:
		return 0.5
	default:
		return 0
	}
}

func hasGenericToken(regex string) bool {
	return strings.Contains(regex, `\w`) ||
		strings.Contains(regex, `\S`) ||
		strings.Contains(regex, `.*`)
}

// diversity hashes the category string (sum of character codes) mod 3 onto
// {-1, 0, 1}.
func diversity(category string) int {
	sum := 0
	for _, r := range category {
		sum += int(r)
	}

	return sum%3 - 1
}

// Sensitivity is a caller-selected visibility threshold.
type Sensitivity string

// Sensitivity levels and their minimum visible scores.
const (
	SensitivityLow    Sensitivity = "low"
	SensitivityMedium Sensitivity = "medium"
	SensitivityHigh   Sensitivity = "high"
)

// Threshold returns the minimum score visible at this sensitivity level.
// Unrecognized levels fall back to medium.
func (s Sensitivity) Threshold() int {
	switch s {
	case SensitivityLow:
		return 7
	case SensitivityMedium:
		return 5
	case SensitivityHigh:
		return 3
	default:
		return 5
	}
}

// Valid reports whether s names a known sensitivity level.
func (s Sensitivity) Valid() bool {
	return s == SensitivityLow || s == SensitivityMedium || s == SensitivityHigh
}

// AdjustForSensitivity gates a score by the level's threshold: scores below
// it are suppressed to zero, scores at or above it pass unchanged.
func AdjustForSensitivity(score int, level Sensitivity) int {
	if score >= level.Threshold() {
		return score
	}

	return 0
}
