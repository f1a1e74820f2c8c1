package engine

import "math"

// Rand is the randomness the scoring and mood rolls consume. Both
// *rand.Rand and the engine's locked wrapper satisfy it.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// basePoints is the fixed per-category score table. Rude and ignore
// are the only negative entries.
var basePoints = map[Category]int{
	CategoryCompliment: 5,
	CategoryQuestion:   2,
	CategoryStory:      8,
	CategoryGame:       10,
	CategoryHelp:       6,
	CategoryPersonal:   12,
	CategoryRomantic:   15,
	CategorySupport:    10,
	CategoryRude:       -15,
	CategoryIgnore:     -3,
}

// BasePoints exposes the table for callers that report bonus breakdowns.
func BasePoints(c Category) int {
	return basePoints[c]
}

// Score computes the point delta for one interaction before the
// time-of-day bonus. Higher levels damp the base value so points get
// harder to earn; streak and relationship add flat bonuses on top.
// A positive product never rounds down below 1. Negative bases pass
// through unmodified by the floor rule.
func Score(category Category, level, streakDays, relationshipLevel int, rng Rand) int {
	base := float64(basePoints[category])

	difficulty := math.Max(0.3, 1.0-float64(level)*0.08)
	randomness := 0.8 + rng.Float64()*0.4

	streakBonus := 0
	if streakDays >= 3 {
		streakBonus = min(streakDays/3, 8)
	}
	relationshipBonus := min(relationshipLevel*2, 10)

	final := int(math.Floor(base*difficulty*randomness)) + streakBonus + relationshipBonus
	if base > 0 && final < 1 {
		return 1
	}
	return final
}

// TimeBonus returns the extra points and the user-visible label for a
// positive delta at the given hour. Negative deltas get no bonus. The
// extra is reported separately, never folded into the base number.
func TimeBonus(delta int, hour int) (extra int, label string) {
	if delta <= 0 {
		return 0, ""
	}
	var pct float64
	switch {
	case hour >= 6 && hour < 12:
		pct, label = 0.10, "☀️ Утренний настрой!"
	case hour >= 18 && hour < 23:
		pct, label = 0.15, "🌙 Вечерний уют!"
	case hour >= 23:
		pct, label = 0.20, "💫 Ночная беседа"
	default:
		return 0, ""
	}
	return int(math.Floor(float64(delta) * pct)), label
}
