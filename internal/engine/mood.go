package engine

// Mood is the persona's current emotional state.
type Mood string

const (
	MoodHappy       Mood = "happy"
	MoodSad         Mood = "sad"
	MoodPlayful     Mood = "playful"
	MoodCaring      Mood = "caring"
	MoodRomantic    Mood = "romantic"
	MoodShy         Mood = "shy"
	MoodSarcastic   Mood = "sarcastic"
	MoodThoughtful  Mood = "thoughtful"
	MoodExcited     Mood = "excited"
	MoodMelancholic Mood = "melancholic"
	MoodMischievous Mood = "mischievous"
	MoodNostalgic   Mood = "nostalgic"
)

// AllMoods is the closed set of valid states.
var AllMoods = []Mood{
	MoodHappy, MoodSad, MoodPlayful, MoodCaring, MoodRomantic, MoodShy,
	MoodSarcastic, MoodThoughtful, MoodExcited, MoodMelancholic,
	MoodMischievous, MoodNostalgic,
}

// ValidMood reports whether m is a member of the closed mood set.
func ValidMood(m Mood) bool {
	for _, v := range AllMoods {
		if v == m {
			return true
		}
	}
	return false
}

// moodTransitions maps each mood to its plausible successors. Moods
// absent here fall back to the full set.
var moodTransitions = map[Mood][]Mood{
	MoodHappy:       {MoodExcited, MoodPlayful, MoodMischievous, MoodThoughtful},
	MoodSad:         {MoodMelancholic, MoodThoughtful, MoodNostalgic, MoodCaring},
	MoodSarcastic:   {MoodMischievous, MoodThoughtful, MoodHappy, MoodPlayful},
	MoodThoughtful:  {MoodNostalgic, MoodMelancholic, MoodSarcastic, MoodCaring},
	MoodExcited:     {MoodHappy, MoodMischievous, MoodPlayful, MoodThoughtful},
	MoodMelancholic: {MoodNostalgic, MoodSad, MoodThoughtful, MoodCaring},
	MoodMischievous: {MoodSarcastic, MoodPlayful, MoodExcited, MoodHappy},
	MoodNostalgic:   {MoodMelancholic, MoodThoughtful, MoodSad, MoodCaring},
	MoodPlayful:     {MoodHappy, MoodExcited, MoodMischievous, MoodSarcastic},
}

// moodStability scales the transition probability per mood. Values
// below 1 are sticky, above 1 volatile. Unlisted moods use 1.0.
var moodStability = map[Mood]float64{
	MoodHappy:       0.8,
	MoodSad:         1.2,
	MoodSarcastic:   0.9,
	MoodThoughtful:  0.7,
	MoodExcited:     1.5,
	MoodMelancholic: 0.6,
	MoodMischievous: 1.1,
	MoodNostalgic:   0.5,
	MoodPlayful:     1.0,
}

// MoodChangeProbability is the chance a single interaction flips the
// mood. Closer relationships swing moods more often, capped at 40%
// before the stability scaling.
func MoodChangeProbability(current Mood, relationshipLevel int) float64 {
	stability, ok := moodStability[current]
	if !ok {
		stability = 1.0
	}
	base := 0.15 + float64(relationshipLevel)*0.05
	if base > 0.4 {
		base = 0.4
	}
	return base * stability
}

// StepMood rolls for a mood transition and returns the resulting mood
// plus whether it changed. Romantic and caring join the successor pool
// only once the relationship is close enough.
func StepMood(current Mood, relationshipLevel int, rng Rand) (Mood, bool) {
	if rng.Float64() >= MoodChangeProbability(current, relationshipLevel) {
		return current, false
	}

	base, ok := moodTransitions[current]
	if !ok {
		base = AllMoods
	}
	pool := make([]Mood, len(base), len(base)+2)
	copy(pool, base)
	if relationshipLevel >= 3 {
		pool = append(pool, MoodRomantic, MoodCaring)
	}

	next := pool[rng.Intn(len(pool))]
	return next, next != current
}
