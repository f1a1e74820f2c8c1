package engine

// levelThresholds is the points floor for each primary level, 1-indexed.
var levelThresholds = []int{0, 100, 250, 500, 800, 1200, 1700, 2300, 3000, 4000}

// LevelForPoints returns the highest level whose threshold is covered
// by points. Pure; callers enforce monotonicity against persisted state.
func LevelForPoints(points int) int {
	level := 1
	for i, need := range levelThresholds {
		if points >= need {
			level = i + 1
		}
	}
	return level
}

// NextLevelThreshold returns the points needed for the next primary
// level, or 0 at the cap.
func NextLevelThreshold(level int) int {
	if level < 1 || level >= len(levelThresholds) {
		return 0
	}
	return levelThresholds[level]
}

// levelTitles names each primary level, 1-indexed.
var levelTitles = []string{
	"Незнакомка",
	"Знакомая",
	"Приятельница",
	"Хорошая знакомая",
	"Подруга",
	"Близкая подруга",
	"Лучшая подруга",
	"Родная душа",
	"Верная спутница",
	"Вторая половинка",
}

// LevelTitle returns the display name for a primary level.
func LevelTitle(level int) string {
	if level < 1 || level > len(levelTitles) {
		return levelTitles[0]
	}
	return levelTitles[level-1]
}

// relationshipTitles names each relationship level, 1-indexed.
var relationshipTitles = []string{
	"Знакомый",
	"Друг",
	"Близкий человек",
	"Особенный",
	"Любимый человек",
}

// RelationshipTitle returns the display name for a relationship level.
func RelationshipTitle(level int) string {
	if level < 1 || level > len(relationshipTitles) {
		return relationshipTitles[0]
	}
	return relationshipTitles[level-1]
}

// relationshipGate holds the requirements for one relationship level.
type relationshipGate struct {
	points       int
	achievements int
	streakDays   int
}

// relationshipGates is 1-indexed by target level; streak gates apply
// from level 4 up.
var relationshipGates = map[int]relationshipGate{
	1: {points: 0, achievements: 0, streakDays: 0},
	2: {points: 100, achievements: 1, streakDays: 0},
	3: {points: 300, achievements: 3, streakDays: 0},
	4: {points: 700, achievements: 5, streakDays: 5},
	5: {points: 1500, achievements: 10, streakDays: 14},
}

const maxRelationshipLevel = 5

// RelationshipLevelFor recomputes the relationship level from points,
// achievement count and streak. Points alone pick a candidate; failing
// an achievement or streak gate caps the result one step below the
// candidate. The result is clamped to at most one step above current,
// and never below current.
func RelationshipLevelFor(current, points, achievements, streakDays int) int {
	if current < 1 {
		current = 1
	}

	candidate := 1
	for lvl := 1; lvl <= maxRelationshipLevel; lvl++ {
		if points >= relationshipGates[lvl].points {
			candidate = lvl
		}
	}

	gate := relationshipGates[candidate]
	if achievements < gate.achievements || streakDays < gate.streakDays {
		candidate--
	}

	// One step per pass keeps the pacing gradual.
	if candidate > current+1 {
		candidate = current + 1
	}
	if candidate < current {
		candidate = current
	}
	return candidate
}
