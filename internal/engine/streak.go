package engine

import (
	"time"

	"elysia/pkg/util"
)

// StreakResult is the outcome of advancing the day streak for one
// qualifying interaction.
type StreakResult struct {
	Days    int
	Bonus   int  // one-time milestone bonus, separate from scoring's streak bonus
	Changed bool // false when the streak already advanced today
}

// AdvanceStreak computes the next streak state. Same-day calls are a
// no-op; a day immediately after the last one extends the streak; any
// gap (or first contact) resets it to 1.
func AdvanceStreak(current int, lastDay string, now time.Time) StreakResult {
	today := util.DayKey(now)
	if lastDay == today {
		return StreakResult{Days: current}
	}

	prev := util.ParseDayKey(lastDay)
	days := 1
	if !prev.IsZero() && util.IsYesterday(prev, now) {
		days = current + 1
	}
	return StreakResult{Days: days, Bonus: streakMilestoneBonus(days), Changed: true}
}

// streakMilestoneBonus pays out once when the streak lands exactly on
// a milestone.
func streakMilestoneBonus(days int) int {
	switch days {
	case 3:
		return 20
	case 5:
		return 50
	case 7:
		return 100
	}
	if days > 7 && days%7 == 0 {
		return 50
	}
	return 0
}
