package engine

import (
	"testing"
	"time"

	"elysia/pkg/util"
)

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func TestAdvanceStreakSameDay(t *testing.T) {
	now := day("2026-03-10")
	r := AdvanceStreak(4, util.DayKey(now), now)
	if r.Changed || r.Days != 4 || r.Bonus != 0 {
		t.Fatalf("same day = %+v, want unchanged 4", r)
	}
}

func TestAdvanceStreakExtends(t *testing.T) {
	r := AdvanceStreak(4, "2026-03-09", day("2026-03-10"))
	if !r.Changed || r.Days != 5 {
		t.Fatalf("next day = %+v, want days 5", r)
	}
	if r.Bonus != 50 {
		t.Fatalf("day 5 bonus = %d, want 50", r.Bonus)
	}
}

func TestAdvanceStreakResets(t *testing.T) {
	tests := []struct {
		name    string
		lastDay string
	}{
		{"gap", "2026-03-07"},
		{"first contact", ""},
		{"malformed", "not-a-date"},
	}
	for _, tt := range tests {
		r := AdvanceStreak(9, tt.lastDay, day("2026-03-10"))
		if !r.Changed || r.Days != 1 {
			t.Errorf("%s: got %+v, want reset to 1", tt.name, r)
		}
	}
}

func TestStreakMilestoneBonuses(t *testing.T) {
	tests := []struct {
		days, bonus int
	}{
		{1, 0}, {2, 0}, {3, 20}, {4, 0}, {5, 50}, {6, 0}, {7, 100},
		{8, 0}, {14, 50}, {21, 50}, {20, 0},
	}
	for _, tt := range tests {
		if got := streakMilestoneBonus(tt.days); got != tt.bonus {
			t.Errorf("milestone(%d) = %d, want %d", tt.days, got, tt.bonus)
		}
	}
}

func TestAdvanceStreakMonthBoundary(t *testing.T) {
	r := AdvanceStreak(2, "2026-02-28", day("2026-03-01"))
	if r.Days != 3 || r.Bonus != 20 {
		t.Fatalf("month boundary = %+v, want days 3 bonus 20", r)
	}
}
