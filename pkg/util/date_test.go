package util

import (
	"testing"
	"time"
)

func TestDayKeyRoundTrip(t *testing.T) {
	now := time.Date(2025, 3, 14, 22, 11, 0, 0, time.UTC)
	key := DayKey(now)
	if key != "2025-03-14" {
		t.Fatalf("DayKey = %q", key)
	}
	back := ParseDayKey(key)
	if !SameDay(back, now) {
		t.Fatalf("ParseDayKey(%q) = %v, not same day as %v", key, back, now)
	}
}

func TestIsYesterdayAcrossMonth(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	prev := time.Date(2025, 2, 28, 23, 59, 0, 0, time.UTC)
	if !IsYesterday(prev, now) {
		t.Fatal("Feb 28 should be yesterday relative to Mar 1")
	}
	if IsYesterday(now, now) {
		t.Fatal("same day is not yesterday")
	}
}

func TestParseDayKeyMalformed(t *testing.T) {
	if !ParseDayKey("not-a-date").IsZero() {
		t.Fatal("malformed input should parse to zero time")
	}
}
