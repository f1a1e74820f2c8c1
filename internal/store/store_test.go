package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGetUserCreatesDefaults(t *testing.T) {
	s := testStore(t)

	u, err := s.GetUser("u1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if u.Points != 0 || u.Level != 1 || u.RelationshipLevel != 1 {
		t.Fatalf("unexpected defaults: %+v", u)
	}
	if u.Mood != "happy" {
		t.Fatalf("default mood = %q", u.Mood)
	}

	// Second call must return the same row, not reset it.
	if _, err := s.AddPoints("u1", 42); err != nil {
		t.Fatal(err)
	}
	u, err = s.GetUser("u1")
	if err != nil {
		t.Fatal(err)
	}
	if u.Points != 42 {
		t.Fatalf("points = %d, want 42", u.Points)
	}
}

func TestAddPointsClampsAtZero(t *testing.T) {
	s := testStore(t)
	s.GetUser("u1")

	if _, err := s.AddPoints("u1", 10); err != nil {
		t.Fatal(err)
	}
	got, err := s.AddPoints("u1", -50)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0 {
		t.Fatalf("points = %d, want 0", got)
	}
}

func TestPromoteLevelMonotonic(t *testing.T) {
	s := testStore(t)
	s.GetUser("u1")

	if err := s.PromoteLevel("u1", 5); err != nil {
		t.Fatal(err)
	}
	// A lower value must not demote.
	if err := s.PromoteLevel("u1", 3); err != nil {
		t.Fatal(err)
	}
	u, _ := s.GetUser("u1")
	if u.Level != 5 {
		t.Fatalf("level = %d, want 5", u.Level)
	}
}

func TestTouchActiveDayOncePerDay(t *testing.T) {
	s := testStore(t)
	s.GetUser("u1")

	for i := 0; i < 3; i++ {
		if err := s.TouchActiveDay("u1", "2025-03-14"); err != nil {
			t.Fatal(err)
		}
	}
	s.TouchActiveDay("u1", "2025-03-15")

	u, _ := s.GetUser("u1")
	if u.DaysActive != 2 {
		t.Fatalf("days_active = %d, want 2", u.DaysActive)
	}
}

func TestUnlockAchievementIdempotent(t *testing.T) {
	s := testStore(t)
	s.GetUser("u1")

	first, err := s.UnlockAchievement("u1", "first_step")
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.UnlockAchievement("u1", "first_step")
	if err != nil {
		t.Fatal(err)
	}
	if !first || second {
		t.Fatalf("unlock results = %v, %v; want true, false", first, second)
	}

	n, _ := s.CountAchievements("u1")
	if n != 1 {
		t.Fatalf("count = %d, want 1", n)
	}
}

func TestTrialOneWay(t *testing.T) {
	s := testStore(t)
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

	ok, err := s.StartTrial("u1", now)
	if err != nil || !ok {
		t.Fatalf("StartTrial = %v, %v", ok, err)
	}
	a, _ := s.GetAccess("u1")
	if a.TrialStatus != "active" || a.AccessType != "trial" {
		t.Fatalf("after start: %+v", a)
	}

	if err := s.MarkTrialUsed("u1"); err != nil {
		t.Fatal(err)
	}
	a, _ = s.GetAccess("u1")
	if a.TrialStatus != "used" || a.AccessType != "none" {
		t.Fatalf("after use: %+v", a)
	}

	// Used trials never restart.
	ok, err = s.StartTrial("u1", now.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("trial restarted after being used")
	}
}

func TestExpireTrials(t *testing.T) {
	s := testStore(t)
	start := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

	s.StartTrial("old", start)
	s.StartTrial("fresh", start.Add(20*time.Hour))

	n, err := s.ExpireTrials(start.Add(25*time.Hour), 24*time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("expired = %d, want 1", n)
	}
	a, _ := s.GetAccess("old")
	if a.TrialStatus != "used" {
		t.Fatalf("old trial status = %q", a.TrialStatus)
	}
	a, _ = s.GetAccess("fresh")
	if a.TrialStatus != "active" {
		t.Fatalf("fresh trial status = %q", a.TrialStatus)
	}
}

func TestBanRoundTrip(t *testing.T) {
	s := testStore(t)

	if err := s.SetBanned("u1", true, "spam"); err != nil {
		t.Fatal(err)
	}
	a, _ := s.GetAccess("u1")
	if !a.Banned || a.BanReason != "spam" {
		t.Fatalf("access = %+v", a)
	}

	s.SetBanned("u1", false, "")
	a, _ = s.GetAccess("u1")
	if a.Banned || a.BanReason != "" {
		t.Fatalf("after unban: %+v", a)
	}
}

func TestPurchaseReward(t *testing.T) {
	s := testStore(t)
	s.GetUser("u1")
	s.AddPoints("u1", 150)

	if _, err := s.PurchaseReward("u1", "phrases", 100); err != nil {
		t.Fatalf("purchase: %v", err)
	}
	u, _ := s.GetUser("u1")
	if u.Points != 50 {
		t.Fatalf("points after purchase = %d, want 50", u.Points)
	}

	// Same reward twice is rejected and the balance does not move.
	_, err := s.PurchaseReward("u1", "phrases", 100)
	if !errors.Is(err, ErrAlreadyOwned) {
		t.Fatalf("err = %v, want ErrAlreadyOwned", err)
	}
	u, _ = s.GetUser("u1")
	if u.Points != 50 {
		t.Fatalf("points changed on failed purchase: %d", u.Points)
	}

	// Too expensive is rejected.
	_, err = s.PurchaseReward("u1", "emotions", 200)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}
}

func TestRecentMessagesWindow(t *testing.T) {
	s := testStore(t)

	for i := 0; i < 15; i++ {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		if err := s.AppendMessage("u1", role, string(rune('a'+i))); err != nil {
			t.Fatal(err)
		}
	}

	msgs, err := s.RecentMessages("u1", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 10 {
		t.Fatalf("len = %d, want 10", len(msgs))
	}
	// Chronological order, ending at the newest turn.
	if msgs[len(msgs)-1].Content != string(rune('a'+14)) {
		t.Fatalf("last = %q", msgs[len(msgs)-1].Content)
	}
	if msgs[0].Content != string(rune('a'+5)) {
		t.Fatalf("first = %q", msgs[0].Content)
	}
}

func TestFactsUpsertNoDuplicates(t *testing.T) {
	s := testStore(t)

	s.UpsertFact("u1", "pet", "cat", 0.5)
	s.UpsertFact("u1", "pet", "cat", 0.9)
	s.UpsertFact("u1", "job", "программист", 0.7)

	facts, err := s.Facts("u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(facts) != 2 {
		t.Fatalf("len = %d, want 2 (no duplicate for repeated mention)", len(facts))
	}
	// Repeated mention sorts first and keeps the max confidence.
	if facts[0].Content != "cat" || facts[0].MentionCount != 2 || facts[0].Confidence != 0.9 {
		t.Fatalf("fact[0] = %+v", facts[0])
	}
}

func TestPersonalizationRoundTrip(t *testing.T) {
	s := testStore(t)

	p, err := s.GetPersonalization("u1")
	if err != nil {
		t.Fatal(err)
	}
	if p.Archetype != "" {
		t.Fatalf("unset overlay not empty: %+v", p)
	}

	want := Personalization{Archetype: "gentle", CommStyle: "short", Traits: "curious"}
	if err := s.SetPersonalization("u1", want); err != nil {
		t.Fatal(err)
	}
	p, err = s.GetPersonalization("u1")
	if err != nil {
		t.Fatal(err)
	}
	if *p != want {
		t.Fatalf("got %+v, want %+v", p, want)
	}
}
