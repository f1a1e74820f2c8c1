package entitlement

import (
	"testing"
	"time"

	"elysia/internal/store"
)

type fakeAccess struct {
	rows map[string]*store.Access
}

func (f *fakeAccess) GetAccess(userID string) (*store.Access, error) {
	if a, ok := f.rows[userID]; ok {
		return a, nil
	}
	return &store.Access{UserID: userID, AccessType: "none", TrialStatus: "none"}, nil
}

func TestResolvePriorityOrder(t *testing.T) {
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	fa := &fakeAccess{rows: map[string]*store.Access{
		// Banned and paid at once: ban wins.
		"banned-paid": {AccessType: "paid", PaidUntil: now.Add(time.Hour), Banned: true},
		// Admin and banned at once: admin wins.
		"admin-banned": {Banned: true},
		"paid":         {AccessType: "paid", PaidUntil: now.Add(time.Hour)},
		"expired-paid": {AccessType: "paid", PaidUntil: now.Add(-time.Hour)},
		"trial":        {TrialStatus: "active", TrialStartedAt: now.Add(-time.Hour)},
		"stale-trial":  {TrialStatus: "active", TrialStartedAt: now.Add(-25 * time.Hour)},
		"used-trial":   {TrialStatus: "used"},
	}}
	r := NewResolver(fa, []string{"admin-banned"})

	cases := []struct {
		user string
		want Tier
	}{
		{"banned-paid", TierBanned},
		{"admin-banned", TierAdmin},
		{"paid", TierPaid},
		{"expired-paid", TierNone},
		{"trial", TierTrial},
		{"stale-trial", TierNone},
		{"used-trial", TierNone},
		{"nobody", TierNone},
	}
	for _, c := range cases {
		got, err := r.Resolve(c.user, now)
		if err != nil {
			t.Fatalf("%s: %v", c.user, err)
		}
		if got != c.want {
			t.Errorf("Resolve(%s) = %s, want %s", c.user, got, c.want)
		}
	}
}

func TestPremiumFeaturesNeedPaid(t *testing.T) {
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	fa := &fakeAccess{rows: map[string]*store.Access{
		"trial": {TrialStatus: "active", TrialStartedAt: now.Add(-time.Hour)},
		"paid":  {AccessType: "paid", PaidUntil: now.Add(time.Hour)},
	}}
	r := NewResolver(fa, nil)

	// Trial covers chat but not the premium-only features.
	if ok, _ := r.Check("trial", FeatureChat, now); !ok {
		t.Error("trial should cover chat")
	}
	if ok, _ := r.Check("trial", FeatureHotPics, now); ok {
		t.Error("trial must not cover hot pics")
	}
	if ok, _ := r.Check("trial", FeatureRoleplay, now); ok {
		t.Error("trial must not cover roleplay")
	}
	if ok, _ := r.Check("paid", FeatureHotPics, now); !ok {
		t.Error("paid should cover hot pics")
	}
}

func TestTrialEligibility(t *testing.T) {
	fa := &fakeAccess{rows: map[string]*store.Access{
		"used":   {TrialStatus: "used"},
		"active": {TrialStatus: "active"},
		"banned": {TrialStatus: "none", Banned: true},
	}}
	r := NewResolver(fa, nil)

	for user, want := range map[string]bool{
		"fresh":  true,
		"used":   false,
		"active": false,
		"banned": false,
	} {
		got, err := r.TrialEligible(user)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("TrialEligible(%s) = %v, want %v", user, got, want)
		}
	}
}
