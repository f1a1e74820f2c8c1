// Package entitlement resolves a user's effective access tier from
// persisted access, trial and ban records.
package entitlement

import (
	"time"

	"elysia/internal/store"
)

// Tier is the effective access level after resolving all sources.
type Tier string

const (
	TierAdmin  Tier = "admin"
	TierBanned Tier = "banned"
	TierPaid   Tier = "paid"
	TierTrial  Tier = "trial"
	TierNone   Tier = "none"
)

// Feature is a gated capability. Premium features require a paid
// subscription specifically; trial access is not enough.
type Feature string

const (
	FeatureChat     Feature = "chat"
	FeatureHotPics  Feature = "hot_pics"
	FeatureRoleplay Feature = "roleplay"
)

// TrialTTL is how long an activated trial stays live.
const TrialTTL = 24 * time.Hour

type accessReader interface {
	GetAccess(userID string) (*store.Access, error)
}

// Resolver computes tiers. Admin ids come from config and override
// everything, including bans.
type Resolver struct {
	store  accessReader
	admins map[string]bool
}

func NewResolver(s accessReader, adminIDs []string) *Resolver {
	admins := make(map[string]bool, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = true
	}
	return &Resolver{store: s, admins: admins}
}

// Resolve returns the effective tier at now. Priority order is fixed:
// admin, banned, paid, active trial, nothing.
func (r *Resolver) Resolve(userID string, now time.Time) (Tier, error) {
	if r.admins[userID] {
		return TierAdmin, nil
	}

	a, err := r.store.GetAccess(userID)
	if err != nil {
		return TierNone, err
	}

	switch {
	case a.Banned:
		return TierBanned, nil
	case a.AccessType == "paid" && a.PaidUntil.After(now):
		return TierPaid, nil
	case a.TrialStatus == "active" && !a.TrialStartedAt.IsZero() &&
		now.Sub(a.TrialStartedAt) < TrialTTL:
		return TierTrial, nil
	}
	return TierNone, nil
}

// Check reports whether the user may use the feature right now.
func (r *Resolver) Check(userID string, feature Feature, now time.Time) (bool, error) {
	tier, err := r.Resolve(userID, now)
	if err != nil {
		return false, err
	}

	switch tier {
	case TierAdmin:
		return true, nil
	case TierBanned:
		return false, nil
	}

	switch feature {
	case FeatureHotPics, FeatureRoleplay:
		return tier == TierPaid, nil
	default:
		return tier == TierPaid || tier == TierTrial, nil
	}
}

// TrialEligible reports whether the user may still activate a trial.
func (r *Resolver) TrialEligible(userID string) (bool, error) {
	a, err := r.store.GetAccess(userID)
	if err != nil {
		return false, err
	}
	return a.TrialStatus == "none" && !a.Banned, nil
}
