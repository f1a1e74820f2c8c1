package store

import (
	"database/sql"
	"time"
)

// Access is the raw entitlement row. Interpretation (priority order,
// trial expiry) lives in the entitlement package.
type Access struct {
	UserID         string
	AccessType     string // none | trial | paid
	TrialStatus    string // none | active | used
	TrialStartedAt time.Time
	PaidUntil      time.Time
	Banned         bool
	BanReason      string
}

const accessTimeLayout = time.RFC3339

// GetAccess returns the access row, defaulting to no access for
// unknown users.
func (s *Store) GetAccess(userID string) (*Access, error) {
	var a Access
	var started, until string
	var banned int
	err := s.db.QueryRow(
		`SELECT user_id, access_type, trial_status, trial_started_at, paid_until, banned, ban_reason
		 FROM access WHERE user_id = ?`, userID,
	).Scan(&a.UserID, &a.AccessType, &a.TrialStatus, &started, &until, &banned, &a.BanReason)
	if err == sql.ErrNoRows {
		return &Access{UserID: userID, AccessType: "none", TrialStatus: "none"}, nil
	}
	if err != nil {
		return nil, err
	}
	a.Banned = banned != 0
	if started != "" {
		a.TrialStartedAt, _ = time.Parse(accessTimeLayout, started)
	}
	if until != "" {
		a.PaidUntil, _ = time.Parse(accessTimeLayout, until)
	}
	return &a, nil
}

func (s *Store) ensureAccessRow(userID string) error {
	_, err := s.db.Exec(
		`INSERT INTO access (user_id) VALUES (?) ON CONFLICT(user_id) DO NOTHING`,
		userID,
	)
	return err
}

// GrantPaid marks the user paid until the given time.
func (s *Store) GrantPaid(userID string, until time.Time) error {
	if err := s.ensureAccessRow(userID); err != nil {
		return err
	}
	_, err := s.db.Exec(
		`UPDATE access SET access_type = 'paid', paid_until = ? WHERE user_id = ?`,
		until.Format(accessTimeLayout), userID,
	)
	return err
}

// StartTrial flips the trial state none -> active. The guard clause
// makes the transition one-way; a second call reports false.
func (s *Store) StartTrial(userID string, now time.Time) (bool, error) {
	if err := s.ensureAccessRow(userID); err != nil {
		return false, err
	}
	res, err := s.db.Exec(
		`UPDATE access SET trial_status = 'active', trial_started_at = ?,
		        access_type = CASE WHEN access_type = 'none' THEN 'trial' ELSE access_type END
		 WHERE user_id = ? AND trial_status = 'none'`,
		now.Format(accessTimeLayout), userID,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// MarkTrialUsed flips active -> used. Used trials never reactivate.
func (s *Store) MarkTrialUsed(userID string) error {
	_, err := s.db.Exec(
		`UPDATE access SET trial_status = 'used',
		        access_type = CASE WHEN access_type = 'trial' THEN 'none' ELSE access_type END
		 WHERE user_id = ? AND trial_status = 'active'`,
		userID,
	)
	return err
}

// ExpireTrials marks every trial older than ttl as used. Returns the
// number of trials expired; the sweep runs this periodically.
func (s *Store) ExpireTrials(now time.Time, ttl time.Duration) (int, error) {
	cutoff := now.Add(-ttl).Format(accessTimeLayout)
	res, err := s.db.Exec(
		`UPDATE access SET trial_status = 'used',
		        access_type = CASE WHEN access_type = 'trial' THEN 'none' ELSE access_type END
		 WHERE trial_status = 'active' AND trial_started_at != '' AND trial_started_at < ?`,
		cutoff,
	)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (s *Store) SetBanned(userID string, banned bool, reason string) error {
	if err := s.ensureAccessRow(userID); err != nil {
		return err
	}
	b := 0
	if banned {
		b = 1
	} else {
		reason = ""
	}
	_, err := s.db.Exec(
		`UPDATE access SET banned = ?, ban_reason = ? WHERE user_id = ?`,
		b, reason, userID,
	)
	return err
}
