package store

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrAlreadyOwned      = errors.New("store: reward already owned")
	ErrInsufficientFunds = errors.New("store: not enough points")
)

// PurchaseReward deducts cost from the user's points and records the
// unlock, all in one transaction. A reward unlocks at most once; a
// failed purchase leaves the balance untouched.
func (s *Store) PurchaseReward(userID, rewardID string, cost int) (receipt string, err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	var owned int
	if err := tx.QueryRow(
		`SELECT COUNT(*) FROM rewards WHERE user_id = ? AND reward_id = ?`,
		userID, rewardID,
	).Scan(&owned); err != nil {
		return "", err
	}
	if owned > 0 {
		return "", ErrAlreadyOwned
	}

	res, err := tx.Exec(
		`UPDATE users SET points = points - ? WHERE user_id = ? AND points >= ?`,
		cost, userID, cost,
	)
	if err != nil {
		return "", err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return "", ErrInsufficientFunds
	}

	receipt = uuid.NewString()
	if _, err := tx.Exec(
		`INSERT INTO rewards (user_id, reward_id, receipt, cost) VALUES (?, ?, ?, ?)`,
		userID, rewardID, receipt, cost,
	); err != nil {
		return "", err
	}

	return receipt, tx.Commit()
}

// Rewards returns the reward ids the user has unlocked.
func (s *Store) Rewards(userID string) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT reward_id FROM rewards WHERE user_id = ? ORDER BY purchased_at`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// HasReward reports whether the user owns the given reward.
func (s *Store) HasReward(userID, rewardID string) (bool, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM rewards WHERE user_id = ? AND reward_id = ?`,
		userID, rewardID,
	).Scan(&n)
	return n > 0, err
}
