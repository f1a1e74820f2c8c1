package store

// UnlockAchievement records an achievement at most once per user.
// It reports whether this call actually unlocked it.
func (s *Store) UnlockAchievement(userID, achievementID string) (bool, error) {
	res, err := s.db.Exec(
		`INSERT INTO achievements (user_id, achievement_id) VALUES (?, ?)
		 ON CONFLICT(user_id, achievement_id) DO NOTHING`,
		userID, achievementID,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Achievements returns the ids unlocked by the user, oldest first.
func (s *Store) Achievements(userID string) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT achievement_id FROM achievements WHERE user_id = ? ORDER BY unlocked_at, achievement_id`,
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

// CountAchievements reports how many achievements the user holds.
func (s *Store) CountAchievements(userID string) (int, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM achievements WHERE user_id = ?`, userID,
	).Scan(&n)
	return n, err
}
