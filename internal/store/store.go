package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store wraps a SQLite connection holding all per-user progression state.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at path and runs migrations.
func New(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("store: mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}

	// Single connection avoids write contention for our scale
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`)

	var version int
	s.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version)

	if version < 1 {
		if _, err := s.db.Exec(`
			CREATE TABLE IF NOT EXISTS users (
				user_id            TEXT PRIMARY KEY,
				name               TEXT    NOT NULL DEFAULT '',
				gender             TEXT    NOT NULL DEFAULT '',
				persona            TEXT    NOT NULL DEFAULT '',
				points             INTEGER NOT NULL DEFAULT 0,
				level              INTEGER NOT NULL DEFAULT 1,
				relationship_level INTEGER NOT NULL DEFAULT 1,
				messages_count     INTEGER NOT NULL DEFAULT 0,
				hearts             INTEGER NOT NULL DEFAULT 0,
				streak_days        INTEGER NOT NULL DEFAULT 0,
				last_streak_day    TEXT    NOT NULL DEFAULT '',
				days_active        INTEGER NOT NULL DEFAULT 0,
				last_active_day    TEXT    NOT NULL DEFAULT '',
				mood               TEXT    NOT NULL DEFAULT 'happy',
				created_at         TEXT    NOT NULL DEFAULT (datetime('now'))
			);

			CREATE TABLE IF NOT EXISTS achievements (
				user_id        TEXT NOT NULL,
				achievement_id TEXT NOT NULL,
				unlocked_at    TEXT NOT NULL DEFAULT (datetime('now')),
				UNIQUE(user_id, achievement_id)
			);
			CREATE INDEX IF NOT EXISTS idx_achievements_user ON achievements(user_id);

			CREATE TABLE IF NOT EXISTS access (
				user_id          TEXT PRIMARY KEY,
				access_type      TEXT NOT NULL DEFAULT 'none',
				trial_status     TEXT NOT NULL DEFAULT 'none',
				trial_started_at TEXT NOT NULL DEFAULT '',
				paid_until       TEXT NOT NULL DEFAULT '',
				banned           INTEGER NOT NULL DEFAULT 0,
				ban_reason       TEXT NOT NULL DEFAULT ''
			);

			CREATE TABLE IF NOT EXISTS rewards (
				user_id      TEXT NOT NULL,
				reward_id    TEXT NOT NULL,
				receipt      TEXT NOT NULL,
				cost         INTEGER NOT NULL,
				purchased_at TEXT NOT NULL DEFAULT (datetime('now')),
				UNIQUE(user_id, reward_id)
			);

			CREATE TABLE IF NOT EXISTS messages (
				id         INTEGER PRIMARY KEY AUTOINCREMENT,
				user_id    TEXT NOT NULL,
				role       TEXT NOT NULL,
				content    TEXT NOT NULL,
				created_at TEXT NOT NULL DEFAULT (datetime('now'))
			);
			CREATE INDEX IF NOT EXISTS idx_messages_user ON messages(user_id, id);

			CREATE TABLE IF NOT EXISTS facts (
				user_id       TEXT NOT NULL,
				fact_type     TEXT NOT NULL,
				content       TEXT NOT NULL,
				confidence    REAL NOT NULL DEFAULT 0.5,
				mention_count INTEGER NOT NULL DEFAULT 1,
				first_seen    TEXT NOT NULL DEFAULT (datetime('now')),
				last_seen     TEXT NOT NULL DEFAULT (datetime('now')),
				UNIQUE(user_id, fact_type, content)
			);
			CREATE INDEX IF NOT EXISTS idx_facts_user ON facts(user_id);

			CREATE TABLE IF NOT EXISTS personalization (
				user_id    TEXT PRIMARY KEY,
				archetype  TEXT NOT NULL DEFAULT '',
				comm_style TEXT NOT NULL DEFAULT '',
				traits     TEXT NOT NULL DEFAULT '',
				phrases    TEXT NOT NULL DEFAULT ''
			);
		`); err != nil {
			return err
		}
		s.db.Exec(`INSERT INTO schema_version (version) VALUES (1)`)
	}

	return nil
}

// User is the progression row for one user. Zero values match a user
// who has never written anything.
type User struct {
	ID                string
	Name              string
	Gender            string
	Persona           string
	Points            int
	Level             int
	RelationshipLevel int
	MessagesCount     int
	Hearts            int
	StreakDays        int
	LastStreakDay     string
	DaysActive        int
	LastActiveDay     string
	Mood              string
	CreatedAt         time.Time
}

const userCols = `user_id, name, gender, persona, points, level, relationship_level,
	messages_count, hearts, streak_days, last_streak_day, days_active,
	last_active_day, mood, created_at`

func scanUser(row *sql.Row) (*User, error) {
	var u User
	var created string
	err := row.Scan(
		&u.ID, &u.Name, &u.Gender, &u.Persona, &u.Points, &u.Level,
		&u.RelationshipLevel, &u.MessagesCount, &u.Hearts, &u.StreakDays,
		&u.LastStreakDay, &u.DaysActive, &u.LastActiveDay, &u.Mood, &created,
	)
	if err != nil {
		return nil, err
	}
	u.CreatedAt, _ = time.Parse("2006-01-02 15:04:05", created)
	return &u, nil
}

// GetUser returns the user row, creating a default one on first contact.
func (s *Store) GetUser(userID string) (*User, error) {
	if _, err := s.db.Exec(
		`INSERT INTO users (user_id) VALUES (?) ON CONFLICT(user_id) DO NOTHING`,
		userID,
	); err != nil {
		return nil, err
	}
	return scanUser(s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE user_id = ?`, userID))
}

// AddPoints atomically adds delta to the user's balance and returns the
// new total. Negative balances are clamped to zero.
func (s *Store) AddPoints(userID string, delta int) (int, error) {
	_, err := s.db.Exec(
		`UPDATE users SET points = MAX(points + ?, 0) WHERE user_id = ?`,
		delta, userID,
	)
	if err != nil {
		return 0, err
	}
	var points int
	err = s.db.QueryRow(`SELECT points FROM users WHERE user_id = ?`, userID).Scan(&points)
	return points, err
}

// IncrMessages atomically bumps the message counter and returns the new count.
func (s *Store) IncrMessages(userID string) (int, error) {
	_, err := s.db.Exec(
		`UPDATE users SET messages_count = messages_count + 1 WHERE user_id = ?`,
		userID,
	)
	if err != nil {
		return 0, err
	}
	var n int
	err = s.db.QueryRow(`SELECT messages_count FROM users WHERE user_id = ?`, userID).Scan(&n)
	return n, err
}

// AddHearts atomically adds to the hearts balance.
func (s *Store) AddHearts(userID string, n int) error {
	_, err := s.db.Exec(
		`UPDATE users SET hearts = MAX(hearts + ?, 0) WHERE user_id = ?`,
		n, userID,
	)
	return err
}

// PromoteLevel raises the primary level, never lowering it.
func (s *Store) PromoteLevel(userID string, level int) error {
	_, err := s.db.Exec(
		`UPDATE users SET level = MAX(level, ?) WHERE user_id = ?`,
		level, userID,
	)
	return err
}

// PromoteRelationship raises the relationship level, never lowering it.
func (s *Store) PromoteRelationship(userID string, level int) error {
	_, err := s.db.Exec(
		`UPDATE users SET relationship_level = MAX(relationship_level, ?) WHERE user_id = ?`,
		level, userID,
	)
	return err
}

// SetStreak records the streak counter together with the day it was
// last advanced.
func (s *Store) SetStreak(userID string, days int, dayKey string) error {
	_, err := s.db.Exec(
		`UPDATE users SET streak_days = ?, last_streak_day = ? WHERE user_id = ?`,
		days, dayKey, userID,
	)
	return err
}

// TouchActiveDay bumps days_active once per distinct calendar day.
func (s *Store) TouchActiveDay(userID string, dayKey string) error {
	_, err := s.db.Exec(
		`UPDATE users SET days_active = days_active + 1, last_active_day = ?
		 WHERE user_id = ? AND last_active_day != ?`,
		dayKey, userID, dayKey,
	)
	return err
}

func (s *Store) SetMood(userID, mood string) error {
	_, err := s.db.Exec(`UPDATE users SET mood = ? WHERE user_id = ?`, mood, userID)
	return err
}

func (s *Store) SetProfile(userID, name, gender string) error {
	_, err := s.db.Exec(
		`UPDATE users SET name = ?, gender = ? WHERE user_id = ?`,
		name, gender, userID,
	)
	return err
}

func (s *Store) SetPersona(userID, persona string) error {
	_, err := s.db.Exec(`UPDATE users SET persona = ? WHERE user_id = ?`, persona, userID)
	return err
}

// CountUsers reports the total number of known users.
func (s *Store) CountUsers() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

// TopUsers returns the highest-point users for the admin stats surface.
func (s *Store) TopUsers(limit int) ([]User, error) {
	rows, err := s.db.Query(
		`SELECT `+userCols+` FROM users ORDER BY points DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		var created string
		if err := rows.Scan(
			&u.ID, &u.Name, &u.Gender, &u.Persona, &u.Points, &u.Level,
			&u.RelationshipLevel, &u.MessagesCount, &u.Hearts, &u.StreakDays,
			&u.LastStreakDay, &u.DaysActive, &u.LastActiveDay, &u.Mood, &created,
		); err != nil {
			return nil, err
		}
		u.CreatedAt, _ = time.Parse("2006-01-02 15:04:05", created)
		out = append(out, u)
	}
	return out, rows.Err()
}

// Close shuts down the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
