package store

import "database/sql"

// ChatMessage is one stored turn of the dialogue.
type ChatMessage struct {
	Role    string // user | assistant
	Content string
}

// AppendMessage stores one dialogue turn.
func (s *Store) AppendMessage(userID, role, content string) error {
	_, err := s.db.Exec(
		`INSERT INTO messages (user_id, role, content) VALUES (?, ?, ?)`,
		userID, role, content,
	)
	return err
}

// RecentMessages returns the last n turns in chronological order.
func (s *Store) RecentMessages(userID string, n int) ([]ChatMessage, error) {
	rows, err := s.db.Query(
		`SELECT role, content FROM (
			SELECT id, role, content FROM messages
			WHERE user_id = ? ORDER BY id DESC LIMIT ?
		 ) ORDER BY id ASC`,
		userID, n,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ChatMessage
	for rows.Next() {
		var m ChatMessage
		if err := rows.Scan(&m.Role, &m.Content); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Fact is one long-term extracted detail about the user.
type Fact struct {
	Type         string
	Content      string
	Confidence   float64
	MentionCount int
}

// UpsertFact records an extracted fact. A repeated mention of the same
// fact bumps mention_count and keeps the higher confidence instead of
// duplicating the row.
func (s *Store) UpsertFact(userID, factType, content string, confidence float64) error {
	_, err := s.db.Exec(
		`INSERT INTO facts (user_id, fact_type, content, confidence) VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id, fact_type, content) DO UPDATE SET
		   mention_count = mention_count + 1,
		   confidence = MAX(confidence, excluded.confidence),
		   last_seen = datetime('now')`,
		userID, factType, content, confidence,
	)
	return err
}

// Facts returns the user's stored facts, most mentioned first.
func (s *Store) Facts(userID string) ([]Fact, error) {
	rows, err := s.db.Query(
		`SELECT fact_type, content, confidence, mention_count FROM facts
		 WHERE user_id = ? ORDER BY mention_count DESC, last_seen DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var facts []Fact
	for rows.Next() {
		var f Fact
		if err := rows.Scan(&f.Type, &f.Content, &f.Confidence, &f.MentionCount); err != nil {
			return nil, err
		}
		facts = append(facts, f)
	}
	return facts, rows.Err()
}

// Personalization is the optional user-tuned overlay for the persona.
type Personalization struct {
	Archetype string
	CommStyle string
	Traits    string
	Phrases   string
}

// GetPersonalization returns the overlay, empty if never set.
func (s *Store) GetPersonalization(userID string) (*Personalization, error) {
	var p Personalization
	err := s.db.QueryRow(
		`SELECT archetype, comm_style, traits, phrases FROM personalization WHERE user_id = ?`,
		userID,
	).Scan(&p.Archetype, &p.CommStyle, &p.Traits, &p.Phrases)
	if err == sql.ErrNoRows {
		return &Personalization{}, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SetPersonalization replaces the user's overlay.
func (s *Store) SetPersonalization(userID string, p Personalization) error {
	_, err := s.db.Exec(
		`INSERT INTO personalization (user_id, archetype, comm_style, traits, phrases)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		   archetype = excluded.archetype, comm_style = excluded.comm_style,
		   traits = excluded.traits, phrases = excluded.phrases`,
		userID, p.Archetype, p.CommStyle, p.Traits, p.Phrases,
	)
	return err
}
