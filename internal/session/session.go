// Package session tracks lifetime-scoped per-user sessions for the
// premium interaction modes (roleplay scenarios, hot-pic mode). Every
// session has an explicit TTL; no process-global maps.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Kind is the session mode.
type Kind string

const (
	KindRoleplay Kind = "roleplay"
	KindHotPics  Kind = "hot_pics"
)

// Session is one active premium interaction.
type Session struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	Kind      Kind              `json:"kind"`
	Scenario  string            `json:"scenario,omitempty"`
	State     map[string]string `json:"state,omitempty"`
	StartedAt time.Time         `json:"started_at"`
	ExpiresAt time.Time         `json:"expires_at"`
}

var ErrNotFound = errors.New("session: not found")

// DefaultTTL is how long an idle session survives.
const DefaultTTL = 30 * time.Minute

// Store persists at most one session per user per kind.
type Store interface {
	Put(ctx context.Context, s *Session) error
	Get(ctx context.Context, userID string, kind Kind) (*Session, error)
	Delete(ctx context.Context, userID string, kind Kind) error
	// Sweep drops expired sessions and reports how many were removed.
	// Backends with native expiry may report 0.
	Sweep(ctx context.Context, now time.Time) (int, error)
}

// New builds a session with a fresh id and TTL from now.
func New(userID string, kind Kind, scenario string, now time.Time) *Session {
	return &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Kind:      kind,
		Scenario:  scenario,
		State:     make(map[string]string),
		StartedAt: now,
		ExpiresAt: now.Add(DefaultTTL),
	}
}

// Expired reports whether the session passed its deadline.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Touch extends the session's lifetime from now.
func (s *Session) Touch(now time.Time) {
	s.ExpiresAt = now.Add(DefaultTTL)
}

func (s *Session) marshal() ([]byte, error) {
	return json.Marshal(s)
}

func unmarshalSession(data []byte) (*Session, error) {
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
