package engine

import (
	"sync"
	"time"
)

// UserRateLimiter enforces a per-user sliding window on inbound
// messages and blocks offenders for a cooldown period. Check and
// record happen under one lock so two concurrent messages cannot both
// see room under the limit.
type UserRateLimiter struct {
	mu        sync.Mutex
	window    time.Duration
	max       int
	blockFor  time.Duration
	hits      map[string][]time.Time
	blockedAt map[string]time.Time
}

func NewUserRateLimiter(window time.Duration, max int, blockFor time.Duration) *UserRateLimiter {
	return &UserRateLimiter{
		window:    window,
		max:       max,
		blockFor:  blockFor,
		hits:      make(map[string][]time.Time),
		blockedAt: make(map[string]time.Time),
	}
}

// Allow records the message attempt and reports whether it may
// proceed. Exceeding the window blocks the user for the cooldown.
func (l *UserRateLimiter) Allow(userID string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if at, ok := l.blockedAt[userID]; ok {
		if now.Sub(at) < l.blockFor {
			return false
		}
		delete(l.blockedAt, userID)
		delete(l.hits, userID)
	}

	cut := now.Add(-l.window)
	var kept []time.Time
	for _, t := range l.hits[userID] {
		if t.After(cut) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= l.max {
		l.hits[userID] = kept
		l.blockedAt[userID] = now
		return false
	}

	l.hits[userID] = append(kept, now)
	return true
}

// Cleanup drops stale windows and expired blocks. Run periodically so
// idle users do not pin memory.
func (l *UserRateLimiter) Cleanup(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cut := now.Add(-l.window)
	for id, ts := range l.hits {
		var kept []time.Time
		for _, t := range ts {
			if t.After(cut) {
				kept = append(kept, t)
			}
		}
		if len(kept) == 0 {
			delete(l.hits, id)
		} else {
			l.hits[id] = kept
		}
	}
	for id, at := range l.blockedAt {
		if now.Sub(at) >= l.blockFor {
			delete(l.blockedAt, id)
		}
	}
}
