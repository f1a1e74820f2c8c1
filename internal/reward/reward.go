// Package reward is the point-spend shop: a fixed catalog of
// unlockables with at-most-once purchase semantics.
package reward

import (
	"errors"
	"fmt"

	"elysia/internal/store"
)

// Reward is one catalog entry.
type Reward struct {
	ID          string
	Name        string
	Cost        int
	Description string
}

// Catalog lists every unlockable, cheapest first.
var Catalog = []Reward{
	{"phrases", "Новые фразы и реплики", 100, "Открывает редкие ответы"},
	{"personal_topics", "Личные темы для разговора", 150, "Более интимные и тёплые темы"},
	{"emotions", "Коллекция эмоций", 200, "Разные состояния подруги"},
	{"compatibility_check", "Проверка совместимости", 250, "Оценка вашей связи"},
	{"surprise_letter", "Сюрприз", 300, "Личное письмо"},
}

var ErrUnknownReward = errors.New("reward: unknown reward id")

// ByID looks up a catalog entry.
func ByID(id string) (Reward, bool) {
	for _, r := range Catalog {
		if r.ID == id {
			return r, true
		}
	}
	return Reward{}, false
}

// Shop wraps the store with catalog-aware purchase logic.
type Shop struct {
	store *store.Store
}

func NewShop(s *store.Store) *Shop {
	return &Shop{store: s}
}

// Purchase debits the reward's cost and records the unlock. The store
// enforces the debit and the once-only constraint atomically.
func (s *Shop) Purchase(userID, rewardID string) (receipt string, err error) {
	r, ok := ByID(rewardID)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownReward, rewardID)
	}
	return s.store.PurchaseReward(userID, r.ID, r.Cost)
}

// Owned returns the user's unlocked reward ids.
func (s *Shop) Owned(userID string) ([]string, error) {
	return s.store.Rewards(userID)
}

// Compatibility scores how close the user and the persona are, 0..100.
func Compatibility(points, level, streakDays int) int {
	total := level*8 + min(points/50, 20) + min(streakDays*2, 10) + min(points/100, 5)
	return min(total, 100)
}

// CompatibilityMessage renders the banded description for a score.
func CompatibilityMessage(c int) string {
	switch {
	case c >= 90:
		return fmt.Sprintf("Твоя близость — %d%%! Вы родственные души! 💕✨", c)
	case c >= 80:
		return fmt.Sprintf("Твоя близость — %d%%! Вы очень близки! 💖", c)
	case c >= 70:
		return fmt.Sprintf("Твоя близость — %d%%! У вас отличная связь! 💕", c)
	case c >= 50:
		return fmt.Sprintf("Твоя близость — %d%%! Вы хорошо ладите! 💗", c)
	default:
		return fmt.Sprintf("Твоя близость — %d%%. Всё ещё впереди! 💛", c)
	}
}
