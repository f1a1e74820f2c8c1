package engine

// Achievement is one fixed unlock rule evaluated against progression
// counters.
type Achievement struct {
	ID    string
	Title string
	Check func(points, level, streakDays, messages int) bool
}

// Achievements is the full rule set, in display order. Unlocks are
// diffed against the persisted set by the caller, so evaluating the
// rules repeatedly is harmless.
var Achievements = []Achievement{
	{"first_step", "Первый шаг", func(p, l, s, m int) bool { return m >= 10 }},
	{"good_listener", "Хороший слушатель", func(p, l, s, m int) bool { return m >= 50 }},
	{"chatterbox", "Болтушка", func(p, l, s, m int) bool { return m >= 100 }},
	{"veteran", "Ветеран общения", func(p, l, s, m int) bool { return m >= 500 }},
	{"trust", "Доверие", func(p, l, s, m int) bool { return s >= 5 }},
	{"dedicated", "Преданность", func(p, l, s, m int) bool { return s >= 10 }},
	{"inspirer", "Вдохновитель", func(p, l, s, m int) bool { return p >= 500 }},
	{"millionaire", "Миллионер симпатии", func(p, l, s, m int) bool { return p >= 1000 }},
	{"close_friend", "Близкий друг", func(p, l, s, m int) bool { return l >= 5 }},
	{"soulmate", "Родственная душа", func(p, l, s, m int) bool { return l >= 10 }},
}

// CheckAchievements returns every achievement id earned by the given
// state. Stateless; the caller filters out already-unlocked ids.
func CheckAchievements(points, level, streakDays, messages int) []string {
	var ids []string
	for _, a := range Achievements {
		if a.Check(points, level, streakDays, messages) {
			ids = append(ids, a.ID)
		}
	}
	return ids
}

// AchievementTitle returns the display name for an id, or the id
// itself when unknown.
func AchievementTitle(id string) string {
	for _, a := range Achievements {
		if a.ID == id {
			return a.Title
		}
	}
	return id
}
