package engine

import (
	"regexp"
	"strings"
)

// Category is the interaction class a message falls into. It drives
// the base point value for the turn.
type Category string

const (
	CategoryCompliment Category = "compliment"
	CategoryQuestion   Category = "question"
	CategoryStory      Category = "story"
	CategoryGame       Category = "game"
	CategoryHelp       Category = "help"
	CategoryRude       Category = "rude"
	CategoryIgnore     Category = "ignore"
	CategoryPersonal   Category = "personal"
	CategoryRomantic   Category = "romantic"
	CategorySupport    Category = "support"
)

// rudePatterns is the profanity/insult rule table. Kept as data so the
// rules can be swapped without touching classification logic.
var rudePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(дурак|идиот|тупой|дебил|мудак|сволочь|тварь|сука|блять|хуй|пизда)`),
	regexp.MustCompile(`(?i)\b(отстань|отвали|заткнись|завались|пошёл нахуй|нахрен)`),
	regexp.MustCompile(`(?i)\b(ненавижу|бесишь|раздражаешь|надоел|достал)`),
	regexp.MustCompile(`(?i)\b(урод|уродина|страшная|жирная|дрянь)`),
	regexp.MustCompile(`(?i)\b(заебал|заебала|заебался|заебалась)`),
	regexp.MustCompile(`(?i)\b(говно|дерьмо|хуйня|пиздец)`),
}

// IsRude reports whether the message trips the profanity rules. The
// caller runs this before Classify; a rude message never reaches the
// category classifier.
func IsRude(text string) bool {
	lower := strings.ToLower(text)
	for _, p := range rudePatterns {
		if p.MatchString(lower) {
			return true
		}
	}
	return false
}

var (
	romanticWords = []string{
		"люб", "целую", "обнимаю", "мил", "дорог", "сладк", "нежн",
		"романтичн", "влюб", "сердце", "душ", "поцелуй", "объятия",
	}
	personalWords = []string{
		"секрет", "довер", "личн", "интимн", "приватн", "тайн",
		"расскаж", "подел", "откровенн", "честн", "правд",
	}
	supportWords = []string{
		"поддерж", "помог", "совет", "подскаж", "утеш", "успок",
		"все будет хорошо", "не переживай", "я с тобой", "вместе",
	}
	complimentWords = []string{
		"красив", "мил", "умн", "нрав", "люб", "прекрасн", "замечательн",
		"чудесн", "восхитительн", "обожаю", "обожаешь", "обожает",
		"симпатичн", "привлекательн", "очаровательн", "милашк", "красотк",
	}
	questionWords = []string{"?", "почему", "как", "что", "когда", "где", "зачем"}
	helpWords     = []string{"помог", "подскаж", "совет", "как быть", "что делать"}
)

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// Classify maps a message to its interaction category. Matching is
// case-insensitive substring search in a fixed precedence order;
// reordering the checks changes scoring, so keep them as they are.
func Classify(text string) Category {
	lower := strings.ToLower(text)

	switch {
	case containsAny(lower, romanticWords):
		return CategoryRomantic
	case containsAny(lower, personalWords):
		return CategoryPersonal
	case containsAny(lower, supportWords):
		return CategorySupport
	case containsAny(lower, complimentWords):
		return CategoryCompliment
	case containsAny(lower, questionWords):
		return CategoryQuestion
	case len(strings.Fields(text)) > 20:
		return CategoryStory
	case containsAny(lower, helpWords):
		return CategoryHelp
	}
	return CategoryQuestion
}
