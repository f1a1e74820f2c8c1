// Package memory extracts long-term facts from user messages and
// renders them back into prompt context.
package memory

import (
	"regexp"
	"strings"

	"elysia/internal/store"
)

// ExtractedFact is one candidate fact pulled from a message.
type ExtractedFact struct {
	Type       string
	Content    string
	Confidence float64
}

// factPatterns maps a fact type to its extraction rules. First capture
// group is the fact content.
var factPatterns = map[string][]*regexp.Regexp{
	"job": {
		regexp.MustCompile(`работаю\s+(?:как\s+)?([^,.!?]+)`),
		regexp.MustCompile(`я\s+([^,.!?]*программист[^,.!?]*)`),
		regexp.MustCompile(`моя\s+работа\s+([^,.!?]+)`),
		regexp.MustCompile(`по\s+профессии\s+([^,.!?]+)`),
	},
	"pet": {
		regexp.MustCompile(`у\s+меня\s+(?:есть\s+)?([^,.!?]*собак[аиы]?[^,.!?]*)`),
		regexp.MustCompile(`у\s+меня\s+(?:есть\s+)?([^,.!?]*кот[аиы]?[^,.!?]*)`),
		regexp.MustCompile(`питомец\s+([^,.!?]+)`),
	},
	"hobby": {
		regexp.MustCompile(`увлекаюсь\s+([^,.!?]+)`),
		regexp.MustCompile(`мое\s+хобби\s+([^,.!?]+)`),
		regexp.MustCompile(`в\s+свободное\s+время\s+([^,.!?]+)`),
	},
	"location": {
		regexp.MustCompile(`живу\s+в\s+([^,.!?]+)`),
		regexp.MustCompile(`нахожусь\s+в\s+([^,.!?]+)`),
	},
	"family": {
		regexp.MustCompile(`у\s+меня\s+(?:есть\s+)?([^,.!?]*семья[^,.!?]*)`),
		regexp.MustCompile(`родители\s+([^,.!?]+)`),
	},
	"goal": {
		regexp.MustCompile(`мечтаю\s+([^,.!?]+)`),
		regexp.MustCompile(`планирую\s+([^,.!?]+)`),
		regexp.MustCompile(`стремлюсь\s+([^,.!?]+)`),
	},
	"fear": {
		regexp.MustCompile(`боюсь\s+([^,.!?]+)`),
		regexp.MustCompile(`переживаю\s+из-за\s+([^,.!?]+)`),
	},
	"dream": {
		regexp.MustCompile(`моя\s+мечта\s+([^,.!?]+)`),
		regexp.MustCompile(`хотел\s+бы\s+([^,.!?]+)`),
	},
}

const baseConfidence = 0.8

// ExtractFacts scans a message for personal details. Matches shorter
// than three runes are noise and dropped.
func ExtractFacts(message string) []ExtractedFact {
	lower := strings.ToLower(message)

	var facts []ExtractedFact
	for factType, patterns := range factPatterns {
		for _, p := range patterns {
			for _, m := range p.FindAllStringSubmatch(lower, -1) {
				content := strings.TrimSpace(m[1])
				if len([]rune(content)) <= 2 {
					continue
				}
				facts = append(facts, ExtractedFact{
					Type:       factType,
					Content:    content,
					Confidence: baseConfidence,
				})
			}
		}
	}
	return facts
}

var factTypeNames = map[string]string{
	"job":      "Работа",
	"pet":      "Питомцы",
	"hobby":    "Хобби",
	"location": "Местоположение",
	"family":   "Семья",
	"goal":     "Цели",
	"fear":     "Страхи",
	"dream":    "Мечты",
}

// FormatFacts renders stored facts as the free-text summary embedded
// in the directive. Empty input yields an empty string.
func FormatFacts(facts []store.Fact) string {
	if len(facts) == 0 {
		return ""
	}

	byType := make(map[string][]string)
	var order []string
	for _, f := range facts {
		if _, seen := byType[f.Type]; !seen {
			order = append(order, f.Type)
		}
		byType[f.Type] = append(byType[f.Type], f.Content)
	}

	parts := []string{"Известные факты о пользователе:"}
	for _, t := range order {
		name := factTypeNames[t]
		if name == "" {
			name = t
		}
		parts = append(parts, name+":")
		for _, c := range byType[t] {
			parts = append(parts, "- "+c)
		}
	}
	return strings.Join(parts, "\n")
}
