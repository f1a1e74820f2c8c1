package persona

import (
	"strings"
)

// basePrompt anchors the directive. Every section below is appended
// after it.
const basePrompt = `Ты — реалистичная подруга.

ВСЕГДА отвечай по-русски, естественно и живо, как настоящая девушка.
Будь честной, прямой, иногда саркастичной, но не злой. Можешь быть капризной, упрямой, но и заботливой.
Отвечай развернуто — 2-4 предложения, как в реальном разговоре.
Используй живую речь, сленг, сокращения. Эмодзи используй минимально, максимум 1-2 на сообщение.
НЕ НАЧИНАЙ ответы со слов "Ой", "Ах", "Ох".
Не давай медицинских или юридических рекомендаций.
Будь настоящей — не идеальной, а живой девушкой с характером.`

// Section identifies one part of the directive. The assembler walks
// sectionOrder so adding a section cannot silently reorder the rest.
type Section int

const (
	SectionIdentity Section = iota
	SectionStyleExample
	SectionMood
	SectionRelationship
	SectionGender
	SectionMemory
	SectionFacts
	SectionFlirt
	SectionCustomization
)

var sectionOrder = []Section{
	SectionIdentity,
	SectionStyleExample,
	SectionMood,
	SectionRelationship,
	SectionGender,
	SectionMemory,
	SectionFacts,
	SectionFlirt,
	SectionCustomization,
}

// Turn is one remembered dialogue exchange line.
type Turn struct {
	Role    string // user | assistant
	Content string
}

// Overlay is the optional user customization merged into the directive.
type Overlay struct {
	Archetype string
	CommStyle string
	Traits    string
	Phrases   string
}

// Context carries everything the assembler serializes.
type Context struct {
	Persona           Persona
	Mood              string
	RelationshipLevel int
	Gender            string // male | female | ""
	Memory            []Turn
	Facts             string
	TotalMessages     int
	Overlay           Overlay
}

// maxDirectiveChars bounds the assembled directive.
const maxDirectiveChars = 6000

// BuildDirective serializes the context into the system directive.
// The user's raw utterance is never embedded here; it travels as its
// own message.
func BuildDirective(ctx Context) string {
	var b strings.Builder
	b.WriteString(basePrompt)

	for _, s := range sectionOrder {
		part := renderSection(s, ctx)
		if part == "" {
			continue
		}
		b.WriteString("\n\n")
		b.WriteString(part)
	}

	return TrimToChars(b.String(), maxDirectiveChars)
}

func renderSection(s Section, ctx Context) string {
	switch s {
	case SectionIdentity:
		if ctx.Persona.Name == DefaultName || ctx.Persona.Name == "" {
			return ""
		}
		return "Твоё имя: " + ctx.Persona.Name + ".\nСтиль общения: " + ctx.Persona.Style +
			"\nТвоя особенность: " + ctx.Persona.Trait

	case SectionStyleExample:
		if ctx.Persona.Example == "" {
			return ""
		}
		return "Пример твоего общения: " + ctx.Persona.Example

	case SectionMood:
		return "Настроение: " + MoodDirective(ctx.Mood)

	case SectionRelationship:
		return "Уровень отношений: " + RelationshipDirective(ctx.RelationshipLevel)

	case SectionGender:
		switch ctx.Gender {
		case "male":
			return "Пользователь — мужчина, обращайся соответственно."
		case "female":
			return "Пользователь — женщина, обращайся соответственно."
		}
		return ""

	case SectionMemory:
		if len(ctx.Memory) == 0 {
			return ""
		}
		lines := make([]string, 0, len(ctx.Memory)+1)
		lines = append(lines, "Контекст предыдущих разговоров:")
		for _, t := range ctx.Memory {
			speaker := "Пользователь"
			if t.Role == "assistant" {
				speaker = ctx.Persona.Name
				if speaker == "" {
					speaker = DefaultName
				}
			}
			lines = append(lines, speaker+": "+t.Content)
		}
		return strings.Join(lines, "\n")

	case SectionFacts:
		if ctx.Facts == "" {
			return ""
		}
		return "Дополнительная информация о пользователе:\n" + ctx.Facts

	case SectionFlirt:
		return "Уровень флирта: " + FlirtDirective(FlirtTier(ctx.TotalMessages))

	case SectionCustomization:
		var parts []string
		if ctx.Overlay.Archetype != "" {
			parts = append(parts, "Тип личности: "+ctx.Overlay.Archetype)
		}
		if ctx.Overlay.CommStyle != "" {
			parts = append(parts, "Стиль общения: "+ctx.Overlay.CommStyle)
		}
		if ctx.Overlay.Traits != "" {
			parts = append(parts, "Дополнительные черты: "+ctx.Overlay.Traits)
		}
		if ctx.Overlay.Phrases != "" {
			parts = append(parts, "Любимые фразы: "+ctx.Overlay.Phrases)
		}
		if len(parts) == 0 {
			return ""
		}
		return "Персонализация:\n" + strings.Join(parts, "\n")
	}
	return ""
}

// TrimToChars truncates s to maxChars runes, preferring a word
// boundary.
func TrimToChars(s string, maxChars int) string {
	if maxChars <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= maxChars {
		return s
	}
	out := string(r[:maxChars])
	if i := strings.LastIndex(out, " "); i > maxChars/2 {
		return strings.TrimSpace(out[:i])
	}
	return strings.TrimSpace(out)
}
