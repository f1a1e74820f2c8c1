package persona

import (
	"math/rand"
	"regexp"
	"strings"
)

var (
	leadQuoteRe  = regexp.MustCompile(`^["'«»]+`)
	trailQuoteRe = regexp.MustCompile(`["'«»]+$`)
	selfRefRe    = regexp.MustCompile(`(?i)^(Подруга|Я|Меня зовут)[:.,!]?\s*`)
)

// questionEndings are appended to short replies that contain no
// question, keeping the dialogue going.
var questionEndings = []string{
	" — как дела?",
	" — что думаешь?",
	" — расскажи больше?",
	" — как себя чувствуешь?",
	" — что скажешь?",
}

const (
	maxReplyWords = 120
	maxReplyChars = 500
)

// FormatReply normalizes the raw model output: collapse whitespace,
// strip wrapping quotes and self-references, bound the length and make
// sure short replies end with a hook.
func FormatReply(text string) string {
	reply := strings.Join(strings.Fields(text), " ")
	reply = leadQuoteRe.ReplaceAllString(reply, "")
	reply = trailQuoteRe.ReplaceAllString(reply, "")
	reply = selfRefRe.ReplaceAllString(reply, "")
	reply = strings.TrimSpace(reply)

	words := strings.Fields(reply)
	if len(words) > maxReplyWords {
		reply = strings.Join(words[:maxReplyWords], " ")
	}

	if !strings.Contains(reply, "?") && len([]rune(reply)) < 200 {
		reply += questionEndings[rand.Intn(len(questionEndings))]
	}

	if r := []rune(reply); len(r) > maxReplyChars {
		reply = string(r[:maxReplyChars])
	}
	return reply
}
