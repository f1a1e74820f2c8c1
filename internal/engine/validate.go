package engine

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

// maxMessageLength bounds user input before it touches any state.
const maxMessageLength = 1000

var ErrInvalidMessage = errors.New("engine: invalid message")

var (
	injectionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?is)<script.*?>.*?</script>`),
		regexp.MustCompile(`(?i)javascript:`),
		regexp.MustCompile(`(?i)data:text/html`),
		regexp.MustCompile(`(?i)vbscript:`),
		regexp.MustCompile(`(?i)on\w+\s*=`),
	}
	urlPattern = regexp.MustCompile(`https?://\S+`)
)

// hasRepeatedRun reports a run of the same rune longer than limit,
// the cheap spam signal.
func hasRepeatedRun(s string, limit int) bool {
	var prev rune
	run := 0
	for _, r := range s {
		if r == prev {
			run++
			if run > limit {
				return true
			}
		} else {
			prev, run = r, 1
		}
	}
	return false
}

// ValidateMessage rejects oversized, empty or hostile input. It runs
// before any scoring or state mutation, so a rejected message leaves
// no side effects.
func ValidateMessage(text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ErrInvalidMessage
	}
	if utf8.RuneCountInString(text) > maxMessageLength {
		return ErrInvalidMessage
	}
	for _, p := range injectionPatterns {
		if p.MatchString(text) {
			return ErrInvalidMessage
		}
	}
	if hasRepeatedRun(text, 10) || urlPattern.MatchString(text) {
		return ErrInvalidMessage
	}
	return nil
}
