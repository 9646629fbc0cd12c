package evaluate

import (
	"regexp"
	"strings"
)

// giveUpKeywords are the traditional ways to concede a riddle round.
var giveUpKeywords = []string{"gitore", "ngicyo"}

// IsGiveUp reports whether answer concedes the challenge. The check is a
// case-insensitive substring match so "Ndatsinzwe, gitore!" counts too.
func IsGiveUp(answer string) bool {
	lower := strings.ToLower(answer)
	for _, keyword := range giveUpKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

var (
	punctuation = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
	whitespace  = regexp.MustCompile(`\s+`)
)

// Normalize lowercases s, strips punctuation and collapses whitespace so
// "  Amazi! " and "amazi" compare equal.
func Normalize(s string) string {
	s = punctuation.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, " ")
	return strings.ToLower(strings.TrimSpace(s))
}
