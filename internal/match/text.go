package match

import (
	"regexp"
	"strings"
	"unicode"
)

func norm(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

func equalsAny(text string, values []string) bool {
	for _, v := range values {
		if text == v {
			return true
		}
	}
	return false
}

// hasWordPrefix reports whether text starts with word not followed by a letter, so "no,"
// and "no thanks" start with "no" but "none" does not.
func hasWordPrefix(text, word string) bool {
	if !strings.HasPrefix(text, word) {
		return false
	}
	rest := text[len(word):]
	if rest == "" {
		return true
	}
	r := []rune(rest)[0]
	return !unicode.IsLetter(r)
}

// wordMatch reports whether needle occurs in text on word boundaries.
func wordMatch(text, needle string) bool {
	if needle == "" {
		return false
	}
	re, err := regexp.Compile(`\b` + regexp.QuoteMeta(needle) + `\b`)
	if err != nil {
		return false
	}
	return re.MatchString(text)
}

func isPlaceholder(o normalized) bool {
	if equalsAny(o.text, Placeholders) {
		return true
	}
	if o.value == "" {
		for _, p := range []string{"select", "choose", "please", "--"} {
			if strings.HasPrefix(o.text, p) {
				return true
			}
		}
	}
	return false
}
