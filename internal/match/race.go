package match

import (
	"strings"

	"github.com/jonathan/ats-autofill/internal/fields"
)

// ExactCategoryBonus rewards an option that is, or starts with, the canonical category.
const ExactCategoryBonus = 100

// Category returns the canonical ethnicity category value maps to, or nil.
func Category(value string) *fields.EthnicityCategory {
	v := norm(value)
	if v == "" {
		return nil
	}
	for i := range fields.EthnicityCategories {
		c := &fields.EthnicityCategories[i]
		if v == c.Name {
			return c
		}
		for _, alias := range c.Aliases {
			if strings.Contains(v, alias) || strings.Contains(alias, v) {
				return c
			}
		}
	}
	return nil
}

// UserIsHispanic reports whether a profile ethnicity value denotes Hispanic/Latino.
func UserIsHispanic(value string) bool {
	v := norm(value)
	if containsAny(v, HispanicMarkers) {
		return true
	}
	c := Category(v)
	return c != nil && c.Name == fields.HispanicOrLatino
}

// FindBestRaceMatch returns the index of the race option best matching value, or -1 when
// value maps to no category or every option scores zero. Options whose Hispanic polarity
// contradicts the user's are never chosen.
func FindBestRaceMatch(texts []string, value string) int {
	cat := Category(value)
	if cat == nil {
		return -1
	}
	userHispanic := cat.Name == fields.HispanicOrLatino
	aliases := append([]string{cat.Name}, cat.Aliases...)

	best, bestScore := -1, 0
	for i, raw := range texts {
		text := norm(raw)
		if equalsAny(text, Placeholders) {
			continue
		}
		negated := containsAny(text, raceNegations)
		affirmative := containsAny(text, HispanicMarkers) && !negated
		if !userHispanic && affirmative {
			continue
		}
		if userHispanic && negated {
			continue
		}

		score := 0
		for _, alias := range aliases {
			if strings.Contains(alias, "asian") {
				if wordMatch(text, alias) {
					score += len(alias) * 10
				}
			} else if strings.Contains(text, alias) {
				score += len(alias)
			}
		}
		if text == cat.Name || strings.HasPrefix(text, cat.Name) {
			score += ExactCategoryBonus
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

// IsHispanicOnlyQuestion reports whether a closed-choice widget asks only whether the
// applicant is Hispanic/Latino rather than for a full race category: either the question
// mentions Hispanic/Latino and the options are yes/no, or the options mention
// Hispanic/Latino and no other race.
func IsHispanicOnlyQuestion(texts []string, question string) bool {
	hasYesNo, hasHispanic, hasOtherRace := false, false, false
	for _, raw := range texts {
		t := norm(raw)
		if t == "yes" || t == "no" {
			hasYesNo = true
		}
		if containsAny(t, HispanicMarkers) {
			hasHispanic = true
		}
		if (strings.Contains(t, "asian") && !strings.Contains(t, "caucasian")) || containsAny(t, fields.OtherRaceMarkers) {
			hasOtherRace = true
		}
	}
	byQuestion := containsAny(norm(question), HispanicMarkers)
	return (byQuestion && hasYesNo) || (hasHispanic && !hasOtherRace)
}

func answerHispanicQuestion(opts []normalized, userHispanic bool) int {
	if userHispanic {
		for i, o := range opts {
			if o.text == "yes" || strings.HasPrefix(o.text, "yes,") || strings.HasPrefix(o.text, "yes ") {
				return i
			}
			if containsAny(o.text, HispanicMarkers) && o.text != "no" &&
				!strings.Contains(o.text, "not ") && !strings.Contains(o.text, "non-") && !strings.Contains(o.text, "non ") {
				return i
			}
		}
		return -1
	}
	for i, o := range opts {
		if o.text == "no" || strings.HasPrefix(o.text, "no,") || strings.HasPrefix(o.text, "no ") {
			return i
		}
		if containsAny(o.text, NotHispanicMarkers) {
			return i
		}
	}
	for i, o := range opts {
		if containsAny(o.text, Decline) {
			return i
		}
	}
	return -1
}
