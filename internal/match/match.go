// Package match picks the option of a closed-choice widget (select, radio group, custom
// dropdown) that best answers a resolved profile value.
package match

import (
	"strings"

	"github.com/jonathan/ats-autofill/internal/fields"
)

// Option is one candidate answer.
type Option struct {
	Text  string
	Value string
}

// Request describes one matching problem.
type Request struct {
	Options []Option
	// Value is the resolved profile value.
	Value string
	Field fields.Type
	// Question is the inferred question text of the widget, used to recognise a
	// standalone Hispanic/Latino question.
	Question string
}

// Result is the outcome of a match.
type Result struct {
	// Index of the chosen option, or -1.
	Index int
	// HispanicAnswer is set when the widget was a standalone Hispanic/Latino question and
	// an answer was chosen. Such answers often reveal a dependent race question.
	HispanicAnswer bool
	// Strategy names the rule that produced the match.
	Strategy string
}

// Found reports whether an option was chosen.
func (r Result) Found() bool { return r.Index >= 0 }

var none = Result{Index: -1}

type normalized struct {
	text  string
	value string
}

// Match runs the category strategies for req.Field in order and falls back to general
// containment scoring where the category allows it.
func Match(req Request) Result {
	value := norm(req.Value)
	opts := make([]normalized, len(req.Options))
	for i, o := range req.Options {
		opts[i] = normalized{text: norm(o.Text), value: norm(o.Value)}
	}

	if req.Field == fields.State && value != "" {
		if i := matchState(opts, value); i >= 0 {
			return found(i, "state")
		}
	}

	if req.Field == fields.JobSource {
		for i, o := range opts {
			if strings.Contains(o.text, "linkedin") || strings.Contains(o.value, "linkedin") {
				return found(i, "job-source")
			}
		}
	}

	if req.Field.IsAlwaysNo() {
		if i := firstNo(opts); i >= 0 {
			return found(i, "always-no")
		}
	}

	if req.Field.IsYesNo() {
		if value == "yes" {
			if i := firstYes(opts); i >= 0 {
				return found(i, "yes-no")
			}
		} else if i := firstNo(opts); i >= 0 {
			return found(i, "yes-no")
		}
	}

	if req.Field == fields.Veteran {
		if i := matchVeteran(opts, value); i >= 0 {
			return found(i, "veteran")
		}
	}

	if req.Field == fields.Disability {
		if i := matchDisability(opts, value); i >= 0 {
			return found(i, "disability")
		}
	}

	if req.Field == fields.Gender || req.Field == fields.Ethnicity {
		return matchDemographic(opts, value, req.Field, norm(req.Question))
	}

	if i := bestGeneral(opts, value); i >= 0 {
		return found(i, "general")
	}
	return none
}

func found(i int, strategy string) Result {
	return Result{Index: i, Strategy: strategy}
}

func matchState(opts []normalized, value string) int {
	code, name := fields.NormalizeState(value)
	for i, o := range opts {
		if o.text == code || o.text == name || o.value == code || o.value == name {
			return i
		}
	}
	for i, o := range opts {
		if wordMatch(o.text, name) || wordMatch(o.value, name) ||
			strings.HasPrefix(o.text, code+" ") || strings.HasPrefix(o.text, code+"-") {
			return i
		}
	}
	return -1
}

func firstNo(opts []normalized) int {
	return firstAnswer(opts, "no", NoValues)
}

func firstYes(opts []normalized) int {
	return firstAnswer(opts, "yes", YesValues)
}

// firstAnswer prefers option text over option value, since selects commonly carry index
// values ("0", "1") that collide with the boolean aliases.
func firstAnswer(opts []normalized, word string, aliases []string) int {
	for i, o := range opts {
		if hasWordPrefix(o.text, word) {
			return i
		}
	}
	for i, o := range opts {
		if hasWordPrefix(o.value, word) || equalsAny(o.value, aliases) {
			return i
		}
	}
	return -1
}

func matchVeteran(opts []normalized, value string) int {
	if containsAny(value, NotVeteran) || value == "no" {
		for i, o := range opts {
			if containsAny(o.text, NotVeteran) {
				return i
			}
		}
	}
	return containment(opts, value)
}

func matchDisability(opts []normalized, value string) int {
	groups := []struct {
		applies bool
		phrases []string
	}{
		{containsAny(value, DisabilityNoAnswer), DisabilityNoAnswer},
		{containsAny(value, DisabilityYes), DisabilityYes},
		{containsAny(value, DisabilityNo) || value == "no", DisabilityNo},
	}
	for _, g := range groups {
		if !g.applies {
			continue
		}
		for i, o := range opts {
			if containsAny(o.text, g.phrases) {
				return i
			}
		}
	}
	return containment(opts, value)
}

// containment picks the first non-placeholder option whose text contains value or is
// contained in it.
func containment(opts []normalized, value string) int {
	if value == "" {
		return -1
	}
	for i, o := range opts {
		if isPlaceholder(o) {
			continue
		}
		if strings.Contains(o.text, value) || strings.Contains(value, o.text) {
			return i
		}
	}
	return -1
}

func matchDemographic(opts []normalized, value string, field fields.Type, question string) Result {
	if value == "" {
		return none
	}
	if equalsAny(value, DeclineValues) {
		for i, o := range opts {
			if containsAny(o.text, Decline) {
				return found(i, "decline")
			}
		}
		return none
	}

	if field == fields.Ethnicity {
		texts := make([]string, len(opts))
		for i, o := range opts {
			texts[i] = o.text
		}
		if IsHispanicOnlyQuestion(texts, question) {
			if i := answerHispanicQuestion(opts, UserIsHispanic(value)); i >= 0 {
				return Result{Index: i, HispanicAnswer: true, Strategy: "hispanic-question"}
			}
			return none
		}
		if i := FindBestRaceMatch(texts, value); i >= 0 {
			return found(i, "race")
		}
		return none
	}

	for i, o := range opts {
		if isPlaceholder(o) {
			continue
		}
		if wordMatch(o.text, value) || (len(o.text) >= 4 && wordMatch(value, o.text)) ||
			(len(o.value) >= 4 && wordMatch(o.value, value)) {
			return found(i, "gender")
		}
	}
	return none
}

// bestGeneral returns an exact text or value match, else the option with the highest
// containment ratio.
func bestGeneral(opts []normalized, value string) int {
	if value == "" {
		return -1
	}
	best, bestScore := -1, 0.0
	for i, o := range opts {
		if isPlaceholder(o) {
			continue
		}
		if o.text == value || (o.value != "" && o.value == value) {
			return i
		}
		if len(value) > 1 && strings.Contains(o.text, value) {
			if score := float64(len(value)) / float64(len(o.text)); score > bestScore {
				best, bestScore = i, score
			}
		}
		if len(o.text) > 1 && strings.Contains(value, o.text) {
			if score := float64(len(o.text)) / float64(len(value)) * 0.8; score > bestScore {
				best, bestScore = i, score
			}
		}
	}
	return best
}
