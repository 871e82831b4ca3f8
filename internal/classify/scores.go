package classify

import (
	"strings"

	"github.com/jonathan/ats-autofill/internal/fields"
)

// Attribute matches outweigh question-text matches because attributes belong to this one
// input, while question text may describe a whole fieldset.
const (
	AttrWeight     = 10
	QuestionWeight = 1
)

// Scores holds the positive keyword score of each candidate field.
type Scores map[fields.Type]int

// Score counts keyword hits of every field's patterns in the attribute text and the
// question text. Only positive totals are kept.
func Score(attrs, question string) Scores {
	scores := make(Scores)
	for _, field := range fields.All {
		total := 0
		for _, p := range fields.Patterns[field] {
			if strings.Contains(attrs, p) {
				total += AttrWeight
			}
			if strings.Contains(question, p) {
				total += QuestionWeight
			}
		}
		if total > 0 {
			scores[field] = total
		}
	}
	return scores
}

// Best returns the highest-scoring field. Ties go to the field declared first.
func (s Scores) Best() (fields.Type, bool) {
	var best fields.Type
	bestScore := 0
	for _, field := range fields.All {
		score, ok := s[field]
		if !ok || score <= 0 {
			continue
		}
		if score > bestScore {
			best, bestScore = field, score
		}
	}
	return best, bestScore > 0
}
