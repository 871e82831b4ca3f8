package classify

import (
	"strings"

	"github.com/jonathan/ats-autofill/internal/fields"
)

// Rule removes candidate fields when the search text meets its precondition.
type Rule struct {
	Name string
	// Any fires the rule when the text contains any of these fragments.
	Any []string
	// Unless vetoes the rule when the text contains any of these fragments.
	Unless []string
	// Always fires the rule regardless of the text.
	Always bool
	Drop   []fields.Type
}

// Applies reports whether the rule fires for text.
func (r Rule) Applies(text string) bool {
	if r.Always {
		return true
	}
	return containsAny(text, r.Any) && !containsAny(text, r.Unless)
}

// Rules is the disambiguation rule set. Each rule is independent of the others.
var Rules = []Rule{
	{
		Name: "named-part",
		Any:  []string{"first", "last", "given", "family"},
		Drop: []fields.Type{fields.FullName},
	},
	{
		Name: "address-line-2",
		Any:  []string{"line_2", "line2", "address2", "apt", "suite", "unit", "apartment"},
		Drop: []fields.Type{fields.StreetAddress},
	},
	{
		Name: "phone-extension",
		Any:  []string{"ext", "extension"},
		Drop: []fields.Type{fields.Phone},
	},
	{
		Name: "immigration-context",
		Any: []string{"visa", "immigration", "sponsor", "nonimmigrant", "cpt", "opt",
			"work authorization", "employment eligibility"},
		Drop: []fields.Type{fields.School},
	},
	{
		Name: "not-a-state",
		Any:  []string{"statement", "stated", "united states"},
		Drop: []fields.Type{fields.State},
	},
	{
		Name:   "state-not-country",
		Any:    []string{"state", "province"},
		Unless: []string{"country", "nation"},
		Drop:   []fields.Type{fields.Country},
	},
	{
		Name: "relocation-assistance",
		Any:  []string{"assistance", "package", "support", "stipend", "allowance", "reimbursement"},
		Drop: []fields.Type{fields.Relocate},
	},
	{
		Name: "other-profile-link",
		Any: []string{"twitter", "x.com", "x profile", "facebook", "instagram", "tiktok",
			"other website", "other url", "other link", "additional url", "additional link", "additional website"},
		Drop: []fields.Type{fields.Website, fields.LinkedIn, fields.GitHub},
	},
	{
		Name:   "locality-not-street",
		Any:    []string{"city", "town", "zip", "postal", "country"},
		Unless: []string{"street", "address_1"},
		Drop:   []fields.Type{fields.StreetAddress},
	},
	{
		Name:   "years-of-experience",
		Always: true,
		Drop:   []fields.Type{fields.YearsExp},
	},
}

// ApplyRules deletes the candidates suppressed by Rules from scores. text is the
// lowercase search corpus.
func ApplyRules(scores Scores, text string) []string {
	var fired []string
	for _, rule := range Rules {
		if !rule.Applies(text) {
			continue
		}
		dropped := false
		for _, f := range rule.Drop {
			if _, ok := scores[f]; ok {
				delete(scores, f)
				dropped = true
			}
		}
		if dropped {
			fired = append(fired, rule.Name)
		}
	}
	return fired
}

func containsAny(text string, fragments []string) bool {
	for _, f := range fragments {
		if strings.Contains(text, f) {
			return true
		}
	}
	return false
}
