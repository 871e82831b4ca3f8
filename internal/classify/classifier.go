// Package classify decides which semantic field, if any, a form control asks for.
package classify

import (
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/ats-autofill/internal/dom"
	"github.com/jonathan/ats-autofill/internal/fields"
	"github.com/jonathan/ats-autofill/internal/profile"
	"github.com/jonathan/ats-autofill/internal/resolve"
)

// Tier names the classification stage that produced a detection.
type Tier string

const (
	TierAutocomplete Tier = "autocomplete"
	TierInputType    Tier = "input-type"
	TierAttribute    Tier = "attribute"
	TierScored       Tier = "scored"
)

// Detection is the classification of one element. An empty Value means the element must
// be left untouched.
type Detection struct {
	Field    fields.Type
	Value    string
	Tier     Tier
	Question string
	Scores   Scores
}

// HasValue reports whether the detection resolved to something writable.
func (d *Detection) HasValue() bool {
	return d != nil && d.Value != ""
}

// demographicKeys are checked in order against the element's own machine attributes.
var demographicKeys = []struct {
	keys  []string
	field fields.Type
}{
	{[]string{"race", "ethnic"}, fields.Ethnicity},
	{[]string{"gender", "sex"}, fields.Gender},
	{[]string{"veteran"}, fields.Veteran},
	{[]string{"disability", "disabled"}, fields.Disability},
	{[]string{"hispanic", "latino"}, fields.Ethnicity},
}

// Classifier classifies form controls against a profile.
type Classifier struct {
	logger *zap.Logger
}

// New creates a classifier. A nil logger discards diagnostics.
func New(logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{logger: logger}
}

// Classify returns the detection for el, or nil when no field matches.
func (c *Classifier) Classify(el *dom.Element, p *profile.Profile) *Detection {
	if hint := el.Autocomplete(); hint != "" {
		if field, ok := fields.AutocompleteHints[hint]; ok {
			return c.detect(el, field, TierAutocomplete, p)
		}
	}

	name := strings.ToLower(el.Name())
	id := strings.ToLower(el.ID())

	switch el.Type() {
	case "email":
		return c.detect(el, fields.Email, TierInputType, p)
	case "tel":
		if strings.Contains(name, "ext") || strings.Contains(id, "ext") {
			return nil
		}
		return c.detect(el, fields.Phone, TierInputType, p)
	}

	attrs := strings.Join([]string{
		name, id,
		strings.ToLower(el.Attr("data-field")),
		strings.ToLower(el.Attr("data-name")),
	}, " ")
	for _, dk := range demographicKeys {
		if containsAny(attrs, dk.keys) {
			return c.detect(el, dk.field, TierAttribute, p)
		}
	}

	question := strings.ToLower(dom.InferQuestionText(el))
	scoredAttrs := strings.Join([]string{
		name, id,
		strings.ToLower(el.Placeholder()),
		strings.ToLower(el.AriaLabel()),
		strings.ToLower(el.Attr("data-field")),
		strings.ToLower(el.Attr("data-name")),
	}, " ")
	searchText := scoredAttrs + " " + question

	scores := Score(scoredAttrs, question)
	fired := ApplyRules(scores, searchText)
	best, ok := scores.Best()
	if !ok {
		return nil
	}

	det := c.detect(el, best, TierScored, p)
	det.Question = question
	det.Scores = scores
	if len(fired) > 0 {
		c.logger.Debug("disambiguation rules fired",
			zap.String("uid", el.UID()), zap.Strings("rules", fired))
	}
	return det
}

func (c *Classifier) detect(el *dom.Element, field fields.Type, tier Tier, p *profile.Profile) *Detection {
	det := &Detection{
		Field: field,
		Value: resolve.Resolve(field, p),
		Tier:  tier,
	}
	c.logger.Debug("classified element",
		zap.String("uid", el.UID()),
		zap.String("field", field.String()),
		zap.String("tier", string(tier)),
		zap.Bool("has_value", det.Value != ""),
	)
	return det
}
