package dom

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	maxLabelLen     = 300
	minQuestionLen  = 10
	maxQuestionLen  = 500
	questionDepth   = 15
	contextDepth    = 5
	contextLabelSet = "label legend h3 h4 p"
)

var interrogative = regexp.MustCompile(`(?i)^(do|are|can|will|have|what|how|which|when|would|should|may)\s`)

// InferQuestionText returns the natural-language question a control answers. It prefers a
// short associated label, then a wrapping label, then question-like prose near the control,
// and finally falls back to FieldContext.
func InferQuestionText(e *Element) string {
	if label := e.doc.LabelFor(e.ID()); label != nil {
		text := label.Text()
		if strings.HasSuffix(text, "?") || runeLen(text) < maxLabelLen {
			return text
		}
	}

	if label := e.Closest("label"); label != nil {
		text := label.Text()
		if runeLen(text) < maxLabelLen {
			return text
		}
	}

	parent := e.Parent()
	for i := 0; i < questionDepth && parent != nil; i++ {
		for _, child := range parent.Children() {
			if child.Contains(e) {
				continue
			}
			text := child.Text()
			if !strings.HasSuffix(text, "?") && !interrogative.MatchString(text) {
				continue
			}
			if n := runeLen(text); n > minQuestionLen && n < maxQuestionLen {
				return text
			}
		}
		parent = parent.Parent()
	}

	return FieldContext(e)
}

// FieldContext collects lowercase label-like text around a control: its labels and, from
// the nearest ancestor that has any, sibling label/legend/heading/paragraph text.
func FieldContext(e *Element) string {
	var b strings.Builder
	if label := e.doc.LabelFor(e.ID()); label != nil {
		b.WriteString(" " + strings.ToLower(label.Text()))
	}
	if label := e.Closest("label"); label != nil {
		b.WriteString(" " + strings.ToLower(label.Text()))
	}

	parent := e.Parent()
	for i := 0; i < contextDepth && parent != nil; i++ {
		for _, child := range parent.Children() {
			if child.Contains(e) {
				continue
			}
			if strings.Contains(" "+contextLabelSet+" ", " "+child.Tag()+" ") {
				b.WriteString(" " + strings.ToLower(child.Text()))
			}
		}
		if strings.TrimSpace(b.String()) != "" {
			break
		}
		parent = parent.Parent()
	}
	return b.String()
}

// LabelText returns the lowercase label text of a radio or checkbox: its for-label, its
// wrapping label, and the first label-like element of its enclosing block.
func LabelText(e *Element) string {
	var b strings.Builder
	if label := e.doc.LabelFor(e.ID()); label != nil {
		b.WriteString(strings.ToLower(label.Text()))
	}
	if label := e.Closest("label"); label != nil {
		b.WriteString(" " + strings.ToLower(label.Text()))
	}
	if block := e.Closest("div, fieldset, section, li"); block != nil {
		if found := block.Find("label, legend, h3, h4, .label, span"); len(found) > 0 {
			b.WriteString(" " + strings.ToLower(found[0].Text()))
		}
	}
	return b.String()
}

// OwnLabel returns the text naming a single choice: its for-label or wrapping label,
// falling back to its value.
func OwnLabel(e *Element) string {
	if label := e.doc.LabelFor(e.ID()); label != nil {
		if t := label.Text(); t != "" {
			return t
		}
	}
	if label := e.Closest("label"); label != nil {
		if t := label.Text(); t != "" {
			return t
		}
	}
	return e.Attr("value")
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
