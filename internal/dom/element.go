package dom

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Element is one node of a snapshot.
type Element struct {
	sel *goquery.Selection
	doc *Document
}

// Option is one choice of a closed-choice widget.
type Option struct {
	Text  string
	Value string
	UID   string
}

// Selection returns the underlying goquery selection.
func (e *Element) Selection() *goquery.Selection { return e.sel }

// Document returns the snapshot the element belongs to.
func (e *Element) Document() *Document { return e.doc }

// Node returns the underlying html node.
func (e *Element) Node() *html.Node { return node(e.sel) }

// UID returns the stable element id stamped by the driver.
func (e *Element) UID() string { return e.Attr(AttrUID) }

// Tag returns the lowercase tag name.
func (e *Element) Tag() string { return strings.ToLower(goquery.NodeName(e.sel)) }

// Attr returns the attribute value, or "".
func (e *Element) Attr(name string) string {
	v, _ := e.sel.Attr(name)
	return v
}

// HasAttr reports whether the attribute is present.
func (e *Element) HasAttr(name string) bool {
	_, ok := e.sel.Attr(name)
	return ok
}

// Type returns the lowercase input type ("text" when absent), or "" for non-inputs.
func (e *Element) Type() string {
	if e.Tag() != "input" {
		return ""
	}
	t := strings.ToLower(strings.TrimSpace(e.Attr("type")))
	if t == "" {
		return "text"
	}
	return t
}

func (e *Element) Name() string        { return e.Attr("name") }
func (e *Element) ID() string          { return e.Attr("id") }
func (e *Element) Role() string        { return strings.ToLower(e.Attr("role")) }
func (e *Element) Placeholder() string { return e.Attr("placeholder") }
func (e *Element) AriaLabel() string   { return e.Attr("aria-label") }

func (e *Element) Autocomplete() string {
	return strings.ToLower(strings.TrimSpace(e.Attr("autocomplete")))
}

func (e *Element) Class() string  { return e.Attr("class") }
func (e *Element) Disabled() bool { return e.HasAttr("disabled") }
func (e *Element) ReadOnly() bool { return e.HasAttr("readonly") }

// Value returns the live value: the mirrored property when present, else the markup value.
func (e *Element) Value() string {
	if e.HasAttr(AttrValue) {
		return e.Attr(AttrValue)
	}
	switch e.Tag() {
	case "textarea":
		return e.sel.Text()
	case "select":
		opts := e.sel.Find("option")
		selected := opts.FilterFunction(func(_ int, s *goquery.Selection) bool {
			_, ok := s.Attr("selected")
			return ok
		})
		if selected.Length() > 0 {
			return optionValue(selected.First())
		}
		if opts.Length() > 0 {
			return optionValue(opts.First())
		}
		return ""
	}
	return e.Attr("value")
}

// Checked reports the live checked state of a checkbox or radio.
func (e *Element) Checked() bool {
	if e.HasAttr(AttrChecked) {
		return e.Attr(AttrChecked) == "true"
	}
	return e.HasAttr("checked")
}

// FileCount returns the number of files the input reports.
func (e *Element) FileCount() int {
	n := 0
	for _, c := range e.Attr(AttrFiles) {
		if c < '0' || c > '9' {
			return 0
		}
		n = n*10 + int(c-'0')
	}
	return n
}

// Visible reports whether the element is rendered. A mirrored visibility attribute on the
// element is authoritative; otherwise hidden markup on it or any ancestor hides it.
func (e *Element) Visible() bool {
	if v, ok := e.sel.Attr(AttrVisible); ok {
		return v != "false"
	}
	for n := e.Node(); n != nil; n = n.Parent {
		if n.Type != html.ElementNode {
			continue
		}
		if nodeHidden(n) {
			return false
		}
	}
	return true
}

func nodeHidden(n *html.Node) bool {
	for _, a := range n.Attr {
		switch a.Key {
		case "hidden":
			return true
		case AttrVisible:
			if a.Val == "false" {
				return true
			}
		case "style":
			style := strings.ReplaceAll(strings.ToLower(a.Val), " ", "")
			if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
				return true
			}
		}
	}
	return false
}

// Eligible reports whether the element is a control the engine may classify and write.
func (e *Element) Eligible() bool {
	switch e.Type() {
	case "hidden", "submit", "button", "file", "reset", "image":
		return false
	}
	return !e.Disabled() && !e.ReadOnly()
}

// Text returns the whitespace-collapsed text content.
func (e *Element) Text() string {
	return collapse(e.sel.Text())
}

// Parent returns the parent element, or nil at the root.
func (e *Element) Parent() *Element {
	p := e.sel.Parent()
	if p.Length() == 0 {
		return nil
	}
	return &Element{sel: p, doc: e.doc}
}

// Children returns the element children.
func (e *Element) Children() []*Element {
	return e.doc.wrap(e.sel.Children())
}

// Closest returns the nearest ancestor-or-self matching selector, or nil.
func (e *Element) Closest(selector string) *Element {
	c := e.sel.Closest(selector)
	if c.Length() == 0 {
		return nil
	}
	return &Element{sel: c, doc: e.doc}
}

// Find returns descendants matching selector.
func (e *Element) Find(selector string) []*Element {
	return e.doc.wrap(e.sel.Find(selector))
}

// Contains reports whether other is e or one of its descendants.
func (e *Element) Contains(other *Element) bool {
	if other == nil {
		return false
	}
	target := other.Node()
	for n := target; n != nil; n = n.Parent {
		if n == e.Node() {
			return true
		}
	}
	return false
}

// Is reports whether both wrap the same node.
func (e *Element) Is(other *Element) bool {
	return other != nil && e.Node() == other.Node()
}

// Filled reports whether the element carries the filled marker of the given run.
func (e *Element) Filled(runID string) bool {
	return runID != "" && e.Attr(AttrFilled) == runID
}

// Options returns the choices of a native select.
func (e *Element) Options() []Option {
	var out []Option
	e.sel.Find("option").Each(func(_ int, s *goquery.Selection) {
		uid, _ := s.Attr(AttrUID)
		out = append(out, Option{Text: collapse(s.Text()), Value: optionValue(s), UID: uid})
	})
	return out
}

func optionValue(s *goquery.Selection) string {
	if v, ok := s.Attr("value"); ok {
		return v
	}
	return collapse(s.Text())
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
