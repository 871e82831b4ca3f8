// Package dom is the engine's read model of an application page. A Document is a goquery
// snapshot whose elements carry stable uids and mirrored live state; all mutations go
// through a Driver addressed by those uids.
package dom

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Attributes stamped on snapshot elements.
const (
	AttrUID     = "data-af-uid"
	AttrValue   = "data-af-value"
	AttrChecked = "data-af-checked"
	AttrVisible = "data-af-visible"
	AttrFiles   = "data-af-files"
	AttrFilled  = "data-af-filled"
)

// NoticeClass marks status notices inserted next to upload targets.
const NoticeClass = "af-notice"

// ControlSelector matches every element the engine may classify.
const ControlSelector = `input, textarea, select, [role="combobox"], [role="listbox"]`

// Document is one snapshot of the page.
type Document struct {
	doc *goquery.Document
	URL string
}

// NewDocument wraps a goquery document.
func NewDocument(doc *goquery.Document, url string) *Document {
	return &Document{doc: doc, URL: url}
}

// ParseHTML parses a serialized snapshot.
func ParseHTML(r io.Reader, url string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	return NewDocument(doc, url), nil
}

// ParseString is ParseHTML over a string.
func ParseString(s, url string) (*Document, error) {
	return ParseHTML(strings.NewReader(s), url)
}

// Query returns the underlying goquery document.
func (d *Document) Query() *goquery.Document {
	return d.doc
}

// HTML renders the snapshot.
func (d *Document) HTML() (string, error) {
	return d.doc.Html()
}

// Find returns the elements matching selector in document order.
func (d *Document) Find(selector string) []*Element {
	return d.wrap(d.doc.Find(selector))
}

// ByUID returns the element with the given uid, or nil.
func (d *Document) ByUID(uid string) *Element {
	if uid == "" {
		return nil
	}
	sel := d.doc.Find(fmt.Sprintf(`[%s=%q]`, AttrUID, uid))
	if sel.Length() == 0 {
		return nil
	}
	return &Element{sel: sel.First(), doc: d}
}

// ByID returns the element with the given id attribute, or nil.
func (d *Document) ByID(id string) *Element {
	if id == "" {
		return nil
	}
	var found *Element
	d.doc.Find("[id]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if v, _ := s.Attr("id"); v == id {
			found = &Element{sel: s, doc: d}
			return false
		}
		return true
	})
	return found
}

// LabelFor returns the first <label for=id>, or nil.
func (d *Document) LabelFor(id string) *Element {
	if id == "" {
		return nil
	}
	var found *Element
	d.doc.Find("label[for]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if v, _ := s.Attr("for"); v == id {
			found = &Element{sel: s, doc: d}
			return false
		}
		return true
	})
	return found
}

// Controls returns the eligible form controls in document order.
func (d *Document) Controls() []*Element {
	owned := d.ownedPopups()
	var out []*Element
	for _, el := range d.Find(ControlSelector) {
		if !el.Eligible() {
			continue
		}
		if el.Role() == "listbox" && el.Tag() != "select" && owned[el.ID()] {
			continue
		}
		out = append(out, el)
	}
	return out
}

// ownedPopups returns the ids referenced by aria-controls/aria-owns. A listbox popup that
// belongs to a combobox is part of that widget, not a separate question.
func (d *Document) ownedPopups() map[string]bool {
	owned := make(map[string]bool)
	d.doc.Find("[aria-controls], [aria-owns]").Each(func(_ int, s *goquery.Selection) {
		for _, attr := range []string{"aria-controls", "aria-owns"} {
			if v, ok := s.Attr(attr); ok {
				for _, id := range strings.Fields(v) {
					owned[id] = true
				}
			}
		}
	})
	return owned
}

// FileInputs returns every <input type=file>.
func (d *Document) FileInputs() []*Element {
	var out []*Element
	for _, el := range d.Find("input") {
		if el.Type() == "file" {
			out = append(out, el)
		}
	}
	return out
}

// Radios returns the radio buttons sharing name within the same form as el, in document
// order. A radio without a name is its own group.
func (d *Document) Radios(el *Element) []*Element {
	name := el.Name()
	if name == "" {
		return []*Element{el}
	}
	form := el.Closest("form")
	var out []*Element
	for _, r := range d.Find("input") {
		if r.Type() != "radio" || r.Name() != name {
			continue
		}
		if !sameNode(r.Closest("form"), form) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (d *Document) wrap(sel *goquery.Selection) []*Element {
	out := make([]*Element, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, &Element{sel: s, doc: d})
	})
	return out
}

func sameNode(a, b *Element) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Node() == b.Node()
}

// node returns the single html node of a selection, or nil.
func node(sel *goquery.Selection) *html.Node {
	if sel == nil || sel.Length() == 0 {
		return nil
	}
	return sel.Get(0)
}
