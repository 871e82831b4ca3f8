package htmlpage

import (
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/jonathan/ats-autofill/internal/dom"
)

// The helpers below are meant for hooks and timed mutations, which already run inside a
// driver call. Calling them from another goroutine while the engine is running is a race.

// AppendHTML parses fragment and appends it to every element matching selector.
func (p *Page) AppendHTML(selector, fragment string) error {
	sel, err := cascadia.Parse(selector)
	if err != nil {
		return err
	}
	for _, parent := range cascadia.QueryAll(p.root, sel) {
		nodes, err := html.ParseFragment(strings.NewReader(fragment), parent)
		if err != nil {
			return fmt.Errorf("failed to parse fragment: %w", err)
		}
		for _, n := range nodes {
			parent.AppendChild(n)
			p.stamp(n)
		}
	}
	return nil
}

// Reveal removes hiding markup (hidden, data-af-visible=false, inline display:none) from
// elements matching selector.
func (p *Page) Reveal(selector string) error {
	return p.each(selector, func(n *html.Node) {
		removeAttr(n, "hidden")
		removeAttr(n, dom.AttrVisible)
		if style := attr(n, "style"); style != "" {
			cleaned := strings.ReplaceAll(strings.ReplaceAll(style, "display: none", ""), "display:none", "")
			setAttr(n, "style", cleaned)
		}
	})
}

// Hide marks elements matching selector as not rendered.
func (p *Page) Hide(selector string) error {
	return p.each(selector, func(n *html.Node) {
		setAttr(n, dom.AttrVisible, "false")
	})
}

// Remove detaches elements matching selector.
func (p *Page) Remove(selector string) error {
	return p.each(selector, func(n *html.Node) {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	})
}

// SetAttr sets an attribute on elements matching selector.
func (p *Page) SetAttr(selector, name, value string) error {
	return p.each(selector, func(n *html.Node) {
		setAttr(n, name, value)
	})
}

// ClearFiles empties a file input, as host pages that reject synthetic files do.
func (p *Page) ClearFiles(n *html.Node) {
	p.setFiles(n, nil)
}

func (p *Page) each(selector string, fn func(n *html.Node)) error {
	sel, err := cascadia.Parse(selector)
	if err != nil {
		return err
	}
	for _, n := range cascadia.QueryAll(p.root, sel) {
		fn(n)
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	out := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Key != key {
			out = append(out, a)
		}
	}
	n.Attr = out
}

func walk(n *html.Node, fn func(*html.Node)) {
	if n.Type == html.ElementNode {
		fn(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func findFirst(n *html.Node, pred func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && pred(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, pred); found != nil {
			return found
		}
	}
	return nil
}

func closest(n *html.Node, a atom.Atom) *html.Node {
	for c := n; c != nil; c = c.Parent {
		if c.Type == html.ElementNode && c.DataAtom == a {
			return c
		}
	}
	return nil
}

func isFileInput(n *html.Node) bool {
	return n.DataAtom == atom.Input && strings.EqualFold(attr(n, "type"), "file")
}

func isNotice(n *html.Node) bool {
	for _, class := range strings.Fields(attr(n, "class")) {
		if class == dom.NoticeClass {
			return true
		}
	}
	return false
}

func hasOptionValue(sel *html.Node, value string) bool {
	found := false
	walk(sel, func(n *html.Node) {
		if n.DataAtom != atom.Option {
			return
		}
		v := attr(n, "value")
		hasValue := false
		for _, a := range n.Attr {
			if a.Key == "value" {
				hasValue = true
			}
		}
		if !hasValue {
			v = strings.Join(strings.Fields(textOf(n)), " ")
		}
		if v == value {
			found = true
		}
	})
	return found
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var rec func(*html.Node)
	rec = func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
		for k := c.FirstChild; k != nil; k = k.NextSibling {
			rec(k)
		}
	}
	rec(n)
	return b.String()
}
