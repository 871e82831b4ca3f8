// Package htmlpage is an in-process page implementing dom.Driver over an x/net/html node
// tree. It records every dispatched event and lets callers script host-page behaviour
// (revealing questions, clearing file inputs, opening listboxes) through hooks and timed
// mutations. Tests and the offline preview command drive the engine against it.
package htmlpage

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/jonathan/ats-autofill/internal/dom"
)

// Clock supplies the current time for timed mutations.
type Clock interface {
	Now() time.Time
}

// Event is one dispatched DOM event.
type Event struct {
	UID  string
	ID   string
	Type string
}

// Hook reacts to an event dispatched on a matching element.
type Hook func(p *Page, target *html.Node)

type hook struct {
	sel   cascadia.Sel
	event string
	fn    Hook
}

type timed struct {
	due time.Time
	seq int
	fn  func(p *Page)
}

// Page is an in-memory document.
type Page struct {
	mu        sync.Mutex
	root      *html.Node
	url       string
	nextUID   int
	events    []Event
	hooks     []hook
	timers    []timed
	timerSeq  int
	clock     Clock
	files     map[*html.Node][]dom.File
	reject    map[*html.Node]bool
	downloads []dom.File
	inHook    bool
}

// Option configures a Page.
type Option func(*Page)

// WithClock drives timed mutations from c.
func WithClock(c Clock) Option {
	return func(p *Page) { p.clock = c }
}

// New parses src into a page served at url.
func New(src, url string, opts ...Option) (*Page, error) {
	root, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}
	p := &Page{
		root:   root,
		url:    url,
		clock:  systemClock{},
		files:  make(map[*html.Node][]dom.File),
		reject: make(map[*html.Node]bool),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.stamp(root)
	return p, nil
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// On registers fn to run after event is dispatched on any element matching selector.
func (p *Page) On(selector, event string, fn Hook) error {
	sel, err := cascadia.Parse(selector)
	if err != nil {
		return fmt.Errorf("invalid hook selector %q: %w", selector, err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hooks = append(p.hooks, hook{sel: sel, event: event, fn: fn})
	return nil
}

// After schedules fn to mutate the page once d has elapsed on the page clock. Due mutations
// are applied lazily, before the next driver call observes the page.
func (p *Page) After(d time.Duration, fn func(p *Page)) {
	p.timerSeq++
	p.timers = append(p.timers, timed{due: p.clock.Now().Add(d), seq: p.timerSeq, fn: fn})
}

// RejectFiles makes file assignment on elements matching selector fail.
func (p *Page) RejectFiles(selector string) error {
	sel, err := cascadia.Parse(selector)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, n := range cascadia.QueryAll(p.root, sel) {
		p.reject[n] = true
	}
	return nil
}

// Events returns a copy of the event log.
func (p *Page) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Event(nil), p.events...)
}

// EventsFor returns the event types dispatched on the element with the given id.
func (p *Page) EventsFor(id string) []string {
	var out []string
	for _, ev := range p.Events() {
		if ev.ID == id {
			out = append(out, ev.Type)
		}
	}
	return out
}

// Downloads returns the files saved through Download.
func (p *Page) Downloads() []dom.File {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]dom.File(nil), p.downloads...)
}

// Files returns the files currently held by the element with the given id.
func (p *Page) Files(id string) []dom.File {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := p.byID(id)
	if n == nil {
		return nil
	}
	return append([]dom.File(nil), p.files[n]...)
}

// HTML renders the current page.
func (p *Page) HTML() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.applyDue()
	var buf bytes.Buffer
	if err := html.Render(&buf, p.root); err != nil {
		return "", fmt.Errorf("failed to render page: %w", err)
	}
	return buf.String(), nil
}

// Snapshot implements dom.Driver.
func (p *Page) Snapshot(ctx context.Context) (*dom.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	src, err := p.HTML()
	if err != nil {
		return nil, err
	}
	return dom.ParseString(src, p.url)
}

// SetValue implements dom.Driver.
func (p *Page) SetValue(ctx context.Context, uid, value string) error {
	return p.mutate(ctx, uid, func(n *html.Node) error {
		switch n.DataAtom {
		case atom.Input, atom.Textarea:
		case atom.Select:
			if !hasOptionValue(n, value) {
				value = ""
			}
		default:
			return fmt.Errorf("element %s is not a value control", uid)
		}
		setAttr(n, dom.AttrValue, value)
		p.dispatch(n, "focus", "input", "change", "blur")
		return nil
	})
}

// SetChecked implements dom.Driver.
func (p *Page) SetChecked(ctx context.Context, uid string, checked bool) error {
	return p.mutate(ctx, uid, func(n *html.Node) error {
		typ := strings.ToLower(attr(n, "type"))
		if n.DataAtom != atom.Input || (typ != "checkbox" && typ != "radio") {
			return fmt.Errorf("element %s is not checkable", uid)
		}
		if typ == "radio" && checked {
			for _, other := range p.radioGroup(n) {
				setAttr(other, dom.AttrChecked, "false")
			}
		}
		setAttr(n, dom.AttrChecked, strconv.FormatBool(checked))
		p.dispatch(n, "focus", "input", "change", "blur")
		return nil
	})
}

// Click implements dom.Driver.
func (p *Page) Click(ctx context.Context, uid string) error {
	return p.mutate(ctx, uid, func(n *html.Node) error {
		p.dispatch(n, "focus", "mousedown", "mouseup", "click")
		return nil
	})
}

// ClickOption implements dom.Driver.
func (p *Page) ClickOption(ctx context.Context, uid string) error {
	return p.mutate(ctx, uid, func(n *html.Node) error {
		p.dispatch(n, "scrollintoview", "mousedown", "mouseup", "click")
		return nil
	})
}

// AttachFile implements dom.Driver.
func (p *Page) AttachFile(ctx context.Context, uid string, f dom.File) error {
	return p.mutate(ctx, uid, func(n *html.Node) error {
		if !isFileInput(n) {
			return fmt.Errorf("element %s is not a file input", uid)
		}
		if p.reject[n] {
			return fmt.Errorf("failed to set files on input %s", uid)
		}
		p.setFiles(n, []dom.File{f})
		p.dispatch(n, "focus", "change", "input", "filechange", "change")
		if form := closest(n, atom.Form); form != nil {
			p.dispatch(form, "change")
		}
		p.dispatch(n, "blur")
		return nil
	})
}

// FileCount implements dom.Driver.
func (p *Page) FileCount(ctx context.Context, uid string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.applyDue()
	n := p.byUID(uid)
	if n == nil {
		return 0, fmt.Errorf("element %s not found", uid)
	}
	return len(p.files[n]), nil
}

// DropFile implements dom.Driver.
func (p *Page) DropFile(ctx context.Context, uid string, f dom.File) error {
	return p.mutate(ctx, uid, func(n *html.Node) error {
		p.dispatch(n, "dragenter", "dragover", "drop", "dragleave")
		if input := findFirst(n, isFileInput); input != nil && !p.reject[input] {
			p.setFiles(input, []dom.File{f})
			p.dispatch(input, "change")
		}
		return nil
	})
}

// InsertNotice implements dom.Driver.
func (p *Page) InsertNotice(ctx context.Context, uid string, notice dom.Notice) error {
	return p.mutate(ctx, uid, func(n *html.Node) error {
		parent := n.Parent
		if parent == nil {
			return fmt.Errorf("element %s has no parent", uid)
		}
		if existing := findFirst(parent, isNotice); existing != nil && existing.Parent != nil {
			existing.Parent.RemoveChild(existing)
		}
		div := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
		setAttr(div, "class", dom.NoticeClass)
		setAttr(div, "data-af-notice", string(notice.Kind))
		strong := &html.Node{Type: html.ElementNode, Data: "strong", DataAtom: atom.Strong}
		strong.AppendChild(&html.Node{Type: html.TextNode, Data: notice.Title})
		div.AppendChild(strong)
		if notice.Message != "" {
			para := &html.Node{Type: html.ElementNode, Data: "p", DataAtom: atom.P}
			para.AppendChild(&html.Node{Type: html.TextNode, Data: notice.Message})
			div.AppendChild(para)
		}
		if notice.Attachment != nil {
			link := &html.Node{Type: html.ElementNode, Data: "a", DataAtom: atom.A}
			setAttr(link, "download", notice.Attachment.Name)
			setAttr(link, "class", dom.NoticeClass+"-download")
			link.AppendChild(&html.Node{Type: html.TextNode, Data: "Download again"})
			div.AppendChild(link)
		}
		parent.InsertBefore(div, n.NextSibling)
		p.stamp(div)
		return nil
	})
}

// Download implements dom.Driver.
func (p *Page) Download(ctx context.Context, f dom.File) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.downloads = append(p.downloads, f)
	p.events = append(p.events, Event{Type: "download:" + f.Name})
	return nil
}

// Mark implements dom.Driver.
func (p *Page) Mark(ctx context.Context, uid, name, value string) error {
	return p.mutate(ctx, uid, func(n *html.Node) error {
		setAttr(n, name, value)
		return nil
	})
}

func (p *Page) mutate(ctx context.Context, uid string, fn func(n *html.Node) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.applyDue()
	n := p.byUID(uid)
	if n == nil {
		return fmt.Errorf("element %s not found", uid)
	}
	return fn(n)
}

// dispatch records events on n and runs matching hooks. Hooks run with the lock held, so
// they may only use the mutation helpers (AppendHTML, Reveal, ClearFiles, After, ...).
// Events dispatched while a hook runs do not trigger further hooks.
func (p *Page) dispatch(n *html.Node, events ...string) {
	for _, ev := range events {
		p.events = append(p.events, Event{UID: attr(n, dom.AttrUID), ID: attr(n, "id"), Type: ev})
		if p.inHook {
			continue
		}
		for _, h := range p.hooks {
			if h.event != ev || !h.sel.Match(n) {
				continue
			}
			p.inHook = true
			h.fn(p, n)
			p.inHook = false
		}
	}
}

func (p *Page) applyDue() {
	if len(p.timers) == 0 {
		return
	}
	now := p.clock.Now()
	sort.SliceStable(p.timers, func(i, j int) bool {
		if p.timers[i].due.Equal(p.timers[j].due) {
			return p.timers[i].seq < p.timers[j].seq
		}
		return p.timers[i].due.Before(p.timers[j].due)
	})
	var pending []timed
	var due []timed
	for _, t := range p.timers {
		if t.due.After(now) {
			pending = append(pending, t)
		} else {
			due = append(due, t)
		}
	}
	p.timers = pending
	for _, t := range due {
		t.fn(p)
	}
}

func (p *Page) setFiles(n *html.Node, files []dom.File) {
	p.files[n] = files
	setAttr(n, dom.AttrFiles, strconv.Itoa(len(files)))
}

func (p *Page) stamp(n *html.Node) {
	if n.Type == html.ElementNode && attr(n, dom.AttrUID) == "" {
		p.nextUID++
		setAttr(n, dom.AttrUID, strconv.Itoa(p.nextUID))
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.stamp(c)
	}
}

func (p *Page) byUID(uid string) *html.Node {
	if uid == "" {
		return nil
	}
	return findFirst(p.root, func(n *html.Node) bool { return attr(n, dom.AttrUID) == uid })
}

func (p *Page) byID(id string) *html.Node {
	return findFirst(p.root, func(n *html.Node) bool { return attr(n, "id") == id })
}

func (p *Page) radioGroup(n *html.Node) []*html.Node {
	name := attr(n, "name")
	if name == "" {
		return nil
	}
	form := closest(n, atom.Form)
	var out []*html.Node
	walk(p.root, func(c *html.Node) {
		if c.DataAtom == atom.Input && strings.EqualFold(attr(c, "type"), "radio") &&
			attr(c, "name") == name && closest(c, atom.Form) == form {
			out = append(out, c)
		}
	})
	return out
}
