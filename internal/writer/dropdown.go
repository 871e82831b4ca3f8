package writer

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/ats-autofill/internal/classify"
	"github.com/jonathan/ats-autofill/internal/dom"
	"github.com/jonathan/ats-autofill/internal/match"
)

const (
	popupOptionSelector  = `[role="option"], li`
	popupSelector        = `[role="listbox"], [role="menu"]`
	nearbyOptionSelector = `[role="option"], li[class*="option"], [class*="menu-item"], [class*="select-option"], [class*="dropdown-item"]`
	nearbyDepth          = 8
)

// openDropdown clicks a custom dropdown open. The option is picked by Pick once the popup
// had Settle to render.
func (w *Writer) openDropdown(ctx context.Context, el *dom.Element) Result {
	if err := w.driver.Click(ctx, el.UID()); err != nil {
		w.logger.Debug("dropdown open failed", zap.String("uid", el.UID()), zap.Error(err))
		return Result{}
	}
	return Result{Pending: true}
}

// Pick completes the write of an opened custom dropdown: it clicks the best visible option,
// or types the value into the control when none matches.
func (w *Writer) Pick(ctx context.Context, uid string, det *classify.Detection) Result {
	doc, err := w.driver.Snapshot(ctx)
	if err != nil {
		w.logger.Debug("snapshot after open failed", zap.String("uid", uid), zap.Error(err))
		return Result{Kind: dom.KindCustomDropdown}
	}
	res := w.pick(ctx, doc, uid, det)
	res.Kind = dom.KindCustomDropdown
	if res.Applied {
		res.UIDs = []string{uid}
	}
	w.logger.Debug("dropdown pick attempted",
		zap.String("uid", uid),
		zap.String("field", det.Field.String()),
		zap.Bool("applied", res.Applied),
		zap.String("strategy", res.Strategy),
	)
	return res
}

func (w *Writer) pick(ctx context.Context, doc *dom.Document, uid string, det *classify.Detection) Result {
	opened := doc.ByUID(uid)
	if opened == nil {
		return Result{}
	}
	if candidates := dropdownOptions(doc, opened); len(candidates) > 0 {
		opts := make([]match.Option, len(candidates))
		for i, c := range candidates {
			opts[i] = match.Option{Text: c.Text(), Value: c.Attr("data-value")}
		}
		m := match.Match(match.Request{Options: opts, Value: det.Value, Field: det.Field, Question: question(opened, det)})
		if m.Found() {
			if err := w.driver.ClickOption(ctx, candidates[m.Index].UID()); err == nil {
				return Result{Applied: true, HispanicAnswer: m.HispanicAnswer, Strategy: m.Strategy}
			}
		}
	}

	w.logger.Debug("no dropdown option matched, typing value", zap.String("uid", uid))
	if err := w.driver.SetValue(ctx, uid, det.Value); err != nil {
		return Result{}
	}
	return Result{Applied: true, Strategy: "typed"}
}

// dropdownOptions finds the visible options of an opened dropdown: the popup it controls,
// else any visible listbox or menu, else option-like elements near the control.
func dropdownOptions(doc *dom.Document, el *dom.Element) []*dom.Element {
	var options []*dom.Element

	for _, attr := range []string{"aria-controls", "aria-owns"} {
		ids := strings.Fields(el.Attr(attr))
		if len(ids) == 0 {
			continue
		}
		if popup := doc.ByID(ids[0]); popup != nil {
			options = popup.Find(popupOptionSelector)
		}
		break
	}

	if len(options) == 0 {
		for _, popup := range doc.Find(popupSelector) {
			if !popup.Visible() {
				continue
			}
			if found := popup.Find(popupOptionSelector); len(found) > 0 {
				options = found
				break
			}
		}
	}

	if len(options) == 0 {
		parent := el.Parent()
		for i := 0; i < nearbyDepth && parent != nil; i++ {
			if found := parent.Find(nearbyOptionSelector); len(found) > 0 {
				options = found
				break
			}
			parent = parent.Parent()
		}
	}

	visible := options[:0]
	for _, o := range options {
		if o.Visible() {
			visible = append(visible, o)
		}
	}
	return visible
}
