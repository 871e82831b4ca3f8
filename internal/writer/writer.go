// Package writer applies a resolved detection to a live form control through a dom.Driver.
package writer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/ats-autofill/internal/classify"
	"github.com/jonathan/ats-autofill/internal/dom"
	"github.com/jonathan/ats-autofill/internal/match"
	"github.com/jonathan/ats-autofill/internal/resolve"
)

// DefaultSettle is how long an opened custom dropdown is given to render its options.
const DefaultSettle = 200 * time.Millisecond

// Result describes one write attempt.
type Result struct {
	Applied bool
	Kind    dom.WidgetKind
	// UIDs are the elements the write answered. A radio write covers its whole group.
	UIDs []string
	// HispanicAnswer is set when a standalone Hispanic/Latino question was answered.
	HispanicAnswer bool
	// Strategy is the option-matching strategy used, if any.
	Strategy string
	// Pending is set when a custom dropdown was opened and awaits Pick.
	Pending bool
}

// Writer writes detections to form controls.
type Writer struct {
	driver dom.Driver
	settle time.Duration
	logger *zap.Logger
}

// New creates a writer. settle is the delay callers leave between opening a custom
// dropdown and picking its option; zero means DefaultSettle.
func New(driver dom.Driver, settle time.Duration, logger *zap.Logger) *Writer {
	if settle <= 0 {
		settle = DefaultSettle
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{driver: driver, settle: settle, logger: logger}
}

// Settle returns how long an opened custom dropdown is given before Pick.
func (w *Writer) Settle() time.Duration {
	return w.settle
}

// Write applies det to el, which must belong to doc. A detection without a value is never
// written. A custom dropdown is only opened: the result is Pending and the caller finishes
// the write with Pick after Settle.
func (w *Writer) Write(ctx context.Context, doc *dom.Document, el *dom.Element, det *classify.Detection) Result {
	if el == nil || det == nil {
		return Result{}
	}
	kind := dom.KindOf(el)
	if !det.HasValue() {
		w.logger.Debug("skipping field due to empty value",
			zap.String("uid", el.UID()), zap.String("field", det.Field.String()))
		return Result{Kind: kind}
	}

	var res Result
	switch kind {
	case dom.KindSelect:
		res = w.writeSelect(ctx, el, det)
	case dom.KindCheckbox:
		res = w.writeCheckbox(ctx, el, det)
	case dom.KindRadio:
		res = w.writeRadio(ctx, doc, el, det)
	case dom.KindCustomDropdown:
		res = w.openDropdown(ctx, el)
	default:
		res = w.writeText(ctx, el, det)
	}
	res.Kind = kind
	if res.Applied && len(res.UIDs) == 0 {
		res.UIDs = []string{el.UID()}
	}

	w.logger.Debug("write attempted",
		zap.String("uid", el.UID()),
		zap.String("field", det.Field.String()),
		zap.String("kind", kind.String()),
		zap.Bool("applied", res.Applied),
		zap.Bool("pending", res.Pending),
		zap.String("strategy", res.Strategy),
	)
	return res
}

func (w *Writer) writeText(ctx context.Context, el *dom.Element, det *classify.Detection) Result {
	if err := w.driver.SetValue(ctx, el.UID(), det.Value); err != nil {
		w.logger.Debug("set value failed", zap.String("uid", el.UID()), zap.Error(err))
		return Result{}
	}
	return Result{Applied: true}
}

func (w *Writer) writeSelect(ctx context.Context, el *dom.Element, det *classify.Detection) Result {
	choices := el.Options()
	opts := make([]match.Option, len(choices))
	for i, c := range choices {
		opts[i] = match.Option{Text: c.Text, Value: c.Value}
	}
	m := match.Match(match.Request{
		Options:  opts,
		Value:    det.Value,
		Field:    det.Field,
		Question: question(el, det),
	})
	if !m.Found() {
		return Result{}
	}
	if err := w.driver.SetValue(ctx, el.UID(), choices[m.Index].Value); err != nil {
		w.logger.Debug("select write failed", zap.String("uid", el.UID()), zap.Error(err))
		return Result{}
	}
	return Result{Applied: true, HispanicAnswer: m.HispanicAnswer, Strategy: m.Strategy}
}

func (w *Writer) writeCheckbox(ctx context.Context, el *dom.Element, det *classify.Detection) Result {
	checked := false
	if !det.Field.IsAlwaysNo() {
		checked = det.Value == resolve.Yes || det.Value == "true"
	}
	if err := w.driver.SetChecked(ctx, el.UID(), checked); err != nil {
		w.logger.Debug("checkbox write failed", zap.String("uid", el.UID()), zap.Error(err))
		return Result{}
	}
	return Result{Applied: true}
}

// writeRadio answers the whole group el belongs to by matching the group's labels.
func (w *Writer) writeRadio(ctx context.Context, doc *dom.Document, el *dom.Element, det *classify.Detection) Result {
	group := doc.Radios(el)
	opts := make([]match.Option, len(group))
	uids := make([]string, len(group))
	for i, r := range group {
		opts[i] = match.Option{Text: dom.OwnLabel(r), Value: r.Attr("value")}
		uids[i] = r.UID()
	}
	m := match.Match(match.Request{
		Options:  opts,
		Value:    det.Value,
		Field:    det.Field,
		Question: groupQuestion(el, det),
	})
	if !m.Found() {
		return Result{}
	}
	if err := w.driver.SetChecked(ctx, group[m.Index].UID(), true); err != nil {
		w.logger.Debug("radio write failed", zap.String("uid", group[m.Index].UID()), zap.Error(err))
		return Result{}
	}
	return Result{Applied: true, UIDs: uids, HispanicAnswer: m.HispanicAnswer, Strategy: m.Strategy}
}

// question returns the question a select or dropdown answers.
func question(el *dom.Element, det *classify.Detection) string {
	if det.Question != "" {
		return det.Question
	}
	return dom.InferQuestionText(el)
}

// groupQuestion prefers the legend of the enclosing fieldset, since the label of a single
// radio is usually just its choice.
func groupQuestion(el *dom.Element, det *classify.Detection) string {
	if fs := el.Closest("fieldset"); fs != nil {
		if legends := fs.Find("legend"); len(legends) > 0 {
			return legends[0].Text()
		}
	}
	return det.Question + " " + dom.FieldContext(el)
}
