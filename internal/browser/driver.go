package browser

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/jonathan/ats-autofill/internal/dom"
)

// DriverError is a failed page operation.
type DriverError struct {
	Op      string
	UID     string
	Message string
	Cause   error
}

func (e *DriverError) Error() string {
	target := ""
	if e.UID != "" {
		target = fmt.Sprintf(" on element %s", e.UID)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s%s failed: %s: %v", e.Op, target, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s%s failed: %s", e.Op, target, e.Message)
}

func (e *DriverError) Unwrap() error {
	return e.Cause
}

// reply is the common shape every page script returns.
type reply struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
	Count int    `json:"count"`
	URL   string `json:"url"`
	HTML  string `json:"html"`
}

type fileArgs struct {
	UID  string `json:"uid,omitempty"`
	Name string `json:"name"`
	MIME string `json:"mime"`
	Data string `json:"data"`
}

func encodeFile(uid string, f dom.File) fileArgs {
	return fileArgs{UID: uid, Name: f.Name, MIME: f.MIMEType, Data: base64.StdEncoding.EncodeToString(f.Data)}
}

// Driver implements dom.Driver against a Chrome tab.
type Driver struct {
	tab     context.Context
	timeout time.Duration
	logger  *zap.Logger
}

var _ dom.Driver = (*Driver)(nil)

// call evaluates the named script in the tab. The evaluation is bounded by the driver
// timeout and abandoned when ctx is done.
func (d *Driver) call(ctx context.Context, op, uid string, args any) (reply, error) {
	var res reply
	expr, err := expression(op, args)
	if err != nil {
		return res, &DriverError{Op: op, UID: uid, Message: "invalid script call", Cause: err}
	}

	cctx, cancel := context.WithTimeout(d.tab, d.timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(cctx, chromedp.Evaluate(expr, &res)); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return res, &DriverError{Op: op, UID: uid, Message: "evaluation failed", Cause: err}
	}
	if !res.OK {
		return res, &DriverError{Op: op, UID: uid, Message: res.Error}
	}
	return res, nil
}

// Snapshot implements dom.Driver.
func (d *Driver) Snapshot(ctx context.Context) (*dom.Document, error) {
	res, err := d.call(ctx, "snapshot", "", map[string]any{
		"attrs": map[string]string{
			"uid":     dom.AttrUID,
			"value":   dom.AttrValue,
			"checked": dom.AttrChecked,
			"visible": dom.AttrVisible,
			"files":   dom.AttrFiles,
		},
	})
	if err != nil {
		return nil, err
	}
	d.logger.Debug("snapshot captured", zap.String("url", res.URL), zap.Int("bytes", len(res.HTML)))
	return dom.ParseString(res.HTML, res.URL)
}

// SetValue implements dom.Driver.
func (d *Driver) SetValue(ctx context.Context, uid, value string) error {
	_, err := d.call(ctx, "set_value", uid, map[string]string{"uid": uid, "value": value})
	return err
}

// SetChecked implements dom.Driver.
func (d *Driver) SetChecked(ctx context.Context, uid string, checked bool) error {
	_, err := d.call(ctx, "set_checked", uid, map[string]any{"uid": uid, "checked": checked})
	return err
}

// Click implements dom.Driver.
func (d *Driver) Click(ctx context.Context, uid string) error {
	_, err := d.call(ctx, "click", uid, map[string]any{"uid": uid})
	return err
}

// ClickOption implements dom.Driver.
func (d *Driver) ClickOption(ctx context.Context, uid string) error {
	_, err := d.call(ctx, "click", uid, map[string]any{"uid": uid, "scroll": true})
	return err
}

// AttachFile implements dom.Driver.
func (d *Driver) AttachFile(ctx context.Context, uid string, f dom.File) error {
	_, err := d.call(ctx, "attach_file", uid, encodeFile(uid, f))
	return err
}

// FileCount implements dom.Driver.
func (d *Driver) FileCount(ctx context.Context, uid string) (int, error) {
	res, err := d.call(ctx, "file_count", uid, map[string]string{"uid": uid})
	if err != nil {
		return 0, err
	}
	return res.Count, nil
}

// DropFile implements dom.Driver.
func (d *Driver) DropFile(ctx context.Context, uid string, f dom.File) error {
	_, err := d.call(ctx, "drop_file", uid, encodeFile(uid, f))
	return err
}

// InsertNotice implements dom.Driver.
func (d *Driver) InsertNotice(ctx context.Context, uid string, n dom.Notice) error {
	args := map[string]any{
		"uid":       uid,
		"className": dom.NoticeClass,
		"kind":      string(n.Kind),
		"title":     n.Title,
		"message":   n.Message,
	}
	if n.Attachment != nil {
		args["attachment"] = encodeFile("", *n.Attachment)
	}
	_, err := d.call(ctx, "insert_notice", uid, args)
	return err
}

// Download implements dom.Driver.
func (d *Driver) Download(ctx context.Context, f dom.File) error {
	_, err := d.call(ctx, "download", "", encodeFile("", f))
	return err
}

// Mark implements dom.Driver.
func (d *Driver) Mark(ctx context.Context, uid, attr, value string) error {
	_, err := d.call(ctx, "mark", uid, map[string]string{"uid": uid, "name": attr, "value": value})
	return err
}
