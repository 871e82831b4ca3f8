// Package upload attaches the applicant's resume to an application page: directly into a
// resume file input, else onto a drag-and-drop zone, else by downloading it for the
// applicant to drop in by hand.
package upload

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/ats-autofill/internal/dom"
	"github.com/jonathan/ats-autofill/internal/profile"
	"github.com/jonathan/ats-autofill/internal/sched"
)

// DefaultVerify is how long after attaching a file the input is checked again.
const DefaultVerify = 100 * time.Millisecond

// Notice texts.
const (
	ManualTitle   = "Upload file manually"
	ManualMessage = "Couldn't auto-upload. Your resume has been downloaded - drag it to the upload field above."
)

// Scheduler queues delayed work.
type Scheduler interface {
	After(delay time.Duration, name string, fn sched.Task) bool
}

// Handler uploads a resume within one fill run.
type Handler struct {
	driver dom.Driver
	sched  Scheduler
	runID  string
	verify time.Duration
	logger *zap.Logger

	downloaded bool
}

// New creates a handler for the run runID. Elements it handles are marked with runID.
func New(driver dom.Driver, s Scheduler, runID string, verify time.Duration, logger *zap.Logger) *Handler {
	if verify <= 0 {
		verify = DefaultVerify
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{driver: driver, sched: s, runID: runID, verify: verify, logger: logger}
}

// Upload selects the resume resumeID (or the first stored one) and attaches it to the page.
// It reports whether a file input or drop zone accepted the file.
func (h *Handler) Upload(ctx context.Context, p *profile.Profile, resumeID string) bool {
	resume := p.SelectResume(resumeID)
	if resume == nil {
		return false
	}
	payload, err := resume.Decode()
	if err != nil {
		h.logger.Warn("failed to decode resume", zap.String("resume_id", resume.ID), zap.Error(err))
		return false
	}
	file := dom.File{Name: resume.FileName, MIMEType: resume.MIMEType(payload), Data: payload}

	doc, err := h.driver.Snapshot(ctx)
	if err != nil {
		h.logger.Warn("failed to snapshot page for upload", zap.Error(err))
		return false
	}

	uploaded, handled := false, false
	for _, input := range doc.FileInputs() {
		if !IsResumeInput(input) {
			continue
		}
		if input.Filled(h.runID) {
			handled = true
			continue
		}
		if h.attach(ctx, input, file) {
			uploaded = true
		}
	}

	if !uploaded {
		for _, zone := range DropZones(doc) {
			if zone.Filled(h.runID) {
				handled = true
				continue
			}
			if h.drop(ctx, zone, file) {
				uploaded = true
			}
		}
	}

	if !uploaded && !handled && !h.downloaded {
		h.logger.Info("no upload target accepted the resume, downloading it", zap.String("file", file.Name))
		h.download(ctx, file)
	}
	return uploaded
}

func (h *Handler) attach(ctx context.Context, input *dom.Element, file dom.File) bool {
	uid := input.UID()
	if err := h.driver.AttachFile(ctx, uid, file); err != nil {
		h.logger.Debug("file input rejected resume", zap.String("uid", uid), zap.Error(err))
		h.manual(ctx, uid, file)
		return false
	}
	h.notify(ctx, uid, dom.Notice{Kind: dom.NoticeSuccess, Title: "Uploaded " + file.Name})
	if err := h.driver.Mark(ctx, uid, dom.AttrFilled, h.runID); err != nil {
		h.logger.Debug("failed to mark file input", zap.String("uid", uid), zap.Error(err))
	}

	if h.sched != nil {
		h.sched.After(h.verify, "verify-upload:"+uid, func(ctx context.Context) {
			n, err := h.driver.FileCount(ctx, uid)
			if err != nil || n > 0 {
				return
			}
			h.logger.Info("file was cleared by the page, falling back to manual upload", zap.String("uid", uid))
			h.manual(ctx, uid, file)
		})
	}
	h.logger.Debug("attached resume", zap.String("uid", uid), zap.String("file", file.Name))
	return true
}

func (h *Handler) drop(ctx context.Context, zone *dom.Element, file dom.File) bool {
	uid := zone.UID()
	if err := h.driver.DropFile(ctx, uid, file); err != nil {
		h.logger.Debug("drop simulation failed", zap.String("uid", uid), zap.Error(err))
		return false
	}
	h.notify(ctx, uid, dom.Notice{Kind: dom.NoticeSuccess, Title: "Uploaded " + file.Name})
	if err := h.driver.Mark(ctx, uid, dom.AttrFilled, h.runID); err != nil {
		h.logger.Debug("failed to mark drop zone", zap.String("uid", uid), zap.Error(err))
	}
	h.logger.Debug("dropped resume on zone", zap.String("uid", uid))
	return true
}

// manual downloads the resume and tells the applicant to drop it onto uid.
func (h *Handler) manual(ctx context.Context, uid string, file dom.File) {
	h.download(ctx, file)
	h.notify(ctx, uid, dom.Notice{
		Kind:       dom.NoticeManual,
		Title:      ManualTitle,
		Message:    ManualMessage,
		Attachment: &file,
	})
}

func (h *Handler) download(ctx context.Context, file dom.File) {
	if h.downloaded {
		return
	}
	if err := h.driver.Download(ctx, file); err != nil {
		h.logger.Warn("failed to download resume", zap.String("file", file.Name), zap.Error(err))
		return
	}
	h.downloaded = true
}

func (h *Handler) notify(ctx context.Context, uid string, n dom.Notice) {
	if err := h.driver.InsertNotice(ctx, uid, n); err != nil {
		h.logger.Debug("failed to insert notice", zap.String("uid", uid), zap.Error(err))
	}
}

// IsResumeInput reports whether a file input takes a resume: it accepts documents (or
// anything) and its name, id or enclosing block mentions a resume or an upload.
func IsResumeInput(input *dom.Element) bool {
	accept := strings.ToLower(input.Attr("accept"))
	if !(accept == "" || accept == "*/*" || strings.Contains(accept, "pdf") ||
		strings.Contains(accept, "doc") || strings.Contains(accept, "application")) {
		return false
	}
	text := strings.ToLower(input.Name() + " " + input.ID())
	if block := input.Closest("div, label, section, fieldset"); block != nil {
		text += " " + strings.ToLower(block.Text())
	}
	return containsAny(text, resumeKeywords)
}

var resumeKeywords = []string{"resume", "cv", "curriculum", "upload"}

var dropZoneSelectors = []string{
	`[data-dropzone]`,
	`[class*="dropzone"]`,
	`[class*="drop-zone"]`,
	`[class*="upload-area"]`,
	`[class*="file-upload"]`,
	`[class*="resume-upload"]`,
	`[role="button"][class*="upload"]`,
	`.dz-clickable`,
	`[class*="drag"]`,
}

var dropZoneKeywords = []string{"resume", "cv", "upload", "drag"}

// DropZones returns the drag-and-drop upload areas of doc whose text mentions a resume, an
// upload or dragging, without duplicates.
func DropZones(doc *dom.Document) []*dom.Element {
	seen := make(map[string]bool)
	var out []*dom.Element
	for _, selector := range dropZoneSelectors {
		for _, el := range doc.Find(selector) {
			if seen[el.UID()] {
				continue
			}
			if !containsAny(strings.ToLower(el.Text()), dropZoneKeywords) {
				continue
			}
			seen[el.UID()] = true
			out = append(out, el)
		}
	}
	return out
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
