package dom

import "context"

// File is a synthesized upload payload.
type File struct {
	Name     string
	MIMEType string
	Data     []byte
}

// NoticeKind distinguishes upload status notices.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeManual  NoticeKind = "manual"
)

// Notice is a visible status message inserted next to an upload target.
type Notice struct {
	Kind    NoticeKind
	Title   string
	Message string
	// Attachment, when set, is offered again through a download link in the notice.
	Attachment *File
}

// Driver applies live mutations to the page. Every method addresses elements by the uid
// stamped in the latest snapshot.
type Driver interface {
	// Snapshot captures the current page, stamping uids on new elements.
	Snapshot(ctx context.Context) (*Document, error)

	// SetValue writes value through the native property setter of an input, textarea or
	// select, resets the framework value tracker, and dispatches input, change and blur.
	SetValue(ctx context.Context, uid, value string) error

	// SetChecked sets the checked state of a checkbox or radio and dispatches the same
	// event sequence as SetValue.
	SetChecked(ctx context.Context, uid string, checked bool) error

	// Click focuses the element and dispatches mousedown, mouseup and click.
	Click(ctx context.Context, uid string) error

	// ClickOption scrolls an option into view and clicks it.
	ClickOption(ctx context.Context, uid string) error

	// AttachFile assigns f to a file input and dispatches change, input, filechange, a
	// tracker reset, change, a change on the enclosing form, and blur. It fails when the
	// input reports no files after assignment.
	AttachFile(ctx context.Context, uid string, f File) error

	// FileCount returns how many files a file input currently holds.
	FileCount(ctx context.Context, uid string) (int, error)

	// DropFile dispatches dragenter, dragover, drop and dragleave carrying f on a drop zone
	// and assigns f to any file input inside it.
	DropFile(ctx context.Context, uid string, f File) error

	// InsertNotice inserts n after the element, replacing a notice already present in the
	// same parent.
	InsertNotice(ctx context.Context, uid string, n Notice) error

	// Download saves f through the browser's download mechanism.
	Download(ctx context.Context, f File) error

	// Mark sets a marker attribute on the element.
	Mark(ctx context.Context, uid, attr, value string) error
}
