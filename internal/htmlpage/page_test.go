package htmlpage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/jonathan/ats-autofill/internal/dom"
)

type manualClock struct{ now time.Time }

func (c *manualClock) Now() time.Time { return c.now }

const form = `<html><body><form id="app">
	<div class="field"><label for="first">First name</label><input id="first" name="first_name"></div>
	<div class="field"><select id="state"><option value="">Select</option><option value="TX">Texas</option></select></div>
	<div class="field">
		<input type="radio" id="yes" name="auth" value="yes"><label for="yes">Yes</label>
		<input type="radio" id="no" name="auth" value="no"><label for="no">No</label>
	</div>
	<div class="upload"><span>Upload your resume</span><input type="file" id="resume" accept="application/pdf"></div>
	<div id="later"></div>
</form></body></html>`

func newPage(t *testing.T, opts ...Option) *Page {
	t.Helper()
	p, err := New(form, "https://boards.greenhouse.io/acme/jobs/1", opts...)
	require.NoError(t, err)
	return p
}

func uidOf(t *testing.T, p *Page, id string) string {
	t.Helper()
	doc, err := p.Snapshot(context.Background())
	require.NoError(t, err)
	el := doc.ByID(id)
	require.NotNil(t, el, id)
	return el.UID()
}

func TestSnapshot_StampsStableUIDs(t *testing.T) {
	p := newPage(t)
	first := uidOf(t, p, "first")
	assert.NotEmpty(t, first)
	assert.Equal(t, first, uidOf(t, p, "first"))

	doc, err := p.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://boards.greenhouse.io/acme/jobs/1", doc.URL)
}

func TestSetValue_DispatchesEventSequence(t *testing.T) {
	p := newPage(t)
	ctx := context.Background()
	require.NoError(t, p.SetValue(ctx, uidOf(t, p, "first"), "Jane"))

	assert.Equal(t, []string{"focus", "input", "change", "blur"}, p.EventsFor("first"))
	doc, err := p.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Jane", doc.ByID("first").Value())
}

func TestSetValue_SelectRequiresExistingOption(t *testing.T) {
	p := newPage(t)
	ctx := context.Background()
	uid := uidOf(t, p, "state")

	require.NoError(t, p.SetValue(ctx, uid, "TX"))
	doc, _ := p.Snapshot(ctx)
	assert.Equal(t, "TX", doc.ByID("state").Value())

	require.NoError(t, p.SetValue(ctx, uid, "ZZ"))
	doc, _ = p.Snapshot(ctx)
	assert.Equal(t, "", doc.ByID("state").Value())
}

func TestSetChecked_RadioGroupExclusive(t *testing.T) {
	p := newPage(t)
	ctx := context.Background()
	require.NoError(t, p.SetChecked(ctx, uidOf(t, p, "yes"), true))
	require.NoError(t, p.SetChecked(ctx, uidOf(t, p, "no"), true))

	doc, _ := p.Snapshot(ctx)
	assert.False(t, doc.ByID("yes").Checked())
	assert.True(t, doc.ByID("no").Checked())
}

func TestSetChecked_RejectsTextInput(t *testing.T) {
	p := newPage(t)
	assert.Error(t, p.SetChecked(context.Background(), uidOf(t, p, "first"), true))
}

func TestAttachFile(t *testing.T) {
	p := newPage(t)
	ctx := context.Background()
	uid := uidOf(t, p, "resume")
	file := dom.File{Name: "jane.pdf", MIMEType: "application/pdf", Data: []byte("%PDF")}

	require.NoError(t, p.AttachFile(ctx, uid, file))
	count, err := p.FileCount(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, []string{"focus", "change", "input", "filechange", "change", "blur"}, p.EventsFor("resume"))
	assert.Equal(t, []string{"change"}, p.EventsFor("app"))
	assert.Equal(t, "jane.pdf", p.Files("resume")[0].Name)
}

func TestAttachFile_Rejected(t *testing.T) {
	p := newPage(t)
	require.NoError(t, p.RejectFiles("#resume"))
	err := p.AttachFile(context.Background(), uidOf(t, p, "resume"), dom.File{Name: "x.pdf"})
	assert.Error(t, err)
}

func TestHook_ClearsFiles(t *testing.T) {
	p := newPage(t)
	require.NoError(t, p.On("#resume", "blur", func(p *Page, target *html.Node) {
		p.ClearFiles(target)
	}))
	ctx := context.Background()
	uid := uidOf(t, p, "resume")
	require.NoError(t, p.AttachFile(ctx, uid, dom.File{Name: "x.pdf"}))

	count, err := p.FileCount(ctx, uid)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestHook_RevealsQuestion(t *testing.T) {
	p := newPage(t)
	require.NoError(t, p.On("#yes", "change", func(p *Page, _ *html.Node) {
		require.NoError(t, p.AppendHTML("#later", `<select id="race"><option>Asian</option></select>`))
	}))
	ctx := context.Background()
	require.NoError(t, p.SetChecked(ctx, uidOf(t, p, "yes"), true))

	doc, _ := p.Snapshot(ctx)
	race := doc.ByID("race")
	require.NotNil(t, race)
	assert.NotEmpty(t, race.UID())
}

func TestAfter_AppliesOnClock(t *testing.T) {
	clock := &manualClock{now: time.Unix(0, 0)}
	p := newPage(t, WithClock(clock))
	p.After(800*time.Millisecond, func(p *Page) {
		_ = p.AppendHTML("#later", `<input id="late">`)
	})
	ctx := context.Background()

	doc, _ := p.Snapshot(ctx)
	assert.Nil(t, doc.ByID("late"))

	clock.now = clock.now.Add(800 * time.Millisecond)
	doc, _ = p.Snapshot(ctx)
	assert.NotNil(t, doc.ByID("late"))
}

func TestDropFile_SetsNestedInput(t *testing.T) {
	p, err := New(`<div class="dropzone" id="zone">Drag your resume here<input type="file" id="inner" hidden></div>`, "")
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, p.DropFile(ctx, uidOf(t, p, "zone"), dom.File{Name: "cv.pdf"}))

	assert.Equal(t, []string{"dragenter", "dragover", "drop", "dragleave"}, p.EventsFor("zone"))
	assert.Equal(t, []string{"change"}, p.EventsFor("inner"))
	assert.Len(t, p.Files("inner"), 1)
}

func TestInsertNotice_ReplacesExisting(t *testing.T) {
	p := newPage(t)
	ctx := context.Background()
	uid := uidOf(t, p, "resume")
	require.NoError(t, p.InsertNotice(ctx, uid, dom.Notice{Kind: dom.NoticeSuccess, Title: "Uploaded jane.pdf"}))
	require.NoError(t, p.InsertNotice(ctx, uid, dom.Notice{
		Kind: dom.NoticeManual, Title: "Upload file manually", Message: "drag it",
		Attachment: &dom.File{Name: "jane.pdf"},
	}))

	doc, _ := p.Snapshot(ctx)
	notices := doc.Find("." + dom.NoticeClass)
	require.Len(t, notices, 1)
	assert.Equal(t, "manual", notices[0].Attr("data-af-notice"))
	assert.Contains(t, notices[0].Text(), "Upload file manually")
	links := notices[0].Find("a[download]")
	require.Len(t, links, 1)
	assert.Equal(t, "jane.pdf", links[0].Attr("download"))
}

func TestMarkAndDownload(t *testing.T) {
	p := newPage(t)
	ctx := context.Background()
	require.NoError(t, p.Mark(ctx, uidOf(t, p, "first"), dom.AttrFilled, "run-1"))
	doc, _ := p.Snapshot(ctx)
	assert.True(t, doc.ByID("first").Filled("run-1"))

	require.NoError(t, p.Download(ctx, dom.File{Name: "jane.pdf"}))
	assert.Len(t, p.Downloads(), 1)
}

func TestUnknownUID(t *testing.T) {
	p := newPage(t)
	assert.Error(t, p.Click(context.Background(), "9999"))
}

func TestCancelledContext(t *testing.T) {
	p := newPage(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Snapshot(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
