package upload

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/jonathan/ats-autofill/internal/dom"
	"github.com/jonathan/ats-autofill/internal/htmlpage"
	"github.com/jonathan/ats-autofill/internal/profile"
	"github.com/jonathan/ats-autofill/internal/sched"
)

const runID = "run-1"

func testProfile() *profile.Profile {
	return &profile.Profile{
		ResumeFiles: []profile.ResumeFile{
			{ID: "r1", FileName: "jane.pdf", FileType: "application/pdf", FileData: "JVBERi0xLjQK"},
			{ID: "r2", FileName: "jane-short.pdf", FileData: "JVBERi0xLjQK"},
		},
	}
}

type fixture struct {
	page  *htmlpage.Page
	sched *sched.Scheduler
	h     *Handler
}

func newFixture(t *testing.T, body string) *fixture {
	t.Helper()
	clock := sched.NewVirtualClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	page, err := htmlpage.New("<html><body><form>"+body+"</form></body></html>",
		"https://boards.greenhouse.io/acme/jobs/1", htmlpage.WithClock(clock))
	require.NoError(t, err)
	s := sched.New(clock, nil)
	return &fixture{page: page, sched: s, h: New(page, s, runID, 0, nil)}
}

func (f *fixture) drain(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	f.sched.Start(ctx)
	require.NoError(t, f.sched.Wait(ctx))
}

func (f *fixture) notices(t *testing.T) []*dom.Element {
	t.Helper()
	doc, err := f.page.Snapshot(context.Background())
	require.NoError(t, err)
	return doc.Find("." + dom.NoticeClass)
}

const resumeField = `<div class="field"><label>Upload your resume</label><input type="file" id="resume" name="resume" accept="application/pdf"></div>`

func TestUpload_PrimaryPath(t *testing.T) {
	f := newFixture(t, resumeField)

	ok := f.h.Upload(context.Background(), testProfile(), "")
	require.True(t, ok)
	f.drain(t)

	files := f.page.Files("resume")
	require.Len(t, files, 1)
	assert.Equal(t, "jane.pdf", files[0].Name)
	assert.Equal(t, "application/pdf", files[0].MIMEType)
	assert.Equal(t, []byte("%PDF-1.4\n"), files[0].Data)
	assert.Equal(t, []string{"focus", "change", "input", "filechange", "change", "blur"}, f.page.EventsFor("resume"))

	notices := f.notices(t)
	require.Len(t, notices, 1)
	assert.Equal(t, string(dom.NoticeSuccess), notices[0].Attr("data-af-notice"))
	assert.Contains(t, notices[0].Text(), "Uploaded jane.pdf")
	assert.Empty(t, f.page.Downloads())

	doc, err := f.page.Snapshot(context.Background())
	require.NoError(t, err)
	assert.True(t, doc.ByID("resume").Filled(runID))
}

func TestUpload_SelectsResumeByID(t *testing.T) {
	f := newFixture(t, resumeField)
	require.True(t, f.h.Upload(context.Background(), testProfile(), "r2"))

	files := f.page.Files("resume")
	require.Len(t, files, 1)
	assert.Equal(t, "jane-short.pdf", files[0].Name)
	assert.Equal(t, "application/pdf", files[0].MIMEType)
}

func TestUpload_NoResume(t *testing.T) {
	f := newFixture(t, resumeField)
	assert.False(t, f.h.Upload(context.Background(), &profile.Profile{}, ""))
	assert.Empty(t, f.page.Events())
}

func TestUpload_ClearedByPageFallsBackToManual(t *testing.T) {
	f := newFixture(t, resumeField)
	require.NoError(t, f.page.On("#resume", "filechange", func(p *htmlpage.Page, n *html.Node) {
		p.After(50*time.Millisecond, func(p *htmlpage.Page) { p.ClearFiles(n) })
	}))

	require.True(t, f.h.Upload(context.Background(), testProfile(), ""))
	f.drain(t)

	assert.Empty(t, f.page.Files("resume"))
	downloads := f.page.Downloads()
	require.Len(t, downloads, 1)
	assert.Equal(t, "jane.pdf", downloads[0].Name)

	notices := f.notices(t)
	require.Len(t, notices, 1)
	assert.Equal(t, string(dom.NoticeManual), notices[0].Attr("data-af-notice"))
	assert.Contains(t, notices[0].Text(), ManualTitle)
	assert.Len(t, notices[0].Find("a[download]"), 1)
}

func TestUpload_RejectedInputThenDropZone(t *testing.T) {
	f := newFixture(t, resumeField+`<div class="dropzone" id="zone"><p>Drag and drop your CV here</p></div>`)
	require.NoError(t, f.page.RejectFiles("#resume"))

	require.True(t, f.h.Upload(context.Background(), testProfile(), ""))

	assert.Equal(t, []string{"dragenter", "dragover", "drop", "dragleave"}, f.page.EventsFor("zone"))
	assert.Len(t, f.page.Downloads(), 1)

	// The zone's notice replaces the input's, since the zone's parent encloses both.
	notices := f.notices(t)
	require.Len(t, notices, 1)
	assert.Equal(t, string(dom.NoticeSuccess), notices[0].Attr("data-af-notice"))
}

func TestUpload_DropZoneOnly(t *testing.T) {
	f := newFixture(t, `<div class="upload-area" id="zone" role="button">Drop your resume</div>`)

	require.True(t, f.h.Upload(context.Background(), testProfile(), ""))
	assert.Equal(t, []string{"dragenter", "dragover", "drop", "dragleave"}, f.page.EventsFor("zone"))

	doc, err := f.page.Snapshot(context.Background())
	require.NoError(t, err)
	assert.True(t, doc.ByID("zone").Filled(runID))
	assert.Empty(t, f.page.Downloads())
}

func TestUpload_NoTargetDownloads(t *testing.T) {
	f := newFixture(t, `<input id="first" name="first_name">`)

	assert.False(t, f.h.Upload(context.Background(), testProfile(), ""))
	assert.Len(t, f.page.Downloads(), 1)
}

func TestUpload_SkipsHandledTargets(t *testing.T) {
	f := newFixture(t, resumeField)
	require.True(t, f.h.Upload(context.Background(), testProfile(), ""))
	before := len(f.page.Events())

	again := New(f.page, f.sched, runID, 0, nil)
	assert.False(t, again.Upload(context.Background(), testProfile(), ""))
	assert.Len(t, f.page.Events(), before)
	assert.Empty(t, f.page.Downloads())
}

func TestIsResumeInput(t *testing.T) {
	cases := []struct {
		name string
		body string
		want bool
	}{
		{"labelled resume", resumeField, true},
		{"cv id", `<input type="file" id="cv">`, true},
		{"any type", `<section><h3>Attachments</h3><p>Upload a file</p><input type="file" id="resume" accept="*/*"></section>`, true},
		{"image only", `<div>Upload your resume<input type="file" id="resume" accept="image/*"></div>`, false},
		{"id mentions resume", `<div><label>Attachment</label><input type="file" id="resume-x" name="photo" accept=".pdf"></div>`, true},
		{"cover letter", `<div><label>Cover letter</label><input type="file" id="attachment2" name="cover" accept=".pdf"></div>`, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc, err := dom.ParseString("<html><body>"+tc.body+"</body></html>", "")
			require.NoError(t, err)
			inputs := doc.FileInputs()
			require.Len(t, inputs, 1)
			assert.Equal(t, tc.want, IsResumeInput(inputs[0]))
		})
	}
}

func TestDropZones_FiltersAndDedupes(t *testing.T) {
	doc, err := dom.ParseString(`<html><body>
		<div class="dropzone file-upload" data-af-uid="1">Drag your resume here</div>
		<div class="dropzone" data-af-uid="2">Profile photo</div>
		<div class="dz-clickable" data-af-uid="3">Upload CV</div>
	</body></html>`, "")
	require.NoError(t, err)

	zones := DropZones(doc)
	require.Len(t, zones, 2)
	assert.Equal(t, "1", zones[0].UID())
	assert.Equal(t, "3", zones[1].UID())
}
