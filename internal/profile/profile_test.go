package profile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ats-autofill/internal/schemas"
)

const sampleProfile = `{
	"basics": {
		"firstName": "Jane",
		"lastName": "Doe",
		"email": "jane@example.com",
		"phone": "555-0100",
		"city": "Austin",
		"state": "TX"
	},
	"education": [
		{"institution": "State University", "degree": "BS", "field": "Computer Science"},
		{"institution": "Community College", "degree": "AA", "field": "General Studies"}
	],
	"experience": [
		{"company": "Acme", "title": "Engineer", "current": true}
	],
	"applicationPreferences": {
		"isAuthorizedToWork": true,
		"requiresSponsorship": false,
		"ethnicity": "Asian"
	},
	"resumeFiles": [
		{"id": "r1", "fileName": "jane.pdf", "fileType": "application/pdf", "fileData": "JVBERi0xLjQK"},
		{"id": "r2", "fileName": "jane-alt.pdf", "fileData": "data:application/pdf;base64,JVBERi0xLjQK"}
	]
}`

func TestParse_ValidProfile(t *testing.T) {
	p, err := Parse([]byte(sampleProfile))
	require.NoError(t, err)
	require.NotNil(t, p)

	assert.Equal(t, "Jane", p.Basics.FirstName)
	assert.Equal(t, "TX", p.Basics.State)
	require.NotNil(t, p.ApplicationPreferences.IsAuthorizedToWork)
	assert.True(t, *p.ApplicationPreferences.IsAuthorizedToWork)
	require.NotNil(t, p.ApplicationPreferences.RequiresSponsorship)
	assert.False(t, *p.ApplicationPreferences.RequiresSponsorship)
	assert.Nil(t, p.ApplicationPreferences.IsOver18)
	assert.Equal(t, "State University", p.LatestEducation().Institution)
	assert.Equal(t, "Acme", p.LatestExperience().Company)
}

func TestParse_SchemaViolation(t *testing.T) {
	_, err := Parse([]byte(`{"basics": {}, "applicationPreferences": {"isOver18": "yes"}}`))
	require.Error(t, err)

	var verr *schemas.ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestParse_InvalidEmail(t *testing.T) {
	_, err := Parse([]byte(`{"basics": {"email": "not-an-email"}}`))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleProfile), 0644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Doe", p.Basics.LastName)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load("")
	assert.Contains(t, err.Error(), "profile path is empty")

	_, err = Load("/nonexistent/profile.json")
	var lerr *LoadError
	require.True(t, errors.As(err, &lerr))
	assert.Contains(t, err.Error(), "failed to read profile file")
}

func TestEmptyProfileAccessors(t *testing.T) {
	p := &Profile{}
	assert.Nil(t, p.LatestEducation())
	assert.Nil(t, p.LatestExperience())
	assert.Nil(t, p.SelectResume("anything"))
}

func TestSelectResume(t *testing.T) {
	p, err := Parse([]byte(sampleProfile))
	require.NoError(t, err)

	assert.Equal(t, "r2", p.SelectResume("r2").ID)
	assert.Equal(t, "r1", p.SelectResume("").ID)
	assert.Equal(t, "r1", p.SelectResume("missing").ID)
}

func TestResumeDecode(t *testing.T) {
	p, err := Parse([]byte(sampleProfile))
	require.NoError(t, err)

	plain, err := p.ResumeFiles[0].Decode()
	require.NoError(t, err)
	prefixed, err := p.ResumeFiles[1].Decode()
	require.NoError(t, err)
	assert.Equal(t, plain, prefixed)
	assert.Equal(t, "%PDF-1.4\n", string(plain))

	bad := ResumeFile{FileName: "x.pdf", FileData: "!!!"}
	_, err = bad.Decode()
	assert.Error(t, err)
}

func TestResumeMIMEType(t *testing.T) {
	stored := ResumeFile{FileType: "application/msword"}
	assert.Equal(t, "application/msword", stored.MIMEType(nil))

	sniffed := ResumeFile{}
	assert.Equal(t, "application/pdf", sniffed.MIMEType([]byte("%PDF-1.4\n%âãÏÓ\n1 0 obj\n")))

	unknown := ResumeFile{}
	assert.Equal(t, DefaultResumeType, unknown.MIMEType(nil))
	assert.Equal(t, DefaultResumeType, unknown.MIMEType([]byte("hello")))
}
