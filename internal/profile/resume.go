package profile

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultResumeType is assumed when a stored resume carries no MIME type and its bytes
// are not recognisable.
const DefaultResumeType = "application/pdf"

// ResumeFile is a stored resume document. FileData is the base64-encoded file content.
type ResumeFile struct {
	ID        string `json:"id" validate:"required"`
	Name      string `json:"name,omitempty"`
	FileName  string `json:"fileName" validate:"required"`
	FileType  string `json:"fileType,omitempty"`
	FileData  string `json:"fileData" validate:"required"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// SelectResume returns the resume with the given id, falling back to the first stored
// resume. It returns nil when the profile has none.
func (p *Profile) SelectResume(id string) *ResumeFile {
	if len(p.ResumeFiles) == 0 {
		return nil
	}
	if id != "" {
		for i := range p.ResumeFiles {
			if p.ResumeFiles[i].ID == id {
				return &p.ResumeFiles[i]
			}
		}
	}
	return &p.ResumeFiles[0]
}

// Decode returns the binary payload of the resume. A "data:<type>;base64," prefix, as
// produced by browser file readers, is tolerated.
func (r *ResumeFile) Decode() ([]byte, error) {
	data := strings.TrimSpace(r.FileData)
	if strings.HasPrefix(data, "data:") {
		if idx := strings.Index(data, ","); idx >= 0 {
			data = data[idx+1:]
		}
	}
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode resume %s: %w", r.FileName, err)
	}
	return raw, nil
}

// MIMEType returns the stored type, or one sniffed from the payload when none is stored.
func (r *ResumeFile) MIMEType(payload []byte) string {
	if r.FileType != "" {
		return r.FileType
	}
	if len(payload) > 0 {
		detected := mimetype.Detect(payload)
		if !detected.Is("application/octet-stream") && !detected.Is("text/plain") {
			return detected.String()
		}
	}
	return DefaultResumeType
}
