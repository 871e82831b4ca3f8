package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		url      string
		expected Platform
	}{
		{"https://job-boards.greenhouse.io/doordashusa/jobs/7063751", PlatformGreenhouse},
		{"https://boards.greenhouse.io/company/jobs/123", PlatformGreenhouse},
		{"https://jobs.lever.co/company/job-id/apply", PlatformLever},
		{"https://company.wd5.myworkdayjobs.com/en-US/External/job/apply", PlatformWorkday},
		{"https://jobs.ashbyhq.com/acme/123/application", PlatformAshby},
		{"https://careers-acme.icims.com/jobs/1/apply", PlatformICIMS},
		{"https://jobs.smartrecruiters.com/Acme/123", PlatformSmartRecruiters},
		{"https://example.com/careers", PlatformUnknown},
		{"file:///tmp/form.html", PlatformUnknown},
		{"://bad", PlatformUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectPlatform(tt.url))
		})
	}
}
