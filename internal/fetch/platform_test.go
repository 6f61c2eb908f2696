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
		{"https://jobs.lever.co/company/job-id", PlatformLever},
		{"https://acme.wd5.myworkdayjobs.com/en-US/careers/job/123", PlatformWorkday},
		{"https://jobs.ashbyhq.com/acme/abc", PlatformAshby},
		{"https://jobs.smartrecruiters.com/Acme/123", PlatformSmartRecruiters},
		{"https://www.linkedin.com/jobs/view/123", PlatformLinkedIn},
		{"https://www.indeed.com/viewjob?jk=abc", PlatformIndeed},
		{"https://notgreenhouse.io.example.com/jobs", PlatformUnknown},
		{"https://careers.example.com/jobs/1", PlatformUnknown},
		{"::not a url", PlatformUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectPlatform(tt.url))
		})
	}
}

func TestPlatformContentSelectors(t *testing.T) {
	greenhouse := PlatformContentSelectors(PlatformGreenhouse)
	assert.Equal(t, ".job__description.body", greenhouse[0])
	assert.Contains(t, greenhouse, "main", "generic selectors are appended as fallback")

	assert.Equal(t, JobPostingSelectors(), PlatformContentSelectors(PlatformUnknown))
}

func TestPlatformNoiseSelectors(t *testing.T) {
	lever := PlatformNoiseSelectors(PlatformLever)
	assert.Contains(t, lever, "form")
	assert.Contains(t, lever, ".lever-application-form")

	unknown := PlatformNoiseSelectors(PlatformUnknown)
	assert.Equal(t, len(commonNoise), len(unknown))

	// Appending board noise must not mutate the shared base list.
	_ = PlatformNoiseSelectors(PlatformWorkday)
	assert.NotContains(t, commonNoise, ".application-section")
}
