package fetch

import (
	"net/url"
	"strings"
)

// Platform identifies a job board.
type Platform string

const (
	PlatformGreenhouse      Platform = "greenhouse"
	PlatformLever           Platform = "lever"
	PlatformWorkday         Platform = "workday"
	PlatformAshby           Platform = "ashby"
	PlatformSmartRecruiters Platform = "smartrecruiters"
	PlatformLinkedIn        Platform = "linkedin"
	PlatformIndeed          Platform = "indeed"
	PlatformUnknown         Platform = "unknown"
)

type board struct {
	platform Platform
	hosts    []string
	content  []string
	noise    []string
}

var boards = []board{
	{
		platform: PlatformGreenhouse,
		hosts:    []string{"greenhouse.io"},
		content:  []string{".job__description.body", ".job__description", ".job-description__content", "#content", ".job-post-container"},
		noise:    []string{".application--wrapper", ".voluntary-self-id", "#usa_self_id_section", ".post-apply"},
	},
	{
		platform: PlatformLever,
		hosts:    []string{"lever.co"},
		content:  []string{".posting-page", ".section-wrapper.page-full-width", ".posting-description", ".content"},
		noise:    []string{".apply-section", ".lever-application-form", ".posting-apply"},
	},
	{
		platform: PlatformWorkday,
		hosts:    []string{"workday.com", "myworkdayjobs.com"},
		content:  []string{"[data-automation-id='jobDescription']", ".job-description"},
		noise:    []string{"[data-automation-id='applyButton']", ".application-section"},
	},
	{
		platform: PlatformAshby,
		hosts:    []string{"ashbyhq.com"},
		content:  []string{"[class*='_descriptionText']", "[class*='job-posting']", "main"},
		noise:    []string{"[class*='_applicationForm']"},
	},
	{
		platform: PlatformSmartRecruiters,
		hosts:    []string{"smartrecruiters.com"},
		content:  []string{".job-sections", "[itemprop='description']", "main"},
		noise:    []string{".job-apply", ".sticky-apply"},
	},
	{
		platform: PlatformLinkedIn,
		hosts:    []string{"linkedin.com"},
		content:  []string{".show-more-less-html__markup", ".description__text", ".jobs-description"},
		noise:    []string{".sign-in-modal", ".contextual-sign-in-modal", ".similar-jobs"},
	},
	{
		platform: PlatformIndeed,
		hosts:    []string{"indeed.com"},
		content:  []string{"#jobDescriptionText", ".jobsearch-JobComponent"},
		noise:    []string{"#jobsearch-ViewJobButtons-container", ".jobsearch-IndeedApplyButton"},
	},
}

// commonNoise strips application forms, legal boilerplate and share widgets
// that every board embeds around the posting.
var commonNoise = []string{
	"form",
	"#application-form",
	".application-form",
	".apply-button-container",
	".voluntary-disclosure",
	".eeo-statement",
	".eeo-section",
	".legal-disclosure",
	".social-share",
	".share-buttons",
	".cookie-consent",
	".gdpr-notice",
}

// DetectPlatform identifies the job board from a URL's host.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}
	host := strings.ToLower(parsed.Hostname())

	for _, b := range boards {
		for _, h := range b.hosts {
			if host == h || strings.HasSuffix(host, "."+h) {
				return b.platform
			}
		}
	}
	return PlatformUnknown
}

// PlatformContentSelectors returns selectors for the posting body on a board.
func PlatformContentSelectors(platform Platform) []string {
	for _, b := range boards {
		if b.platform == platform {
			return append(append([]string{}, b.content...), JobPostingSelectors()...)
		}
	}
	return JobPostingSelectors()
}

// PlatformNoiseSelectors returns selectors to remove before reading a board's page.
func PlatformNoiseSelectors(platform Platform) []string {
	noise := append([]string{}, commonNoise...)
	for _, b := range boards {
		if b.platform == platform {
			return append(noise, b.noise...)
		}
	}
	return noise
}

// JobPostingSelectors returns selectors for job pages on unrecognised boards.
func JobPostingSelectors() []string {
	return []string{
		".job-description",
		".job-content",
		"#job-description",
		"#job-content",
		".posting-content",
		".job-details",
		"[data-testid='job-description']",
		"main",
		"article",
		".content",
		"#content",
	}
}
