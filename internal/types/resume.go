// Package types provides the records exchanged between the extraction, scoring and API layers.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ResumeRecord is the structured form of a parsed resume.
// List fields are always non-nil so they encode as [] rather than null.
type ResumeRecord struct {
	Name           string           `json:"name"`
	Email          string           `json:"email"`
	Phone          string           `json:"phone"`
	Location       string           `json:"location"`
	Education      []EducationItem  `json:"education"`
	Skills         []string         `json:"skills"`
	Experience     []ExperienceItem `json:"experience"`
	Certifications []string         `json:"certifications"`
	Languages      []string         `json:"languages"`
	Projects       []ProjectItem    `json:"projects"`
	Summary        string           `json:"summary"`
	LinkedInURL    string           `json:"linkedin_url,omitempty"`
	GitHubURL      string           `json:"github_url,omitempty"`
	PortfolioURL   string           `json:"portfolio_url,omitempty"`
	OtherURLs      []string         `json:"other_urls,omitempty"`
}

// EducationItem is a single degree entry.
type EducationItem struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
	GPA         string `json:"gpa,omitempty"`
}

// ExperienceItem is a single position held.
type ExperienceItem struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

// ProjectItem is a project listed on the resume.
type ProjectItem struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
}

// NewResumeRecord returns a record with every list initialised.
func NewResumeRecord() *ResumeRecord {
	return &ResumeRecord{
		Education:      []EducationItem{},
		Skills:         []string{},
		Experience:     []ExperienceItem{},
		Certifications: []string{},
		Languages:      []string{},
		Projects:       []ProjectItem{},
	}
}

// HasProfileURLs reports whether any enrichment source is referenced.
func (r *ResumeRecord) HasProfileURLs() bool {
	return r.LinkedInURL != "" || r.GitHubURL != "" || r.PortfolioURL != ""
}

// DisplayName returns the candidate name or a stand-in when it is unknown.
func (r *ResumeRecord) DisplayName() string {
	if r.Name == "" {
		return "Unknown Candidate"
	}
	return r.Name
}
