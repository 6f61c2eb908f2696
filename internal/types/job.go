package types

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// MinDescriptionLength is the shortest job description considered meaningful.
const MinDescriptionLength = 50

// JobDescriptionRecord is the structured form of a job posting.
type JobDescriptionRecord struct {
	Title                 string   `json:"title" validate:"required"`
	Company               string   `json:"company" validate:"required"`
	Description           string   `json:"description" validate:"required,min=50"`
	RequiredSkills        []string `json:"required_skills"`
	PreferredSkills       []string `json:"preferred_skills"`
	ExperienceLevel       string   `json:"experience_level"`
	EducationRequirements []string `json:"education_requirements"`
	Location              string   `json:"location"`
	// Source is set when the record was extracted from a fetched page.
	Source *JobSource `json:"source,omitempty"`
}

// JobSource describes the page a job record was extracted from.
type JobSource struct {
	URL       string `json:"url"`
	Platform  string `json:"platform,omitempty"`
	Hash      string `json:"hash"`
	FetchedAt string `json:"fetched_at"`
	Rendered  bool   `json:"rendered,omitempty"`
	Truncated bool   `json:"truncated,omitempty"`
}

var validate = validator.New()

// NewJobDescriptionRecord returns a record with every list initialised.
func NewJobDescriptionRecord() *JobDescriptionRecord {
	return &JobDescriptionRecord{
		RequiredSkills:        []string{},
		PreferredSkills:       []string{},
		EducationRequirements: []string{},
	}
}

// Normalize replaces nil lists with empty ones.
func (j *JobDescriptionRecord) Normalize() {
	if j.RequiredSkills == nil {
		j.RequiredSkills = []string{}
	}
	if j.PreferredSkills == nil {
		j.PreferredSkills = []string{}
	}
	if j.EducationRequirements == nil {
		j.EducationRequirements = []string{}
	}
}

// Validate checks the required text fields after trimming surrounding whitespace.
// The returned error is a validator.ValidationErrors on field failures.
func (j *JobDescriptionRecord) Validate() error {
	trimmed := JobDescriptionRecord{
		Title:       strings.TrimSpace(j.Title),
		Company:     strings.TrimSpace(j.Company),
		Description: strings.TrimSpace(j.Description),
	}
	return validate.Struct(trimmed)
}
