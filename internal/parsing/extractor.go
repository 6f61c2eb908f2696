// Package parsing turns resume and job-description text into structured
// records by prompting the LLM and decoding its JSON with per-field defaults.
package parsing

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/SomeshSampat2/AgentHire/internal/llm"
	"github.com/SomeshSampat2/AgentHire/internal/logger"
	"github.com/SomeshSampat2/AgentHire/internal/prompts"
	"github.com/SomeshSampat2/AgentHire/internal/schemas"
	"github.com/SomeshSampat2/AgentHire/internal/types"
)

// Generation budgets per record kind.
var (
	ResumeOptions = llm.JSONOptions(0.1, 3000)
	JobOptions    = llm.JSONOptions(0.1, 2048)
)

// Extractor parses resumes and job descriptions through an LLM.
type Extractor struct {
	client     llm.Client
	logger     *zap.Logger
	resumeOpts llm.GenerateOptions
	jobOpts    llm.GenerateOptions
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithGenerateOptions sets the temperature and token budget for job parsing.
// Resume parsing uses the same temperature and never fewer tokens than
// ResumeOptions allows.
func WithGenerateOptions(opts llm.GenerateOptions) ExtractorOption {
	return func(e *Extractor) {
		opts.JSON = true
		e.jobOpts = opts
		e.resumeOpts = opts
		e.resumeOpts.MaxOutputTokens = max(opts.MaxOutputTokens, ResumeOptions.MaxOutputTokens)
	}
}

// NewExtractor returns an Extractor using client.
func NewExtractor(client llm.Client, log *zap.Logger, opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		client:     client,
		logger:     logger.OrNop(log).Named("parsing"),
		resumeOpts: ResumeOptions,
		jobOpts:    JobOptions,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ParseResume extracts a ResumeRecord from resume text. Missing fields default
// to empty values; only an unusable LLM reply is an error.
func (e *Extractor) ParseResume(ctx context.Context, text string) (*types.ResumeRecord, error) {
	prompt, err := prompts.Render(prompts.ParsingFile, prompts.KeyResume, map[string]string{"ResumeText": text})
	if err != nil {
		return nil, err
	}

	obj, err := e.generate(ctx, prompt, e.resumeOpts, schemas.Resume)
	if err != nil {
		return nil, err
	}

	record := resumeFromObject(obj)
	e.logger.Info("resume parsed",
		zap.String("candidate", record.DisplayName()),
		zap.Int("skills", len(record.Skills)),
		zap.Int("experience", len(record.Experience)),
		zap.Bool("profile_urls", record.HasProfileURLs()),
	)
	return record, nil
}

// ParseJobDescription extracts a JobDescriptionRecord from pasted text.
// A reply without a description is a client-fault ParseError.
func (e *Extractor) ParseJobDescription(ctx context.Context, text string) (*types.JobDescriptionRecord, error) {
	prompt, err := prompts.Render(prompts.ParsingFile, prompts.KeyJobDescription, map[string]string{"JobText": text})
	if err != nil {
		return nil, err
	}
	return e.parseJob(ctx, prompt)
}

// ParseJobPosting extracts a JobDescriptionRecord from the visible text of a
// job posting page.
func (e *Extractor) ParseJobPosting(ctx context.Context, url, pageText string) (*types.JobDescriptionRecord, error) {
	prompt, err := prompts.Render(prompts.ParsingFile, prompts.KeyJobPosting, map[string]string{
		"URL":      url,
		"PageText": pageText,
	})
	if err != nil {
		return nil, err
	}
	return e.parseJob(ctx, prompt)
}

func (e *Extractor) parseJob(ctx context.Context, prompt string) (*types.JobDescriptionRecord, error) {
	obj, err := e.generate(ctx, prompt, e.jobOpts, schemas.Job)
	if err != nil {
		return nil, err
	}

	job := jobFromObject(obj)
	if job.Description == "" {
		return nil, &ParseError{
			Schema:      schemas.Job,
			Message:     "Job description text is missing from the parsed result",
			ClientFault: true,
		}
	}

	e.logger.Info("job description parsed",
		zap.String("title", job.Title),
		zap.String("company", job.Company),
		zap.Int("required_skills", len(job.RequiredSkills)),
		zap.Int("preferred_skills", len(job.PreferredSkills)),
	)
	return job, nil
}

// generate tolerates schema violations: the record mappers coerce or default
// every field, so only JSON that cannot be decoded at all is fatal here.
func (e *Extractor) generate(ctx context.Context, prompt string, opts llm.GenerateOptions, schema string) (map[string]any, error) {
	obj, err := GenerateObject(ctx, e.client, prompt, opts, schema, e.logger)
	var verr *ValidationError
	if errors.As(err, &verr) {
		e.logger.Warn("LLM output does not match schema, coercing",
			zap.String("schema", schema),
			zap.String("field", verr.Field),
			zap.String("reason", verr.Message),
		)
		return obj, nil
	}
	return obj, err
}

func resumeFromObject(obj map[string]any) *types.ResumeRecord {
	r := types.NewResumeRecord()

	personal := CoerceMap(obj["personal_info"])
	r.Name = firstString(personal["name"], obj["name"])
	r.Email = firstString(personal["email"], obj["email"])
	r.Phone = firstString(personal["phone"], obj["phone"])
	r.Location = firstString(personal["location"], obj["location"])
	r.Summary = firstString(obj["professional_summary"], obj["summary"])

	social := CoerceMap(obj["social_urls"])
	r.LinkedInURL = firstString(social["linkedin_url"], obj["linkedin_url"])
	r.GitHubURL = firstString(social["github_url"], obj["github_url"])
	r.PortfolioURL = firstString(social["portfolio_url"], obj["portfolio_url"])
	if others := CoerceStringList(social["other_urls"]); len(others) > 0 {
		r.OtherURLs = others
	}

	r.Skills = CoerceStringList(obj["skills"])
	r.Certifications = CoerceStringList(obj["certifications"])
	r.Languages = CoerceStringList(obj["languages"])

	for _, m := range CoerceObjects(obj["experience"]) {
		r.Experience = append(r.Experience, types.ExperienceItem{
			Title:       CoerceString(m["title"]),
			Company:     CoerceString(m["company"]),
			Duration:    CoerceString(m["duration"]),
			Description: CoerceString(m["description"]),
		})
	}
	for _, m := range CoerceObjects(obj["education"]) {
		r.Education = append(r.Education, types.EducationItem{
			Degree:      CoerceString(m["degree"]),
			Institution: CoerceString(m["institution"]),
			Year:        CoerceString(m["year"]),
			GPA:         CoerceString(m["gpa"]),
		})
	}
	for _, m := range CoerceObjects(obj["projects"]) {
		r.Projects = append(r.Projects, types.ProjectItem{
			Name:         CoerceString(m["name"]),
			Description:  CoerceString(m["description"]),
			Technologies: CoerceStringList(m["technologies"]),
		})
	}
	return r
}

// jobFromObject maps a job reply. Required skills are required_skills followed
// by technical_requirements, preferred are preferred_skills followed by
// soft_skills; neither list is deduplicated.
func jobFromObject(obj map[string]any) *types.JobDescriptionRecord {
	j := types.NewJobDescriptionRecord()
	j.Title = CoerceString(obj["title"])
	j.Company = CoerceString(obj["company"])
	j.Description = CoerceString(obj["description"])
	j.ExperienceLevel = CoerceString(obj["experience_level"])
	j.Location = CoerceString(obj["location"])
	j.RequiredSkills = append(CoerceStringList(obj["required_skills"]), CoerceStringList(obj["technical_requirements"])...)
	j.PreferredSkills = append(CoerceStringList(obj["preferred_skills"]), CoerceStringList(obj["soft_skills"])...)
	j.EducationRequirements = CoerceStringList(obj["education_requirements"])
	return j
}

func firstString(values ...any) string {
	for _, v := range values {
		if s := CoerceString(v); s != "" && !strings.EqualFold(s, "null") {
			return s
		}
	}
	return ""
}
