// Package analysis runs the candidate analysis pipeline: upload, text
// extraction, resume and job parsing, optional profile enrichment and scoring.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/SomeshSampat2/AgentHire/internal/enrichment"
	"github.com/SomeshSampat2/AgentHire/internal/ingestion"
	"github.com/SomeshSampat2/AgentHire/internal/logger"
	"github.com/SomeshSampat2/AgentHire/internal/scoring"
	"github.com/SomeshSampat2/AgentHire/internal/types"
	"github.com/SomeshSampat2/AgentHire/internal/upload"
)

// TextExtractor reads the text of a stored document.
type TextExtractor interface {
	ExtractText(ctx context.Context, path, ext string) (string, error)
}

// RecordParser turns free text into structured records.
type RecordParser interface {
	ParseResume(ctx context.Context, text string) (*types.ResumeRecord, error)
	ParseJobDescription(ctx context.Context, text string) (*types.JobDescriptionRecord, error)
	ParseJobPosting(ctx context.Context, url, pageText string) (*types.JobDescriptionRecord, error)
}

// Scorer assesses a candidate against a job.
type Scorer interface {
	Score(ctx context.Context, resume *types.ResumeRecord, job *types.JobDescriptionRecord, enrichment *types.ProfileEnrichment) (*scoring.Result, error)
}

// PageIngester reads the text of a job posting page.
type PageIngester interface {
	IngestJobPage(ctx context.Context, url string) (*ingestion.Page, error)
}

// Enricher looks up public profiles.
type Enricher interface {
	Fetch(ctx context.Context, req enrichment.Request) (types.ProfileEnrichment, enrichment.Outcomes)
}

// DefaultStepTimeout bounds each pipeline step when Deps.StepTimeout is zero.
const DefaultStepTimeout = 3 * time.Minute

// Deps are the components an Orchestrator drives. Pages and Enricher are optional.
type Deps struct {
	Store    *upload.Store
	Text     TextExtractor
	Parser   RecordParser
	Scorer   Scorer
	Pages    PageIngester
	Enricher Enricher
	Logger   *zap.Logger
	// StepTimeout bounds each step that leaves the process: text extraction,
	// resume parsing, job resolution, enrichment and scoring.
	StepTimeout time.Duration
}

// Orchestrator runs requests end to end. It holds no per-request state.
type Orchestrator struct {
	store    *upload.Store
	text     TextExtractor
	parser   RecordParser
	scorer   Scorer
	pages    PageIngester
	enricher Enricher
	logger   *zap.Logger
	stepTime time.Duration
}

// New returns an Orchestrator over d.
func New(d Deps) *Orchestrator {
	stepTime := d.StepTimeout
	if stepTime <= 0 {
		stepTime = DefaultStepTimeout
	}
	return &Orchestrator{
		store:    d.Store,
		text:     d.Text,
		parser:   d.Parser,
		scorer:   d.Scorer,
		pages:    d.Pages,
		enricher: d.Enricher,
		logger:   logger.OrNop(d.Logger).Named("analysis"),
		stepTime: stepTime,
	}
}

// step bounds one pipeline step.
func (o *Orchestrator) step(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, o.stepTime)
}

// Request is one comprehensive analysis. JobDescription takes precedence over
// JobURL; with neither, a general analysis is run.
type Request struct {
	Filename       string
	Content        []byte
	JobDescription string
	JobURL         string
}

// Report is the outcome of Analyze.
type Report struct {
	Analysis *types.CandidateAnalysis
	Details  types.AnalysisDetails
	Stages   []Stage
}

// Analyze stores the resume, scores it against the requested job and deletes
// the stored file before returning, whatever the outcome.
func (o *Orchestrator) Analyze(ctx context.Context, req Request) (*Report, error) {
	// A client disconnect does not abort the pipeline; each step is bounded by
	// the step timeout instead.
	ctx = context.WithoutCancel(ctx)

	log := o.logger.With(zap.String("request_id", uuid.NewString()), zap.String("filename", req.Filename))
	t := newTracker(log)

	jobText := strings.TrimSpace(req.JobDescription)
	if jobText != "" && tooShort(jobText) {
		err := &ValidationError{Message: "Job description is too short (minimum 50 characters)"}
		t.fail(err)
		return nil, err
	}

	fileID, err := o.store.Save(req.Filename, req.Content)
	if err != nil {
		t.fail(err)
		return nil, err
	}
	t.advance(StageFileSaved)

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			if !o.store.Delete(fileID) {
				log.Warn("uploaded file was already gone", zap.String("file_id", fileID))
			}
		})
	}
	defer cleanup()

	resume, err := o.readResume(ctx, fileID, t)
	if err != nil {
		t.fail(err)
		return nil, err
	}

	jobCtx, cancelJob := o.step(ctx)
	job, err := o.resolveJob(jobCtx, jobText, strings.TrimSpace(req.JobURL), log)
	cancelJob()
	if err != nil {
		t.fail(err)
		return nil, err
	}
	t.advance(StageJobResolved)

	enrichCtx, cancelEnrich := o.step(ctx)
	profile := o.enrich(enrichCtx, resume, log)
	cancelEnrich()

	scoreCtx, cancelScore := o.step(ctx)
	result, err := o.scorer.Score(scoreCtx, resume, job, profile)
	cancelScore()
	if err != nil {
		t.fail(err)
		return nil, err
	}
	t.advance(StageScored)

	analysis := &types.CandidateAnalysis{
		CandidateName:     resume.DisplayName(),
		ResumeData:        resume,
		JobDescription:    job,
		ProfileEnrichment: profile,
		ScoreBreakdown:    result.Breakdown,
		Recommendations:   result.Recommendations,
		RedFlags:          result.RedFlags,
		AnalysisTimestamp: time.Now().UTC(),
	}

	cleanup()
	t.advance(StageResponded)
	log.Info("analysis completed",
		zap.String("candidate", analysis.CandidateName),
		zap.String("job", job.Title),
		zap.Float64("total_score", analysis.ScoreBreakdown.TotalScore),
		zap.Duration("elapsed", time.Since(t.started)),
	)
	return &Report{Analysis: analysis, Details: result.Details, Stages: t.stages}, nil
}

// readResume extracts and parses the stored file.
func (o *Orchestrator) readResume(ctx context.Context, fileID string, t *tracker) (*types.ResumeRecord, error) {
	path, ok := o.store.Resolve(fileID)
	if !ok {
		return nil, &NotFoundError{ID: fileID}
	}

	extractCtx, cancelExtract := o.step(ctx)
	text, err := o.text.ExtractText(extractCtx, path, strings.TrimPrefix(filepath.Ext(path), "."))
	cancelExtract()
	if err != nil {
		return nil, err
	}
	t.advance(StageTextExtracted)

	parseCtx, cancelParse := o.step(ctx)
	resume, err := o.parser.ParseResume(parseCtx, text)
	cancelParse()
	if err != nil {
		return nil, err
	}
	t.advance(StageResumeParsed)
	return resume, nil
}

// resolveJob is the single job acquisition strategy: parse supplied text, else
// read the posting URL with a placeholder on failure, else a general placeholder.
func (o *Orchestrator) resolveJob(ctx context.Context, jobText, jobURL string, log *zap.Logger) (*types.JobDescriptionRecord, error) {
	switch {
	case jobText != "":
		if jobURL != "" {
			log.Debug("job description text supplied, ignoring job URL", zap.String("job_url", jobURL))
		}
		return o.parser.ParseJobDescription(ctx, jobText)
	case jobURL != "":
		job, err := o.ExtractJob(ctx, jobURL)
		if err != nil {
			log.Warn("job posting unavailable, using placeholder", zap.String("job_url", jobURL), zap.Error(err))
			return unreachableJob(), nil
		}
		return job, nil
	default:
		return generalJob(), nil
	}
}

func (o *Orchestrator) enrich(ctx context.Context, resume *types.ResumeRecord, log *zap.Logger) *types.ProfileEnrichment {
	if o.enricher == nil || !resume.HasProfileURLs() {
		return nil
	}
	profile, _ := o.enricher.Fetch(ctx, enrichment.RequestFromResume(resume))
	if profile.Empty() {
		log.Debug("no profile enrichment available")
		return nil
	}
	return &profile
}

// UploadResult is the outcome of UploadResume.
type UploadResult struct {
	FileID string
	Resume *types.ResumeRecord
}

// UploadResume stores and parses a resume. The file is kept on success so the
// caller can clean it up later, and removed on failure.
func (o *Orchestrator) UploadResume(ctx context.Context, filename string, content []byte) (*UploadResult, error) {
	ctx = context.WithoutCancel(ctx)
	log := o.logger.With(zap.String("filename", filename))
	t := newTracker(log)

	fileID, err := o.store.Save(filename, content)
	if err != nil {
		t.fail(err)
		return nil, err
	}
	t.advance(StageFileSaved)

	resume, err := o.readResume(ctx, fileID, t)
	if err != nil {
		o.store.Delete(fileID)
		t.fail(err)
		return nil, err
	}
	t.advance(StageResponded)
	return &UploadResult{FileID: fileID, Resume: resume}, nil
}

// ExtractJob reads a job posting page and parses it into a record.
func (o *Orchestrator) ExtractJob(ctx context.Context, jobURL string) (*types.JobDescriptionRecord, error) {
	jobURL = strings.TrimSpace(jobURL)
	if jobURL == "" {
		return nil, &ValidationError{Message: "Job URL is required"}
	}
	if o.pages == nil {
		return nil, errors.New("job page fetching is not configured")
	}

	ctx, cancel := o.step(ctx)
	defer cancel()

	page, err := o.pages.IngestJobPage(ctx, jobURL)
	if err != nil {
		return nil, fmt.Errorf("failed to read job posting: %w", err)
	}
	job, err := o.parser.ParseJobPosting(ctx, jobURL, page.Text)
	if err != nil {
		return nil, err
	}
	if page.Metadata != nil {
		job.Source = page.Metadata.JobSource()
		o.logger.Debug("job posting parsed",
			zap.String("url", jobURL),
			zap.String("platform", page.Metadata.Platform),
			zap.String("hash", page.Metadata.Hash),
			zap.Bool("truncated", page.Metadata.Truncated),
		)
	}
	return job, nil
}

// ValidationReport summarises a job description that passed validation.
type ValidationReport struct {
	Title                string `json:"title"`
	Company              string `json:"company"`
	DescriptionLength    int    `json:"description_length"`
	RequiredSkillsCount  int    `json:"required_skills_count"`
	PreferredSkillsCount int    `json:"preferred_skills_count"`
}

// ValidateJob checks a caller-supplied job description without calling the LLM.
func (o *Orchestrator) ValidateJob(job *types.JobDescriptionRecord) (*ValidationReport, error) {
	if job == nil {
		return nil, &ValidationError{Message: "Job description is required"}
	}
	if err := job.Validate(); err != nil {
		return nil, validationMessage(err)
	}
	return &ValidationReport{
		Title:                job.Title,
		Company:              job.Company,
		DescriptionLength:    utf8.RuneCountInString(job.Description),
		RequiredSkillsCount:  len(job.RequiredSkills),
		PreferredSkillsCount: len(job.PreferredSkills),
	}, nil
}

// validationMessage reports the first failing field in title, company,
// description order.
func validationMessage(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	failed := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		failed[fe.Field()] = fe.Tag()
	}
	switch {
	case failed["Title"] != "":
		return &ValidationError{Message: "Job title is required"}
	case failed["Company"] != "":
		return &ValidationError{Message: "Company name is required"}
	case failed["Description"] == "required":
		return &ValidationError{Message: "Job description is required"}
	default:
		return &ValidationError{Message: "Job description is too short (minimum 50 characters)"}
	}
}

// Cleanup deletes one stored upload.
func (o *Orchestrator) Cleanup(fileID string) error {
	if !o.store.Delete(fileID) {
		return &NotFoundError{ID: fileID}
	}
	return nil
}

// BulkCleanup deletes uploads at least maxAgeHours old and returns how many.
func (o *Orchestrator) BulkCleanup(maxAgeHours float64) int {
	deleted := o.store.DeleteOlderThan(maxAgeHours)
	o.logger.Info("bulk cleanup finished", zap.Float64("max_age_hours", maxAgeHours), zap.Int("deleted", deleted))
	return deleted
}

// Enrich looks up the requested profiles directly.
func (o *Orchestrator) Enrich(ctx context.Context, req enrichment.Request) (types.ProfileEnrichment, error) {
	if o.enricher == nil {
		return types.ProfileEnrichment{}, ErrEnrichmentDisabled
	}
	if req.Empty() {
		return types.ProfileEnrichment{}, &ValidationError{Message: "At least one profile URL is required"}
	}
	ctx, cancel := o.step(context.WithoutCancel(ctx))
	defer cancel()
	profile, _ := o.enricher.Fetch(ctx, req)
	return profile, nil
}
