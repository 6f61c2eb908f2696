// Package scoring asks the LLM to assess a candidate against a job and turns
// its reply into a bounded score breakdown plus narrative details.
package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/SomeshSampat2/AgentHire/internal/llm"
	"github.com/SomeshSampat2/AgentHire/internal/logger"
	"github.com/SomeshSampat2/AgentHire/internal/parsing"
	"github.com/SomeshSampat2/AgentHire/internal/prompts"
	"github.com/SomeshSampat2/AgentHire/internal/schemas"
	"github.com/SomeshSampat2/AgentHire/internal/types"
)

// Options is the generation budget for a scoring call.
var Options = llm.JSONOptions(0.2, 4000)

// UnknownFit is reported when the model gives no fit assessment.
const UnknownFit = "UNKNOWN"

// AnalysisError means the model's assessment could not be used.
type AnalysisError struct {
	Message string
	Cause   error
}

func (e *AnalysisError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AnalysisError) Unwrap() error {
	return e.Cause
}

// Result is a parsed assessment.
type Result struct {
	Breakdown       types.ScoreBreakdown
	Details         types.AnalysisDetails
	Recommendations []string
	RedFlags        []string
}

// Engine scores candidates with an LLM.
type Engine struct {
	client llm.Client
	logger *zap.Logger
	opts   llm.GenerateOptions
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithGenerateOptions overrides the scoring temperature and token budget.
func WithGenerateOptions(opts llm.GenerateOptions) EngineOption {
	return func(e *Engine) {
		opts.JSON = true
		e.opts = opts
	}
}

// NewEngine returns an Engine using client.
func NewEngine(client llm.Client, log *zap.Logger, opts ...EngineOption) *Engine {
	e := &Engine{client: client, logger: logger.OrNop(log).Named("scoring"), opts: Options}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Score assesses resume against job. enrichment may be nil.
func (e *Engine) Score(ctx context.Context, resume *types.ResumeRecord, job *types.JobDescriptionRecord, enrichment *types.ProfileEnrichment) (*Result, error) {
	prompt, err := buildPrompt(resume, job, enrichment)
	if err != nil {
		return nil, err
	}

	obj, err := parsing.GenerateObject(ctx, e.client, prompt, e.opts, schemas.Analysis, e.logger)
	var (
		parseErr *parsing.ParseError
		verr     *parsing.ValidationError
	)
	switch {
	case errors.As(err, &parseErr):
		return nil, &AnalysisError{Message: "Failed to parse analysis results", Cause: err}
	case errors.As(err, &verr):
		if missing := missingMandatory(obj); len(missing) > 0 {
			e.logger.Warn("analysis is missing mandatory fields", zap.Strings("fields", missing))
			return nil, &AnalysisError{Message: "Analysis response is missing required fields: " + strings.Join(missing, ", ")}
		}
		e.logger.Debug("coercing analysis fields", zap.String("field", verr.Field), zap.String("reason", verr.Message))
	case err != nil:
		return nil, err
	}

	result := resultFromObject(obj)
	if reported := parsing.CoerceFloat(obj["overall_score"]); !math.IsNaN(reported) && math.Abs(reported-result.Breakdown.TotalScore) > 1 {
		e.logger.Debug("model total differs from category sum",
			zap.Float64("reported", reported),
			zap.Float64("computed", result.Breakdown.TotalScore),
		)
	}

	e.logger.Info("candidate scored",
		zap.String("candidate", resume.DisplayName()),
		zap.String("job", job.Title),
		zap.Float64("total_score", result.Breakdown.TotalScore),
		zap.String("fit", result.Details.FitAssessment),
	)
	return result, nil
}

func missingMandatory(obj map[string]any) []string {
	var missing []string
	if _, ok := obj["skills_comparison"].(map[string]any); !ok {
		missing = append(missing, "skills_comparison")
	}
	if _, ok := obj["detailed_analysis"].(string); !ok {
		missing = append(missing, "detailed_analysis")
	}
	return missing
}

func resultFromObject(obj map[string]any) *Result {
	scores := parsing.CoerceMap(obj["score_breakdown"])
	values := make(map[string]float64, len(Rubric))
	total := 0.0
	for _, c := range Rubric {
		v := round2(clamp(parsing.CoerceFloat(scores[c.Key]), c.Max))
		values[c.Key] = v
		total += v
	}

	comparison := parsing.CoerceMap(obj["skills_comparison"])
	fit := strings.ToUpper(parsing.CoerceString(obj["fit_assessment"]))
	if fit == "" {
		fit = UnknownFit
	}

	recommendations := parsing.CoerceStringList(obj["hr_recommendations"])
	if len(recommendations) == 0 {
		recommendations = parsing.CoerceStringList(obj["recommendations"])
	}

	return &Result{
		Breakdown: types.ScoreBreakdown{
			SkillsAlignment: values["skills_alignment"],
			ExperienceMatch: values["experience_match"],
			ResumeMatch:     values["resume_match"],
			EducationFit:    values["education_fit"],
			TotalScore:      round2(clamp(total, MaxTotal)),
			Explanation:     parsing.CoerceString(obj["detailed_analysis"]),
		},
		Details: types.AnalysisDetails{
			Strengths:                   parsing.CoerceStringList(obj["strengths"]),
			Weaknesses:                  parsing.CoerceStringList(obj["weaknesses"]),
			MissingSkills:               parsing.CoerceStringList(obj["missing_skills"]),
			FitAssessment:               fit,
			SuggestedInterviewQuestions: parsing.CoerceStringList(obj["suggested_interview_questions"]),
			SkillsComparison: types.SkillsComparison{
				MatchedSkills:    parsing.CoerceStringList(comparison["matched_skills"]),
				MissingSkills:    parsing.CoerceStringList(comparison["missing_skills"]),
				AdditionalSkills: parsing.CoerceStringList(comparison["additional_skills"]),
			},
		},
		Recommendations: recommendations,
		RedFlags:        parsing.CoerceStringList(obj["red_flags"]),
	}
}

func buildPrompt(resume *types.ResumeRecord, job *types.JobDescriptionRecord, enrichment *types.ProfileEnrichment) (string, error) {
	return prompts.Render(prompts.ScoringFile, prompts.KeyAnalysis, map[string]string{
		"Name":                  orNotSpecified(resume.Name),
		"Email":                 orNotSpecified(resume.Email),
		"Summary":               orNotSpecified(resume.Summary),
		"Skills":                joinOrNone(resume.Skills),
		"Experience":            toJSON(resume.Experience),
		"Education":             toJSON(resume.Education),
		"Projects":              toJSON(resume.Projects),
		"Certifications":        joinOrNone(resume.Certifications),
		"Enrichment":            EnrichmentSummary(enrichment),
		"Title":                 orNotSpecified(job.Title),
		"Company":               orNotSpecified(job.Company),
		"Description":           orNotSpecified(job.Description),
		"RequiredSkills":        joinOrNone(job.RequiredSkills),
		"PreferredSkills":       joinOrNone(job.PreferredSkills),
		"ExperienceLevel":       orNotSpecified(job.ExperienceLevel),
		"EducationRequirements": joinOrNone(job.EducationRequirements),
		"Rubric":                RubricText(),
	})
}

func orNotSpecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Not specified"
	}
	return s
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "None listed"
	}
	return strings.Join(items, ", ")
}

func toJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "[]"
	}
	return string(b)
}
