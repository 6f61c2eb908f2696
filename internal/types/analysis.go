package types

import "time"

// ScoreBreakdown holds the bounded sub-scores and their sum.
type ScoreBreakdown struct {
	ResumeMatch     float64 `json:"resume_match"`
	SkillsAlignment float64 `json:"skills_alignment"`
	ExperienceMatch float64 `json:"experience_match"`
	EducationFit    float64 `json:"education_fit"`
	TotalScore      float64 `json:"total_score"`
	Explanation     string  `json:"explanation"`
}

// SkillsComparison contrasts the candidate's skills with the job's.
type SkillsComparison struct {
	MatchedSkills    []string `json:"matched_skills"`
	MissingSkills    []string `json:"missing_skills"`
	AdditionalSkills []string `json:"additional_skills"`
}

// CandidateAnalysis is the unit returned to API callers. It is not mutated after construction.
type CandidateAnalysis struct {
	CandidateName     string                `json:"candidate_name"`
	ResumeData        *ResumeRecord         `json:"resume_data"`
	JobDescription    *JobDescriptionRecord `json:"job_description"`
	ProfileEnrichment *ProfileEnrichment    `json:"profile_enrichment"`
	ScoreBreakdown    ScoreBreakdown        `json:"score_breakdown"`
	Recommendations   []string              `json:"recommendations"`
	RedFlags          []string              `json:"red_flags"`
	AnalysisTimestamp time.Time             `json:"analysis_timestamp"`
}

// AnalysisDetails carries the narrative fields that do not belong on CandidateAnalysis.
type AnalysisDetails struct {
	Strengths                   []string         `json:"strengths"`
	Weaknesses                  []string         `json:"weaknesses"`
	MissingSkills               []string         `json:"missing_skills"`
	FitAssessment               string           `json:"fit_assessment"`
	SuggestedInterviewQuestions []string         `json:"suggested_interview_questions"`
	SkillsComparison            SkillsComparison `json:"skills_comparison"`
}
