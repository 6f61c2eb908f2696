// Package observability provides formatted output utilities for the command line.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/SomeshSampat2/AgentHire/internal/scoring"
	"github.com/SomeshSampat2/AgentHire/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// barWidth is the width of a full score bar
	barWidth = 20
)

// Printer handles formatted output of analysis results
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if utf8.RuneCountInString(line) > boxWidth-4 {
			line = string([]rune(line)[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// writeList appends up to limit items under a heading.
func writeList(sb *strings.Builder, heading string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading + ":\n")
	count := min(len(items), limit)
	for i := 0; i < count; i++ {
		fmt.Fprintf(sb, "  • %s\n", items[i])
	}
	if len(items) > limit {
		fmt.Fprintf(sb, "  ... and %d more\n", len(items)-limit)
	}
	sb.WriteString("\n")
}

// scoreBar renders value out of limit as a fixed-width bar.
func scoreBar(value, limit float64) string {
	filled := 0
	if limit > 0 {
		filled = int(value / limit * barWidth)
	}
	filled = max(0, min(filled, barWidth))
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

// PrintCandidate outputs a summary of the parsed resume.
func (p *Printer) PrintCandidate(resume *types.ResumeRecord) {
	if resume == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Name:     %s\n", resume.DisplayName())
	if resume.Email != "" {
		fmt.Fprintf(&sb, "Email:    %s\n", resume.Email)
	}
	if resume.Location != "" {
		fmt.Fprintf(&sb, "Location: %s\n", resume.Location)
	}
	sb.WriteString("\n")

	if len(resume.Experience) > 0 {
		sb.WriteString("Experience:\n")
		count := min(len(resume.Experience), 3)
		for i := 0; i < count; i++ {
			exp := resume.Experience[i]
			fmt.Fprintf(&sb, "  • %s", exp.Title)
			if exp.Company != "" {
				fmt.Fprintf(&sb, " at %s", exp.Company)
			}
			if exp.Duration != "" {
				fmt.Fprintf(&sb, " (%s)", exp.Duration)
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	writeList(&sb, "Skills", resume.Skills, maxItemsToShow)

	p.printBox("CANDIDATE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintJob outputs a summary of the job description.
func (p *Printer) PrintJob(job *types.JobDescriptionRecord) {
	if job == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Company:  %s\n", job.Company)
	fmt.Fprintf(&sb, "Role:     %s\n", job.Title)
	if job.Location != "" {
		fmt.Fprintf(&sb, "Location: %s\n", job.Location)
	}
	sb.WriteString("\n")
	writeList(&sb, "Required Skills", job.RequiredSkills, maxItemsToShow)
	writeList(&sb, "Preferred Skills", job.PreferredSkills, 3)

	p.printBox("JOB", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintScore outputs the score breakdown with one bar per rubric dimension.
func (p *Printer) PrintScore(score types.ScoreBreakdown, fit string) {
	values := map[string]float64{
		"skills_alignment": score.SkillsAlignment,
		"experience_match": score.ExperienceMatch,
		"resume_match":     score.ResumeMatch,
		"education_fit":    score.EducationFit,
	}

	var sb strings.Builder
	for _, c := range scoring.Rubric {
		v := values[c.Key]
		fmt.Fprintf(&sb, "%-18s %s %5.1f/%g\n", c.Label, scoreBar(v, c.Max), v, c.Max)
	}
	fmt.Fprintf(&sb, "\nTotal: %.1f/%d\n", score.TotalScore, scoring.MaxTotal)
	fmt.Fprintf(&sb, "Fit:   %s", fit)

	p.printBox("SCORE", sb.String())
}

// PrintAssessment outputs the narrative parts of an analysis.
func (p *Printer) PrintAssessment(analysis *types.CandidateAnalysis, details types.AnalysisDetails) {
	if analysis == nil {
		return
	}

	var sb strings.Builder
	writeList(&sb, "Strengths", details.Strengths, maxItemsToShow)
	writeList(&sb, "Missing Skills", details.SkillsComparison.MissingSkills, maxItemsToShow)
	writeList(&sb, "Recommendations", analysis.Recommendations, maxItemsToShow)
	writeList(&sb, "Red Flags", analysis.RedFlags, maxItemsToShow)
	writeList(&sb, "Interview Questions", details.SuggestedInterviewQuestions, 3)
	if sb.Len() == 0 {
		sb.WriteString("No assessment notes")
	}

	p.printBox("ASSESSMENT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintAnalysis outputs every section of a completed analysis.
func (p *Printer) PrintAnalysis(analysis *types.CandidateAnalysis, details types.AnalysisDetails) {
	if analysis == nil {
		return
	}
	p.PrintCandidate(analysis.ResumeData)
	p.PrintJob(analysis.JobDescription)
	p.PrintScore(analysis.ScoreBreakdown, details.FitAssessment)
	p.PrintAssessment(analysis, details)
}
