package scoring

import (
	"fmt"
	"math"
	"strings"
)

// Category is one scored dimension of the fit assessment.
type Category struct {
	Key         string
	Label       string
	Max         float64
	Description string
}

// Rubric lists the scored categories. Their budgets sum to MaxTotal.
var Rubric = []Category{
	{Key: "skills_alignment", Label: "Skills Alignment", Max: 30, Description: "overlap between the candidate's skills and the required and preferred skills"},
	{Key: "experience_match", Label: "Experience Match", Max: 30, Description: "relevance, seniority and recency of work experience"},
	{Key: "resume_match", Label: "Resume Match", Max: 20, Description: "how well the resume as a whole matches the job requirements"},
	{Key: "education_fit", Label: "Education Fit", Max: 20, Description: "alignment of degrees and certifications with the education requirements"},
}

// MaxTotal caps the overall score.
const MaxTotal = 100

// RubricText renders the rubric for the scoring prompt.
func RubricText() string {
	var sb strings.Builder
	for _, c := range Rubric {
		fmt.Fprintf(&sb, "- %s (%s): 0-%g points (%s)\n", c.Label, c.Key, c.Max, c.Description)
	}
	return sb.String()
}

// clamp bounds v to [0, limit]; NaN becomes 0.
func clamp(v, limit float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > limit:
		return limit
	default:
		return v
	}
}

// round2 keeps scores readable in responses.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
