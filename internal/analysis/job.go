package analysis

import (
	"unicode/utf8"

	"github.com/SomeshSampat2/AgentHire/internal/types"
)

// unreachableJob stands in for a posting whose URL could not be read or parsed.
func unreachableJob() *types.JobDescriptionRecord {
	j := types.NewJobDescriptionRecord()
	j.Title = "Position Analysis"
	j.Company = "Unknown Company"
	j.Description = "Job description could not be extracted from the provided URL. Manual review recommended."
	return j
}

// generalJob is used when the caller supplies no job at all.
func generalJob() *types.JobDescriptionRecord {
	j := types.NewJobDescriptionRecord()
	j.Title = "General Analysis"
	j.Company = "No Company Specified"
	j.Description = "General resume analysis without specific job requirements."
	return j
}

func tooShort(description string) bool {
	return utf8.RuneCountInString(description) < types.MinDescriptionLength
}
