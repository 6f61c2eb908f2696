package scoring

import (
	"fmt"
	"strings"

	"github.com/SomeshSampat2/AgentHire/internal/types"
)

// EnrichmentSummary condenses profile snapshots into a prompt section.
// It is empty when there is nothing to add.
func EnrichmentSummary(p *types.ProfileEnrichment) string {
	if p.Empty() {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("PROFILE ENRICHMENT:\n")

	if gh := p.GitHub; gh != nil {
		fmt.Fprintf(&sb, "GitHub (%s): %d public repositories, %d followers", gh.Username, gh.PublicRepos, gh.Followers)
		if gh.ContributionStats.TopLanguage != "" {
			fmt.Fprintf(&sb, ", top language %s", gh.ContributionStats.TopLanguage)
		}
		sb.WriteString("\n")
		for i, repo := range gh.TopRepositories {
			if i == 5 {
				break
			}
			fmt.Fprintf(&sb, "  - %s (%s, %d stars)\n", repo.Name, orNotSpecified(repo.Language), repo.Stars)
		}
	}

	if li := p.LinkedIn; li != nil && (li.Headline != "" || li.Summary != "") {
		fmt.Fprintf(&sb, "LinkedIn: %s\n", strings.TrimSpace(li.Headline+" "+li.Summary))
	}

	if pf := p.Portfolio; pf != nil {
		fmt.Fprintf(&sb, "Portfolio (%s): %s", pf.URL, orNotSpecified(pf.Title))
		if len(pf.Technologies) > 0 {
			fmt.Fprintf(&sb, "; technologies mentioned: %s", strings.Join(pf.Technologies, ", "))
		}
		if len(pf.Projects) > 0 {
			fmt.Fprintf(&sb, "; %d project sections", len(pf.Projects))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
