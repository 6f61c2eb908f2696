package types

// ProfileEnrichment bundles the optional third-party profile snapshots.
// A nil snapshot means the source was not requested or could not be fetched.
type ProfileEnrichment struct {
	LinkedIn  *LinkedInSnapshot  `json:"linkedin"`
	GitHub    *GitHubSnapshot    `json:"github"`
	Portfolio *PortfolioSnapshot `json:"portfolio"`
}

// Empty reports whether no snapshot is present.
func (p *ProfileEnrichment) Empty() bool {
	return p == nil || (p.LinkedIn == nil && p.GitHub == nil && p.Portfolio == nil)
}

// LinkedInSnapshot is whatever could be read from a public LinkedIn page.
type LinkedInSnapshot struct {
	URL            string              `json:"url"`
	Headline       string              `json:"headline,omitempty"`
	Summary        string              `json:"summary,omitempty"`
	Experience     []map[string]string `json:"experience"`
	Education      []map[string]string `json:"education"`
	Skills         []string            `json:"skills"`
	Endorsements   map[string]int      `json:"endorsements"`
	Connections    *int                `json:"connections,omitempty"`
	Certifications []string            `json:"certifications"`
}

// GitHubSnapshot summarises a GitHub user and their public repositories.
type GitHubSnapshot struct {
	Username          string            `json:"username"`
	Name              string            `json:"name,omitempty"`
	Bio               string            `json:"bio,omitempty"`
	PublicRepos       int               `json:"public_repos"`
	Followers         int               `json:"followers"`
	Following         int               `json:"following"`
	Repositories      []GitHubRepo      `json:"repositories"`
	Languages         map[string]int    `json:"languages"`
	ContributionStats ContributionStats `json:"contribution_stats"`
	TopRepositories   []GitHubRepo      `json:"top_repositories"`
}

// GitHubRepo is the subset of repository fields kept in a snapshot.
type GitHubRepo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Language    string `json:"language,omitempty"`
	Stars       int    `json:"stars"`
	Forks       int    `json:"forks"`
	UpdatedAt   string `json:"updated_at,omitempty"`
	URL         string `json:"url"`
}

// ContributionStats are derived from the repository list.
type ContributionStats struct {
	TotalRepos    int    `json:"total_repos"`
	LanguagesUsed int    `json:"languages_used"`
	TopLanguage   string `json:"top_language,omitempty"`
}

// PortfolioSnapshot is the heuristic extract of a personal website.
type PortfolioSnapshot struct {
	URL          string            `json:"url"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Technologies []string          `json:"technologies"`
	Projects     []PortfolioItem   `json:"projects"`
	ContactInfo  ContactInfo       `json:"contact_info"`
	MetaTags     map[string]string `json:"meta_tags"`
}

// PortfolioItem is a detected project section.
type PortfolioItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ContactInfo collects contact details found on a portfolio page.
type ContactInfo struct {
	Email       string            `json:"email,omitempty"`
	SocialLinks map[string]string `json:"social_links"`
}
