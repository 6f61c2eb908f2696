package enrichment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/SomeshSampat2/AgentHire/internal/types"
)

const (
	maxRepos    = 100
	maxTopRepos = 10
)

type githubUser struct {
	Name        string `json:"name"`
	Bio         string `json:"bio"`
	PublicRepos int    `json:"public_repos"`
	Followers   int    `json:"followers"`
	Following   int    `json:"following"`
}

type githubRepo struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	Language        string `json:"language"`
	StargazersCount int    `json:"stargazers_count"`
	ForksCount      int    `json:"forks_count"`
	UpdatedAt       string `json:"updated_at"`
	HTMLURL         string `json:"html_url"`
}

// GitHubUsername returns the account name from a github.com profile URL.
func GitHubUsername(profileURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(profileURL))
	if err != nil {
		return "", fmt.Errorf("invalid GitHub URL: %w", err)
	}
	host := strings.ToLower(u.Hostname())
	if host != "github.com" && !strings.HasSuffix(host, ".github.com") {
		return "", fmt.Errorf("not a GitHub URL: %s", profileURL)
	}
	for _, part := range strings.Split(u.Path, "/") {
		if part != "" {
			return part, nil
		}
	}
	return "", errors.New("could not extract GitHub username from URL")
}

// gitHub reads the user profile and repositories from the REST API. Without
// the user profile there is no snapshot; without the repository list the
// snapshot carries profile fields only.
func (f *Fetcher) gitHub(ctx context.Context, profileURL string) (*types.GitHubSnapshot, error) {
	username, err := GitHubUsername(profileURL)
	if err != nil {
		return nil, err
	}
	base := strings.TrimRight(f.githubBase, "/")
	escaped := url.PathEscape(username)

	var user githubUser
	if err := f.getJSON(ctx, fmt.Sprintf("%s/users/%s", base, escaped), &user); err != nil {
		return nil, err
	}

	snapshot := &types.GitHubSnapshot{
		Username:        username,
		Name:            user.Name,
		Bio:             user.Bio,
		PublicRepos:     user.PublicRepos,
		Followers:       user.Followers,
		Following:       user.Following,
		Repositories:    []types.GitHubRepo{},
		Languages:       map[string]int{},
		TopRepositories: []types.GitHubRepo{},
	}

	var repos []githubRepo
	reposURL := fmt.Sprintf("%s/users/%s/repos?sort=updated&per_page=%d", base, escaped, maxRepos)
	if err := f.getJSON(ctx, reposURL, &repos); err != nil {
		f.logger.Warn("GitHub repositories unavailable", zap.String("username", username), zap.Error(err))
		repos = nil
	}
	summarizeRepos(snapshot, repos)

	f.logger.Info("GitHub profile fetched", zap.String("username", username), zap.Int("repos", len(snapshot.Repositories)))
	return snapshot, nil
}

func (f *Fetcher) getJSON(ctx context.Context, apiURL string, v any) error {
	result, err := f.api.Get(ctx, apiURL)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(result.HTML), v); err != nil {
		return fmt.Errorf("invalid GitHub API response from %s: %w", apiURL, err)
	}
	return nil
}

// summarizeRepos fills the repository list, the language histogram, the
// top repositories by stars and the contribution stats.
func summarizeRepos(s *types.GitHubSnapshot, repos []githubRepo) {
	if len(repos) > maxRepos {
		repos = repos[:maxRepos]
	}

	var order []string
	for _, r := range repos {
		repo := types.GitHubRepo{
			Name:        r.Name,
			Description: r.Description,
			Language:    r.Language,
			Stars:       r.StargazersCount,
			Forks:       r.ForksCount,
			UpdatedAt:   r.UpdatedAt,
			URL:         r.HTMLURL,
		}
		s.Repositories = append(s.Repositories, repo)
		if r.Language != "" {
			if _, seen := s.Languages[r.Language]; !seen {
				order = append(order, r.Language)
			}
			s.Languages[r.Language]++
		}
		if repo.Stars > 0 {
			s.TopRepositories = append(s.TopRepositories, repo)
		}
	}

	sort.SliceStable(s.TopRepositories, func(i, j int) bool {
		return s.TopRepositories[i].Stars > s.TopRepositories[j].Stars
	})
	if len(s.TopRepositories) > maxTopRepos {
		s.TopRepositories = s.TopRepositories[:maxTopRepos]
	}

	// Ties go to the language seen first, i.e. the more recently updated one.
	top := ""
	for _, lang := range order {
		if top == "" || s.Languages[lang] > s.Languages[top] {
			top = lang
		}
	}
	s.ContributionStats = types.ContributionStats{
		TotalRepos:    s.PublicRepos,
		LanguagesUsed: len(s.Languages),
		TopLanguage:   top,
	}
}
