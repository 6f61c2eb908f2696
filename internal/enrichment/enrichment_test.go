package enrichment

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SomeshSampat2/AgentHire/internal/types"
)

const portfolioHTML = `<!DOCTYPE html>
<html>
<head>
  <title>Jane Doe | Engineer</title>
  <meta name="description" content="Backend engineer building Python services">
  <meta property="og:title" content="Jane Doe">
</head>
<body>
  <div class="hero"><p>I build things with Python and Docker.</p></div>
  <section class="projects-list">
    <h2>Payroll Engine</h2>
    <p>Batch payroll on Kubernetes.</p>
  </section>
  <div class="work-item"><p>No heading here</p></div>
  <p>Reach me at Jane.Doe@example.com</p>
  <a href="https://www.linkedin.com/in/janedoe">LinkedIn</a>
  <a href="https://github.com/janedoe">GitHub</a>
</body>
</html>`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/users/janedoe", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, `{"login":"janedoe","name":"Jane Doe","bio":"Builder","public_repos":3,"followers":10,"following":2}`)
	})
	mux.HandleFunc("/users/janedoe/repos", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "updated", r.URL.Query().Get("sort"))
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))
		_, _ = fmt.Fprint(w, `[
			{"name":"api","language":"Go","stargazers_count":5,"forks_count":1,"html_url":"https://github.com/janedoe/api"},
			{"name":"ml","language":"Python","stargazers_count":12,"html_url":"https://github.com/janedoe/ml"},
			{"name":"cli","language":"Go","stargazers_count":0,"html_url":"https://github.com/janedoe/cli"}
		]`)
	})
	mux.HandleFunc("/in/janedoe", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, `<html><body><h2 class="text-heading-large"> Staff Engineer </h2>
			<section data-section="summary">Ten years of distributed systems.</section></body></html>`)
	})
	mux.HandleFunc("/in/private", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	mux.HandleFunc("/portfolio", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, portfolioHTML)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestFetcher(server *httptest.Server) *Fetcher {
	return NewFetcher(Config{Timeout: 5 * time.Second, GitHubAPIBase: server.URL}, nil, nil)
}

func TestFetch_AllSources(t *testing.T) {
	server := newTestServer(t)
	f := newTestFetcher(server)

	enrichment, outcomes := f.Fetch(context.Background(), Request{
		LinkedInURL:  server.URL + "/in/janedoe",
		GitHubURL:    "https://github.com/janedoe",
		PortfolioURL: server.URL + "/portfolio",
	})

	require.True(t, outcomes.LinkedIn.Available())
	require.True(t, outcomes.GitHub.Available())
	require.True(t, outcomes.Portfolio.Available())

	require.NotNil(t, enrichment.LinkedIn)
	assert.Equal(t, "Staff Engineer", enrichment.LinkedIn.Headline)
	assert.Equal(t, "Ten years of distributed systems.", enrichment.LinkedIn.Summary)

	gh := enrichment.GitHub
	require.NotNil(t, gh)
	assert.Equal(t, "janedoe", gh.Username)
	assert.Equal(t, "Jane Doe", gh.Name)
	assert.Len(t, gh.Repositories, 3)
	assert.Equal(t, map[string]int{"Go": 2, "Python": 1}, gh.Languages)
	require.Len(t, gh.TopRepositories, 2)
	assert.Equal(t, "ml", gh.TopRepositories[0].Name)
	assert.Equal(t, "api", gh.TopRepositories[1].Name)
	assert.Equal(t, types.ContributionStats{TotalRepos: 3, LanguagesUsed: 2, TopLanguage: "Go"}, gh.ContributionStats)

	pf := enrichment.Portfolio
	require.NotNil(t, pf)
	assert.Equal(t, "Jane Doe | Engineer", pf.Title)
	assert.Equal(t, "Backend engineer building Python services", pf.Description)
	assert.Contains(t, pf.Technologies, "Python")
	assert.Contains(t, pf.Technologies, "Docker")
	assert.Contains(t, pf.Technologies, "Kubernetes")
	assert.NotContains(t, pf.Technologies, "Rust")
	require.Len(t, pf.Projects, 1)
	assert.Equal(t, "Payroll Engine", pf.Projects[0].Title)
	assert.Contains(t, pf.Projects[0].Description, "Batch payroll")
	assert.Equal(t, "jane.doe@example.com", pf.ContactInfo.Email)
	assert.Equal(t, "https://www.linkedin.com/in/janedoe", pf.ContactInfo.SocialLinks["linkedin"])
	assert.Equal(t, "https://github.com/janedoe", pf.ContactInfo.SocialLinks["github"])
	assert.Equal(t, "Jane Doe", pf.MetaTags["og:title"])
	assert.Equal(t, "Backend engineer building Python services", pf.MetaTags["description"])
}

func TestFetch_OnlyRequestedSources(t *testing.T) {
	server := newTestServer(t)
	f := newTestFetcher(server)

	enrichment, outcomes := f.Fetch(context.Background(), Request{GitHubURL: "https://github.com/janedoe"})

	assert.Nil(t, enrichment.LinkedIn)
	assert.Nil(t, enrichment.Portfolio)
	assert.NotNil(t, enrichment.GitHub)
	assert.Equal(t, reasonNotRequested, outcomes.LinkedIn.Reason)
	assert.Equal(t, reasonNotRequested, outcomes.Portfolio.Reason)
}

func TestFetch_EmptyRequest(t *testing.T) {
	enrichment, outcomes := NewFetcher(Config{}, nil, nil).Fetch(context.Background(), Request{})

	assert.True(t, enrichment.LinkedIn == nil && enrichment.GitHub == nil && enrichment.Portfolio == nil)
	assert.False(t, outcomes.GitHub.Available())
}

func TestFetch_FailuresAreIsolated(t *testing.T) {
	server := newTestServer(t)
	f := newTestFetcher(server)

	enrichment, outcomes := f.Fetch(context.Background(), Request{
		LinkedInURL:  server.URL + "/in/private",
		GitHubURL:    "https://github.com/nobody",
		PortfolioURL: "http://127.0.0.1:1/unreachable",
	})

	// LinkedIn answering with an error status still yields an empty snapshot.
	require.NotNil(t, enrichment.LinkedIn)
	assert.Empty(t, enrichment.LinkedIn.Headline)

	assert.Nil(t, enrichment.GitHub)
	assert.NotEmpty(t, outcomes.GitHub.Reason)
	assert.Nil(t, enrichment.Portfolio)
	assert.NotEmpty(t, outcomes.Portfolio.Reason)
}

func TestFetch_RepositoriesUnavailable(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/solo", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, `{"name":"Solo","public_repos":7}`)
	})
	mux.HandleFunc("/users/solo/repos", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	enrichment, _ := newTestFetcher(server).Fetch(context.Background(), Request{GitHubURL: "https://github.com/solo"})

	require.NotNil(t, enrichment.GitHub)
	assert.Equal(t, 7, enrichment.GitHub.PublicRepos)
	assert.Empty(t, enrichment.GitHub.Repositories)
	assert.Equal(t, 7, enrichment.GitHub.ContributionStats.TotalRepos)
	assert.Empty(t, enrichment.GitHub.ContributionStats.TopLanguage)
}

func TestGitHubUsername(t *testing.T) {
	tests := []struct {
		url     string
		want    string
		wantErr bool
	}{
		{"https://github.com/janedoe", "janedoe", false},
		{"https://www.github.com/janedoe/", "janedoe", false},
		{"https://github.com/janedoe/some-repo", "janedoe", false},
		{"https://gitlab.com/janedoe", "", true},
		{"https://github.com/", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, err := GitHubUsername(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRequestFromResume(t *testing.T) {
	r := types.NewResumeRecord()
	assert.True(t, RequestFromResume(r).Empty())
	assert.True(t, RequestFromResume(nil).Empty())

	r.GitHubURL = "https://github.com/janedoe"
	req := RequestFromResume(r)
	assert.False(t, req.Empty())
	assert.Equal(t, "https://github.com/janedoe", req.GitHubURL)
}
