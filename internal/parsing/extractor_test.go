package parsing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SomeshSampat2/AgentHire/internal/llm"
	"github.com/SomeshSampat2/AgentHire/internal/llm/llmtest"
)

func mockReturning(response string) *llmtest.MockClient {
	return &llmtest.MockClient{
		GenerateFunc: func(context.Context, string, llm.GenerateOptions) (string, error) {
			return response, nil
		},
	}
}

const resumeJSON = "```json\n" + `{
  "personal_info": {"name": "John Doe", "email": "john@example.com", "phone": null, "location": "Berlin"},
  "social_urls": {"linkedin_url": "https://linkedin.com/in/johndoe", "github_url": "https://github.com/johndoe", "portfolio_url": "", "other_urls": []},
  "professional_summary": "Full-stack developer",
  "skills": ["python", "react"],
  "experience": [{"title": "Engineer", "company": "Acme", "duration": "2019-2023", "description": "Built APIs"}],
  "education": [{"degree": "BSc", "institution": "TU Berlin", "year": 2018}],
  "projects": [{"name": "hire", "description": "ATS", "technologies": "go, redis"}]
}` + "\n```"

func TestParseResume(t *testing.T) {
	mock := mockReturning(resumeJSON)
	e := NewExtractor(mock, nil)

	r, err := e.ParseResume(context.Background(), "John Doe\npython, react")
	require.NoError(t, err)

	assert.Equal(t, "John Doe", r.Name)
	assert.Equal(t, "john@example.com", r.Email)
	assert.Empty(t, r.Phone)
	assert.Equal(t, "Full-stack developer", r.Summary)
	assert.Equal(t, []string{"python", "react"}, r.Skills)
	assert.Equal(t, "https://github.com/johndoe", r.GitHubURL)
	assert.True(t, r.HasProfileURLs())
	require.Len(t, r.Education, 1)
	assert.Equal(t, "2018", r.Education[0].Year)
	require.Len(t, r.Projects, 1)
	assert.Equal(t, []string{"go", "redis"}, r.Projects[0].Technologies)

	// Lists the model omitted are empty, never nil.
	assert.NotNil(t, r.Certifications)
	assert.NotNil(t, r.Languages)

	require.Equal(t, 1, mock.Calls())
	assert.Contains(t, mock.Prompts()[0], "RESUME TEXT:\nJohn Doe\npython, react")
	assert.Equal(t, ResumeOptions, mock.Options()[0])
}

func TestParseResume_EmptyObjectDefaults(t *testing.T) {
	r, err := NewExtractor(mockReturning(`{}`), nil).ParseResume(context.Background(), "text")
	require.NoError(t, err)

	assert.Empty(t, r.Name)
	assert.Equal(t, []string{}, r.Skills)
	assert.NotNil(t, r.Experience)
	assert.NotNil(t, r.Education)
	assert.NotNil(t, r.Projects)
	assert.False(t, r.HasProfileURLs())
}

func TestParseResume_SchemaViolationIsCoerced(t *testing.T) {
	r, err := NewExtractor(mockReturning(`{"personal_info":{"name":"Ann"},"experience":"ten years","skills":"go, sql"}`), nil).
		ParseResume(context.Background(), "text")
	require.NoError(t, err)

	assert.Equal(t, "Ann", r.Name)
	assert.Empty(t, r.Experience)
	assert.Equal(t, []string{"go", "sql"}, r.Skills)
}

func TestParseResume_InvalidJSON(t *testing.T) {
	_, err := NewExtractor(mockReturning("I could not read this resume."), nil).ParseResume(context.Background(), "text")

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.False(t, perr.ClientFault)
}

func TestParseResume_LLMFailure(t *testing.T) {
	authErr := &llm.AuthError{Cause: errors.New("API_KEY_INVALID")}
	mock := &llmtest.MockClient{
		GenerateFunc: func(context.Context, string, llm.GenerateOptions) (string, error) { return "", authErr },
	}

	_, err := NewExtractor(mock, nil).ParseResume(context.Background(), "text")

	var apiErr *APICallError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, llm.IsAuthError(err))
}

func TestParseJobDescription_MergesSkillBuckets(t *testing.T) {
	mock := mockReturning(`{
		"title": "Backend Engineer",
		"company": "Acme",
		"description": "Build and run Python services with React front ends.",
		"required_skills": ["Python", "React"],
		"technical_requirements": ["Python", "PostgreSQL"],
		"preferred_skills": ["Go"],
		"soft_skills": ["Communication"],
		"experience_level": "Senior",
		"education_requirements": null
	}`)

	job, err := NewExtractor(mock, nil).ParseJobDescription(context.Background(), "We need Python and React engineers")
	require.NoError(t, err)

	assert.Equal(t, "Backend Engineer", job.Title)
	assert.Equal(t, []string{"Python", "React", "Python", "PostgreSQL"}, job.RequiredSkills)
	assert.Equal(t, []string{"Go", "Communication"}, job.PreferredSkills)
	assert.Equal(t, []string{}, job.EducationRequirements)
	assert.Equal(t, JobOptions, mock.Options()[0])
	assert.Contains(t, mock.Prompts()[0], "JOB DESCRIPTION TEXT:\nWe need Python and React engineers")
}

func TestParseJobDescription_MissingDescriptionIsClientFault(t *testing.T) {
	for _, reply := range []string{`{"title":"Engineer"}`, `{"description":"   "}`, `{"description":null}`} {
		_, err := NewExtractor(mockReturning(reply), nil).ParseJobDescription(context.Background(), "text")

		var perr *ParseError
		require.ErrorAs(t, err, &perr, reply)
		assert.True(t, perr.ClientFault, reply)
	}
}

func TestParseJobPosting(t *testing.T) {
	mock := mockReturning(`{"title":"SRE","company":"Initech","description":"Keep the lights on across three regions."}`)

	job, err := NewExtractor(mock, nil).ParseJobPosting(context.Background(), "https://jobs.example.com/1", "SRE at Initech")
	require.NoError(t, err)
	assert.Equal(t, "SRE", job.Title)
	assert.Contains(t, mock.Prompts()[0], "WEBPAGE CONTENT (https://jobs.example.com/1):\nSRE at Initech")
}

func TestNewExtractor_ConfiguredOptions(t *testing.T) {
	tests := []struct {
		name       string
		cfg        llm.Config
		wantResume int32
		wantJob    int32
	}{
		{name: "small budget keeps resume floor", cfg: llm.Config{Temperature: 0.4, MaxOutputTokens: 1024}, wantResume: 3000, wantJob: 1024},
		{name: "large budget applies to both", cfg: llm.Config{Temperature: 0.4, MaxOutputTokens: 5000}, wantResume: 5000, wantJob: 5000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &llmtest.MockClient{GenerateFunc: llmtest.Router(map[string]string{
				"RESUME TEXT:":          resumeJSON,
				"JOB DESCRIPTION TEXT:": `{"title":"SRE","company":"Initech","description":"Keep the lights on across three regions."}`,
			})}
			e := NewExtractor(mock, nil, WithGenerateOptions(tt.cfg.Options()))

			_, err := e.ParseResume(context.Background(), "resume")
			require.NoError(t, err)
			_, err = e.ParseJobDescription(context.Background(), "job")
			require.NoError(t, err)

			opts := mock.Options()
			require.Len(t, opts, 2)
			assert.Equal(t, llm.GenerateOptions{Temperature: 0.4, MaxOutputTokens: tt.wantResume, JSON: true}, opts[0])
			assert.Equal(t, llm.GenerateOptions{Temperature: 0.4, MaxOutputTokens: tt.wantJob, JSON: true}, opts[1])
		})
	}
}
