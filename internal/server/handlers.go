package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/SomeshSampat2/AgentHire/internal/analysis"
	"github.com/SomeshSampat2/AgentHire/internal/enrichment"
	"github.com/SomeshSampat2/AgentHire/internal/types"
)

// multipartOverhead is allowed on top of the file size limit for form fields and boundaries.
const multipartOverhead = 1 << 20

const defaultCleanupAgeHours = 24

// AnalysisResponse is returned by /comprehensive-analysis.
type AnalysisResponse struct {
	Success         bool                     `json:"success"`
	Message         string                   `json:"message"`
	Analysis        *types.CandidateAnalysis `json:"analysis"`
	AnalysisDetails types.AnalysisDetails    `json:"analysis_details"`
}

// UploadResumeResponse is returned by /upload-resume.
type UploadResumeResponse struct {
	Success    bool                `json:"success"`
	Message    string              `json:"message"`
	FileID     string              `json:"file_id"`
	ResumeData *types.ResumeRecord `json:"resume_data"`
}

// ExtractJobRequest is the body of /extract-job-from-url.
type ExtractJobRequest struct {
	JobURL string `json:"job_url"`
}

// ExtractJobResponse is returned by /extract-job-from-url.
type ExtractJobResponse struct {
	Success        bool                        `json:"success"`
	Message        string                      `json:"message"`
	JobDescription *types.JobDescriptionRecord `json:"job_description"`
}

// ValidateJobResponse is returned by /validate-job-description.
type ValidateJobResponse struct {
	Success bool                       `json:"success"`
	Message string                     `json:"message"`
	Details *analysis.ValidationReport `json:"details"`
}

// CleanupResponse is returned by the cleanup endpoints.
type CleanupResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	DeletedCount *int   `json:"deleted_count,omitempty"`
}

// EnrichProfileResponse is returned by /enrich-profile.
type EnrichProfileResponse struct {
	Success    bool                    `json:"success"`
	Message    string                  `json:"message"`
	Enrichment types.ProfileEnrichment `json:"enrichment"`
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"message": "HireAgent API",
		"version": "1.0.0",
		"status":  "running",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": s.now().UTC().Format(time.RFC3339),
	})
}

// handleComprehensiveAnalysis takes a multipart form with the resume in "file"
// and either "job_description" text or a "job_url".
func (s *Server) handleComprehensiveAnalysis(w http.ResponseWriter, r *http.Request) {
	filename, content, err := s.readUpload(w, r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	jobURL := r.FormValue("job_url")
	if jobURL == "" {
		jobURL = r.URL.Query().Get("job_url")
	}

	report, err := s.svc.Analyze(r.Context(), analysis.Request{
		Filename:       filename,
		Content:        content,
		JobDescription: r.FormValue("job_description"),
		JobURL:         jobURL,
	})
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, AnalysisResponse{
		Success:         true,
		Message:         "Comprehensive analysis completed successfully",
		Analysis:        report.Analysis,
		AnalysisDetails: report.Details,
	})
}

func (s *Server) handleUploadResume(w http.ResponseWriter, r *http.Request) {
	filename, content, err := s.readUpload(w, r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	result, err := s.svc.UploadResume(r.Context(), filename, content)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, UploadResumeResponse{
		Success:    true,
		Message:    "Resume uploaded and parsed successfully",
		FileID:     result.FileID,
		ResumeData: result.Resume,
	})
}

// handleExtractJob accepts the URL as a JSON body or a job_url query parameter.
func (s *Server) handleExtractJob(w http.ResponseWriter, r *http.Request) {
	var req ExtractJobRequest
	if r.ContentLength != 0 && strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.errorResponse(w, r, badRequest("Invalid request body: "+err.Error()))
			return
		}
	}
	if req.JobURL == "" {
		req.JobURL = r.URL.Query().Get("job_url")
	}

	job, err := s.svc.ExtractJob(r.Context(), req.JobURL)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, ExtractJobResponse{
		Success:        true,
		Message:        "Job description extracted successfully",
		JobDescription: job,
	})
}

func (s *Server) handleValidateJob(w http.ResponseWriter, r *http.Request) {
	job := types.NewJobDescriptionRecord()
	if err := json.NewDecoder(r.Body).Decode(job); err != nil {
		s.errorResponse(w, r, badRequest("Invalid request body: "+err.Error()))
		return
	}
	job.Normalize()

	report, err := s.svc.ValidateJob(job)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, ValidateJobResponse{
		Success: true,
		Message: "Job description is valid",
		Details: report,
	})
}

func (s *Server) handleCleanupFile(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Cleanup(r.PathValue("file_id")); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, CleanupResponse{Success: true, Message: "File cleaned up successfully"})
}

func (s *Server) handleBulkCleanup(w http.ResponseWriter, r *http.Request) {
	maxAge := float64(defaultCleanupAgeHours)
	if raw := r.URL.Query().Get("max_age_hours"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			s.errorResponse(w, r, badRequest("max_age_hours must be a non-negative number"))
			return
		}
		maxAge = v
	}

	deleted := s.svc.BulkCleanup(maxAge)
	s.jsonResponse(w, http.StatusOK, CleanupResponse{
		Success:      true,
		Message:      fmt.Sprintf("Cleaned up %d old files", deleted),
		DeletedCount: &deleted,
	})
}

func (s *Server) handleEnrichProfile(w http.ResponseWriter, r *http.Request) {
	var req enrichment.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, r, badRequest("Invalid request body: "+err.Error()))
		return
	}

	profile, err := s.svc.Enrich(r.Context(), req)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, EnrichProfileResponse{
		Success:    true,
		Message:    "Profile enrichment completed",
		Enrichment: profile,
	})
}

// readUpload returns the name and bytes of the "file" form field.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, error) {
	if s.cfg.MaxFileSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxFileSize+multipartOverhead)
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", nil, badRequest(fmt.Sprintf("File size exceeds maximum limit of %d bytes", s.cfg.MaxFileSize))
		}
		return "", nil, badRequest("Expected a multipart form with a file field")
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return "", nil, badRequest("No file provided")
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	return header.Filename, content, nil
}
