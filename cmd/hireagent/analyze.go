package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/SomeshSampat2/AgentHire/internal/analysis"
	"github.com/SomeshSampat2/AgentHire/internal/ingestion"
	"github.com/SomeshSampat2/AgentHire/internal/observability"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a resume against a job description",
	Long:  "Run the full analysis for a local resume file and print the result as JSON.",
	RunE:  runAnalyze,
}

var (
	analyzeResume  string
	analyzeJobFile string
	analyzeJobURL  string
	analyzeOutput  string
	analyzeFormat  string
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeResume, "resume", "r", "", "Path to the resume (pdf, docx or txt)")
	analyzeCmd.Flags().StringVarP(&analyzeJobFile, "job-file", "j", "", "Path to a text file with the job description")
	analyzeCmd.Flags().StringVar(&analyzeJobURL, "job-url", "", "URL of the job posting")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "out", "o", "", "Write the JSON result to this file instead of stdout")
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "json", "Output format: json or text")
	_ = analyzeCmd.MarkFlagRequired("resume")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	if analyzeFormat != "json" && analyzeFormat != "text" {
		return fmt.Errorf("unknown --format %q (want json or text)", analyzeFormat)
	}

	content, err := os.ReadFile(analyzeResume)
	if err != nil {
		return fmt.Errorf("failed to read resume: %w", err)
	}

	var (
		jobText string
		jobMeta *ingestion.Metadata
	)
	if analyzeJobFile != "" {
		jobText, jobMeta, err = ingestion.IngestFromFile(analyzeJobFile)
		if err != nil {
			return fmt.Errorf("failed to read job description: %w", err)
		}
	}

	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	if jobMeta != nil {
		log.Debug("job description loaded",
			zap.String("path", analyzeJobFile),
			zap.String("hash", jobMeta.Hash),
			zap.Int("chars", len(jobText)),
		)
	}
	a, err := newApp(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := a.orch.Analyze(cmd.Context(), analysis.Request{
		Filename:       filepath.Base(analyzeResume),
		Content:        content,
		JobDescription: jobText,
		JobURL:         analyzeJobURL,
	})
	if err != nil {
		return err
	}

	if analyzeFormat == "text" {
		observability.NewPrinter(cmd.OutOrStdout()).PrintAnalysis(report.Analysis, report.Details)
		return nil
	}

	out, err := json.MarshalIndent(map[string]any{
		"analysis":         report.Analysis,
		"analysis_details": report.Details,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	if analyzeOutput != "" {
		if err := os.WriteFile(analyzeOutput, out, 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Analysis written to %s\n", analyzeOutput)
		return nil
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}
