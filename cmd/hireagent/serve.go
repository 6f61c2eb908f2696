package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/SomeshSampat2/AgentHire/internal/server"
	"github.com/SomeshSampat2/AgentHire/internal/server/ratelimit"
	"github.com/SomeshSampat2/AgentHire/internal/upload"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the resume analysis endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort > 0 {
		cfg.Port = servePort
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	if cfg.CleanupSchedule != "" {
		sweeper, err := upload.NewSweeper(a.store, cfg.CleanupSchedule, cfg.CleanupMaxAgeHours, log)
		if err != nil {
			return fmt.Errorf("failed to schedule upload cleanup: %w", err)
		}
		sweeper.Start()
		defer sweeper.Stop()
	}

	srv := server.New(server.Config{
		Port:        cfg.Port,
		APIPrefix:   cfg.APIPrefix,
		CORSOrigins: cfg.CORSOrigins,
		MaxFileSize: cfg.MaxFileSize,
		RateLimit:   ratelimit.NewConfig(cfg.RateLimitEnabled, cfg.RateLimitDefaultLimit, cfg.RateLimitDefaultWindow, cfg.APIPrefix),
	}, a.orch, log)

	log.Info("starting HireAgent",
		zap.Int("port", cfg.Port),
		zap.String("model", cfg.GeminiModel),
		zap.String("upload_dir", cfg.UploadDir),
		zap.Bool("enrichment", cfg.EnrichmentEnabled),
	)
	return srv.Start(ctx)
}
