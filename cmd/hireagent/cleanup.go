package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SomeshSampat2/AgentHire/internal/upload"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete old uploaded files",
	RunE:  runCleanup,
}

var cleanupMaxAge float64

func init() {
	cleanupCmd.Flags().Float64Var(&cleanupMaxAge, "max-age-hours", 24, "Delete uploads older than this many hours")
	rootCmd.AddCommand(cleanupCmd)
}

func runCleanup(cmd *cobra.Command, _ []string) error {
	if cleanupMaxAge < 0 {
		return fmt.Errorf("--max-age-hours must not be negative")
	}

	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	store, err := upload.New(cfg.UploadDir, cfg.MaxFileSize, cfg.AllowedExtensions, log)
	if err != nil {
		return err
	}

	deleted := store.DeleteOlderThan(cleanupMaxAge)
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Cleaned up %d old files\n", deleted)
	return err
}
