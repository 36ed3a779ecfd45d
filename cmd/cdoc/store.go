package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dshills/cdoc/internal/config"
	"github.com/dshills/cdoc/internal/storage"
	"github.com/dshills/cdoc/internal/tool"
	"github.com/dshills/cdoc/pkg/types"
)

// saveRun stores the collected records as a new run in the --db database
func saveRun(cmd *cobra.Command, cfg *config.Config, sources []string, records []*types.FileRecord, stats *tool.Statistics, logger *slog.Logger) error {
	if err := os.MkdirAll(filepath.Dir(cfg.DB), 0o755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}
	store, err := storage.NewSQLiteStorage(cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	run := &storage.Run{
		Format:       cfg.Emit,
		Sources:      sources,
		FileCount:    stats.Files,
		DeclCount:    stats.Decls,
		CommentCount: stats.Comments,
	}
	if err := store.SaveRun(cmd.Context(), run, records); err != nil {
		return err
	}
	logger.Info("run stored", "run_id", run.ID, "db", cfg.DB)
	return nil
}
