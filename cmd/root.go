package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/perankh/perankh/internal/config"
	"github.com/perankh/perankh/internal/store"
)

var (
	cfgPath string
	dbPath  string
	verbose bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to config file (HCL)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the database file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

var rootCmd = &cobra.Command{
	Use:          "perankh",
	Short:        "Perankh: Old World save file analytics importer",
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves configuration and applies flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if verbose {
		cfg.Verbose = true
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Verbose {
		return zap.NewDevelopment()
	}
	zc := zap.NewProductionConfig()
	zc.Encoding = "console"
	zc.DisableStacktrace = true
	return zc.Build()
}

// openStore opens the database, bootstraps the schema, and sweeps
// abandoned import locks left behind by crashed processes.
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (*store.Store, error) {
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	s, err := store.Open(cfg.DBPath, cfg.LockStaleAfter(), log)
	if err != nil {
		return nil, err
	}
	if err := s.EnsureReady(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	if _, err := s.CleanupStaleLocks(ctx); err != nil {
		log.Warn("stale lock sweep failed", zap.Error(err))
	}
	return s, nil
}
