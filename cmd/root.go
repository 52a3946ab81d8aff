package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"sjsage522/bookworker/config"
	"sjsage522/bookworker/internal/warehouse"
	"sjsage522/bookworker/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "bookworker",
	Short:         "bookworker scrapes the book catalog into the warehouse and serves its dashboard.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the selected subcommand and exits non-zero on failure
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.LogError("cmd", err, "bookworker %s failed", commandName())
		stop()
		os.Exit(1)
	}
}

// commandName is the subcommand named on the command line, or the root's name
func commandName() string {
	if c, _, err := rootCmd.Find(os.Args[1:]); err == nil && c != rootCmd {
		return c.Name()
	}
	return rootCmd.Name()
}

// setup loads .env, initializes logging and returns the validated configuration
func setup() (config.Config, error) {
	// Load environment variables; a missing .env is fine
	_ = godotenv.Load()

	logger.Init()

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	redacted := cfg.Redacted()
	logger.Default.Info().
		Str("environment", cfg.Environment).
		Str("account", redacted.Account).
		Str("catalog", cfg.CatalogBaseURL).
		Str("table", fmt.Sprintf("%s.%s.%s", cfg.Database, cfg.Schema, cfg.Table)).
		Msg("Configuration loaded")
	return cfg, nil
}

func namespace(cfg config.Config) warehouse.Namespace {
	return warehouse.Namespace{
		Warehouse:  cfg.Warehouse,
		Database:   cfg.Database,
		Schema:     cfg.Schema,
		Stage:      cfg.Stage,
		FileFormat: cfg.FileFormat,
		Table:      cfg.Table,
	}
}

func opener(cfg config.Config) warehouse.Opener {
	return warehouse.OpenSnowflake(warehouse.Credentials{
		Account:  cfg.Account,
		Username: cfg.Username,
		Password: cfg.Password,
	})
}
