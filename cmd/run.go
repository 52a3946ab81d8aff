package cmd

import (
	"context"

	"sjsage522/bookworker/config"
	"sjsage522/bookworker/helpers"
	"sjsage522/bookworker/internal/crawler"
	"sjsage522/bookworker/internal/normalizer"
	"sjsage522/bookworker/internal/pipeline"
	"sjsage522/bookworker/internal/warehouse"
	"sjsage522/bookworker/logger"
	"sjsage522/bookworker/services/metrics"
	"sjsage522/bookworker/services/publisher"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Scrapes the catalog, normalizes it and replaces the warehouse table.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}

		runner, reg, cleanup := newRunner(cmd.Context(), cfg)
		defer cleanup()

		report, err := runner.Run(cmd.Context())
		report.Render(cmd.OutOrStdout())
		pushMetrics(cmd.Context(), cfg, reg)
		return err
	},
}

// pushMetrics sends the run's metrics to the configured pushgateway, if any
func pushMetrics(ctx context.Context, cfg config.Config, reg *metrics.Registry) {
	if cfg.PushgatewayURL == "" {
		return
	}
	if err := reg.Push(ctx, cfg.PushgatewayURL, metrics.PipelineJob); err != nil {
		logger.Warn("Failed to push metrics to %s: %v", cfg.PushgatewayURL, err)
		return
	}
	logger.Info("Pushed run metrics to %s", cfg.PushgatewayURL)
}

func newRunner(ctx context.Context, cfg config.Config) (*pipeline.Runner, *metrics.Registry, func()) {
	reg := metrics.NewRegistry()
	reporter := helpers.NewFileReporter(cfg.ErrorLogPath)

	c := crawler.CreateCrawler(cfg, func(page, entries int) {
		reg.PagesFetched.Inc()
	})

	var pub publisher.Publisher = publisher.NopPublisher{}
	if cfg.RedisAddr != "" {
		redisPublisher := publisher.NewRedisPublisher(cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream, cfg.RedisStreamMaxLength)
		if err := redisPublisher.Ping(ctx); err != nil {
			logger.ForPublisher().Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("Redis unreachable, run events will be dropped")
		} else {
			logger.Info("Connected to Redis at %s (DB: %d, Stream: %s)", cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)
		}
		pub = redisPublisher
	}

	runner := pipeline.NewRunner(
		c,
		normalizer.NewNormalizer(cfg.CurrencySymbol, reporter),
		warehouse.NewLoader(opener(cfg), namespace(cfg)),
		pub,
		reporter,
		reg,
		pipeline.Options{
			RawPath:         cfg.RawCSVPath,
			TransformedPath: cfg.TransformedCSVPath,
			Table:           cfg.Table,
		},
	)
	return runner, reg, func() {
		if err := pub.Close(); err != nil {
			logger.ForPublisher().Warn().Err(err).Msg("Failed to close publisher")
		}
	}
}
