package cmd

import (
	"sjsage522/bookworker/internal/dashboard"
	"sjsage522/bookworker/internal/warehouse"
	"sjsage522/bookworker/logger"
	"sjsage522/bookworker/services/cache"
	"sjsage522/bookworker/services/metrics"
	"sjsage522/bookworker/services/publisher"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Serves the analytics dashboard over the warehouse table.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		reg := metrics.NewRegistry()

		var cacheSvc cache.CacheService
		if cfg.MemcacheAddr != "" {
			mc := cache.NewMemcacheService(cfg.MemcacheAddr, "bookworker:")
			if err := mc.Ping(); err != nil {
				logger.ForCache().Warn().Err(err).Str("addr", cfg.MemcacheAddr).Msg("Memcache unreachable, snapshots will be read from the warehouse")
			} else {
				logger.Info("Connected to Memcache at %s", cfg.MemcacheAddr)
			}
			cacheSvc = mc
		}

		var feed dashboard.RunFeed
		if cfg.RedisAddr != "" {
			redisPublisher := publisher.NewRedisPublisher(cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream, cfg.RedisStreamMaxLength)
			defer redisPublisher.Close()
			feed = redisPublisher
		}

		reader := warehouse.NewReader(opener(cfg), namespace(cfg))
		source := dashboard.NewSource(reader, cacheSvc, feed, cfg.SnapshotTTL, reg)
		return dashboard.NewServer(source, reg).ListenAndServe(ctx, cfg.DashboardAddr)
	},
}
