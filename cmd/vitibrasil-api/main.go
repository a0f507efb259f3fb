// Command vitibrasil-api serves Brazilian viticulture statistics scraped from
// the Embrapa vitibrasil site, resilient to source outages through layered
// Redis caching and static CSV snapshots.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/vitidata/vitibrasil-api/internal/config"
	"github.com/vitidata/vitibrasil-api/pkg/api"
	"github.com/vitidata/vitibrasil-api/pkg/cache"
	"github.com/vitidata/vitibrasil-api/pkg/fallback"
	"github.com/vitidata/vitibrasil-api/pkg/logging"
	"github.com/vitidata/vitibrasil-api/pkg/scraper"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:     "vitibrasil-api",
		Short:   "Embrapa vitibrasil statistics API with layered cache fallback",
		Version: version,
	}

	root.AddCommand(
		newServeCmd(),
		newValidateCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return serve(cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")
	return cmd
}

func newValidateCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the CSV snapshot inventory and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			store := fallback.New(fallback.Config{
				Dir:     cfg.Fallback.Dir,
				Mapping: fallback.DefaultMapping,
			})
			report := store.ValidateInventory(cmd.Context())

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
			if !report.Healthy {
				return fmt.Errorf("snapshot inventory in %s is incomplete", cfg.Fallback.Dir)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")
	return cmd
}

func serve(cfg *config.Config) error {
	logger := logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.Log.Level),
		Pretty: cfg.Log.Pretty,
		Output: os.Stderr,
	})

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	store := cache.NewRedisStore(rdb)
	defer store.Close()

	// Redis being down at startup is survivable; the store fails soft and
	// go-redis re-dials on the next operation.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := store.Ping(ctx); err != nil {
		logger.Warn().Err(err).Str("addr", cfg.Redis.Addr).
			Msg("Redis unreachable at startup, volatile tiers degraded")
	} else {
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("Connected to Redis")
	}
	cancel()

	stats := cache.NewStats()
	static := fallback.New(fallback.Config{
		Dir:           cfg.Fallback.Dir,
		Mapping:       fallback.DefaultMapping,
		CacheCapacity: cfg.Fallback.CacheCapacity,
		CacheTTL:      cfg.Fallback.CacheTTL,
		Stats:         stats,
	})

	coordinator := cache.NewCoordinator(store, static, stats, cache.Config{
		ShortTTL:     cfg.Cache.ShortTTL,
		LongTTL:      cfg.Cache.LongTTL,
		FetchTimeout: cfg.Cache.FetchTimeout,
	})

	retry := scraper.DefaultRetryConfig()
	if cfg.Scrape.MaxAttempts > 0 {
		retry.MaxAttempts = cfg.Scrape.MaxAttempts
	}
	fetcher := scraper.New(scraper.Config{
		BaseURL:           cfg.Scrape.BaseURL,
		UserAgent:         cfg.Scrape.UserAgent,
		RequestTimeout:    cfg.Scrape.RequestTimeout,
		RequestsPerSecond: cfg.Scrape.RequestsPerSecond,
		Retry:             retry,
	})

	server := api.New(api.Config{
		Coordinator: coordinator,
		Fetcher:     fetcher,
		Inventory:   static,
		Store:       store,
		Credentials: cfg.Auth.Credentials,
	})
	if len(cfg.Auth.Credentials) == 0 {
		logger.Warn().Msg("No credentials configured, data routes are unauthenticated")
	}

	httpServer := &http.Server{
		Addr:              cfg.Listen,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Listen).Str("version", version).Msg("Starting server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-sigCtx.Done():
	}

	logger.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
