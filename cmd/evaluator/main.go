// cmd/evaluator/main.go

// Package main provides the offline evaluator: it runs the evaluation
// pipeline on local files without a Zeebe broker.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/shub15/the-unfair-advantage/internal/common/config"
	"github.com/shub15/the-unfair-advantage/internal/common/database"
	apperrors "github.com/shub15/the-unfair-advantage/internal/common/errors"
	"github.com/shub15/the-unfair-advantage/internal/common/genai"
	"github.com/shub15/the-unfair-advantage/internal/common/logger"
	"github.com/shub15/the-unfair-advantage/internal/common/websearch"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "evaluator",
	Short: "Evaluate business plans from a document and a transcript",
	Long: `Runs profile synthesis, market enrichment, scoring, stakeholder reports and feedback on local inputs
and writes the JSON artifacts to an output directory.`,
	SilenceUsage: true,
}

var (
	configPath string
	logLevel   string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.yaml (defaults to configs/config.yaml when present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig never requires a broker address.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		if _, err := os.Stat("configs/config.yaml"); err == nil {
			path = "configs/config.yaml"
		}
	}
	if path == "" {
		return config.Defaults(), nil
	}
	cfg, err := config.LoadFromFile(path, false)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// newLogger writes to stderr so stdout carries only command output.
func newLogger(cfg *config.Config) logger.Logger {
	level := cfg.Logging.Level
	if logLevel != "" {
		level = logLevel
	}
	return logger.NewZapAdapter(logger.NewWithOutput(level, "console", "stderr"))
}

// newGenerator returns nil when no provider is configured; the pipeline then
// runs degraded.
func newGenerator(ctx context.Context, cfg *config.Config, log logger.Logger) (genai.Generator, error) {
	g, err := genai.New(ctx, cfg.GenAI)
	if errors.Is(err, apperrors.ErrCapabilityNotConfigured) {
		log.Warn("generative capability not configured, running degraded", map[string]interface{}{
			"provider": cfg.GenAI.Provider,
		})
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create generator: %w", err)
	}
	return g, nil
}

// newSearcher returns the Google searcher, cached in Redis when reachable.
// The returned cleanup is always safe to call.
func newSearcher(ctx context.Context, cfg *config.Config, log logger.Logger) (websearch.Searcher, func()) {
	if !cfg.WebSearch.Configured() {
		return websearch.Disabled{}, func() {}
	}
	var searcher websearch.Searcher = websearch.NewGoogleSearcher(cfg.WebSearch)
	if cfg.Database.Redis.Address == "" || cfg.WebSearch.CacheTTL <= 0 {
		return searcher, func() {}
	}

	redis, err := database.NewRedis(cfg.Database.Redis)
	if err == nil {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err = redis.Ping(pingCtx)
		cancel()
	}
	if err != nil {
		if redis != nil {
			redis.Close()
		}
		log.Warn("redis unavailable, web search is not cached", map[string]interface{}{"error": err.Error()})
		return searcher, func() {}
	}
	cached := websearch.NewCachedSearcher(searcher, redis.Client, time.Duration(cfg.WebSearch.CacheTTL)*time.Second, log)
	return cached, func() { redis.Close() }
}
