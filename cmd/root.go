package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/insightx/insightx-cli/internal/ai"
	cfgpkg "github.com/insightx/insightx-cli/internal/config"
	"github.com/insightx/insightx-cli/internal/logging"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	// Retry/HTTP flags (override config if set)
	flagHTTPTimeoutSec   int
	flagRetryMaxAttempts int
	flagRetryBaseDelayMs int

	// Loaded configuration
	cfg *cfgpkg.Global
	// Process-wide logger and AI result cache: one session per process.
	logger  *slog.Logger
	aiCache = ai.NewCache()
)

var rootCmd = &cobra.Command{
	Use:   "insightx",
	Short: "InsightX CLI: turn raw CSV/JSON files into instant dashboards",
	Long: `InsightX analyzes a CSV or JSON file locally (column types, KPIs, a
smart chart plan) and can enrich the result with AI-generated insights,
forecasts, a data story, and Q&A via the InsightX model gateway.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.insightx/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().IntVar(&flagHTTPTimeoutSec, "http-timeout", 0, "HTTP client timeout in seconds (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagRetryMaxAttempts, "retry-max", 0, "max retry attempts on 429/5xx (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagRetryBaseDelayMs, "retry-base-ms", 0, "base retry backoff in ms (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: local analysis works without any config at all.
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = &cfgpkg.Global{}
	}
	cfg = c

	f := rootCmd.PersistentFlags()
	if f.Changed("http-timeout") && flagHTTPTimeoutSec > 0 {
		cfg.HTTPTimeoutSec = flagHTTPTimeoutSec
	}
	if f.Changed("retry-max") && flagRetryMaxAttempts > 0 {
		cfg.RetryMaxAttempts = flagRetryMaxAttempts
	}
	if f.Changed("retry-base-ms") && flagRetryBaseDelayMs > 0 {
		cfg.RetryBaseDelayMs = flagRetryBaseDelayMs
	}

	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	logger = logging.New(level, cfg.LogFormat)
	slog.SetDefault(logger)
}

// newAIService builds the gateway client and service from the effective
// configuration. Missing credentials are fine: every operation degrades.
func newAIService() *ai.Service {
	client := ai.NewClientWithOptions(
		cfg.APIKey,
		cfg.Model,
		time.Duration(cfg.HTTPTimeoutSec)*time.Second,
		cfg.RetryMaxAttempts,
		time.Duration(cfg.RetryBaseDelayMs)*time.Millisecond,
		cfg.RateLimitRPS,
	)
	client.SetBaseURL(cfg.BaseURL)
	client.SetLogger(logger)
	return ai.NewService(client, aiCache, logger)
}
