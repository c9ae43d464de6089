package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	cfgpkg "github.com/insightx/insightx-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set InsightX configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		fmt.Printf("api_key: %s\n", mask(cfg.APIKey))
		fmt.Printf("model: %s\n", cfg.Model)
		if cfg.BaseURL != "" {
			fmt.Printf("base_url: %s\n", cfg.BaseURL)
		}
		fmt.Printf("http_timeout_sec: %d\n", cfg.HTTPTimeoutSec)
		fmt.Printf("retry_max_attempts: %d\n", cfg.RetryMaxAttempts)
		fmt.Printf("retry_base_delay_ms: %d\n", cfg.RetryBaseDelayMs)
		if cfg.RateLimitRPS > 0 {
			fmt.Printf("rate_limit_rps: %.2f\n", cfg.RateLimitRPS)
		}
		fmt.Printf("log_level: %s\n", cfg.LogLevel)
		fmt.Printf("log_format: %s\n", cfg.LogFormat)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "api_key":
			cfg.APIKey = val
		case "model":
			cfg.Model = val
		case "base_url":
			cfg.BaseURL = val
		case "http_timeout_sec":
			n, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid http_timeout_sec: %s", val)
			}
			cfg.HTTPTimeoutSec = n
		case "retry_max_attempts":
			n, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid retry_max_attempts: %s", val)
			}
			cfg.RetryMaxAttempts = n
		case "retry_base_delay_ms":
			n, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid retry_base_delay_ms: %s", val)
			}
			cfg.RetryBaseDelayMs = n
		case "rate_limit_rps":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return fmt.Errorf("invalid rate_limit_rps: %s", val)
			}
			cfg.RateLimitRPS = f
		case "log_level":
			cfg.LogLevel = val
		case "log_format":
			cfg.LogFormat = val
		default:
			return fmt.Errorf("unknown config key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Printf("✓ Saved %s\n", key)
		return nil
	},
}

func mask(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 8 {
		return "********"
	}
	return s[:4] + "..." + s[len(s)-4:]
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
