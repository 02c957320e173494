// Package cmd provides the CLI commands for commodity-price.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"commodity-price/internal/config"
	"commodity-price/internal/logging"
)

// Version is overridden at build time with -ldflags
var Version = "0.1.0"

var (
	envFile string
	verbose bool
)

// errStepFailed means the failure was already reported to the host
var errStepFailed = errors.New("price lookup failed")

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "commodity-price",
	Short: "Look up commodity prices inside a CI job",
	Long: `commodity-price resolves the price per ounce of gold or silver in USD or EUR
from a static, manually maintained table and publishes it as a GitHub Actions
output.

Examples:
  commodity-price lookup --commodity gold --currency USD
  INPUT_COMMODITY=silver INPUT_CURRENCY=eur commodity-price lookup
  commodity-price prices --format json
  commodity-price action-metadata -o action.yml`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, errStepFailed) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the environment")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	// Add subcommands
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(pricesCmd)
	rootCmd.AddCommand(metadataCmd)
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig builds the configuration once per invocation and sets up logging
func loadConfig(flags map[string]*pflag.Flag) (*config.Config, error) {
	cfg, err := config.Load(config.Options{EnvFile: envFile, Flags: flags})
	if err != nil {
		return nil, err
	}

	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		return nil, fmt.Errorf("initializing logging: %w", err)
	}

	logging.Debug("configuration loaded",
		zap.String("env_file", envFile),
		zap.String("log_level", cfg.Logging.Level),
		zap.Bool("database_active", cfg.Database.Active),
	)
	return cfg, nil
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "commodity-price version %s\n", Version)
	},
}
