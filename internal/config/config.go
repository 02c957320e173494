// Package config provides configuration management.
// The configuration is assembled once at process start and passed down.
package config

import (
	stderrors "errors"
	"io/fs"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"

	"commodity-price/internal/database"
	"commodity-price/internal/errors"
	"commodity-price/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Inputs are the step inputs as declared in the action metadata
	Inputs InputsConfig `json:"inputs" mapstructure:"inputs"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging" mapstructure:"log"`

	// Database contains the optional database connection
	Database database.Config `json:"database" mapstructure:"database"`

	// Runner describes the CI run that invoked us
	Runner RunnerConfig `json:"runner" mapstructure:"runner"`
}

// InputsConfig contains the raw step inputs
type InputsConfig struct {
	Commodity string `json:"commodity" mapstructure:"commodity"`
	Currency  string `json:"currency" mapstructure:"currency"`
}

// RunnerConfig carries the host-provided run identity
type RunnerConfig struct {
	// RunID is GITHUB_RUN_ID, empty outside Actions
	RunID string `json:"run_id" mapstructure:"run_id"`

	// RunAttempt is GITHUB_RUN_ATTEMPT
	RunAttempt string `json:"run_attempt" mapstructure:"run_attempt"`

	// Debug is set when the runner has step debugging on
	Debug bool `json:"debug" mapstructure:"debug"`
}

// InvocationID derives a stable id from the run, or "" outside CI
func (c *Config) InvocationID() string {
	if c.Runner.RunID == "" {
		return ""
	}
	if c.Runner.RunAttempt == "" {
		return c.Runner.RunID
	}
	return c.Runner.RunID + "-" + c.Runner.RunAttempt
}

// Options controls where Load reads from
type Options struct {
	// EnvFile is a dotenv file loaded before reading the environment.
	// A missing file is not an error.
	EnvFile string

	// Flags override environment values when set on the command line.
	// Keys are config keys such as "inputs.commodity".
	Flags map[string]*pflag.Flag
}

// envBindings maps config keys to the environment variables the host sets
var envBindings = map[string][]string{
	"inputs.commodity":   {"INPUT_COMMODITY"},
	"inputs.currency":    {"INPUT_CURRENCY"},
	"log.level":          {"LOG_LEVEL"},
	"log.format":         {"LOG_FORMAT"},
	"log.output":         {"LOG_OUTPUT"},
	"log.development":    {"LOG_DEVELOPMENT"},
	"database.active":    {"DATABASE_ACTIVE", "DATA_BASE_ACTIVE"},
	"database.url":       {"DATABASE_URL"},
	"database.host":      {"DATABASE_HOST"},
	"database.port":      {"DATABASE_PORT"},
	"database.user":      {"DATABASE_USER"},
	"database.password":  {"DATABASE_PASSWORD"},
	"database.name":      {"DATABASE_NAME"},
	"database.pool_min":  {"DATABASE_POOL_MIN"},
	"database.pool_max":  {"DATABASE_POOL_MAX"},
	"runner.run_id":      {"GITHUB_RUN_ID"},
	"runner.run_attempt": {"GITHUB_RUN_ATTEMPT"},
	"runner.debug":       {"RUNNER_DEBUG"},
}

func setDefaults(v *viper.Viper) {
	logDefaults := logging.DefaultConfig()
	v.SetDefault("log.level", logDefaults.Level)
	v.SetDefault("log.format", logDefaults.Format)
	v.SetDefault("log.output", logDefaults.Output)
	v.SetDefault("log.development", logDefaults.Development)

	dbDefaults := database.DefaultConfig()
	v.SetDefault("database.active", dbDefaults.Active)
	v.SetDefault("database.url", "")
	v.SetDefault("database.host", dbDefaults.Host)
	v.SetDefault("database.port", dbDefaults.Port)
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "")
	v.SetDefault("database.pool_min", dbDefaults.PoolMin)
	v.SetDefault("database.pool_max", dbDefaults.PoolMax)

	v.SetDefault("inputs.commodity", "")
	v.SetDefault("inputs.currency", "")

	v.SetDefault("runner.run_id", "")
	v.SetDefault("runner.run_attempt", "")
	v.SetDefault("runner.debug", false)
}

// Load assembles the configuration: defaults, then .env, then the
// environment, then explicitly set flags
func Load(opts Options) (*Config, error) {
	if opts.EnvFile != "" {
		// gotenv.Load never overrides variables that are already set
		if err := gotenv.Load(opts.EnvFile); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Config("failed to read env file "+opts.EnvFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)

	for key, envs := range envBindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, errors.Config("failed to bind "+key, err)
		}
	}

	for key, flag := range opts.Flags {
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return nil, errors.Config("failed to bind flag "+flag.Name, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Config("failed to decode configuration", err)
	}

	if cfg.Runner.Debug {
		cfg.Logging.Level = "debug"
	}
	cfg.Logging.Level = strings.ToLower(cfg.Logging.Level)

	return cfg, nil
}
