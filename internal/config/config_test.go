package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so the host runner's own
// GITHUB_* values cannot leak into assertions.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, envs := range envBindings {
		for _, env := range envs {
			t.Setenv(env, "")
			os.Unsetenv(env)
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(Options{})
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.False(t, cfg.Database.Active)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, int32(2), cfg.Database.PoolMin)
	assert.Equal(t, int32(10), cfg.Database.PoolMax)
	assert.Empty(t, cfg.Inputs.Commodity)
	assert.Empty(t, cfg.InvocationID())
}

func TestLoad_ActionInputsFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("INPUT_COMMODITY", "Gold")
	t.Setenv("INPUT_CURRENCY", "eur")
	t.Setenv("GITHUB_RUN_ID", "987")
	t.Setenv("GITHUB_RUN_ATTEMPT", "2")

	cfg, err := Load(Options{})
	require.NoError(t, err)

	assert.Equal(t, "Gold", cfg.Inputs.Commodity, "inputs are passed through unnormalized")
	assert.Equal(t, "eur", cfg.Inputs.Currency)
	assert.Equal(t, "987-2", cfg.InvocationID())
}

func TestLoad_RunnerDebugForcesDebugLevel(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_LEVEL", "WARN")

	cfg, err := Load(Options{})
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)

	t.Setenv("RUNNER_DEBUG", "1")
	cfg, err = Load(Options{})
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_DatabaseFromEnvFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_USER", "from-process")

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"DATA_BASE_ACTIVE=true\n"+
			"DATABASE_HOST=db.internal\n"+
			"DATABASE_PORT=6543\n"+
			"DATABASE_USER=from-file\n"+
			"DATABASE_NAME=hangman\n"+
			"DATABASE_POOL_MIN=1\n"+
			"DATABASE_POOL_MAX=4\n"), 0644))
	t.Cleanup(func() {
		for _, env := range []string{"DATA_BASE_ACTIVE", "DATABASE_HOST", "DATABASE_PORT", "DATABASE_NAME", "DATABASE_POOL_MIN", "DATABASE_POOL_MAX"} {
			os.Unsetenv(env)
		}
	})

	cfg, err := Load(Options{EnvFile: envFile})
	require.NoError(t, err)

	db := cfg.Database
	assert.True(t, db.Active)
	assert.Equal(t, "db.internal", db.Host)
	assert.Equal(t, 6543, db.Port)
	assert.Equal(t, "from-process", db.User, "env file must not override the process environment")
	assert.Equal(t, "hangman", db.Name)
	assert.Equal(t, int32(1), db.PoolMin)
	assert.Equal(t, int32(4), db.PoolMax)
}

func TestLoad_MissingEnvFileIsIgnored(t *testing.T) {
	clearEnv(t)

	_, err := Load(Options{EnvFile: filepath.Join(t.TempDir(), "absent.env")})
	assert.NoError(t, err)
}

func TestLoad_FlagsOverrideEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("INPUT_COMMODITY", "gold")
	t.Setenv("INPUT_CURRENCY", "USD")

	fs := pflag.NewFlagSet("lookup", pflag.ContinueOnError)
	fs.String("commodity", "", "")
	fs.String("currency", "", "")
	require.NoError(t, fs.Parse([]string{"--commodity", "silver"}))

	cfg, err := Load(Options{Flags: map[string]*pflag.Flag{
		"inputs.commodity": fs.Lookup("commodity"),
		"inputs.currency":  fs.Lookup("currency"),
	}})
	require.NoError(t, err)

	assert.Equal(t, "silver", cfg.Inputs.Commodity)
	assert.Equal(t, "USD", cfg.Inputs.Currency, "unset flag keeps the environment value")
}
