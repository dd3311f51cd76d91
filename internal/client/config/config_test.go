package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, DefaultAPIBaseURL, c.APIBaseURL)
	assert.Equal(t, 300*time.Second, c.KeepUnusedDataFor)
	assert.Equal(t, 10, c.FarmersPageSize)
	assert.Equal(t, time.Duration(0), c.HTTPTimeout)
	assert.NotEmpty(t, c.DatabasePath)
	require.NoError(t, c.Validate())
}

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load(viper.New(), newFlags(t))
	require.NoError(t, err)
	assert.Equal(t, DefaultAPIBaseURL, cfg.APIBaseURL)
	assert.Equal(t, 30*time.Second, cfg.SweepInterval)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	file := filepath.Join(dir, "cfg.yaml")
	require.NoError(t, os.WriteFile(file, []byte(
		"api-base-url: https://file.example/api\nfarmers-page-size: 20\nkeep-unused-data-for: 1m\n"), 0o600))

	t.Setenv("FARMDASH_FARMERS_PAGE_SIZE", "30")
	t.Setenv("FARMDASH_LOG_LEVEL", "debug")

	cfg, err := Load(viper.New(), newFlags(t, "--config", file, "--log-level", "error"))
	require.NoError(t, err)

	assert.Equal(t, "https://file.example/api", cfg.APIBaseURL)
	assert.Equal(t, time.Minute, cfg.KeepUnusedDataFor)
	assert.Equal(t, 30, cfg.FarmersPageSize)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestLoad_JSONFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	file := filepath.Join(dir, "cfg.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"http-timeout":"15s","log-format":"json"}`), 0o600))

	cfg, err := Load(viper.New(), newFlags(t, "--config", file))
	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := Load(viper.New(), newFlags(t, "--config", "/nonexistent/farmdash.yaml"))
	require.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := Load(viper.New(), newFlags(t, "--farmers-page-size", "0"))
	require.Error(t, err)

	_, err = Load(viper.New(), newFlags(t, "--api-base-url", "not a url"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		var c Config
		c.LoadDefaults()
		return c
	}
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"relative url", func(c *Config) { c.APIBaseURL = "/api" }},
		{"empty db", func(c *Config) { c.DatabasePath = " " }},
		{"zero retention", func(c *Config) { c.KeepUnusedDataFor = 0 }},
		{"zero sweep", func(c *Config) { c.SweepInterval = 0 }},
		{"negative timeout", func(c *Config) { c.HTTPTimeout = -time.Second }},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
