package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable the client reads,
// e.g. FARMDASH_API_BASE_URL.
const EnvPrefix = "FARMDASH"

const DefaultAPIBaseURL = "https://node-backend-pz3j.onrender.com/api"

// Config holds runtime settings for the dashboard client.
type Config struct {
	APIBaseURL        string        `mapstructure:"api-base-url"`
	DatabasePath      string        `mapstructure:"database"`
	KeepUnusedDataFor time.Duration `mapstructure:"keep-unused-data-for"`
	SweepInterval     time.Duration `mapstructure:"sweep-interval"`
	FarmersPageSize   int           `mapstructure:"farmers-page-size"`
	// HTTPTimeout of zero means no timeout.
	HTTPTimeout time.Duration `mapstructure:"http-timeout"`
	LogLevel    string        `mapstructure:"log-level"`
	LogFormat   string        `mapstructure:"log-format"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = DefaultAPIBaseURL
	c.DatabasePath = DefaultDatabasePath()
	c.KeepUnusedDataFor = 300 * time.Second
	c.SweepInterval = 30 * time.Second
	c.FarmersPageSize = 10
	c.HTTPTimeout = 0
	c.LogLevel = "warn"
	c.LogFormat = "text"
}

// DefaultDatabasePath is farmdash.db inside the user's config directory, or
// in the working directory when that cannot be determined.
func DefaultDatabasePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "farmdash.db"
	}
	return filepath.Join(dir, "farmdash", "farmdash.db")
}

// RegisterFlags adds one flag per setting, plus --config, to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	var d Config
	d.LoadDefaults()

	fs.String("config", "", "config file (JSON or YAML)")
	fs.String("api-base-url", d.APIBaseURL, "base URL of the marketplace API")
	fs.String("database", d.DatabasePath, "path of the local SQLite database")
	fs.Duration("keep-unused-data-for", d.KeepUnusedDataFor, "how long cached data without subscribers is kept")
	fs.Duration("sweep-interval", d.SweepInterval, "how often unused cache entries are evicted")
	fs.Int("farmers-page-size", d.FarmersPageSize, "number of farmers requested per page")
	fs.Duration("http-timeout", d.HTTPTimeout, "HTTP client timeout (0 = none)")
	fs.String("log-level", d.LogLevel, "log level: debug, info, warn, error")
	fs.String("log-format", d.LogFormat, "log format: text or json")
}

// Load resolves the configuration from, in increasing precedence: defaults,
// the config file named by --config, FARMDASH_* environment variables, and
// flags set on the command line. fs may be nil.
func Load(v *viper.Viper, fs *pflag.FlagSet) (*Config, error) {
	var d Config
	d.LoadDefaults()
	v.SetDefault("api-base-url", d.APIBaseURL)
	v.SetDefault("database", d.DatabasePath)
	v.SetDefault("keep-unused-data-for", d.KeepUnusedDataFor)
	v.SetDefault("sweep-interval", d.SweepInterval)
	v.SetDefault("farmers-page-size", d.FarmersPageSize)
	v.SetDefault("http-timeout", d.HTTPTimeout)
	v.SetDefault("log-level", d.LogLevel)
	v.SetDefault("log-format", d.LogFormat)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if configFile := v.GetString("config"); configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName(".farmdash")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the client cannot run with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api-base-url %q is not an absolute URL", c.APIBaseURL)
	}
	if strings.TrimSpace(c.DatabasePath) == "" {
		return errors.New("database path must not be empty")
	}
	if c.KeepUnusedDataFor <= 0 {
		return fmt.Errorf("keep-unused-data-for must be positive, got %s", c.KeepUnusedDataFor)
	}
	if c.SweepInterval <= 0 {
		return fmt.Errorf("sweep-interval must be positive, got %s", c.SweepInterval)
	}
	if c.FarmersPageSize <= 0 {
		return fmt.Errorf("farmers-page-size must be positive, got %d", c.FarmersPageSize)
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("http-timeout must not be negative, got %s", c.HTTPTimeout)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("log-format must be text or json, got %q", c.LogFormat)
	}
	return nil
}
