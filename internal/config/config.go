package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/samvad-hq/samvad-news-digest/pkg/feeds"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the process settings loaded from flags, environment variables and configs/.env.
type Config struct {
	AppName             string        `mapstructure:"app_name"`
	Env                 string        `mapstructure:"app_env"`
	LogLevel            string        `mapstructure:"log_level"`
	UserAgent           string        `mapstructure:"user_agent"`
	FetchTimeoutSeconds int64         `mapstructure:"fetch_timeout_seconds"`
	FetchTimeout        time.Duration `mapstructure:"-"`
	FetchWorkers        int           `mapstructure:"fetch_workers"`
	PublishersFile      string        `mapstructure:"publishers_file"`
}

const (
	DefaultUserAgent    = feeds.DefaultUserAgent
	DefaultFetchWorkers = 10
)

// Load reads configuration from environment variables, the optional .env file and bound flags.
// flags may be nil; only flags whose names match a setting key (dashes for underscores) are bound.
func Load(flags *pflag.FlagSet) (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "samvad-news-digest")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("user_agent", DefaultUserAgent)
	v.SetDefault("fetch_timeout_seconds", 30)
	v.SetDefault("fetch_workers", DefaultFetchWorkers)
	v.SetDefault("publishers_file", "")

	v.AutomaticEnv()

	if flags != nil {
		for _, key := range v.AllKeys() {
			if f := flags.Lookup(strings.ReplaceAll(key, "_", "-")); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", f.Name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.FetchTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid fetch_timeout_seconds (must be positive seconds)")
	}
	cfg.FetchTimeout = time.Duration(cfg.FetchTimeoutSeconds) * time.Second

	if cfg.FetchWorkers <= 0 {
		return nil, fmt.Errorf("invalid fetch_workers (must be positive)")
	}
	cfg.UserAgent = strings.TrimSpace(cfg.UserAgent)
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	cfg.PublishersFile = strings.TrimSpace(cfg.PublishersFile)

	return &cfg, nil
}
