// Package config reads the pcs configuration from a file, a .env file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Currency        string        `mapstructure:"currency"`
	Store           string        `mapstructure:"store"` // file, sqlite or memory
	Path            string        `mapstructure:"path"`
	StrictCash      bool          `mapstructure:"strict_cash"`
	RefreshOnChange bool          `mapstructure:"refresh_on_change"`
	Quotes          QuotesConfig  `mapstructure:"quotes"`
	Advisor         AdvisorConfig `mapstructure:"advisor"`
}

type QuotesConfig struct {
	Provider   string        `mapstructure:"provider"` // alphavantage or eodhd
	APIKey     string        `mapstructure:"api_key"`
	EODHDToken string        `mapstructure:"eodhd_token"`
	BaseURL    string        `mapstructure:"base_url"`
	BatchSize  int           `mapstructure:"batch_size"`
	BatchDelay time.Duration `mapstructure:"batch_delay"`
	CacheTTL   time.Duration `mapstructure:"cache_ttl"`
}

type AdvisorConfig struct {
	Model string `mapstructure:"model"`
}

// Quote providers.
const (
	ProviderAlphaVantage = "alphavantage"
	ProviderEODHD        = "eodhd"
)

// Store kinds.
const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

// StorePath returns the configured path, or the default one for the store kind.
func (c *Config) StorePath() string {
	if c.Path != "" {
		return c.Path
	}
	if c.Store == StoreSQLite {
		return "folio.db"
	}
	return "portfolio_data.json"
}

// Load reads the configuration.
//
// If file is empty, an optional "pcs" config file (yaml, json or toml) is
// searched in the current folder. A .env file is loaded into the environment
// first. The Alpha Vantage key is read from ALPHA_VANTAGE_API_KEY or, for
// compatibility, VITE_ALPHA_VANTAGE_API_KEY, and the EODHD token from
// EODHD_API_TOKEN.
func Load(file string) (*Config, error) {
	v := viper.New()

	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment variables")
	}

	v.SetDefault("currency", "USD")
	v.SetDefault("store", StoreFile)
	v.SetDefault("path", "")
	v.SetDefault("strict_cash", false)
	v.SetDefault("refresh_on_change", true)
	v.SetDefault("quotes.provider", ProviderAlphaVantage)
	v.SetDefault("quotes.base_url", "")
	v.SetDefault("quotes.batch_size", 5)
	v.SetDefault("quotes.batch_delay", 2*time.Second)
	v.SetDefault("quotes.cache_ttl", 10*time.Second)
	v.SetDefault("advisor.model", "gemini-2.5-flash")

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("cannot read config file %q: %w", file, err)
		}
	} else {
		v.SetConfigName("pcs")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("cannot read config file: %w", err)
			}
		}
	}

	if err := v.BindEnv("quotes.api_key", "ALPHA_VANTAGE_API_KEY", "VITE_ALPHA_VANTAGE_API_KEY"); err != nil {
		return nil, err
	}
	if err := v.BindEnv("quotes.eodhd_token", "EODHD_API_TOKEN"); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	cfg.Currency = strings.ToUpper(cfg.Currency)

	cfg.Quotes.Provider = strings.ToLower(cfg.Quotes.Provider)
	switch cfg.Quotes.Provider {
	case ProviderAlphaVantage, ProviderEODHD:
	default:
		return nil, fmt.Errorf("invalid quotes provider %q, want %s or %s", cfg.Quotes.Provider, ProviderAlphaVantage, ProviderEODHD)
	}

	switch cfg.Store {
	case StoreFile, StoreSQLite, StoreMemory:
	default:
		return nil, fmt.Errorf("invalid store %q, want %s, %s or %s", cfg.Store, StoreFile, StoreSQLite, StoreMemory)
	}
	return &cfg, nil
}
