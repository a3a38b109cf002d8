package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/dharmasatrya/flightfinder/internal/amadeus"
	"github.com/dharmasatrya/flightfinder/pkg/currency"
)

type Config struct {
	Port      string `toml:"port"`
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`

	Amadeus  AmadeusConfig  `toml:"amadeus"`
	Provider ProviderConfig `toml:"provider"`
	Client   ClientConfig   `toml:"client"`

	ExchangeRateEURUSD float64 `toml:"exchange_rate_eur_usd"`
}

type AmadeusConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	BaseURL      string `toml:"base_url"`
}

// ProviderConfig paces and bounds outbound provider calls.
type ProviderConfig struct {
	Timeout    Duration `toml:"timeout"`
	MaxRetries int      `toml:"max_retries"`
	RPS        float64  `toml:"rps"`
	Burst      int      `toml:"burst"`
}

// ClientConfig limits inbound requests per client IP.
type ClientConfig struct {
	RPS   float64 `toml:"rps"`
	Burst int     `toml:"burst"`
}

// Duration lets TOML files spell durations as "10s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func Default() Config {
	return Config{
		Port:      "8080",
		LogLevel:  "info",
		LogFormat: "json",
		Amadeus: AmadeusConfig{
			BaseURL: amadeus.DefaultBaseURL,
		},
		Provider: ProviderConfig{
			Timeout:    Duration{10 * time.Second},
			MaxRetries: 1,
			RPS:        10,
			Burst:      10,
		},
		Client: ClientConfig{
			RPS:   20,
			Burst: 40,
		},
		ExchangeRateEURUSD: currency.DefaultEURToUSD,
	}
}

// Load builds the configuration from defaults, the TOML file named by
// CONFIG_FILE, a .env file in the working directory and finally the
// process environment. Variables already set in the environment are never
// overridden by .env.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg, os.LookupEnv)

	if !currency.ValidRate(cfg.ExchangeRateEURUSD) {
		cfg.ExchangeRateEURUSD = currency.DefaultEURToUSD
	}
	return cfg, nil
}

type lookupFunc func(key string) (string, bool)

func applyEnv(cfg *Config, lookup lookupFunc) {
	setString(lookup, "PORT", &cfg.Port)
	setString(lookup, "LOG_LEVEL", &cfg.LogLevel)
	setString(lookup, "LOG_FORMAT", &cfg.LogFormat)

	setString(lookup, "AMADEUS_CLIENT_ID", &cfg.Amadeus.ClientID)
	setString(lookup, "AMADEUS_CLIENT_SECRET", &cfg.Amadeus.ClientSecret)
	setString(lookup, "AMADEUS_BASE_URL", &cfg.Amadeus.BaseURL)

	if v, ok := lookup("EXCHANGE_RATE_EUR_USD"); ok {
		if rate, ok := currency.ParseRate(v); ok {
			cfg.ExchangeRateEURUSD = rate
		}
	}

	if v, ok := lookup("PROVIDER_TIMEOUT"); ok {
		if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil && d > 0 {
			cfg.Provider.Timeout = Duration{d}
		}
	}
	setInt(lookup, "PROVIDER_MAX_RETRIES", &cfg.Provider.MaxRetries)
	setFloat(lookup, "PROVIDER_RPS", &cfg.Provider.RPS)
	setInt(lookup, "PROVIDER_BURST", &cfg.Provider.Burst)
	setFloat(lookup, "CLIENT_RPS", &cfg.Client.RPS)
	setInt(lookup, "CLIENT_BURST", &cfg.Client.Burst)
}

func setString(lookup lookupFunc, key string, dst *string) {
	if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
		*dst = strings.TrimSpace(v)
	}
}

func setInt(lookup lookupFunc, key string, dst *int) {
	if v, ok := lookup(key); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n >= 0 {
			*dst = n
		}
	}
}

func setFloat(lookup lookupFunc, key string, dst *float64) {
	if v, ok := lookup(key); ok {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil && f > 0 {
			*dst = f
		}
	}
}

// LiveEnabled reports whether provider credentials are configured.
func (c Config) LiveEnabled() bool {
	return strings.TrimSpace(c.Amadeus.ClientID) != "" && strings.TrimSpace(c.Amadeus.ClientSecret) != ""
}
