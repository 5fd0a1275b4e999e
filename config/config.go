// Package config loads the settings of the tbk tool from the environment.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/etnz/tradebook"
	"github.com/joho/godotenv"
)

const (
	defaultCurrency   = "USD"
	defaultKafkaTopic = "transaction_recorded"
	defaultLogLevel   = "info"
)

// Config holds the tool settings.
type Config struct {
	Currency          string
	CurrencyPrecision int // -1 when the currency minor unit is used
	AssetPrecision    int
	KafkaBrokers      []string
	KafkaTopic        string
	LogLevel          string
}

// Load reads the ".env" file of the working directory, if any, then the
// environment:
//
//	TBK_CURRENCY            ISO 4217 code, default USD
//	TBK_CURRENCY_PRECISION  fractional digits of amounts, default from currency
//	TBK_ASSET_PRECISION     fractional digits of quantities, default 8
//	TBK_KAFKA_BROKERS       comma separated brokers, publishing is off if empty
//	TBK_KAFKA_TOPIC         default transaction_recorded
//	TBK_LOG_LEVEL           debug or info
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function such as os.Getenv.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		Currency:          defaultCurrency,
		CurrencyPrecision: -1,
		AssetPrecision:    tradebook.DefaultAssetPrecision,
		KafkaTopic:        defaultKafkaTopic,
		LogLevel:          defaultLogLevel,
	}

	if v := strings.TrimSpace(getenv("TBK_CURRENCY")); v != "" {
		cfg.Currency = strings.ToUpper(v)
	}
	if v := strings.TrimSpace(getenv("TBK_CURRENCY_PRECISION")); v != "" {
		p, err := tradebook.ParsePrecision(v)
		if err != nil {
			return Config{}, err
		}
		cfg.CurrencyPrecision = p
	}
	if v := strings.TrimSpace(getenv("TBK_ASSET_PRECISION")); v != "" {
		p, err := tradebook.ParsePrecision(v)
		if err != nil {
			return Config{}, err
		}
		cfg.AssetPrecision = p
	}
	for _, b := range strings.Split(getenv("TBK_KAFKA_BROKERS"), ",") {
		if b = strings.TrimSpace(b); b != "" {
			cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
		}
	}
	if v := strings.TrimSpace(getenv("TBK_KAFKA_TOPIC")); v != "" {
		cfg.KafkaTopic = v
	}
	if v := strings.TrimSpace(getenv("TBK_LOG_LEVEL")); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	return cfg, nil
}

// LedgerOptions returns the ledger options matching the settings. An explicit
// currency precision overrides the currency minor unit.
func (c Config) LedgerOptions() []tradebook.Option {
	opts := []tradebook.Option{
		tradebook.WithCurrency(c.Currency),
		tradebook.WithAssetPrecision(c.AssetPrecision),
	}
	if c.CurrencyPrecision >= 0 {
		opts = append(opts, tradebook.WithCurrencyPrecision(c.CurrencyPrecision))
	}
	return opts
}
