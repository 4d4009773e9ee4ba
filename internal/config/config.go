package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port                 string        `env:"PORT" envDefault:"3001"`
	CatalogPath          string        `env:"CATALOG_PATH" envDefault:"products.json"`
	MetalPriceAPIKey     string        `env:"METAL_PRICE_API_KEY"`
	MetalPriceAPIURL     string        `env:"METAL_PRICE_API_URL" envDefault:"https://api.metalpriceapi.com/v1/latest"`
	FallbackGoldPrice    float64       `env:"FALLBACK_GOLD_PRICE" envDefault:"20"`
	QuoteRefreshInterval time.Duration `env:"QUOTE_REFRESH_INTERVAL" envDefault:"0s"`
	QuoteTimeout         time.Duration `env:"QUOTE_TIMEOUT" envDefault:"0s"`
	RedisURL             string        `env:"REDIS_URL"`
	MetricsPort          string        `env:"METRICS_PORT" envDefault:"9090"`
	LogLevel             string        `env:"LOG_LEVEL" envDefault:"info"`
	StaticDir            string        `env:"STATIC_DIR"`
}

func Load() (*Config, error) {
	// Project root .env when running from cmd/<bin>, then the working dir.
	_ = godotenv.Load("../../.env")
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.FallbackGoldPrice <= 0 {
		return nil, fmt.Errorf("FALLBACK_GOLD_PRICE must be positive, got %v", cfg.FallbackGoldPrice)
	}
	if cfg.QuoteRefreshInterval < 0 || cfg.QuoteTimeout < 0 {
		return nil, fmt.Errorf("quote durations must not be negative")
	}
	return cfg, nil
}
