package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv        string `env:"APP_ENV" default:"development"`
	Port          string `env:"PORT" default:"8081"`
	MongoURL      string `env:"MONGO_URL" default:"mongodb://127.0.0.1:27017"`
	MongoDatabase string `env:"MONGO_DATABASE" default:"wishlily"`

	ResolverURL     string        `env:"RESOLVER_URL"`
	ResolverLocale  string        `env:"RESOLVER_LOCALE" default:"en-US"`
	ResolverTimeout time.Duration `env:"RESOLVER_TIMEOUT" default:"10s"`

	ImageCDNURL string `env:"IMAGE_CDN_URL" default:"https://imagecdn.app"`

	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	required := map[string]string{
		"MONGO_URL":    cfg.MongoURL,
		"RESOLVER_URL": cfg.ResolverURL,
	}
	for name, value := range required {
		if value == "" {
			return fmt.Errorf("%s is required", name)
		}
	}

	if cfg.ResolverTimeout <= 0 {
		return fmt.Errorf("RESOLVER_TIMEOUT must be positive, got %s", cfg.ResolverTimeout)
	}

	return nil
}

// IsProduction reports whether the service runs with production wiring.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
