package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// AppConfig carries every environment-provided setting the service consumes.
// The API key is deliberately not required here: a missing credential
// surfaces as an invalidApiKey failure on first use, matching how the
// provider itself would reject it.
type AppConfig struct {
	// OpenWeatherMap credential.
	OpenWeatherAPIKey string

	// Response language for provider descriptions (pages are bilingual
	// vi/en; the provider only localizes one of them per request).
	WeatherLang string `validate:"required,len=2"`

	// CacheTTL is how long each cached sub-resource stays valid.
	CacheTTL time.Duration `validate:"required,gt=0"`

	// CacheSweepInterval controls the periodic eviction of expired entries.
	CacheSweepInterval time.Duration `validate:"required,gt=0"`

	// HTTPTimeout bounds each upstream provider call.
	HTTPTimeout time.Duration `validate:"required,gt=0"`

	Port     string `validate:"required"`
	Env      string `validate:"required,oneof=development production test"`
	LogLevel string `validate:"required"`
}

// Load reads configuration from the environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	ttlSeconds := getenvInt("CACHE_TTL_SECONDS", 900)

	sweepStr := getenvDefault("CACHE_SWEEP_INTERVAL", "120s")
	sweep, err := time.ParseDuration(sweepStr)
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_SWEEP_INTERVAL: %w", err)
	}

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}

	cfg := &AppConfig{
		OpenWeatherAPIKey:  os.Getenv("OPENWEATHER_API_KEY"),
		WeatherLang:        getenvDefault("WEATHER_LANG", "vi"),
		CacheTTL:           time.Duration(ttlSeconds) * time.Second,
		CacheSweepInterval: sweep,
		HTTPTimeout:        timeout,
		Port:               getenvDefault("PORT", "8080"),
		Env:                getenvDefault("APP_ENV", "development"),
		LogLevel:           getenvDefault("LOG_LEVEL", "info"),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// IsProduction reports whether the app runs in production, which gates the
// cache maintenance endpoints off.
func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
