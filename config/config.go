package config

import (
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/KamilKwapisz/car-prices/pkg/errors"
)

// Config represents the application configuration
type Config struct {
	// Crawl configuration
	StartingURL string
	PagesLimit  int

	// Storage configuration
	OutputFile  string
	PostgresDSN string

	// HTTP configuration
	RequestTimeout time.Duration
	FetchCooldown  time.Duration
	FetchRetries   int

	// Optional services
	MemcacheAddr string
	RedisAddr    string
	RedisDB      int
	RedisStream  string

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	pagesLimit, _ := strconv.Atoi(getEnv("PAGES_LIMIT", "1"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	requestTimeout, _ := strconv.Atoi(getEnv("HTTP_TIMEOUT_SECONDS", "10"))
	fetchCooldown, _ := strconv.Atoi(getEnv("FETCH_COOLDOWN_SECONDS", "300"))
	fetchRetries, _ := strconv.Atoi(getEnv("FETCH_RETRIES", "0"))

	return Config{
		StartingURL:    getEnv("STARTING_URL", "https://www.otomoto.pl/osobowe/volkswagen/golf/?page=1"),
		PagesLimit:     pagesLimit,
		OutputFile:     getEnv("OUTPUT_FILE", "cars.csv"),
		PostgresDSN:    getEnv("POSTGRES_DSN", ""),
		RequestTimeout: time.Duration(requestTimeout) * time.Second,
		FetchCooldown:  time.Duration(fetchCooldown) * time.Second,
		FetchRetries:   fetchRetries,
		MemcacheAddr:   getEnv("MEMCACHE_ADDR", ""),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisDB:        redisDB,
		RedisStream:    getEnv("REDIS_STREAM", "car_records"),
		Environment:    getEnv("CAR_PRICES_ENVIRONMENT", "development"),
	}
}

// Validate checks that the configuration can drive a crawl
func (c *Config) Validate() error {
	parsed, err := url.Parse(c.StartingURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return errors.NewConfiguration("STARTING_URL must be an absolute search-results URL", err)
	}
	if c.PagesLimit < 1 {
		return errors.NewConfiguration("PAGES_LIMIT must be at least 1", nil)
	}
	if c.OutputFile == "" {
		return errors.NewConfiguration("OUTPUT_FILE must not be empty", nil)
	}
	if c.RequestTimeout <= 0 {
		return errors.NewConfiguration("HTTP_TIMEOUT_SECONDS must be positive", nil)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
