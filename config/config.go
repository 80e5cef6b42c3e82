package config

import (
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	errs "sjsage522/fyndworker/pkg/errors"
)

// Hosted instances sometimes ship with the documentation's example webhook
// URL still set; treat it the same as no webhook at all.
const placeholderWebhookURL = "https://discordapp.com/api/webhooks/123456789/abcdefghijklmnopqrstuvwxyz"

// Config represents the application configuration
type Config struct {
	// Listing page configuration
	ListingURL string `validate:"required,url"`
	Timezone   string `validate:"required"`

	// Seen-set store and feed output
	StorePath     string `validate:"required"`
	FeedPath      string `validate:"required"`
	RetentionDays int    `validate:"min=0"`
	FeedWindow    int    `validate:"min=0"`
	FeedEditor    string

	// Run behavior
	CrawlInterval time.Duration
	RunOnce       bool

	// Discord webhook
	WebhookURL       string `validate:"omitempty,url"`
	WebhookPerMinute int    `validate:"min=1"`

	// Memcache configuration (page-response cache)
	MemcacheAddr string
	CacheTTL     time.Duration

	// Redis stream configuration
	RedisAddr            string
	RedisDB              int
	RedisStream          string `validate:"required"`
	RedisStreamCount     int    `validate:"min=1"`
	RedisStreamMaxLength int    `validate:"min=1"`

	// Feed HTTP server; empty disables serving
	ListenAddr string

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() *Config {
	retentionDays, _ := strconv.Atoi(getEnv("RETENTION_DAYS", "0"))
	feedWindow, _ := strconv.Atoi(getEnv("FEED_WINDOW", "0"))
	crawlInterval, _ := strconv.Atoi(getEnv("CRAWL_INTERVAL_SECONDS", "3600"))
	runOnce, _ := strconv.ParseBool(getEnv("RUN_ONCE", "false"))
	webhookPerMinute, _ := strconv.Atoi(getEnv("WEBHOOK_SENDS_PER_MINUTE", "20"))
	cacheTTL, _ := strconv.Atoi(getEnv("CACHE_TTL_SECONDS", "3600"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	redisStreamCount, _ := strconv.Atoi(getEnv("REDIS_STREAM_COUNT", "1"))
	redisStreamMaxLength, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "500"))

	webhookURL := getEnv("DISCORD_WEBHOOK_URL", "")
	if webhookURL == placeholderWebhookURL {
		webhookURL = ""
	}

	return &Config{
		ListingURL:           getEnv("FYND_URL", "https://www.sweclockers.com/dagensfynd"),
		Timezone:             getEnv("TIMEZONE", "Europe/Stockholm"),
		StorePath:            getEnv("SEEN_STORE_PATH", "dagens_fynd.json"),
		FeedPath:             getEnv("FEED_PATH", "dagens_fynd.rss"),
		RetentionDays:        retentionDays,
		FeedWindow:           feedWindow,
		FeedEditor:           getEnv("FEED_EDITOR", ""),
		CrawlInterval:        time.Duration(crawlInterval) * time.Second,
		RunOnce:              runOnce,
		WebhookURL:           webhookURL,
		WebhookPerMinute:     webhookPerMinute,
		MemcacheAddr:         getEnv("MEMCACHE_ADDR", ""),
		CacheTTL:             time.Duration(cacheTTL) * time.Second,
		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "fynddeals"),
		RedisStreamCount:     redisStreamCount,
		RedisStreamMaxLength: redisStreamMaxLength,
		ListenAddr:           getEnv("FEED_LISTEN_ADDR", ""),
		Environment:          getEnv("FYND_ENVIRONMENT", "development"),
	}
}

// Validate checks the configuration against its struct tags
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errs.NewConfiguration("invalid configuration", err)
	}
	if c.CrawlInterval <= 0 {
		return errs.NewConfiguration("crawl interval must be positive", nil)
	}
	return nil
}

// Location resolves the configured timezone. An unknown zone falls back to
// UTC and returns the lookup error so the caller can log it.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC, err
	}
	return loc, nil
}

// Retention returns the seen-set retention window; zero means keep forever
func (c *Config) Retention() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
