package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	GinMode     string
	CORSOrigins []string

	MongoURI string
	DBName   string

	// Redis Configuration
	RedisURL      string
	RedisPassword string
	RedisDB       int

	// LinkedIn upstream
	LinkedInClientID     string
	LinkedInClientSecret string
	LinkedInServiceToken string
	LinkedInAPIBaseURL   string
	LinkedInTokenURL     string
	LinkedInVersion      string
	UpstreamTimeout      time.Duration
	TokenExpiryBuffer    time.Duration

	// Feed ownership and hashtag
	OwnerURN         string
	OwnerHandle      string
	OwnerDisplayName string
	Hashtag          string

	// Aggregation budgets
	PinLimit            int
	MaxFeedTotal        int
	MaxUpstreamRequests int
	UpstreamPageLimit   int

	// Store sync
	SyncEnabled  bool
	SyncInterval time.Duration

	// Rate limiting
	RateLimitReqs   int
	RateLimitWindow int

	// JWT access secret for write endpoints
	AccessSecret string
}

func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("error loading .env file: %v", err)
		}
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		GinMode:     getEnv("GIN_MODE", "debug"),
		CORSOrigins: strings.Split(getEnv("CORS_ORIGINS", "*"), ","),

		MongoURI: getEnv("MONGO_URI", "mongodb://localhost:27017/hashtag_feed"),
		DBName:   getEnv("DB_NAME", "hashtag_feed"),

		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		LinkedInClientID:     getEnv("LINKEDIN_CLIENT_ID", ""),
		LinkedInClientSecret: getEnv("LINKEDIN_CLIENT_SECRET", ""),
		LinkedInServiceToken: getEnv("LINKEDIN_SERVICE_ACCESS_TOKEN", ""),
		LinkedInAPIBaseURL:   getEnv("LINKEDIN_API_BASE_URL", "https://api.linkedin.com"),
		LinkedInTokenURL:     getEnv("LINKEDIN_TOKEN_URL", "https://www.linkedin.com/oauth/v2/accessToken"),
		LinkedInVersion:      getEnv("LINKEDIN_VERSION", "202412"),
		UpstreamTimeout:      getEnvDuration("UPSTREAM_TIMEOUT", 10*time.Second),
		TokenExpiryBuffer:    getEnvDuration("TOKEN_EXPIRY_BUFFER", 30*time.Second),

		OwnerURN:         getEnv("LINKEDIN_OWNER_URN", "urn:li:person:michaelsimoneau"),
		OwnerHandle:      getEnv("LINKEDIN_OWNER_HANDLE", "michaelsimoneau"),
		OwnerDisplayName: getEnv("LINKEDIN_OWNER_NAME", "Michael Simoneau"),
		Hashtag:          getEnv("FEED_HASHTAG", "#1ProTip"),

		PinLimit:            getEnvInt("FEED_PIN_LIMIT", 10),
		MaxFeedTotal:        getEnvInt("FEED_MAX_TOTAL", 100),
		MaxUpstreamRequests: getEnvInt("FEED_MAX_REQUESTS", 5),
		UpstreamPageLimit:   getEnvInt("FEED_UPSTREAM_PAGE_LIMIT", 50),

		SyncEnabled:  getEnvBool("FEED_SYNC_ENABLED", true),
		SyncInterval: getEnvDuration("FEED_SYNC_INTERVAL", 15*time.Minute),

		RateLimitReqs:   getEnvInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow: getEnvInt("RATE_LIMIT_WINDOW", 60),

		AccessSecret: getEnv("ACCESS_SECRET", ""),
	}

	if cfg.PinLimit < 0 {
		return nil, fmt.Errorf("FEED_PIN_LIMIT must not be negative")
	}
	if cfg.MaxFeedTotal <= 0 || cfg.MaxUpstreamRequests <= 0 {
		return nil, fmt.Errorf("FEED_MAX_TOTAL and FEED_MAX_REQUESTS must be positive")
	}

	// LinkedIn credentials are validated at request time, not here: the
	// feed endpoint surfaces missing credentials as a distinct error so
	// operators can tell "not configured" apart from "upstream rejected us".
	return cfg, nil
}

// HasUpstreamCredentials reports whether any usable LinkedIn credential is set.
func (c *Config) HasUpstreamCredentials() bool {
	return c.LinkedInServiceToken != "" || (c.LinkedInClientID != "" && c.LinkedInClientSecret != "")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
