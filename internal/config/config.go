package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Data source names.
const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr string
	BaseURL    string

	// Data
	DataSource  string // "csv" or "postgres"
	DataFile    string // CSV path when DataSource is csv, and the import source
	DatasetName string // Dataset name in Postgres

	// Database (optional unless DataSource is postgres)
	DatabaseURL string

	// Redis (optional; shared frequency cache and session storage)
	RedisURL      string
	CacheTTL      time.Duration
	FlushInterval time.Duration // keyword lookup flush interval

	// OIDC (optional; dashboard is public when OIDCIssuer is empty)
	OIDCIssuer       string
	OIDCClientID     string
	OIDCClientSecret string
	OIDCRedirectURL  string

	// Session
	SessionSecret string // Used for encrypting cookies (min 32 chars)

	// CORS
	CORSOrigins string // Comma-separated allowed origins

	// Rate limiting
	RateLimit int // requests per minute per IP

	// Logging
	LogLevel  string
	LogFormat string

	// Analysis
	ConfigFile    string // YAML file with analysis settings
	StopWords     string // "builtin" or "bbalet"
	CloudMaxWords int

	// Site Branding
	SiteTitle   string // env: SITE_TITLE
	SiteTagline string // env: SITE_TAGLINE
	SiteFooter  string // env: SITE_FOOTER
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is loaded first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Env:              getEnv("ENV", "development"),
		ServerAddr:       getEnv("SERVER_ADDR", ":3000"),
		BaseURL:          getEnv("BASE_URL", "http://localhost:3000"),
		DataSource:       strings.ToLower(getEnv("DATA_SOURCE", SourceCSV)),
		DataFile:         getEnv("DATA_FILE", "twitter_sentiment_data.csv"),
		DatasetName:      getEnv("DATASET_NAME", "climate"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		RedisURL:         getEnv("REDIS_URL", ""),
		CacheTTL:         getEnvDuration("CACHE_TTL", 24*time.Hour),
		FlushInterval:    getEnvDuration("LOOKUP_FLUSH_INTERVAL", 10*time.Second),
		OIDCIssuer:       getEnv("OIDC_ISSUER", ""),
		OIDCClientID:     getEnv("OIDC_CLIENT_ID", ""),
		OIDCClientSecret: getEnv("OIDC_CLIENT_SECRET", ""),
		OIDCRedirectURL:  getEnv("OIDC_REDIRECT_URL", "http://localhost:3000/auth/callback"),
		SessionSecret:    getEnv("SESSION_SECRET", "change-me-in-production-min-32-chars"),
		CORSOrigins:      getEnv("CORS_ORIGINS", ""),
		RateLimit:        getEnvInt("RATE_LIMIT", 100),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "text"),
		ConfigFile:       getEnv("CONFIG_FILE", "config.yaml"),
		StopWords:        getEnv("STOPWORDS", "builtin"),
		CloudMaxWords:    getEnvInt("CLOUD_MAX_WORDS", 200),

		SiteTitle:   getEnv("SITE_TITLE", "Semantic Analysis of Twitter Posts on Climate Change"),
		SiteTagline: getEnv("SITE_TAGLINE", "Word frequency and sentiment explorer"),
		SiteFooter:  getEnv("SITE_FOOTER", "SentiDash"),
	}
}

// Validate reports configuration errors that must stop startup.
func (c *Config) Validate() error {
	var errs []error

	switch c.DataSource {
	case SourceCSV:
		if c.DataFile == "" {
			errs = append(errs, errors.New("DATA_FILE is required when DATA_SOURCE=csv"))
		}
	case SourcePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when DATA_SOURCE=postgres"))
		}
		if c.DatasetName == "" {
			errs = append(errs, errors.New("DATASET_NAME is required when DATA_SOURCE=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown DATA_SOURCE %q (want csv or postgres)", c.DataSource))
	}

	switch strings.ToLower(c.StopWords) {
	case "builtin", "bbalet":
	default:
		errs = append(errs, fmt.Errorf("unknown STOPWORDS %q (want builtin or bbalet)", c.StopWords))
	}

	if !c.IsDev() && len(c.SessionSecret) < 32 {
		errs = append(errs, errors.New("SESSION_SECRET must be at least 32 characters in production"))
	}
	if c.OIDCIssuer != "" && c.OIDCClientID == "" {
		errs = append(errs, errors.New("OIDC_CLIENT_ID is required when OIDC_ISSUER is set"))
	}
	if c.RateLimit <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT must be positive"))
	}
	if c.FlushInterval <= 0 {
		errs = append(errs, errors.New("LOOKUP_FLUSH_INTERVAL must be positive"))
	}
	if c.CacheTTL < 0 {
		errs = append(errs, errors.New("CACHE_TTL must not be negative"))
	}
	if c.CloudMaxWords <= 0 {
		errs = append(errs, errors.New("CLOUD_MAX_WORDS must be positive"))
	}

	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// AuthEnabled returns true when OIDC login is configured.
func (c *Config) AuthEnabled() bool {
	return c.OIDCIssuer != ""
}
