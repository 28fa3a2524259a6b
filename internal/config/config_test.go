package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentidash/internal/models"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATA_SOURCE", "")
	t.Setenv("RATE_LIMIT", "")
	t.Setenv("CACHE_TTL", "")
	t.Setenv("LOOKUP_FLUSH_INTERVAL", "")

	cfg := Load()
	assert.Equal(t, SourceCSV, cfg.DataSource)
	assert.Equal(t, 100, cfg.RateLimit)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL)
	assert.Equal(t, 10*time.Second, cfg.FlushInterval)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATA_SOURCE", "Postgres")
	t.Setenv("RATE_LIMIT", "7")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("CLOUD_MAX_WORDS", "not-a-number")

	cfg := Load()
	assert.Equal(t, SourcePostgres, cfg.DataSource)
	assert.Equal(t, 7, cfg.RateLimit)
	assert.Equal(t, 90*time.Second, cfg.CacheTTL)
	assert.Equal(t, 200, cfg.CloudMaxWords, "unparseable value falls back")
}

func validConfig() *Config {
	return &Config{
		Env:           "development",
		DataSource:    SourceCSV,
		DataFile:      "posts.csv",
		StopWords:     "builtin",
		RateLimit:     100,
		CloudMaxWords: 200,
		CacheTTL:      time.Hour,
		FlushInterval: 10 * time.Second,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"zero cache ttl means no expiry", func(c *Config) { c.CacheTTL = 0 }, ""},
		{"postgres without url", func(c *Config) { c.DataSource = SourcePostgres; c.DatasetName = "x" }, "DATABASE_URL"},
		{"unknown source", func(c *Config) { c.DataSource = "s3" }, "DATA_SOURCE"},
		{"unknown stopwords", func(c *Config) { c.StopWords = "nltk" }, "STOPWORDS"},
		{"short secret in production", func(c *Config) { c.Env = "production"; c.SessionSecret = "short" }, "SESSION_SECRET"},
		{"issuer without client", func(c *Config) { c.OIDCIssuer = "https://id.example.com" }, "OIDC_CLIENT_ID"},
		{"zero rate limit", func(c *Config) { c.RateLimit = 0 }, "RATE_LIMIT"},
		{"zero flush interval", func(c *Config) { c.FlushInterval = 0 }, "LOOKUP_FLUSH_INTERVAL"},
		{"negative flush interval", func(c *Config) { c.FlushInterval = -time.Second }, "LOOKUP_FLUSH_INTERVAL"},
		{"negative cache ttl", func(c *Config) { c.CacheTTL = -time.Minute }, "CACHE_TTL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_ZeroFlushIntervalFromEnv(t *testing.T) {
	t.Setenv("LOOKUP_FLUSH_INTERVAL", "0s")

	cfg := Load()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOOKUP_FLUSH_INTERVAL")
}

func TestLoadYAMLConfig_Missing(t *testing.T) {
	cfg, err := LoadYAMLConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, []string{"climate", "change"}, cfg.Analysis.ExcludedTerms)
	assert.Len(t, cfg.Legend(), 4)
}

func TestLoadYAMLConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
analysis:
  topic: global warming
  excluded_terms: [global, warming]
  extra_stop_words: [rt, amp]
  url_prefixes: []
sentiments:
  - label: -1
    name: Denier
    description: Rejects the consensus
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadYAMLConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "global warming", cfg.Analysis.Topic)
	assert.Equal(t, []string{"rt", "amp"}, cfg.Analysis.ExtraStopWords)
	assert.NotNil(t, cfg.Analysis.URLPrefixes, "explicit empty list must be kept")
	assert.Empty(t, cfg.Analysis.URLPrefixes)
	assert.Equal(t, "Denier", cfg.Sentiment(models.SentimentAnti).Name)
	assert.Equal(t, "News", cfg.Sentiment(models.SentimentNews).Name)

	legend := cfg.Legend()
	assert.Equal(t, models.SentimentAnti, legend[0].Label)
	assert.Equal(t, models.SentimentNews, legend[3].Label)
}

func TestLoadYAMLConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("analysis: [unclosed"), 0o600))

	_, err := LoadYAMLConfig(path)
	assert.Error(t, err)
}
