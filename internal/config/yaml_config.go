package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"sentidash/internal/models"
)

// YAMLConfig represents the structure of the config.yaml file.
// List-valued analysis settings are easier to manage in YAML than env vars.
type YAMLConfig struct {
	Analysis   AnalysisConfig    `yaml:"analysis"`
	Sentiments []SentimentConfig `yaml:"sentiments"`
}

// AnalysisConfig controls tokenization.
type AnalysisConfig struct {
	Topic          string   `yaml:"topic"`            // Shown next to the word count
	ExcludedTerms  []string `yaml:"excluded_terms"`   // Topic words dropped from the table
	ExtraStopWords []string `yaml:"extra_stop_words"` // e.g. "rt"
	URLPrefixes    []string `yaml:"url_prefixes"`     // Tokens starting with these are dropped
}

// SentimentConfig describes one sentiment label for the legend.
type SentimentConfig struct {
	Label       models.SentimentLabel `yaml:"label"`
	Name        string                `yaml:"name"`
	Description string                `yaml:"description"`
}

// DefaultYAMLConfig returns the settings used when no config file exists.
func DefaultYAMLConfig() *YAMLConfig {
	cfg := &YAMLConfig{}
	cfg.applyDefaults()
	return cfg
}

// LoadYAMLConfig loads the YAML configuration file at path.
// Returns the defaults without error if the file doesn't exist.
func LoadYAMLConfig(path string) (*YAMLConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Config file is optional
			return DefaultYAMLConfig(), nil
		}
		return nil, err
	}

	var cfg YAMLConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *YAMLConfig) applyDefaults() {
	if c.Analysis.Topic == "" {
		c.Analysis.Topic = "climate change"
	}
	if c.Analysis.ExcludedTerms == nil {
		c.Analysis.ExcludedTerms = []string{"climate", "change"}
	}
	if c.Analysis.URLPrefixes == nil {
		c.Analysis.URLPrefixes = []string{"https:"}
	}

	// Fill in any label the file does not describe.
	have := make(map[models.SentimentLabel]bool, len(c.Sentiments))
	for _, s := range c.Sentiments {
		have[s.Label] = true
	}
	for _, d := range defaultSentiments() {
		if !have[d.Label] {
			c.Sentiments = append(c.Sentiments, d)
		}
	}
}

// Sentiment returns the legend entry for a label.
func (c *YAMLConfig) Sentiment(label models.SentimentLabel) SentimentConfig {
	if c != nil {
		for _, s := range c.Sentiments {
			if s.Label == label {
				return s
			}
		}
	}
	return SentimentConfig{Label: label, Name: label.Name()}
}

// Legend returns one legend entry per label, in label order.
func (c *YAMLConfig) Legend() []SentimentConfig {
	legend := make([]SentimentConfig, 0, len(models.Labels()))
	for _, l := range models.Labels() {
		legend = append(legend, c.Sentiment(l))
	}
	return legend
}

func defaultSentiments() []SentimentConfig {
	return []SentimentConfig{
		{Label: models.SentimentNews, Name: "News", Description: "The tweet links to factual news about climate change"},
		{Label: models.SentimentPro, Name: "Pro", Description: "The tweet supports the belief of man-made climate change"},
		{Label: models.SentimentNeutral, Name: "Neutral", Description: "The tweet neither supports nor refutes the belief of man-made climate change"},
		{Label: models.SentimentAnti, Name: "Anti", Description: "The tweet does not believe in man-made climate change"},
	}
}
