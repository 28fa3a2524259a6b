package metrics

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"sentidash/internal/db"
	"sentidash/internal/validation"
)

var (
	keywordLookupDesc = prometheus.NewDesc(
		"sentidash_keyword_lookups_total",
		"Persisted keyword lookup count by outcome",
		[]string{"keyword", "outcome"},
		nil,
	)
)

// Process-local metrics.
var (
	// KeywordQueriesTotal counts keyword explorations by outcome.
	KeywordQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentidash_keyword_queries_total",
			Help: "Keyword queries by outcome (matched, no_match, rejected)",
		},
		[]string{"outcome"},
	)

	// FrequencyCacheTotal counts frequency table cache lookups by result.
	FrequencyCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentidash_frequency_cache_total",
			Help: "Frequency table cache lookups by result (hit_local, hit_shared, miss)",
		},
		[]string{"result"},
	)

	// FrequencyBuildSeconds tracks how long building a frequency table takes.
	FrequencyBuildSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sentidash_frequency_build_seconds",
			Help:    "Time spent tokenizing the dataset into a frequency table",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
	)

	// DatasetRecords is the number of records in the loaded dataset.
	DatasetRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sentidash_dataset_records",
			Help: "Number of records in the loaded dataset",
		},
	)
)

// KeywordCollector is a custom Prometheus collector that reads keyword lookup
// counts from the database on each scrape.
type KeywordCollector struct {
	db *db.DB
}

// Describe sends the metric descriptor to the channel.
func (c *KeywordCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- keywordLookupDesc
}

// Collect queries the database for all keyword lookups and emits them as counters.
func (c *KeywordCollector) Collect(ch chan<- prometheus.Metric) {
	lookups, err := c.db.GetAllKeywordLookups(context.Background())
	if err != nil {
		slog.Error("failed to collect keyword lookup metrics", "error", err)
		return
	}
	for _, l := range lookups {
		ch <- prometheus.MustNewConstMetric(
			keywordLookupDesc,
			prometheus.CounterValue,
			float64(l.Count),
			l.Keyword,
			l.Outcome,
		)
	}
}

// LookupSink persists keyword lookups, typically in batches.
type LookupSink interface {
	Record(keyword, outcome string)
}

var (
	sink     LookupSink
	sinkOnce sync.Once
)

// Init registers the database collector and the lookup sink.
// Must be called once at startup, and only when a database is configured.
func Init(database *db.DB, s LookupSink) {
	sinkOnce.Do(func() {
		sink = s
		prometheus.MustRegister(&KeywordCollector{db: database})
	})
}

// RecordKeywordLookup counts a keyword lookup outcome and forwards it to the
// sink when one is registered. The keyword is forwarded in lookup key form.
func RecordKeywordLookup(keyword, outcome string) {
	KeywordQueriesTotal.WithLabelValues(outcome).Inc()
	if sink == nil {
		return
	}
	sink.Record(validation.LookupKey(keyword), outcome)
}
