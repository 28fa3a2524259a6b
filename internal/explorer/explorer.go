// Package explorer runs one dashboard interaction end to end: it resolves
// the memoized frequency table, then answers keyword queries against the
// immutable dataset.
package explorer

import (
	"context"
	"errors"
	"sync"

	"sentidash/internal/analysis"
	"sentidash/internal/cache"
	"sentidash/internal/dataset"
	"sentidash/internal/models"
	"sentidash/internal/validation"
	"sentidash/internal/wordcloud"
)

// ErrInvalidKeyword wraps keyword validation failures.
var ErrInvalidKeyword = errors.New("invalid keyword")

// State tells the presentation layer which keyword view to render.
type State int

// Report states. StateNoQuery and StateNoMatches are deliberately distinct.
const (
	StateNoQuery State = iota
	StateNoMatches
	StateMatched
)

func (s State) String() string {
	switch s {
	case StateNoQuery:
		return "no_query"
	case StateNoMatches:
		return "no_matches"
	case StateMatched:
		return "matched"
	default:
		return "unknown"
	}
}

// Overview is the keyword-independent part of the dashboard.
type Overview struct {
	DatasetID   string
	Records     int
	TotalTokens int
	Excluded    []string
	Cloud       []wordcloud.Word
}

// Report is the keyword section of the dashboard.
type Report struct {
	State   State
	Keyword string
	// Frequency is the keyword's count in the frequency table.
	Frequency    int
	Distribution analysis.Distribution
	// Matches are deduplicated by text.
	Matches []models.Record
	// Selected is the caller's sentiment filter; Filtered is only set
	// when Selected is non-nil.
	Selected *models.SentimentLabel
	Filtered []models.Record
}

// FilteredEmpty reports whether a sentiment filter is selected but no post
// carries it.
func (r *Report) FilteredEmpty() bool {
	return r.Selected != nil && len(r.Filtered) == 0
}

// Explorer answers dashboard queries over one dataset.
type Explorer struct {
	dataset   *dataset.Dataset
	filter    *analysis.Filter
	cache     *cache.FrequencyCache
	cloudOpts wordcloud.Options

	mu    sync.Mutex
	cloud map[string][]wordcloud.Word
}

// New creates an explorer. The dataset must not be modified afterwards.
func New(ds *dataset.Dataset, filter *analysis.Filter, fc *cache.FrequencyCache, cloudOpts wordcloud.Options) *Explorer {
	return &Explorer{
		dataset:   ds,
		filter:    filter,
		cache:     fc,
		cloudOpts: cloudOpts,
		cloud:     make(map[string][]wordcloud.Word),
	}
}

// Dataset returns the dataset being explored.
func (e *Explorer) Dataset() *dataset.Dataset {
	return e.dataset
}

func (e *Explorer) cacheKey() string {
	return cache.Key(e.dataset.ID, e.filter.Fingerprint())
}

// Frequencies returns the memoized frequency table of the dataset.
func (e *Explorer) Frequencies(ctx context.Context) (analysis.FrequencyTable, error) {
	return e.cache.Get(ctx, e.cacheKey(), func() analysis.FrequencyTable {
		return analysis.Aggregate(e.dataset.Records, e.filter)
	})
}

// Overview returns the totals and word cloud of the dataset.
func (e *Explorer) Overview(ctx context.Context) (*Overview, error) {
	table, err := e.Frequencies(ctx)
	if err != nil {
		return nil, err
	}
	return &Overview{
		DatasetID:   e.dataset.ID,
		Records:     e.dataset.Len(),
		TotalTokens: table.Total(),
		Excluded:    e.filter.ExcludedTerms(),
		Cloud:       e.wordCloud(table),
	}, nil
}

func (e *Explorer) wordCloud(table analysis.FrequencyTable) []wordcloud.Word {
	key := e.cacheKey()
	e.mu.Lock()
	defer e.mu.Unlock()
	if words, ok := e.cloud[key]; ok {
		return words
	}
	words := wordcloud.Build(table, e.cloudOpts)
	e.cloud[key] = words
	return words
}

// Explore runs a keyword query. A blank keyword yields StateNoQuery and no
// error; an invalid one yields ErrInvalidKeyword.
func (e *Explorer) Explore(ctx context.Context, keyword string, selected *models.SentimentLabel) (*Report, error) {
	keyword = validation.NormalizeKeyword(keyword)
	report := &Report{State: StateNoQuery, Keyword: keyword, Selected: selected}
	if keyword == "" {
		return report, nil
	}
	if ok, msg := validation.ValidateKeyword(keyword); !ok {
		return nil, errors.Join(ErrInvalidKeyword, errors.New(msg))
	}

	table, err := e.Frequencies(ctx)
	if err != nil {
		return nil, err
	}
	report.Frequency = table.Count(keyword)

	records := e.dataset.Records
	dist, err := analysis.SentimentDistribution(records, keyword)
	if errors.Is(err, analysis.ErrEmptyResult) {
		report.State = StateNoMatches
		return report, nil
	}
	if err != nil {
		return nil, err
	}
	report.State = StateMatched
	report.Distribution = dist

	if report.Matches, err = analysis.MatchingRecords(records, keyword); err != nil {
		return nil, err
	}
	if selected != nil {
		if report.Filtered, err = analysis.FilterBySentiment(records, keyword, *selected); err != nil {
			return nil, err
		}
	}
	return report, nil
}

// Posts returns the deduplicated posts matching keyword with the given label.
func (e *Explorer) Posts(keyword string, label models.SentimentLabel) ([]models.Record, error) {
	keyword = validation.NormalizeKeyword(keyword)
	if ok, msg := validation.ValidateKeyword(keyword); !ok {
		if keyword == "" {
			return nil, analysis.ErrEmptyKeyword
		}
		return nil, errors.Join(ErrInvalidKeyword, errors.New(msg))
	}
	return analysis.FilterBySentiment(e.dataset.Records, keyword, label)
}

// ClearCache drops the memoized frequency tables and word clouds.
func (e *Explorer) ClearCache() error {
	e.mu.Lock()
	e.cloud = make(map[string][]wordcloud.Word)
	e.mu.Unlock()
	return e.cache.Clear()
}
